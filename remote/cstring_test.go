package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewANSI(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"", []byte{0}},
		{"Strip[0].gain", append([]byte("Strip[0].gain"), 0)},
		{"Café", []byte{'C', 'a', 'f', 0xE9, 0}},
		{"€5", []byte{0x80, '5', 0}},
		{"日本", []byte{'?', '?', 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewANSI(tt.in), "NewANSI(%q)", tt.in)
	}
}

func TestANSIString(t *testing.T) {
	assert.Equal(t, "Café", ANSIString([]byte{'C', 'a', 'f', 0xE9, 0, 'x', 'y'}))
	assert.Equal(t, "no nul", ANSIString([]byte("no nul")))
	assert.Empty(t, ANSIString(make([]byte, 8)))
}

func TestWide(t *testing.T) {
	for _, s := range []string{"", "Bus[0].label", "Réseau", "マイク", "🎚 fader"} {
		buf := NewWide(s)
		assert.Zero(t, buf[len(buf)-1], "missing NUL for %q", s)
		assert.Equal(t, s, WideString(buf))
	}
	// surrogate pair takes two units
	assert.Len(t, NewWide("🎚"), 3)
}

func TestCopyANSI(t *testing.T) {
	dst := make([]byte, 5)
	CopyANSI(dst, "abcdefgh")
	assert.Equal(t, []byte{'a', 'b', 'c', 'd', 0}, dst)

	dst = []byte{'x', 'x', 'x', 'x'}
	CopyANSI(dst, "é")
	assert.Equal(t, "é", ANSIString(dst))

	CopyANSI(nil, "ignored")
}

func TestCopyWide(t *testing.T) {
	dst := make([]uint16, 4)
	CopyWide(dst, "Speakers")
	assert.Equal(t, "Spe", WideString(dst))

	dst = make([]uint16, StringLen)
	CopyWide(dst, "Réseau")
	assert.Equal(t, "Réseau", WideString(dst))
}
