package remote

import (
	"bytes"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

// The A variants of the remote API take strings in the ANSI code page.
var ansi = charmap.Windows1252

// NewANSI encodes s as a NUL-terminated Windows-1252 buffer. Runes outside
// the code page become '?'.
func NewANSI(s string) []byte {
	buf := make([]byte, 0, len(s)+1)
	for _, r := range s {
		b, ok := ansi.EncodeRune(r)
		if !ok {
			b = '?'
		}
		buf = append(buf, b)
	}
	return append(buf, 0)
}

// ANSIString decodes a NUL-terminated Windows-1252 buffer filled by the
// engine. Bytes after the first NUL are ignored.
func ANSIString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	out, err := ansi.NewDecoder().Bytes(buf)
	if err != nil {
		return string(buf)
	}
	return string(out)
}

// NewWide encodes s as a NUL-terminated UTF-16 buffer.
func NewWide(s string) []uint16 {
	return append(utf16.Encode([]rune(s)), 0)
}

// WideString decodes a NUL-terminated UTF-16 buffer filled by the engine.
func WideString(buf []uint16) string {
	for i, c := range buf {
		if c == 0 {
			buf = buf[:i]
			break
		}
	}
	return string(utf16.Decode(buf))
}

// CopyANSI writes s into dst as a NUL-terminated ANSI string, truncating to
// fit. It is used by fakes and by callers that fill fixed-size buffers.
func CopyANSI(dst []byte, s string) {
	if len(dst) == 0 {
		return
	}
	src := NewANSI(s)
	n := copy(dst[:len(dst)-1], src[:len(src)-1])
	dst[n] = 0
}

// CopyWide writes s into dst as a NUL-terminated UTF-16 string, truncating to
// fit.
func CopyWide(dst []uint16, s string) {
	if len(dst) == 0 {
		return
	}
	src := NewWide(s)
	n := copy(dst[:len(dst)-1], src[:len(src)-1])
	dst[n] = 0
}
