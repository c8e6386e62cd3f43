package voicemeeter

import (
	"strconv"
	"strings"
)

// Script builds a parameter script for ApplyScript. Assignments are kept in
// insertion order.
type Script struct {
	lines []string
}

// Set appends name=value for a numeric parameter.
func (sc *Script) Set(name string, value float32) *Script {
	sc.lines = append(sc.lines, name+"="+strconv.FormatFloat(float64(value), 'f', -1, 32))
	return sc
}

// SetString appends name="value" for a string parameter. Double quotes in
// value are dropped because the script language has no escape for them.
func (sc *Script) SetString(name, value string) *Script {
	value = strings.ReplaceAll(value, `"`, "")
	sc.lines = append(sc.lines, name+`="`+value+`"`)
	return sc
}

// Len is the number of assignments.
func (sc *Script) Len() int { return len(sc.lines) }

// String renders one assignment per line, each terminated by ';'.
func (sc *Script) String() string {
	var b strings.Builder
	for _, l := range sc.lines {
		b.WriteString(l)
		b.WriteString(";\n")
	}
	return b.String()
}
