package command

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ArgReader walks the raw argument text of a command. Words are split on
// whitespace; a double-quoted span counts as one word.
type ArgReader struct {
	raw string
	pos int
}

func NewArgReader(raw string) *ArgReader {
	return &ArgReader{raw: raw}
}

// Next returns the next word, or false when nothing is left.
func (a *ArgReader) Next() (string, bool) {
	a.skipSpace()
	if a.pos >= len(a.raw) {
		return "", false
	}

	if a.raw[a.pos] == '"' {
		if end := strings.IndexByte(a.raw[a.pos+1:], '"'); end >= 0 {
			word := a.raw[a.pos+1 : a.pos+1+end]
			a.pos += end + 2
			return word, true
		}
	}

	start := a.pos
	for a.pos < len(a.raw) {
		r, size := utf8.DecodeRuneInString(a.raw[a.pos:])
		if unicode.IsSpace(r) {
			break
		}
		a.pos += size
	}
	return a.raw[start:a.pos], true
}

// Rest consumes and returns everything left, trimmed.
func (a *ArgReader) Rest() string {
	a.skipSpace()
	rest := strings.TrimSpace(a.raw[a.pos:])
	a.pos = len(a.raw)
	return rest
}

// Raw returns the full argument text.
func (a *ArgReader) Raw() string {
	return a.raw
}

// Require is Next that reports a missing argument by name.
func (a *ArgReader) Require(name string) (string, error) {
	word, ok := a.Next()
	if !ok {
		return "", &ArgumentError{Param: name, Reason: "is a required argument that is missing"}
	}
	return word, nil
}

func (a *ArgReader) skipSpace() {
	for a.pos < len(a.raw) {
		r, size := utf8.DecodeRuneInString(a.raw[a.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		a.pos += size
	}
}
