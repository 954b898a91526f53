// Package dateutil formats dates from user-friendly patterns such as
// "DD/MM/YYYY" and resolves the "auto" and "modified" date keywords.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when a keyword is given without a format.
const DefaultDateFormat = "YYYY-MM-DD"

// Keywords accepted by Resolve.
const (
	KeywordAuto     = "auto"     // conversion time
	KeywordModified = "modified" // input file modification time
)

// tokens maps pattern tokens to Go time layout fragments.
// Ordered by length descending for greedy matching; matching is case-sensitive
// so "MM" (month) and "mm" (minute) stay distinct.
var tokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"datetime": "YYYY-MM-DD HH:mm",
}

// segment is either a layout fragment or literal text.
type segment struct {
	layout  string
	literal string
}

// parse splits a pattern into segments.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss.
// Brackets escape literal text: "[Week] D" keeps "Week".
func parse(format string) ([]segment, error) {
	if format == "" {
		return nil, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return nil, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var segs []segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return nil, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			lit.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, tok := range tokens {
			if strings.HasPrefix(format[i:], tok.token) {
				flush()
				segs = append(segs, segment{layout: tok.layout})
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			lit.WriteByte(format[i])
			i++
		}
	}
	flush()
	return segs, nil
}

// Validate checks a date setting as Resolve would read it, without a
// document at hand. Literal dates are always valid.
func Validate(value string) error {
	_, err := Resolve(value, time.Time{}, time.Time{})
	return err
}

// Format renders t with a user-friendly pattern. Literal text never
// reaches the Go layout engine, so "[v2]" stays "v2".
func Format(format string, t time.Time) (string, error) {
	segs, err := parse(format)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, s := range segs {
		if s.layout != "" {
			b.WriteString(t.Format(s.layout))
		} else {
			b.WriteString(s.literal)
		}
	}
	return b.String(), nil
}

// Resolve expands date keywords:
//   - "auto" / "modified" -> now / modified in DefaultDateFormat
//   - "auto:FORMAT" -> custom pattern, e.g. "auto:DD/MM/YYYY"
//   - "auto:preset" -> named preset (iso, european, us, long, datetime)
//   - anything else -> returned unchanged
//
// Keywords are case-insensitive; the format keeps its case.
func Resolve(value string, now, modified time.Time) (string, error) {
	lower := strings.ToLower(value)

	for _, kw := range []struct {
		name string
		t    time.Time
	}{
		{KeywordAuto, now},
		{KeywordModified, modified},
	} {
		if !strings.HasPrefix(lower, kw.name) {
			continue
		}

		rest := value[len(kw.name):]
		if rest == "" {
			return Format(DefaultDateFormat, kw.t)
		}
		if rest[0] != ':' {
			return "", fmt.Errorf("%w: invalid syntax %q, use %q or %q", ErrInvalidDateFormat, value, kw.name, kw.name+":FORMAT")
		}

		format := rest[1:]
		if format == "" {
			return "", fmt.Errorf("%w: format cannot be empty after %q", ErrInvalidDateFormat, kw.name+":")
		}
		if preset, ok := DatePresets[strings.ToLower(format)]; ok {
			format = preset
		}
		return Format(format, kw.t)
	}

	return value, nil
}
