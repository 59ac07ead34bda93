package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ArcFallback is written for arc values that cannot be parsed as a number.
const ArcFallback = "-1"

// decimalFloat matches decimal notation with optional single underscores
// between digits. Hex floats and the textual infinities are excluded.
var decimalFloat = regexp.MustCompile(
	`^[+-]?(?:[0-9](?:_?[0-9])*(?:\.(?:[0-9](?:_?[0-9])*)?)?|\.[0-9](?:_?[0-9])*)(?:[eE][+-]?[0-9](?:_?[0-9])*)?$`)

// Field is a single column of a Row.
type Field struct {
	Name  string
	Value string
}

// Row is one CSV data line keyed by the header, in header order.
type Row []Field

// Get returns the value of the named column.
func (r Row) Get(name string) (string, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}

	return "", false
}

// Names returns the column names of the row in order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}

	return names
}

// IsDigits reports whether s is a non-empty run of ASCII decimal digits.
// Signs, decimal points, whitespace and non-ASCII digits do not match.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// EncodeArc rounds a numeric arc identifier to the nearest integer
// (ties to even) and formats it without an exponent. Values that do not
// parse, or parse to infinity or NaN, yield ArcFallback.
func EncodeArc(v string) string {
	s, _ := ParseArc(v)
	return s
}

// ParseArc is EncodeArc that also reports whether v was a usable number.
func ParseArc(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if !decimalFloat.MatchString(v) {
		return ArcFallback, false
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(v, "_", ""), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return ArcFallback, false
	}

	r := math.RoundToEven(f)
	if r == 0 {
		r = 0 // drop the sign of -0
	}

	return strconv.FormatFloat(r, 'f', 0, 64), true
}

// EscapeQuotes prefixes every double quote in v with a backslash.
func EscapeQuotes(v string) string {
	return strings.ReplaceAll(v, `"`, `\"`)
}

// SerializeRecord renders row as an object literal. Columns keep their row
// order and the output has no trailing comma; an empty row renders as {}.
func SerializeRecord(row Row, opts Options) string {
	var b strings.Builder

	b.WriteByte('{')

	for i, f := range row {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(f.Name)
		b.WriteString(`: "`)
		b.WriteString(encodeValue(f, opts.ArcColumn))
		b.WriteByte('"')
	}

	b.WriteByte('}')

	return b.String()
}

func encodeValue(f Field, arcColumn string) string {
	switch {
	case f.Name == arcColumn:
		return EncodeArc(f.Value)
	case IsDigits(f.Value):
		return f.Value
	default:
		return EscapeQuotes(f.Value)
	}
}
