package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrInvalidEncoding is returned when the CSV input is not valid UTF-8.
var ErrInvalidEncoding = errors.New("input is not valid UTF-8")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options controls how rows are rendered.
type Options struct {
	// ArcColumn names the column holding the numeric arc identifier.
	ArcColumn string

	// Variable is the identifier the array literal is assigned to.
	Variable string

	// Indent prefixes every record line.
	Indent string

	// Logger receives debug output about tolerated input quirks.
	Logger *slog.Logger
}

// DefaultOptions returns the options used by the userscripts.
func DefaultOptions() Options {
	return Options{
		ArcColumn: "arc_number",
		Variable:  "comicData",
		Indent:    "    ",
		Logger:    slog.Default(),
	}
}

// Dataset is a rendered array literal plus some facts about how it was built.
type Dataset struct {
	// Literal is the complete `const <Variable> = [...];` statement.
	Literal string

	// Records is the number of object literals in Literal.
	Records int

	// Columns is the CSV header in order.
	Columns []string

	// ArcFallbacks counts arc values that were replaced by ArcFallback.
	ArcFallbacks int
}

// Bytes returns the literal as bytes, ready to be written to disk.
func (d *Dataset) Bytes() []byte {
	return []byte(d.Literal)
}

// ReadRows parses CSV input with a header line into rows. Ragged lines are
// tolerated: missing trailing columns read as "" and surplus fields are
// dropped. When a header name repeats, the column keeps its first position
// and takes the last value. Stray quotes never merge lines into one record;
// see splitRecords for the quoting rules.
func ReadRows(r io.Reader) ([]Row, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	if !utf8.Valid(raw) {
		return nil, ErrInvalidEncoding
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)

	records := splitRecords(raw)
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	columns, index := dedupeHeader(header)

	rows := make([]Row, 0, len(records)-1)

	for _, record := range records[1:] {
		row := make(Row, len(columns))
		for i, name := range columns {
			row[i] = Field{Name: name}
		}

		for i, value := range record {
			if i >= len(header) {
				break
			}

			row[index[i]].Value = value
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// dedupeHeader returns the distinct column names in first-seen order and,
// for each header position, the index of its column.
func dedupeHeader(header []string) ([]string, []int) {
	columns := make([]string, 0, len(header))
	index := make([]int, len(header))
	seen := make(map[string]int, len(header))

	for i, name := range header {
		if pos, ok := seen[name]; ok {
			index[i] = pos
			continue
		}

		seen[name] = len(columns)
		index[i] = len(columns)
		columns = append(columns, name)
	}

	return columns, index
}

// Serialize renders rows as a single array literal assignment.
func Serialize(rows []Row, opts Options) *Dataset {
	records := make([]string, len(rows))
	fallbacks := 0

	for i, row := range rows {
		records[i] = SerializeRecord(row, opts)

		if v, ok := row.Get(opts.ArcColumn); ok {
			if _, parsed := ParseArc(v); !parsed {
				fallbacks++
			}
		}
	}

	var columns []string
	if len(rows) > 0 {
		columns = rows[0].Names()
	}

	literal := "const " + opts.Variable + " = [\n" + opts.Indent +
		strings.Join(records, ",\n"+opts.Indent) + "\n];"

	return &Dataset{
		Literal:      literal,
		Records:      len(rows),
		Columns:      columns,
		ArcFallbacks: fallbacks,
	}
}

// SerializeFile reads the CSV file at path and renders it.
func SerializeFile(ctx context.Context, path string, opts Options) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	f, err := os.Open(path) //nolint:gosec // path is user-supplied by design
	if err != nil {
		return nil, fmt.Errorf("opening csv %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("parsing csv %s: %w", path, err)
	}

	ds := Serialize(rows, opts)

	opts.Logger.Debug("serialized dataset",
		slog.String("path", path),
		slog.Int("records", ds.Records),
		slog.Int("arcFallbacks", ds.ArcFallbacks),
	)

	return ds, nil
}
