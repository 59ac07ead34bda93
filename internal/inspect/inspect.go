// Package inspect summarises a comic CSV before it is turned into a data
// literal: which columns it has and which values the encoder will rewrite.
package inspect

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/vainstains/comicdata/internal/dataset"
)

// Output formats accepted by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Summary describes a parsed dataset.
type Summary struct {
	Records      int           `json:"records" yaml:"records"`
	Columns      []ColumnStats `json:"columns" yaml:"columns"`
	ArcColumn    string        `json:"arcColumn" yaml:"arcColumn"`
	HasArcColumn bool          `json:"hasArcColumn" yaml:"hasArcColumn"`

	// ArcFallbacks lists the 1-based record numbers whose arc value will be
	// written as -1.
	ArcFallbacks []int `json:"arcFallbacks,omitempty" yaml:"arcFallbacks,omitempty"`
}

// ColumnStats counts how the values of one column will be encoded.
type ColumnStats struct {
	Name    string `json:"name" yaml:"name"`
	Empty   int    `json:"empty" yaml:"empty"`
	Digits  int    `json:"digits" yaml:"digits"`
	Escaped int    `json:"escaped" yaml:"escaped"`
}

// Summarize inspects rows with the arc column from opts.
func Summarize(rows []dataset.Row, opts dataset.Options) *Summary {
	s := &Summary{
		Records:   len(rows),
		ArcColumn: opts.ArcColumn,
	}

	index := map[string]int{}

	for i, row := range rows {
		for _, f := range row {
			pos, ok := index[f.Name]
			if !ok {
				pos = len(s.Columns)
				index[f.Name] = pos
				s.Columns = append(s.Columns, ColumnStats{Name: f.Name})
			}

			col := &s.Columns[pos]

			switch {
			case f.Value == "":
				col.Empty++
			case dataset.IsDigits(f.Value):
				col.Digits++
			case strings.Contains(f.Value, `"`):
				col.Escaped++
			}

			if f.Name == opts.ArcColumn {
				s.HasArcColumn = true

				if _, parsed := dataset.ParseArc(f.Value); !parsed {
					s.ArcFallbacks = append(s.ArcFallbacks, i+1)
				}
			}
		}
	}

	return s
}

// Render writes s to w in the given format.
func Render(w io.Writer, s *Summary, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}

		return enc.Close()
	case FormatText, "":
		return renderText(w, s)
	default:
		return fmt.Errorf("unknown format %q: expected text, json, yaml", format)
	}
}

func renderText(w io.Writer, s *Summary) error {
	fmt.Fprintf(w, "Records: %d\n", s.Records)

	if s.HasArcColumn {
		fmt.Fprintf(w, "Arc column: %s (%d fallback(s))\n", s.ArcColumn, len(s.ArcFallbacks))
	} else {
		fmt.Fprintf(w, "Arc column: %s (not present)\n", s.ArcColumn)
	}

	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tEMPTY\tDIGITS\tESCAPED")

	for _, c := range s.Columns {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", c.Name, c.Empty, c.Digits, c.Escaped)
	}

	return tw.Flush()
}
