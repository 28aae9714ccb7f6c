// Package output renders command results either as aligned "key: value" lines or as JSON.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hokaccha/go-prettyjson"
)

// Field is one named value of a result. Fields keep their order in text output.
type Field struct {
	Key   string
	Value interface{}
}

// Printer writes results to w.
type Printer struct {
	w    io.Writer
	json bool
}

// New returns a printer writing to w, as JSON when asJSON is set.
func New(w io.Writer, asJSON bool) *Printer {
	return &Printer{w: w, json: asJSON}
}

// Fields prints a single result. Values implementing [fmt.Stringer] (big integers, addresses)
// are printed through String so JSON output does not lose precision.
func (p *Printer) Fields(fields ...Field) error {
	if p.json {
		obj := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			obj[f.Key] = normalize(f.Value)
		}
		return p.writeJSON(obj)
	}
	width := 0
	for _, f := range fields {
		if len(f.Key) > width {
			width = len(f.Key)
		}
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(p.w, "%-*s %v\n", width+1, f.Key+":", normalize(f.Value)); err != nil {
			return err
		}
	}
	return nil
}

// Rows prints a list of results: one tab-separated line per row in text mode, a JSON array
// otherwise.
func Rows[T any](p *Printer, rows []T, line func(T) []string) error {
	if p.json {
		if rows == nil {
			rows = []T{}
		}
		return p.writeJSON(rows)
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(p.w, strings.Join(line(row), "\t")); err != nil {
			return err
		}
	}
	return nil
}

func normalize(v interface{}) interface{} {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return v
}

func (p *Printer) writeJSON(v interface{}) error {
	f := prettyjson.NewFormatter()
	// Color only when writing to a file such as os.Stdout.
	if _, ok := p.w.(*os.File); !ok {
		f.DisabledColor = true
	}
	out, err := f.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(p.w, string(out))
	return err
}
