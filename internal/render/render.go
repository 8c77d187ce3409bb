// Package render writes command results as text, JSON or YAML.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Table is the text form of a result: aligned columns.
type Table struct {
	Header []string
	Rows   [][]string
}

// Tabular is implemented by results that print as a table in text mode.
type Tabular interface {
	Table() Table
}

// Write encodes v to w. In text mode v must implement Tabular or
// fmt.Stringer; anything else is printed with %v.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case Text, "":
		switch v := v.(type) {
		case Tabular:
			return writeTable(w, v.Table())
		case fmt.Stringer:
			_, err := fmt.Fprintln(w, v.String())
			return err
		default:
			_, err := fmt.Fprintln(w, v)
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

func writeTable(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(t.Header) > 0 {
		if _, err := fmt.Fprintln(tw, strings.Join(t.Header, "\t")); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
