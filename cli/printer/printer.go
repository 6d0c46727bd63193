// Package printer renders command results as JSON or as a table.
package printer

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	prettyjson "github.com/hokaccha/go-prettyjson"
	isatty "github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
)

type Format int

const (
	FormatJSON Format = iota
	FormatTable
)

// ParseFormat maps the --output flag value to a format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	default:
		return FormatJSON, errors.Newf("unknown output format %q, expected json or table", name)
	}
}

type Printer struct {
	out    io.Writer
	format Format
	color  bool
}

func New(out io.Writer, format Format) *Printer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd())
	}
	return &Printer{
		out:    out,
		format: format,
		color:  color,
	}
}

// Result prints the object. Tables are only rendered when the caller
// provides a header, everything else falls back to JSON.
func (p *Printer) Result(obj interface{}, header []string, rows [][]string) error {
	if p.format == FormatTable && header != nil {
		p.table(header, rows)
		return nil
	}
	return p.JSON(obj)
}

func (p *Printer) JSON(obj interface{}) error {
	formatter := prettyjson.NewFormatter()
	formatter.DisabledColor = !p.color
	data, err := formatter.Marshal(obj)
	if err != nil {
		// indirect values such as channels cannot be rendered
		return errors.Wrap(err, "could not render result as json")
	}
	p.out.Write(data)
	io.WriteString(p.out, "\n")
	return nil
}

func (p *Printer) table(header []string, rows [][]string) {
	table := tablewriter.NewWriter(p.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetHeaderLine(false)
	table.AppendBulk(rows)
	table.Render()
}

// Raw writes the string as-is, ensuring a trailing newline
func (p *Printer) Raw(s string) {
	io.WriteString(p.out, s)
	if !strings.HasSuffix(s, "\n") {
		io.WriteString(p.out, "\n")
	}
}

// MarshalRows is a convenience for building table rows out of structs
// that already carry json tags
func MarshalRows(obj interface{}, fields ...string) ([][]string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, errors.Wrap(err, "could not convert result to rows")
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "could not convert result to rows")
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		row := make([]string, 0, len(fields))
		for _, field := range fields {
			row = append(row, toCell(entry[field]))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toCell(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
