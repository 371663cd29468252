// Package output renders catalog listings as tables, JSON or YAML.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"comic-collector/library"
)

// Format types for output.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Formatter writes data to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter picks the formatter for format, defaulting to a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// ParseFormat validates s. An empty string means auto-detect.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return format, nil
	case "", "auto":
		return DetectFormat(), nil
	}
	return "", fmt.Errorf("invalid output format %q (table, json or yaml)", s)
}

// DetectFormat returns a table on a terminal and JSON for pipes.
func DetectFormat() Format {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// JSONFormatter outputs JSON.
type JSONFormatter struct {
	Indent string
}

func (f *JSONFormatter) Format(w io.Writer, data any) error {
	raw, err := json.MarshalIndent(data, "", f.Indent)
	if err != nil {
		return err
	}
	_, err = w.Write(append(raw, '\n'))
	return err
}

// YAMLFormatter outputs YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	raw, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

// TableFormatter outputs comics and users as aligned tables. Anything else
// falls back to JSON.
type TableFormatter struct{}

func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case []library.Comic:
		return renderTable(w, comicTable(v))
	case []library.User:
		return renderTable(w, userTable(v))
	case library.Comic:
		return renderTable(w, comicTable([]library.Comic{v}))
	case library.User:
		return renderTable(w, userTable([]library.User{v}))
	case Data:
		return renderTable(w, v)
	default:
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}
}

// Data is a pre-built table.
type Data struct {
	Headers []string
	Rows    [][]string
}

func comicTable(comics []library.Comic) Data {
	d := Data{Headers: []string{"ID", "Title", "Author", "Status"}}
	for _, c := range comics {
		status := "available"
		if !c.Available {
			status = "lent to " + c.AssignedTo
		}
		d.Rows = append(d.Rows, []string{c.ID, c.Title, c.Author, status})
	}
	return d
}

func userTable(users []library.User) Data {
	d := Data{Headers: []string{"ID", "Name", "Email", "Phone"}}
	for _, u := range users {
		d.Rows = append(d.Rows, []string{u.ID, u.FirstName + " " + u.LastName, u.Email, u.Phone})
	}
	return d
}

func renderTable(w io.Writer, data Data) error {
	cfg := tablewriter.Config{}
	cfg.Row.Alignment = tw.CellAlignment{Global: tw.AlignLeft}
	table := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))

	headers := make([]any, len(data.Headers))
	for i, h := range data.Headers {
		headers[i] = h
	}
	table.Header(headers...)

	for _, row := range data.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}
