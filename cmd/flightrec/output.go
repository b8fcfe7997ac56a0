package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"flightrec/internal/abbrev"
	"flightrec/internal/failure"
)

type outputFormat int

const (
	formatTable outputFormat = iota
	formatJSON
)

var formats = abbrev.Build([]string{"table", "json"})

// outputFormat resolves --format, accepting any unique prefix.
func (c *commandContext) outputFormat() (outputFormat, error) {
	name, result := formats.Resolve(c.flags.format)
	switch result {
	case abbrev.Resolved:
		if name == "json" {
			return formatJSON, nil
		}
		return formatTable, nil
	case abbrev.Ambiguous:
		return formatTable, failure.Wrap(failure.ErrAmbiguous, "cli", "format",
			fmt.Sprintf("%q could be %v", c.flags.format, formats.Matches(c.flags.format)), nil)
	default:
		return formatTable, failure.Wrap(failure.ErrValidation, "cli", "format",
			fmt.Sprintf("unknown format %q (expected table or json)", c.flags.format), nil)
	}
}

// emit writes v as JSON, or calls render for the table format.
func (c *commandContext) emit(v any, render func(io.Writer) error) error {
	format, err := c.outputFormat()
	if err != nil {
		return err
	}
	if format == formatJSON {
		return writeJSON(c.stdout, v)
	}
	return render(c.stdout)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func printTable(w io.Writer, headers []string, rows [][]string, aligns []columnAlignment) error {
	_, err := fmt.Fprintln(w, renderTable(headers, rows, aligns))
	return err
}
