package report

import (
	"fmt"
	"io"

	"housing-notifier/internal/availability"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	detailsHeader = "Available apartments:"
	noUnits       = "No available housing rental objects at the moment."
)

type Options struct {
	// Table renders the available units as a table instead of one line each.
	Table bool
}

func orNone(value *string) string {
	if value == nil {
		return "None"
	}
	return *value
}

// Print writes the status line of a result followed by its available units.
func Print(w io.Writer, result availability.Result, opts Options) error {
	_, err := fmt.Fprintln(w, result.Status.String())
	if err != nil {
		return err
	}

	if len(result.Units) == 0 {
		_, err = fmt.Fprintln(w, noUnits)
		return err
	}

	details := result.Details()
	if opts.Table {
		return printTable(w, details)
	}

	_, err = fmt.Fprintln(w, detailsHeader)
	if err != nil {
		return err
	}
	for _, d := range details {
		_, err = fmt.Fprintf(
			w, "ID: %s, Available From: %s, Available To: %s\n",
			d.ID, orNone(d.AvailableFrom), orNone(d.AvailableTo),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func printTable(w io.Writer, details []availability.Detail) error {
	_, err := fmt.Fprintln(w, detailsHeader)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Available From", "Available To"})
	for _, d := range details {
		t.AppendRow(table.Row{d.ID, orNone(d.AvailableFrom), orNone(d.AvailableTo)})
	}
	t.Render()

	return nil
}
