// Package report renders collection progress and aggregated results to
// an output sink.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/irondsd/pagespeed/internal/aggregate"
)

// Format selects how the final aggregate is rendered.
type Format string

const (
	// FormatTable renders a bordered table, the default.
	FormatTable Format = "table"
	// FormatJSON renders an ordered JSON object.
	FormatJSON Format = "json"
	// FormatYAML renders an ordered YAML mapping.
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat indicates an unsupported output format
var ErrUnknownFormat = errors.New("unknown output format")

// Reporter writes progress and results to a single writer.
type Reporter struct {
	out io.Writer
}

// New creates a reporter bound to out.
func New(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Progress rewrites the collection counter in place.
func (r *Reporter) Progress(accepted, target int) {
	fmt.Fprintf(r.out, "\rCollecting results: %d of %d", accepted, target)
}

// Done terminates the progress line with the elapsed time and the
// number of duplicate runs that were skipped.
func (r *Reporter) Done(elapsed time.Duration, skipped int) {
	fmt.Fprintf(r.out, "\nDone in %.1fs, skipped %d duplicate runs\n", elapsed.Seconds(), skipped)
}

// Render prints the aggregated report in the requested format.
func (r *Reporter) Render(rep *aggregate.Report, format Format) error {
	switch format {
	case FormatTable, "":
		r.renderTable(rep)
		return nil
	case FormatJSON:
		return r.renderJSON(rep)
	case FormatYAML:
		return r.renderYAML(rep)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func (r *Reporter) renderTable(rep *aggregate.Report) {
	title := color.New(color.FgCyan, color.Bold)
	_, _ = title.Fprintln(r.out, "Aggregated metrics")

	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"Metric", "Avg", "Min", "Max"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("│")
	table.SetRowSeparator("─")
	table.SetHeaderLine(true)
	table.SetBorder(true)

	for _, label := range rep.Labels {
		stat := rep.Stats[label]

		row := []string{label, stat.AvgString(), "", ""}
		if stat.HasRange {
			row[2] = stat.MinString()
			row[3] = stat.MaxString()
		}
		table.Append(row)
	}

	table.Render()
}

func (r *Reporter) renderJSON(rep *aggregate.Report) error {
	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = fmt.Fprintf(r.out, "%s\n", out)
	return err
}

func (r *Reporter) renderYAML(rep *aggregate.Report) error {
	enc := yaml.NewEncoder(r.out)
	defer func() { _ = enc.Close() }()

	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return nil
}
