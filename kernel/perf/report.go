package perf

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Report renders the aggregated timings as a table.
func (r *Recorder) Report(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Kernel timings")
	t.AppendHeader(table.Row{"Name", "Count", "Total", "Mean", "Min", "Max"})
	for _, s := range r.Stats() {
		t.AppendRow(table.Row{s.Name, s.Count, s.Total.String(), s.Mean().String(), s.Min.String(), s.Max.String()})
	}
	t.Render()
}
