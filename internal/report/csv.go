package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table names accepted by Records.
const (
	TableCuts     = "cuts"
	TableSupplies = "supplies"
	TableStats    = "stats"
)

var (
	cutHeader   = []string{"roll", "piece_id", "order_id", "label", "start", "length", "cumulative_used", "remaining"}
	powerHeader = []string{"supply", "label", "capacity", "pieces", "load", "utilization_pct", "status"}
	statsHeader = []string{"metric", "value"}
)

// CutRecords returns the cut table with its header row.
func (r Report) CutRecords() [][]string {
	out := make([][]string, 0, len(r.CutRows)+1)
	out = append(out, cutHeader)
	for _, row := range r.CutRows {
		out = append(out, []string{
			fmt.Sprint(row.Roll),
			row.PieceID,
			row.OrderID,
			row.Label,
			num(row.Start),
			num(row.Length),
			num(row.CumulativeUsed),
			num(row.Remaining),
		})
	}
	return out
}

// PowerRecords returns the supply table with its header row. Piece ids are
// joined with ";".
func (r Report) PowerRecords() [][]string {
	out := make([][]string, 0, len(r.PowerRows)+1)
	out = append(out, powerHeader)
	for _, row := range r.PowerRows {
		out = append(out, []string{
			row.Supply,
			row.Label,
			num(row.Capacity),
			strings.Join(row.Pieces, ";"),
			num(row.Load),
			num(row.UtilizationPct),
			string(row.Status),
		})
	}
	return out
}

// StatsRecords returns the summary as metric/value pairs with a header row.
func (r Report) StatsRecords() [][]string {
	out := make([][]string, 0, len(r.Stats)+1)
	out = append(out, statsHeader)
	for _, s := range r.Stats {
		out = append(out, []string{s.Metric, s.Value})
	}
	return out
}

// Records returns the named table.
func (r Report) Records(table string) ([][]string, error) {
	switch table {
	case TableCuts:
		return r.CutRecords(), nil
	case TableSupplies:
		return r.PowerRecords(), nil
	case TableStats:
		return r.StatsRecords(), nil
	default:
		return nil, fmt.Errorf("unknown table %q (want %s, %s or %s)", table, TableCuts, TableSupplies, TableStats)
	}
}

// WriteCSV writes records as comma-separated values.
func WriteCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteTable writes records as aligned columns for terminal output.
func WriteTable(w io.Writer, records [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, rec := range records {
		if _, err := fmt.Fprintln(tw, strings.Join(rec, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
