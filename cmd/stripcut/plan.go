package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StripCut/internal/export"
	"github.com/piwi3910/StripCut/internal/planner"
	"github.com/piwi3910/StripCut/internal/report"
)

// outputOptions select the files written after a plan run.
type outputOptions struct {
	csvDir   string
	xlsxPath string
	pdfPath  string
	labels   string
	dxfPath  string
	jsonPath string
}

func newPlanCmd(g *globals) *cobra.Command {
	in := &inputOptions{}
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "plan [length[xqty] ...]",
		Short: "Cut orders into rolls and size power supplies",
		Example: `  stripcut plan --roll 5 --order kitchen=2.4x2 --order hall=1.5 0.8x3
  stripcut plan --file orders.xlsx --catalog 60:14,100:21 --pdf plan.pdf --labels labels.pdf
  stripcut plan --strip "5050 60LED/m 24V" --inventory-catalog --csv-dir ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, warnings, err := in.buildRequest(cmd, g.cfg, args)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				slog.Warn("import", "warning", w)
			}

			res, err := planner.New(slog.Default()).Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			rep := report.Build(res)

			if err := printReport(cmd.OutOrStdout(), rep); err != nil {
				return err
			}
			return out.write(res, rep)
		},
	}

	in.register(cmd)
	f := cmd.Flags()
	f.StringVar(&out.csvDir, "csv-dir", "", "write cut_plan.csv, power_plan.csv and stats.csv into this directory")
	f.StringVar(&out.xlsxPath, "xlsx", "", "write an Excel workbook")
	f.StringVar(&out.pdfPath, "pdf", "", "write a PDF report with roll diagrams")
	f.StringVar(&out.labels, "labels", "", "write a PDF of QR piece labels")
	f.StringVar(&out.dxfPath, "dxf", "", "write a DXF drawing of the rolls")
	f.StringVar(&out.jsonPath, "json", "", `write the full result as JSON ("-" for stdout)`)
	return cmd
}

func (o *outputOptions) write(res planner.Result, rep report.Report) error {
	if o.csvDir != "" {
		files, err := export.ExportCSV(o.csvDir, rep)
		if err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		for _, f := range files {
			slog.Info("wrote", "file", f)
		}
	}
	if o.xlsxPath != "" {
		if err := export.ExportXLSX(o.xlsxPath, rep); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		slog.Info("wrote", "file", o.xlsxPath)
	}
	if o.pdfPath != "" {
		if err := export.ExportPDF(o.pdfPath, rep); err != nil {
			return fmt.Errorf("export pdf: %w", err)
		}
		slog.Info("wrote", "file", o.pdfPath)
	}
	if o.labels != "" {
		if err := export.ExportLabels(o.labels, res); err != nil {
			return fmt.Errorf("export labels: %w", err)
		}
		slog.Info("wrote", "file", o.labels)
	}
	if o.dxfPath != "" {
		if err := export.ExportDXF(o.dxfPath, res.Plan); err != nil {
			return fmt.Errorf("export dxf: %w", err)
		}
		slog.Info("wrote", "file", o.dxfPath)
	}
	if o.jsonPath != "" {
		if err := writeJSON(o.jsonPath, res); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	if path == "-" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return err
	}
	slog.Info("wrote", "file", path)
	return nil
}

// printReport writes the cut, supply and stats tables followed by warnings.
func printReport(w io.Writer, rep report.Report) error {
	sections := []struct {
		title   string
		records [][]string
		skip    bool
	}{
		{"CUT PLAN", rep.CutRecords(), false},
		{"POWER SUPPLIES", rep.PowerRecords(), len(rep.PowerRows) == 0},
		{"SUMMARY", rep.StatsRecords(), false},
	}
	for _, s := range sections {
		if s.skip {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", s.title)
		if err := report.WriteTable(w, s.records); err != nil {
			return err
		}
	}
	if len(rep.Warnings) > 0 {
		fmt.Fprintln(w, "\nWARNINGS")
		for _, warn := range rep.Warnings {
			fmt.Fprintf(w, "  ! %s\n", warn)
		}
	}
	return nil
}

func newCompareCmd(g *globals) *cobra.Command {
	in := &inputOptions{}
	var jsonPath string

	cmd := &cobra.Command{
		Use:   "compare [length[xqty] ...]",
		Short: "Compare supply allocation strategies for the same cut plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, warnings, err := in.buildRequest(cmd, g.cfg, args)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				slog.Warn("import", "warning", w)
			}

			cmp, err := planner.New(slog.Default()).Compare(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonPath != "" {
				return writeJSON(jsonPath, cmp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d piece(s) on %d roll(s)\n\n", cmp.Plan.PieceCount(), len(cmp.Plan.Rolls))
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "strategy\tsupplies\tinstalled\tcost\tutilization_pct\tunsatisfied")
			for _, r := range cmp.Results {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%.2f\t%d\n",
					r.Strategy, r.SuppliesUsed,
					fmtNum(r.InstalledCapacity), fmtNum(r.TotalCost),
					r.Utilization*100, r.UnsatisfiedCount)
			}
			return tw.Flush()
		},
	}

	in.register(cmd)
	cmd.Flags().Lookup("no-power").Hidden = true
	cmd.Flags().StringVar(&jsonPath, "json", "", `write the comparison as JSON ("-" for stdout)`)
	return cmd
}
