package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/StripCut/internal/report"
)

// CSV file names written by ExportCSV.
const (
	CutPlanFile   = "cut_plan.csv"
	PowerPlanFile = "power_plan.csv"
	StatsFile     = "stats.csv"
)

// ExportCSV writes the cut table, supply table and summary as three CSV
// files in dir, creating dir if needed. The supply file is skipped when the
// report has no supplies. It returns the paths written.
func ExportCSV(dir string, rep report.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	tables := []struct {
		name    string
		records [][]string
	}{
		{CutPlanFile, rep.CutRecords()},
		{PowerPlanFile, rep.PowerRecords()},
		{StatsFile, rep.StatsRecords()},
	}

	var written []string
	for _, t := range tables {
		if t.name == PowerPlanFile && len(rep.PowerRows) == 0 {
			continue
		}
		path := filepath.Join(dir, t.name)
		if err := writeCSVFile(path, t.records); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeCSVFile(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	if err := report.WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
