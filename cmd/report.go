package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	sim "github.com/backoff-sim/backoff-sim/sim"
)

// writeReport writes sweep rows as CSV with the canonical header
// clients,time,calls,Algorithm.
func writeReport(w io.Writer, rows []sim.SweepRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"clients", "time", "calls", "Algorithm"}); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Clients),
			strconv.FormatFloat(row.AvgElapsed, 'f', 2, 64),
			strconv.FormatFloat(row.AvgCalls, 'f', 2, 64),
			row.Policy,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing report: %w", err)
	}
	return nil
}

// writeReportFile writes the sweep report to path.
func writeReportFile(path string, rows []sim.SweepRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := writeReport(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}
	return nil
}
