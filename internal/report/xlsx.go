package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/jobrunner/internal/models"
)

const (
	SheetResults = "Results"
	SheetRun     = "Run"
)

var resultHeader = []any{"Job ID", "Type", "Status", "Value", "Error", "Started", "Finished", "Duration (ms)"}

// WriteXLSX writes a workbook with a Results sheet (one row per result) and a
// Run sheet with the run summary.
func WriteXLSX(w io.Writer, run models.Run, results []models.JobResult) error {
	f, err := build(run, results)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteTo(w)
	return err
}

func SaveXLSX(path string, run models.Run, results []models.JobResult) error {
	f, err := build(run, results)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func build(run models.Run, results []models.JobResult) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetResults); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeResults(f, results); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write results sheet: %w", err)
	}

	if _, err := f.NewSheet(SheetRun); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRun(f, run); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write run sheet: %w", err)
	}

	return f, nil
}

func writeResults(f *excelize.File, results []models.JobResult) error {
	if err := f.SetSheetRow(SheetResults, "A1", &resultHeader); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(resultHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetResults, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			r.JobID,
			r.JobType,
			string(r.Status),
			FormatValue(r.Value),
			r.Error(),
			r.StartedAt.Format(time.RFC3339Nano),
			r.FinishedAt.Format(time.RFC3339Nano),
			r.Duration().Milliseconds(),
		}
		if err := f.SetSheetRow(SheetResults, cell, &row); err != nil {
			return err
		}
	}

	if len(results) > 0 {
		lastCell, err := excelize.CoordinatesToCellName(len(resultHeader), len(results)+1)
		if err != nil {
			return err
		}
		if err := f.AutoFilter(SheetResults, "A1:"+lastCell, nil); err != nil {
			return err
		}
	}

	return nil
}

func writeRun(f *excelize.File, run models.Run) error {
	finished := ""
	if run.FinishedAt != nil {
		finished = run.FinishedAt.Format(time.RFC3339Nano)
	}

	rows := [][]any{
		{"ID", run.ID},
		{"State", string(run.State)},
		{"Concurrency", run.Concurrency},
		{"Total", run.Total},
		{"Fulfilled", run.Fulfilled},
		{"Rejected", run.Rejected},
		{"Not started", NotStarted(run)},
		{"Created", run.CreatedAt.Format(time.RFC3339Nano)},
		{"Finished", finished},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetRun, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
