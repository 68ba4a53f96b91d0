// Package report exports results as Excel workbooks.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/mindengage-mock/internal/mock"
)

const (
	sheetName  = "Results"
	timeLayout = "2006-01-02 15:04"
)

var resultHeader = []string{
	"Result ID", "User", "Mock", "Started", "Completed", "Status",
	"Reading", "Listening", "Writing", "Total",
}

// WriteResults writes rows as a single-sheet xlsx workbook.
func WriteResults(w io.Writer, rows []mock.ResultSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, "A1", &resultHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "B", "C", 24); err != nil {
		return err
	}

	for i, r := range rows {
		completed := ""
		if r.CompletedAt != nil {
			completed = formatUnix(*r.CompletedAt)
		}
		values := []any{
			r.ID, r.Username, r.MockTitle, formatUnix(r.StartedAt), completed, string(r.Status()),
			r.ReadingScore, r.ListeningScore, r.WritingScore, r.TotalScore,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	_, err = f.WriteTo(w)
	return err
}

// SaveResults writes the workbook to path.
func SaveResults(path string, rows []mock.ResultSummary) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteResults(out, rows); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func formatUnix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(timeLayout)
}
