package results

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "History"

var exportHeader = []any{
	"ID", "Folder", "Parts", "Total", "Correct", "Wrong", "Score (%)", "Completed At", "Minutes",
}

// ExportXLSX writes the history as a workbook with a summary row and one row per
// result, newest first.
func ExportXLSX(w io.Writer, h History) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]any{
		{"Tests taken", h.TotalTestsTaken, "Average score", h.AverageScore},
		exportHeader,
	}
	for _, r := range h.TestResults {
		parts := make([]string, len(r.SelectedParts))
		for i, p := range r.SelectedParts {
			parts[i] = strconv.Itoa(p)
		}
		minutes := any("")
		if r.TimeSpent != nil {
			minutes = *r.TimeSpent
		}
		rows = append(rows, []any{
			r.ID,
			r.FolderName,
			strings.Join(parts, ","),
			r.TotalQuestions,
			r.CorrectAnswers,
			r.WrongAnswers,
			r.Score,
			r.CompletedAt.Format("2006-01-02 15:04"),
			minutes,
		})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "A", 32); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
