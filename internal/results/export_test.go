package results_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/cbt-study/internal/results"
)

func TestExportXLSX(t *testing.T) {
	minutes := 25
	first := result("r1", "2023_1회", 90, t0)
	second := result("r2", "2023_2회", 70, t0.Add(time.Hour))
	second.TimeSpent = &minutes
	h := results.Summarize([]results.TestResult{first, second})

	var buf bytes.Buffer
	if err := results.ExportXLSX(&buf, h); err != nil {
		t.Fatalf("ExportXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("History")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	// summary, header, two results
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4: %v", len(rows), rows)
	}
	if rows[0][1] != "2" || rows[0][3] != "80" {
		t.Errorf("summary row = %v, want 2 tests and average 80", rows[0])
	}
	if rows[2][0] != "r2" || rows[3][0] != "r1" {
		t.Errorf("result rows = %v / %v, want newest first", rows[2], rows[3])
	}
	if rows[2][2] != "1,2" || rows[2][8] != "25" {
		t.Errorf("row = %v, want parts 1,2 and 25 minutes", rows[2])
	}
}
