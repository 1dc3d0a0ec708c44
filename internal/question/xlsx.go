package question

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// ParseWorkbook reads questions from the first sheet of an XLSX workbook using the same
// column layout and skipping rules as ParseContent. Cell text is NFC-normalised like
// DecodeText output.
func ParseWorkbook(r io.Reader, opts ...ParseOption) ([]Question, error) {
	cfg := newParseConfig(opts)

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []Question{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	if len(rows) == 0 {
		return []Question{}, nil
	}

	// GetRows trims trailing empty cells, so a row whose explanation is blank comes back
	// one column short. Pad those back to the header width.
	width := len(rows[0])
	questions := make([]Question, 0, len(rows))
	dropped := 0
	for i := 1; i < len(rows); i++ {
		n := len(rows[i])
		if n == minColumns-1 {
			n = max(n, width)
		}
		cols := make([]string, n)
		blank := true
		for j, cell := range rows[i] {
			cols[j] = norm.NFC.String(strings.TrimSpace(cell))
			if cols[j] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		q, ok := fromColumns(cols, cfg)
		if !ok {
			dropped++
			continue
		}
		questions = append(questions, q)
	}

	if dropped > 0 {
		cfg.logger.Debug("dropped malformed rows",
			"folder", cfg.folderName,
			"part", cfg.partNumber,
			"dropped", dropped,
		)
	}
	return questions, nil
}
