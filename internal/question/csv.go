package question

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// minColumns is question, four options, answer and explanation.
const minColumns = 7

// ParseOption configures ParseContent and ParseWorkbook.
type ParseOption func(*parseConfig)

type parseConfig struct {
	folderName string
	partNumber int
	logger     *slog.Logger
}

// WithIdentity tags every parsed question with GenerateID(folderName, partNumber, text).
func WithIdentity(folderName string, partNumber int) ParseOption {
	return func(c *parseConfig) {
		c.folderName = folderName
		c.partNumber = partNumber
	}
}

// WithLogger sets the logger that receives dropped-row diagnostics.
func WithLogger(logger *slog.Logger) ParseOption {
	return func(c *parseConfig) {
		c.logger = logger
	}
}

func newParseConfig(opts []ParseOption) parseConfig {
	cfg := parseConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c parseConfig) tagged() bool {
	return c.folderName != "" && c.partNumber != 0
}

// ParseLine splits one CSV line on commas outside double quotes.
// A quote only toggles quoting; it is dropped and never unescaped.
func ParseLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}

// ParseContent parses a whole question file. The first line is a header.
// Blank lines and rows with fewer than seven fields are skipped.
func ParseContent(content string, opts ...ParseOption) []Question {
	cfg := newParseConfig(opts)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	questions := make([]Question, 0, len(lines))
	dropped := 0
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		q, ok := fromColumns(ParseLine(lines[i]), cfg)
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
	return questions
}

func fromColumns(cols []string, cfg parseConfig) (Question, bool) {
	if len(cols) < minColumns {
		return Question{}, false
	}
	q := Question{
		Question:    cols[0],
		Option1:     cols[1],
		Option2:     cols[2],
		Option3:     cols[3],
		Option4:     cols[4],
		Answer:      ParseAnswer(cols[5]),
		Explanation: cols[6],
	}
	if cfg.tagged() {
		q.ID = GenerateID(cfg.folderName, cfg.partNumber, q.Question)
	}
	return q, true
}

var circled = map[rune]int{'①': 1, '②': 2, '③': 3, '④': 4, '⑤': 5}

// ParseAnswer normalises an answer cell. Circled numerals map to 1..5, otherwise the
// leading integer is used ("3", "3번"). Anything else, including zero or negative
// numbers, yields 0.
func ParseAnswer(s string) int {
	s = strings.TrimSpace(s)
	if r, _ := utf8.DecodeRuneInString(s); r != utf8.RuneError {
		if n, ok := circled[r]; ok {
			return n
		}
	}

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		return 0
	}
	return n
}
