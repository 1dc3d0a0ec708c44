package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/p-n-ai/cbt-study/internal/question"
)

var optionGlyphs = [...]string{"①", "②", "③", "④", "⑤"}

func answerLabel(n int) string {
	if n >= 1 && n <= len(optionGlyphs) {
		return optionGlyphs[n-1]
	}
	return "?"
}

func parsePart(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > question.NumParts {
		return 0, fmt.Errorf("part must be a number from 1 to %d, got %q", question.NumParts, s)
	}
	return n, nil
}

func parseParts(args []string) ([]int, error) {
	parts := make([]int, 0, len(args))
	for _, a := range args {
		p, err := parsePart(a)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

// printQuestion writes one numbered question. showAnswer adds the answer and
// explanation below the options.
func printQuestion(w io.Writer, n int, q question.Question, showAnswer bool) {
	if q.ID != "" {
		fmt.Fprintf(w, "%d. [%s] %s\n", n, q.ID, q.Question)
	} else {
		fmt.Fprintf(w, "%d. %s\n", n, q.Question)
	}
	for i, opt := range q.Options() {
		fmt.Fprintf(w, "   %s %s\n", optionGlyphs[i], opt)
	}
	if !showAnswer {
		return
	}
	fmt.Fprintf(w, "   answer: %s\n", answerLabel(q.Answer))
	if q.Explanation != "" {
		fmt.Fprintf(w, "   %s\n", q.Explanation)
	}
}
