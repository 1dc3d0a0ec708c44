package question

import (
	"strings"

	"golang.org/x/text/cases"
)

// Match reports whether query occurs, case-insensitively, in the question text, any
// option or the explanation. A blank query matches everything.
func Match(q Question, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	// Casers carry state, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(query)
	for _, field := range []string{q.Question, q.Option1, q.Option2, q.Option3, q.Option4, q.Explanation} {
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// Search returns the questions matching query, in input order.
func Search(questions []Question, query string) []Question {
	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if Match(q, query) {
			out = append(out, q)
		}
	}
	return out
}
