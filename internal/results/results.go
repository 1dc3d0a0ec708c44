// Package results stores completed test attempts and derives study history from them.
package results

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/p-n-ai/cbt-study/internal/storage"
)

// DocumentKey is the storage key of the results document (a bare JSON array).
const DocumentKey = "cbt_test_results"

// TestResult is one graded attempt.
type TestResult struct {
	ID               string    `json:"id"`
	FolderName       string    `json:"folderName"`
	SelectedParts    []int     `json:"selectedParts"`
	TotalQuestions   int       `json:"totalQuestions"`
	CorrectAnswers   int       `json:"correctAnswers"`
	WrongAnswers     int       `json:"wrongAnswers"`
	Score            int       `json:"score"` // percent, 0..100
	CompletedAt      time.Time `json:"completedAt"`
	TimeSpent        *int      `json:"timeSpent,omitempty"` // minutes
	WrongQuestionIDs []int     `json:"wrongQuestionIds"`    // positions in the graded list
}

// History aggregates every stored result.
type History struct {
	TestResults     []TestResult `json:"testResults"` // newest first
	TotalTestsTaken int          `json:"totalTestsTaken"`
	AverageScore    int          `json:"averageScore"`
	LastTestDate    *time.Time   `json:"lastTestDate,omitempty"`
}

// ErrInvalidResult is returned by Save for a result whose counts do not add up.
var ErrInvalidResult = errors.New("invalid test result")

// Validate checks that the counts are consistent: correct plus wrong equals total and
// the score is a percentage.
func (r TestResult) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidResult)
	case r.TotalQuestions < 0 || r.CorrectAnswers < 0 || r.WrongAnswers < 0:
		return fmt.Errorf("%w: negative count", ErrInvalidResult)
	case r.CorrectAnswers+r.WrongAnswers != r.TotalQuestions:
		return fmt.Errorf("%w: %d correct + %d wrong != %d total",
			ErrInvalidResult, r.CorrectAnswers, r.WrongAnswers, r.TotalQuestions)
	case r.Score < 0 || r.Score > 100:
		return fmt.Errorf("%w: score %d outside 0..100", ErrInvalidResult, r.Score)
	}
	return nil
}

var documentSchema = storage.MustCompileSchema(`{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "folderName", "totalQuestions", "correctAnswers", "wrongAnswers", "score", "completedAt"],
		"properties": {
			"id":               {"type": "string"},
			"folderName":       {"type": "string"},
			"selectedParts":    {"type": "array", "items": {"type": "integer"}},
			"totalQuestions":   {"type": "integer", "minimum": 0},
			"correctAnswers":   {"type": "integer", "minimum": 0},
			"wrongAnswers":     {"type": "integer", "minimum": 0},
			"score":            {"type": "integer", "minimum": 0, "maximum": 100},
			"completedAt":      {"type": "string"},
			"timeSpent":        {"type": ["integer", "null"]},
			"wrongQuestionIds": {"type": "array", "items": {"type": "integer"}}
		}
	}
}`)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for storage diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store persists test results as a single document.
type Store struct {
	docs   storage.Store
	logger *slog.Logger
}

// NewStore creates a result store on top of a document store.
func NewStore(docs storage.Store, opts ...Option) *Store {
	s := &Store{docs: docs, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll returns results in stored (completion) order. Missing or unreadable data
// yields an empty list.
func (s *Store) GetAll(ctx context.Context) []TestResult {
	results, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("failed to load test results", "error", err)
		return []TestResult{}
	}
	return results
}

// load reads the stored results for a mutation. A missing or malformed document is an
// empty list; a storage failure is returned so the caller does not overwrite data it
// could not read.
func (s *Store) load(ctx context.Context) ([]TestResult, error) {
	data, err := s.docs.Load(ctx, DocumentKey)
	if errors.Is(err, storage.ErrNotFound) {
		return []TestResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load test results: %w", err)
	}

	results, err := decode(data)
	if err != nil {
		s.logger.Warn("ignoring malformed test results document", "error", err)
		return []TestResult{}, nil
	}
	return results, nil
}

func decode(data []byte) ([]TestResult, error) {
	if err := documentSchema.Validate(data); err != nil {
		return nil, err
	}

	var raw []struct {
		TestResult
		CompletedAt string `json:"completedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal test results: %w", err)
	}

	results := make([]TestResult, 0, len(raw))
	for _, r := range raw {
		completedAt, err := time.Parse(time.RFC3339Nano, r.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("result %s: parse completedAt: %w", r.ID, err)
		}
		res := r.TestResult
		res.CompletedAt = completedAt
		if res.SelectedParts == nil {
			res.SelectedParts = []int{}
		}
		if res.WrongQuestionIDs == nil {
			res.WrongQuestionIDs = []int{}
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Store) put(ctx context.Context, results []TestResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal test results: %w", err)
	}
	if err := s.docs.Save(ctx, DocumentKey, data); err != nil {
		return fmt.Errorf("save test results: %w", err)
	}
	return nil
}

// Save appends result and rewrites the document.
func (s *Store) Save(ctx context.Context, result TestResult) error {
	if result.SelectedParts == nil {
		result.SelectedParts = []int{}
	}
	if result.WrongQuestionIDs == nil {
		result.WrongQuestionIDs = []int{}
	}
	if err := result.Validate(); err != nil {
		return err
	}

	all, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := s.put(ctx, append(all, result)); err != nil {
		return err
	}
	s.logger.Info("test result saved",
		"id", result.ID,
		"folder", result.FolderName,
		"score", result.Score,
	)
	return nil
}

// History computes aggregate statistics over all stored results.
func (s *Store) History(ctx context.Context) History {
	return Summarize(s.GetAll(ctx))
}

// Summarize builds a History from results without touching storage. The input slice
// is reordered newest-first; results completed at the same instant keep their order.
func Summarize(results []TestResult) History {
	if len(results) == 0 {
		return History{TestResults: []TestResult{}}
	}

	slices.SortStableFunc(results, func(a, b TestResult) int {
		return b.CompletedAt.Compare(a.CompletedAt)
	})

	total := 0
	for _, r := range results {
		total += r.Score
	}
	last := results[0].CompletedAt

	return History{
		TestResults:     results,
		TotalTestsTaken: len(results),
		AverageScore:    roundHalfUp(float64(total) / float64(len(results))),
		LastTestDate:    &last,
	}
}

// ByFolder returns the stored results for one folder in stored order.
func (s *Store) ByFolder(ctx context.Context, folderName string) []TestResult {
	return slices.DeleteFunc(s.GetAll(ctx), func(r TestResult) bool {
		return r.FolderName != folderName
	})
}

// Delete removes the result with the given id and rewrites the document.
func (s *Store) Delete(ctx context.Context, resultID string) error {
	all, err := s.load(ctx)
	if err != nil {
		return err
	}
	remaining := slices.DeleteFunc(all, func(r TestResult) bool {
		return r.ID == resultID
	})
	if err := s.put(ctx, remaining); err != nil {
		return err
	}
	s.logger.Info("test result deleted", "id", resultID)
	return nil
}

// ClearAll drops every stored result.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.docs.Delete(ctx, DocumentKey); err != nil {
		return fmt.Errorf("clear test results: %w", err)
	}
	s.logger.Info("test results cleared")
	return nil
}

const (
	idAlphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
	idRandomLen = 9
)

// GenerateID returns "test_<unix millis>_<9 random base36 chars>". Uniqueness is
// probabilistic.
func GenerateID() string {
	return generateID(time.Now())
}

func generateID(now time.Time) string {
	b := make([]byte, idRandomLen)
	rand.Read(b)
	for i := range b {
		b[i] = idAlphabet[int(b[i])%len(idAlphabet)]
	}
	return "test_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + string(b)
}

// roundHalfUp matches the rounding the stored scores were produced with (0.5 rounds up).
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
