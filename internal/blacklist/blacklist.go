// Package blacklist persists the learner's list of excluded questions and filters them
// out of loaded question sets.
package blacklist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/p-n-ai/cbt-study/internal/question"
	"github.com/p-n-ai/cbt-study/internal/storage"
)

// DocumentKey is the storage key of the blacklist document.
const DocumentKey = "cbt_question_blacklist"

// Entry is one excluded question.
type Entry struct {
	ID           string    `json:"id"`
	FolderName   string    `json:"folderName"`
	PartNumber   int       `json:"partNumber"`
	QuestionText string    `json:"questionText"`
	Reason       string    `json:"reason,omitempty"`
	AddedAt      time.Time `json:"addedAt"`
}

// Blacklist is the persisted collection. At most one entry exists per ID.
type Blacklist struct {
	Questions []Entry `json:"questions"`
}

// Stats summarises the blacklist.
type Stats struct {
	Total    int            `json:"total"`
	ByFolder map[string]int `json:"byFolder"`
}

var documentSchema = storage.MustCompileSchema(`{
	"type": "object",
	"required": ["questions"],
	"properties": {
		"questions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "folderName", "partNumber", "questionText", "addedAt"],
				"properties": {
					"id":           {"type": "string"},
					"folderName":   {"type": "string"},
					"partNumber":   {"type": "integer"},
					"questionText": {"type": "string"},
					"reason":       {"type": ["string", "null"]},
					"addedAt":      {"type": "string"}
				}
			}
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

// WithClock overrides time.Now for AddedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store reads and rewrites the blacklist document. Every mutation rewrites the whole
// document; concurrent writers are not coordinated.
type Store struct {
	docs   storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a blacklist store on top of a document store.
func NewStore(docs storage.Store, opts ...Option) *Store {
	s := &Store{
		docs:   docs,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current blacklist. Missing or unreadable data yields an empty list.
func (s *Store) Get(ctx context.Context) Blacklist {
	bl, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("failed to load blacklist", "error", err)
		return Blacklist{Questions: []Entry{}}
	}
	return bl
}

// load reads the blacklist for a mutation. A missing or malformed document is an empty
// list; a storage failure is returned so the caller does not overwrite entries it could
// not read.
func (s *Store) load(ctx context.Context) (Blacklist, error) {
	data, err := s.docs.Load(ctx, DocumentKey)
	if errors.Is(err, storage.ErrNotFound) {
		return Blacklist{Questions: []Entry{}}, nil
	}
	if err != nil {
		return Blacklist{}, fmt.Errorf("load blacklist: %w", err)
	}

	bl, err := decode(data)
	if err != nil {
		s.logger.Warn("ignoring malformed blacklist document", "error", err)
		return Blacklist{Questions: []Entry{}}, nil
	}
	return bl, nil
}

func decode(data []byte) (Blacklist, error) {
	if err := documentSchema.Validate(data); err != nil {
		return Blacklist{}, err
	}

	var raw struct {
		Questions []struct {
			ID           string  `json:"id"`
			FolderName   string  `json:"folderName"`
			PartNumber   int     `json:"partNumber"`
			QuestionText string  `json:"questionText"`
			Reason       *string `json:"reason"`
			AddedAt      string  `json:"addedAt"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Blacklist{}, fmt.Errorf("unmarshal blacklist: %w", err)
	}

	bl := Blacklist{Questions: make([]Entry, 0, len(raw.Questions))}
	for _, q := range raw.Questions {
		addedAt, err := time.Parse(time.RFC3339Nano, q.AddedAt)
		if err != nil {
			return Blacklist{}, fmt.Errorf("entry %s: parse addedAt: %w", q.ID, err)
		}
		e := Entry{
			ID:           q.ID,
			FolderName:   q.FolderName,
			PartNumber:   q.PartNumber,
			QuestionText: q.QuestionText,
			AddedAt:      addedAt,
		}
		if q.Reason != nil {
			e.Reason = *q.Reason
		}
		bl.Questions = append(bl.Questions, e)
	}
	return bl, nil
}

func (s *Store) put(ctx context.Context, bl Blacklist) error {
	data, err := json.Marshal(bl)
	if err != nil {
		return fmt.Errorf("marshal blacklist: %w", err)
	}
	if err := s.docs.Save(ctx, DocumentKey, data); err != nil {
		return fmt.Errorf("save blacklist: %w", err)
	}
	return nil
}

// Add blacklists q. Re-adding an existing question refreshes its reason and AddedAt
// instead of creating a second entry.
func (s *Store) Add(ctx context.Context, folderName string, partNumber int, q question.Question, reason string) error {
	bl, err := s.load(ctx)
	if err != nil {
		return err
	}
	id := question.GenerateID(folderName, partNumber, q.Question)
	now := s.now().UTC()

	if i := slices.IndexFunc(bl.Questions, func(e Entry) bool { return e.ID == id }); i >= 0 {
		bl.Questions[i].Reason = reason
		bl.Questions[i].AddedAt = now
	} else {
		bl.Questions = append(bl.Questions, Entry{
			ID:           id,
			FolderName:   folderName,
			PartNumber:   partNumber,
			QuestionText: q.Question,
			Reason:       reason,
			AddedAt:      now,
		})
	}

	if err := s.put(ctx, bl); err != nil {
		return err
	}
	s.logger.Info("question blacklisted", "id", id, "folder", folderName, "part", partNumber)
	return nil
}

// Remove deletes the entry with the given id. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, id string) error {
	bl, err := s.load(ctx)
	if err != nil {
		return err
	}
	n := len(bl.Questions)
	bl.Questions = slices.DeleteFunc(bl.Questions, func(e Entry) bool { return e.ID == id })
	if len(bl.Questions) == n {
		return nil
	}

	if err := s.put(ctx, bl); err != nil {
		return err
	}
	s.logger.Info("question removed from blacklist", "id", id)
	return nil
}

// IsBlacklisted reports whether the question identified by its context and text is
// excluded.
func (s *Store) IsBlacklisted(ctx context.Context, folderName string, partNumber int, questionText string) bool {
	id := question.GenerateID(folderName, partNumber, questionText)
	return slices.ContainsFunc(s.Get(ctx).Questions, func(e Entry) bool { return e.ID == id })
}

// FilterOut returns the questions that are not blacklisted, in input order.
func (s *Store) FilterOut(ctx context.Context, folderName string, partNumber int, questions []question.Question) []question.Question {
	bl := s.Get(ctx)
	excluded := make(map[string]struct{}, len(bl.Questions))
	for _, e := range bl.Questions {
		excluded[e.ID] = struct{}{}
	}

	kept := make([]question.Question, 0, len(questions))
	for _, q := range questions {
		if _, ok := excluded[question.GenerateID(folderName, partNumber, q.Question)]; ok {
			continue
		}
		kept = append(kept, q)
	}
	return kept
}

// ListByFolder returns entries newest first. An empty folderName lists every folder.
// Entries with equal AddedAt keep their stored order.
func (s *Store) ListByFolder(ctx context.Context, folderName string) []Entry {
	entries := s.Get(ctx).Questions
	if folderName != "" {
		entries = slices.DeleteFunc(entries, func(e Entry) bool { return e.FolderName != folderName })
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.AddedAt.Compare(a.AddedAt)
	})
	return entries
}

// ClearAll drops the whole blacklist.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.docs.Delete(ctx, DocumentKey); err != nil {
		return fmt.Errorf("clear blacklist: %w", err)
	}
	s.logger.Info("blacklist cleared")
	return nil
}

// Stats counts entries overall and per folder.
func (s *Store) Stats(ctx context.Context) Stats {
	entries := s.Get(ctx).Questions
	st := Stats{Total: len(entries), ByFolder: make(map[string]int)}
	for _, e := range entries {
		st.ByFolder[e.FolderName]++
	}
	return st
}

// Folders returns the folder names present in stats, sorted.
func (st Stats) Folders() []string {
	names := make([]string, 0, len(st.ByFolder))
	for name := range st.ByFolder {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
