// Package exam loads question banks for a study session: it fetches part files from a
// Source, parses and identity-tags them, and drops blacklisted questions.
package exam

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/p-n-ai/cbt-study/internal/question"
)

// ErrNoQuestions is returned by RequireQuestions when a session would have nothing to
// show.
var ErrNoQuestions = errors.New("no questions available for the selected parts")

// Filter removes excluded questions. *blacklist.Store implements it.
type Filter interface {
	FilterOut(ctx context.Context, folderName string, partNumber int, questions []question.Question) []question.Question
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithDefaultFolders sets the folder list returned when the source has no catalogue.
func WithDefaultFolders(folders []string) Option {
	return func(l *Loader) {
		l.defaultFolders = append([]string(nil), folders...)
	}
}

// Loader assembles exam data from a Source.
type Loader struct {
	source         Source
	filter         Filter
	logger         *slog.Logger
	defaultFolders []string
}

// NewLoader creates a loader. A nil filter disables blacklist filtering.
func NewLoader(source Source, filter Filter, opts ...Option) *Loader {
	l := &Loader{
		source: source,
		filter: filter,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Folders lists the available exam sittings, falling back to the configured defaults
// when the source cannot provide a catalogue.
func (l *Loader) Folders(ctx context.Context) []string {
	folders, err := l.source.Folders(ctx)
	if err == nil && len(folders) > 0 {
		return folders
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		l.logger.Error("failed to list folders", "error", err)
	}
	return append([]string{}, l.defaultFolders...)
}

// LoadPart returns the questions of one part in file order. A missing or unreadable
// part yields an empty slice. Blacklisted questions are removed unless
// includeBlacklisted is set.
func (l *Loader) LoadPart(ctx context.Context, folderName string, partNumber int, includeBlacklisted bool) []question.Question {
	res, err := l.source.Fetch(ctx, folderName, partNumber)
	if errors.Is(err, ErrNotFound) {
		l.logger.Info("part file not found", "folder", folderName, "part", partNumber)
		return []question.Question{}
	}
	if err != nil {
		l.logger.Error("failed to load part", "folder", folderName, "part", partNumber, "error", err)
		return []question.Question{}
	}

	questions, err := l.parse(res, folderName, partNumber)
	if err != nil {
		l.logger.Error("failed to parse part", "folder", folderName, "part", partNumber, "error", err)
		return []question.Question{}
	}

	if includeBlacklisted || l.filter == nil {
		return questions
	}
	return l.filter.FilterOut(ctx, folderName, partNumber, questions)
}

func (l *Loader) parse(res Resource, folderName string, partNumber int) ([]question.Question, error) {
	opts := []question.ParseOption{
		question.WithIdentity(folderName, partNumber),
		question.WithLogger(l.logger),
	}
	if res.Format == FormatXLSX {
		return question.ParseWorkbook(bytes.NewReader(res.Data), opts...)
	}
	text, err := question.DecodeText(res.Data)
	if err != nil {
		return nil, err
	}
	return question.ParseContent(text, opts...), nil
}

// LoadExam loads the given parts in the caller's order. Parts without questions are
// kept as empty parts.
func (l *Loader) LoadExam(ctx context.Context, folderName string, selectedParts []int) question.ExamData {
	data := question.ExamData{
		FolderName: folderName,
		Parts:      make([]question.Part, 0, len(selectedParts)),
	}
	for _, p := range selectedParts {
		data.Parts = append(data.Parts, question.Part{
			PartNumber: p,
			Questions:  l.LoadPart(ctx, folderName, p, false),
		})
	}
	l.logger.Debug("exam loaded", "folder", folderName, "parts", selectedParts, "questions", len(data.AllQuestions()))
	return data
}

// RequireQuestions flattens data and fails with ErrNoQuestions when nothing is left.
func RequireQuestions(data question.ExamData) ([]question.Question, error) {
	all := data.AllQuestions()
	if len(all) == 0 {
		return nil, ErrNoQuestions
	}
	return all, nil
}
