package exam_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/cbt-study/internal/exam"
	"github.com/p-n-ai/cbt-study/internal/platform/cache"
)

func TestDirSource_FoldersFromDirectories(t *testing.T) {
	dir := setupData(t)
	_ = os.MkdirAll(filepath.Join(dir, "2022_2회"), 0o755)
	_ = os.MkdirAll(filepath.Join(dir, ".git"), 0o755)
	writeFile(t, filepath.Join(dir, "README.md"), []byte("not a folder"))

	got, err := exam.NewDirSource(dir).Folders(t.Context())
	if err != nil {
		t.Fatalf("Folders() error = %v", err)
	}
	if want := []string{"2022_2회", "2023_1회"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Folders() = %v, want %v", got, want)
	}
}

func TestDirSource_FoldersFromCatalog(t *testing.T) {
	dir := setupData(t)
	writeFile(t, filepath.Join(dir, exam.CatalogFile), []byte(`
folders:
  - 2024_1회
  - 2023_1회
  - "  "
`))

	got, err := exam.NewDirSource(dir).Folders(t.Context())
	if err != nil {
		t.Fatalf("Folders() error = %v", err)
	}
	if want := []string{"2024_1회", "2023_1회"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Folders() = %v, want catalogue order %v", got, want)
	}
}

func TestDirSource_MissingRoot(t *testing.T) {
	_, err := exam.NewDirSource(filepath.Join(t.TempDir(), "absent")).Folders(t.Context())
	if !errors.Is(err, exam.ErrNotFound) {
		t.Errorf("Folders() error = %v, want ErrNotFound", err)
	}
}

func xlsxPart(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	rows := [][]any{
		{"question", "o1", "o2", "o3", "o4", "answer", "explanation"},
		{"X1", "a", "b", "c", "d", "④", "e"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestDirSource_XLSXFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "2024_1회", "part2.xlsx"), xlsxPart(t))

	res, err := exam.NewDirSource(dir).Fetch(t.Context(), "2024_1회", 2)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if res.Format != exam.FormatXLSX {
		t.Errorf("Format = %v, want xlsx", res.Format)
	}

	qs := exam.NewLoader(exam.NewDirSource(dir), nil).LoadPart(t.Context(), "2024_1회", 2, false)
	if len(qs) != 1 || qs[0].Answer != 4 {
		t.Errorf("LoadPart(xlsx) = %+v, want one question with answer 4", qs)
	}
}

func newDataServer(t *testing.T, files map[string][]byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHTTPSource(t *testing.T) {
	server := newDataServer(t, map[string][]byte{
		"/data/2023_1회/part1.csv":  []byte(header + "H1,a,b,c,d,1,e\n"),
		"/data/2023_1회/part2.xlsx": xlsxPart(t),
		"/data/catalog.yaml":        []byte("folders: [2023_1회]\n"),
	})
	src := exam.NewHTTPSource(server.URL + "/data/")
	loader := exam.NewLoader(src, nil)
	ctx := t.Context()

	if got := texts(loader.LoadPart(ctx, "2023_1회", 1, false)); !reflect.DeepEqual(got, []string{"H1"}) {
		t.Errorf("LoadPart(csv) = %v, want [H1]", got)
	}
	if got := texts(loader.LoadPart(ctx, "2023_1회", 2, false)); !reflect.DeepEqual(got, []string{"X1"}) {
		t.Errorf("LoadPart(xlsx) = %v, want [X1]", got)
	}
	if got := loader.LoadPart(ctx, "2023_1회", 3, false); len(got) != 0 {
		t.Errorf("LoadPart(missing) = %v, want empty", got)
	}
	if _, err := src.Fetch(ctx, "2023_1회", 3); !errors.Is(err, exam.ErrNotFound) {
		t.Errorf("Fetch(missing) error = %v, want ErrNotFound", err)
	}
	if got := loader.Folders(ctx); !reflect.DeepEqual(got, []string{"2023_1회"}) {
		t.Errorf("Folders() = %v, want catalogue", got)
	}
}

func TestHTTPSource_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := exam.NewHTTPSource(server.URL).Fetch(t.Context(), "f", 1)
	if err == nil || errors.Is(err, exam.ErrNotFound) {
		t.Errorf("Fetch() error = %v, want non-NotFound error", err)
	}
}

func newHungServer(t *testing.T) *httptest.Server {
	t.Helper()
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })
	return server
}

// No timeout is applied by default; WithTimeout is the opt-in bound for a hung server.
func TestHTTPSource_Timeout(t *testing.T) {
	server := newHungServer(t)

	src := exam.NewHTTPSource(server.URL, exam.WithTimeout(50*time.Millisecond))
	start := time.Now()
	qs := exam.NewLoader(src, nil).LoadPart(t.Context(), "f", 1, false)
	if len(qs) != 0 {
		t.Errorf("LoadPart() = %v, want empty after timeout", qs)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("LoadPart() took %v, want bounded by timeout", elapsed)
	}
}

func TestHTTPSource_TimeoutWithCustomClient(t *testing.T) {
	server := newHungServer(t)
	client := &http.Client{}

	tests := []struct {
		name string
		opts []exam.HTTPOption
	}{
		{"timeout first", []exam.HTTPOption{exam.WithTimeout(50 * time.Millisecond), exam.WithHTTPClient(client)}},
		{"client first", []exam.HTTPOption{exam.WithHTTPClient(client), exam.WithTimeout(50 * time.Millisecond)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
			defer cancel()

			_, err := exam.NewHTTPSource(server.URL, tt.opts...).Fetch(ctx, "f", 1)
			if err == nil {
				t.Fatal("Fetch() should fail against a hung server")
			}
			if ctx.Err() != nil {
				t.Errorf("Fetch() ran until the context deadline; timeout option was lost: %v", err)
			}
		})
	}

	if client.Timeout != 0 {
		t.Errorf("caller's client Timeout = %v, want it left untouched", client.Timeout)
	}
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	d, ok := c.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return d, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = bytes.Clone(data)
	return nil
}

type countingSource struct {
	exam.Source
	fetches int
}

func (s *countingSource) Fetch(ctx context.Context, folder string, part int) (exam.Resource, error) {
	s.fetches++
	return s.Source.Fetch(ctx, folder, part)
}

func TestCachedSource(t *testing.T) {
	dir := setupData(t)
	writeFile(t, filepath.Join(dir, "2024_1회", "part2.xlsx"), xlsxPart(t))
	inner := &countingSource{Source: exam.NewDirSource(dir)}
	c := &memCache{data: make(map[string][]byte)}
	src := exam.NewCachedSource(inner, c, time.Hour, nil)
	ctx := t.Context()

	first, err := src.Fetch(ctx, "2023_1회", 1)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	second, err := src.Fetch(ctx, "2023_1회", 1)
	if err != nil {
		t.Fatalf("Fetch() cached error = %v", err)
	}
	if inner.fetches != 1 {
		t.Errorf("inner fetches = %d, want 1", inner.fetches)
	}
	if !bytes.Equal(first.Data, second.Data) || second.Format != exam.FormatCSV {
		t.Error("cached resource differs from original")
	}

	x1, _ := src.Fetch(ctx, "2024_1회", 2)
	x2, _ := src.Fetch(ctx, "2024_1회", 2)
	if x2.Format != exam.FormatXLSX || !bytes.Equal(x1.Data, x2.Data) {
		t.Error("cached xlsx resource lost its format")
	}

	for range 2 {
		if _, err := src.Fetch(ctx, "2023_1회", 4); !errors.Is(err, exam.ErrNotFound) {
			t.Errorf("Fetch(missing) error = %v, want ErrNotFound", err)
		}
	}
	if inner.fetches != 4 {
		t.Errorf("inner fetches = %d, want 4 (missing parts are not cached)", inner.fetches)
	}
}
