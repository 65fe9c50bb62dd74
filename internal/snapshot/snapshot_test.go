package snapshot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/maintwindow/internal/domain"
)

const sample = `[
  {
    "maintenance_time_start": "2024-01-01T00:00:00Z",
    "maintenance_time_end": "2024-01-01T02:00:00Z",
    "server_down_start": "1970-01-01T00:00:00Z",
    "server_down_end": "1970-01-01T00:00:00Z",
    "description": "Hotfix"
  }
]`

func TestDecode(t *testing.T) {
	records, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 || records[0][domain.FieldDescription] != "Hotfix" {
		t.Fatalf("unexpected records: %+v", records)
	}

	for _, bad := range []string{`{}`, `not json`, `[null]`, `[1,2]`} {
		if _, err := Decode(strings.NewReader(bad)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Decode(%q): want ErrMalformed, got %v", bad, err)
		}
	}
}

func TestFileSource_AndWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site", "data.json")
	if err := WriteFile(path, []byte(sample)); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %v", entries)
	}

	records, err := NewFileSource(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}

	if _, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Fetch(context.Background()); err == nil {
		t.Fatalf("want error for missing file")
	}
}

func TestHTTPSource_CacheBusterAndDecode(t *testing.T) {
	var gotV string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotV = r.URL.Query().Get("v")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/data.json", 2*time.Second)
	src.Now = func() time.Time { return time.Date(2024, 1, 1, 13, 47, 0, 0, time.UTC) }

	records, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}
	if want := "1704114000000"; gotV != want {
		t.Fatalf("want v=%s, got %s", want, gotV)
	}
}

func TestHTTPSource_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background()); err == nil {
		t.Fatalf("want error on 404")
	}
}

func TestStatic(t *testing.T) {
	s := NewStatic(domain.Record{"description": "a"})
	got, err := s.Fetch(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected fetch: %v %v", got, err)
	}

	boom := errors.New("boom")
	s.Fail(boom)
	if _, err := s.Fetch(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want configured error, got %v", err)
	}
	s.Set(nil)
	if got, err := s.Fetch(context.Background()); err != nil || len(got) != 0 {
		t.Fatalf("want empty after Set(nil), got %v %v", got, err)
	}
}
