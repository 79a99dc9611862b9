package dedup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "sent_matches.json"))
	h, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(h) != 0 {
		t.Errorf("Load() = %v, want empty", h)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "sent_matches.json")
	s := NewFileStore(path)

	want := History{"k1": 1800000000.123456, "k2": 1800003600}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"k1\"") {
		t.Errorf("file is not indented with two spaces:\n%s", data)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Load() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Load()[%q] = %v, want %v", k, got[k], v)
		}
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_matches.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Load(context.Background()); err == nil {
		t.Error("Load() of corrupt file should fail")
	}
}

func TestFileStoreReset(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sent_matches.json")
	s := NewFileStore(path)

	if err := s.Reset(ctx); err != nil {
		t.Errorf("Reset() of missing file error = %v", err)
	}
	if err := s.Save(ctx, History{"k": 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists after Reset()")
	}
}
