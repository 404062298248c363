package staging

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "staging"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestFileStore_PutGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	data := []byte("Weight,Zone\n2,3\n")

	put, err := s.Put(ctx, "invoice.csv", data)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := ValidateID(put.ID); err != nil {
		t.Fatalf("Put returned invalid id %q", put.ID)
	}
	if put.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", put.Size, len(data))
	}

	got, err := s.Get(ctx, put.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got.Data, data) {
		t.Errorf("Data = %q, want %q", got.Data, data)
	}
	if got.Name != "invoice.csv" {
		t.Errorf("Name = %q, want invoice.csv", got.Name)
	}
	if !got.CreatedAt.Equal(put.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, put.CreatedAt)
	}
}

func TestFileStore_GetErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
		want error
	}{
		{"unknown id", NewID(), ErrNotFound},
		{"path traversal", "../../etc/passwd", ErrInvalidID},
		{"empty", "", ErrInvalidID},
		{"uppercase uuid", "6F9619FF-8B86-D011-B42D-00C04FC964FF", ErrInvalidID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Get(ctx, tt.id)
			if !errors.Is(err, tt.want) {
				t.Errorf("Get(%q) error = %v, want %v", tt.id, err, tt.want)
			}
		})
	}
}

func TestFileStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	f, err := s.Put(ctx, "a.csv", []byte("x\n1\n"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, f.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, f.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, f.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileStore_PurgeOlderThan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	old, err := s.Put(ctx, "old.csv", []byte("a\n1\n"))
	if err != nil {
		t.Fatalf("Put old: %v", err)
	}

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	fresh, err := s.Put(ctx, "fresh.csv", []byte("a\n2\n"))
	if err != nil {
		t.Fatalf("Put fresh: %v", err)
	}

	// Unrelated files in the directory are left alone.
	if err := os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("keep"), 0o600); err != nil {
		t.Fatal(err)
	}

	n, err := s.PurgeOlderThan(ctx, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("PurgeOlderThan: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d, want 1", n)
	}
	if _, err := s.Get(ctx, old.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("old file still present: %v", err)
	}
	if _, err := s.Get(ctx, fresh.ID); err != nil {
		t.Errorf("fresh file purged: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "notes.txt")); err != nil {
		t.Errorf("unrelated file removed: %v", err)
	}
}

func TestNewFileStore_RequiresDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("expected error for empty dir")
	}
}
