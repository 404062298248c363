package staging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	dataExt = ".csv"
	metaExt = ".json"
)

// fileMeta is the sidecar written next to each staged file.
type fileMeta struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// FileStore stages uploads as <id>.csv files in a directory.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("staging directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir returns the staging directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Put(ctx context.Context, name string, data []byte) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := &File{
		ID:        NewID(),
		Name:      name,
		Data:      data,
		Size:      int64(len(data)),
		CreatedAt: s.now().UTC(),
	}

	if err := writeFileAtomic(s.path(f.ID, dataExt), data); err != nil {
		return nil, fmt.Errorf("write staged file: %w", err)
	}

	meta, err := json.Marshal(fileMeta{Name: f.Name, Size: f.Size, CreatedAt: f.CreatedAt})
	if err != nil {
		return nil, fmt.Errorf("encode staged metadata: %w", err)
	}
	if err := writeFileAtomic(s.path(f.ID, metaExt), meta); err != nil {
		_ = os.Remove(s.path(f.ID, dataExt))
		return nil, fmt.Errorf("write staged metadata: %w", err)
	}

	return f, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*File, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(id, dataExt))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read staged file: %w", err)
	}

	meta, err := s.readMeta(id)
	if err != nil {
		return nil, err
	}

	return &File{
		ID:        id,
		Name:      meta.Name,
		Data:      data,
		Size:      int64(len(data)),
		CreatedAt: meta.CreatedAt,
	}, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	for _, ext := range []string{dataExt, metaExt} {
		if err := os.Remove(s.path(id, ext)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete staged file: %w", err)
		}
	}
	return nil
}

func (s *FileStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("list staging dir: %w", err)
	}

	purged := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return purged, err
		}
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, dataExt) {
			continue
		}
		id := strings.TrimSuffix(name, dataExt)
		if ValidateID(id) != nil {
			continue
		}

		created, err := s.createdAt(id, e)
		if err != nil || !created.Before(cutoff) {
			continue
		}
		if err := s.Delete(ctx, id); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}

// createdAt prefers the sidecar timestamp and falls back to the file mtime.
func (s *FileStore) createdAt(id string, e fs.DirEntry) (time.Time, error) {
	if meta, err := s.readMeta(id); err == nil && !meta.CreatedAt.IsZero() {
		return meta.CreatedAt, nil
	}
	info, err := e.Info()
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (s *FileStore) readMeta(id string) (fileMeta, error) {
	var meta fileMeta
	b, err := os.ReadFile(s.path(id, metaExt))
	if errors.Is(err, fs.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("read staged metadata: %w", err)
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		return meta, fmt.Errorf("decode staged metadata: %w", err)
	}
	return meta, nil
}

func (s *FileStore) path(id, ext string) string {
	return filepath.Join(s.dir, id+ext)
}

// writeFileAtomic writes to a temp file in the same directory and renames it.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".staging-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
