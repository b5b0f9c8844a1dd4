package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"battery-budget/internal/logger"
)

// FileStore keeps one JSON document per plan in a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, doc *Document) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := prepare(doc, s.now())
	if err != nil {
		return nil, err
	}
	data, err := Encode(out, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+out.ID+"-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to write plan: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to write plan: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to write plan: %w", err)
	}
	if err := os.Rename(tmpName, s.path(out.ID)); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to write plan: %w", err)
	}
	return out, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	doc, err := Decode(data, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", id, err)
	}
	if doc.ID == "" {
		doc.ID = id
	}
	return doc, nil
}

// List skips files that no longer decode and logs them.
func (s *FileStore) List(ctx context.Context) ([]Meta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	metas := make([]Meta, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		doc, err := s.Get(ctx, id)
		if err != nil {
			logger.Logger.Warnf("[Store] skipping %s: %v", name, err)
			continue
		}
		metas = append(metas, Meta{ID: doc.ID, Name: doc.Name, SavedAt: doc.SavedAt})
	}
	sortNewestFirst(metas)
	return metas, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

func sortNewestFirst(metas []Meta) {
	sort.SliceStable(metas, func(i, j int) bool {
		if metas[i].SavedAt.Equal(metas[j].SavedAt) {
			return metas[i].ID < metas[j].ID
		}
		return metas[i].SavedAt.After(metas[j].SavedAt)
	})
}
