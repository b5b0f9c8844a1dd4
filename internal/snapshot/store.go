package snapshot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// AutosaveID is the reserved id under which the working plan is autosaved.
const AutosaveID = "autosave"

var (
	ErrNotFound  = errors.New("plan not found")
	ErrInvalidID = errors.New("plan id may only contain letters, digits, '-' and '_'")
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidateID reports whether id is safe to use as a storage key.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}

// Meta summarises a stored plan for listings.
type Meta struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
}

// Store persists plan documents.
type Store interface {
	// Save assigns an id when doc.ID is empty, stamps SavedAt and
	// overwrites any existing plan with the same id.
	Save(ctx context.Context, doc *Document) (*Document, error)
	Get(ctx context.Context, id string) (*Document, error)
	// List returns plans newest first.
	List(ctx context.Context) ([]Meta, error)
	Delete(ctx context.Context, id string) error
}

// prepare returns the copy of doc that gets written.
func prepare(doc *Document, now time.Time) (*Document, error) {
	out := *doc
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if err := ValidateID(out.ID); err != nil {
		return nil, err
	}
	out.Version = CurrentVersion
	out.SavedAt = now.UTC()
	out.Repaired = false
	out.fill()
	return &out, nil
}

// Autosave stores doc under AutosaveID, keeping its name.
func Autosave(ctx context.Context, s Store, doc *Document) (*Document, error) {
	out := *doc
	out.ID = AutosaveID
	if out.Name == "" {
		out.Name = "Autosave"
	}
	saved, err := s.Save(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("autosave: %w", err)
	}
	return saved, nil
}
