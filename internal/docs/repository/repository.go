package repository

import (
	"context"
	"errors"

	"github.com/primex/docs-cms/internal/editor"
)

var (
	ErrNotFound = errors.New("document not found")
	// ErrConflict signals a duplicate (category, slug) pair.
	ErrConflict = errors.New("document already exists in this category")
	// ErrCannotMove signals a move past the first or last position.
	ErrCannotMove = errors.New("cannot move further")
)

// Record is the persisted form of a document: the editor document plus the
// MDX cache written at publish time.
type Record struct {
	Metadata     editor.DocumentMetadata `json:"metadata" bson:"metadata"`
	Blocks       []editor.Block          `json:"blocks" bson:"blocks"`
	GeneratedMDX string                  `json:"-" bson:"generatedMdx,omitempty"`
}

// Document returns the editor view of the record.
func (r *Record) Document() editor.Document {
	return editor.Document{Metadata: r.Metadata, Blocks: r.Blocks}
}

// OrderUpdate assigns an explicit order to one document.
type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// Direction selects a neighbor for order swaps.
type Direction string

const (
	MoveUp   Direction = "up"
	MoveDown Direction = "down"
)

// Repository is the document store. Save is a full replace; concurrent
// writers race with last write winning, matching the editor's auto-save
// behavior.
type Repository interface {
	Insert(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	GetBySlug(ctx context.Context, category, slug string) (*Record, error)

	// List returns every record sorted by category then order.
	List(ctx context.Context) ([]*Record, error)
	// ListVisible returns what a non-admin may see: drafts plus their own
	// documents, same sort as List.
	ListVisible(ctx context.Context, userID string) ([]*Record, error)
	ListByStatus(ctx context.Context, status editor.DocStatus) ([]*Record, error)

	// GetDefault resolves the landing document: the published default if one
	// exists, otherwise the first published record by order then title.
	GetDefault(ctx context.Context) (*Record, error)

	Save(ctx context.Context, rec *Record) error
	// SetDefault clears every default flag and sets the named document's in
	// one repository operation, keeping the single-holder invariant.
	SetDefault(ctx context.Context, id string) error

	MoveOrder(ctx context.Context, id string, dir Direction) error
	Reorder(ctx context.Context, items []OrderUpdate) error

	Delete(ctx context.Context, id string) error
	// DeleteByCategory removes every document in a category and reports how
	// many were deleted. Used when a category itself is removed.
	DeleteByCategory(ctx context.Context, category string) (int64, error)
	// RenameCategory repoints documents after a category slug change.
	RenameCategory(ctx context.Context, oldSlug, newSlug string) error
}
