package categories

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("category not found")
	// ErrExists signals a duplicate slug.
	ErrExists = errors.New("category exists")
	// ErrCannotMove signals a move past the first or last position.
	ErrCannotMove = errors.New("cannot move further")
)

// Category groups documents in the navigation sidebar. Slug doubles as the
// foreign key stored in document metadata.
type Category struct {
	ID        string    `json:"id" bson:"id"`
	Title     string    `json:"title" bson:"title"`
	Slug      string    `json:"slug" bson:"slug"`
	Order     int       `json:"order" bson:"order"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	CreatedBy string    `json:"createdBy" bson:"createdBy"`
}

// OrderUpdate assigns an explicit order to one category.
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

// Repository is the category store.
type Repository interface {
	Insert(ctx context.Context, cat *Category) error
	Get(ctx context.Context, id string) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	// List returns all categories sorted by order.
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, cat *Category) error
	MoveOrder(ctx context.Context, id string, dir Direction) error
	Reorder(ctx context.Context, items []OrderUpdate) error
	Delete(ctx context.Context, id string) error
}

var whitespace = regexp.MustCompile(`\s+`)

// Slugify lowercases a title and collapses whitespace runs to dashes.
func Slugify(title string) string {
	return whitespace.ReplaceAllString(strings.ToLower(title), "-")
}
