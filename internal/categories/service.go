package categories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/primex/docs-cms/internal/editor"
	"github.com/primex/docs-cms/pkg/logger"
)

var ErrPermissionDenied = errors.New("permission denied")

// DocumentStore is the slice of the document repository the category service
// needs for cascades: deleting a category removes its documents, renaming a
// category repoints them.
type DocumentStore interface {
	DeleteByCategory(ctx context.Context, category string) (int64, error)
	RenameCategory(ctx context.Context, oldSlug, newSlug string) error
}

// Service implements category management and keeps document references
// consistent across renames and deletes.
type Service struct {
	repo Repository
	docs DocumentStore
	now  func() time.Time
}

func NewService(repo Repository, docs DocumentStore) *Service {
	return &Service{
		repo: repo,
		docs: docs,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}

// Create adds a category at the end of the ordering. The slug is derived
// from the title.
func (s *Service) Create(ctx context.Context, sess editor.Session, title string) (*Category, error) {
	if !sess.Permissions.CanCreate {
		return nil, fmt.Errorf("%w: cannot create categories", ErrPermissionDenied)
	}
	if title == "" {
		return nil, errors.New("missing title")
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	order := 0
	for _, c := range existing {
		if c.Order >= order {
			order = c.Order + 1
		}
	}

	cat := &Category{
		ID:        "cat_" + uuid.NewString()[:8],
		Title:     title,
		Slug:      Slugify(title),
		Order:     order,
		CreatedAt: s.now(),
		CreatedBy: sess.UserID,
	}
	if err := s.repo.Insert(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// Rename changes a category's title and slug, then repoints every document
// that referenced the old slug.
func (s *Service) Rename(ctx context.Context, sess editor.Session, id, newTitle string) (*Category, error) {
	if !sess.Permissions.CanEdit {
		return nil, fmt.Errorf("%w: cannot edit categories", ErrPermissionDenied)
	}

	cat, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldSlug := cat.Slug
	cat.Title = newTitle
	cat.Slug = Slugify(newTitle)
	if err := s.repo.Update(ctx, cat); err != nil {
		return nil, err
	}

	if oldSlug != cat.Slug {
		if err := s.docs.RenameCategory(ctx, oldSlug, cat.Slug); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// Delete removes a category and every document in it.
func (s *Service) Delete(ctx context.Context, sess editor.Session, id string) error {
	if !sess.Permissions.CanDelete {
		return fmt.Errorf("%w: cannot delete categories", ErrPermissionDenied)
	}

	cat, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	n, err := s.docs.DeleteByCategory(ctx, cat.Slug)
	if err != nil {
		return err
	}
	logger.Infof("deleted %d documents for category %s", n, cat.Slug)
	return nil
}

// Move swaps a category's order with its nearest neighbor.
func (s *Service) Move(ctx context.Context, sess editor.Session, id string, dir Direction) error {
	if !sess.Permissions.CanEdit {
		return fmt.Errorf("%w: cannot reorder categories", ErrPermissionDenied)
	}
	return s.repo.MoveOrder(ctx, id, dir)
}

// Reorder applies explicit order values in bulk.
func (s *Service) Reorder(ctx context.Context, sess editor.Session, items []OrderUpdate) error {
	if !sess.Permissions.CanEdit {
		return fmt.Errorf("%w: cannot reorder categories", ErrPermissionDenied)
	}
	return s.repo.Reorder(ctx, items)
}
