package categories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	docsrepo "github.com/primex/docs-cms/internal/docs/repository"
	"github.com/primex/docs-cms/internal/editor"
)

var (
	admin  = editor.NewSession("u_admin", "Admin", "admin@example.com", editor.RoleAdmin)
	viewer = editor.NewSession("u_viewer", "Viewer", "viewer@example.com", editor.RoleViewer)
)

func newTestService(t *testing.T) (*Service, *docsrepo.MemoryRepo) {
	t.Helper()
	docs := docsrepo.NewMemoryRepo()
	return NewService(NewMemoryRepo(), docs), docs
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "getting-started", Slugify("Getting Started"))
	assert.Equal(t, "flight-search-api", Slugify("Flight  Search\tAPI"))
	assert.Equal(t, "flights", Slugify("flights"))
}

func TestCreateAssignsOrderAndSlug(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	first, err := s.Create(ctx, admin, "Getting Started")
	require.NoError(t, err)
	assert.Equal(t, "getting-started", first.Slug)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, "u_admin", first.CreatedBy)

	second, err := s.Create(ctx, admin, "Flights")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Order)

	_, err = s.Create(ctx, admin, "getting  started")
	assert.ErrorIs(t, err, ErrExists)

	_, err = s.Create(ctx, admin, "")
	assert.Error(t, err)

	_, err = s.Create(ctx, viewer, "Hotels")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestRenameRepointsDocuments(t *testing.T) {
	s, docs := newTestService(t)
	ctx := context.Background()

	cat, err := s.Create(ctx, admin, "Flights")
	require.NoError(t, err)

	require.NoError(t, docs.Insert(ctx, &docsrepo.Record{
		Metadata: editor.DocumentMetadata{ID: "d1", Category: "flights", Slug: "search"},
	}))

	renamed, err := s.Rename(ctx, admin, cat.ID, "Air Travel")
	require.NoError(t, err)
	assert.Equal(t, "air-travel", renamed.Slug)

	doc, err := docs.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "air-travel", doc.Metadata.Category)
}

func TestRenameConflict(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, admin, "Flights")
	require.NoError(t, err)
	hotels, err := s.Create(ctx, admin, "Hotels")
	require.NoError(t, err)

	_, err = s.Rename(ctx, admin, hotels.ID, "Flights")
	assert.ErrorIs(t, err, ErrExists)
}

func TestDeleteCascades(t *testing.T) {
	s, docs := newTestService(t)
	ctx := context.Background()

	cat, err := s.Create(ctx, admin, "Flights")
	require.NoError(t, err)
	require.NoError(t, docs.Insert(ctx, &docsrepo.Record{
		Metadata: editor.DocumentMetadata{ID: "d1", Category: "flights", Slug: "search"},
	}))
	require.NoError(t, docs.Insert(ctx, &docsrepo.Record{
		Metadata: editor.DocumentMetadata{ID: "d2", Category: "hotels", Slug: "rates"},
	}))

	require.NoError(t, s.Delete(ctx, admin, cat.ID))

	_, err = s.repo.Get(ctx, cat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = docs.Get(ctx, "d1")
	assert.ErrorIs(t, err, docsrepo.ErrNotFound)
	_, err = docs.Get(ctx, "d2")
	assert.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, viewer, cat.ID), ErrPermissionDenied)
}

func TestMoveAndReorder(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	a, err := s.Create(ctx, admin, "A")
	require.NoError(t, err)
	b, err := s.Create(ctx, admin, "B")
	require.NoError(t, err)

	require.NoError(t, s.Move(ctx, admin, b.ID, MoveUp))
	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)

	assert.ErrorIs(t, s.Move(ctx, admin, b.ID, MoveUp), ErrCannotMove)

	require.NoError(t, s.Reorder(ctx, admin, []OrderUpdate{
		{ID: a.ID, Order: 0},
		{ID: b.ID, Order: 1},
	}))
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, list[0].ID)
}
