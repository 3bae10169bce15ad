package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primex/docs-cms/internal/editor"
)

func rec(id, category, slug string, order int, status editor.DocStatus) *Record {
	return &Record{Metadata: editor.DocumentMetadata{
		ID:       id,
		Title:    id,
		Category: category,
		Slug:     slug,
		Order:    order,
		Status:   status,
	}}
}

func TestMemoryInsertConflict(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, rec("d1", "flights", "search", 1, editor.StatusDraft)))
	err := repo.Insert(ctx, rec("d2", "flights", "search", 2, editor.StatusDraft))
	assert.ErrorIs(t, err, ErrConflict)

	// Same slug in another category is fine.
	require.NoError(t, repo.Insert(ctx, rec("d3", "hotels", "search", 1, editor.StatusDraft)))
}

func TestMemoryGetCopies(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, rec("d1", "flights", "search", 1, editor.StatusDraft)))

	got, err := repo.Get(ctx, "d1")
	require.NoError(t, err)
	got.Metadata.Title = "mutated"

	again, err := repo.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", again.Metadata.Title)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListSorted(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, rec("d1", "hotels", "a", 2, editor.StatusDraft)))
	require.NoError(t, repo.Insert(ctx, rec("d2", "flights", "b", 1, editor.StatusDraft)))
	require.NoError(t, repo.Insert(ctx, rec("d3", "flights", "c", 0, editor.StatusDraft)))

	out, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "d3", out[0].Metadata.ID)
	assert.Equal(t, "d2", out[1].Metadata.ID)
	assert.Equal(t, "d1", out[2].Metadata.ID)
}

func TestMemoryListVisible(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	draft := rec("d1", "flights", "a", 1, editor.StatusDraft)
	draft.Metadata.CreatedBy = "alice"
	mine := rec("d2", "flights", "b", 2, editor.StatusPublished)
	mine.Metadata.CreatedBy = "bob"
	foreign := rec("d3", "flights", "c", 3, editor.StatusPublished)
	foreign.Metadata.CreatedBy = "alice"

	require.NoError(t, repo.Insert(ctx, draft))
	require.NoError(t, repo.Insert(ctx, mine))
	require.NoError(t, repo.Insert(ctx, foreign))

	out, err := repo.ListVisible(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "d1", out[0].Metadata.ID)
	assert.Equal(t, "d2", out[1].Metadata.ID)
}

func TestMemorySetDefaultSingleHolder(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, rec("d1", "flights", "a", 1, editor.StatusPublished)))
	require.NoError(t, repo.Insert(ctx, rec("d2", "flights", "b", 2, editor.StatusPublished)))

	require.NoError(t, repo.SetDefault(ctx, "d1"))
	require.NoError(t, repo.SetDefault(ctx, "d2"))

	out, err := repo.List(ctx)
	require.NoError(t, err)
	defaults := 0
	for _, r := range out {
		if r.Metadata.IsDefault {
			defaults++
			assert.Equal(t, "d2", r.Metadata.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	assert.ErrorIs(t, repo.SetDefault(ctx, "missing"), ErrNotFound)
}

func TestMemoryGetDefaultFallback(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	_, err := repo.GetDefault(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Insert(ctx, rec("d1", "flights", "a", 5, editor.StatusPublished)))
	require.NoError(t, repo.Insert(ctx, rec("d2", "flights", "b", 1, editor.StatusPublished)))
	require.NoError(t, repo.Insert(ctx, rec("d3", "flights", "c", 0, editor.StatusDraft)))

	// No default set: first published by order wins.
	got, err := repo.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "d2", got.Metadata.ID)

	require.NoError(t, repo.SetDefault(ctx, "d1"))
	got, err = repo.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "d1", got.Metadata.ID)
}

func TestMemoryMoveOrder(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, rec("d1", "flights", "a", 1, editor.StatusDraft)))
	require.NoError(t, repo.Insert(ctx, rec("d2", "flights", "b", 2, editor.StatusDraft)))
	require.NoError(t, repo.Insert(ctx, rec("d3", "hotels", "c", 3, editor.StatusDraft)))

	require.NoError(t, repo.MoveOrder(ctx, "d2", MoveUp))
	d2, _ := repo.Get(ctx, "d2")
	d1, _ := repo.Get(ctx, "d1")
	assert.Equal(t, 1, d2.Metadata.Order)
	assert.Equal(t, 2, d1.Metadata.Order)

	// Already at the top; the hotels document is not a neighbor.
	assert.ErrorIs(t, repo.MoveOrder(ctx, "d2", MoveUp), ErrCannotMove)
	assert.ErrorIs(t, repo.MoveOrder(ctx, "missing", MoveUp), ErrNotFound)
}

func TestMemoryReorder(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, rec("d1", "flights", "a", 1, editor.StatusDraft)))
	require.NoError(t, repo.Insert(ctx, rec("d2", "flights", "b", 2, editor.StatusDraft)))

	require.NoError(t, repo.Reorder(ctx, []OrderUpdate{{ID: "d1", Order: 20}, {ID: "d2", Order: 10}}))
	d1, _ := repo.Get(ctx, "d1")
	d2, _ := repo.Get(ctx, "d2")
	assert.Equal(t, 20, d1.Metadata.Order)
	assert.Equal(t, 10, d2.Metadata.Order)
}

func TestMemorySaveConflictAndNotFound(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, rec("d1", "flights", "a", 1, editor.StatusDraft)))
	require.NoError(t, repo.Insert(ctx, rec("d2", "flights", "b", 2, editor.StatusDraft)))

	moved := rec("d2", "flights", "a", 2, editor.StatusDraft)
	assert.ErrorIs(t, repo.Save(ctx, moved), ErrConflict)

	assert.ErrorIs(t, repo.Save(ctx, rec("missing", "flights", "z", 1, editor.StatusDraft)), ErrNotFound)
}

func TestMemoryCategoryOperations(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, rec("d1", "flights", "a", 1, editor.StatusDraft)))
	require.NoError(t, repo.Insert(ctx, rec("d2", "flights", "b", 2, editor.StatusDraft)))
	require.NoError(t, repo.Insert(ctx, rec("d3", "hotels", "c", 1, editor.StatusDraft)))

	require.NoError(t, repo.RenameCategory(ctx, "flights", "air-travel"))
	d1, _ := repo.Get(ctx, "d1")
	assert.Equal(t, "air-travel", d1.Metadata.Category)

	n, err := repo.DeleteByCategory(ctx, "air-travel")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	remaining, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "d3", remaining[0].Metadata.ID)
}
