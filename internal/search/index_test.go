package search

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primex/docs-cms/internal/editor"
)

func corpus() []Document {
	return []Document{
		{ID: "d1", Title: "Flight Search", Description: "Search for flights", Content: "origin destination dates", URL: "/docs/d1", Section: "flights"},
		{ID: "d2", Title: "Hotel Rates", Description: "Hotel pricing", Content: "nightly rates and flight bundles", URL: "/docs/d2", Section: "hotels"},
		{ID: "d3", Title: "Authentication", Description: "API keys", Content: "bearer tokens", URL: "/docs/d3", Section: "getting-started"},
	}
}

func TestSearchUninitializedReturnsEmpty(t *testing.T) {
	idx := NewIndex()
	res := idx.Search("flight")
	assert.Equal(t, 0, res.Count)
	assert.NotNil(t, res.Hits)
	assert.False(t, idx.Initialized())
}

func TestSearchTitleBoost(t *testing.T) {
	idx := NewIndex()
	idx.Initialize(corpus())
	require.True(t, idx.Initialized())

	res := idx.Search("flight")
	require.NotEmpty(t, res.Hits)
	// "Flight Search" matches in the title and outranks the content-only
	// match in the hotel document.
	assert.Equal(t, "d1", res.Hits[0].Document.ID)
	assert.Greater(t, res.Hits[0].Score, res.Hits[len(res.Hits)-1].Score)
}

func TestSearchPrefixMatch(t *testing.T) {
	idx := NewIndex()
	idx.Initialize(corpus())

	res := idx.Search("auth")
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "d3", res.Hits[0].Document.ID)
}

func TestSearchBlankQuery(t *testing.T) {
	idx := NewIndex()
	idx.Initialize(corpus())
	assert.Equal(t, 0, idx.Search("   ").Count)
}

func TestSearchLimit(t *testing.T) {
	idx := NewIndex()
	docs := make([]Document, 0, 25)
	for i := 0; i < 25; i++ {
		docs = append(docs, Document{
			ID:    string(rune('a' + i)),
			Title: "booking guide",
		})
	}
	idx.Initialize(docs)

	res := idx.Search("booking")
	assert.Equal(t, maxHits, res.Count)
	assert.Len(t, res.Hits, maxHits)
}

func TestInitializeIsOneShot(t *testing.T) {
	idx := NewIndex()
	idx.Initialize(corpus())
	idx.Initialize([]Document{{ID: "x", Title: "replacement"}})

	res := idx.Search("flight")
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, 0, idx.Search("replacement").Count)
}

func TestUpsertAfterPublish(t *testing.T) {
	idx := NewIndex()

	doc := editor.Document{Metadata: editor.DocumentMetadata{
		ID:          "d9",
		Title:       "Refund Policies",
		Description: "How refunds work",
		Category:    "bookings",
	}}

	// Before initialization the publish hook is a no-op.
	idx.DocumentPublished(context.Background(), doc, "refund content")
	assert.Equal(t, 0, idx.Search("refund").Count)

	idx.Initialize(corpus())
	idx.DocumentPublished(context.Background(), doc, "refund content")

	res := idx.Search("refund")
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "/docs/d9", res.Hits[0].Document.URL)
	assert.Equal(t, "bookings", res.Hits[0].Document.Section)

	idx.Remove("d9")
	assert.Equal(t, 0, idx.Search("refund").Count)
}

func TestConcurrentSearchAndUpsert(t *testing.T) {
	idx := NewIndex()
	idx.Initialize(corpus())

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if n%2 == 0 {
					idx.Search("flight")
				} else {
					idx.Upsert(Document{ID: "d1", Title: "Flight Search"})
				}
			}
		}(w)
	}
	wg.Wait()
}
