package search

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/primex/docs-cms/internal/editor"
)

// Document is one searchable entry, flattened from a published document.
type Document struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Section     string `json:"section"`
}

// Result is one hit with its relevance score.
type Result struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// Results is the search response shape.
type Results struct {
	Hits           []Result      `json:"hits"`
	Count          int           `json:"count"`
	Query          string        `json:"query"`
	ProcessingTime time.Duration `json:"processingTime"`
}

// Field boosts: titles dominate, body content counts least.
const (
	boostTitle       = 5.0
	boostDescription = 2.0
	boostSection     = 1.5
	boostContent     = 1.0
)

const maxHits = 10

// Index is an in-memory search index over the published corpus. It is
// constructed once at startup and injected into its consumers; Initialize is
// one-shot, and until it has run every query returns empty results rather
// than an error.
type Index struct {
	mu   sync.RWMutex
	docs map[string]indexed
}

type indexed struct {
	doc    Document
	fields [4][]string // tokenized title, description, section, content
}

func NewIndex() *Index {
	return &Index{}
}

// Initialized reports whether the corpus has been loaded.
func (i *Index) Initialized() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.docs != nil
}

// Initialize loads the corpus. Subsequent calls are no-ops, so concurrent
// startup paths cannot double-build the index.
func (i *Index) Initialize(docs []Document) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.docs != nil {
		return
	}
	i.docs = make(map[string]indexed, len(docs))
	for _, d := range docs {
		i.docs[d.ID] = newIndexed(d)
	}
}

// Upsert adds or replaces one entry. Before initialization it is a no-op;
// the startup load will pick the document up.
func (i *Index) Upsert(d Document) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.docs == nil {
		return
	}
	i.docs[d.ID] = newIndexed(d)
}

// Remove drops one entry, used when a document is unpublished or deleted.
func (i *Index) Remove(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.docs, id)
}

// Search scores the corpus against the query. An uninitialized index or a
// blank query returns empty results, never an error.
func (i *Index) Search(query string) Results {
	start := time.Now()
	res := Results{Hits: []Result{}, Query: query}

	terms := tokenize(query)
	if len(terms) == 0 {
		return res
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.docs == nil {
		return res
	}

	boosts := [4]float64{boostTitle, boostDescription, boostSection, boostContent}
	for _, entry := range i.docs {
		score := 0.0
		for f, tokens := range entry.fields {
			score += fieldScore(tokens, terms) * boosts[f]
		}
		if score > 0 {
			res.Hits = append(res.Hits, Result{Document: entry.doc, Score: score})
		}
	}

	sort.Slice(res.Hits, func(a, b int) bool {
		if res.Hits[a].Score != res.Hits[b].Score {
			return res.Hits[a].Score > res.Hits[b].Score
		}
		return res.Hits[a].Document.Title < res.Hits[b].Document.Title
	})
	if len(res.Hits) > maxHits {
		res.Hits = res.Hits[:maxHits]
	}
	res.Count = len(res.Hits)
	res.ProcessingTime = time.Since(start)
	return res
}

// DocumentPublished keeps the index fresh after a publish. Satisfies the
// document service's publish listener.
func (i *Index) DocumentPublished(_ context.Context, doc editor.Document, source string) {
	i.Upsert(FromEditorDocument(doc, source))
}

// FromEditorDocument flattens a published document into a search entry. The
// generated MDX stands in for the rendered content.
func FromEditorDocument(doc editor.Document, source string) Document {
	section := doc.Metadata.Category
	if section == "" {
		section = "General"
	}
	return Document{
		ID:          doc.Metadata.ID,
		Title:       doc.Metadata.Title,
		Description: doc.Metadata.Description,
		Content:     source,
		URL:         "/docs/" + doc.Metadata.ID,
		Section:     section,
	}
}

func newIndexed(d Document) indexed {
	return indexed{
		doc: d,
		fields: [4][]string{
			tokenize(d.Title),
			tokenize(d.Description),
			tokenize(d.Section),
			tokenize(d.Content),
		},
	}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
}

// fieldScore counts exact token matches at full weight and prefix matches at
// half weight, which covers partially typed queries.
func fieldScore(tokens, terms []string) float64 {
	score := 0.0
	for _, term := range terms {
		for _, tok := range tokens {
			if tok == term {
				score++
			} else if strings.HasPrefix(tok, term) {
				score += 0.5
			}
		}
	}
	return score
}
