package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primex/docs-cms/internal/editor"
)

func validDoc() editor.Document {
	return editor.Document{
		Metadata: editor.DocumentMetadata{
			ID:          "doc_1",
			Title:       "Flight Search",
			Description: "How to search flights",
			Category:    "getting-started",
		},
		Blocks: []editor.Block{
			{ID: "b1", Type: editor.BlockParagraph, Data: map[string]any{"text": "hello"}},
		},
	}
}

func TestValidatePasses(t *testing.T) {
	report := NewValidator().Validate(validDoc())
	assert.True(t, report.Passed)
	assert.Empty(t, report.Errors)
}

func TestValidateRequiredFields(t *testing.T) {
	doc := validDoc()
	doc.Metadata.Title = ""
	doc.Metadata.Description = ""
	doc.Metadata.Category = ""

	report := NewValidator().Validate(doc)
	assert.False(t, report.Passed)
	assert.Contains(t, report.Errors, "Title is required")
	assert.Contains(t, report.Errors, "Description is required")
	assert.Contains(t, report.Errors, "Category is required")
}

func TestValidateForbiddenTermBoundaries(t *testing.T) {
	doc := validDoc()
	doc.Blocks[0].Data["text"] = "the tbo_id field"

	report := NewValidator().Validate(doc)
	assert.False(t, report.Passed)
	assert.Contains(t, report.Errors, `Forbidden term found: "tbo"`)

	// Surrounded by letters, the term does not match.
	doc.Blocks[0].Data["text"] = "outbound flight"
	report = NewValidator().Validate(doc)
	assert.True(t, report.Passed)
}

func TestValidateForbiddenTermInMetadata(t *testing.T) {
	doc := validDoc()
	doc.Metadata.Description = "Integrates with Amadeus."

	report := NewValidator().Validate(doc)
	assert.False(t, report.Passed)
	assert.Contains(t, report.Errors, `Forbidden term found: "amadeus"`)
}

func TestValidateMultiWordTerm(t *testing.T) {
	doc := validDoc()
	doc.Blocks[0].Data["text"] = "calls a third-party API internally"

	report := NewValidator().Validate(doc)
	assert.False(t, report.Passed)
	assert.Contains(t, report.Errors, `Forbidden term found: "third-party api"`)
}

func TestValidateEmptyDocument(t *testing.T) {
	doc := validDoc()
	doc.Blocks = nil

	report := NewValidator().Validate(doc)
	assert.False(t, report.Passed)
	assert.Contains(t, report.Errors, "Document has no content")
}

func TestValidateAPICategoryWarnings(t *testing.T) {
	doc := validDoc()
	doc.Metadata.Category = "flights"

	report := NewValidator().Validate(doc)
	// Warnings never block.
	assert.True(t, report.Passed)
	assert.Contains(t, report.Warnings, "API documentation should include an API Request block")
	assert.Contains(t, report.Warnings, "API documentation should include an API Response block")

	doc.Blocks = append(doc.Blocks,
		editor.Block{ID: "b2", Type: editor.BlockAPIRequest, Data: map[string]any{"method": "GET", "endpoint": "/v1/flights"}},
		editor.Block{ID: "b3", Type: editor.BlockAPIResponse, Data: map[string]any{"status": 200, "data": map[string]any{}}},
	)
	report = NewValidator().Validate(doc)
	assert.Empty(t, report.Warnings)
}

func TestValidateCompileFailure(t *testing.T) {
	doc := validDoc()
	// Unquoted frontmatter cannot carry a colon in the title.
	doc.Metadata.Title = "Flights: a guide"

	report := NewValidator().Validate(doc)
	assert.False(t, report.Passed)

	require.NotEmpty(t, report.Errors)
	assert.Contains(t, report.Errors[len(report.Errors)-1], "MDX compilation failed")
	assert.Contains(t, report.Warnings, "MDX syntax error detected. Check for unescaped characters or broken expressions.")
}

func TestValidateReportShape(t *testing.T) {
	report := NewValidator().Validate(validDoc())
	// Slices are always non-nil so the JSON envelope carries [] not null.
	assert.NotNil(t, report.Errors)
	assert.NotNil(t, report.Warnings)
}
