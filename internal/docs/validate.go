package docs

import (
	"bytes"
	"encoding/json"
	"regexp"

	"github.com/primex/docs-cms/internal/editor"
	"github.com/primex/docs-cms/internal/mdx"
)

// forbiddenTerms are vendor and partner references that must never appear in
// public documentation. Matching treats any non-letter as a word boundary, so
// "tbo" is caught inside "tbo_id" but not inside "outbound".
var forbiddenTerms = []string{
	"tbo",
	"amadeus",
	"brightsun",
	"vendor",
	"third-party api",
	"external api",
	"partner api",
}

var forbiddenPatterns = compileForbiddenPatterns()

func compileForbiddenPatterns() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(forbiddenTerms))
	for i, term := range forbiddenTerms {
		out[i] = regexp.MustCompile(`(?i)(?:^|[^a-zA-Z])` + regexp.QuoteMeta(term) + `(?:$|[^a-zA-Z])`)
	}
	return out
}

// apiCategories are the categories whose documents describe API endpoints and
// are expected to carry request/response examples.
var apiCategories = map[string]bool{
	"flights":  true,
	"hotels":   true,
	"bookings": true,
}

// ValidationReport is the outcome of running the rule set against a document.
// Warnings never block; Passed is true exactly when Errors is empty.
type ValidationReport struct {
	Passed   bool     `json:"passed"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validator runs the publish/review rule set. It owns a compiler for the
// MDX-validity rule and is safe for concurrent use.
type Validator struct {
	compiler *mdx.Compiler
}

func NewValidator() *Validator {
	return &Validator{compiler: mdx.NewCompiler()}
}

// Validate checks a document without mutating it.
func (v *Validator) Validate(doc editor.Document) ValidationReport {
	errs := []string{}
	warnings := []string{}

	meta := doc.Metadata
	if meta.Title == "" {
		errs = append(errs, "Title is required")
	}
	if meta.Description == "" {
		errs = append(errs, "Description is required")
	}
	if meta.Category == "" {
		errs = append(errs, "Category is required")
	}

	// The scan runs over the serialized blocks so terms buried in code
	// samples, table cells, and component props are all caught.
	content := encodeBlocks(doc.Blocks)
	for i, re := range forbiddenPatterns {
		if re.MatchString(content) || re.MatchString(meta.Title) || re.MatchString(meta.Description) {
			errs = append(errs, `Forbidden term found: "`+forbiddenTerms[i]+`"`)
		}
	}

	if apiCategories[meta.Category] {
		hasRequest, hasResponse := false, false
		for _, b := range doc.Blocks {
			switch b.Type {
			case editor.BlockAPIRequest:
				hasRequest = true
			case editor.BlockAPIResponse:
				hasResponse = true
			}
		}
		if !hasRequest {
			warnings = append(warnings, "API documentation should include an API Request block")
		}
		if !hasResponse {
			warnings = append(warnings, "API documentation should include an API Response block")
		}
	}

	if len(doc.Blocks) == 0 {
		errs = append(errs, "Document has no content")
	}

	if err := v.compiler.Compile(mdx.Generate(doc)); err != nil {
		errs = append(errs, "MDX compilation failed: "+err.Error())
		warnings = append(warnings, "MDX syntax error detected. Check for unescaped characters or broken expressions.")
	}

	return ValidationReport{
		Passed:   len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

// CheckCompile runs only the MDX-validity rule, used by the save path.
func (v *Validator) CheckCompile(doc editor.Document) error {
	return v.compiler.Compile(mdx.Generate(doc))
}

func encodeBlocks(blocks []editor.Block) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(blocks); err != nil {
		return ""
	}
	return buf.String()
}
