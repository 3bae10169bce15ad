package mdx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/primex/docs-cms/internal/editor"
)

// Generate renders an editor document to MDX with a leading frontmatter
// block. It is pure and total: unknown block types render as nothing, bad
// block data renders with zero values, and the function never fails.
//
// Frontmatter values are emitted unquoted; a title containing ":" or a
// newline produces frontmatter that the compile check will reject. That
// matches the upstream format and is caught by validation, not here.
func Generate(doc editor.Document) string {
	var lines []string

	meta := doc.Metadata
	lines = append(lines,
		"---",
		"title: "+meta.Title,
		"description: "+meta.Description,
		"category: "+meta.Category,
		"order: "+strconv.Itoa(meta.Order),
		"status: "+string(meta.APIStatus),
		"version: "+meta.Version,
		"published: true",
		"---",
		"",
	)

	for _, block := range doc.Blocks {
		lines = append(lines, blockToMDX(block), "")
	}

	return strings.Join(lines, "\n")
}

func blockToMDX(b editor.Block) string {
	switch b.Type {
	case editor.BlockHeading:
		d := b.Heading()
		return strings.Repeat("#", d.Level) + " " + d.Text
	case editor.BlockParagraph:
		return escapeText(b.Paragraph().Text)
	case editor.BlockCode:
		return codeToMDX(b.Code())
	case editor.BlockCallout:
		return calloutToMDX(b.Callout())
	case editor.BlockSteps:
		return stepsToMDX(b.Steps())
	case editor.BlockAPIRequest:
		return apiRequestToMDX(b.APIRequest())
	case editor.BlockAPIResponse:
		return apiResponseToMDX(b.APIResponse())
	case editor.BlockTable:
		return tableToMDX(b.Table())
	case editor.BlockList:
		return listToMDX(b.List())
	case editor.BlockDivider:
		return "---"
	case editor.BlockRateLimit:
		return rateLimitToMDX(b.RateLimit())
	}
	return ""
}

func codeToMDX(d editor.CodeData) string {
	meta := ""
	if d.Filename != "" {
		meta = " filename={" + jsonLiteral(d.Filename) + "}"
	}
	return "```" + d.Language + meta + "\n" + d.Code + "\n```"
}

// Callout content is inserted raw: it is allowed to carry nested markdown.
func calloutToMDX(d editor.CalloutData) string {
	title := ""
	if d.Title != "" {
		title = " title={" + jsonLiteral(d.Title) + "}"
	}
	return fmt.Sprintf("<Callout type=%q%s>\n  %s\n</Callout>", d.Type, title, d.Content)
}

func stepsToMDX(d editor.StepsData) string {
	steps := make([]string, 0, len(d.Steps))
	for _, step := range d.Steps {
		steps = append(steps, fmt.Sprintf("  <Step title={%s}>\n    %s\n  </Step>", jsonLiteral(step.Title), step.Content))
	}
	return "<Steps>\n" + strings.Join(steps, "\n") + "\n</Steps>"
}

func apiRequestToMDX(d editor.APIRequestData) string {
	props := []string{
		"method={" + jsonLiteral(d.Method) + "}",
		"endpoint={" + jsonLiteral(d.Endpoint) + "}",
	}
	if d.Description != "" {
		props = append(props, "description={"+jsonLiteral(d.Description)+"}")
	}
	if len(d.Headers) > 0 {
		props = append(props, "headers={"+jsonLiteral(d.Headers)+"}")
	}
	if len(d.Body) > 0 {
		props = append(props, "body={"+jsonLiteralIndent(d.Body)+"}")
	}
	return "<ApiRequest\n  " + strings.Join(props, "\n  ") + "\n/>"
}

func apiResponseToMDX(d editor.APIResponseData) string {
	props := []string{"status={" + strconv.Itoa(d.Status) + "}"}
	if d.Latency != 0 {
		props = append(props, "latency={"+strconv.Itoa(d.Latency)+"}")
	}
	props = append(props, "data={"+jsonLiteralIndent(d.Data)+"}")
	return "<ApiResponse\n  " + strings.Join(props, "\n  ") + "\n/>"
}

func tableToMDX(d editor.TableData) string {
	lines := make([]string, 0, len(d.Rows)+2)
	lines = append(lines, "| "+strings.Join(d.Headers, " | ")+" |")
	seps := make([]string, len(d.Headers))
	for i := range seps {
		seps[i] = "---"
	}
	lines = append(lines, "| "+strings.Join(seps, " | ")+" |")
	for _, row := range d.Rows {
		lines = append(lines, "| "+strings.Join(row, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

func listToMDX(d editor.ListData) string {
	lines := make([]string, 0, len(d.Items))
	for i, item := range d.Items {
		if d.Ordered {
			lines = append(lines, strconv.Itoa(i+1)+". "+escapeText(item))
		} else {
			lines = append(lines, "- "+escapeText(item))
		}
	}
	return strings.Join(lines, "\n")
}

func rateLimitToMDX(d editor.RateLimitData) string {
	notes := ""
	if d.Notes != "" {
		notes = "\n  notes={" + jsonLiteral(d.Notes) + "}"
	}
	return "<RateLimitInfo\n  limits={" + jsonLiteralIndent(d.Limits) + "}" + notes + "\n/>"
}

// jsonLiteral marshals v without HTML escaping so `<`, `>` and `&` survive
// into the expression prop verbatim.
func jsonLiteral(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func jsonLiteralIndent(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
