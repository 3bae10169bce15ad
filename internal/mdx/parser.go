package mdx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/primex/docs-cms/internal/editor"
)

// ParsedMetadata is the subset of document metadata recoverable from
// frontmatter. Fields missing from the source stay zero-valued; HasOrder
// distinguishes "order: 0" from no order line.
type ParsedMetadata struct {
	Title       string
	Description string
	Category    string
	APIStatus   editor.APIStatus
	Version     string
	Order       int
	HasOrder    bool
}

// ParsedDocument is the result of parsing MDX back into editor blocks.
type ParsedDocument struct {
	Metadata ParsedMetadata
	Blocks   []editor.Block
}

var (
	frontmatterBlock = regexp.MustCompile(`(?s)^---\n(.*?)\n---`)
	frontmatterStrip = regexp.MustCompile(`(?s)^---\n.*?\n---\n`)
	sectionSplit     = regexp.MustCompile(`\n{2,}`)

	headingSection = regexp.MustCompile(`^(#+)\s+(.+)$`)
	codeSection    = regexp.MustCompile("(?s)^```(\\w*)\n(.*?)```$")

	calloutType    = regexp.MustCompile(`type="(\w+)"`)
	calloutTitle   = regexp.MustCompile(`title="([^"]+)"`)
	calloutContent = regexp.MustCompile(`(?s)<Callout[^>]*>\s*(.*?)\s*</Callout>`)

	requestMethod   = regexp.MustCompile(`method="(\w+)"`)
	requestEndpoint = regexp.MustCompile(`endpoint="([^"]+)"`)
	requestDesc     = regexp.MustCompile(`description="([^"]+)"`)

	responseStatus  = regexp.MustCompile(`status=\{(\d+)\}`)
	responseLatency = regexp.MustCompile(`latency=\{(\d+)\}`)

	orderedLead = regexp.MustCompile(`^\d+\.`)
	listItemTok = regexp.MustCompile(`^[-\d.]+\s*`)
)

// Parse recovers metadata and blocks from MDX text. It is a best-effort
// heuristic, not an inverse of Generate: component props that are not
// explicitly captured are dropped (api-request loses headers and body,
// api-response loses data and keeps status/latency only), multi-line list
// items are split per line, and escaped entities in paragraph text are left
// as-is. Block IDs are regenerated sequentially.
//
// Parse never fails; sections that match no classifier fall through to
// paragraph blocks, and unmatched fields stay at their defaults.
func Parse(source string) ParsedDocument {
	var out ParsedDocument

	if m := frontmatterBlock.FindStringSubmatch(source); m != nil {
		out.Metadata = parseFrontmatterLines(m[1])
	}

	content := strings.TrimSpace(frontmatterStrip.ReplaceAllString(source, ""))
	if content == "" {
		return out
	}

	blockID := 0
	nextID := func() string {
		id := fmt.Sprintf("block_%d", blockID)
		blockID++
		return id
	}

	for _, section := range sectionSplit.Split(content, -1) {
		trimmed := strings.TrimSpace(section)
		if trimmed == "" {
			continue
		}
		if block, ok := classifySection(trimmed); ok {
			block.ID = nextID()
			out.Blocks = append(out.Blocks, block)
		}
	}

	return out
}

func parseFrontmatterLines(frontmatter string) ParsedMetadata {
	var meta ParsedMetadata
	for _, line := range strings.Split(frontmatter, "\n") {
		idx := strings.Index(line, ": ")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+2:])
		switch key {
		case "title":
			meta.Title = value
		case "description":
			meta.Description = value
		case "category":
			meta.Category = value
		case "order":
			if n, err := strconv.Atoi(value); err == nil {
				meta.Order = n
				meta.HasOrder = true
			}
		case "status":
			meta.APIStatus = editor.APIStatus(value)
		case "version":
			meta.Version = value
		}
	}
	return meta
}

func classifySection(trimmed string) (editor.Block, bool) {
	switch {
	case strings.HasPrefix(trimmed, "#"):
		m := headingSection.FindStringSubmatch(trimmed)
		if m == nil {
			return editor.Block{}, false
		}
		return editor.Block{
			Type: editor.BlockHeading,
			Data: map[string]any{"level": len(m[1]), "text": m[2]},
		}, true

	case strings.HasPrefix(trimmed, "```"):
		m := codeSection.FindStringSubmatch(trimmed)
		if m == nil {
			return editor.Block{}, false
		}
		lang := m[1]
		if lang == "" {
			lang = "text"
		}
		return editor.Block{
			Type: editor.BlockCode,
			Data: map[string]any{"language": lang, "code": strings.TrimSpace(m[2])},
		}, true

	case strings.HasPrefix(trimmed, "<Callout"):
		return parseCallout(trimmed), true

	case strings.HasPrefix(trimmed, "<ApiRequest"):
		return parseAPIRequest(trimmed), true

	case strings.HasPrefix(trimmed, "<ApiResponse"):
		return parseAPIResponse(trimmed), true

	case strings.HasPrefix(trimmed, "|"):
		return parseTable(trimmed), true

	case strings.HasPrefix(trimmed, "-") || orderedLead.MatchString(trimmed):
		return parseList(trimmed), true
	}

	// Fall through to paragraph. The text is taken verbatim: entity escapes
	// introduced by Generate are not reversed.
	return editor.Block{
		Type: editor.BlockParagraph,
		Data: map[string]any{"text": trimmed},
	}, true
}

// parseCallout captures type, title, and inner content by pattern matching.
// It is not a real tag parser: nested angle brackets inside the content can
// truncate the capture.
func parseCallout(s string) editor.Block {
	data := map[string]any{"type": "info", "title": "", "content": ""}
	if m := calloutType.FindStringSubmatch(s); m != nil {
		data["type"] = m[1]
	}
	if m := calloutTitle.FindStringSubmatch(s); m != nil {
		data["title"] = m[1]
	}
	if m := calloutContent.FindStringSubmatch(s); m != nil {
		data["content"] = m[1]
	}
	return editor.Block{Type: editor.BlockCallout, Data: data}
}

// parseAPIRequest recovers method, endpoint, and description only; headers
// and body props are dropped.
func parseAPIRequest(s string) editor.Block {
	data := map[string]any{"method": "GET", "endpoint": ""}
	if m := requestMethod.FindStringSubmatch(s); m != nil {
		data["method"] = m[1]
	}
	if m := requestEndpoint.FindStringSubmatch(s); m != nil {
		data["endpoint"] = m[1]
	}
	if m := requestDesc.FindStringSubmatch(s); m != nil {
		data["description"] = m[1]
	}
	return editor.Block{Type: editor.BlockAPIRequest, Data: data}
}

// parseAPIResponse recovers status and latency; the data prop is dropped and
// defaults to an empty object.
func parseAPIResponse(s string) editor.Block {
	data := map[string]any{"status": 200, "data": map[string]any{}}
	if m := responseStatus.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			data["status"] = n
		}
	}
	if m := responseLatency.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			data["latency"] = n
		}
	}
	return editor.Block{Type: editor.BlockAPIResponse, Data: data}
}

// parseTable assumes clean GFM: the separator row is dropped by filtering
// lines containing "---", and empty edge cells from leading/trailing pipes
// are discarded.
func parseTable(s string) editor.Block {
	var rows []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" || strings.Contains(line, "---") {
			continue
		}
		rows = append(rows, line)
	}
	headers := []string{}
	dataRows := [][]string{}
	if len(rows) > 0 {
		headers = splitTableRow(rows[0])
		for _, r := range rows[1:] {
			dataRows = append(dataRows, splitTableRow(r))
		}
	}
	return editor.Block{
		Type: editor.BlockTable,
		Data: map[string]any{"headers": headers, "rows": dataRows},
	}
}

func splitTableRow(line string) []string {
	cells := []string{}
	for _, c := range strings.Split(line, "|") {
		t := strings.TrimSpace(c)
		if t == "" {
			continue
		}
		cells = append(cells, t)
	}
	return cells
}

func parseList(s string) editor.Block {
	var items []string
	for _, line := range strings.Split(s, "\n") {
		items = append(items, strings.TrimSpace(listItemTok.ReplaceAllString(line, "")))
	}
	return editor.Block{
		Type: editor.BlockList,
		Data: map[string]any{"ordered": orderedLead.MatchString(s), "items": items},
	}
}
