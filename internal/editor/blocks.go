package editor

import "fmt"

// BlockType identifies one of the closed set of content block variants the
// visual editor can produce.
type BlockType string

const (
	BlockHeading     BlockType = "heading"
	BlockParagraph   BlockType = "paragraph"
	BlockCode        BlockType = "code"
	BlockCallout     BlockType = "callout"
	BlockSteps       BlockType = "steps"
	BlockAPIRequest  BlockType = "api-request"
	BlockAPIResponse BlockType = "api-response"
	BlockTable       BlockType = "table"
	BlockList        BlockType = "list"
	BlockDivider     BlockType = "divider"
	BlockRateLimit   BlockType = "rate-limit"
)

// KnownBlockTypes lists every block type the editor understands, in palette order.
var KnownBlockTypes = []BlockType{
	BlockHeading, BlockParagraph, BlockCode, BlockCallout, BlockSteps,
	BlockAPIRequest, BlockAPIResponse, BlockTable, BlockList, BlockDivider,
	BlockRateLimit,
}

// Block is a single typed unit of document content. Data is untyped at the
// container level; each block type has a fixed shape that the typed accessors
// below decode.
type Block struct {
	ID   string         `json:"id" bson:"id"`
	Type BlockType      `json:"type" bson:"type"`
	Data map[string]any `json:"data" bson:"data"`
}

// HeadingData is the data shape for heading blocks.
type HeadingData struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// ParagraphData is the data shape for paragraph blocks.
type ParagraphData struct {
	Text string `json:"text"`
}

// CodeData is the data shape for fenced code blocks.
type CodeData struct {
	Language        string `json:"language"`
	Code            string `json:"code"`
	Filename        string `json:"filename,omitempty"`
	ShowLineNumbers bool   `json:"showLineNumbers,omitempty"`
	HighlightLines  []int  `json:"highlightLines,omitempty"`
}

// CalloutData is the data shape for callout blocks. Content is raw
// MDX/markdown and is rendered without escaping.
type CalloutData struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// Step is one entry of a steps block.
type Step struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// StepsData is the data shape for steps blocks.
type StepsData struct {
	Steps []Step `json:"steps"`
}

// APIRequestData is the data shape for api-request blocks.
type APIRequestData struct {
	Method      string            `json:"method"`
	Endpoint    string            `json:"endpoint"`
	Description string            `json:"description,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        map[string]any    `json:"body,omitempty"`
}

// APIResponseData is the data shape for api-response blocks.
type APIResponseData struct {
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	Data        any    `json:"data"`
	Latency     int    `json:"latency,omitempty"`
}

// TableData is the data shape for table blocks. Rows are expected to match
// the header width, but this is a soft expectation: ValidateShape reports a
// mismatch without rejecting the block.
type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ListData is the data shape for list blocks.
type ListData struct {
	Ordered bool     `json:"ordered"`
	Style   string   `json:"style,omitempty"`
	Items   []string `json:"items"`
}

// RateLimitTier is one entry of a rate-limit block.
type RateLimitTier struct {
	Tier              string `json:"tier"`
	RequestsPerSecond int    `json:"requestsPerSecond"`
	RequestsPerDay    int    `json:"requestsPerDay"`
	BurstLimit        int    `json:"burstLimit,omitempty"`
}

// RateLimitData is the data shape for rate-limit blocks.
type RateLimitData struct {
	Limits []RateLimitTier `json:"limits"`
	Notes  string          `json:"notes,omitempty"`
}

// Heading decodes the block data as heading fields. Missing fields come back
// zero-valued; levels outside 1..4 are clamped.
func (b Block) Heading() HeadingData {
	d := HeadingData{Level: intField(b.Data, "level"), Text: stringField(b.Data, "text")}
	if d.Level < 1 {
		d.Level = 1
	}
	if d.Level > 4 {
		d.Level = 4
	}
	return d
}

func (b Block) Paragraph() ParagraphData {
	return ParagraphData{Text: stringField(b.Data, "text")}
}

func (b Block) Code() CodeData {
	return CodeData{
		Language: stringField(b.Data, "language"),
		Code:     stringField(b.Data, "code"),
		Filename: stringField(b.Data, "filename"),
	}
}

func (b Block) Callout() CalloutData {
	d := CalloutData{
		Type:    stringField(b.Data, "type"),
		Title:   stringField(b.Data, "title"),
		Content: stringField(b.Data, "content"),
	}
	if d.Type == "" {
		d.Type = "info"
	}
	return d
}

func (b Block) Steps() StepsData {
	var d StepsData
	raw, ok := b.Data["steps"].([]any)
	if !ok {
		if typed, ok2 := b.Data["steps"].([]Step); ok2 {
			d.Steps = typed
		}
		return d
	}
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		d.Steps = append(d.Steps, Step{
			Title:   stringField(m, "title"),
			Content: stringField(m, "content"),
		})
	}
	return d
}

func (b Block) APIRequest() APIRequestData {
	d := APIRequestData{
		Method:      stringField(b.Data, "method"),
		Endpoint:    stringField(b.Data, "endpoint"),
		Description: stringField(b.Data, "description"),
	}
	if d.Method == "" {
		d.Method = "GET"
	}
	if raw, ok := b.Data["headers"].(map[string]any); ok {
		d.Headers = make(map[string]string, len(raw))
		for k, v := range raw {
			if s, ok := v.(string); ok {
				d.Headers[k] = s
			}
		}
	} else if typed, ok := b.Data["headers"].(map[string]string); ok {
		d.Headers = typed
	}
	if raw, ok := b.Data["body"].(map[string]any); ok {
		d.Body = raw
	}
	return d
}

func (b Block) APIResponse() APIResponseData {
	d := APIResponseData{
		Status:      intField(b.Data, "status"),
		Description: stringField(b.Data, "description"),
		Latency:     intField(b.Data, "latency"),
	}
	if d.Status == 0 {
		d.Status = 200
	}
	if v, ok := b.Data["data"]; ok {
		d.Data = v
	} else {
		d.Data = map[string]any{}
	}
	return d
}

func (b Block) Table() TableData {
	var d TableData
	d.Headers = stringSliceField(b.Data, "headers")
	if raw, ok := b.Data["rows"].([]any); ok {
		for _, row := range raw {
			if cells, ok := row.([]any); ok {
				out := make([]string, 0, len(cells))
				for _, c := range cells {
					if s, ok := c.(string); ok {
						out = append(out, s)
					}
				}
				d.Rows = append(d.Rows, out)
			}
		}
	} else if typed, ok := b.Data["rows"].([][]string); ok {
		d.Rows = typed
	}
	return d
}

func (b Block) List() ListData {
	ordered, _ := b.Data["ordered"].(bool)
	return ListData{
		Ordered: ordered,
		Style:   stringField(b.Data, "style"),
		Items:   stringSliceField(b.Data, "items"),
	}
}

func (b Block) RateLimit() RateLimitData {
	d := RateLimitData{Notes: stringField(b.Data, "notes")}
	raw, ok := b.Data["limits"].([]any)
	if !ok {
		if typed, ok2 := b.Data["limits"].([]RateLimitTier); ok2 {
			d.Limits = typed
		}
		return d
	}
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		d.Limits = append(d.Limits, RateLimitTier{
			Tier:              stringField(m, "tier"),
			RequestsPerSecond: intField(m, "requestsPerSecond"),
			RequestsPerDay:    intField(m, "requestsPerDay"),
			BurstLimit:        intField(m, "burstLimit"),
		})
	}
	return d
}

// ValidateShape reports structural problems with a block's data. These are
// advisory only; the generator renders what it can regardless.
func (b Block) ValidateShape() []string {
	var problems []string
	switch b.Type {
	case BlockHeading:
		if stringField(b.Data, "text") == "" {
			problems = append(problems, "heading block has no text")
		}
	case BlockTable:
		t := b.Table()
		for i, row := range t.Rows {
			if len(row) != len(t.Headers) {
				problems = append(problems, fmt.Sprintf("table row %d has %d cells, expected %d", i, len(row), len(t.Headers)))
			}
		}
	case BlockList:
		if len(b.List().Items) == 0 {
			problems = append(problems, "list block has no items")
		}
	case BlockSteps:
		if len(b.Steps().Steps) == 0 {
			problems = append(problems, "steps block has no steps")
		}
	}
	return problems
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func stringSliceField(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}
	if typed, ok := m[key].([]string); ok {
		return typed
	}
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
