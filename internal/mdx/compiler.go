package mdx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// CompileError describes why a source failed the compile check.
type CompileError struct {
	Message string
	Line    int
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Compiler is the validity oracle for generated MDX. It is used only to
// answer "would this source render", never to produce output: frontmatter
// must parse as strict YAML, component tags must balance, expression props
// must hold valid JSON, and the remaining body must convert as GFM markdown.
//
// The compiler is stateless and safe for concurrent use.
type Compiler struct {
	md goldmark.Markdown
}

// NewCompiler builds a compiler with GFM extensions enabled, mirroring the
// rendering pipeline's configuration.
func NewCompiler() *Compiler {
	return &Compiler{
		md: goldmark.New(
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithExtensions(extension.GFM, extension.Linkify),
		),
	}
}

// Compile checks the full document source, frontmatter included. It returns
// a *CompileError on failure and nil when the source would render.
func (c *Compiler) Compile(source string) error {
	var meta map[string]any
	body, err := frontmatter.Parse(strings.NewReader(source), &meta)
	if err != nil {
		return &CompileError{Message: "frontmatter: " + err.Error()}
	}

	if err := scanBody(string(body)); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := c.md.Convert(body, &buf); err != nil {
		return &CompileError{Message: "markdown: " + err.Error()}
	}
	return nil
}

// scanBody walks the body outside fenced code blocks, checking MDX-level
// syntax: expression braces must balance and contain JSON, `<` must open a
// real tag, and component tags (capitalized names) must nest correctly.
type bodyScanner struct {
	line     int
	tagStack []string
}

func scanBody(body string) error {
	s := &bodyScanner{line: 1}
	inFence := false

	lines := strings.Split(body, "\n")
	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			s.line++
			i++
			continue
		}
		if inFence {
			s.line++
			i++
			continue
		}
		// Expressions and tags may span lines; consume as many lines as the
		// construct needs and resume after it.
		consumed, err := s.scanText(lines[i:])
		if err != nil {
			return err
		}
		i += consumed
	}

	if len(s.tagStack) > 0 {
		return &CompileError{Message: fmt.Sprintf("unclosed <%s> tag", s.tagStack[len(s.tagStack)-1])}
	}
	return nil
}

// scanText processes one line of text content, following multi-line tags and
// expressions into subsequent lines. It returns how many lines it consumed.
func (s *bodyScanner) scanText(lines []string) (int, error) {
	text := strings.Join(lines, "\n")
	pos := 0
	startLine := s.line
	lineAt := func(p int) int { return startLine + strings.Count(text[:p], "\n") }

	lineEnd := strings.IndexByte(text, '\n')
	if lineEnd < 0 {
		lineEnd = len(text)
	}

	for pos < len(text) {
		// Stop at the end of the first line unless a construct carried us past it.
		if pos >= lineEnd {
			break
		}
		ch := text[pos]
		switch ch {
		case '{':
			end, err := s.matchExpression(text, pos, lineAt)
			if err != nil {
				return 0, err
			}
			if end > lineEnd {
				lineEnd = advanceLineEnd(text, end)
			}
			pos = end
		case '}':
			return 0, &CompileError{Message: "unexpected '}' outside expression", Line: lineAt(pos)}
		case '<':
			end, err := s.matchTag(text, pos, lineAt)
			if err != nil {
				return 0, err
			}
			if end > lineEnd {
				lineEnd = advanceLineEnd(text, end)
			}
			pos = end
		default:
			pos++
		}
	}

	consumedText := text[:lineEnd]
	consumedLines := strings.Count(consumedText, "\n") + 1
	s.line = startLine + consumedLines
	return consumedLines, nil
}

func advanceLineEnd(text string, from int) int {
	next := strings.IndexByte(text[from:], '\n')
	if next < 0 {
		return len(text)
	}
	return from + next
}

// matchExpression consumes a balanced {...} group starting at pos and
// verifies the inner text is valid JSON. Returns the index past '}'.
func (s *bodyScanner) matchExpression(text string, pos int, lineAt func(int) int) (int, error) {
	depth := 0
	inString := false
	for i := pos; i < len(text); i++ {
		ch := text[i]
		if inString {
			if ch == '\\' {
				i++
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				inner := text[pos+1 : i]
				if !json.Valid([]byte(inner)) {
					return 0, &CompileError{Message: "invalid expression: " + truncate(inner), Line: lineAt(pos)}
				}
				return i + 1, nil
			}
		}
	}
	return 0, &CompileError{Message: "unclosed expression", Line: lineAt(pos)}
}

// matchTag consumes a <...> tag starting at pos, validating any expression
// props inside it and tracking component open/close balance. Returns the
// index past '>'.
func (s *bodyScanner) matchTag(text string, pos int, lineAt func(int) int) (int, error) {
	if pos+1 >= len(text) {
		return 0, &CompileError{Message: "unexpected '<' at end of input", Line: lineAt(pos)}
	}
	next := text[pos+1]
	closing := next == '/'
	nameStart := pos + 1
	if closing {
		nameStart++
	}
	if nameStart >= len(text) || !isTagNameByte(text[nameStart]) {
		return 0, &CompileError{Message: "unexpected '<' in text (use &lt; to render a literal)", Line: lineAt(pos)}
	}

	nameEnd := nameStart
	for nameEnd < len(text) && isTagNameByte(text[nameEnd]) {
		nameEnd++
	}
	name := text[nameStart:nameEnd]

	i := nameEnd
	inString := false
	selfClosing := false
	for i < len(text) {
		ch := text[i]
		if inString {
			if ch == '"' {
				inString = false
			}
			i++
			continue
		}
		switch ch {
		case '"':
			inString = true
			i++
		case '{':
			end, err := s.matchExpression(text, i, lineAt)
			if err != nil {
				return 0, err
			}
			i = end
		case '/':
			if i+1 < len(text) && text[i+1] == '>' {
				selfClosing = true
			}
			i++
		case '>':
			if isComponentName(name) && !selfClosing {
				if closing {
					if len(s.tagStack) == 0 || s.tagStack[len(s.tagStack)-1] != name {
						return 0, &CompileError{Message: "mismatched </" + name + ">", Line: lineAt(pos)}
					}
					s.tagStack = s.tagStack[:len(s.tagStack)-1]
				} else {
					s.tagStack = append(s.tagStack, name)
				}
			}
			return i + 1, nil
		default:
			i++
		}
	}
	return 0, &CompileError{Message: "unclosed <" + name + "> tag", Line: lineAt(pos)}
}

func isTagNameByte(b byte) bool {
	return b == '_' || b == '-' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isComponentName(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "…"
	}
	return s
}
