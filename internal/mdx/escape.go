package mdx

import (
	"regexp"
	"strings"
)

// Escaping is applied to paragraph text and list items only. Callout and step
// content and table cells pass through raw so authors can embed markdown and
// component markup there.
var (
	entityReplacer = strings.NewReplacer("{", "&#123;", "}", "&#125;", "<", "&lt;")

	leadingHeading = regexp.MustCompile(`(?m)^(#{1,6} )`)
	leadingBullet  = regexp.MustCompile(`(?m)^([-*+] )`)
	leadingOrdered = regexp.MustCompile(`(?m)^(\d+\. )`)
	leadingQuote   = regexp.MustCompile(`(?m)^(> )`)
)

// escapeText neutralizes MDX expression delimiters and Markdown structural
// tokens so plain text renders literally instead of becoming an expression,
// heading, list, or blockquote.
func escapeText(text string) string {
	s := entityReplacer.Replace(text)
	s = leadingHeading.ReplaceAllString(s, `\$1`)
	s = leadingBullet.ReplaceAllString(s, `\$1`)
	s = leadingOrdered.ReplaceAllString(s, `\$1`)
	s = leadingQuote.ReplaceAllString(s, `\$1`)
	return s
}
