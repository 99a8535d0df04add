// internal/render/sanitize.go
package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans rendered previews. It starts from the user-generated
// content policy and lets through the classes and accessibility attributes
// the constructs rely on.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the preview policy.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption", "span", "div", "sup", "section")
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("lang").Globally()
	p.AllowAttrs("id").Matching(regexp.MustCompile(`^[\w:.-]+$`)).Globally()
	p.AllowAttrs("role").Matching(regexp.MustCompile(`^[a-z-]+$`)).Globally()
	p.AllowAttrs("aria-label").Globally()
	p.AllowAttrs("tabindex").Matching(bluemonday.Integer).Globally()
	p.AllowDataAttributes()
	return &Sanitizer{policy: p}
}

// NewPageSanitizer extends the preview policy with the inline styles that
// code highlighting writes on pre, code and span elements.
func NewPageSanitizer() *Sanitizer {
	s := NewSanitizer()
	s.policy.AllowStyles(
		"color", "background-color", "display", "font-weight", "font-style", "text-decoration",
		"white-space", "tab-size", "-moz-tab-size", "-o-tab-size", "margin", "padding", "border", "width",
	).OnElements("pre", "code", "span")
	return s
}

// Sanitize returns htmlText with anything outside the policy removed.
func (s *Sanitizer) Sanitize(htmlText string) string {
	return s.policy.Sanitize(htmlText)
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	blockBoundary = regexp.MustCompile(`(?i)</(?:p|div|li|h[1-6]|figcaption|blockquote|td|th|pre)>|<br\s*/?>`)
)

// textPolicy strips every tag.
var textPolicy = bluemonday.StrictPolicy()

// PlainText reduces rendered HTML to searchable text: tags dropped,
// entities decoded, whitespace collapsed.
func PlainText(htmlText string) string {
	// Block boundaries become spaces so adjacent paragraphs do not fuse.
	spaced := blockBoundary.ReplaceAllStringFunc(htmlText, func(tag string) string { return " " + tag })
	text := html.UnescapeString(textPolicy.Sanitize(spaced))
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
