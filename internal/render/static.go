// internal/render/static.go
package render

import (
	"regexp"
	"strings"

	"fromthedepths/internal/mdx"
)

var (
	footnoteDefinition = regexp.MustCompile(`(?m)^[ \t]*\[\^[^\]]+\]:.*(?:\n(?:[ \t]{2,}|\t).*)*\n?`)
	footnoteReference  = regexp.MustCompile(`\[\^[^\]]+\]`)
	attrEscaper        = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// StaticOptions tunes a static render.
type StaticOptions struct {
	// SuppressFootnotes removes footnote references and definitions before
	// rendering. Previews and the feed use it.
	SuppressFootnotes bool
}

// Static renders post bodies to plain HTML strings with no scripting. It
// backs previews and the syndication feed.
type Static struct {
	md *Markdown
}

// NewStatic returns a static renderer using md, or the feed configuration
// when md is nil.
func NewStatic(md *Markdown) *Static {
	if md == nil {
		md = NewMarkdown(FeedMarkdownOptions())
	}
	return &Static{md: md}
}

// Render converts a post body to HTML. Content problems never produce an
// error; only a failure inside the markdown converter does.
func (s *Static) Render(content string, opts StaticOptions) (string, error) {
	if opts.SuppressFootnotes {
		content = StripFootnotes(content)
	}
	return s.RenderNodes(mdx.Parse(content))
}

// RenderNodes renders an already parsed body.
func (s *Static) RenderNodes(nodes []mdx.Node) (string, error) {
	e := &engine{md: s.md, b: staticBackend{}}
	return e.document(nodes)
}

// StripFootnotes removes footnote definitions and then every remaining
// [^label] reference.
func StripFootnotes(content string) string {
	content = footnoteDefinition.ReplaceAllString(content, "")
	return footnoteReference.ReplaceAllString(content, "")
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

type staticBackend struct{}

func (staticBackend) dropCap(e *engine, n mdx.DropCap) (string, error) {
	text := mdx.PlainText(n.Children)
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	lead := Lead(text)
	switch lead.Kind {
	case LeadI:
		rest, err := e.md.RenderInline(lead.Rest)
		if err != nil {
			return "", err
		}
		return `<p class="` + ClassDropCapQuoted + `"><span class="` + ClassDropCapLetter + `">I</span>` +
			lead.Quote + rest + `</p>`, nil
	case LeadQuote:
		rest, err := e.md.RenderInline(lead.Rest)
		if err != nil {
			return "", err
		}
		return `<p class="` + ClassDropCapQuoted + `"><span class="` + ClassDropCapQuote + `">` + lead.Quote +
			`</span><span class="` + ClassDropCapLetter + `">` + escapeAttr(lead.Letter) + `</span>` + rest + `</p>`, nil
	}
	inner, err := e.nestedInline(n.Children)
	if err != nil {
		return "", err
	}
	return `<p class="` + ClassDropCap + `">` + inner + `</p>`, nil
}

func (staticBackend) twoColumn(e *engine, n mdx.TwoColumn) (string, error) {
	main, err := e.nested(n.Children)
	if err != nil {
		return "", err
	}
	main = strings.ReplaceAll(main, "\n\n", "\n")

	if len(n.Aside) > 0 {
		aside, err := e.nested(n.Aside)
		if err != nil {
			return "", err
		}
		if aside != "" {
			return `<div class="` + ClassTwoColumnAside + `"><div class="` + ClassTwoColumnMain + `">` + main +
				`</div><div class="` + ClassTwoColumnSide + `">` + aside + `</div></div>`, nil
		}
	}
	if main == "" {
		return "", nil
	}
	return `<div class="` + ClassTwoColumn + `">` + main + `</div>`, nil
}

func (staticBackend) captionedImage(_ *engine, img mdx.CaptionedImage) (string, error) {
	cls := ImageClasses(img)
	return `<figure class="` + cls.Figure + `"><img src="` + escapeAttr(img.Src) + `" alt="` + escapeAttr(img.Alt) +
		`" class="` + cls.Image + `"><figcaption class="` + cls.Caption + `">` + escapeAttr(img.Caption) +
		`</figcaption></figure>`, nil
}

func (staticBackend) floatGroup(e *engine, n mdx.FloatGroup) (string, error) {
	inner, err := e.nested(n.Children)
	if err != nil {
		return "", err
	}
	return `<div class="` + ClassFloatParagraph + `">` + inner + `</div>`, nil
}

func (staticBackend) embed(_ *engine, n mdx.Embed) (string, error) {
	if n.URL == "" {
		return "", nil
	}
	var b strings.Builder
	b.WriteString(`<div class="` + EmbedClasses(n) + `">`)
	if n.Title != "" {
		b.WriteString(`<p lang="en">` + escapeAttr(n.Title) + `</p>`)
	}
	if n.Author != "" {
		b.WriteString(`<p>` + escapeAttr(n.Author) + `</p>`)
	}
	b.WriteString(`<a data-post-link href="` + escapeAttr(n.URL) + `">Read on Substack</a></div>`)
	return b.String(), nil
}
