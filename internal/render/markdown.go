// internal/render/markdown.go
package render

import (
	"bytes"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// DecorativeSpacer replaces every thematic break.
const DecorativeSpacer = `<div class="decorative-spacer">✦ ✦ ✦</div>`

// MarkdownOptions selects the goldmark features a Markdown value is built with.
type MarkdownOptions struct {
	// Unsafe lets raw HTML in the source through to the output.
	Unsafe      bool
	Linkify     bool
	Typographer bool
	Footnotes   bool
	// Tables enables GFM tables and strikethrough.
	Tables bool
	// DecorativeRule renders thematic breaks as DecorativeSpacer.
	DecorativeRule bool
	// PostLinks points links at other posts' source files to their pages.
	PostLinks bool
	// Highlight colours fenced code blocks with chroma.
	Highlight      bool
	HighlightStyle string
}

// FeedMarkdownOptions is the configuration used for previews and the feed.
func FeedMarkdownOptions() MarkdownOptions {
	return MarkdownOptions{
		Unsafe:         true,
		Linkify:        true,
		Typographer:    true,
		Footnotes:      true,
		Tables:         true,
		DecorativeRule: true,
		PostLinks:      true,
	}
}

// PageMarkdownOptions is the configuration used for full post pages.
func PageMarkdownOptions(style string) MarkdownOptions {
	opts := FeedMarkdownOptions()
	opts.Highlight = true
	opts.HighlightStyle = style
	return opts
}

// Markdown is a configured markdown-to-HTML converter. It holds no
// per-document state and is safe to share.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown builds a converter for opts.
func NewMarkdown(opts MarkdownOptions) *Markdown {
	var exts []goldmark.Extender
	if opts.Tables {
		exts = append(exts, extension.Table, extension.Strikethrough)
	}
	if opts.Linkify {
		exts = append(exts, extension.Linkify)
	}
	if opts.Typographer {
		exts = append(exts, extension.Typographer)
	}
	if opts.Footnotes {
		exts = append(exts, extension.Footnote)
	}
	if opts.Highlight {
		style := opts.HighlightStyle
		if style == "" {
			style = "monokai"
		}
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(style),
			highlighting.WithFormatOptions(chromahtml.TabWidth(2)),
		))
	}

	rendererOpts := []renderer.Option{}
	if opts.Unsafe {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	if opts.DecorativeRule {
		rendererOpts = append(rendererOpts, renderer.WithNodeRenderers(
			util.Prioritized(&decorativeRuleRenderer{}, 100),
		))
	}

	parserOpts := []parser.Option{parser.WithAutoHeadingID()}
	if opts.PostLinks {
		parserOpts = append(parserOpts, parser.WithASTTransformers(
			util.Prioritized(&postLinkTransformer{}, 100),
		))
	}

	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithParserOptions(parserOpts...),
			goldmark.WithRendererOptions(rendererOpts...),
		),
	}
}

// Render converts markdown source to HTML.
func (m *Markdown) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown with goldmark: %w", err)
	}
	return buf.String(), nil
}

// RenderInline converts src and strips a single enclosing paragraph, so the
// result can be placed inside a wrapper element of the caller's choosing.
func (m *Markdown) RenderInline(src string) (string, error) {
	out, err := m.Render(src)
	if err != nil {
		return "", err
	}
	return unwrapParagraph(strings.TrimSpace(out)), nil
}

// unwrapParagraph removes <p>...</p> only when it is the one element
// wrapping the whole fragment.
func unwrapParagraph(s string) string {
	if !strings.HasPrefix(s, "<p>") || !strings.HasSuffix(s, "</p>") {
		return s
	}
	inner := s[len("<p>") : len(s)-len("</p>")]
	if strings.Contains(inner, "<p>") || strings.Contains(inner, "</p>") {
		return s
	}
	return inner
}

// decorativeRuleRenderer takes over thematic breaks from the default HTML
// renderer.
type decorativeRuleRenderer struct{}

func (r *decorativeRuleRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindThematicBreak, r.renderThematicBreak)
}

func (r *decorativeRuleRenderer) renderThematicBreak(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(DecorativeSpacer)
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}
