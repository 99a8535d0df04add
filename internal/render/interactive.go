// internal/render/interactive.go
package render

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"fromthedepths/internal/mdx"
)

// SubstackScript is loaded once per page that holds an embed.
const SubstackScript = "https://substack.com/embedjs/embed.js"

//go:embed assets/lightbox.js
var lightboxScript string

// Interactive renders post bodies for full post pages. Constructs become
// element trees carrying the hooks the lightbox script binds to.
type Interactive struct {
	md *Markdown
}

// NewInteractive returns an interactive renderer using md, or the page
// configuration with the default highlight style when md is nil.
func NewInteractive(md *Markdown) *Interactive {
	if md == nil {
		md = NewMarkdown(PageMarkdownOptions(""))
	}
	return &Interactive{md: md}
}

// Script is the client-side lightbox for floated images.
func (r *Interactive) Script() string {
	return lightboxScript
}

// Render converts a post body to page HTML.
func (r *Interactive) Render(content string) (string, error) {
	return r.RenderNodes(mdx.Parse(content))
}

// RenderNodes renders an already parsed body.
func (r *Interactive) RenderNodes(nodes []mdx.Node) (string, error) {
	e := &engine{md: r.md, b: &interactiveBackend{}}
	return e.document(nodes)
}

// interactiveBackend is created per document; it remembers whether the
// embed script was already emitted.
type interactiveBackend struct {
	embedScript bool
}

func (b *interactiveBackend) dropCap(e *engine, n mdx.DropCap) (string, error) {
	text := mdx.PlainText(n.Children)
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	lead := Lead(text)
	switch lead.Kind {
	case LeadI, LeadQuote:
		p := element(atom.P, "class", ClassDropCapQuoted)
		if lead.Kind == LeadQuote {
			p.AppendChild(withText(element(atom.Span, "class", ClassDropCapQuote), lead.Quote))
			p.AppendChild(withText(element(atom.Span, "class", ClassDropCapLetter), lead.Letter))
		} else {
			p.AppendChild(withText(element(atom.Span, "class", ClassDropCapLetter), lead.Letter))
			p.AppendChild(&html.Node{Type: html.TextNode, Data: lead.Quote})
		}
		rest, err := e.md.RenderInline(lead.Rest)
		if err != nil {
			return "", err
		}
		if err := appendFragment(p, rest); err != nil {
			return "", err
		}
		return renderNode(p)
	}
	inner, err := e.nestedInline(n.Children)
	if err != nil {
		return "", err
	}
	p := element(atom.P, "class", ClassDropCap)
	if err := appendFragment(p, inner); err != nil {
		return "", err
	}
	return renderNode(p)
}

func (b *interactiveBackend) twoColumn(e *engine, n mdx.TwoColumn) (string, error) {
	main, err := e.nested(n.Children)
	if err != nil {
		return "", err
	}
	if len(n.Aside) > 0 {
		aside, err := e.nested(n.Aside)
		if err != nil {
			return "", err
		}
		if aside != "" {
			wrap := element(atom.Div, "class", ClassTwoColumnAside)
			mainCol := element(atom.Div, "class", ClassTwoColumnMain)
			sideCol := element(atom.Div, "class", ClassTwoColumnSide)
			if err := appendFragment(mainCol, main); err != nil {
				return "", err
			}
			if err := appendFragment(sideCol, aside); err != nil {
				return "", err
			}
			wrap.AppendChild(mainCol)
			wrap.AppendChild(sideCol)
			return renderNode(wrap)
		}
	}
	if main == "" {
		return "", nil
	}
	div := element(atom.Div, "class", ClassTwoColumn)
	if err := appendFragment(div, main); err != nil {
		return "", err
	}
	return renderNode(div)
}

func (b *interactiveBackend) captionedImage(_ *engine, img mdx.CaptionedImage) (string, error) {
	cls := ImageClasses(img)
	figure := element(atom.Figure, "class", cls.Figure)

	attrs := []string{"src", img.Src, "alt", img.Alt}
	if img.Float != "" {
		// Floated images open full size in the lightbox.
		attrs = append(attrs,
			"class", cls.Image+" "+ClassLightboxTrigger,
			"role", "button",
			"tabindex", "0",
			"aria-label", "View full size",
			"data-lightbox", img.Src,
			"data-lightbox-alt", img.Alt,
			"data-lightbox-caption", img.Caption,
		)
	} else {
		attrs = append(attrs, "class", cls.Image)
	}
	figure.AppendChild(element(atom.Img, attrs...))
	figure.AppendChild(withText(element(atom.Figcaption, "class", cls.Caption), img.Caption))
	return renderNode(figure)
}

func (b *interactiveBackend) floatGroup(e *engine, n mdx.FloatGroup) (string, error) {
	inner, err := e.nested(n.Children)
	if err != nil {
		return "", err
	}
	div := element(atom.Div, "class", ClassFloatParagraph)
	if err := appendFragment(div, inner); err != nil {
		return "", err
	}
	return renderNode(div)
}

func (b *interactiveBackend) embed(_ *engine, n mdx.Embed) (string, error) {
	if n.URL == "" {
		return "", nil
	}
	card := element(atom.Div, "class", EmbedClasses(n))
	if n.Title != "" {
		card.AppendChild(withText(element(atom.P, "lang", "en"), n.Title))
	}
	if n.Author != "" {
		card.AppendChild(withText(element(atom.P), n.Author))
	}
	card.AppendChild(withText(element(atom.A, "data-post-link", "", "href", n.URL), "Read on Substack"))

	out, err := renderNode(card)
	if err != nil {
		return "", err
	}
	if !b.embedScript {
		b.embedScript = true
		script, err := renderNode(element(atom.Script, "src", SubstackScript, "async", "", "charset", "utf-8"))
		if err != nil {
			return "", err
		}
		out += script
	}
	return out, nil
}

// element builds an element node from key/value attribute pairs.
func element(a atom.Atom, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

func withText(n *html.Node, text string) *html.Node {
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}

// appendFragment parses an HTML fragment in the context of parent and
// moves the resulting nodes under it.
func appendFragment(parent *html.Node, fragment string) error {
	if fragment == "" {
		return nil
	}
	context := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
}

func renderNode(n *html.Node) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}
