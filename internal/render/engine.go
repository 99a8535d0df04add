// internal/render/engine.go
package render

import (
	"fmt"
	"regexp"
	"strings"

	"fromthedepths/internal/mdx"
)

// backend turns each construct into HTML. Both the static and the
// interactive renderer implement it over the same node values, so the two
// cannot disagree about what a construct means.
type backend interface {
	dropCap(e *engine, n mdx.DropCap) (string, error)
	twoColumn(e *engine, n mdx.TwoColumn) (string, error)
	captionedImage(e *engine, n mdx.CaptionedImage) (string, error)
	floatGroup(e *engine, n mdx.FloatGroup) (string, error)
	embed(e *engine, n mdx.Embed) (string, error)
}

// engine renders one document. Constructs are swapped for placeholder
// paragraphs, the markdown around them is rendered, and the placeholders
// are then replaced by the construct HTML. This keeps construct output
// out of reach of the markdown parser's HTML-block rules.
type engine struct {
	md  *Markdown
	b   backend
	seq int
}

var (
	blankLineRun = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
	// containerPrefix matches a line that so far holds only list item or
	// blockquote markers.
	containerPrefix = regexp.MustCompile(`^[ \t]*(?:>[ \t]*|(?:[-*+]|\d{1,9}[.)])[ \t]+)+$`)
)

// collapseBlankLines turns every run of two or more blank lines into one.
func collapseBlankLines(s string) string {
	return blankLineRun.ReplaceAllString(s, "\n\n")
}

// document renders top-level nodes.
func (e *engine) document(nodes []mdx.Node) (string, error) {
	src, blocks, err := e.expand(nodes, false)
	if err != nil {
		return "", err
	}
	out, err := e.md.Render(strings.TrimSpace(collapseBlankLines(src)))
	if err != nil {
		return "", err
	}
	return substitute(out, blocks), nil
}

// nested renders the body of a construct. Indentation the author used to
// line up a construct's body is removed first so it cannot turn into an
// indented code block.
func (e *engine) nested(nodes []mdx.Node) (string, error) {
	src, blocks, err := e.expand(nodes, true)
	if err != nil {
		return "", err
	}
	src = strings.TrimSpace(collapseBlankLines(src))
	if src == "" {
		return "", nil
	}
	out, err := e.md.Render(src)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(substitute(out, blocks)), nil
}

// nestedInline is nested with a lone wrapping paragraph removed.
func (e *engine) nestedInline(nodes []mdx.Node) (string, error) {
	out, err := e.nested(nodes)
	if err != nil {
		return "", err
	}
	return unwrapParagraph(out), nil
}

func (e *engine) expand(nodes []mdx.Node, dedentText bool) (string, map[string]string, error) {
	var b strings.Builder
	blocks := make(map[string]string)

	var walk func([]mdx.Node) error
	walk = func(nodes []mdx.Node) error {
		for _, n := range nodes {
			switch n := n.(type) {
			case mdx.Text:
				if dedentText {
					b.WriteString(dedent(n.Source))
				} else {
					b.WriteString(n.Source)
				}
			case mdx.Unknown:
				if err := walk(n.Children); err != nil {
					return err
				}
			default:
				html, err := e.construct(n)
				if err != nil {
					return err
				}
				if html == "" {
					continue
				}
				key := e.placeholder()
				blocks[key] = html
				if inContainer(b.String()) {
					// Stay inside the list item or quote the construct was written in.
					b.WriteString(key)
				} else {
					b.WriteString("\n\n" + key + "\n\n")
				}
			}
		}
		return nil
	}
	if err := walk(nodes); err != nil {
		return "", nil, err
	}
	return b.String(), blocks, nil
}

// inContainer reports whether the last line of src is a bare list item or
// blockquote marker.
func inContainer(src string) bool {
	line := src[strings.LastIndexByte(src, '\n')+1:]
	return containerPrefix.MatchString(line)
}

func (e *engine) construct(n mdx.Node) (string, error) {
	switch n := n.(type) {
	case mdx.DropCap:
		return e.b.dropCap(e, n)
	case mdx.TwoColumn:
		return e.b.twoColumn(e, n)
	case mdx.CaptionedImage:
		return e.b.captionedImage(e, n)
	case mdx.FloatGroup:
		return e.b.floatGroup(e, n)
	case mdx.Embed:
		return e.b.embed(e, n)
	}
	return "", nil
}

func (e *engine) placeholder() string {
	e.seq++
	return fmt.Sprintf("DEPTHSCONSTRUCT%dX", e.seq)
}

func substitute(out string, blocks map[string]string) string {
	for key, html := range blocks {
		if strings.Contains(out, "<p>"+key+"</p>") {
			out = strings.Replace(out, "<p>"+key+"</p>", html, 1)
			continue
		}
		out = strings.Replace(out, key, html, 1)
	}
	return out
}

// dedent strips the common indentation of every line after the first; the
// first line continues the line its opening tag sits on.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) == 1 {
		return s
	}
	indent := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return s
	}
	for i := 1; i < len(lines); i++ {
		if len(lines[i]) >= indent {
			lines[i] = lines[i][indent:]
		} else {
			lines[i] = strings.TrimLeft(lines[i], " \t")
		}
	}
	return strings.Join(lines, "\n")
}
