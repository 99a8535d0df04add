// internal/render/postlinks.go
package render

import (
	"bytes"
	"path"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"fromthedepths/internal/post"
)

// postLinkTransformer rewrites links that point at another post's source
// file, like [earlier](2024-01-02-earlier.mdx), to that post's page URL.
type postLinkTransformer struct{}

func (t *postLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		if dest, ok := PostLink(link.Destination); ok {
			link.Destination = dest
		}
		return ast.WalkContinue, nil
	})
}

// PostLink maps a relative link to a .md or .mdx file onto /blog/<slug>.
// A #fragment is kept. Absolute URLs are never touched.
func PostLink(dest []byte) ([]byte, bool) {
	if bytes.Contains(dest, []byte("://")) || bytes.HasPrefix(dest, []byte("mailto:")) {
		return nil, false
	}
	target, fragment, _ := bytes.Cut(dest, []byte("#"))
	if !bytes.HasSuffix(target, []byte(".md")) && !bytes.HasSuffix(target, []byte(".mdx")) {
		return nil, false
	}
	out := []byte("/blog/" + post.ExtractSlug(path.Base(string(target))))
	if len(fragment) > 0 {
		out = append(out, '#')
		out = append(out, fragment...)
	}
	return out, true
}
