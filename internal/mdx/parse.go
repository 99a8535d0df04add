// internal/mdx/parse.go
package mdx

// frame is an open component waiting for its closing tag.
type frame struct {
	name     string
	attrs    Attrs
	children []Node
}

// Parse builds the construct tree for a post body. It never fails: stray
// closing tags are dropped and elements still open at the end of input are
// closed there.
func Parse(src string) []Node {
	root := &frame{}
	stack := []*frame{root}
	top := func() *frame { return stack[len(stack)-1] }

	// closeTo pops every frame above index i and then frame i itself,
	// attaching each to its parent.
	closeTo := func(i int) {
		for len(stack)-1 >= i {
			f := top()
			stack = stack[:len(stack)-1]
			parent := top()
			parent.children = append(parent.children, build(f.name, f.attrs, f.children)...)
		}
	}

	for _, tok := range Tokenize(src) {
		switch tok.Kind {
		case TextToken:
			appendText(top(), tok.Raw)
		case OpenToken:
			stack = append(stack, &frame{name: tok.Name, attrs: tok.Attrs})
		case SelfCloseToken:
			f := top()
			f.children = append(f.children, build(tok.Name, tok.Attrs, nil)...)
		case CloseToken:
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].name == tok.Name {
					closeTo(i)
					break
				}
			}
		}
	}
	closeTo(1)
	return root.children
}

// appendText merges adjacent text so dropped tags do not fragment it.
func appendText(f *frame, s string) {
	if n := len(f.children); n > 0 {
		if t, ok := f.children[n-1].(Text); ok {
			f.children[n-1] = Text{Source: t.Source + s}
			return
		}
	}
	f.children = append(f.children, Text{Source: s})
}

// build maps a closed element onto the construct set.
func build(name string, attrs Attrs, children []Node) []Node {
	switch name {
	case NameDropCap:
		return []Node{DropCap{Children: children}}
	case NameTwoColumn:
		return []Node{TwoColumn{Children: children, Aside: asideFrom(attrs)}}
	case NameFloatParagraph:
		return []Node{FloatGroup{Children: children}}
	case NameImageCaption:
		caption := attrs.String("caption")
		alt, ok := attrs.Get("alt")
		if !ok {
			alt = caption
		}
		img := CaptionedImage{
			Src:      attrs.String("src"),
			Alt:      alt,
			Caption:  caption,
			Float:    floatSide(attrs.String("float")),
			AlignTop: attrs.Flag("alignTop"),
		}
		// An image written with a body keeps the body after the figure.
		return append([]Node{img}, children...)
	case NameSubstackEmbed:
		embed := Embed{
			URL:    attrs.String("url"),
			Title:  attrs.String("title"),
			Author: attrs.String("author"),
			Float:  floatSide(attrs.String("float")),
		}
		return append([]Node{embed}, children...)
	}
	return []Node{Unknown{Name: name, Children: children}}
}

// asideFrom parses the right={...} expression of a TwoColumn. Expressions
// without any component in them give no aside.
func asideFrom(attrs Attrs) []Node {
	expr, ok := attrs.Expr("right")
	if !ok {
		return nil
	}
	nodes := Parse(expr)
	for _, n := range nodes {
		if _, isText := n.(Text); !isText {
			return nodes
		}
	}
	return nil
}

func floatSide(s string) string {
	switch s {
	case "left", "right":
		return s
	}
	return ""
}
