// internal/mdx/ast.go
package mdx

import "strings"

// Node is one value of the closed set of constructs a post body can hold.
// Renderers switch on the concrete type.
type Node interface {
	node()
}

// Text is a run of markdown source between component tags.
type Text struct {
	Source string
}

// DropCap emphasizes the first glyph of its paragraph.
type DropCap struct {
	Children []Node
}

// TwoColumn flows Children into two columns. When Aside is non-empty the
// layout becomes a main column plus a side column instead.
type TwoColumn struct {
	Children []Node
	Aside    []Node
}

// CaptionedImage is an image with a caption. Float is "left", "right" or "".
type CaptionedImage struct {
	Src      string
	Alt      string
	Caption  string
	Float    string
	AlignTop bool
}

// FloatGroup holds a floated figure together with the paragraphs that wrap
// around it.
type FloatGroup struct {
	Children []Node
}

// Embed is a linked post card from an external publication.
type Embed struct {
	URL    string
	Title  string
	Author string
	Float  string
}

// Unknown is any other component tag. Renderers drop the tag and keep its
// children.
type Unknown struct {
	Name     string
	Children []Node
}

func (Text) node()           {}
func (DropCap) node()        {}
func (TwoColumn) node()      {}
func (CaptionedImage) node() {}
func (FloatGroup) node()     {}
func (Embed) node()          {}
func (Unknown) node()        {}

// Component names recognized in post bodies.
const (
	NameDropCap        = "DropCap"
	NameTwoColumn      = "TwoColumn"
	NameImageCaption   = "ImageWithCaption"
	NameFloatParagraph = "FloatWithParagraph"
	NameSubstackEmbed  = "SubstackEmbed"
)

// PlainText concatenates the text of nodes, descending into containers.
// Images and embeds contribute nothing.
func PlainText(nodes []Node) string {
	var b strings.Builder
	writePlainText(&b, nodes)
	return b.String()
}

func writePlainText(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			b.WriteString(n.Source)
		case DropCap:
			writePlainText(b, n.Children)
		case TwoColumn:
			writePlainText(b, n.Children)
		case FloatGroup:
			writePlainText(b, n.Children)
		case Unknown:
			writePlainText(b, n.Children)
		}
	}
}

// IsBlank reports whether nodes hold nothing but whitespace.
func IsBlank(nodes []Node) bool {
	for _, n := range nodes {
		switch n := n.(type) {
		case Text:
			if strings.TrimSpace(n.Source) != "" {
				return false
			}
		case Unknown:
			if !IsBlank(n.Children) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
