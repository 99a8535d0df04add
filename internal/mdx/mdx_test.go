package mdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeShapes(t *testing.T) {
	tokens := Tokenize("before <DropCap>inner</DropCap> <ImageWithCaption src=\"/a.jpg\" /> after")
	assert.Equal(t, []TokenKind{TextToken, OpenToken, TextToken, CloseToken, TextToken, SelfCloseToken, TextToken}, kinds(tokens))
	assert.Equal(t, "DropCap", tokens[1].Name)
	assert.Equal(t, "</DropCap>", tokens[3].Raw)
	assert.Equal(t, "/a.jpg", tokens[5].Attrs.String("src"))
}

func TestTokenizeLeavesLowercaseHTMLAlone(t *testing.T) {
	tokens := Tokenize("<div class=\"x\">a <b>bold</b> 3 < 4</div>")
	require.Len(t, tokens, 1)
	assert.Equal(t, TextToken, tokens[0].Kind)
}

func TestTokenizeUnterminatedTagIsText(t *testing.T) {
	src := "<ImageWithCaption src=\"/a.jpg\" caption=\"never closed"
	tokens := Tokenize(src)
	require.Len(t, tokens, 1)
	assert.Equal(t, src, tokens[0].Raw)
}

func TestTokenizeSkipsFencedCode(t *testing.T) {
	src := "```mdx\n<DropCap>not a tag</DropCap>\n```\n<DropCap>tag</DropCap>\n"
	tokens := Tokenize(src)
	assert.Equal(t, []TokenKind{TextToken, OpenToken, TextToken, CloseToken, TextToken}, kinds(tokens))
	assert.Equal(t, "```mdx\n<DropCap>not a tag</DropCap>\n```\n", tokens[0].Raw)
}

func TestTokenizeSkipsCodeSpans(t *testing.T) {
	src := "Use `<DropCap>` inline, or ``a ` <TwoColumn> b``.\n"
	tokens := Tokenize(src)
	require.Len(t, tokens, 1)
	assert.Equal(t, src, tokens[0].Raw)

	// An unmatched backtick is literal and does not hide later tags.
	tokens = Tokenize("5` off <DropCap>x</DropCap>")
	assert.Equal(t, []TokenKind{TextToken, OpenToken, TextToken, CloseToken}, kinds(tokens))

	// Code spans end at a blank line.
	tokens = Tokenize("`open\n\n<DropCap>x</DropCap> `")
	assert.Equal(t, []TokenKind{TextToken, OpenToken, TextToken, CloseToken, TextToken}, kinds(tokens))
}

func TestParseCodeSpanMentioningComponent(t *testing.T) {
	nodes := Parse("Use `<DropCap>` inline code.")
	require.Len(t, nodes, 1)
	assert.Equal(t, Text{Source: "Use `<DropCap>` inline code."}, nodes[0])
}

func TestParseAttrs(t *testing.T) {
	attrs := ParseAttrs(`src="/img/a.jpg" caption='It is "quoted"' float={"left"} alignTop width=300 right={<X a="}" />}`)
	assert.Equal(t, "/img/a.jpg", attrs.String("src"))
	assert.Equal(t, `It is "quoted"`, attrs.String("caption"))
	assert.Equal(t, "left", attrs.String("float"))
	assert.True(t, attrs.Flag("alignTop"))
	assert.Equal(t, "300", attrs.String("width"))
	expr, ok := attrs.Expr("right")
	require.True(t, ok)
	assert.Equal(t, `<X a="}" />`, expr)

	_, ok = attrs.Get("missing")
	assert.False(t, ok)
	assert.False(t, attrs.Flag("missing"))
}

func TestParseAttrsMultilineValues(t *testing.T) {
	attrs := ParseAttrs("caption=\"first line\nsecond line\"\n  float=\"right\"\n  alignTop={true}")
	assert.Equal(t, "first line\nsecond line", attrs.String("caption"))
	assert.Equal(t, "right", attrs.String("float"))
	assert.True(t, attrs.Flag("alignTop"))
}

func TestParseAttrsSkipsGarbage(t *testing.T) {
	attrs := ParseAttrs(`= "" src="/ok.jpg" @@ float=`)
	assert.Equal(t, "/ok.jpg", attrs.String("src"))
}

func TestParseConstructs(t *testing.T) {
	src := `Intro.

<DropCap>
“Hello there.
</DropCap>

<FloatWithParagraph>
  <ImageWithCaption src="/a.jpg" caption="A caption" float="right" alignTop />
  Beside the image.
</FloatWithParagraph>

<TwoColumn>
Column text.
</TwoColumn>
`
	nodes := Parse(src)
	var constructs []Node
	for _, n := range nodes {
		if _, ok := n.(Text); !ok {
			constructs = append(constructs, n)
		}
	}
	require.Len(t, constructs, 3)

	dc, ok := constructs[0].(DropCap)
	require.True(t, ok)
	assert.Equal(t, "\n“Hello there.\n", PlainText(dc.Children))

	group, ok := constructs[1].(FloatGroup)
	require.True(t, ok)
	var img CaptionedImage
	for _, n := range group.Children {
		if i, ok := n.(CaptionedImage); ok {
			img = i
		}
	}
	assert.Equal(t, CaptionedImage{Src: "/a.jpg", Alt: "A caption", Caption: "A caption", Float: "right", AlignTop: true}, img)
	assert.Contains(t, PlainText(group.Children), "Beside the image.")

	tc, ok := constructs[2].(TwoColumn)
	require.True(t, ok)
	assert.Nil(t, tc.Aside)
}

func TestParseTwoColumnAside(t *testing.T) {
	nodes := Parse(`<TwoColumn right={<SubstackEmbed url="https://x.substack.com/p/y" title="Y" />}>
Main text.
</TwoColumn>`)
	require.Len(t, nodes, 1)
	tc, ok := nodes[0].(TwoColumn)
	require.True(t, ok)
	require.Len(t, tc.Aside, 1)
	assert.Equal(t, Embed{URL: "https://x.substack.com/p/y", Title: "Y"}, tc.Aside[0])
	assert.Equal(t, "\nMain text.\n", PlainText(tc.Children))
}

func TestParseTwoColumnAsideWithApostrophe(t *testing.T) {
	nodes := Parse(`<TwoColumn right={<FloatWithParagraph>It's here, isn't it?</FloatWithParagraph>}>
Main body.
</TwoColumn>`)
	require.Len(t, nodes, 1)
	tc, ok := nodes[0].(TwoColumn)
	require.True(t, ok)
	require.Len(t, tc.Aside, 1)
	group, ok := tc.Aside[0].(FloatGroup)
	require.True(t, ok)
	assert.Equal(t, "It's here, isn't it?", PlainText(group.Children))
	assert.Equal(t, "\nMain body.\n", PlainText(tc.Children))
}

func TestMatchBrace(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{`{"a}b"}`, 6},
		{`{'it\'s'}`, 8},
		{`{<P>don't {x} stop</P>}`, 22},
		{`{<><A b="}" /></>}`, 17},
		{`{a < b}`, 6},
		{`{it's}`, 5},
		{`{<Broken>}>x</Other>`, 9},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, ok := matchBrace(tt.src, 0)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := matchBrace(`{<P>never closed`, 0)
	assert.False(t, ok)
}

func TestParseUnknownAndStrayTags(t *testing.T) {
	nodes := Parse("a <Callout kind=\"note\">inside</Callout> b </Nope> c <Widget /> d")
	assert.Equal(t, "a inside b  c  d", PlainText(nodes))

	var unknown []string
	for _, n := range nodes {
		if u, ok := n.(Unknown); ok {
			unknown = append(unknown, u.Name)
		}
	}
	assert.Equal(t, []string{"Callout", "Widget"}, unknown)
}

func TestParseUnclosedElementClosesAtEnd(t *testing.T) {
	nodes := Parse("<DropCap>never closed")
	require.Len(t, nodes, 1)
	dc, ok := nodes[0].(DropCap)
	require.True(t, ok)
	assert.Equal(t, "never closed", PlainText(dc.Children))
}

func TestParseMismatchedNesting(t *testing.T) {
	nodes := Parse("<TwoColumn><DropCap>text</TwoColumn>")
	require.Len(t, nodes, 1)
	tc, ok := nodes[0].(TwoColumn)
	require.True(t, ok)
	require.Len(t, tc.Children, 1)
	_, ok = tc.Children[0].(DropCap)
	assert.True(t, ok)
}

func TestImageAltDefaultsToCaption(t *testing.T) {
	nodes := Parse(`<ImageWithCaption src="/a.jpg" caption="Cap" alt="" float="up" />`)
	require.Len(t, nodes, 1)
	assert.Equal(t, CaptionedImage{Src: "/a.jpg", Alt: "", Caption: "Cap"}, nodes[0])

	nodes = Parse(`<ImageWithCaption src="/a.jpg" />`)
	assert.Equal(t, CaptionedImage{Src: "/a.jpg"}, nodes[0])
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(Parse(" \n <Foo> </Foo>\n")))
	assert.False(t, IsBlank(Parse("<ImageWithCaption src=\"/a.jpg\" />")))
	assert.False(t, IsBlank(Parse("x")))
}
