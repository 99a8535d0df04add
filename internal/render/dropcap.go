// internal/render/dropcap.go
package render

import (
	"strings"
	"unicode/utf8"
)

// LeadKind says how the opening glyphs of a drop-cap paragraph are wrapped.
type LeadKind int

const (
	// LeadNone leaves the paragraph alone; CSS ::first-letter does the work.
	LeadNone LeadKind = iota
	// LeadI wraps only the "I" of a leading "I'" or "I’".
	LeadI
	// LeadQuote wraps a leading quotation mark and the letter after it.
	LeadQuote
)

const (
	openingDoubleQuote = "\u201C"
	apostrophe         = "\u2019"
)

// leadingQuotes are the characters treated as an opening quotation mark.
// The closing curly double quote is included because it is a common typo
// for the opening one.
var leadingQuotes = map[rune]bool{
	'"':      true,
	'\'':     true,
	'\u201C': true, // left double
	'\u201D': true, // right double
	'\u2018': true, // left single
	'\u2019': true, // right single
	'\u201E': true, // low double
	'\u201A': true, // low single
	'\u00AB': true, // guillemets
	'\u2039': true,
}

// DropCapLead is the decomposition of a drop-cap paragraph's text.
type DropCapLead struct {
	Kind LeadKind
	// Quote is the glyph rendered before Letter: the normalized opening
	// quote for LeadQuote, or the apostrophe that follows "I" for LeadI.
	Quote  string
	Letter string
	Rest   string
}

// Lead decides the drop-cap glyphs for text. The "I'" rule is checked
// before the quote rule.
func Lead(text string) DropCapLead {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "I") {
		after := text[1:]
		for _, a := range []string{"'", apostrophe} {
			if strings.HasPrefix(after, a) {
				return DropCapLead{
					Kind:   LeadI,
					Quote:  apostrophe,
					Letter: "I",
					Rest:   after[len(a):],
				}
			}
		}
	}

	r, size := utf8.DecodeRuneInString(text)
	if size > 0 && leadingQuotes[r] {
		rest := text[size:]
		letter, n := utf8.DecodeRuneInString(rest)
		lead := DropCapLead{Kind: LeadQuote, Quote: openingDoubleQuote}
		if n > 0 {
			lead.Letter = string(letter)
			lead.Rest = rest[n:]
		}
		return lead
	}
	return DropCapLead{Kind: LeadNone, Rest: text}
}
