// internal/mdx/tokenize.go
package mdx

import (
	"strings"
)

// TokenKind distinguishes text from the three shapes of component tag.
type TokenKind int

const (
	TextToken TokenKind = iota
	OpenToken
	CloseToken
	SelfCloseToken
)

func (k TokenKind) String() string {
	switch k {
	case TextToken:
		return "text"
	case OpenToken:
		return "open"
	case CloseToken:
		return "close"
	case SelfCloseToken:
		return "self-close"
	}
	return "unknown"
}

// Token is one lexical unit of a post body. Raw holds the exact source
// text the token was read from.
type Token struct {
	Kind  TokenKind
	Name  string
	Attrs Attrs
	Raw   string
}

// Tokenize splits src into markdown text and component tags. Only tags
// whose name starts with an uppercase letter are components; lowercase
// HTML passes through as text. A tag that never closes, or whose
// attributes cannot be read, is left as text. Fenced code blocks and
// inline code spans are never scanned for tags.
func Tokenize(src string) []Token {
	var tokens []Token
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, Token{Kind: TextToken, Raw: text.String()})
			text.Reset()
		}
	}

	lineStart := true
	for i := 0; i < len(src); {
		if lineStart {
			if end, ok := skipFence(src, i); ok {
				text.WriteString(src[i:end])
				i = end
				continue
			}
		}
		if src[i] == '`' {
			end := skipCodeSpan(src, i)
			text.WriteString(src[i:end])
			lineStart = src[end-1] == '\n'
			i = end
			continue
		}
		if src[i] == '<' {
			if tok, n, ok := scanTag(src[i:]); ok {
				flush()
				tokens = append(tokens, tok)
				i += n
				lineStart = false
				continue
			}
		}
		text.WriteByte(src[i])
		lineStart = src[i] == '\n'
		i++
	}
	flush()
	return tokens
}

// scanTag reads a component tag at the start of s and reports how many
// bytes it spans.
func scanTag(s string) (Token, int, bool) {
	if len(s) < 2 {
		return Token{}, 0, false
	}
	if s[1] == '/' {
		name, i := scanName(s, 2)
		if name == "" {
			return Token{}, 0, false
		}
		i = skipSpace(s, i)
		if i >= len(s) || s[i] != '>' {
			return Token{}, 0, false
		}
		return Token{Kind: CloseToken, Name: name, Raw: s[:i+1]}, i + 1, true
	}
	name, i := scanName(s, 1)
	if name == "" {
		return Token{}, 0, false
	}
	if i < len(s) && !isSpace(s[i]) && s[i] != '>' && s[i] != '/' {
		return Token{}, 0, false
	}
	attrs, end, selfClosing, ok := scanAttrs(s, i)
	if !ok {
		return Token{}, 0, false
	}
	kind := OpenToken
	if selfClosing {
		kind = SelfCloseToken
	}
	return Token{Kind: kind, Name: name, Attrs: attrs, Raw: s[:end]}, end, true
}

// scanName reads a component name (uppercase first letter) at s[i].
func scanName(s string, i int) (string, int) {
	if i >= len(s) || s[i] < 'A' || s[i] > 'Z' {
		return "", i
	}
	start := i
	for i < len(s) {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '.' {
			i++
			continue
		}
		break
	}
	return s[start:i], i
}

// skipFence reports the end of a fenced code block opening at line start i.
// An unterminated fence runs to the end of the input.
func skipFence(s string, i int) (int, bool) {
	fence, ok := fenceAt(s, i)
	if !ok {
		return 0, false
	}
	pos := nextLine(s, i)
	for pos < len(s) {
		if closing, ok := fenceAt(s, pos); ok && closing[0] == fence[0] && len(closing) >= len(fence) {
			return nextLine(s, pos), true
		}
		pos = nextLine(s, pos)
	}
	return len(s), true
}

// skipCodeSpan returns the end of the code span whose backtick run starts
// at i. The span closes at the next run of the same length within the
// paragraph; without one the run is literal and only it is skipped.
func skipCodeSpan(s string, i int) int {
	j := i
	for j < len(s) && s[j] == '`' {
		j++
	}
	n := j - i
	for k := j; k < len(s); {
		switch {
		case s[k] == '`':
			run := k
			for k < len(s) && s[k] == '`' {
				k++
			}
			if k-run == n {
				return k
			}
		case s[k] == '\n' && blankLineAt(s, k+1):
			return j
		default:
			k++
		}
	}
	return j
}

// blankLineAt reports whether the line starting at i holds only spaces.
func blankLineAt(s string, i int) bool {
	for ; i < len(s) && s[i] != '\n'; i++ {
		if s[i] != ' ' && s[i] != '\t' && s[i] != '\r' {
			return false
		}
	}
	return true
}

// fenceAt returns the fence marker (``` or ~~~, possibly longer) that opens
// the line at i, allowing up to three spaces of indentation.
func fenceAt(s string, i int) (string, bool) {
	j := i
	for j < len(s) && j-i < 3 && s[j] == ' ' {
		j++
	}
	if j >= len(s) || (s[j] != '`' && s[j] != '~') {
		return "", false
	}
	c := s[j]
	k := j
	for k < len(s) && s[k] == c {
		k++
	}
	if k-j < 3 {
		return "", false
	}
	return s[j:k], true
}

func nextLine(s string, i int) int {
	if k := strings.IndexByte(s[i:], '\n'); k >= 0 {
		return i + k + 1
	}
	return len(s)
}
