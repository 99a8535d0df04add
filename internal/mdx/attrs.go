// internal/mdx/attrs.go
package mdx

import (
	"strings"
)

// Attr is one attribute on a component tag. Expr is set when the value was
// written as a {...} expression; Bare is set for a valueless attribute.
type Attr struct {
	Key   string
	Value string
	Expr  bool
	Bare  bool
}

// Attrs keeps attributes in source order. Later duplicates win on lookup.
type Attrs []Attr

// Get returns the value of key. String literals inside expressions
// ({"left"}, {'left'}, {`left`}) are unquoted.
func (a Attrs) Get(key string) (string, bool) {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].Key != key {
			continue
		}
		if a[i].Bare {
			return "", true
		}
		if a[i].Expr {
			return unquoteExpr(a[i].Value), true
		}
		return a[i].Value, true
	}
	return "", false
}

// String returns the value of key, or "" when it is absent.
func (a Attrs) String(key string) string {
	v, _ := a.Get(key)
	return v
}

// Flag reports whether a boolean attribute is switched on: written bare,
// as {true}, or as "true".
func (a Attrs) Flag(key string) bool {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].Key != key {
			continue
		}
		if a[i].Bare {
			return true
		}
		return strings.TrimSpace(unquoteExpr(a[i].Value)) == "true"
	}
	return false
}

// Expr returns the raw text of an expression attribute, without braces.
func (a Attrs) Expr(key string) (string, bool) {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].Key == key && a[i].Expr {
			return a[i].Value, true
		}
	}
	return "", false
}

func unquoteExpr(s string) string {
	t := strings.TrimSpace(s)
	if len(t) >= 2 {
		switch q := t[0]; q {
		case '"', '\'', '`':
			if t[len(t)-1] == q {
				return t[1 : len(t)-1]
			}
		}
	}
	return s
}

// ParseAttrs parses a free-standing attribute list such as
// `src="/a.jpg" caption='A caption' float={"left"} alignTop`.
// Anything it cannot make sense of is skipped.
func ParseAttrs(s string) Attrs {
	var attrs Attrs
	i := 0
	for i < len(s) {
		i = skipSpace(s, i)
		if i >= len(s) {
			break
		}
		attr, next, ok := scanAttr(s, i)
		if !ok {
			// Skip the offending character and carry on.
			i++
			continue
		}
		attrs = append(attrs, attr)
		i = next
	}
	return attrs
}

// scanAttrs reads attributes of a tag starting at i until the tag closes
// with ">" or "/>". end is the index just past the closing bracket.
func scanAttrs(s string, i int) (attrs Attrs, end int, selfClosing bool, ok bool) {
	for {
		i = skipSpace(s, i)
		if i >= len(s) {
			return nil, 0, false, false
		}
		switch {
		case s[i] == '>':
			return attrs, i + 1, false, true
		case s[i] == '/' && i+1 < len(s) && s[i+1] == '>':
			return attrs, i + 2, true, true
		}
		attr, next, good := scanAttr(s, i)
		if !good {
			return nil, 0, false, false
		}
		attrs = append(attrs, attr)
		i = next
	}
}

func scanAttr(s string, i int) (Attr, int, bool) {
	start := i
	if i >= len(s) || !isAttrNameStart(s[i]) {
		return Attr{}, 0, false
	}
	for i < len(s) && isAttrNameChar(s[i]) {
		i++
	}
	key := s[start:i]

	j := skipSpace(s, i)
	if j >= len(s) || s[j] != '=' {
		return Attr{Key: key, Bare: true}, i, true
	}
	j = skipSpace(s, j+1)
	if j >= len(s) {
		return Attr{}, 0, false
	}

	switch s[j] {
	case '"', '\'':
		q := s[j]
		k := strings.IndexByte(s[j+1:], q)
		if k < 0 {
			return Attr{}, 0, false
		}
		return Attr{Key: key, Value: s[j+1 : j+1+k]}, j + 2 + k, true
	case '{':
		k, ok := matchBrace(s, j)
		if !ok {
			return Attr{}, 0, false
		}
		return Attr{Key: key, Value: s[j+1 : k], Expr: true}, k + 1, true
	default:
		k := j
		for k < len(s) && !isSpace(s[k]) && s[k] != '>' && !(s[k] == '/' && k+1 < len(s) && s[k+1] == '>') {
			k++
		}
		return Attr{Key: key, Value: s[j:k]}, k, true
	}
}

// matchBrace returns the index of the brace closing the one at s[open].
// Quoted strings in the expression are skipped so braces in them do not
// count. JSX inside the expression is read as markup, where quotes are
// plain text. When that reading finds no closing brace, braces are simply
// counted.
func matchBrace(s string, open int) (int, bool) {
	if k, ok := scanExpr(s, open+1); ok {
		return k, true
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// scanExpr reads JavaScript from i up to the unmatched closing brace.
func scanExpr(s string, i int) (int, bool) {
	for i < len(s) {
		switch c := s[i]; {
		case c == '}':
			return i, true
		case c == '{':
			k, ok := scanExpr(s, i+1)
			if !ok {
				return 0, false
			}
			i = k + 1
		case c == '"' || c == '\'' || c == '`':
			if k, ok := skipString(s, i); ok {
				i = k
			} else {
				// A lone quote is just a character.
				i++
			}
		case c == '<':
			if k, ok := scanJSX(s, i); ok {
				i = k
			} else {
				i++
			}
		default:
			i++
		}
	}
	return 0, false
}

// skipString returns the index just past the string literal opening at
// s[i]. Backslash escapes are honoured.
func skipString(s string, i int) (int, bool) {
	q := s[i]
	for k := i + 1; k < len(s); k++ {
		switch s[k] {
		case '\\':
			k++
		case q:
			return k + 1, true
		}
	}
	return 0, false
}

// scanJSX returns the index just past the JSX element (or fragment) that
// opens at s[i].
func scanJSX(s string, i int) (int, bool) {
	depth := 0
	for i < len(s) {
		switch s[i] {
		case '{':
			if depth == 0 {
				return 0, false
			}
			k, ok := scanExpr(s, i+1)
			if !ok {
				return 0, false
			}
			i = k + 1
			continue
		case '<':
		default:
			if depth == 0 {
				return 0, false
			}
			i++
			continue
		}
		closing := i+1 < len(s) && s[i+1] == '/'
		end, selfClosing, ok := scanJSXTag(s, i)
		switch {
		case !ok && depth == 0:
			return 0, false
		case !ok:
			// A stray "<" in element text.
			i++
			continue
		case closing && depth == 0:
			return 0, false
		case closing:
			depth--
		case !selfClosing:
			depth++
		}
		i = end
		if depth == 0 {
			return i, true
		}
	}
	return 0, false
}

// scanJSXTag reads one opening, closing or self-closing tag at s[i].
func scanJSXTag(s string, i int) (end int, selfClosing bool, ok bool) {
	j := i + 1
	if j < len(s) && s[j] == '/' {
		j++
	}
	if j >= len(s) || !(isAttrNameStart(s[j]) || s[j] == '>') {
		return 0, false, false
	}
	for j < len(s) {
		switch c := s[j]; {
		case c == '>':
			return j + 1, false, true
		case c == '/' && j+1 < len(s) && s[j+1] == '>':
			return j + 2, true, true
		case c == '"' || c == '\'':
			k, ok := skipString(s, j)
			if !ok {
				return 0, false, false
			}
			j = k
		case c == '{':
			k, ok := scanExpr(s, j+1)
			if !ok {
				return 0, false, false
			}
			j = k + 1
		case c == '<':
			return 0, false, false
		default:
			j++
		}
	}
	return 0, false, false
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isAttrNameStart(c byte) bool {
	return c == '_' || c == ':' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAttrNameChar(c byte) bool {
	return isAttrNameStart(c) || c == '-' || c == '.' || (c >= '0' && c <= '9')
}
