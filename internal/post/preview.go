// internal/post/preview.go
package post

import (
	"regexp"
	"strings"
)

// previewMarker matches "preview ends" inside either an MDX expression
// comment or an HTML comment.
var previewMarker = regexp.MustCompile(`(?i)\{\s*/\*\s*preview\s+ends\s*\*/\s*\}|<!--\s*preview\s+ends\s*-->`)

// Split is the result of cutting a post body at its preview marker.
type Split struct {
	Preview string
	Full    string
	Found   bool
}

// SplitPreview cuts content at the first preview marker. Without a marker
// the whole body is its own preview and nothing is trimmed. With one, the
// preview is the trimmed text before it and Full is the trimmed body with
// every marker removed.
func SplitPreview(content string) Split {
	loc := previewMarker.FindStringIndex(content)
	if loc == nil {
		return Split{Preview: content, Full: content}
	}
	return Split{
		Preview: strings.TrimSpace(content[:loc[0]]),
		Full:    strings.TrimSpace(previewMarker.ReplaceAllString(content, "")),
		Found:   true,
	}
}

// ContainsMarker reports whether s still holds a preview marker.
func ContainsMarker(s string) bool {
	return previewMarker.MatchString(s)
}
