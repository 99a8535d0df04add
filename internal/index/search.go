// internal/index/search.go
package index

import (
	"strings"

	"fromthedepths/internal/post"
)

// SearchDoc is one record of the search index.
type SearchDoc struct {
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	DatePublished string   `json:"datePublished"`
	Tags          []string `json:"tags"`
	Body          string   `json:"body"`
}

// SearchDocs builds search records in index order. plain reduces a post's
// body to text; it is the third consumer of the content constructs next to
// the page and feed renderers.
func SearchDocs(posts []post.Post, plain func(post.Post) string) []SearchDoc {
	docs := make([]SearchDoc, 0, len(posts))
	for _, p := range posts {
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		docs = append(docs, SearchDoc{
			Slug:          p.Slug,
			Title:         p.Title,
			Description:   p.Description,
			DatePublished: p.DatePublished,
			Tags:          tags,
			Body:          strings.TrimSpace(plain(p)),
		})
	}
	return docs
}
