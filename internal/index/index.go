// internal/index/index.go
package index

import (
	"errors"
	"fmt"
	"sort"

	"fromthedepths/internal/post"
)

var (
	ErrSlugCollision   = errors.New("slug collision")
	ErrInvalidPageSize = errors.New("posts per page must be at least 1")
)

// CollisionError names the two source files that produced the same slug.
type CollisionError struct {
	Slug   string
	First  string
	Second string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("slug %q is produced by both %s and %s", e.Slug, e.First, e.Second)
}

func (e *CollisionError) Is(target error) bool {
	return target == ErrSlugCollision
}

// Pages is the paginated listing artifact.
type Pages struct {
	Pages        [][]post.Post `json:"pages"`
	TotalPages   int           `json:"totalPages"`
	PostsPerPage int           `json:"postsPerPage"`
}

// Page returns the 1-based page n. ok is false outside [1, TotalPages].
func (p Pages) Page(n int) ([]post.Post, bool) {
	if n < 1 || n > len(p.Pages) {
		return nil, false
	}
	return p.Pages[n-1], true
}

// TagCount is one row of the tag cloud.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Tags is the tag frequency artifact.
type Tags struct {
	Tags   map[string]int `json:"tags"`
	Sorted []TagCount     `json:"sortedTags"`
}

// Index bundles every derived structure of one build. It is built once and
// only read afterwards.
type Index struct {
	Posts  []post.Post
	Pages  Pages
	Tags   Tags
	Slugs  map[string]string
	bySlug map[string]post.Post
}

// Build sorts posts and derives the pages, tags and slug lookups from them.
// The input slice is not modified.
func Build(posts []post.Post, perPage int) (*Index, error) {
	sorted := make([]post.Post, len(posts))
	copy(sorted, posts)
	SortPosts(sorted)

	bySlug, err := BySlug(sorted)
	if err != nil {
		return nil, err
	}
	pages, err := Paginate(sorted, perPage)
	if err != nil {
		return nil, err
	}
	slugs := make(map[string]string, len(sorted))
	for _, p := range sorted {
		slugs[p.Slug] = p.Stem()
	}
	return &Index{
		Posts:  sorted,
		Pages:  pages,
		Tags:   TagFrequency(sorted),
		Slugs:  slugs,
		bySlug: bySlug,
	}, nil
}

// Lookup resolves a slug to its post.
func (idx *Index) Lookup(slug string) (post.Post, bool) {
	p, ok := idx.bySlug[slug]
	return p, ok
}

// SortPosts orders posts newest first. Posts published on the same day keep
// their relative order, which is lexical filename order for a build.
func SortPosts(posts []post.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
}

// Paginate splits posts into consecutive buckets of perPage. Zero posts give
// zero pages.
func Paginate(posts []post.Post, perPage int) (Pages, error) {
	if perPage < 1 {
		return Pages{}, fmt.Errorf("%w: got %d", ErrInvalidPageSize, perPage)
	}
	pages := make([][]post.Post, 0, (len(posts)+perPage-1)/perPage)
	for start := 0; start < len(posts); start += perPage {
		end := start + perPage
		if end > len(posts) {
			end = len(posts)
		}
		pages = append(pages, posts[start:end:end])
	}
	return Pages{Pages: pages, TotalPages: len(pages), PostsPerPage: perPage}, nil
}

// TagFrequency counts tag occurrences across posts. Tags are compared
// exactly; equal counts are ordered by tag name.
func TagFrequency(posts []post.Post) Tags {
	counts := make(map[string]int)
	for _, p := range posts {
		for _, tag := range p.Tags {
			counts[tag]++
		}
	}
	sorted := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		sorted = append(sorted, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Tag < sorted[j].Tag
	})
	return Tags{Tags: counts, Sorted: sorted}
}

// SlugMapping maps each slug to its source filename stem.
func SlugMapping(posts []post.Post) (map[string]string, error) {
	bySlug, err := BySlug(posts)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(bySlug))
	for slug, p := range bySlug {
		m[slug] = p.Stem()
	}
	return m, nil
}

// BySlug indexes posts by slug, failing on the first collision.
func BySlug(posts []post.Post) (map[string]post.Post, error) {
	m := make(map[string]post.Post, len(posts))
	for _, p := range posts {
		if prev, ok := m[p.Slug]; ok {
			return nil, &CollisionError{Slug: p.Slug, First: prev.Filename, Second: p.Filename}
		}
		m[p.Slug] = p
	}
	return m, nil
}

// FilterByTag keeps the posts carrying tag, in order. It is a view-time
// helper and never changes page boundaries.
func FilterByTag(posts []post.Post, tag string) []post.Post {
	var out []post.Post
	for _, p := range posts {
		for _, t := range p.Tags {
			if t == tag {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
