package index

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fromthedepths/internal/post"
)

func mkPost(filename, date string, tags ...string) post.Post {
	t, err := time.Parse(post.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return post.Post{
		Slug:          post.ExtractSlug(filename),
		Filename:      filename,
		DatePublished: date,
		Title:         post.ExtractSlug(filename),
		Tags:          tags,
		PublishedAt:   t,
	}
}

func TestTagFrequency(t *testing.T) {
	posts := []post.Post{
		mkPost("2024-01-01-one.mdx", "2024-01-01", "a", "b"),
		mkPost("2024-01-02-two.mdx", "2024-01-02", "a"),
		mkPost("2024-01-03-three.mdx", "2024-01-03"),
	}
	tags := TagFrequency(posts)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, tags.Tags)
	assert.Equal(t, []TagCount{{"a", 2}, {"b", 1}}, tags.Sorted)
}

func TestTagFrequencyTieBreakAndCase(t *testing.T) {
	posts := []post.Post{
		mkPost("2024-01-01-one.mdx", "2024-01-01", "zeta", "Go", "go"),
		mkPost("2024-01-02-two.mdx", "2024-01-02", "alpha", "zeta", "zeta"),
	}
	tags := TagFrequency(posts)
	assert.Equal(t, []TagCount{{"zeta", 3}, {"Go", 1}, {"alpha", 1}, {"go", 1}}, tags.Sorted)
}

func TestTagFrequencyEmpty(t *testing.T) {
	tags := TagFrequency(nil)
	assert.Empty(t, tags.Tags)
	assert.NotNil(t, tags.Sorted)
	assert.Empty(t, tags.Sorted)
}

func TestPaginate(t *testing.T) {
	var posts []post.Post
	for i := 0; i < 25; i++ {
		posts = append(posts, mkPost(fmt.Sprintf("2024-01-%02d-p%d.mdx", i+1, i), fmt.Sprintf("2024-01-%02d", i+1)))
	}
	pages, err := Paginate(posts, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, pages.TotalPages)
	assert.Equal(t, 10, pages.PostsPerPage)
	require.Len(t, pages.Pages, 3)
	assert.Len(t, pages.Pages[0], 10)
	assert.Len(t, pages.Pages[2], 5)

	var flat []post.Post
	for _, page := range pages.Pages {
		flat = append(flat, page...)
	}
	assert.Equal(t, posts, flat)

	third, ok := pages.Page(3)
	require.True(t, ok)
	assert.Equal(t, posts[20:], third)
	_, ok = pages.Page(0)
	assert.False(t, ok)
	_, ok = pages.Page(4)
	assert.False(t, ok)
}

func TestPaginateEmptyAndInvalid(t *testing.T) {
	pages, err := Paginate(nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, pages.TotalPages)
	assert.NotNil(t, pages.Pages)
	assert.Empty(t, pages.Pages)

	_, err = Paginate(nil, 0)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
}

func TestSortPostsIsStableOnEqualDates(t *testing.T) {
	posts := []post.Post{
		mkPost("2024-01-01-a.mdx", "2024-01-01"),
		mkPost("2024-03-01-b.mdx", "2024-03-01"),
		mkPost("c.mdx", "2024-01-01"),
		mkPost("2024-02-01-d.mdx", "2024-02-01"),
	}
	SortPosts(posts)
	var slugs []string
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, slugs)
}

func TestBuild(t *testing.T) {
	posts := []post.Post{
		mkPost("2024-01-01-first.mdx", "2024-01-01", "go"),
		mkPost("2024-02-01-second.md", "2024-02-01", "go", "life"),
		mkPost("third.mdx", "2024-03-01"),
	}
	idx, err := Build(posts, 2)
	require.NoError(t, err)

	assert.Equal(t, "first", posts[0].Slug, "input must not be reordered")
	require.Len(t, idx.Posts, 3)
	assert.Equal(t, "third", idx.Posts[0].Slug)
	assert.Equal(t, 2, idx.Pages.TotalPages)
	assert.Equal(t, map[string]string{
		"first":  "2024-01-01-first",
		"second": "2024-02-01-second",
		"third":  "third",
	}, idx.Slugs)
	assert.Equal(t, []TagCount{{"go", 2}, {"life", 1}}, idx.Tags.Sorted)

	p, ok := idx.Lookup("second")
	require.True(t, ok)
	assert.Equal(t, "2024-02-01-second.md", p.Filename)
	_, ok = idx.Lookup("missing")
	assert.False(t, ok)
}

func TestBuildRejectsSlugCollision(t *testing.T) {
	posts := []post.Post{
		mkPost("2024-01-01-same.mdx", "2024-01-01"),
		mkPost("2024-05-05-same.md", "2024-05-05"),
	}
	_, err := Build(posts, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlugCollision)

	var collision *CollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, "same", collision.Slug)
	assert.Equal(t, "2024-05-05-same.md", collision.First)
	assert.Equal(t, "2024-01-01-same.mdx", collision.Second)

	_, err = SlugMapping(posts)
	assert.ErrorIs(t, err, ErrSlugCollision)
}

func TestFilterByTag(t *testing.T) {
	posts := []post.Post{
		mkPost("2024-01-01-a.mdx", "2024-01-01", "x"),
		mkPost("2024-01-02-b.mdx", "2024-01-02", "y"),
		mkPost("2024-01-03-c.mdx", "2024-01-03", "x", "x"),
	}
	got := FilterByTag(posts, "x")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Slug)
	assert.Equal(t, "c", got[1].Slug)
	assert.Empty(t, FilterByTag(posts, "X"))
}

func TestSearchDocs(t *testing.T) {
	p := mkPost("2024-01-01-a.mdx", "2024-01-01")
	p.Content = "ignored"
	docs := SearchDocs([]post.Post{p}, func(p post.Post) string { return "  body of " + p.Slug + "\n" })
	require.Len(t, docs, 1)
	assert.Equal(t, "body of a", docs[0].Body)
	assert.Equal(t, []string{}, docs[0].Tags)
}
