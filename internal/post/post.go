// internal/post/post.go
package post

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// DateLayout is the calendar-date layout used in filenames and in the
// generated artifacts.
const DateLayout = "2006-01-02"

var (
	ErrMalformedFrontMatter = errors.New("malformed front matter")
	ErrInvalidDate          = errors.New("invalid publish date")
)

// contentExts are the source extensions stripped from a filename to get its stem.
var contentExts = []string{".mdx", ".md"}

var datePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-`)

// Post is one content unit. It is built once per build from a single
// source file and never mutated afterwards.
type Post struct {
	Slug          string   `json:"slug"`
	Filename      string   `json:"filename"`
	DatePublished string   `json:"datePublished"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Description   string   `json:"description"`
	DefaultImage  string   `json:"defaultImage,omitempty"`
	Keywords      []string `json:"keywords"`
	Tags          []string `json:"tags"`
	Content       string   `json:"content"`
	Preview       string   `json:"preview,omitempty"`

	// PreviewHTML is the sanitized static rendering of the preview (or of
	// the whole post when it has no preview marker). Filled by the builder.
	PreviewHTML string `json:"previewHtml,omitempty"`

	PublishedAt time.Time `json:"-"`
}

// Stem returns the filename without its content extension.
func (p Post) Stem() string {
	return trimContentExt(p.Filename)
}

// HasPreview reports whether the author marked an explicit excerpt.
func (p Post) HasPreview() bool {
	return p.Preview != ""
}

// frontMatter mirrors the known front matter keys. Keywords, tags and the
// date are loosely typed because authors write them in more than one shape.
type frontMatter struct {
	Title         string `yaml:"title" toml:"title" json:"title"`
	Subtitle      string `yaml:"subtitle" toml:"subtitle" json:"subtitle"`
	Description   string `yaml:"description" toml:"description" json:"description"`
	DatePublished any    `yaml:"datePublished" toml:"datePublished" json:"datePublished"`
	DefaultImage  string `yaml:"defaultImage" toml:"defaultImage" json:"defaultImage"`
	Keywords      any    `yaml:"keywords" toml:"keywords" json:"keywords"`
	Tags          any    `yaml:"tags" toml:"tags" json:"tags"`
}

// Parse builds a Post from a source file's name and raw bytes. now is the
// fallback publish date for files that carry no date at all.
func Parse(filename string, src []byte, now time.Time) (Post, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		return Post{}, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}

	slug := ExtractSlug(filename)

	published, err := publishDate(fm.DatePublished, filename, now)
	if err != nil {
		return Post{}, err
	}

	split := SplitPreview(string(body))

	p := Post{
		Slug:          slug,
		Filename:      filename,
		DatePublished: published.Format(DateLayout),
		PublishedAt:   published,
		Title:         strings.TrimSpace(fm.Title),
		Subtitle:      strings.TrimSpace(fm.Subtitle),
		Description:   strings.TrimSpace(fm.Description),
		DefaultImage:  strings.TrimSpace(fm.DefaultImage),
		Keywords:      ParseKeywords(fm.Keywords),
		Tags:          ParseTags(fm.Tags),
		Content:       split.Full,
	}
	if p.Title == "" {
		p.Title = slug
	}
	if split.Found && split.Preview != "" {
		p.Preview = split.Preview
	}
	return p, nil
}

// publishDate applies the precedence front matter > filename > now. A
// timestamp keeps its own offset so its calendar date is the one the
// author wrote.
func publishDate(raw any, filename string, now time.Time) (time.Time, error) {
	switch v := raw.(type) {
	case nil:
	case time.Time:
		return v, nil
	case string:
		if strings.TrimSpace(v) != "" {
			return parseDate(v)
		}
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported value %v", ErrInvalidDate, raw)
	}
	if s, ok := ExtractDate(filename); ok {
		return parseDate(s)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ExtractSlug strips the content extension and a leading YYYY-MM-DD- prefix.
// Whatever remains is the slug, verbatim.
func ExtractSlug(filename string) string {
	return datePrefix.ReplaceAllString(trimContentExt(filename), "")
}

// ExtractDate returns the YYYY-MM-DD prefix of filename. The boolean is
// false when the filename carries no date.
func ExtractDate(filename string) (string, bool) {
	m := datePrefix.FindStringSubmatch(filename)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func trimContentExt(filename string) string {
	for _, ext := range contentExts {
		if strings.HasSuffix(filename, ext) {
			return strings.TrimSuffix(filename, ext)
		}
	}
	return filename
}

// ParseKeywords accepts either a comma-separated string or a list and
// always returns a trimmed list without empty entries.
func ParseKeywords(raw any) []string {
	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(v, ",")
	case []string:
		parts = v
	case []any:
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
	}
	keywords := make([]string, 0, len(parts))
	for _, k := range parts {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// ParseTags keeps tags in author order. Duplicates are not removed; a
// non-list value yields no tags.
func ParseTags(raw any) []string {
	tags := []string{}
	switch v := raw.(type) {
	case []string:
		for _, t := range v {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			if t := strings.TrimSpace(fmt.Sprint(item)); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// FormatDate renders a publish date the way post headers display it.
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
