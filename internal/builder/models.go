// internal/builder/models.go
package builder

import (
	"html/template"

	"fromthedepths/internal/config"
	"fromthedepths/internal/index"
)

// Page kinds, available to templates as .Kind.
const (
	KindPost = "post"
	KindList = "list"
	KindTags = "tags"
	KindTag  = "tag"
)

// PageData is the struct passed to templates.
type PageData struct {
	Kind        string
	Title       string
	Description string
	BaseHref    string
	Site        config.SiteConfig

	// Post pages.
	Content template.HTML
	Post    *PostView
	// Scripts are site-relative; ExternalScripts are absolute URLs loaded
	// async.
	Scripts         []string
	ExternalScripts []string
	FeedHref        string

	// Listing pages.
	Posts      []PostView
	Page       int
	TotalPages int
	PrevHref   string
	NextHref   string

	// Tag pages.
	Tags []TagView
	Tag  string
}

// PostView is a post prepared for display.
type PostView struct {
	Slug         string
	Href         string
	Title        string
	Subtitle     string
	Description  string
	Date         string
	DefaultImage string
	Preview      template.HTML
	HasMore      bool
	Tags         []TagView
}

// TagView links a tag to its page.
type TagView struct {
	index.TagCount
	Href string
}
