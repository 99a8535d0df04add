// internal/feed/feed.go
package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"fromthedepths/internal/post"
	"fromthedepths/internal/util"
)

const (
	nsContent = "http://purl.org/rss/1.0/modules/content/"
	nsMedia   = "http://search.yahoo.com/mrss/"
	nsAtom    = "http://www.w3.org/2005/Atom"
	nsDC      = "http://purl.org/dc/elements/1.1/"

	// Generator is written to the channel's generator element.
	Generator = "depths"
)

// Config is the fixed feed-level metadata.
type Config struct {
	Title       string
	Description string
	SiteURL     string
	// FeedPath is the feed's path below SiteURL, used for the self link.
	FeedPath  string
	Language  string
	Author    string
	ImageType string
}

// RenderFunc produces the full HTML body embedded in an item.
type RenderFunc func(post.Post) (string, error)

type rss struct {
	XMLName   xml.Name `xml:"rss"`
	Version   string   `xml:"version,attr"`
	NSContent string   `xml:"xmlns:content,attr"`
	NSMedia   string   `xml:"xmlns:media,attr"`
	NSAtom    string   `xml:"xmlns:atom,attr"`
	NSDC      string   `xml:"xmlns:dc,attr"`
	Channel   channel  `xml:"channel"`
}

type channel struct {
	Title         string   `xml:"title"`
	Description   cdata    `xml:"description"`
	Link          string   `xml:"link"`
	Generator     string   `xml:"generator"`
	AtomLink      atomLink `xml:"atom:link"`
	LastBuildDate string   `xml:"lastBuildDate"`
	PubDate       string   `xml:"pubDate"`
	Language      string   `xml:"language,omitempty"`
	Items         []item   `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type item struct {
	Title       string        `xml:"title"`
	Description cdata         `xml:"description"`
	Link        string        `xml:"link"`
	GUID        guid          `xml:"guid"`
	Categories  []string      `xml:"category"`
	Creator     string        `xml:"dc:creator,omitempty"`
	PubDate     string        `xml:"pubDate"`
	Content     cdata         `xml:"content:encoded"`
	Media       *mediaContent `xml:"media:content,omitempty"`
}

type guid struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type mediaContent struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

// newCDATA drops runes XML documents may not contain. encoding/xml writes
// cdata sections verbatim, so a stray control character in a post would
// otherwise make the whole feed unparseable.
func newCDATA(s string) cdata {
	return cdata{strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return -1
	}, s)}
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// Generate serializes posts, in the order given, into an RSS 2.0 document.
// render is called once per post for the embedded body; any error aborts
// the feed. An empty post set yields a valid channel with no items.
func Generate(posts []post.Post, cfg Config, render RenderFunc, now time.Time) ([]byte, error) {
	items := make([]item, 0, len(posts))
	for _, p := range posts {
		body, err := render(p)
		if err != nil {
			return nil, fmt.Errorf("failed to render feed item %s: %w", p.Slug, err)
		}
		it := item{
			Title:       p.Title,
			Description: newCDATA(summary(p)),
			Link:        util.JoinURL(cfg.SiteURL, "blog", p.Slug),
			GUID:        guid{IsPermaLink: "false", Value: p.Slug},
			Categories:  p.Tags,
			Creator:     cfg.Author,
			PubDate:     p.PublishedAt.Format(time.RFC1123Z),
			Content:     newCDATA(body),
		}
		if p.DefaultImage != "" {
			it.Media = &mediaContent{URL: util.JoinURL(cfg.SiteURL, p.DefaultImage), Type: cfg.ImageType}
		}
		items = append(items, it)
	}

	stamp := now.UTC().Format(time.RFC1123Z)
	doc := rss{
		Version:   "2.0",
		NSContent: nsContent,
		NSMedia:   nsMedia,
		NSAtom:    nsAtom,
		NSDC:      nsDC,
		Channel: channel{
			Title:         cfg.Title,
			Description:   newCDATA(cfg.Description),
			Link:          util.JoinURL(cfg.SiteURL),
			Generator:     Generator,
			AtomLink:      atomLink{Href: util.JoinURL(cfg.SiteURL, cfg.FeedPath), Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: stamp,
			PubDate:       stamp,
			Language:      cfg.Language,
			Items:         items,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode feed: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// summary is the item description: the author's description, else the
// preview excerpt, else nothing.
func summary(p post.Post) string {
	if p.Description != "" {
		return p.Description
	}
	if p.HasPreview() {
		if p.PreviewHTML != "" {
			return p.PreviewHTML
		}
		return p.Preview
	}
	return ""
}
