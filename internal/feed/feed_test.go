package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fromthedepths/internal/post"
)

var testConfig = Config{
	Title:       "From the Depths Blog",
	Description: "Blog posts from From the Depths",
	SiteURL:     "https://youngbloods.org",
	FeedPath:    "rss.xml",
	Language:    "en",
	ImageType:   "image/jpeg",
}

// parsedFeed reads generated feeds back with namespaces resolved.
type parsedFeed struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel struct {
		Title    string `xml:"title"`
		Link     string `xml:"link"`
		Language string `xml:"language"`
		AtomLink struct {
			Href string `xml:"href,attr"`
			Rel  string `xml:"rel,attr"`
		} `xml:"http://www.w3.org/2005/Atom link"`
		LastBuildDate string `xml:"lastBuildDate"`
		Items         []struct {
			Title       string `xml:"title"`
			Description string `xml:"description"`
			Link        string `xml:"link"`
			GUID        struct {
				IsPermaLink string `xml:"isPermaLink,attr"`
				Value       string `xml:",chardata"`
			} `xml:"guid"`
			Categories []string `xml:"category"`
			PubDate    string   `xml:"pubDate"`
			Content    string   `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
			Media      *struct {
				URL  string `xml:"url,attr"`
				Type string `xml:"type,attr"`
			} `xml:"http://search.yahoo.com/mrss/ content"`
		} `xml:"item"`
	} `xml:"channel"`
}

func parse(t *testing.T, data []byte) parsedFeed {
	t.Helper()
	// Every token must decode for the document to count as well formed.
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	var f parsedFeed
	require.NoError(t, xml.Unmarshal(data, &f))
	return f
}

func TestGenerateEmpty(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	data, err := Generate(nil, testConfig, func(post.Post) (string, error) {
		t.Fatal("render must not be called")
		return "", nil
	}, now)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), xml.Header))

	f := parse(t, data)
	assert.Equal(t, "2.0", f.Version)
	assert.Equal(t, "From the Depths Blog", f.Channel.Title)
	assert.Equal(t, "https://youngbloods.org", f.Channel.Link)
	assert.Equal(t, "https://youngbloods.org/rss.xml", f.Channel.AtomLink.Href)
	assert.Equal(t, "self", f.Channel.AtomLink.Rel)
	assert.Equal(t, "Sat, 01 Mar 2025 12:00:00 +0000", f.Channel.LastBuildDate)
	assert.Empty(t, f.Channel.Items)
}

func TestGenerateItems(t *testing.T) {
	published := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	posts := []post.Post{
		{
			Slug:         "deep-water",
			Title:        "Deep Water",
			Description:  "A description.",
			DefaultImage: "/images/deep.jpg",
			Tags:         []string{"sea", "life"},
			Content:      "Body",
			PublishedAt:  published,
		},
		{
			Slug:        "excerpted",
			Title:       "Excerpted",
			Preview:     "Teaser",
			PreviewHTML: "<p>Teaser</p>",
			PublishedAt: published.AddDate(0, 0, -1),
		},
		{
			Slug:        "bare",
			Title:       "Bare",
			PublishedAt: published.AddDate(0, 0, -2),
		},
	}
	render := func(p post.Post) (string, error) {
		return "<p>" + p.Title + " ]]> tricky</p>", nil
	}

	data, err := Generate(posts, testConfig, render, published)
	require.NoError(t, err)
	f := parse(t, data)
	require.Len(t, f.Channel.Items, 3)

	first := f.Channel.Items[0]
	assert.Equal(t, "Deep Water", first.Title)
	assert.Equal(t, "A description.", first.Description)
	assert.Equal(t, "https://youngbloods.org/blog/deep-water", first.Link)
	assert.Equal(t, "deep-water", first.GUID.Value)
	assert.Equal(t, "false", first.GUID.IsPermaLink)
	assert.Equal(t, []string{"sea", "life"}, first.Categories)
	assert.Equal(t, "Sat, 01 Jun 2024 00:00:00 +0000", first.PubDate)
	assert.Equal(t, "<p>Deep Water ]]> tricky</p>", first.Content)
	require.NotNil(t, first.Media)
	assert.Equal(t, "https://youngbloods.org/images/deep.jpg", first.Media.URL)
	assert.Equal(t, "image/jpeg", first.Media.Type)

	assert.Equal(t, "<p>Teaser</p>", f.Channel.Items[1].Description)
	assert.Nil(t, f.Channel.Items[1].Media)
	assert.Equal(t, "", f.Channel.Items[2].Description)
	assert.Empty(t, f.Channel.Items[2].Categories)
}

func TestGenerateRenderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Generate([]post.Post{{Slug: "x"}}, testConfig, func(post.Post) (string, error) {
		return "", boom
	}, time.Now())
	assert.ErrorIs(t, err, boom)
}

func TestGenerateDropsCharactersXMLForbids(t *testing.T) {
	published := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	posts := []post.Post{{
		Slug:        "form-feed",
		Title:       "Form\x0cFeed",
		Description: "bell\x07 here",
		PublishedAt: published,
	}}
	cfg := testConfig
	cfg.Description = "null\x00 byte"

	data, err := Generate(posts, cfg, func(post.Post) (string, error) {
		return "<p>form\x0cfeed \U0001F30A</p>", nil
	}, published)
	require.NoError(t, err)

	f := parse(t, data)
	require.Len(t, f.Channel.Items, 1)
	item := f.Channel.Items[0]
	assert.Equal(t, "<p>formfeed \U0001F30A</p>", item.Content)
	assert.Equal(t, "bell here", item.Description)
	assert.Equal(t, "Form\uFFFDFeed", item.Title)
}

func TestIsXMLChar(t *testing.T) {
	for _, r := range []rune{'\t', '\n', '\r', ' ', 'é', 0xD7FF, 0xE000, 0xFFFD, 0x10000} {
		assert.True(t, isXMLChar(r), "%U", r)
	}
	for _, r := range []rune{0x00, 0x0B, 0x0C, 0x1F, 0xD800, 0xFFFE, 0xFFFF} {
		assert.False(t, isXMLChar(r), "%U", r)
	}
}
