// internal/builder/render.go
package builder

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fromthedepths/internal/config"
	"fromthedepths/internal/index"
	"fromthedepths/internal/post"
	"fromthedepths/internal/render"
	"fromthedepths/internal/util"
)

// LightboxPath is where the lightbox script is written below the output directory.
const LightboxPath = "js/lightbox.js"

// renderSite renders every site page into outputs, keyed by slash-separated
// path below the output directory, and returns how many pages it rendered.
// A site without a template directory gets no pages. Post bodies are
// cleaned by sanitizer unless it is nil.
func renderSite(site config.SiteConfig, idx *index.Index, interactive *render.Interactive, sanitizer *render.Sanitizer, outputs map[string][]byte) (int, error) {
	if _, err := os.Stat(filepath.Join(site.TemplateDir, site.Template)); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	tmpl, err := LoadTemplates(site.TemplateDir, site.Template)
	if err != nil {
		return 0, err
	}

	pages := 0
	emit := func(rel string, data PageData) error {
		data.BaseHref = util.ComputeBaseHref(filepath.FromSlash(rel))
		data.Site = site
		data.FeedHref = data.BaseHref + site.FeedPath
		if data.Description == "" {
			data.Description = site.Description
		}
		var buf bytes.Buffer
		if err := renderPage(tmpl, &buf, data); err != nil {
			return fmt.Errorf("failed to render page %s: %w", rel, err)
		}
		outputs[rel] = buf.Bytes()
		pages++
		return nil
	}

	outputs[LightboxPath] = []byte(interactive.Script())

	for _, p := range idx.Posts {
		body, err := interactive.Render(p.Content)
		if err != nil {
			return 0, fmt.Errorf("failed to render %s: %w", p.Filename, err)
		}
		var external []string
		if sanitizer != nil {
			// The embed script cannot pass the sanitizer, so the layout loads it.
			if strings.Contains(body, render.SubstackScript) {
				external = append(external, render.SubstackScript)
			}
			body = sanitizer.Sanitize(body)
		}
		view := postView(p)
		if err := emit(postPath(p.Slug), PageData{
			Kind:            KindPost,
			Title:           p.Title,
			Description:     p.Description,
			Content:         template.HTML(body),
			Post:            &view,
			Scripts:         []string{LightboxPath},
			ExternalScripts: external,
		}); err != nil {
			return 0, err
		}
	}

	// The first page doubles as the home page; an empty blog still gets one.
	if idx.Pages.TotalPages == 0 {
		if err := emit("index.html", PageData{Kind: KindList, Title: site.Title}); err != nil {
			return 0, err
		}
	}
	for n := 1; n <= idx.Pages.TotalPages; n++ {
		page, _ := idx.Pages.Page(n)
		data := PageData{
			Kind:       KindList,
			Title:      site.Title,
			Posts:      postViews(page),
			Page:       n,
			TotalPages: idx.Pages.TotalPages,
		}
		if n > 1 {
			data.PrevHref = listPath(n - 1)
		}
		if n < idx.Pages.TotalPages {
			data.NextHref = listPath(n + 1)
		}
		if err := emit(listPath(n), data); err != nil {
			return 0, err
		}
		if n == 1 {
			if err := emit("index.html", data); err != nil {
				return 0, err
			}
		}
	}

	tags := tagViews(idx.Tags.Sorted)
	if err := emit("blog/tags.html", PageData{Kind: KindTags, Title: "Tags", Tags: tags}); err != nil {
		return 0, err
	}
	for _, tc := range idx.Tags.Sorted {
		if err := emit(tagPath(tc.Tag), PageData{
			Kind:  KindTag,
			Title: "Posts tagged " + tc.Tag,
			Tag:   tc.Tag,
			Posts: postViews(index.FilterByTag(idx.Posts, tc.Tag)),
		}); err != nil {
			return 0, err
		}
	}
	return pages, nil
}

func postPath(slug string) string { return "blog/" + slug + ".html" }

func listPath(n int) string { return "blog/page/" + strconv.Itoa(n) + ".html" }

// tagPath escapes the tag so that any tag name is a single file name.
func tagPath(tag string) string { return "blog/tags/" + url.PathEscape(tag) + ".html" }

// href escapes a root-relative output path for use in a link.
func href(rel string) string {
	return (&url.URL{Path: rel}).EscapedPath()
}

func postView(p post.Post) PostView {
	var tags []TagView
	for _, t := range p.Tags {
		tags = append(tags, TagView{TagCount: index.TagCount{Tag: t}, Href: href(tagPath(t))})
	}
	return PostView{
		Slug:         p.Slug,
		Href:         href(postPath(p.Slug)),
		Title:        p.Title,
		Subtitle:     p.Subtitle,
		Description:  p.Description,
		Date:         post.FormatDate(p.PublishedAt),
		DefaultImage: p.DefaultImage,
		Preview:      template.HTML(p.PreviewHTML),
		HasMore:      p.HasPreview(),
		Tags:         tags,
	}
}

func postViews(posts []post.Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, postView(p))
	}
	return views
}

func tagViews(counts []index.TagCount) []TagView {
	views := make([]TagView, 0, len(counts))
	for _, tc := range counts {
		views = append(views, TagView{TagCount: tc, Href: href(tagPath(tc.Tag))})
	}
	return views
}

// renderPage executes the Go template into w.
func renderPage(tmpl *template.Template, w io.Writer, data PageData) error {
	// "main" is the name of the template defined within our layout file.
	return tmpl.ExecuteTemplate(w, "main", data)
}

// LoadTemplates parses all necessary template files from a given theme directory.
func LoadTemplates(templateDir, templateName string) (*template.Template, error) {
	path := filepath.Join(templateDir, templateName)
	tmpl, err := template.ParseFiles(
		filepath.Join(path, "layout.html"),
		filepath.Join(path, "header.html"),
		filepath.Join(path, "footer.html"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates from %s: %w", path, err)
	}
	return tmpl, nil
}
