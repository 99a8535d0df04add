// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"fromthedepths/internal/post"
)

// ErrExists is returned when a scaffold target is already present.
var ErrExists = errors.New("already exists")

// ArchetypePath is the post body template inside a scaffolded site.
const ArchetypePath = "archetypes/post.mdx"

// CreateNewSite writes a ready-to-build site into name.
func CreateNewSite(name string, now time.Time) error {
	fmt.Println("Scaffolding new site in:", name)
	if _, err := os.Stat(filepath.Join(name, "site.yaml")); err == nil {
		return fmt.Errorf("site.yaml in %s: %w", name, ErrExists)
	}
	mkdir := func(path string) error { return os.MkdirAll(filepath.Join(name, path), 0755) }
	writeFile := func(path, content string) error {
		return os.WriteFile(filepath.Join(name, path), []byte(content), 0644)
	}
	dirs := []string{"content/posts", "static/css", "static/images", "templates/default", "archetypes"}
	for _, dir := range dirs {
		if err := mkdir(dir); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	files := map[string]string{
		"site.yaml":                     siteYamlContent,
		"static/css/style.css":          staticCssContent,
		"templates/default/layout.html": templateLayoutHtmlContent,
		"templates/default/header.html": templateHeaderHtmlContent,
		"templates/default/footer.html": templateFooterHtmlContent,
		ArchetypePath:                   archetypePostContent,
	}
	for path, content := range files {
		if err := writeFile(path, content); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
	}

	sample, err := NewPost(PostOptions{
		ContentDir: filepath.Join(name, "content", "posts"),
		Title:      "Welcome to the Depths",
		Tags:       []string{"meta"},
		Date:       now,
		Body:       samplePostBody,
	})
	if err != nil {
		return err
	}
	fmt.Println("Created:", sample)

	fmt.Println("Site scaffolded. You can now:")
	fmt.Println("  cd", name)
	fmt.Println("  depths new post \"My first post\"")
	fmt.Println("  depths serve")
	return nil
}

// PostOptions describes a post file to create.
type PostOptions struct {
	ContentDir string
	Title      string
	Tags       []string
	Date       time.Time
	// Archetype is an optional text/template file for the body. It sees
	// .Title and .Date.
	Archetype string
	// Body is used verbatim when set, instead of any archetype.
	Body string
}

type postFrontMatter struct {
	Title         string   `yaml:"title"`
	DatePublished string   `yaml:"datePublished"`
	Description   string   `yaml:"description"`
	Keywords      []string `yaml:"keywords"`
	Tags          []string `yaml:"tags"`
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title and joins its words with hyphens.
func Slugify(title string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

// NewPost writes YYYY-MM-DD-<slug>.mdx into the content directory and
// returns its path. It never overwrites an existing post.
func NewPost(opts PostOptions) (string, error) {
	slug := Slugify(opts.Title)
	if slug == "" {
		return "", fmt.Errorf("title %q has no usable characters for a slug", opts.Title)
	}
	date := opts.Date.Format(post.DateLayout)

	body := opts.Body
	if body == "" {
		var err error
		body, err = archetypeBody(opts.Archetype, opts.Title, date)
		if err != nil {
			return "", err
		}
	}

	tags := opts.Tags
	if tags == nil {
		tags = []string{}
	}
	fm, err := yaml.Marshal(postFrontMatter{
		Title:         opts.Title,
		DatePublished: date,
		Keywords:      []string{},
		Tags:          tags,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("---\n")
	out.Write(fm)
	out.WriteString("---\n\n")
	out.WriteString(body)

	if err := os.MkdirAll(opts.ContentDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(opts.ContentDir, date+"-"+slug+".mdx")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return "", fmt.Errorf("%s: %w", path, ErrExists)
	}
	if err != nil {
		return "", err
	}
	if _, err := f.Write(out.Bytes()); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func archetypeBody(path, title, date string) (string, error) {
	src := archetypePostContent
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("could not read archetype file %s: %w", path, err)
		}
		src = string(data)
	}
	tmpl, err := template.New("archetype").Parse(src)
	if err != nil {
		return "", fmt.Errorf("failed to parse archetype file %s: %w", path, err)
	}
	var out bytes.Buffer
	data := struct{ Title, Date string }{Title: title, Date: date}
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("failed to execute archetype template: %w", err)
	}
	return out.String(), nil
}
