// internal/builder/builder.go
package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"fromthedepths/internal/config"
	"fromthedepths/internal/feed"
	"fromthedepths/internal/index"
	"fromthedepths/internal/post"
	"fromthedepths/internal/render"
	"fromthedepths/internal/store"
	"fromthedepths/internal/util"
)

type BuildOptions struct {
	CleanDestination bool
	// Unsafe skips sanitizing previews and post pages.
	Unsafe bool
	// Now is the build clock, used for undated posts and feed timestamps.
	Now    func() time.Time
	Logger *slog.Logger
}

// Result summarizes one build.
type Result struct {
	Posts    int
	Pages    int
	Tags     int
	Files    int
	Duration time.Duration
}

// contentExts are the source file extensions picked up from the content directory.
var contentExts = map[string]bool{".mdx": true, ".md": true}

// Build runs one full pass: read and parse every post, derive the index,
// render previews, the feed and site pages, then write everything out. Any
// failing post fails the whole build and nothing is written.
func Build(ctx context.Context, site config.SiteConfig, opts BuildOptions) (Result, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	buildTime := now()

	files, err := listContent(site.ContentDir)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		logger.Warn("no content files found", "dir", site.ContentDir)
	}

	posts, err := loadPosts(ctx, files, buildTime, logger)
	if err != nil {
		return Result{}, err
	}

	static := render.NewStatic(render.NewMarkdown(render.FeedMarkdownOptions()))
	interactive := render.NewInteractive(render.NewMarkdown(render.PageMarkdownOptions(site.HighlightStyle)))
	sanitizer := render.NewSanitizer()

	for i := range posts {
		source := posts[i].Content
		if posts[i].HasPreview() {
			source = posts[i].Preview
		}
		html, err := static.Render(source, render.StaticOptions{SuppressFootnotes: true})
		if err != nil {
			return Result{}, fmt.Errorf("failed to render preview for %s: %w", posts[i].Filename, err)
		}
		if !opts.Unsafe {
			html = sanitizer.Sanitize(html)
		}
		posts[i].PreviewHTML = strings.TrimSpace(html)
	}

	idx, err := index.Build(posts, site.PostsPerPage)
	if err != nil {
		return Result{}, err
	}

	// Full static bodies feed both the search index and the feed.
	bodies := make(map[string]string, len(idx.Posts))
	for _, p := range idx.Posts {
		html, err := static.Render(p.Content, render.StaticOptions{SuppressFootnotes: true})
		if err != nil {
			return Result{}, fmt.Errorf("failed to render %s: %w", p.Filename, err)
		}
		bodies[p.Slug] = html
	}
	search := index.SearchDocs(idx.Posts, func(p post.Post) string {
		return render.PlainText(bodies[p.Slug])
	})

	feedXML, err := feed.Generate(idx.Posts, feedConfig(site), func(p post.Post) (string, error) {
		return bodies[p.Slug], nil
	}, buildTime)
	if err != nil {
		return Result{}, err
	}

	outputs := map[string][]byte{
		site.FeedPath: feedXML,
	}
	var pageSanitizer *render.Sanitizer
	if !opts.Unsafe {
		pageSanitizer = render.NewPageSanitizer()
	}
	pages, err := renderSite(site, idx, interactive, pageSanitizer, outputs)
	if err != nil {
		return Result{}, err
	}

	// Everything is computed; from here on the build only writes.
	if opts.CleanDestination {
		logger.Info("cleaning destination directory", "dir", site.OutputDir)
		if err := cleanDir(site.OutputDir); err != nil {
			return Result{}, err
		}
	}
	if err := writeOutputs(site.OutputDir, outputs); err != nil {
		return Result{}, err
	}
	if err := copyStaticAssets(site.StaticDir, site.OutputDir); err != nil {
		return Result{}, err
	}

	st, err := openStore(site)
	if err != nil {
		return Result{}, err
	}
	defer st.Close()
	if err := st.Save(ctx, store.SnapshotOf(idx, search)); err != nil {
		return Result{}, fmt.Errorf("failed to save snapshot: %w", err)
	}

	res := Result{
		Posts:    len(idx.Posts),
		Pages:    pages,
		Tags:     len(idx.Tags.Sorted),
		Files:    len(outputs),
		Duration: time.Since(start),
	}
	logger.Info("build complete", "posts", res.Posts, "pages", res.Pages, "tags", res.Tags, "duration", res.Duration)
	return res, nil
}

func feedConfig(site config.SiteConfig) feed.Config {
	return feed.Config{
		Title:       site.Title,
		Description: site.Description,
		SiteURL:     site.BaseURL,
		FeedPath:    site.FeedPath,
		Language:    site.Language,
		Author:      site.Author,
		ImageType:   site.ImageType,
	}
}

// listContent returns the content files under dir in lexical order. A
// missing directory holds no posts.
func listContent(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, os.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !contentExts[filepath.Ext(d.Name())] {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list content in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// loadPosts reads files concurrently and parses each one. Every failure is
// reported, joined into one error.
func loadPosts(ctx context.Context, files []string, now time.Time, logger *slog.Logger) ([]post.Post, error) {
	posts := make([]post.Post, len(files))
	errs := make([]error, len(files))

	group, groupctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())
	for i, path := range files {
		i, path := i, path
		group.Go(func() error {
			if err := groupctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				errs[i] = fmt.Errorf("failed to read file %s: %w", path, err)
				return nil
			}
			if !utf8.Valid(src) {
				errs[i] = fmt.Errorf("content file is not valid UTF-8: %s", path)
				return nil
			}
			p, err := post.Parse(filepath.Base(path), src, now)
			if err != nil {
				errs[i] = fmt.Errorf("failed to parse %s: %w", path, err)
				return nil
			}
			logger.Debug("parsed post", "file", path, "slug", p.Slug, "date", p.DatePublished)
			posts[i] = p
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return posts, nil
}

func openStore(site config.SiteConfig) (store.Store, error) {
	switch site.Store {
	case config.StoreSQLite:
		s, err := store.NewSQLite(site.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", site.SQLitePath, err)
		}
		return s, nil
	case config.StoreBoth:
		s, err := store.NewSQLite(site.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", site.SQLitePath, err)
		}
		return store.Multi{store.NewJSON(site.GeneratedDir), s}, nil
	}
	return store.NewJSON(site.GeneratedDir), nil
}

func cleanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// writeOutputs writes every rendered file below outputDir, in a stable order.
func writeOutputs(outputDir string, outputs map[string][]byte) error {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := util.WriteFileAtomic(filepath.Join(outputDir, filepath.FromSlash(name)), outputs[name], 0644); err != nil {
			return err
		}
	}
	return nil
}

// copyStaticAssets copies files from the static directory to the output directory.
func copyStaticAssets(staticDir, outputDir string) error {
	if _, err := os.Stat(staticDir); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	allowedExts := map[string]bool{
		".css": true, ".js": true, ".txt": true, ".svg": true, ".ico": true,
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
		".woff": true, ".woff2": true,
	}
	return filepath.Walk(staticDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !allowedExts[strings.ToLower(filepath.Ext(info.Name()))] {
			return nil
		}

		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		dst, err := os.Create(dest)
		if err != nil {
			return err
		}
		defer dst.Close()
		_, err = io.Copy(dst, src)
		return err
	})
}
