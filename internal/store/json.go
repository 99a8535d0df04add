// internal/store/json.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"fromthedepths/internal/index"
	"fromthedepths/internal/post"
	"fromthedepths/internal/util"
)

// Artifact file names written by the JSON store.
const (
	IndexFile  = "blog-index.json"
	PagesFile  = "blog-pages.json"
	TagsFile   = "blog-tags.json"
	SlugsFile  = "blog-slugs.json"
	SearchFile = "search-index.json"
)

// JSON writes a snapshot as a directory of JSON artifacts.
type JSON struct {
	Dir string
}

func NewJSON(dir string) *JSON {
	return &JSON{Dir: dir}
}

type indexArtifact struct {
	Posts []post.Post `json:"posts"`
}

func (j *JSON) Save(ctx context.Context, snap Snapshot) error {
	posts := snap.Posts
	if posts == nil {
		posts = []post.Post{}
	}
	pages := snap.Pages
	if pages.Pages == nil {
		pages.Pages = [][]post.Post{}
	}
	tags := snap.Tags
	if tags.Tags == nil {
		tags.Tags = map[string]int{}
	}
	if tags.Sorted == nil {
		tags.Sorted = []index.TagCount{}
	}
	slugs := snap.Slugs
	if slugs == nil {
		slugs = map[string]string{}
	}
	search := snap.Search
	if search == nil {
		search = []index.SearchDoc{}
	}

	artifacts := []struct {
		name  string
		value any
	}{
		{IndexFile, indexArtifact{Posts: posts}},
		{PagesFile, pages},
		{TagsFile, tags},
		{SlugsFile, slugs},
		{SearchFile, search},
	}
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.MarshalIndent(a.value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", a.name, err)
		}
		if err := util.WriteFileAtomic(filepath.Join(j.Dir, a.name), append(data, '\n'), 0644); err != nil {
			return err
		}
	}
	return nil
}

func (j *JSON) Close() error { return nil }
