// internal/store/store.go
package store

import (
	"context"
	"errors"

	"fromthedepths/internal/index"
	"fromthedepths/internal/post"
)

// ErrNotFound is returned by lookups for a slug the store does not hold.
var ErrNotFound = errors.New("not found")

// Snapshot is everything one build produces for the view layer. It is
// always saved whole; stores never see a partial index.
type Snapshot struct {
	Posts  []post.Post
	Pages  index.Pages
	Tags   index.Tags
	Slugs  map[string]string
	Search []index.SearchDoc
}

// SnapshotOf collects a built index and its search records.
func SnapshotOf(idx *index.Index, search []index.SearchDoc) Snapshot {
	return Snapshot{
		Posts:  idx.Posts,
		Pages:  idx.Pages,
		Tags:   idx.Tags,
		Slugs:  idx.Slugs,
		Search: search,
	}
}

// Store persists build snapshots. Save replaces whatever a previous build
// stored.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Close() error
}

// Multi saves each snapshot to every store in order, stopping at the first
// failure.
type Multi []Store

func (m Multi) Save(ctx context.Context, snap Snapshot) error {
	for _, s := range m {
		if err := s.Save(ctx, snap); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
