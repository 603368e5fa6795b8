package folio

import (
	"context"

	"github.com/samber/lo"

	"github.com/eringen/folio/content"
)

// Importer loads the content directory into the store and refreshes every
// reader of it: the post cache and, in watch mode, connected browsers.
type Importer struct {
	dir   string
	store *Store
	cache *PostCache
	live  *LiveHub
	log   Logger
}

// NewImporter returns an Importer. cache and live may be nil.
func NewImporter(dir string, store *Store, cache *PostCache, live *LiveHub, log Logger) *Importer {
	return &Importer{dir: dir, store: store, cache: cache, live: live, log: log}
}

// Import replaces the stored posts with the content directory's snapshot and
// returns how many posts it holds, drafts included.
func (i *Importer) Import() (int, error) {
	sources, err := content.LoadDir(i.dir)
	if err != nil {
		return 0, err
	}
	posts := lo.Map(sources, func(s content.Source, _ int) Post { return PostFromSource(s) })
	if err := i.store.ReplaceAll(posts); err != nil {
		return 0, err
	}
	if i.cache != nil {
		i.cache.Invalidate()
	}
	return len(posts), nil
}

// Watch re-imports whenever post files change until ctx is done.
func (i *Importer) Watch(ctx context.Context) error {
	return content.Watch(ctx, i.dir, i.log, func(paths []string) {
		n, err := i.Import()
		if err != nil {
			i.log.Errorf("re-import after %d change(s): %v", len(paths), err)
			return
		}
		i.log.Infof("re-imported %d posts after %d change(s)", n, len(paths))
		if i.live != nil {
			i.live.Broadcast(LiveMessage{Type: "reload", Paths: paths})
		}
	})
}
