package folio

import (
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/eringen/folio/search"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = sql.ErrNoRows

// PostCache is an in-memory cache of published posts and tags with TTL. Each
// load also builds the search engine over the loaded posts.
type PostCache struct {
	mu      sync.RWMutex
	posts   []Post
	tags    []string
	engine  search.Engine
	fetched time.Time
	ttl     time.Duration
	store   *Store

	engineKind string
	opts       search.Options
	log        search.Logger
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration, cfg SearchConfig, log search.Logger) *PostCache {
	return &PostCache{
		store:      s,
		ttl:        ttl,
		engineKind: cfg.Engine,
		opts:       cfg.Options(),
		log:        log,
	}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.tags = nil
	c.engine = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPosts("")
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return err
	}
	records := lo.Map(posts, func(p Post, _ int) search.PostRecord { return p.Record() })
	engine, err := search.NewEngine(c.engineKind, records, c.opts, c.log)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []Post{}
	}
	c.posts = posts
	c.tags = tags
	c.engine = engine
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and tags after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded() ([]Post, []string, search.Engine, error) {
	c.mu.RLock()
	if c.valid() {
		posts, tags, engine := c.posts, c.tags, c.engine
		c.mu.RUnlock()
		return posts, tags, engine, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, nil, err
	}
	return c.posts, c.tags, c.engine, nil
}

// ListPosts returns published posts, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]Post, error) {
	posts, _, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return posts, nil
	}
	normalized := normalizeTag(tag)
	return lo.Filter(posts, func(p Post, _ int) bool {
		return lo.ContainsBy(p.Tags, func(t string) bool { return normalizeTag(t) == normalized })
	}), nil
}

// ListTags returns all unique tags from published posts.
func (c *PostCache) ListTags() ([]string, error) {
	_, tags, _, err := c.ensureLoaded()
	return tags, err
}

// TagCounts returns every tag with its post count, most used first.
func (c *PostCache) TagCounts() ([]TagCount, error) {
	posts, _, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, p := range posts {
		for _, t := range lo.Uniq(lo.Map(p.Tags, func(t string, _ int) string { return normalizeTag(t) })) {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out, nil
}

// GetPost returns a single published post by slug from the cache.
func (c *PostCache) GetPost(slug string) (Post, error) {
	posts, _, _, err := c.ensureLoaded()
	if err != nil {
		return Post{}, err
	}
	p, ok := lo.Find(posts, func(p Post) bool { return p.Slug == slug })
	if !ok {
		return Post{}, ErrNotFound
	}
	return p, nil
}

// Engine returns the search engine built over the cached posts.
func (c *PostCache) Engine() (search.Engine, error) {
	_, _, engine, err := c.ensureLoaded()
	return engine, err
}
