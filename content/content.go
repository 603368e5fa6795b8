// Package content loads blog posts from Markdown files carrying YAML front
// matter.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the date format posts are stored and displayed with.
const DateLayout = "2006-01-02"

var delimiter = []byte("---")

// ErrNoFrontMatter is returned when a file does not open with a "---" block.
var ErrNoFrontMatter = errors.New("content: missing front matter")

// FrontMatter is the YAML header of a post file.
type FrontMatter struct {
	Title   string    `yaml:"title"`
	Date    time.Time `yaml:"date"`
	Summary string    `yaml:"summary"`
	Tags    []string  `yaml:"tags"`
	Cover   string    `yaml:"cover"`
	Draft   bool      `yaml:"draft"`
	Slug    string    `yaml:"slug"`
}

// Source is one parsed post file.
type Source struct {
	FrontMatter
	Body string
	Path string
}

// DateString formats the post date, or returns "" when unset.
func (s Source) DateString() string {
	if s.Date.IsZero() {
		return ""
	}
	return s.Date.Format(DateLayout)
}

// IsPost reports whether name looks like a Markdown post file.
func IsPost(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown", ".mdx":
		return true
	}
	return false
}

// SlugFromPath derives a slug from a file name: the base name without its
// extension, lowercased.
func SlugFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Parse splits data into front matter and body. The slug falls back to the
// file name when the header does not set one.
func Parse(path string, data []byte) (Source, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, delimiter) {
		return Source{}, fmt.Errorf("%s: %w", path, ErrNoFrontMatter)
	}
	rest := data[len(delimiter):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return Source{}, fmt.Errorf("%s: %w", path, ErrNoFrontMatter)
	}
	rest = rest[nl+1:]

	var header, body []byte
	switch {
	case bytes.HasPrefix(rest, delimiter):
		body = rest[len(delimiter):]
	default:
		end := bytes.Index(rest, []byte("\n---"))
		if end < 0 {
			return Source{}, fmt.Errorf("%s: unterminated front matter: %w", path, ErrNoFrontMatter)
		}
		header = rest[:end]
		body = rest[end+len("\n---"):]
	}
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}

	var fm FrontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return Source{}, fmt.Errorf("%s: front matter: %w", path, err)
	}
	fm.Title = strings.TrimSpace(fm.Title)
	if fm.Title == "" {
		return Source{}, fmt.Errorf("%s: front matter: title is required", path)
	}
	fm.Slug = strings.TrimSpace(fm.Slug)
	if fm.Slug == "" {
		fm.Slug = SlugFromPath(path)
	}
	fm.Tags = normalizeTags(fm.Tags)
	return Source{FrontMatter: fm, Body: strings.TrimLeft(string(body), "\n"), Path: path}, nil
}

// ParseFile reads and parses a single post file.
func ParseFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, err
	}
	return Parse(path, data)
}

// LoadDir parses every post file below dir, newest first. Slugs must be
// unique.
func LoadDir(dir string) ([]Source, error) {
	var out []Source
	seen := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsPost(d.Name()) {
			return nil
		}
		src, err := ParseFile(path)
		if err != nil {
			return err
		}
		if prev, ok := seen[src.Slug]; ok {
			return fmt.Errorf("content: duplicate slug %q in %s and %s", src.Slug, prev, path)
		}
		seen[src.Slug] = path
		out = append(out, src)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
