package folio

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *Store, posts ...Post) {
	t.Helper()
	if err := s.ReplaceAll(posts); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
}

func slugsOf(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func countRows(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow(`SELECT count(*) FROM posts`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestNewStoreAddsCoverColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`
CREATE TABLE posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    tags TEXT NOT NULL,
    summary TEXT NOT NULL,
    content TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1
);
INSERT INTO posts VALUES ('legacy', 'Legacy', '2023-01-01', ',go,', 's', 'c', 1);
`); err != nil {
		t.Fatalf("create legacy schema: %v", err)
	}
	db.Close()

	// Opening twice also checks the migration tolerates an existing column.
	for i := 0; i < 2; i++ {
		s, err := NewStore(path)
		if err != nil {
			t.Fatalf("NewStore #%d: %v", i+1, err)
		}
		got, err := s.GetPost("legacy")
		s.Close()
		if err != nil {
			t.Fatalf("GetPost: %v", err)
		}
		if got.Cover != "" || got.Title != "Legacy" {
			t.Errorf("legacy post = %+v", got)
		}
	}
}

func TestReplaceAll(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, Post{Slug: "old", Title: "Old", Date: "2023-01-01", Published: true})

	post := Post{
		Slug:      "a",
		Title:     "A",
		Date:      "2024-01-15",
		Tags:      []string{"Go", "testing"},
		Summary:   "A summary",
		Cover:     "/public/covers/a.png",
		Content:   "# A\n\nBody.",
		Published: true,
	}
	seed(t, s, post, Post{Slug: "b", Title: "B", Date: "2024-02-01", Published: false})

	if n := countRows(t, s); n != 2 {
		t.Fatalf("rows after ReplaceAll = %d, want 2", n)
	}
	if _, err := s.GetPost("old"); err != sql.ErrNoRows {
		t.Errorf("old post should be gone, got %v", err)
	}

	got, err := s.GetPost("a")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != post.Title || got.Date != post.Date || got.Summary != post.Summary ||
		got.Cover != post.Cover || got.Content != post.Content || !got.Published {
		t.Errorf("GetPost = %+v, want %+v", got, post)
	}
	if got.Link != "/blog/a/" {
		t.Errorf("Link = %q, want %q", got.Link, "/blog/a/")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "testing" {
		t.Errorf("Tags = %v, want [go testing]", got.Tags)
	}
}

func TestReplaceAllRollsBack(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s, Post{Slug: "keep", Title: "Keep", Date: "2024-01-01", Published: true})

	// The trigger fails the second insert, so the whole import must be undone.
	if _, err := s.db.Exec(`CREATE TRIGGER reject BEFORE INSERT ON posts WHEN NEW.slug = 'bad' BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}
	err := s.ReplaceAll([]Post{
		{Slug: "new", Title: "New", Date: "2024-03-01", Published: true},
		{Slug: "bad", Title: "Bad", Date: "2024-03-02", Published: true},
	})
	if err == nil {
		t.Fatal("expected ReplaceAll to fail")
	}

	got, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "keep" {
		t.Errorf("failed import should leave the table untouched, got %v", slugsOf(got))
	}
}

func TestDraftsAreHidden(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s,
		Post{Slug: "post-1", Title: "Post 1", Date: "2024-01-01", Tags: []string{"go"}, Published: true},
		Post{Slug: "post-2", Title: "Post 2", Date: "2024-01-03", Tags: []string{"rust"}, Published: true},
		Post{Slug: "draft", Title: "Draft", Date: "2024-01-04", Tags: []string{"go", "secret"}, Published: false},
	)

	got, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 2 || got[0].Slug != "post-2" || got[1].Slug != "post-1" {
		t.Errorf("ListPosts = %v, want [post-2 post-1]", slugsOf(got))
	}
	if _, err := s.GetPost("draft"); err != sql.ErrNoRows {
		t.Errorf("GetPost(draft) err = %v, want sql.ErrNoRows", err)
	}
	if _, err := s.GetPost("nonexistent"); err != sql.ErrNoRows {
		t.Errorf("GetPost(nonexistent) err = %v, want sql.ErrNoRows", err)
	}

	tags, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 2 || tags[0] != "go" || tags[1] != "rust" {
		t.Errorf("ListTags = %v, want [go rust]", tags)
	}
}

func TestListPostsByTag(t *testing.T) {
	s := setupTestStore(t)
	seed(t, s,
		Post{Slug: "go-1", Title: "Go 1", Date: "2024-01-01", Tags: []string{"GoLang", "tutorial"}, Published: true},
		Post{Slug: "go-2", Title: "Go 2", Date: "2024-01-02", Tags: []string{"golang", "web"}, Published: true},
		Post{Slug: "rust", Title: "Rust", Date: "2024-01-03", Tags: []string{"rust"}, Published: true},
		Post{Slug: "no-tags", Title: "No Tags", Date: "2024-01-04", Published: true},
	)

	tests := []struct {
		tag  string
		want int
	}{
		{"golang", 2},
		{"GOLANG", 2},
		{"rust", 1},
		{"web", 1},
		{"nonexistent", 0},
	}
	for _, tt := range tests {
		got, err := s.ListPosts(tt.tag)
		if err != nil {
			t.Fatalf("ListPosts(%q) failed: %v", tt.tag, err)
		}
		if len(got) != tt.want {
			t.Errorf("ListPosts(%q) = %v, want %d posts", tt.tag, slugsOf(got), tt.want)
		}
	}

	got, err := s.GetPost("no-tags")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags should be empty, got %v", got.Tags)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{",", nil},
		{",go,", []string{"go"}},
		{",go,web,", []string{"go", "web"}},
		{",go, web ,rust,", []string{"go", "web", "rust"}},
	}

	for _, tt := range tests {
		got := ParseTags(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTags(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestFormatTags(t *testing.T) {
	if got := FormatTags([]string{" Go ", "WEB"}); got != ",go,web," {
		t.Errorf("FormatTags = %q, want %q", got, ",go,web,")
	}
}
