package inlinesvg

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="40" style="fill:red"><rect width="10" height="10"/></svg>`

type recordingLogger struct{ n atomic.Int32 }

func (l *recordingLogger) Errorf(string, ...interface{}) { l.n.Add(1) }

func TestTransform(t *testing.T) {
	got, err := Transform(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	for _, want := range []string{
		`style="background-color: white"`,
		`width="100%"`,
		`height="auto"`,
		`viewBox="0 0 10 10"`,
		"<rect",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %s", want, got)
		}
	}
	if strings.Contains(got, "fill:red") || strings.Contains(got, `width="40"`) {
		t.Errorf("original attributes not replaced: %s", got)
	}
	if !strings.HasPrefix(got, "<svg") {
		t.Errorf("output should start at the svg root: %s", got)
	}
}

func TestTransformNoSVG(t *testing.T) {
	if _, err := Transform(strings.NewReader("<p>not an image</p>")); err != ErrNoSVG {
		t.Fatalf("err = %v, want ErrNoSVG", err)
	}
}

func TestInlineCachesSuccess(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/svg+xml")
		fmt.Fprint(w, sample)
	}))
	defer srv.Close()

	f := New(srv.Client(), nil)
	for i := 0; i < 3; i++ {
		if got := f.Inline(context.Background(), srv.URL+"/cover.svg"); !strings.Contains(got, "<svg") {
			t.Fatalf("Inline() = %q", got)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("server hit %d times, want 1", hits.Load())
	}
}

func TestInlineFailureIsRemembered(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	log := &recordingLogger{}
	f := New(srv.Client(), log)
	now := time.Now()
	f.now = func() time.Time { return now }

	url := srv.URL + "/missing.svg"
	for i := 0; i < 3; i++ {
		if got := f.Inline(context.Background(), url); got != "" {
			t.Fatalf("Inline() #%d = %q, want empty", i+1, got)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("server hit %d times within the failure window, want 1", hits.Load())
	}
	if log.n.Load() != 1 {
		t.Fatalf("logged %d errors, want 1", log.n.Load())
	}

	now = now.Add(FailureTTL + time.Second)
	f.Inline(context.Background(), url)
	if hits.Load() != 2 {
		t.Fatalf("expected a retry after the failure window, hits = %d", hits.Load())
	}
}

func TestInlineHangingHostBlocksOnce(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := srv.Client()
	client.Timeout = 100 * time.Millisecond
	f := New(client, nil)

	url := srv.URL + "/slow.svg"
	if got := f.Inline(context.Background(), url); got != "" {
		t.Fatalf("Inline() = %q, want empty", got)
	}
	start := time.Now()
	if got := f.Inline(context.Background(), url); got != "" {
		t.Fatalf("second Inline() = %q, want empty", got)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("second call took %s, want an immediate answer", elapsed)
	}
	if hits.Load() != 1 {
		t.Errorf("upstream hit %d times, want 1", hits.Load())
	}
}

func TestIsSVG(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"/covers/a.svg", true},
		{"https://cdn.example.com/A.SVG?v=2", true},
		{"/covers/a.png", false},
		{"/covers/svg", false},
	}
	for _, tt := range tests {
		if got := IsSVG(tt.src); got != tt.want {
			t.Errorf("IsSVG(%q) = %v", tt.src, got)
		}
	}
}
