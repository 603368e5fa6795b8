package folio

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestResizeCover(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"wide is scaled", 1200, 600, 600, 300},
		{"narrow is kept", 300, 200, 300, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := resizeCover(encodePNG(t, tt.w, tt.h))
			if err != nil {
				t.Fatalf("resizeCover: %v", err)
			}
			cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("output is not a jpeg: %v", err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResizeCoverRejectsGarbage(t *testing.T) {
	if _, err := resizeCover(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected a decode error")
	}
}

func TestThumbName(t *testing.T) {
	if got := thumbName("hello.png"); got != "hello.jpg" {
		t.Errorf("thumbName = %q", got)
	}
}
