package folio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	thumbWidth  = 600
	jpegQuality = 80
	coversDir   = "covers"
	thumbsDir   = "thumbs"
)

var thumbMu sync.Mutex

// resizeCover decodes an image from src, scales it down to thumbWidth when
// wider, and encodes it as JPEG.
func resizeCover(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > thumbWidth {
		newH := h * thumbWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, thumbWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// thumbName is the cache file name for a cover.
func thumbName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ".jpg"
}

// handleCover serves a width-limited JPEG of a raster cover under
// <static>/covers, caching the result next to the database.
func (a *App) handleCover(c echo.Context) error {
	file := filepath.Base(filepath.Clean("/" + c.Param("file")))
	if file == "/" || file == "." || !isRaster(file) {
		return echo.ErrNotFound
	}
	src := filepath.Join(a.Config.StaticDir, coversDir, file)
	srcInfo, err := os.Stat(src)
	if err != nil {
		return echo.ErrNotFound
	}

	cacheDir := filepath.Join(filepath.Dir(a.Config.DatabasePath), thumbsDir)
	dst := filepath.Join(cacheDir, thumbName(file))

	thumbMu.Lock()
	defer thumbMu.Unlock()

	if info, err := os.Stat(dst); err == nil && !info.ModTime().Before(srcInfo.ModTime()) {
		return c.File(dst)
	}

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := resizeCover(f)
	if err != nil {
		c.Logger().Errorf("cover %s: %v", file, err)
		return c.File(src)
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return fmt.Errorf("create thumbs dir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		c.Logger().Errorf("cache cover %s: %v", file, err)
	}
	return c.Blob(http.StatusOK, "image/jpeg", data)
}
