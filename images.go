package sitemaps

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
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 82
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// pageImage is an uploaded image ready to be written under the uploads
// directory.
type pageImage struct {
	Filename string
	Width    int
	Height   int
	Data     []byte
}

// processImage decodes an image from src, shrinks it to maxImageWidth if
// needed, and re-encodes it as JPEG.
func processImage(src io.Reader, originalName string) (pageImage, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return pageImage{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = maxImageWidth, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return pageImage{}, fmt.Errorf("encode jpeg: %w", err)
	}

	name := Slugify(strings.TrimSuffix(originalName, filepath.Ext(originalName)))
	if name == "" {
		name = "image"
	}
	return pageImage{Filename: name + ".jpg", Width: w, Height: h, Data: buf.Bytes()}, nil
}

// uniqueFilename appends a counter until name does not exist in dir.
func uniqueFilename(dir, name string) string {
	base := strings.TrimSuffix(name, ".jpg")
	candidate := name
	for i := 2; ; i++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, i)
	}
}

// handleImageUpload stores an uploaded image and attaches it to a page,
// so it is listed in that page's image sitemap entry.
func (a *App) handleImageUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := pageID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := a.Store.GetPage(ctx, id); err != nil {
		return storeError(err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, err := processImage(src, file.Filename)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	img.Filename = uniqueFilename(dir, img.Filename)
	if err := os.WriteFile(filepath.Join(dir, img.Filename), img.Data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	link := path.Join("/public", uploadsSubdir, img.Filename)
	if err := a.Store.AddImage(ctx, id, link); err != nil {
		return storeError(err)
	}
	a.logger("admin").WithField("page", id).WithField("image", link).Info("image attached")
	a.Pinger.Notify()
	return a.renderAdminDashboard(c, "image added")
}
