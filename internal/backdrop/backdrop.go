// Package backdrop prepares imported photos for use beneath the strokes.
package backdrop

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"smART/internal/fault"
)

// MaxPixels bounds the size of a photo that will be decoded at all.
const MaxPixels = 64 << 20

// ErrTooLarge is returned for images with more than MaxPixels pixels.
var ErrTooLarge = errors.New("background image is too large")

// Decode reads a PNG, JPEG, GIF, BMP or WebP image. Images whose longer side
// exceeds maxDim are scaled down to maxDim, keeping the aspect ratio.
func Decode(r io.Reader, maxDim int) (image.Image, error) {
	// read the header first so oversized images are refused before their
	// pixels are allocated
	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return nil, fmt.Errorf("decoding background image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(io.MultiReader(&header, r))
	if err != nil {
		return nil, fmt.Errorf("decoding background image: %w", err)
	}
	b := img.Bounds()
	log.Printf("[BACKDROP] Decoded %s image %dx%d", format, b.Dx(), b.Dy())
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return img, nil
	}
	return scale(img, maxDim), nil
}

// Open loads the image at path. A refused read is reported as
// fault.KindPermissionDenied.
func Open(path string, maxDim int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.FromIO("import background", err, fault.KindUnknown)
	}
	defer f.Close()
	return Decode(f, maxDim)
}

func scale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w >= h {
		h = max(1, h*maxDim/w)
		w = maxDim
	} else {
		w = max(1, w*maxDim/h)
		h = maxDim
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// CoverRect returns the part of src that, scaled to w x h, fills the whole
// area without distortion. The crop is centred.
func CoverRect(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if w <= 0 || h <= 0 || sw == 0 || sh == 0 {
		return src
	}
	// compare sw/sh with w/h without floating point
	if sw*h > sh*w {
		cw := sh * w / h
		x := src.Min.X + (sw-cw)/2
		return image.Rect(x, src.Min.Y, x+cw, src.Max.Y)
	}
	ch := sw * h / w
	y := src.Min.Y + (sh-ch)/2
	return image.Rect(src.Min.X, y, src.Max.X, y+ch)
}

// Cover crops and scales img to exactly w x h.
func Cover(img image.Image, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, CoverRect(img.Bounds(), w, h), draw.Src, nil)
	return dst
}
