package backdrop

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smART/internal/fault"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeKeepsSmallImages(t *testing.T) {
	img, err := Decode(bytes.NewReader(encodePNG(t, 40, 30)), 100)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
}

func TestDecodeScalesLargeImages(t *testing.T) {
	img, err := Decode(bytes.NewReader(encodePNG(t, 200, 100)), 50)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 50, 25), img.Bounds())

	img, err = Decode(bytes.NewReader(encodePNG(t, 60, 240)), 120)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 120), img.Bounds())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")), 100)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 8, 8), 0o644))
	img, err := Open(path, 100)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	_, err = Open(filepath.Join(t.TempDir(), "missing.png"), 100)
	assert.Error(t, err)
}

func TestOpenPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	path := filepath.Join(t.TempDir(), "locked.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 4, 4), 0o000))
	_, err := Open(path, 100)
	assert.ErrorIs(t, err, fault.ErrPermissionDenied)
}

func TestCoverRect(t *testing.T) {
	// wide source into a square: crop the sides
	assert.Equal(t, image.Rect(50, 0, 150, 100), CoverRect(image.Rect(0, 0, 200, 100), 10, 10))
	// tall source into a square: crop top and bottom
	assert.Equal(t, image.Rect(0, 50, 100, 150), CoverRect(image.Rect(0, 0, 100, 200), 10, 10))
	// same aspect: untouched
	assert.Equal(t, image.Rect(0, 0, 90, 160), CoverRect(image.Rect(0, 0, 90, 160), 9, 16))
}

func TestCover(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 100))
	out := Cover(src, 30, 40)
	assert.Equal(t, image.Rect(0, 0, 30, 40), out.Bounds())
}

func TestDecodeRejectsHugeImages(t *testing.T) {
	// a valid PNG header announcing 20000x20000 pixels, with no pixel data
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	ihdr := []byte("IHDR")
	ihdr = binary.BigEndian.AppendUint32(ihdr, 20000)
	ihdr = binary.BigEndian.AppendUint32(ihdr, 20000)
	ihdr = append(ihdr, 8, 2, 0, 0, 0)
	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)-4))
	buf.Write(ihdr)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(ihdr))

	_, err := Decode(&buf, 100)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDecodeAfterHeaderCheck(t *testing.T) {
	img, err := Decode(bytes.NewReader(encodePNG(t, 30, 20)), 0)
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())
	r, g, _, _ := img.At(29, 19).RGBA()
	assert.Equal(t, uint32(29), r>>8)
	assert.Equal(t, uint32(19), g>>8)
}
