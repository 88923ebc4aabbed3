package state

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"time"
)

// Point is a canvas-local coordinate. Points outside the canvas are kept as-is.
type Point struct{ X, Y float64 }

// Color is a "#RRGGBB" hex colour.
type Color string

// DefaultPalette is the set of brush colours offered by the toolbar.
var DefaultPalette = []Color{"#000000", "#FF0000", "#00FF00", "#0000FF", "#FFFF00", "#FF00FF"}

// DefaultSizes are the brush widths offered by the toolbar.
var DefaultSizes = []float64{2, 5, 10, 15, 20}

const (
	DefaultColor Color   = "#000000"
	DefaultWidth float64 = 5
)

var ErrInvalidWidth = errors.New("brush width must be a positive number")

// ParseColor validates s and returns it normalised to upper case.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] != '#' {
		return "", fmt.Errorf("invalid colour %q: want #RRGGBB", s)
	}
	if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
		return "", fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Color(strings.ToUpper(s)), nil
}

// NRGBA converts c to an opaque colour. Invalid values render black.
func (c Color) NRGBA() color.NRGBA {
	v, err := strconv.ParseUint(strings.TrimPrefix(string(c), "#"), 16, 32)
	if err != nil || len(c) != 7 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// ValidWidth reports whether w can be used as a brush width.
func ValidWidth(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

// Stroke is a committed freehand drawing action. Strokes are values: once
// appended to a canvas they are never modified.
type Stroke struct {
	ID        string
	Path      Path
	Color     Color
	Width     float64
	CreatedAt time.Time
}

// Mode is the active tool.
type Mode int

const (
	ModeDraw Mode = iota
	ModeErase
)

func (m Mode) String() string {
	if m == ModeErase {
		return "erase"
	}
	return "draw"
}
