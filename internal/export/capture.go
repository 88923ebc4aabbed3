package export

import (
	"bytes"
	"fmt"
	"log"

	"github.com/gogpu/gg"

	"smART/internal/backdrop"
	"smART/internal/fault"
	"smART/internal/state"
)

// Capture renders the backdrop and committed strokes of frame onto white
// paper of w x h pixels and encodes the result as PNG. The live stroke is
// not part of the picture.
func Capture(frame state.Frame, w, h int) (Artifact, error) {
	if w <= 0 || h <= 0 {
		return Artifact{}, fault.New(fault.KindCaptureFailed, "capture", fmt.Errorf("invalid size %dx%d", w, h))
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(gg.White)

	if frame.Backdrop != nil {
		b := frame.Backdrop.Bounds()
		crop := backdrop.CoverRect(b, w, h).Sub(b.Min)
		dc.DrawImageEx(gg.ImageBufFromImage(frame.Backdrop), gg.DrawImageOptions{
			DstWidth:      float64(w),
			DstHeight:     float64(h),
			SrcRect:       &crop,
			Interpolation: gg.InterpBilinear,
			Opacity:       1,
			BlendMode:     gg.BlendNormal,
		})
	}

	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	for _, s := range frame.Strokes {
		if err := drawStroke(dc, s); err != nil {
			return Artifact{}, fault.New(fault.KindCaptureFailed, "capture", fmt.Errorf("stroke %s: %w", s.ID, err))
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return Artifact{}, fault.New(fault.KindCaptureFailed, "capture", err)
	}
	log.Printf("[EXPORT] Captured %dx%d canvas with %d strokes (%d bytes)", w, h, len(frame.Strokes), buf.Len())
	return newArtifact(buf.Bytes(), "image/png", "png", w, h), nil
}

func drawStroke(dc *gg.Context, s state.Stroke) error {
	if len(s.Path) == 0 {
		return nil
	}
	dc.SetHexColor(string(s.Color))
	if len(s.Path) == 1 {
		// a tap: round cap of a zero-length line
		dc.DrawCircle(s.Path[0].X, s.Path[0].Y, s.Width/2)
		return dc.Fill()
	}
	dc.SetLineWidth(s.Width)
	dc.MoveTo(s.Path[0].X, s.Path[0].Y)
	for _, p := range s.Path[1:] {
		dc.LineTo(p.X, p.Y)
	}
	return dc.Stroke()
}
