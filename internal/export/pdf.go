package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"

	"smART/internal/backdrop"
	"smART/internal/fault"
	"smART/internal/state"
)

// WritePDF writes frame as a single-page vector PDF. One canvas pixel maps
// to one point, so the page has the canvas' proportions.
func WritePDF(w io.Writer, frame state.Frame, width, height int) error {
	if width <= 0 || height <= 0 {
		return fault.New(fault.KindExportFailed, "export pdf", fmt.Errorf("invalid size %dx%d", width, height))
	}

	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	if frame.Backdrop != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, backdrop.Cover(frame.Backdrop, width, height)); err != nil {
			return fault.New(fault.KindExportFailed, "export pdf", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		p.RegisterImageOptionsReader("backdrop", opts, &buf)
		p.ImageOptions("backdrop", 0, 0, float64(width), float64(height), false, opts, 0, "")
	}

	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	for _, st := range frame.Strokes {
		if len(st.Path) == 0 {
			continue
		}
		c := st.Color.NRGBA()
		if len(st.Path) == 1 {
			p.SetFillColor(int(c.R), int(c.G), int(c.B))
			p.Circle(st.Path[0].X, st.Path[0].Y, st.Width/2, "F")
			continue
		}
		p.SetDrawColor(int(c.R), int(c.G), int(c.B))
		p.SetLineWidth(st.Width)
		p.MoveTo(st.Path[0].X, st.Path[0].Y)
		for _, pt := range st.Path[1:] {
			p.LineTo(pt.X, pt.Y)
		}
		p.DrawPath("D")
	}

	if err := p.Output(w); err != nil {
		return fault.New(fault.KindExportFailed, "export pdf", err)
	}
	return nil
}
