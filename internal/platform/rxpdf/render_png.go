package rxpdf

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultPreviewScale renders A4 at 108 DPI.
const DefaultPreviewScale = 1.5

// PNGRenderer rasterises a page for on-screen previews using the Go fonts.
type PNGRenderer struct {
	logger  zerolog.Logger
	scale   float64
	regular *truetype.Font
	bold    *truetype.Font
}

// NewPNGRenderer parses the embedded fonts. scale is pixels per point.
func NewPNGRenderer(scale float64, logger zerolog.Logger) (*PNGRenderer, error) {
	if scale <= 0 {
		scale = DefaultPreviewScale
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &PNGRenderer{logger: logger, scale: scale, regular: regular, bold: bold}, nil
}

func (r *PNGRenderer) ContentType() string { return "image/png" }

// Size returns the image dimensions in pixels.
func (r *PNGRenderer) Size() (int, int) {
	return int(math.Round(PageWidth * r.scale)), int(math.Round(PageHeight * r.scale))
}

func (r *PNGRenderer) Render(w io.Writer, prims []Primitive) error {
	width, height := r.Size()
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	faces := make(map[Font]font.Face)
	defer func() {
		for _, f := range faces {
			f.Close()
		}
	}()

	for _, p := range prims {
		switch p := p.(type) {
		case Text:
			face, ok := faces[p.Font]
			if !ok {
				face = r.face(p.Font)
				faces[p.Font] = face
			}
			dc.SetFontFace(face)
			ax := 0.0
			if p.Align == AlignRight {
				ax = 1
			}
			x, y := r.point(p.X, p.Y)
			dc.DrawStringAnchored(p.Value, x, y, ax, 0)
		case Line:
			x1, y1 := r.point(p.X1, p.Y1)
			x2, y2 := r.point(p.X2, p.Y2)
			dc.SetLineWidth(0.5 * r.scale)
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		case Image:
			r.drawImage(dc, p)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *PNGRenderer) face(f Font) font.Face {
	tt := r.regular
	if f.Bold {
		tt = r.bold
	}
	return truetype.NewFace(tt, &truetype.Options{Size: f.Size * r.scale, DPI: 72, Hinting: font.HintingFull})
}

// point maps page coordinates to pixels with the origin at the top-left.
func (r *PNGRenderer) point(x, y float64) (float64, float64) {
	return x * r.scale, (PageHeight - y) * r.scale
}

func (r *PNGRenderer) drawImage(dc *gg.Context, img Image) {
	src, _, err := image.Decode(bytes.NewReader(img.Asset.Data))
	if err != nil {
		r.logger.Warn().Err(err).Str("asset", img.Asset.Name).Msg("could not draw image, skipping")
		return
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	x, y := r.point(img.X, img.Y+img.H)

	dc.Push()
	dc.Translate(x, y)
	dc.Scale(img.W*r.scale/float64(b.Dx()), img.H*r.scale/float64(b.Dy()))
	dc.DrawImage(src, -b.Min.X, -b.Min.Y)
	dc.Pop()
}
