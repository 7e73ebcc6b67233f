package rxpdf

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// pdfFamily is the embedded UTF-8 family; the same Go fonts back the PNG
// preview so both outputs print the same glyphs.
const pdfFamily = "go"

// PDFRenderer writes primitives with embedded Go fonts.
type PDFRenderer struct {
	logger   zerolog.Logger
	now      func() time.Time
	compress bool
}

func NewPDFRenderer(logger zerolog.Logger) *PDFRenderer {
	return &PDFRenderer{logger: logger, now: time.Now, compress: true}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Render(w io.Writer, prims []Primitive) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(r.now())
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(r.compress)
	pdf.AddUTF8FontFromBytes(pdfFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFamily, "B", gobold.TTF)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load pdf fonts: %w", err)
	}
	pdf.AddPage()

	for i, p := range prims {
		switch p := p.(type) {
		case Text:
			r.setFont(pdf, p.Font)
			x := p.X
			if p.Align == AlignRight {
				x -= pdf.GetStringWidth(p.Value)
			}
			pdf.Text(x, PageHeight-p.Y, p.Value)
		case Line:
			pdf.SetLineWidth(0.5)
			pdf.Line(p.X1, PageHeight-p.Y1, p.X2, PageHeight-p.Y2)
		case Image:
			r.drawImage(pdf, i, p)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (r *PDFRenderer) setFont(pdf *fpdf.Fpdf, f Font) {
	style := ""
	if f.Bold {
		style = "B"
	}
	pdf.SetFont(pdfFamily, style, f.Size)
}

// drawImage places the image and swallows any failure so the rest of the
// page still renders.
func (r *PDFRenderer) drawImage(pdf *fpdf.Fpdf, i int, img Image) {
	opts := fpdf.ImageOptions{ImageType: imageType(img.Asset.Format)}
	name := fmt.Sprintf("img%d_%s", i, img.Asset.Name)

	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Asset.Data))
	if pdf.Ok() {
		pdf.ImageOptions(name, img.X, PageHeight-img.Y-img.H, img.W, img.H, false, opts, 0, "")
	}
	if err := pdf.Error(); err != nil {
		r.logger.Warn().Err(err).Str("asset", img.Asset.Name).Msg("could not draw image, skipping")
		pdf.ClearError()
	}
}

func imageType(format string) string {
	if format == "jpeg" {
		return "JPG"
	}
	return "PNG"
}
