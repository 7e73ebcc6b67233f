package rxpdf

// Align is the horizontal anchor of a text run.
type Align int

const (
	AlignLeft Align = iota
	// AlignRight places the end of the run at X.
	AlignRight
)

// Font selects weight and size. Renderers map it onto their own faces.
type Font struct {
	Bold bool
	Size float64
}

var (
	headerTitleFont = Font{Bold: true, Size: headerTitleSize}
	headerFont      = Font{Size: headerSize}
	titleFont       = Font{Bold: true, Size: titleSize}
	bodyFont        = Font{Size: bodySize}
	labelFont       = Font{Bold: true, Size: bodySize}
	footerFont      = Font{Size: footerSize}
)

// Primitive is one draw instruction. The concrete types are Text, Line and
// Image.
type Primitive interface {
	primitive()
}

// Text is a single run placed on its baseline.
type Text struct {
	X, Y  float64
	Value string
	Font  Font
	Align Align
}

// Line is a stroked segment.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Image places an encoded image inside a box whose lower-left corner is X, Y.
type Image struct {
	X, Y, W, H float64
	Asset      Signature
}

func (Text) primitive()  {}
func (Line) primitive()  {}
func (Image) primitive() {}
