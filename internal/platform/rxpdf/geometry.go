// Package rxpdf lays out a printable prescription on a single A4 page and
// renders it. Layout is a pure function from a Document to an ordered list
// of draw primitives in points, origin bottom-left. Renderers consume that
// list and never make placement decisions of their own.
package rxpdf

// PointsPerMM converts millimetres to PDF points.
const PointsPerMM = 72.0 / 25.4

func mm(v float64) float64 { return v * PointsPerMM }

// A4 page size in points.
var (
	PageWidth  = mm(210)
	PageHeight = mm(297)
)

// fromTop converts a distance from the top edge into a y coordinate.
func fromTop(v float64) float64 { return PageHeight - mm(v) }

var (
	marginLeft = mm(20)

	// Header baselines, measured from the top edge.
	headerLines = [...]float64{20, 27, 33, 40, 46}

	patientTop = fromTop(60)
	lineStep   = mm(6)
	sectionGap = mm(10)
	obsBodyGap = mm(6)

	signatureX = PageWidth - mm(70)
	signatureY = fromTop(50)
	signatureW = mm(45)
	signatureH = mm(15)

	footerLabelY   = mm(15)
	footerRuleY    = mm(13)
	footerRuleFrom = mm(60)
	footerRuleTo   = mm(140)
	footerCaptionX = PageWidth - mm(20)
)

// Font sizes in points.
const (
	headerTitleSize = 14
	headerSize      = 10
	titleSize       = 13
	bodySize        = 11
	footerSize      = 10
)

// LineHeight is the natural line spacing for a font size.
func LineHeight(size float64) float64 { return size * 1.2 }

// Placeholder stands in for a missing value or an empty text block.
const Placeholder = "-"

const (
	titleText        = "Prescription"
	observationLabel = "Observations:"
	footerLabel      = "Physician's Signature:"
	footerCaption    = "Stamp and Signature"
)
