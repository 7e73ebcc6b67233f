package rxpdf

// Flow emits one left-aligned Text per line on successive baselines starting
// at start, and returns the cursor one line below the last baseline. An
// empty lines slice flows a single Placeholder.
func Flow(start Cursor, x float64, lines []string, font Font) ([]Primitive, Cursor) {
	if len(lines) == 0 {
		lines = []string{Placeholder}
	}
	leading := LineHeight(font.Size)

	out := make([]Primitive, 0, len(lines))
	cur := start
	for _, l := range lines {
		out = append(out, Text{X: x, Y: cur.Y, Value: l, Font: font})
		cur = cur.Down(leading)
	}
	return out, cur
}
