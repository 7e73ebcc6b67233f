package rxpdf

// Cursor is the vertical position below which the next element goes.
// Section functions take a Cursor and return the one after their output.
type Cursor struct {
	Y float64
}

// At returns a cursor at y.
func At(y float64) Cursor { return Cursor{Y: y} }

// Down moves the cursor d points towards the bottom of the page.
func (c Cursor) Down(d float64) Cursor { return Cursor{Y: c.Y - d} }
