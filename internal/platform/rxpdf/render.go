package rxpdf

import (
	"bytes"
	"io"
)

// Renderer draws primitives, in order, onto one page and encodes the result.
type Renderer interface {
	Render(w io.Writer, prims []Primitive) error
	ContentType() string
}

// RenderBytes is a convenience wrapper around Renderer.Render.
func RenderBytes(r Renderer, prims []Primitive) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, prims); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
