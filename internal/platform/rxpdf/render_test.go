package rxpdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/assets"
)

func signaturePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 90, 30))
	for x := 0; x < 90; x++ {
		img.Set(x, 15, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPDFRenderer_Render(t *testing.T) {
	r := NewPDFRenderer(zerolog.Nop())
	sig, err := DecodeSignature("signature.png", signaturePNG(t))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	out, err := RenderBytes(r, Layout(sampleDocument(), sig, true))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", out[:8])
	}
	if r.ContentType() != "application/pdf" {
		t.Errorf("unexpected content type %q", r.ContentType())
	}
}

// utf16BE is how fpdf writes a run set in an embedded UTF-8 font.
func utf16BE(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func TestPDFRenderer_KeepsNonLatinText(t *testing.T) {
	r := NewPDFRenderer(zerolog.Nop())
	r.compress = false

	doc := sampleDocument()
	doc.PatientName = "Łukasz Żółć 李雷"
	out, err := RenderBytes(r, Layout(doc, Signature{}, false))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"Łukasz Żółć 李雷", "5555-0100 \u2014 Recife", "Clínica São Lucas"} {
		if !bytes.Contains(out, utf16BE(want)) {
			t.Errorf("text %q not found in the page content", want)
		}
	}
	if !bytes.Contains(out, []byte("/Encoding /Identity-H")) {
		t.Error("expected an embedded Unicode font")
	}
}

func TestPDFRenderer_SwallowsBadImage(t *testing.T) {
	r := NewPDFRenderer(zerolog.Nop())
	prims := Layout(sampleDocument(), Signature{Name: "broken.png", Format: "png", Data: []byte("not an image")}, true)

	out, err := RenderBytes(r, prims)
	if err != nil {
		t.Fatalf("a broken image must not fail the page: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("expected a PDF")
	}
}

func TestPDFRenderer_SameInputSameBytes(t *testing.T) {
	r := NewPDFRenderer(zerolog.Nop())
	fixed := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	prims := Layout(sampleDocument(), Signature{}, false)
	a, err := RenderBytes(r, prims)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderBytes(r, prims)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("expected identical output for identical input")
	}
}

func TestPNGRenderer_Render(t *testing.T) {
	r, err := NewPNGRenderer(1, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPNGRenderer: %v", err)
	}
	sig, _ := DecodeSignature("signature.png", signaturePNG(t))

	out, err := RenderBytes(r, Layout(sampleDocument(), sig, true))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatal("output is not a PNG")
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	w, h := r.Size()
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Errorf("expected %dx%d, got %v", w, h, img.Bounds())
	}
}

func TestPNGRenderer_DefaultScale(t *testing.T) {
	r, err := NewPNGRenderer(0, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	w, h := r.Size()
	if w != 893 || h != 1263 {
		t.Errorf("expected 893x1263 at the default scale, got %dx%d", w, h)
	}
}

func TestDecodeSignature(t *testing.T) {
	if _, err := DecodeSignature("a.png", signaturePNG(t)); err != nil {
		t.Errorf("expected valid png, got %v", err)
	}
	if _, err := DecodeSignature("a.gif", []byte("GIF89a")); err == nil {
		t.Error("expected error for non png/jpeg data")
	}
}

func TestLoadSignature(t *testing.T) {
	ctx := context.Background()
	store := assets.NewMemoryStore()

	if _, ok := LoadSignature(ctx, store, "signature.png", zerolog.Nop()); ok {
		t.Error("expected skip when the asset is missing")
	}
	if _, ok := LoadSignature(ctx, nil, "signature.png", zerolog.Nop()); ok {
		t.Error("expected skip without a store")
	}

	if _, err := store.Put(ctx, "signature.png", bytes.NewReader(signaturePNG(t))); err != nil {
		t.Fatalf("put: %v", err)
	}
	sig, ok := LoadSignature(ctx, store, "signature.png", zerolog.Nop())
	if !ok {
		t.Fatal("expected signature to load")
	}
	if sig.Format != "png" || sig.Name != "signature.png" {
		t.Errorf("unexpected signature %+v", sig)
	}
}

func TestLoadSignature_CorruptAssetIsSkipped(t *testing.T) {
	ctx := context.Background()
	store := assets.NewMemoryStore()
	// A PNG header followed by garbage passes content sniffing but not decoding.
	store.PutRaw("signature.png", append([]byte("\x89PNG\r\n\x1a\n"), strings.Repeat("x", 32)...))

	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	if _, ok := LoadSignature(ctx, store, "signature.png", logger); ok {
		t.Fatal("expected corrupt asset to be skipped")
	}
	if !strings.Contains(logs.String(), "skipping") {
		t.Errorf("expected a log line, got %q", logs.String())
	}
}
