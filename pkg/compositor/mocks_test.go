package compositor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/shouni/gemini-image-editor/pkg/domain"
)

// --- Mocks ---

type mockTextures struct {
	files   map[domain.Texture][]byte
	lookups int
}

func (m *mockTextures) Lookup(t domain.Texture) ([]byte, bool) {
	m.lookups++
	data, ok := m.files[t]
	return data, ok
}

// --- Helpers ---

func solidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func solidPNG(t *testing.T, w, h int, c color.NRGBA) domain.Image {
	t.Helper()
	return domain.Image{Data: encodePNG(t, solidNRGBA(w, h, c)), MimeType: "image/png"}
}

func decodeNRGBA(t *testing.T, img domain.Image) *image.NRGBA {
	t.Helper()
	src, err := png.Decode(bytes.NewReader(img.Data))
	if err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	out := image.NewNRGBA(src.Bounds())
	for y := src.Bounds().Min.Y; y < src.Bounds().Max.Y; y++ {
		for x := src.Bounds().Min.X; x < src.Bounds().Max.X; x++ {
			out.Set(x, y, src.At(x, y))
		}
	}
	return out
}
