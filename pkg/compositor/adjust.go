package compositor

import (
	"image"
	"math"

	"github.com/shouni/gemini-image-editor/pkg/domain"
)

// adjustmentLUT は CSS の brightness() → contrast() フィルタ順で 8bit 値の変換表を作るのだ。
func adjustmentLUT(adj domain.Adjustments) [256]uint8 {
	b := float64(adj.Brightness) / 100
	c := float64(adj.Contrast) / 100

	var lut [256]uint8
	for i := range lut {
		v := clamp01(float64(i) / 255 * b)
		v = clamp01((v-0.5)*c + 0.5)
		lut[i] = uint8(math.Round(v * 255))
	}
	return lut
}

// applyAdjustments は RGB チャネルを変換表で置き換えます。アルファはそのまま。
func applyAdjustments(img *image.NRGBA, adj domain.Adjustments) {
	lut := adjustmentLUT(adj)
	for y := 0; y < img.Rect.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+img.Rect.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			row[i] = lut[row[i]]
			row[i+1] = lut[row[i+1]]
			row[i+2] = lut[row[i+2]]
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
