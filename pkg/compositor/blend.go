package compositor

import (
	"image"
	"math"

	"github.com/shouni/gemini-image-editor/pkg/domain"
)

// blendChannel は backdrop(d) と source(s) を指定のモードで結合します。
func blendChannel(mode domain.BlendMode, s, d uint8) uint8 {
	si, di := int(s), int(d)
	switch mode {
	case domain.BlendMultiply:
		return uint8(si * di / 255)
	case domain.BlendScreen:
		return uint8(255 - (255-si)*(255-di)/255)
	default: // overlay
		if di < 128 {
			return uint8(2 * si * di / 255)
		}
		return uint8(255 - 2*(255-si)*(255-di)/255)
	}
}

// blendTiled は tex を (0,0) 起点で dst 全面に敷き詰めて合成するのだ。
// 合成パラメータは引数でのみ受け取り、呼び出し間で状態を持ちません。
func blendTiled(dst, tex *image.NRGBA, mode domain.BlendMode, alpha float64) {
	tw, th := tex.Rect.Dx(), tex.Rect.Dy()
	if tw == 0 || th == 0 || alpha <= 0 {
		return
	}

	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := tex.PixOffset(tex.Rect.Min.X+x%tw, tex.Rect.Min.Y+y%th)
			di := dst.PixOffset(dst.Rect.Min.X+x, dst.Rect.Min.Y+y)
			blendPixel(dst.Pix[di:di+4:di+4], tex.Pix[si:si+4:si+4], mode, alpha)
		}
	}
}

// blendPixel はストレートアルファの source-over で 1 画素を書き込みます。
func blendPixel(d, s []uint8, mode domain.BlendMode, alpha float64) {
	sa := float64(s[3]) / 255 * alpha
	if sa == 0 {
		return
	}
	da := float64(d[3]) / 255
	outA := sa + da*(1-sa)

	for ch := 0; ch < 3; ch++ {
		blended := float64(blendChannel(mode, s[ch], d[ch]))
		// backdrop が透明な部分では source の色をそのまま使う
		src := (1-da)*float64(s[ch]) + da*blended
		premul := sa*src + da*(1-sa)*float64(d[ch])
		d[ch] = uint8(math.Round(premul / outA))
	}
	d[3] = uint8(math.Round(outA * 255))
}
