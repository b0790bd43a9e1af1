package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// CompressToJPEG は画像データ（PNG, GIF, BMP, WebP, JPEG）をJPEG形式に圧縮します。
// JPEG はアルファを持たないため、透過部分は白背景に合成してからエンコードします。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	src, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, flattenOnWhite(src), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("JPEGエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

func flattenOnWhite(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}
