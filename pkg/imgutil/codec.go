package imgutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"strings"

	"github.com/shouni/gemini-image-editor/pkg/domain"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeGIF  = "image/gif"
	MimeBMP  = "image/bmp"
	MimeWebP = "image/webp"

	// DefaultJPEGQuality は合成結果を JPEG で書き戻す際の品質です。
	DefaultJPEGQuality = 92

	// MaxPixels はデコードを許可する画素数 (幅 x 高さ) の上限です。
	// NRGBA に展開すると 1 画素 4 バイトになるため、64M 画素で 256MiB を占めます。
	MaxPixels = 64 << 20
)

var (
	// ErrNotImage は画像として扱えないデータが渡された場合に返されます。
	ErrNotImage = errors.New("not an image")
	// ErrImageTooLarge はヘッダーの寸法が MaxPixels を超える場合に返されます。
	ErrImageTooLarge = errors.New("image too large")
)

// DetectMimeType はバイト列の先頭から MIME タイプを判定します。
func DetectMimeType(data []byte) string {
	mimeType := http.DetectContentType(data)
	// "image/png; charset=..." のようなパラメータは付かないが念のため除去する
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return mimeType
}

// IsImageMimeType は MIME タイプが image/* かどうかを返します。
func IsImageMimeType(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// Decode は PNG, JPEG, GIF, BMP, WebP をデコードします。
// ピクセルを展開する前にヘッダーの寸法を確認し、MaxPixels を超える画像は ErrImageTooLarge で拒否します。
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty payload", ErrNotImage)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("画像ヘッダーの読み込みに失敗しました: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, MaxPixels)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}
	return img, format, nil
}

// ToNRGBA は原点 (0,0) から始まる *image.NRGBA のコピーを返します。
// 入力画像は変更しません。
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()*4], n.Pix[n.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return dst
	}
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Encode は指定の MIME タイプで画像をエンコードし、実際に使用した MIME タイプを返します。
// エンコーダを持たない形式 (WebP など) は PNG にフォールバックします。
func Encode(img image.Image, mimeType string) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	var err error

	switch mimeType {
	case MimeJPEG:
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: DefaultJPEGQuality})
	case MimeGIF:
		err = gif.Encode(buf, img, nil)
	case MimeBMP:
		err = bmp.Encode(buf, img)
	default:
		mimeType = MimePNG
		err = png.Encode(buf, img)
	}
	if err != nil {
		return nil, "", fmt.Errorf("画像のエンコードに失敗しました (%s): %w", mimeType, err)
	}
	return buf.Bytes(), mimeType, nil
}

// ReadImageFile はローカルファイルを読み込み domain.Image に変換します。
// 画像以外のファイルは ErrNotImage で拒否します。
func ReadImageFile(path string) (domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Image{}, fmt.Errorf("画像ファイルの読み込みに失敗しました: %w", err)
	}
	return FromBytes(data)
}

// FromBytes はバイト列の MIME タイプを判定し、画像であれば domain.Image を返します。
func FromBytes(data []byte) (domain.Image, error) {
	mimeType := DetectMimeType(data)
	if !IsImageMimeType(mimeType) {
		return domain.Image{}, fmt.Errorf("%w: detected %s", ErrNotImage, mimeType)
	}
	return domain.Image{Data: data, MimeType: mimeType}, nil
}

// ReadImage は data URL またはローカルファイルのパスから画像を読み込みます。
func ReadImage(ref string) (domain.Image, error) {
	if !strings.HasPrefix(ref, "data:") {
		return ReadImageFile(ref)
	}
	img, err := domain.ParseDataURL(ref)
	if err != nil {
		return domain.Image{}, err
	}
	if !IsImageMimeType(img.MimeType) {
		return domain.Image{}, fmt.Errorf("%w: data URL declares %q", ErrNotImage, img.MimeType)
	}
	return img, nil
}
