package domain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultBrightness = 100
	DefaultContrast   = 100
	DefaultOpacity    = 50

	MaxFilterPercent = 200
	MaxOpacity       = 100
)

var (
	// ErrOutOfRange は調整パラメータが許容範囲外の場合に返されます。
	ErrOutOfRange = errors.New("value out of range")
	// ErrUnknownTexture は定義されていないテクスチャ名が指定された場合に返されます。
	ErrUnknownTexture = errors.New("unknown texture")
	// ErrUnknownBlendMode は定義されていないブレンドモードが指定された場合に返されます。
	ErrUnknownBlendMode = errors.New("unknown blend mode")
)

// Adjustments は明るさとコントラストのパーセンテージです。100 が無変換を表します。
type Adjustments struct {
	Brightness int
	Contrast   int
}

// DefaultAdjustments は初期値 (100%, 100%) を返します。
func DefaultAdjustments() Adjustments {
	return Adjustments{Brightness: DefaultBrightness, Contrast: DefaultContrast}
}

// IsIdentity は画素を変化させない設定かどうかを返します。
func (a Adjustments) IsIdentity() bool {
	return a.Brightness == DefaultBrightness && a.Contrast == DefaultContrast
}

// Validate は各値が 0〜200 の範囲にあるか検証します。
func (a Adjustments) Validate() error {
	if err := checkRange("brightness", a.Brightness, MaxFilterPercent); err != nil {
		return err
	}
	return checkRange("contrast", a.Contrast, MaxFilterPercent)
}

// Texture は同梱されたオーバーレイ画像の識別子です。
type Texture int

const (
	TextureDusty Texture = iota + 1
	TexturePaper
	TextureCanvas
)

var textureNames = map[Texture]string{
	TextureDusty:  "Dusty",
	TexturePaper:  "Paper",
	TextureCanvas: "Canvas",
}

// Textures は選択可能なテクスチャを表示順で返します。
func Textures() []Texture {
	return []Texture{TextureDusty, TexturePaper, TextureCanvas}
}

func (t Texture) String() string {
	if name, ok := textureNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Texture(%d)", int(t))
}

// ParseTexture は名前 (大文字小文字を区別しない) から Texture を取得します。
func ParseTexture(name string) (Texture, error) {
	for t, n := range textureNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTexture, name)
}

// BlendMode はオーバーレイを合成する際の画素の結合方法です。
type BlendMode int

const (
	BlendOverlay BlendMode = iota
	BlendMultiply
	BlendScreen
)

var blendModeNames = map[BlendMode]string{
	BlendOverlay:  "overlay",
	BlendMultiply: "multiply",
	BlendScreen:   "screen",
}

// BlendModes は選択可能なブレンドモードを返します。
func BlendModes() []BlendMode {
	return []BlendMode{BlendOverlay, BlendMultiply, BlendScreen}
}

func (m BlendMode) String() string {
	if name, ok := blendModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("BlendMode(%d)", int(m))
}

// ParseBlendMode は名前から BlendMode を取得します。
func ParseBlendMode(name string) (BlendMode, error) {
	for m, n := range blendModeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBlendMode, name)
}

// TextureOverlay はベース画像の上にタイル状に敷き詰めるテクスチャレイヤーです。
// nil の *TextureOverlay はオーバーレイなしを意味します。
type TextureOverlay struct {
	Texture   Texture
	Opacity   int // 0〜100
	BlendMode BlendMode
}

// NewTextureOverlay は既定の不透明度とブレンドモードでオーバーレイを生成します。
func NewTextureOverlay(t Texture) *TextureOverlay {
	return &TextureOverlay{
		Texture:   t,
		Opacity:   DefaultOpacity,
		BlendMode: BlendOverlay,
	}
}

// Validate は不透明度とブレンドモードを検証します。
// テクスチャ名そのものは合成時に解決されるためここでは検証しません。
func (o TextureOverlay) Validate() error {
	if err := checkRange("opacity", o.Opacity, MaxOpacity); err != nil {
		return err
	}
	if _, ok := blendModeNames[o.BlendMode]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBlendMode, int(o.BlendMode))
	}
	return nil
}

// Alpha は不透明度 0〜100 を 0.0〜1.0 に変換します。
func (o TextureOverlay) Alpha() float64 {
	return float64(o.Opacity) / MaxOpacity
}

func checkRange(field string, v, limit int) error {
	if v < 0 || v > limit {
		return fmt.Errorf("%w: %s must be between 0 and %d, got %d", ErrOutOfRange, field, limit, v)
	}
	return nil
}
