package generator

import (
	"errors"
	"fmt"
)

const (
	DefaultModel              = "gemini-2.5-flash-image-preview"
	DefaultMaxInlineBytes     = 15 << 20
	DefaultCompressionQuality = 85

	// DefaultRejectionMessage はサービスが画像も理由も返さなかった場合のメッセージです。
	DefaultRejectionMessage = "Failed to generate image. Please try a different prompt."
)

var (
	// ErrInvalidImage は送信前の画像が空、または画像として扱えない場合に返されます。
	ErrInvalidImage = errors.New("invalid image")
	// ErrEmptyPrompt は編集指示が空の場合に返されます。
	ErrEmptyPrompt = errors.New("empty prompt")
)

// ServiceError は通信失敗・タイムアウト・不正な応答など、リモート側の失敗を表します。
// サービスが画像を返さなかっただけの場合は ServiceError ではなく Rejected になります。
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("edit service failure: %v", e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Options は GeminiEditor の動作設定です。ゼロ値の項目は既定値で補われます。
type Options struct {
	Model              string
	SystemPrompt       string
	MaxInlineBytes     int
	CompressionQuality int

	// AspectRatio は "16:9" のような出力画像の縦横比です。空なら入力に任せます。
	AspectRatio string
	// Seed が nil でなければ同じ指示で再現性のある結果を要求します。
	Seed        *int64
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.MaxInlineBytes <= 0 {
		o.MaxInlineBytes = DefaultMaxInlineBytes
	}
	if o.CompressionQuality <= 0 || o.CompressionQuality > 100 {
		o.CompressionQuality = DefaultCompressionQuality
	}
	return o
}

// editOutput は応答の解析結果なのだ。
type editOutput struct {
	Text     string
	Data     []byte
	MimeType string
}
