package generator

import (
	"context"

	"github.com/shouni/gemini-image-editor/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// GenerativeModel は Gemini へのマルチパートリクエストを送信するためのインターフェースです。
type GenerativeModel interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// ImageEditor はオーケストレーション層が利用する画像編集の窓口です。
type ImageEditor interface {
	// RequestEdit は画像と編集指示を送信し、編集結果を返します。
	// 画像が返らなかった場合はエラーではなく Rejected を返します。
	RequestEdit(ctx context.Context, img domain.Image, prompt string) (*domain.EditOutcome, error)
}
