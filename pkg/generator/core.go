package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/gemini-image-editor/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// GeminiEditor は平坦化済みの画像と自然言語の指示を Gemini に送り、編集後の画像を受け取ります。
type GeminiEditor struct {
	aiClient GenerativeModel
	opts     Options
}

// NewGeminiEditor は依存関係を注入して GeminiEditor を初期化します。
func NewGeminiEditor(aiClient GenerativeModel, opts Options) (*GeminiEditor, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (GenerativeModel) is required")
	}
	return &GeminiEditor{
		aiClient: aiClient,
		opts:     opts.withDefaults(),
	}, nil
}

// Model は使用するモデル名を返します。
func (e *GeminiEditor) Model() string {
	return e.opts.Model
}

// RequestEdit は 1 回の編集リクエストを行うのだ。
func (e *GeminiEditor) RequestEdit(ctx context.Context, img domain.Image, prompt string) (*domain.EditOutcome, error) {
	data, mimeType, err := e.prepareImage(ctx, img)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(prompt),
	}

	slog.InfoContext(ctx, "Gemini画像編集リクエスト送信",
		"model", e.opts.Model,
		"mime_type", mimeType,
		"bytes", len(data),
	)
	start := time.Now()

	resp, err := e.aiClient.GenerateWithParts(ctx, e.opts.Model, parts, gemini.GenerateOptions{
		SystemPrompt: e.opts.SystemPrompt,
		AspectRatio:  e.opts.AspectRatio,
		Seed:         e.opts.Seed,
	})
	if err != nil {
		return nil, &ServiceError{Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ServiceError{Err: err}
	}

	out, err := e.parseToOutput(resp)
	if err != nil {
		return nil, &ServiceError{Err: err}
	}

	// 空白だけのテキストは無いものとして扱う。それ以外は加工せずに返す
	text := out.Text
	if strings.TrimSpace(text) == "" {
		text = ""
	}

	if len(out.Data) == 0 {
		msg := text
		if msg == "" {
			msg = rejectionReason(resp.RawResponse)
		}
		if msg == "" {
			msg = DefaultRejectionMessage
		}
		slog.WarnContext(ctx, "Geminiが画像を返しませんでした", "model", e.opts.Model, "message", msg, "duration", time.Since(start))
		return domain.Rejected(msg), nil
	}

	slog.InfoContext(ctx, "Gemini画像編集完了",
		"model", e.opts.Model,
		"mime_type", out.MimeType,
		"bytes", len(out.Data),
		"duration", time.Since(start),
	)
	return domain.Applied(domain.Image{Data: out.Data, MimeType: out.MimeType}, text), nil
}
