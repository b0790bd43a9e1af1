package editor

import (
	"context"

	"github.com/shouni/gemini-image-editor/pkg/domain"
)

// Flattener はセッションのレイヤーを 1 枚の画像に合成します。
type Flattener interface {
	Flatten(ctx context.Context, base domain.Image, adj domain.Adjustments, overlay *domain.TextureOverlay) (domain.Image, error)
}
