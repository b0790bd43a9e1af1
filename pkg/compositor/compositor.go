// Package compositor はベース画像・明るさ/コントラスト・テクスチャを 1 枚の画像に平坦化します。
package compositor

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/shouni/gemini-image-editor/pkg/domain"
	"github.com/shouni/gemini-image-editor/pkg/imgutil"
)

// TextureSource はテクスチャ識別子から画像バイト列を取得します。
type TextureSource interface {
	Lookup(t domain.Texture) ([]byte, bool)
}

// Compositor はレイヤー合成を行います。デコード済みテクスチャはインスタンス内で再利用します。
type Compositor struct {
	textures TextureSource

	mu      sync.RWMutex
	decoded map[domain.Texture]*image.NRGBA
}

// New は TextureSource を注入して Compositor を初期化します。
func New(textures TextureSource) (*Compositor, error) {
	if textures == nil {
		return nil, fmt.Errorf("textures (TextureSource) is required")
	}
	return &Compositor{
		textures: textures,
		decoded:  make(map[domain.Texture]*image.NRGBA),
	}, nil
}

// Flatten は base に調整とオーバーレイを適用した新しい画像を返します。
// 入力は変更しません。調整が既定値かつオーバーレイが無い場合は base の複製を返すのだ。
func (c *Compositor) Flatten(ctx context.Context, base domain.Image, adj domain.Adjustments, overlay *domain.TextureOverlay) (domain.Image, error) {
	if err := adj.Validate(); err != nil {
		return domain.Image{}, err
	}
	if overlay != nil {
		if err := overlay.Validate(); err != nil {
			return domain.Image{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return domain.Image{}, err
	}

	start := time.Now()
	if base.IsZero() {
		return domain.Image{}, &CompositeError{Layer: LayerBase, Err: ErrEmptyLayer}
	}
	src, _, err := imgutil.Decode(base.Data)
	if err != nil {
		return domain.Image{}, &CompositeError{Layer: LayerBase, Err: err}
	}

	hasOverlay := overlay != nil && overlay.Opacity > 0
	if adj.IsIdentity() && !hasOverlay {
		return base.Clone(), nil
	}

	surface := imgutil.ToNRGBA(src)
	if !adj.IsIdentity() {
		applyAdjustments(surface, adj)
	}

	if hasOverlay {
		if err := ctx.Err(); err != nil {
			return domain.Image{}, err
		}
		tex, ok, err := c.texture(overlay.Texture)
		if err != nil {
			return domain.Image{}, &CompositeError{Layer: LayerTexture, Err: err}
		}
		if ok {
			blendTiled(surface, tex, overlay.BlendMode, overlay.Alpha())
		} else {
			slog.WarnContext(ctx, "テクスチャのアセットが見つからないため、オーバーレイを省略します", "texture", overlay.Texture.String())
		}
	}

	if err := ctx.Err(); err != nil {
		return domain.Image{}, err
	}
	data, mimeType, err := imgutil.Encode(surface, base.MimeType)
	if err != nil {
		return domain.Image{}, &CompositeError{Layer: LayerOutput, Err: err}
	}

	slog.DebugContext(ctx, "レイヤー合成完了",
		"mime_type", mimeType,
		"bytes", len(data),
		"duration", time.Since(start),
	)
	return domain.Image{Data: data, MimeType: mimeType}, nil
}

// texture はデコード済みテクスチャを返します。アセットが無い場合は ok=false。
func (c *Compositor) texture(t domain.Texture) (*image.NRGBA, bool, error) {
	c.mu.RLock()
	tex, ok := c.decoded[t]
	c.mu.RUnlock()
	if ok {
		return tex, true, nil
	}

	data, ok := c.textures.Lookup(t)
	if !ok {
		return nil, false, nil
	}
	img, _, err := imgutil.Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("texture %s: %w", t, err)
	}
	tex = imgutil.ToNRGBA(img)

	c.mu.Lock()
	c.decoded[t] = tex
	c.mu.Unlock()
	return tex, true, nil
}
