package compositor

import (
	"errors"
	"fmt"
)

// ErrEmptyLayer はレイヤーに画像データが無い場合に返されます。
var ErrEmptyLayer = errors.New("layer has no image data")

// Layer は合成に失敗したレイヤーを示します。
type Layer int

const (
	LayerBase Layer = iota
	LayerTexture
	LayerOutput
)

func (l Layer) String() string {
	switch l {
	case LayerBase:
		return "base"
	case LayerTexture:
		return "texture"
	case LayerOutput:
		return "output"
	default:
		return fmt.Sprintf("Layer(%d)", int(l))
	}
}

// CompositeError はレイヤーのデコードやエンコードに失敗したことを表します。
type CompositeError struct {
	Layer Layer
	Err   error
}

func (e *CompositeError) Error() string {
	return fmt.Sprintf("failed to composite %s layer: %v", e.Layer, e.Err)
}

func (e *CompositeError) Unwrap() error {
	return e.Err
}
