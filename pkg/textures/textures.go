// Package textures は合成用に同梱されたオーバーレイ画像を提供します。
package textures

import (
	"embed"
	"strings"

	"github.com/shouni/gemini-image-editor/pkg/domain"
)

//go:embed assets/*.png
var assets embed.FS

// Library はテクスチャ識別子から画像バイト列を解決します。
type Library struct {
	files map[domain.Texture][]byte
}

// Bundled は埋め込みアセットから Library を構築します。
// アセットが見つからないテクスチャは Lookup で false を返すのだ。
func Bundled() *Library {
	lib := &Library{files: make(map[domain.Texture][]byte)}
	for _, t := range domain.Textures() {
		data, err := assets.ReadFile(assetPath(t))
		if err != nil {
			continue
		}
		lib.files[t] = data
	}
	return lib
}

// Lookup はテクスチャの PNG バイト列を返します。
func (l *Library) Lookup(t domain.Texture) ([]byte, bool) {
	if l == nil {
		return nil, false
	}
	data, ok := l.files[t]
	return data, ok
}

func assetPath(t domain.Texture) string {
	return "assets/" + strings.ToLower(t.String()) + ".png"
}
