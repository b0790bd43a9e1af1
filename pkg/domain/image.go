package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDataURL は data URL の形式が不正な場合に返されます。
var ErrInvalidDataURL = errors.New("invalid data URL")

const dataURLPrefix = "data:"

// Image はエンコード済みの画像データとその MIME タイプです。
// Data には data URL のエンベロープを含まない生のバイト列を保持します。
type Image struct {
	Data     []byte
	MimeType string
}

// IsZero は画像が未定義かどうかを返します。
func (i Image) IsZero() bool {
	return len(i.Data) == 0
}

// Clone はバイト列を複製した Image を返します。
func (i Image) Clone() Image {
	if i.Data == nil {
		return Image{MimeType: i.MimeType}
	}
	data := make([]byte, len(i.Data))
	copy(data, i.Data)
	return Image{Data: data, MimeType: i.MimeType}
}

// DataURL は data:<mime>;base64,<payload> 形式の文字列を返します。
func (i Image) DataURL() string {
	return dataURLPrefix + i.MimeType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ParseDataURL は data URL からエンベロープを取り除いて Image に変換します。
func ParseDataURL(s string) (Image, error) {
	if !strings.HasPrefix(s, dataURLPrefix) {
		return Image{}, fmt.Errorf("%w: missing %q prefix", ErrInvalidDataURL, dataURLPrefix)
	}

	header, payload, found := strings.Cut(strings.TrimPrefix(s, dataURLPrefix), ",")
	if !found {
		return Image{}, fmt.Errorf("%w: missing payload separator", ErrInvalidDataURL)
	}

	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return Image{}, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}
	if payload == "" {
		return Image{}, fmt.Errorf("%w: empty payload", ErrInvalidDataURL)
	}
	// "image/png;name=photo.png" のようなパラメータは MIME タイプに含めない
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}

	return Image{Data: data, MimeType: mimeType}, nil
}
