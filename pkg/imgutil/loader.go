package imgutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-image-editor/pkg/domain"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/netarmor/securenet"
)

// HTTPFetcher は URL から画像を取得するクライアントです。httpkit.Client が満たします。
type HTTPFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// RemoteReader は gs:// や s3:// のオブジェクトを開くリーダーです。remoteio.InputReader が満たします。
type RemoteReader interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Loader は data URL、ローカルファイル、http(s) URL、gs:// と s3:// のオブジェクトから画像を読み込みます。
type Loader struct {
	httpClient HTTPFetcher
	reader     RemoteReader
	isSafeURL  func(rawURL string) (bool, error)
}

// NewLoader は Loader を生成します。
func NewLoader(httpClient HTTPFetcher, reader RemoteReader) (*Loader, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	return &Loader{
		httpClient: httpClient,
		reader:     reader,
		isSafeURL:  securenet.IsSafeURL,
	}, nil
}

// Load は ref の形式に応じて取得元を選び、画像であることを確認して返します。
func (l *Loader) Load(ctx context.Context, ref string) (domain.Image, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasPrefix(ref, "data:"):
		return ReadImage(ref)
	case remoteio.IsRemoteURI(ref):
		data, err = l.open(ctx, ref)
	case isHTTPURL(ref):
		data, err = l.fetch(ctx, ref)
	default:
		return ReadImageFile(ref)
	}
	if err != nil {
		return domain.Image{}, err
	}

	img, err := FromBytes(data)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%s: %w", ref, err)
	}
	slog.DebugContext(ctx, "画像を取得しました", "ref", ref, "mime_type", img.MimeType, "bytes", len(img.Data))
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if safe, err := l.isSafeURL(rawURL); err != nil || !safe {
		return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}
	data, err := l.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("画像のダウンロードに失敗しました: %w", err)
	}
	return data, nil
}

func (l *Loader) open(ctx context.Context, uri string) ([]byte, error) {
	rc, err := l.reader.Open(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("リモート画像のオープンに失敗しました: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("リモート画像の読み込みに失敗しました: %w", err)
	}
	return data, nil
}

func isHTTPURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
