package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/go-remote-io/pkg/s3factory"

	"github.com/shouni/gemini-image-editor/pkg/imgutil"
)

// cloudStorage は gs:// と s3:// のクライアントを最初に使われたときに初期化し、
// remoteio の InputReader と OutputWriter に読み書きを委譲します。
// 認証情報はクラウド URI を扱うときにだけ要求されます。
type cloudStorage struct {
	newGCS func(ctx context.Context) (remoteio.IOFactory, error)
	newS3  func(ctx context.Context) (remoteio.IOFactory, error)

	gcs remoteio.IOFactory
	s3  remoteio.IOFactory
}

func newCloudStorage() *cloudStorage {
	return &cloudStorage{newGCS: gcsfactory.New, newS3: s3factory.New}
}

// Open は remoteio.InputReader.Open と同じ形で URI を開きます。
func (c *cloudStorage) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	f, err := c.factory(ctx, uri)
	if err != nil {
		return nil, err
	}
	r, err := f.InputReader()
	if err != nil {
		return nil, err
	}
	return r.Open(ctx, uri)
}

// Write は remoteio.OutputWriter.Write と同じ形で URI に書き込みます。
func (c *cloudStorage) Write(ctx context.Context, uri string, content io.Reader, contentType string) error {
	f, err := c.factory(ctx, uri)
	if err != nil {
		return err
	}
	w, err := f.OutputWriter()
	if err != nil {
		return err
	}
	return w.Write(ctx, uri, content, contentType)
}

func (c *cloudStorage) factory(ctx context.Context, uri string) (remoteio.IOFactory, error) {
	var err error
	switch {
	case remoteio.IsGCSURI(uri):
		if c.gcs == nil {
			if c.gcs, err = c.newGCS(ctx); err != nil {
				return nil, err
			}
		}
		return c.gcs, nil
	case remoteio.IsS3URI(uri):
		if c.s3 == nil {
			if c.s3, err = c.newS3(ctx); err != nil {
				return nil, err
			}
		}
		return c.s3, nil
	}
	return nil, fmt.Errorf("クラウドストレージの URI ではありません: %s", uri)
}

// Close は初期化済みのクライアントを閉じます。
func (c *cloudStorage) Close() error {
	var errs []error
	for _, f := range []remoteio.IOFactory{c.gcs, c.s3} {
		if f != nil {
			errs = append(errs, f.Close())
		}
	}
	c.gcs, c.s3 = nil, nil
	return errors.Join(errs...)
}

// newLoader は URL 取得用の httpkit クライアントと store を使う画像ローダーを組み立てます。
func newLoader(store *cloudStorage) (*imgutil.Loader, error) {
	return imgutil.NewLoader(httpkit.New(httpkit.DefaultHTTPTimeout), store)
}
