package imgutil

import (
	"bytes"
	"context"
	"io"
)

// --- Mocks ---

type mockHTTPClient struct {
	fetchBytesFunc func(ctx context.Context, url string) ([]byte, error)
	fetched        []string
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.fetched = append(m.fetched, url)
	if m.fetchBytesFunc != nil {
		return m.fetchBytesFunc(ctx, url)
	}
	return nil, nil
}

type mockReader struct {
	openFunc func(ctx context.Context, uri string) (io.ReadCloser, error)
	opened   []string
	closed   int
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.opened = append(m.opened, uri)
	if m.openFunc != nil {
		return m.openFunc(ctx, uri)
	}
	return nil, nil
}

// body は Close の回数を mockReader に記録する ReadCloser を返します。
func (m *mockReader) body(data []byte) io.ReadCloser {
	return &countingCloser{Reader: bytes.NewReader(data), closed: &m.closed}
}

type countingCloser struct {
	io.Reader
	closed *int
}

func (c *countingCloser) Close() error {
	*c.closed++
	return nil
}
