package editor

import (
	"context"

	"github.com/shouni/gemini-image-editor/pkg/domain"
)

// --- Mocks ---

type mockFlattener struct {
	flattenFunc func(ctx context.Context, base domain.Image, adj domain.Adjustments, overlay *domain.TextureOverlay) (domain.Image, error)

	calls       int
	lastAdj     domain.Adjustments
	lastOverlay *domain.TextureOverlay
}

func (m *mockFlattener) Flatten(ctx context.Context, base domain.Image, adj domain.Adjustments, overlay *domain.TextureOverlay) (domain.Image, error) {
	m.calls++
	m.lastAdj = adj
	m.lastOverlay = overlay
	if m.flattenFunc != nil {
		return m.flattenFunc(ctx, base, adj, overlay)
	}
	return domain.Image{Data: append([]byte("flat:"), base.Data...), MimeType: base.MimeType}, nil
}

type mockRemote struct {
	requestEditFunc func(ctx context.Context, img domain.Image, prompt string) (*domain.EditOutcome, error)

	calls      int
	lastImage  domain.Image
	lastPrompt string
}

func (m *mockRemote) RequestEdit(ctx context.Context, img domain.Image, prompt string) (*domain.EditOutcome, error) {
	m.calls++
	m.lastImage = img
	m.lastPrompt = prompt
	if m.requestEditFunc != nil {
		return m.requestEditFunc(ctx, img, prompt)
	}
	return domain.Applied(domain.Image{Data: []byte("J"), MimeType: "image/png"}, "done"), nil
}
