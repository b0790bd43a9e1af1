package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shouni/gemini-image-editor/pkg/config"
	"github.com/shouni/gemini-image-editor/pkg/domain"
	"github.com/shouni/gemini-image-editor/pkg/editor"
	"github.com/shouni/gemini-image-editor/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRemote struct {
	outcome *domain.EditOutcome
}

func (r *stubRemote) RequestEdit(ctx context.Context, img domain.Image, prompt string) (*domain.EditOutcome, error) {
	return r.outcome, nil
}

func writeTestPNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))

	path := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func newTestShell(t *testing.T, remote *stubRemote) (*shell, *bytes.Buffer) {
	t.Helper()
	comp, err := newCompositor()
	require.NoError(t, err)

	store := newCloudStorage()
	t.Cleanup(func() { _ = store.Close() })
	loader, err := newLoader(store)
	require.NoError(t, err)

	out := new(bytes.Buffer)
	sh := &shell{sess: session.New(), flattener: comp, loader: loader, writer: store, out: out}
	if remote != nil {
		sh.editor, err = editor.New(comp, remote, time.Second)
		require.NoError(t, err)
	}
	return sh, out
}

func TestShell_Session(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := writeTestPNG(t, dir)

	result := domain.Image{Data: []byte("edited"), MimeType: "image/png"}
	sh, out := newTestShell(t, &stubRemote{outcome: domain.Applied(result, "done")})

	script := strings.Join([]string{
		"load " + input,
		"brightness 150",
		"contrast 80",
		"texture paper",
		"opacity 70",
		"blend multiply",
		"preview",
		"save " + filepath.Join(dir, "view.png"),
		"status",
		"apply",
		"prompt warmer light",
		"apply",
		"quit",
		"status",
	}, "\n")

	require.NoError(t, sh.run(ctx, strings.NewReader(script)))

	text := out.String()
	assert.Contains(t, text, "loaded ")
	assert.Contains(t, text, "preview: image/png")
	assert.Contains(t, text, "texture:    Paper (70%, multiply)")
	assert.Contains(t, text, "error: "+session.ErrEmptyPrompt.Error())
	assert.Contains(t, text, "done")

	_, err := os.Stat(filepath.Join(dir, "view.png"))
	assert.NoError(t, err)

	v := sh.sess.Snapshot()
	assert.Equal(t, result, v.Current)
	assert.Equal(t, domain.DefaultAdjustments(), v.Adjustments)
	assert.Nil(t, v.Overlay)
	assert.Equal(t, 1, strings.Count(text, "state:"), "quit 以降のコマンドは実行されない")
}

func TestShell_Rejection(t *testing.T) {
	ctx := context.Background()
	sh, out := newTestShell(t, &stubRemote{outcome: domain.Rejected("prompt unclear")})

	require.NoError(t, sh.exec(ctx, "load "+writeTestPNG(t, t.TempDir())))
	require.NoError(t, sh.exec(ctx, "prompt ???"))
	require.NoError(t, sh.exec(ctx, "apply"))

	assert.Contains(t, out.String(), "error: prompt unclear")
	assert.Equal(t, session.StateReady, sh.sess.Snapshot().State)
}

func TestShell_Errors(t *testing.T) {
	ctx := context.Background()
	sh, _ := newTestShell(t, nil)

	assert.ErrorIs(t, sh.exec(ctx, "preview"), session.ErrNoImage)
	assert.ErrorIs(t, sh.exec(ctx, "brightness 50"), session.ErrNoImage)
	require.NoError(t, sh.exec(ctx, "load "+writeTestPNG(t, t.TempDir())))

	assert.ErrorIs(t, sh.exec(ctx, "texture velvet"), domain.ErrUnknownTexture)
	assert.ErrorIs(t, sh.exec(ctx, "blend difference"), domain.ErrUnknownBlendMode)
	assert.ErrorIs(t, sh.exec(ctx, "brightness 300"), domain.ErrOutOfRange)
	assert.Error(t, sh.exec(ctx, "contrast high"))
	assert.Error(t, sh.exec(ctx, "save"))
	assert.Error(t, sh.exec(ctx, "frobnicate"))

	require.NoError(t, sh.exec(ctx, "prompt anything"))
	assert.ErrorIs(t, sh.exec(ctx, "apply"), config.ErrMissingAPIKey)

	require.NoError(t, sh.exec(ctx, "reset"))
	require.NoError(t, sh.exec(ctx, "new"))
	assert.Equal(t, session.StateEmpty, sh.sess.Snapshot().State)
	assert.ErrorIs(t, sh.exec(ctx, "quit"), errQuit)
}
