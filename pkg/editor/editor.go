// Package editor は合成・リモート編集・セッション更新を 1 回の編集操作としてまとめます。
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/gemini-image-editor/pkg/domain"
	"github.com/shouni/gemini-image-editor/pkg/generator"
	"github.com/shouni/gemini-image-editor/pkg/session"
)

const (
	DefaultRequestTimeout = 120 * time.Second

	// FailurePrefix は例外的な失敗をユーザーに表示する際の接頭辞です。
	FailurePrefix = "Failed to apply edit: "
)

var (
	// ErrRejected はサービスが画像を返さなかった場合に返されます。
	ErrRejected = errors.New("edit rejected")
	// ErrPanic は協調オブジェクトの panic を失敗として扱った場合に返されます。
	ErrPanic = errors.New("edit aborted by panic")
)

// Editor は編集ボタン 1 回分の処理を調停します。
type Editor struct {
	flattener Flattener
	remote    generator.ImageEditor
	timeout   time.Duration
}

// New は依存関係を注入して Editor を初期化します。timeout が 0 以下なら既定値を使います。
func New(flattener Flattener, remote generator.ImageEditor, timeout time.Duration) (*Editor, error) {
	if flattener == nil {
		return nil, fmt.Errorf("flattener is required")
	}
	if remote == nil {
		return nil, fmt.Errorf("remote (generator.ImageEditor) is required")
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Editor{
		flattener: flattener,
		remote:    remote,
		timeout:   timeout,
	}, nil
}

// ApplyEdit は現在の画像を平坦化してリモート編集に送り、結果をセッションに反映します。
// 編集を開始できない場合はセッションを変更せずにガードのエラーを返します。
// 開始後はどの経路で抜けてもセッションは Editing から戻るのだ。
func (e *Editor) ApplyEdit(ctx context.Context, s *session.Session) error {
	req, err := s.BeginEdit()
	if err != nil {
		return err
	}

	log := slog.With("session_id", s.ID())
	start := time.Now()

	settled := false
	defer func() {
		if !settled {
			_ = s.FailEdit(FailurePrefix + "edit did not complete")
		}
	}()

	outcome, err := e.execute(ctx, req)
	if err != nil {
		settled = s.FailEdit(FailurePrefix+err.Error()) == nil
		log.WarnContext(ctx, "画像編集に失敗しました", "error", err, "duration", time.Since(start))
		return fmt.Errorf("画像編集に失敗しました: %w", err)
	}

	if outcome.IsApplied() {
		if cerr := s.CompleteEdit(outcome.Image, outcome.Message); cerr != nil {
			settled = s.FailEdit(FailurePrefix+cerr.Error()) == nil
			return fmt.Errorf("編集結果の反映に失敗しました: %w", cerr)
		}
		settled = true
		log.InfoContext(ctx, "画像編集を適用しました", "bytes", len(outcome.Image.Data), "duration", time.Since(start))
		return nil
	}

	msg := generator.DefaultRejectionMessage
	if outcome.Message != "" {
		msg = outcome.Message
	}
	settled = s.FailEdit(msg) == nil
	log.InfoContext(ctx, "画像編集は拒否されました", "message", msg, "duration", time.Since(start))
	return fmt.Errorf("%w: %s", ErrRejected, msg)
}

// execute は合成とリモート呼び出しを行います。協調オブジェクトの panic はエラーに変換します。
func (e *Editor) execute(ctx context.Context, req session.EditRequest) (outcome *domain.EditOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = nil
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	flat, err := e.flattener.Flatten(ctx, req.Image, req.Adjustments, req.Overlay)
	if err != nil {
		return nil, err
	}

	rctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	outcome, err = e.remote.RequestEdit(rctx, flat, req.Prompt)
	if err != nil {
		var serr *generator.ServiceError
		if !errors.As(err, &serr) && rctx.Err() != nil {
			return nil, &generator.ServiceError{Err: err}
		}
		return nil, err
	}
	if outcome == nil {
		return nil, &generator.ServiceError{Err: errors.New("no outcome returned")}
	}
	return outcome, nil
}

// Preview はリモート呼び出しをせずに現在の表示内容を平坦化します。
func (e *Editor) Preview(ctx context.Context, s *session.Session) (domain.Image, error) {
	return Preview(ctx, e.flattener, s)
}

// Preview は Editor を組み立てずに f でセッションの表示内容を平坦化します。
// API キーが無くてもローカル合成だけは行えるのだ。
func Preview(ctx context.Context, f Flattener, s *session.Session) (domain.Image, error) {
	v := s.Snapshot()
	if !v.HasImage() {
		return domain.Image{}, session.ErrNoImage
	}
	return f.Flatten(ctx, v.Current, v.Adjustments, v.Overlay)
}
