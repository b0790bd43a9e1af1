// Package session は 1 枚の画像に対する編集セッションの状態遷移を管理します。
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shouni/gemini-image-editor/pkg/domain"
)

// Session は編集中の画像と調整値を保持します。
// すべての操作はミューテックスで保護され、リモート呼び出しの間はロックを保持しません。
type Session struct {
	id string

	mu          sync.Mutex
	state       State
	original    domain.Image
	current     domain.Image
	adjustments domain.Adjustments
	overlay     *domain.TextureOverlay
	prompt      string
	lastError   string
	lastMessage string
}

// View はセッションの読み取り専用スナップショットです。
type View struct {
	ID          string
	State       State
	Original    domain.Image
	Current     domain.Image
	Adjustments domain.Adjustments
	Overlay     *domain.TextureOverlay
	Prompt      string
	IsLoading   bool
	LastError   string
	LastMessage string
}

// HasImage は画像が読み込まれているかを返します。
func (v View) HasImage() bool {
	return !v.Current.IsZero()
}

// EditRequest は BeginEdit 時点で確定した編集入力です。
type EditRequest struct {
	Image       domain.Image
	Adjustments domain.Adjustments
	Overlay     *domain.TextureOverlay
	Prompt      string
}

// New は空のセッションを作成します。
func New() *Session {
	return &Session{
		id:          uuid.NewString(),
		adjustments: domain.DefaultAdjustments(),
	}
}

// ID はセッション識別子を返します。ログの相関に使うのだ。
func (s *Session) ID() string {
	return s.id
}

// Snapshot は現在の状態のコピーを返します。
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		ID:          s.id,
		State:       s.state,
		Original:    s.original.Clone(),
		Current:     s.current.Clone(),
		Adjustments: s.adjustments,
		Overlay:     copyOverlay(s.overlay),
		Prompt:      s.prompt,
		IsLoading:   s.state == StateEditing,
		LastError:   s.lastError,
		LastMessage: s.lastMessage,
	}
}

// Load は新しい画像を読み込みます。Empty 状態からのみ呼び出せます。
func (s *Session) Load(img domain.Image) error {
	if img.IsZero() {
		return fmt.Errorf("%w: image has no data", ErrNoImage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEmpty {
		return fmt.Errorf("%w: load requires an empty session (state=%s)", ErrInvalidTransition, s.state)
	}
	s.original = img.Clone()
	s.current = img.Clone()
	s.resetLayers()
	s.lastError = ""
	s.lastMessage = ""
	s.state = StateReady
	return nil
}

// SetPrompt は編集指示を設定します。
func (s *Session) SetPrompt(prompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReady(); err != nil {
		return err
	}
	s.prompt = prompt
	return nil
}

// SetBrightness は明るさ (0〜200) を設定します。
func (s *Session) SetBrightness(v int) error {
	return s.updateAdjustments(func(a *domain.Adjustments) { a.Brightness = v })
}

// SetContrast はコントラスト (0〜200) を設定します。
func (s *Session) SetContrast(v int) error {
	return s.updateAdjustments(func(a *domain.Adjustments) { a.Contrast = v })
}

func (s *Session) updateAdjustments(fn func(*domain.Adjustments)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReady(); err != nil {
		return err
	}
	next := s.adjustments
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	s.adjustments = next
	return nil
}

// SetTexture はテクスチャを選択します。nil はオーバーレイの解除です。
// 既にオーバーレイがある場合は不透明度とブレンドモードを引き継ぎます。
func (s *Session) SetTexture(t *domain.Texture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReady(); err != nil {
		return err
	}
	if t == nil {
		s.overlay = nil
		return nil
	}
	if s.overlay == nil {
		s.overlay = domain.NewTextureOverlay(*t)
		return nil
	}
	s.overlay.Texture = *t
	return nil
}

// SetOpacity はオーバーレイの不透明度 (0〜100) を設定します。
func (s *Session) SetOpacity(v int) error {
	return s.updateOverlay(func(o *domain.TextureOverlay) { o.Opacity = v })
}

// SetBlendMode はオーバーレイのブレンドモードを設定します。
func (s *Session) SetBlendMode(m domain.BlendMode) error {
	return s.updateOverlay(func(o *domain.TextureOverlay) { o.BlendMode = m })
}

func (s *Session) updateOverlay(fn func(*domain.TextureOverlay)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReady(); err != nil {
		return err
	}
	if s.overlay == nil {
		return ErrNoOverlay
	}
	next := *s.overlay
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	s.overlay = &next
	return nil
}

// BeginEdit は編集リクエストを開始し、送信用の入力を返します。
// 条件を満たさない場合は状態を変えずにエラーを返すのだ。
func (s *Session) BeginEdit() (EditRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateEditing:
		return EditRequest{}, ErrBusy
	case StateEmpty:
		return EditRequest{}, ErrNoImage
	}
	if s.current.IsZero() {
		return EditRequest{}, ErrNoImage
	}
	if strings.TrimSpace(s.prompt) == "" {
		return EditRequest{}, ErrEmptyPrompt
	}

	s.state = StateEditing
	s.lastError = ""
	s.lastMessage = ""
	return EditRequest{
		Image:       s.current.Clone(),
		Adjustments: s.adjustments,
		Overlay:     copyOverlay(s.overlay),
		Prompt:      s.prompt,
	}, nil
}

// CompleteEdit は編集結果を現在の画像として採用します。
// 調整値とオーバーレイは結果に焼き込まれているため既定値に戻します。
func (s *Session) CompleteEdit(img domain.Image, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEditing {
		return fmt.Errorf("%w: complete requires an edit in progress (state=%s)", ErrInvalidTransition, s.state)
	}
	if img.IsZero() {
		return fmt.Errorf("%w: edited image has no data", ErrNoImage)
	}
	if message == "" {
		message = SuccessMessage
	}
	s.current = img.Clone()
	s.resetLayers()
	s.lastError = ""
	s.lastMessage = message
	s.state = StateReady
	return nil
}

// FailEdit は編集の失敗を記録します。現在の画像は変更しません。
func (s *Session) FailEdit(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEditing {
		return fmt.Errorf("%w: fail requires an edit in progress (state=%s)", ErrInvalidTransition, s.state)
	}
	s.lastError = message
	s.lastMessage = ""
	s.state = StateReady
	return nil
}

// Reset は現在の画像を元画像に戻し、調整値を既定値に戻します。プロンプトは保持します。
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReady(); err != nil {
		return err
	}
	s.current = s.original.Clone()
	s.resetLayers()
	s.lastError = ""
	s.lastMessage = ""
	return nil
}

// NewImage はセッションを破棄して空の状態に戻します。
func (s *Session) NewImage() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEditing {
		return ErrBusy
	}
	s.original = domain.Image{}
	s.current = domain.Image{}
	s.resetLayers()
	s.prompt = ""
	s.lastError = ""
	s.lastMessage = ""
	s.state = StateEmpty
	return nil
}

func (s *Session) requireReady() error {
	switch s.state {
	case StateEmpty:
		return ErrNoImage
	case StateEditing:
		return ErrBusy
	}
	return nil
}

func (s *Session) resetLayers() {
	s.adjustments = domain.DefaultAdjustments()
	s.overlay = nil
}

func copyOverlay(o *domain.TextureOverlay) *domain.TextureOverlay {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}
