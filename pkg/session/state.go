package session

import "errors"

// State は編集セッションの状態です。
type State int

const (
	StateEmpty State = iota
	StateReady
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateReady:
		return "ready"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// SuccessMessage はサービスがテキストを返さなかった場合の成功メッセージです。
const SuccessMessage = "Edit applied successfully."

var (
	// ErrNoImage は画像が読み込まれていない状態で画像が必要な操作をした場合に返されます。
	ErrNoImage = errors.New("no image loaded")
	// ErrEmptyPrompt は編集指示が空のまま編集を開始しようとした場合に返されます。
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrBusy は編集リクエストが処理中の場合に返されます。
	ErrBusy = errors.New("an edit is already in progress")
	// ErrInvalidTransition は現在の状態で許可されない操作の場合に返されます。
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrNoOverlay はテクスチャ未選択のまま不透明度やブレンドモードを変更しようとした場合に返されます。
	ErrNoOverlay = errors.New("no texture selected")
)
