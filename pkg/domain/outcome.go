package domain

// OutcomeKind はリモート編集の結果の種類です。
type OutcomeKind int

const (
	// OutcomeApplied は新しい画像が返されたことを表します。
	OutcomeApplied OutcomeKind = iota + 1
	// OutcomeRejected はサービスが画像を生成しなかったことを表します。例外ではなく正常な応答です。
	OutcomeRejected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeApplied:
		return "applied"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// EditOutcome はリモート編集サービスの応答です。
// Image は Kind が OutcomeApplied の場合のみ有効です。
type EditOutcome struct {
	Kind    OutcomeKind
	Image   Image
	Message string
}

// Applied は画像付きの結果を生成します。message は空でも構いません。
func Applied(img Image, message string) *EditOutcome {
	return &EditOutcome{Kind: OutcomeApplied, Image: img, Message: message}
}

// Rejected は画像なしの結果を生成します。
func Rejected(message string) *EditOutcome {
	return &EditOutcome{Kind: OutcomeRejected, Message: message}
}

// IsApplied は画像が適用可能な結果かどうかを返します。
func (o *EditOutcome) IsApplied() bool {
	return o != nil && o.Kind == OutcomeApplied
}
