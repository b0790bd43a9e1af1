package generator

import (
	"fmt"

	"google.golang.org/genai"
)

// seedToPtrInt32 は *int64 を SDK 用の *int32 に変換するのだ。
func seedToPtrInt32(s *int64) *int32 {
	if s == nil {
		return nil
	}
	v := int32(*s)
	return &v
}

// rejectionReason はブロック理由や終了理由から利用者向けのメッセージを組み立てます。
// 理由が無い場合は空文字を返すのだ。
func rejectionReason(raw *genai.GenerateContentResponse) string {
	if raw == nil {
		return ""
	}
	if fb := raw.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		if fb.BlockReasonMessage != "" {
			return fb.BlockReasonMessage
		}
		return fmt.Sprintf("Request was blocked (%s). Please try a different prompt.", fb.BlockReason)
	}
	if len(raw.Candidates) == 0 || raw.Candidates[0] == nil {
		return ""
	}
	c := raw.Candidates[0]
	if c.FinishMessage != "" {
		return c.FinishMessage
	}
	switch c.FinishReason {
	case "", genai.FinishReasonStop, genai.FinishReasonUnspecified:
		return ""
	default:
		return fmt.Sprintf("Generation stopped (%s). Please try a different prompt.", c.FinishReason)
	}
}
