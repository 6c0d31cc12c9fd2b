package openaichat

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"claude-openai-bridge/internal/messagesadapter/types"
)

// newMessageID generates an Anthropic-style message ID (format: msg_<uuid>).
func newMessageID() string {
	return fmt.Sprintf("msg_%s", uuid.New().String())
}

// newToolUseID generates an Anthropic-style tool use ID (format: toolu_<uuid>).
func newToolUseID() string {
	return fmt.Sprintf("toolu_%s", uuid.New().String())
}

// estimateTokens approximates a token count from a character count. The same
// chars/4 heuristic backs the count_tokens endpoint and usage reporting when
// the upstream does not provide token counts.
func estimateTokens(chars int) int {
	return chars / 4
}

// estimateInputTokens approximates the input token count of a normalized
// request from its serialized size.
func estimateInputTokens(upstreamReq chatCompletionRequest) int {
	encoded, err := json.Marshal(upstreamReq.Messages)
	if err != nil {
		return 0
	}
	return estimateTokens(len(encoded))
}

// newMessageStart builds the message_start event that opens every stream,
// carrying a generated message id and the originally requested model name.
func newMessageStart(model string, inputTokens int) types.MessageStartEvent {
	return types.MessageStartEvent{
		Type: "message_start",
		Message: types.MessageStart{
			ID:      newMessageID(),
			Type:    "message",
			Role:    "assistant",
			Content: []types.ContentBlock{},
			Model:   model,
			Usage:   types.Usage{InputTokens: inputTokens, OutputTokens: 0},
		},
	}
}

// collectResponse aggregates a finished stream session into a buffered
// MessageResponse. The upstream is always consumed as a stream; buffered mode
// is a local aggregation of the same translation.
func collectResponse(session streamSession, model string, inputTokens int) *types.MessageResponse {
	stopReason := "end_turn"
	if n := len(session.blocks); n > 0 && session.blocks[n-1].kind == kindToolUse {
		stopReason = kindToolUse
	}

	return &types.MessageResponse{
		ID:         newMessageID(),
		Type:       "message",
		Role:       "assistant",
		Content:    session.contentBlocks(),
		Model:      model,
		StopReason: stopReason,
		Usage:      session.usage(inputTokens),
	}
}
