package openaichat

import (
	"encoding/json"

	"claude-openai-bridge/internal/messagesadapter/types"
)

// Block kinds tracked by the stream translator.
const (
	kindNone    = ""
	kindText    = "text"
	kindToolUse = "tool_use"
)

// blockState is the accumulation record of one content block. Indices are
// assigned in strictly increasing order starting at 0; a block, once closed,
// never reopens.
type blockState struct {
	index    int
	kind     string
	text     string
	jsonBuf  string
	toolID   string
	toolName string
	input    any
}

// streamSession is the translator's working state for one response. It is
// created fresh per request, advanced once per raw chunk through apply, and
// discarded when the response finishes or errors. At most one block is open
// at any time.
type streamSession struct {
	blocks   []blockState
	openKind string

	// reported holds upstream-provided usage when a chunk carries it.
	reported    *chatUsage
	outputChars int
}

// newStreamSession returns the initial no-block-open session.
func newStreamSession() streamSession {
	return streamSession{openKind: kindNone}
}

// apply runs one state-machine transition for a raw upstream chunk and
// returns the advanced session together with the events to emit, in order.
//
// A delta carrying tool_calls extends (or opens) a tool_use block; a delta
// carrying plain content extends (or opens) a text block, closing an open
// tool block first; a delta carrying neither emits nothing. Only the first
// entry of a chunk's tool_calls array is consulted: simultaneous multi-tool
// deltas within one chunk collapse into the single open tool block regardless
// of the upstream's own call-index field.
func (s streamSession) apply(chunk *chatCompletionChunk) (streamSession, []types.StreamEvent) {
	if chunk.Usage != nil {
		s.reported = chunk.Usage
	}
	if len(chunk.Choices) == 0 {
		return s, nil
	}
	delta := chunk.Choices[0].Delta

	switch {
	case len(delta.ToolCalls) > 0:
		return s.applyToolCall(delta.ToolCalls[0])
	case delta.Content != "":
		return s.applyText(delta.Content)
	default:
		return s, nil
	}
}

func (s streamSession) applyToolCall(call chatToolCallPart) (streamSession, []types.StreamEvent) {
	var events []types.StreamEvent

	if s.openKind == kindText {
		events = append(events, types.ContentBlockStopEvent{
			Type:  "content_block_stop",
			Index: s.openIndex(),
		})
		s.openKind = kindNone
	}

	if s.openKind == kindNone {
		block := blockState{
			index:    len(s.blocks),
			kind:     kindToolUse,
			toolID:   newToolUseID(),
			toolName: call.Function.Name,
		}
		s.blocks = append(s.blocks, block)
		s.openKind = kindToolUse
		events = append(events, types.ContentBlockStartEvent{
			Type:  "content_block_start",
			Index: block.index,
			ContentBlock: types.ContentBlock{
				Type:  kindToolUse,
				ID:    block.toolID,
				Name:  block.toolName,
				Input: map[string]any{},
			},
		})
	}

	if fragment := call.Function.Arguments; fragment != "" {
		open := &s.blocks[len(s.blocks)-1]
		open.jsonBuf += fragment
		s.outputChars += len(fragment)
		events = append(events, types.ContentBlockDeltaEvent{
			Type:  "content_block_delta",
			Index: open.index,
			Delta: types.Delta{Type: "input_json_delta", PartialJSON: fragment},
		})

		// The buffer is expected to be syntactically incomplete until the
		// final fragment arrives; parse failures are silent and later
		// successful parses overwrite earlier ones.
		var input any
		if err := json.Unmarshal([]byte(open.jsonBuf), &input); err == nil {
			open.input = input
		}
	}

	return s, events
}

func (s streamSession) applyText(fragment string) (streamSession, []types.StreamEvent) {
	var events []types.StreamEvent

	if s.openKind == kindToolUse {
		events = append(events, types.ContentBlockStopEvent{
			Type:  "content_block_stop",
			Index: s.openIndex(),
		})
		s.openKind = kindNone
	}

	if s.openKind == kindNone {
		block := blockState{index: len(s.blocks), kind: kindText}
		s.blocks = append(s.blocks, block)
		s.openKind = kindText
		events = append(events, types.ContentBlockStartEvent{
			Type:         "content_block_start",
			Index:        block.index,
			ContentBlock: types.ContentBlock{Type: kindText, Text: ""},
		})
	}

	open := &s.blocks[len(s.blocks)-1]
	open.text += fragment
	s.outputChars += len(fragment)
	events = append(events, types.ContentBlockDeltaEvent{
		Type:  "content_block_delta",
		Index: open.index,
		Delta: types.Delta{Type: "text_delta", Text: fragment},
	})

	return s, events
}

// finish emits the termination sequence after the raw chunk sequence ends:
// a content_block_stop for the open block (index 0 when no block was ever
// opened, the protocol always closes the last block), a message_delta whose
// stop_reason is tool_use when a tool block is the most recent state and
// end_turn otherwise, carrying the full ordered set of closed blocks, then a
// message_stop.
func (s streamSession) finish(inputTokens int) []types.StreamEvent {
	events := []types.StreamEvent{
		types.ContentBlockStopEvent{Type: "content_block_stop", Index: s.openIndex()},
	}

	stopReason := "end_turn"
	if n := len(s.blocks); n > 0 && s.blocks[n-1].kind == kindToolUse {
		stopReason = kindToolUse
	}

	events = append(events,
		types.MessageDeltaEvent{
			Type: "message_delta",
			Delta: types.MessageDelta{
				StopReason: stopReason,
				Content:    s.contentBlocks(),
			},
			Usage: s.usage(inputTokens),
		},
		types.MessageStopEvent{Type: "message_stop"},
	)
	return events
}

// openIndex returns the index of the open block, or 0 when none is open.
func (s streamSession) openIndex() int {
	if len(s.blocks) == 0 {
		return 0
	}
	return s.blocks[len(s.blocks)-1].index
}

// contentBlocks renders the accumulated blocks in protocol shape.
func (s streamSession) contentBlocks() []types.ContentBlock {
	blocks := make([]types.ContentBlock, 0, len(s.blocks))
	for _, b := range s.blocks {
		switch b.kind {
		case kindToolUse:
			input := b.input
			if input == nil {
				input = map[string]any{}
			}
			blocks = append(blocks, types.ContentBlock{
				Type:  kindToolUse,
				ID:    b.toolID,
				Name:  b.toolName,
				Input: input,
			})
		default:
			blocks = append(blocks, types.ContentBlock{Type: kindText, Text: b.text})
		}
	}
	return blocks
}

// usage prefers upstream-reported token counts and falls back to the chars/4
// estimate used across the proxy.
func (s streamSession) usage(inputTokens int) types.Usage {
	if s.reported != nil {
		return types.Usage{
			InputTokens:  s.reported.PromptTokens,
			OutputTokens: s.reported.CompletionTokens,
		}
	}
	return types.Usage{
		InputTokens:  inputTokens,
		OutputTokens: estimateTokens(s.outputChars),
	}
}
