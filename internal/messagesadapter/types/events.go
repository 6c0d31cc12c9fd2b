package types

// StreamEvent is one named Server-Sent-Event of the Messages streaming
// protocol. EventName returns the SSE event name; the value itself is the
// JSON payload written on the data line.
type StreamEvent interface {
	EventName() string
}

// MessageStartEvent opens the event stream. It carries the message envelope
// with an empty content list; content arrives through block events.
type MessageStartEvent struct {
	Type    string       `json:"type"`
	Message MessageStart `json:"message"`
}

// MessageStart is the message envelope inside MessageStartEvent.
type MessageStart struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Content      []ContentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   *string        `json:"stop_reason"`
	StopSequence *string        `json:"stop_sequence"`
	Usage        Usage          `json:"usage"`
}

func (MessageStartEvent) EventName() string { return "message_start" }

// ContentBlockStartEvent opens one content block at the given index.
type ContentBlockStartEvent struct {
	Type         string       `json:"type"`
	Index        int          `json:"index"`
	ContentBlock ContentBlock `json:"content_block"`
}

func (ContentBlockStartEvent) EventName() string { return "content_block_start" }

// Delta is the incremental payload of a ContentBlockDeltaEvent: a text
// fragment or a partial tool-input JSON fragment, discriminated by Type.
type Delta struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
}

// ContentBlockDeltaEvent streams one fragment into the open block.
type ContentBlockDeltaEvent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Delta Delta  `json:"delta"`
}

func (ContentBlockDeltaEvent) EventName() string { return "content_block_delta" }

// ContentBlockStopEvent closes the block at the given index.
type ContentBlockStopEvent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

func (ContentBlockStopEvent) EventName() string { return "content_block_stop" }

// MessageDelta carries the final stop reason and the full ordered set of
// closed content blocks.
type MessageDelta struct {
	StopReason   string         `json:"stop_reason"`
	StopSequence *string        `json:"stop_sequence"`
	Content      []ContentBlock `json:"content"`
}

// MessageDeltaEvent precedes message_stop and finalizes message metadata.
type MessageDeltaEvent struct {
	Type  string       `json:"type"`
	Delta MessageDelta `json:"delta"`
	Usage Usage        `json:"usage"`
}

func (MessageDeltaEvent) EventName() string { return "message_delta" }

// MessageStopEvent terminates the event stream.
type MessageStopEvent struct {
	Type string `json:"type"`
}

func (MessageStopEvent) EventName() string { return "message_stop" }

// ErrorEvent reports a failure after streaming has begun. It is the only
// event that may replace the regular termination sequence.
type ErrorEvent struct {
	Type  string `json:"type"`
	Error Error  `json:"error"`
}

func (ErrorEvent) EventName() string { return "error" }
