package types

import "encoding/json"

// CreateMessageRequest is the inbound Anthropic Messages API request body.
//
// Messages, System and Tools are declared as `any` because clients are allowed
// to send them absent, null, or with the wrong shape; normalization coerces
// them and substitutes empty sequences instead of failing the request.
type CreateMessageRequest struct {
	Model         string         `json:"model"`
	MaxTokens     int            `json:"max_tokens,omitempty"`
	Messages      any            `json:"messages,omitempty"`
	System        any            `json:"system,omitempty"`
	Temperature   *float64       `json:"temperature,omitempty"`
	Stream        *bool          `json:"stream,omitempty"`
	Tools         any            `json:"tools,omitempty"`
	ToolChoice    map[string]any `json:"tool_choice,omitempty"`
	StopSequences []string       `json:"stop_sequences,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// ContentBlock is one unit of an assistant message body: a text run or a tool
// invocation. Exactly one of the kind-specific field groups is populated,
// discriminated by Type.
type ContentBlock struct {
	Type string `json:"type"`

	// Text is set for type "text".
	Text string `json:"text,omitempty"`

	// ID, Name and Input are set for type "tool_use".
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Input any    `json:"input,omitempty"`
}

// MarshalJSON emits the kind-specific field set. Text blocks always carry
// their text, even when empty: clients validate the initial
// {"type":"text","text":""} shape of a content_block_start. Tool blocks
// always carry an input object for the same reason.
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	switch b.Type {
	case "text":
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{Type: b.Type, Text: b.Text})
	case "tool_use":
		input := b.Input
		if input == nil {
			input = map[string]any{}
		}
		return json.Marshal(struct {
			Type  string `json:"type"`
			ID    string `json:"id"`
			Name  string `json:"name"`
			Input any    `json:"input"`
		}{Type: b.Type, ID: b.ID, Name: b.Name, Input: input})
	}

	type plain ContentBlock
	return json.Marshal(plain(b))
}

// Usage carries token accounting in Anthropic's shape.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// MessageResponse is the buffered (non-streaming) Messages API response.
type MessageResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Content      []ContentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   string         `json:"stop_reason,omitempty"`
	StopSequence *string        `json:"stop_sequence"`
	Usage        Usage          `json:"usage"`
}

// CountTokensRequest is the inbound body for the count_tokens endpoint.
// It shares the tolerant field shapes of CreateMessageRequest.
type CountTokensRequest struct {
	Model    string `json:"model"`
	Messages any    `json:"messages,omitempty"`
	System   any    `json:"system,omitempty"`
	Tools    any    `json:"tools,omitempty"`
}

// CountTokensResponse reports the estimated input token count.
type CountTokensResponse struct {
	InputTokens int `json:"input_tokens"`
}
