package openaichat

// Upstream wire types for the OpenAI-compatible chat-completions protocol.
// Only the fields this adapter reads or writes are declared; unknown fields
// arriving from the upstream are ignored by encoding/json.

// chatCompletionRequest is the request payload sent upstream. Stream is always
// forced to true by normalization; buffered responses are aggregated locally.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
	Tools       []chatTool    `json:"tools,omitempty"`

	// vision is set when at least one message carries an image part, so the
	// client can attach the vision-capability header before dispatch.
	// Unexported, so never part of the wire payload.
	vision bool
}

// chatMessage is one conversation turn in OpenAI shape. Content is either a
// plain string or an ordered []chatContentPart when the turn carries images.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// chatContentPart is one typed content item of a multi-part message.
type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// chatTool is one tool definition in OpenAI's function-calling shape.
type chatTool struct {
	Type     string           `json:"type"`
	Function chatToolFunction `json:"function"`
}

type chatToolFunction struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
}

// chatCompletionChunk is one raw streaming delta received from the upstream.
type chatCompletionChunk struct {
	ID      string       `json:"id,omitempty"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Delta        chatDelta `json:"delta"`
	FinishReason string    `json:"finish_reason,omitempty"`
}

type chatDelta struct {
	Content   string             `json:"content,omitempty"`
	ToolCalls []chatToolCallPart `json:"tool_calls,omitempty"`
}

// chatToolCallPart is one incremental tool-call fragment. Name arrives on the
// first fragment; Arguments accumulates across fragments.
type chatToolCallPart struct {
	Index    int              `json:"index,omitempty"`
	ID       string           `json:"id,omitempty"`
	Function chatCallFunction `json:"function"`
}

type chatCallFunction struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
