package openaichat

import (
	"context"
	"iter"
	"net/http"

	"claude-openai-bridge/internal/messagesadapter"
	"claude-openai-bridge/internal/messagesadapter/types"
)

// CreateMessageAdapter translates Anthropic CreateMessage requests into
// OpenAI-compatible chat-completion calls. The adapter is stateless; all
// per-response state lives in the stream session created per call.
type CreateMessageAdapter struct {
	// BaseURL is the upstream API root, e.g. "https://api.openai.com/v1".
	BaseURL string
}

// Compile-time check that the adapter satisfies the generic contract.
var _ messagesadapter.CreateMessageAdapter = (*CreateMessageAdapter)(nil)

// NewCreateMessageAdapter creates an adapter for the given upstream API root.
func NewCreateMessageAdapter(baseURL string) *CreateMessageAdapter {
	return &CreateMessageAdapter{BaseURL: baseURL}
}

// ProcessStreamingRequest normalizes the client request, dispatches the
// upstream streaming call, and returns an iterator of translated Messages
// events.
//
// Upstream failures before the response begins are returned directly (and can
// still become a structured error response); failures after that surface
// through the iterator. Stopping the iteration early releases the upstream
// response body.
func (a *CreateMessageAdapter) ProcessStreamingRequest(
	ctx context.Context,
	clientReq types.CreateMessageRequest,
	transport http.RoundTripper,
) (iter.Seq2[types.StreamEvent, error], error) {
	upstreamClient, err := newClient(a.BaseURL, transport)
	if err != nil {
		return nil, err
	}

	upstreamReq := fromCreateMessageRequest(clientReq)
	resp, err := upstreamClient.stream(ctx, upstreamReq)
	if err != nil {
		return nil, err
	}

	inputTokens := estimateInputTokens(upstreamReq)

	return func(yield func(types.StreamEvent, error) bool) {
		if !yield(newMessageStart(clientReq.Model, inputTokens), nil) {
			_ = resp.Body.Close()
			return
		}

		session := newStreamSession()
		for chunk, err := range upstreamClient.chunks(ctx, resp) {
			if err != nil {
				yield(nil, err)
				return
			}

			var events []types.StreamEvent
			session, events = session.apply(chunk)
			for _, event := range events {
				if !yield(event, nil) {
					return
				}
			}
		}

		for _, event := range session.finish(inputTokens) {
			if !yield(event, nil) {
				return
			}
		}
	}, nil
}

// ProcessRequest serves the buffered (non-streaming) mode. The upstream is
// still consumed as a stream - the normalized request always forces
// stream=true - and the translated blocks are aggregated into a full
// MessageResponse.
func (a *CreateMessageAdapter) ProcessRequest(
	ctx context.Context,
	clientReq types.CreateMessageRequest,
	transport http.RoundTripper,
) (*types.MessageResponse, error) {
	upstreamClient, err := newClient(a.BaseURL, transport)
	if err != nil {
		return nil, err
	}

	upstreamReq := fromCreateMessageRequest(clientReq)
	resp, err := upstreamClient.stream(ctx, upstreamReq)
	if err != nil {
		return nil, err
	}

	session := newStreamSession()
	for chunk, err := range upstreamClient.chunks(ctx, resp) {
		if err != nil {
			return nil, err
		}
		session, _ = session.apply(chunk)
	}

	return collectResponse(session, clientReq.Model, estimateInputTokens(upstreamReq)), nil
}
