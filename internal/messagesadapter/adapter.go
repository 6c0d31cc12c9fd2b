package messagesadapter

import (
	"context"
	"iter"
	"net/http"

	"claude-openai-bridge/internal/messagesadapter/types"
)

// Adapter defines the contract for transforming client requests to provider
// API calls.
//
// Type parameters allow the interface to express transformation contracts for
// different request/response shapes while maintaining compile-time type safety.
//
// Type parameters:
//   - TRequest:  Client-specific request structure
//   - TResponse: Client-specific buffered response structure
//   - TEvent:    Client-specific streaming event protocol
type Adapter[TRequest, TResponse, TEvent any] interface {
	// ProcessRequest transforms the client request, calls the provider API, and
	// returns the transformed buffered response. Implementations should remain
	// stateless; per-response state lives in the returned values only.
	ProcessRequest(ctx context.Context, clientReq TRequest, transport http.RoundTripper) (*TResponse, error)

	// ProcessStreamingRequest transforms the client request, calls the provider
	// streaming API, and returns an iterator of translated events. Errors that
	// occur before the upstream response begins are returned directly; errors
	// after that surface through the iterator. Stopping the iteration releases
	// the upstream response.
	ProcessStreamingRequest(ctx context.Context, clientReq TRequest, transport http.RoundTripper) (iter.Seq2[types.StreamEvent, error], error)
}

// Type aliases for the Anthropic Messages operations served by the proxy.
// CreateMessageAdapter is the concrete adapter interface for this operation.
type (
	CreateMessageRequest = types.CreateMessageRequest
	MessageResponse      = types.MessageResponse
	MessageStreamEvent   = types.StreamEvent

	CreateMessageAdapter = Adapter[
		CreateMessageRequest,
		MessageResponse,
		MessageStreamEvent,
	]
)

// Type aliases for Anthropic-compatible error responses.
type (
	Error         = types.Error
	ErrorResponse = types.ErrorResponse
)
