package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"claude-openai-bridge/internal/messagesadapter"
	"claude-openai-bridge/internal/messagesadapter/types"
)

// CreateMessageHandler handles Anthropic-compatible Messages API requests.
type CreateMessageHandler struct {
	Adapter   messagesadapter.CreateMessageAdapter
	Transport http.RoundTripper
}

// Compile-time check to ensure CreateMessageHandler implements http.Handler
var _ http.Handler = (*CreateMessageHandler)(nil)

// ServeHTTP implements http.Handler interface for streaming or buffered requests.
func (h *CreateMessageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req messagesadapter.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			slog.WarnContext(ctx, "request exceeds size limit", "limit_bytes", maxBytesErr.Limit)
			writeJSONMessagesError(ctx, w, newMessagesError(
				"invalid_request_error",
				http.StatusText(http.StatusRequestEntityTooLarge),
			))
			return
		}
		slog.ErrorContext(ctx, "failed to decode request", "error", err)
		writeJSONMessagesError(ctx, w, newMessagesError(
			"invalid_request_error",
			http.StatusText(http.StatusBadRequest),
		))
		return
	}

	if req.Stream != nil && *req.Stream {
		h.streamResponse(ctx, w, req)
	} else {
		h.writeResponse(ctx, w, req)
	}
}

// writeResponse handles buffered (non-streaming) message requests.
func (h *CreateMessageHandler) writeResponse(
	ctx context.Context,
	w http.ResponseWriter,
	req messagesadapter.CreateMessageRequest,
) {
	if ctx.Err() != nil {
		return
	}
	response, err := h.Adapter.ProcessRequest(ctx, req, h.Transport)
	if err != nil {
		slog.ErrorContext(ctx, "request failed", "error", err)

		var errResp *messagesadapter.ErrorResponse
		if errors.As(err, &errResp) {
			writeJSONMessagesError(ctx, w, errResp)
			return
		}

		writeJSONMessagesError(ctx, w, newMessagesError(
			"api_error",
			http.StatusText(http.StatusInternalServerError),
		))
		return
	}

	writeJSON(ctx, w, response, http.StatusOK)
}

// streamResponse streams translated message events using SSE.
func (h *CreateMessageHandler) streamResponse(
	ctx context.Context,
	w http.ResponseWriter,
	req messagesadapter.CreateMessageRequest,
) {
	if ctx.Err() != nil {
		return
	}
	stream, err := h.Adapter.ProcessStreamingRequest(ctx, req, h.Transport)
	if err != nil {
		slog.ErrorContext(ctx, "streaming request failed", "error", err)

		var errResp *messagesadapter.ErrorResponse
		if errors.As(err, &errResp) {
			writeJSONMessagesError(ctx, w, errResp)
			return
		}

		writeJSONMessagesError(ctx, w, newMessagesError(
			"api_error",
			http.StatusText(http.StatusInternalServerError),
		))
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		slog.ErrorContext(ctx, "SSE not supported", "error", err)
		writeJSONMessagesError(ctx, w, newMessagesError(
			"api_error",
			http.StatusText(http.StatusInternalServerError),
		))
		return
	}

	for event, err := range stream {
		// Check for client disconnect before processing the event
		if ctx.Err() != nil {
			slog.DebugContext(ctx, "client disconnected during stream")
			return
		}

		if err != nil {
			// Headers and earlier events are already committed, so the
			// failure cannot become a structured error response. Emit a
			// terminal error event and close; the client infers failure from
			// the truncated stream either way.
			slog.ErrorContext(ctx, "stream error", "error", err)
			writeStreamError(ctx, sse, err)
			return
		}

		if writeErr := sse.WriteEvent(event.EventName()); writeErr != nil {
			slog.ErrorContext(ctx, "failed to write event name", "error", writeErr)
			return
		}
		if writeErr := sse.WriteData(event); writeErr != nil {
			slog.ErrorContext(ctx, "failed to write event payload", "error", writeErr)
			return
		}
	}
}

// writeStreamError emits a terminal `error` event in Anthropic's SSE error
// shape.
func writeStreamError(ctx context.Context, sse *SSEWriter, err error) {
	event := types.ErrorEvent{
		Type:  "error",
		Error: types.Error{Type: "api_error", Message: err.Error()},
	}

	var upstreamErr *messagesadapter.ErrorResponse
	if errors.As(err, &upstreamErr) {
		event.Error = upstreamErr.Err
	}

	if writeErr := sse.WriteEvent(event.EventName()); writeErr != nil {
		slog.ErrorContext(ctx, "failed to write error event name", "error", writeErr)
		return
	}
	if writeErr := sse.WriteData(event); writeErr != nil {
		slog.ErrorContext(ctx, "failed to write error event", "error", writeErr)
	}
}

// newMessagesError builds an Anthropic-compatible error response value.
func newMessagesError(errType, message string) *messagesadapter.ErrorResponse {
	return &messagesadapter.ErrorResponse{
		Type: "error",
		Err:  messagesadapter.Error{Type: errType, Message: message},
	}
}
