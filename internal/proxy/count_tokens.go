package proxy

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"claude-openai-bridge/internal/messagesadapter/types"
)

// countTokensHandler serves token-count estimates for Messages API requests.
//
// The upstream provider has no token-counting endpoint, so the estimate uses
// the same chars/4 heuristic the proxy reports in streaming usage. Clients
// use this for context-window budgeting, where a rough but stable estimate is
// sufficient.
func countTokensHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req types.CountTokensRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.ErrorContext(ctx, "failed to decode request", "error", err)
			writeJSONMessagesError(ctx, w, newMessagesError(
				"invalid_request_error",
				http.StatusText(http.StatusBadRequest),
			))
			return
		}

		chars := 0
		for _, field := range []any{req.System, req.Messages, req.Tools} {
			if field == nil {
				continue
			}
			if encoded, err := json.Marshal(field); err == nil {
				chars += len(encoded)
			}
		}

		writeJSON(ctx, w, types.CountTokensResponse{InputTokens: chars / 4}, http.StatusOK)
	}
}
