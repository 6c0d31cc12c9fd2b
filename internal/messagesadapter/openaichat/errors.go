package openaichat

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"claude-openai-bridge/internal/messagesadapter/types"
)

// toMessagesError converts an upstream non-2xx response into an Anthropic-
// compatible error. Providers disagree on error body shapes, so the fields
// are extracted tolerantly: an OpenAI-style {"error":{...}} envelope when
// present, otherwise the body text itself.
func toMessagesError(status int, body []byte) *types.ErrorResponse {
	message := gjson.GetBytes(body, "error.message").String()
	if message == "" {
		message = strings.TrimSpace(string(body))
	}
	if message == "" {
		message = http.StatusText(status)
	}

	return types.NewErrorResponse(
		mapUpstreamErrorType(status, gjson.GetBytes(body, "error.type").String()),
		fmt.Sprintf("upstream returned status %d: %s", status, message),
	)
}

// mapUpstreamErrorType translates the upstream error taxonomy to Anthropic-
// compatible error types, falling back to a status-based mapping when the
// body carries no usable type.
func mapUpstreamErrorType(status int, upstreamType string) string {
	switch upstreamType {
	case "invalid_request_error":
		return "invalid_request_error"
	case "authentication_error":
		return "authentication_error"
	case "permission_denied":
		return "permission_error"
	case "rate_limit_error", "insufficient_quota":
		return "rate_limit_error"
	case "server_error", "api_error":
		return "api_error"
	}

	switch {
	case status == http.StatusUnauthorized:
		return "authentication_error"
	case status == http.StatusForbidden:
		return "permission_error"
	case status == http.StatusNotFound:
		return "not_found_error"
	case status == http.StatusTooManyRequests:
		return "rate_limit_error"
	case status >= 400 && status < 500:
		return "invalid_request_error"
	default:
		return "api_error"
	}
}
