package openaichat

import (
	"net/http"
	"strings"
	"testing"
)

func TestToMessagesError(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		expectedType    string
		expectedMessage string
	}{
		{
			name:            "openai error envelope",
			status:          http.StatusUnauthorized,
			body:            `{"error":{"message":"Incorrect API key provided","type":"authentication_error"}}`,
			expectedType:    "authentication_error",
			expectedMessage: "Incorrect API key provided",
		},
		{
			name:            "quota errors map to rate limit",
			status:          http.StatusTooManyRequests,
			body:            `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota"}}`,
			expectedType:    "rate_limit_error",
			expectedMessage: "You exceeded your current quota",
		},
		{
			name:            "plain text body",
			status:          http.StatusBadGateway,
			body:            "upstream connect error",
			expectedType:    "api_error",
			expectedMessage: "upstream connect error",
		},
		{
			name:            "empty body falls back to status text",
			status:          http.StatusServiceUnavailable,
			body:            "",
			expectedType:    "api_error",
			expectedMessage: http.StatusText(http.StatusServiceUnavailable),
		},
		{
			name:            "unknown type falls back to status mapping",
			status:          http.StatusNotFound,
			body:            `{"error":{"message":"model not found","type":"weird_custom_type"}}`,
			expectedType:    "not_found_error",
			expectedMessage: "model not found",
		},
		{
			name:            "generic 4xx becomes invalid request",
			status:          http.StatusUnprocessableEntity,
			body:            `{"error":{"message":"bad params"}}`,
			expectedType:    "invalid_request_error",
			expectedMessage: "bad params",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errResp := toMessagesError(tt.status, []byte(tt.body))

			if errResp.Err.Type != tt.expectedType {
				t.Errorf("Expected type %q, got %q", tt.expectedType, errResp.Err.Type)
			}
			if !strings.Contains(errResp.Err.Message, tt.expectedMessage) {
				t.Errorf("Expected message to contain %q, got %q", tt.expectedMessage, errResp.Err.Message)
			}
		})
	}
}

func TestMapUpstreamErrorType_TypeBeatsStatus(t *testing.T) {
	// The upstream's own taxonomy wins even when the status suggests otherwise.
	if got := mapUpstreamErrorType(http.StatusInternalServerError, "rate_limit_error"); got != "rate_limit_error" {
		t.Errorf("Expected rate_limit_error, got %q", got)
	}
	if got := mapUpstreamErrorType(http.StatusBadRequest, "server_error"); got != "api_error" {
		t.Errorf("Expected api_error, got %q", got)
	}
}
