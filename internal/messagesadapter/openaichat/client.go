package openaichat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"
)

// maxErrorBodyBytes bounds how much of an upstream error body is read.
const maxErrorBodyBytes = 1 << 20

// client dispatches normalized requests to an OpenAI-compatible upstream and
// exposes the response as a lazy chunk sequence.
type client struct {
	baseURL    string
	httpClient *http.Client
}

// newClient creates an upstream client with the provided transport.
// The transport chain needs to handle authentication.
func newClient(baseURL string, transport http.RoundTripper) (*client, error) {
	if transport == nil {
		return nil, fmt.Errorf("transport cannot be nil")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: transport,
			// Client.Timeout = 0 allows long-running SSE streams (bounded by server WriteTimeout)
		},
	}, nil
}

// stream dispatches the chat-completions call and returns the open response.
// A non-2xx status is captured, together with the body text, and raised as a
// single descriptive error before any streaming begins.
func (c *client) stream(ctx context.Context, upstreamReq chatCompletionRequest) (*http.Response, error) {
	payload, err := json.Marshal(upstreamReq)
	if err != nil {
		return nil, fmt.Errorf("marshaling upstream request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating upstream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if upstreamReq.vision {
		// Signals routing layers that the selected provider must support
		// image input.
		httpReq.Header.Set("X-Proxy-Vision", "true")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		_ = resp.Body.Close()
		return nil, toMessagesError(resp.StatusCode, body)
	}

	return resp, nil
}

// chunks exposes the SSE response body as a lazy chunk sequence.
//
// Lines are consumed in arrival order; the [DONE] sentinel marks end of
// sequence and is not forwarded; malformed data lines are logged and skipped.
// The body is released when the sequence ends or the consumer stops early.
func (c *client) chunks(ctx context.Context, resp *http.Response) iter.Seq2[*chatCompletionChunk, error] {
	return func(yield func(*chatCompletionChunk, error) bool) {
		defer func() { _ = resp.Body.Close() }()

		scanner := newSSEScanner(resp.Body)
		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}

			data, ok := sseDataLine(scanner.Text())
			if !ok {
				continue
			}
			if data == "[DONE]" {
				return
			}

			var chunk chatCompletionChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				slog.WarnContext(ctx, "skipping malformed upstream chunk", "error", err)
				continue
			}

			if !yield(&chunk, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("reading upstream stream: %w", err))
		}
	}
}
