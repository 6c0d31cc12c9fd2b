package proxy

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

// benchTransport replays a fixed upstream body for every request.
type benchTransport struct {
	responseBody string
}

func (b *benchTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(b.responseBody)),
		Header:     http.Header{"Content-Type": []string{"text/event-stream"}},
		Request:    req,
	}, nil
}

const benchMessagesRequest = `{"model":"gpt-4o","max_tokens":512,"stream":true,` +
	`"system":"You are a helpful assistant.",` +
	`"messages":[{"role":"user","content":"Summarize the plot of Moby Dick in two sentences."}]}`

const benchUpstreamStream = `data: {"choices":[{"delta":{"content":"Ishmael joins the whaling ship Pequod, "}}]}

data: {"choices":[{"delta":{"content":"whose captain Ahab obsessively hunts the white whale. "}}]}

data: {"choices":[{"delta":{"content":"The pursuit destroys the ship and everyone aboard except Ishmael."}}]}

data: {"choices":[{"delta":{},"finish_reason":"stop"}],"usage":{"prompt_tokens":28,"completion_tokens":35,"total_tokens":63}}

data: [DONE]
`

// setupBenchProxy creates a Proxy with the full middleware stack but a mocked
// upstream. Suppresses logging to isolate benchmark measurements from I/O
// overhead.
func setupBenchProxy(b *testing.B) *httptest.Server {
	b.Helper()

	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "bench-token"})
	proxy, err := New(tokenSource, mockReadinessChecker{ready: true},
		WithTransport(&benchTransport{responseBody: benchUpstreamStream}))
	if err != nil {
		b.Fatalf("Failed to create proxy: %v", err)
	}

	server := httptest.NewServer(proxy)
	b.Cleanup(server.Close)
	return server
}

// BenchmarkProxyStreaming measures end-to-end streaming latency through the
// Messages front: routing, middleware, translation, and SSE encoding, with
// network latency excluded by the mocked transport.
func BenchmarkProxyStreaming(b *testing.B) {
	server := setupBenchProxy(b)

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		resp, err := http.Post(server.URL+"/v1/messages", "application/json", strings.NewReader(benchMessagesRequest))
		if err != nil {
			b.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			b.Fatalf("Unexpected status code: %d", resp.StatusCode)
		}

		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			b.Fatalf("Stream read error: %v", err)
		}
		_ = resp.Body.Close()
	}
}

// BenchmarkProxyStreaming_TTFB measures time to first byte for streaming
// responses. TTFB dominates perceived responsiveness: the opening
// message_start frame must reach the client before any upstream content
// arrives.
func BenchmarkProxyStreaming_TTFB(b *testing.B) {
	server := setupBenchProxy(b)

	b.ReportAllocs()
	b.ResetTimer()

	var totalTTFB time.Duration
	var iterations int
	buf := make([]byte, 1)

	for b.Loop() {
		start := time.Now()

		resp, err := http.Post(server.URL+"/v1/messages", "application/json", strings.NewReader(benchMessagesRequest))
		if err != nil {
			b.Fatalf("Request failed: %v", err)
		}

		if _, err := resp.Body.Read(buf); err != nil {
			b.Fatalf("Failed to read first byte: %v", err)
		}

		totalTTFB += time.Since(start)
		iterations++

		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}

	avgTTFB := totalTTFB / time.Duration(iterations)
	b.ReportMetric(float64(avgTTFB.Microseconds()), "µs/ttfb")
}

// BenchmarkProxyStreaming_Concurrent measures streaming throughput under
// concurrent load.
func BenchmarkProxyStreaming_Concurrent(b *testing.B) {
	server := setupBenchProxy(b)

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			resp, err := http.Post(server.URL+"/v1/messages", "application/json", strings.NewReader(benchMessagesRequest))
			if err != nil {
				b.Fatalf("Request failed: %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				b.Fatalf("Unexpected status code: %d", resp.StatusCode)
			}

			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				b.Fatalf("Stream read error: %v", err)
			}
			_ = resp.Body.Close()
		}
	})
}
