package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"claude-openai-bridge/internal/messagesadapter/openaichat"
	"claude-openai-bridge/internal/observability/middleware"
)

// defaultMaxRequestBytes bounds inbound request bodies. Large multi-modal
// conversations with base64 images fit comfortably below this.
const defaultMaxRequestBytes int64 = 32 << 20

// ReadinessChecker reports whether the application is ready to serve traffic.
type ReadinessChecker interface {
	IsReady() bool
}

// Proxy is the HTTP front of the translation gateway. It owns the route
// table, the middleware chain, and the upstream transport; per-request
// translation state lives entirely in the adapter calls.
type Proxy struct {
	handler http.Handler
	server  *http.Server
}

// Compile-time check that Proxy can serve as a handler directly (tests mount
// it in httptest servers).
var _ http.Handler = (*Proxy)(nil)

// Option configures optional Proxy behavior.
type Option func(*options)

type options struct {
	baseTransport   http.RoundTripper
	upstreamBaseURL string
	maxRequestBytes int64
}

// WithTransport sets the base transport used for upstream calls. The
// authentication layer is stacked on top of it.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.baseTransport = rt }
}

// WithUpstreamBaseURL overrides the upstream API root.
func WithUpstreamBaseURL(baseURL string) Option {
	return func(o *options) { o.upstreamBaseURL = baseURL }
}

// WithRequestSizeLimit overrides the maximum accepted request body size.
func WithRequestSizeLimit(maxBytes int64) Option {
	return func(o *options) { o.maxRequestBytes = maxBytes }
}

// New creates a Proxy that authenticates upstream calls with tokens from the
// given source.
func New(tokenSource oauth2.TokenSource, health ReadinessChecker, opts ...Option) (*Proxy, error) {
	if tokenSource == nil {
		return nil, fmt.Errorf("token source cannot be nil")
	}
	if health == nil {
		return nil, fmt.Errorf("readiness checker cannot be nil")
	}

	o := options{
		baseTransport:   http.DefaultTransport,
		upstreamBaseURL: "https://api.openai.com/v1",
		maxRequestBytes: defaultMaxRequestBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}

	// Bearer auth is injected per request so token rotation in the source is
	// picked up without restarting.
	transport := &oauth2.Transport{
		Source: tokenSource,
		Base:   o.baseTransport,
	}

	messagesHandler := &CreateMessageHandler{
		Adapter:   openaichat.NewCreateMessageAdapter(o.upstreamBaseURL),
		Transport: transport,
	}

	mux := http.NewServeMux()
	mux.Handle("POST /v1/messages", messagesHandler)
	mux.Handle("POST /v1/messages/count_tokens", countTokensHandler())
	mux.Handle("GET /v1/models", modelsHandler())
	mux.Handle("GET /livez", livenessHandler())
	mux.Handle("GET /readyz", readinessHandler(health))

	handler := applyMiddlewares(mux,
		middleware.RequestIDGeneration,
		middleware.TraceContextExtraction,
		middleware.Logging(slog.Default()),
		middleware.RequestIDPropagation,
		Recovery,
		RequestSizeLimit(o.maxRequestBytes),
	)

	return &Proxy{handler: handler}, nil
}

// ServeHTTP implements http.Handler.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.handler.ServeHTTP(w, r)
}

// Start begins listening on addr and serves until Shutdown or failure.
// Runtime errors after a successful start are delivered on the returned
// channel.
func (p *Proxy) Start(ctx context.Context, addr string) (<-chan error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	p.server = &http.Server{
		Handler:     p.handler,
		ReadTimeout: 30 * time.Second,
		// WriteTimeout = 0: SSE responses are open-ended; slow-client
		// protection comes from upstream completion, not a fixed deadline.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	slog.InfoContext(ctx, "proxy listening", "addr", listener.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := p.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return errCh, nil
}

// Shutdown gracefully stops the server, waiting for in-flight streams up to
// the context deadline.
func (p *Proxy) Shutdown(ctx context.Context) error {
	if p.server == nil {
		return nil
	}
	return p.server.Shutdown(ctx)
}
