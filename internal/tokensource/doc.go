// Package tokensource bridges stored upstream API keys into the oauth2
// credential model used by the proxy's transport layer.
//
// OpenAI-compatible providers authenticate with long-lived bearer keys rather
// than refresh-token flows, so the source here wraps a key store instead of a
// token endpoint. Returning oauth2.TokenSource keeps the transport wiring
// uniform: the proxy stacks oauth2.Transport over its base transport and
// never handles credentials directly.
//
// # Usage
//
//	store, _ := cfg.Auth.NewTokenStore()
//	ts := tokensource.FromStore(store)
//	transport := &oauth2.Transport{Source: ts, Base: http.DefaultTransport}
//
// The store is consulted on each token request, so key rotation (keyring or
// file updates) is picked up without restarting the process.
package tokensource
