package tokensource

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// Store is the minimal key-store contract this package depends on. It matches
// the application's TokenStore without importing it.
type Store interface {
	Read(ctx context.Context) (string, error)
}

// FromStore returns an oauth2.TokenSource that reads the upstream API key
// from the store on demand. API keys have no expiry, so the returned tokens
// never trigger oauth2's refresh machinery.
func FromStore(store Store) oauth2.TokenSource {
	return &storeSource{store: store}
}

type storeSource struct {
	store Store
}

// Token implements oauth2.TokenSource.
func (s *storeSource) Token() (*oauth2.Token, error) {
	key, err := s.store.Read(context.Background())
	if err != nil {
		return nil, fmt.Errorf("reading upstream API key: %w", err)
	}

	return &oauth2.Token{
		AccessToken: key,
		TokenType:   "Bearer",
	}, nil
}
