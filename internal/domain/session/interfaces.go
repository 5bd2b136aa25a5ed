// internal/domain/session/interfaces.go
package session

import (
	"context"
	"net/http"
	"time"

	"devmarket-gateway/internal/upstream"
)

type Validator interface {
	Validate(interface{}) error
}

// CredentialExchanger turns credentials into a bearer token and resolves the
// identity behind a token.
type CredentialExchanger interface {
	ExchangeToken(ctx context.Context, username, password string) (*upstream.TokenResponse, error)
	CurrentUser(ctx context.Context, token string) (*upstream.User, error)
	Register(ctx context.Context, name, email, password string) (*upstream.User, error)
}

// ProfileAPI covers the profile edits that refresh the session identity.
type ProfileAPI interface {
	UpdateProfile(ctx context.Context, token, name, bio string) (*upstream.User, error)
	UpdateProfileImage(ctx context.Context, token, imageURL string) (*upstream.User, error)
}

// TokenStore persists the session across reloads. The cookie, not client-held
// memory, is the durable store.
type TokenStore interface {
	Issue(s *Session) (*http.Cookie, error)
	Decode(value string) (*Session, error)
	Clear() *http.Cookie
}

// Denylist records evicted session ids so an evicted bearer token is never
// attached to a subsequent request.
type Denylist interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}
