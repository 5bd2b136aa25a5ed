// internal/domain/session/model.go
package session

import "context"

// State of the session lifecycle. Transitions:
// Anonymous -> Authenticating -> Authenticated -> (Expired|SignedOut) -> Anonymous.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
	StateExpired
	StateSignedOut
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "AUTHENTICATING"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateExpired:
		return "EXPIRED"
	case StateSignedOut:
		return "SIGNED_OUT"
	default:
		return "ANONYMOUS"
	}
}

// Session is the client-held identity plus its bearer token. ID is unique per
// issued session and doubles as the denylist key when the session is evicted.
type Session struct {
	ID     string
	UserID string
	Email  string
	Name   string
	Token  string
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok
}
