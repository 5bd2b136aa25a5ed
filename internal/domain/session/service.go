// internal/domain/session/service.go
package session

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"devmarket-gateway/internal/upstream"
	"devmarket-gateway/pkg/errors"
)

// Service owns the session lifecycle. Expiry is push-style only: a 401 on any
// data call evicts the session through Evict; there is no client-side timer.
type Service struct {
	exchanger CredentialExchanger
	profiles  ProfileAPI
	denylist  Denylist
	tokens    TokenStore
	validator Validator
	maxAge    time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(exchanger CredentialExchanger, profiles ProfileAPI, denylist Denylist, tokens TokenStore, v Validator, maxAge time.Duration) *Service {
	return &Service{
		exchanger: exchanger,
		profiles:  profiles,
		denylist:  denylist,
		tokens:    tokens,
		validator: v,
		maxAge:    maxAge,
		inFlight:  make(map[string]struct{}),
	}
}

func (s *Service) begin(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[username]; busy {
		return false
	}
	s.inFlight[username] = struct{}{}
	return true
}

func (s *Service) end(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, username)
}

// SignIn exchanges credentials for a bearer token, then resolves the identity
// behind it. Both calls must succeed or no session is created. A second
// attempt for the same username while one is in flight is rejected.
func (s *Service) SignIn(ctx context.Context, req *Credentials) (*Session, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if !s.begin(req.Username) {
		return nil, errors.NewConflictError("a sign-in attempt is already in progress")
	}
	defer s.end(req.Username)

	tok, err := s.exchanger.ExchangeToken(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.exchanger.CurrentUser(ctx, tok.AccessToken)
	if err != nil {
		// Profile fetch failed: the transition fails entirely, the caller
		// stays anonymous.
		return nil, err
	}

	return &Session{
		ID:     uuid.NewString(),
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Token:  tok.AccessToken,
	}, nil
}

// Register creates the account upstream and then signs in with the same
// credentials, so a successful registration lands authenticated.
func (s *Service) Register(ctx context.Context, req *Registration) (*Session, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if _, err := s.exchanger.Register(ctx, req.Name, req.Email, req.Password); err != nil {
		return nil, err
	}
	return s.SignIn(ctx, &Credentials{Username: req.Email, Password: req.Password})
}

// SignOut revokes the session id for the remaining cookie lifetime.
func (s *Service) SignOut(ctx context.Context, sess *Session) error {
	if err := s.denylist.Revoke(ctx, sess.ID, s.maxAge); err != nil {
		return errors.NewInternalError()
	}
	return nil
}

// Resolve verifies a raw cookie value against the codec and the denylist.
func (s *Service) Resolve(ctx context.Context, raw string) (*Session, error) {
	sess, err := s.tokens.Decode(raw)
	if err != nil {
		return nil, errors.NewAuthenticationError("invalid session")
	}
	revoked, err := s.denylist.IsRevoked(ctx, sess.ID)
	if err != nil {
		return nil, errors.NewInternalError()
	}
	if revoked {
		return nil, errors.NewAuthenticationError("session revoked")
	}
	return sess, nil
}

// Evict is the 401 hook: it revokes whatever session rode in on the request
// context. Safe to call on anonymous requests.
func (s *Service) Evict(ctx context.Context) {
	sess, ok := FromContext(ctx)
	if !ok {
		return
	}
	if err := s.denylist.Revoke(ctx, sess.ID, s.maxAge); err != nil {
		log.Printf("evict session %s: %v", sess.ID, err)
	}
}

// UpdateProfile edits name/bio upstream and refreshes the session identity.
// The token and session id are unchanged; refreshing never transitions state.
func (s *Service) UpdateProfile(ctx context.Context, sess *Session, name, bio string) (*upstream.User, *Session, error) {
	user, err := s.profiles.UpdateProfile(ctx, sess.Token, name, bio)
	if err != nil {
		return nil, nil, err
	}
	return user, s.refresh(sess, user), nil
}

func (s *Service) UpdateProfileImage(ctx context.Context, sess *Session, imageURL string) (*upstream.User, *Session, error) {
	user, err := s.profiles.UpdateProfileImage(ctx, sess.Token, imageURL)
	if err != nil {
		return nil, nil, err
	}
	return user, s.refresh(sess, user), nil
}

func (s *Service) refresh(sess *Session, user *upstream.User) *Session {
	return &Session{
		ID:     sess.ID,
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Token:  sess.Token,
	}
}

func (s *Service) IssueCookie(sess *Session) (*http.Cookie, error) {
	return s.tokens.Issue(sess)
}

func (s *Service) ClearCookie() *http.Cookie {
	return s.tokens.Clear()
}
