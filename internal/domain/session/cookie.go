// internal/domain/session/cookie.go
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "devmarket.session-token"

type sessionClaims struct {
	UserID      string `json:"uid"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	AccessToken string `json:"act"`
	jwt.RegisteredClaims
}

// CookieCodec signs the session into an httpOnly SameSite=Lax cookie and
// verifies it back. Secure is set in production only.
type CookieCodec struct {
	secret []byte
	maxAge time.Duration
	secure bool
}

func NewCookieCodec(secret string, maxAge time.Duration, secure bool) *CookieCodec {
	return &CookieCodec{
		secret: []byte(secret),
		maxAge: maxAge,
		secure: secure,
	}
}

func (c *CookieCodec) Issue(s *Session) (*http.Cookie, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID:      s.UserID,
		Email:       s.Email,
		Name:        s.Name,
		AccessToken: s.Token,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

func (c *CookieCodec) Decode(value string) (*Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session cookie: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session cookie")
	}

	return &Session{
		ID:     claims.ID,
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Token:  claims.AccessToken,
	}, nil
}

func (c *CookieCodec) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
