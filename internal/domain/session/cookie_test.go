// internal/domain/session/cookie_test.go
package session

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieRoundTrip(t *testing.T) {
	codec := NewCookieCodec("test-secret", time.Hour, false)
	sess := &Session{
		ID:     "sid-1",
		UserID: "u1",
		Email:  "dev@example.com",
		Name:   "Dev",
		Token:  "tok-123",
	}

	cookie, err := codec.Issue(sess)
	require.NoError(t, err)

	decoded, err := codec.Decode(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, sess, decoded)
}

func TestCookieAttributes(t *testing.T) {
	codec := NewCookieCodec("test-secret", time.Hour, false)
	cookie, err := codec.Issue(&Session{ID: "sid-1"})
	require.NoError(t, err)

	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)
}

func TestCookieSecureInProduction(t *testing.T) {
	codec := NewCookieCodec("test-secret", time.Hour, true)
	cookie, err := codec.Issue(&Session{ID: "sid-1"})
	require.NoError(t, err)
	assert.True(t, cookie.Secure)
}

func TestTamperedCookieRejected(t *testing.T) {
	codec := NewCookieCodec("test-secret", time.Hour, false)
	cookie, err := codec.Issue(&Session{ID: "sid-1", Token: "tok-123"})
	require.NoError(t, err)

	_, err = codec.Decode(cookie.Value + "x")
	assert.Error(t, err)
}

func TestCookieSignedWithDifferentSecretRejected(t *testing.T) {
	issuer := NewCookieCodec("secret-a", time.Hour, false)
	verifier := NewCookieCodec("secret-b", time.Hour, false)

	cookie, err := issuer.Issue(&Session{ID: "sid-1"})
	require.NoError(t, err)

	_, err = verifier.Decode(cookie.Value)
	assert.Error(t, err)
}

func TestExpiredCookieRejected(t *testing.T) {
	codec := NewCookieCodec("test-secret", -time.Minute, false)
	cookie, err := codec.Issue(&Session{ID: "sid-1"})
	require.NoError(t, err)

	_, err = codec.Decode(cookie.Value)
	assert.Error(t, err)
}

func TestClearCookieExpiresImmediately(t *testing.T) {
	codec := NewCookieCodec("test-secret", time.Hour, false)
	cookie := codec.Clear()

	assert.Equal(t, CookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
}
