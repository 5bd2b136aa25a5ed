// internal/api/handler/auth.go
package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"devmarket-gateway/internal/domain/session"
	"devmarket-gateway/pkg/errors"
)

type AuthHandler struct {
	*Responder
	sessions  *session.Service
	exchanger session.CredentialExchanger
	validator session.Validator

	// dropState forgets the per-session browse state on sign-out.
	dropState func(sessionID string)
}

func NewAuthHandler(rd *Responder, sessions *session.Service, exchanger session.CredentialExchanger, v session.Validator, dropState func(string)) *AuthHandler {
	return &AuthHandler{
		Responder: rd,
		sessions:  sessions,
		exchanger: exchanger,
		validator: v,
		dropState: dropState,
	}
}

type sessionResponse struct {
	State  string `json:"state"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// SignIn runs the credential exchange. An already-authenticated caller is
// pointed back at the projects surface instead, like the page guard does.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); ok {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{"redirect": "/projects"})
		return
	}

	var req session.Credentials
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.Fail(w, r, errors.NewBadRequestError("invalid request payload"))
		return
	}

	sess, err := h.sessions.SignIn(r.Context(), &req)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.issue(w, r, sess)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req session.Registration
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.Fail(w, r, errors.NewBadRequestError("invalid request payload"))
		return
	}

	sess, err := h.sessions.Register(r.Context(), &req)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.issue(w, r, sess)
}

func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	cookie, err := h.sessions.IssueCookie(sess)
	if err != nil {
		h.Fail(w, r, errors.NewInternalError())
		return
	}
	http.SetCookie(w, cookie)
	h.OK(w, r, sessionResponse{
		State:  session.StateAuthenticated.String(),
		UserID: sess.UserID,
		Email:  sess.Email,
		Name:   sess.Name,
	})
}

// SignOut revokes the session, forgets its browse state, clears the cookie
// and points the client home.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		h.Fail(w, r, errors.NewAuthenticationError("no session found"))
		return
	}

	if err := h.sessions.SignOut(r.Context(), sess); err != nil {
		h.Fail(w, r, err)
		return
	}
	if h.dropState != nil {
		h.dropState(sess.ID)
	}

	http.SetCookie(w, h.sessions.ClearCookie())
	h.OK(w, r, map[string]string{"message": "signed out", "redirect": "/"})
}

// Session reports the lifecycle state for the page shell on load.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		h.OK(w, r, sessionResponse{State: session.StateAnonymous.String()})
		return
	}
	h.OK(w, r, sessionResponse{
		State:  session.StateAuthenticated.String(),
		UserID: sess.UserID,
		Email:  sess.Email,
		Name:   sess.Name,
	})
}

// Me proxies the profile of the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	user, err := h.exchanger.CurrentUser(r.Context(), sess.Token)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, r, user)
}

type profileRequest struct {
	Name string `json:"name" validate:"required"`
	Bio  string `json:"bio"`
}

// UpdateProfile edits name/bio and reissues the cookie with the refreshed
// identity. The bearer token is untouched.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req profileRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.Fail(w, r, errors.NewBadRequestError("invalid request payload"))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.Fail(w, r, errors.NewValidationError(err.Error()))
		return
	}

	user, refreshed, err := h.sessions.UpdateProfile(r.Context(), sess, req.Name, req.Bio)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.reissue(w, r, refreshed, user)
}

type profileImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

// UpdateProfileImage stores the object-storage URL produced by the external
// uploader; the gateway never sees the file bytes.
func (h *AuthHandler) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req profileImageRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.Fail(w, r, errors.NewBadRequestError("invalid request payload"))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.Fail(w, r, errors.NewValidationError(err.Error()))
		return
	}

	user, refreshed, err := h.sessions.UpdateProfileImage(r.Context(), sess, req.ImageURL)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.reissue(w, r, refreshed, user)
}

func (h *AuthHandler) reissue(w http.ResponseWriter, r *http.Request, sess *session.Session, data interface{}) {
	cookie, err := h.sessions.IssueCookie(sess)
	if err != nil {
		h.Fail(w, r, errors.NewInternalError())
		return
	}
	http.SetCookie(w, cookie)
	h.OK(w, r, data)
}
