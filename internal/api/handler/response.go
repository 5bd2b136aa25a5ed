// internal/api/handler/response.go
package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/render"

	"devmarket-gateway/internal/domain/session"
	"devmarket-gateway/pkg/errors"
)

// Error wraps error messages for consistent JSON responses. Redirect is set
// when the client should navigate away, e.g. after a forced session teardown.
type Error struct {
	Status   int    `json:"status"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// Responder maps the error taxonomy onto HTTP responses. It is the one place
// where an AuthenticationError turns into a cleared cookie plus a redirect to
// the sign-in surface.
type Responder struct {
	sessions *session.Service
}

func NewResponder(sessions *session.Service) *Responder {
	return &Responder{sessions: sessions}
}

func (rd *Responder) OK(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, data)
}

func (rd *Responder) Created(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, data)
}

func (rd *Responder) Fail(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("Error: %v", err)
	switch e := err.(type) {
	case *errors.ValidationError:
		rd.write(w, r, http.StatusBadRequest, e.Error(), "")
	case *errors.BadRequestError:
		rd.write(w, r, http.StatusBadRequest, e.Error(), "")
	case *errors.AuthenticationError:
		http.SetCookie(w, rd.sessions.ClearCookie())
		rd.write(w, r, http.StatusUnauthorized, e.Error(), "/sign-in")
	case *errors.ConflictError:
		rd.write(w, r, http.StatusConflict, e.Error(), "")
	case *errors.NetworkError:
		rd.write(w, r, http.StatusBadGateway, "could not reach the marketplace service, please try again", "")
	case *errors.ServerError:
		rd.write(w, r, http.StatusBadGateway, "the marketplace service failed to handle the request", "")
	default:
		rd.write(w, r, http.StatusInternalServerError, errors.NewInternalError().Error(), "")
	}
}

func (rd *Responder) write(w http.ResponseWriter, r *http.Request, status int, message, redirect string) {
	render.Status(r, status)
	render.JSON(w, r, Error{
		Status:   status,
		Message:  message,
		Redirect: redirect,
	})
}
