// internal/api/handler/projects.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"devmarket-gateway/internal/domain/projects"
	"devmarket-gateway/internal/domain/session"
	"devmarket-gateway/internal/upstream"
	"devmarket-gateway/pkg/errors"
)

type ProjectHandler struct {
	*Responder
	projects  *projects.Service
	validator session.Validator
}

func NewProjectHandler(rd *Responder, svc *projects.Service, v session.Validator) *ProjectHandler {
	return &ProjectHandler{
		Responder: rd,
		projects:  svc,
		validator: v,
	}
}

// identity returns the bearer token and session id of the caller, both empty
// for anonymous browsing.
func identity(r *http.Request) (token, sessionID string) {
	if sess, ok := session.FromContext(r.Context()); ok {
		return sess.Token, sess.ID
	}
	return "", ""
}

type listResponse struct {
	Projects []upstream.Project `json:"projects"`
	Skip     int                `json:"skip"`
	Limit    int                `json:"limit"`
}

func (h *ProjectHandler) list(w http.ResponseWriter, r *http.Request, token, sessionID string) {
	list, page, err := h.projects.Fetch(r.Context(), token, sessionID)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, r, listResponse{Projects: list, Skip: page.Skip, Limit: page.Limit})
}

// List applies the filter set from the query string and fetches the first
// page. Every filter change lands here, so skip is always reset before the
// fetch goes out.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	token, sessionID := identity(r)

	q := r.URL.Query()
	f := projects.Filters{TechStack: q.Get("tech_stack")}
	if raw := q.Get("min_budget"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.Fail(w, r, errors.NewBadRequestError("min_budget must be a non-negative integer"))
			return
		}
		f.MinBudget = &n
	}
	if raw := q.Get("max_budget"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.Fail(w, r, errors.NewBadRequestError("max_budget must be a non-negative integer"))
			return
		}
		f.MaxBudget = &n
	}

	h.projects.SetFilters(sessionID, f)
	h.list(w, r, token, sessionID)
}

// NextPage and PrevPage move the window by one page and re-query. The held
// filters are untouched.
func (h *ProjectHandler) NextPage(w http.ResponseWriter, r *http.Request) {
	token, sessionID := identity(r)
	h.projects.NextPage(sessionID)
	h.list(w, r, token, sessionID)
}

func (h *ProjectHandler) PrevPage(w http.ResponseWriter, r *http.Request) {
	token, sessionID := identity(r)
	h.projects.PrevPage(sessionID)
	h.list(w, r, token, sessionID)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	token, sessionID := identity(r)
	project, err := h.projects.GetProject(r.Context(), token, sessionID, chi.URLParam(r, "id"))
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, r, project)
}

func (h *ProjectHandler) UserProjects(w http.ResponseWriter, r *http.Request) {
	token, _ := identity(r)
	list, err := h.projects.UserProjects(r.Context(), token)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, r, list)
}

type createProjectRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Budget      float64  `json:"budget" validate:"gte=0"`
	TechStack   []string `json:"tech_stack" validate:"required,min=1"`
	Images      []string `json:"images" validate:"max=3,dive,url"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	token, _ := identity(r)

	var req createProjectRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.Fail(w, r, errors.NewBadRequestError("invalid request payload"))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.Fail(w, r, errors.NewValidationError(err.Error()))
		return
	}

	project, err := h.projects.CreateProject(r.Context(), token, upstream.ProjectCreate{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		TechStack:   req.TechStack,
		Images:      req.Images,
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.Created(w, r, project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	token, _ := identity(r)
	if err := h.projects.DeleteProject(r.Context(), token, chi.URLParam(r, "id")); err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, r, map[string]string{"message": "project deleted"})
}

type statusRequest struct {
	Status upstream.Status `json:"status" validate:"required,eq=COMPLETED"`
}

// Complete is the only status transition there is: OPEN -> COMPLETED.
func (h *ProjectHandler) Complete(w http.ResponseWriter, r *http.Request) {
	token, sessionID := identity(r)

	var req statusRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.Fail(w, r, errors.NewBadRequestError("invalid request payload"))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.Fail(w, r, errors.NewValidationError("status may only transition to COMPLETED"))
		return
	}

	project, err := h.projects.Complete(r.Context(), token, sessionID, chi.URLParam(r, "id"))
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, r, project)
}

func (h *ProjectHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	token, sessionID := identity(r)
	state, err := h.projects.ToggleLike(r.Context(), token, sessionID, chi.URLParam(r, "id"))
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, r, upstream.LikeResult{Liked: state.Liked, Likes: state.Count})
}

func (h *ProjectHandler) LikeStatus(w http.ResponseWriter, r *http.Request) {
	token, sessionID := identity(r)
	liked, err := h.projects.LikeStatus(r.Context(), token, sessionID, chi.URLParam(r, "id"))
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.OK(w, r, map[string]bool{"liked": liked})
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *ProjectHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	token, sessionID := identity(r)

	var req commentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.Fail(w, r, errors.NewBadRequestError("invalid request payload"))
		return
	}

	comment, err := h.projects.AddComment(r.Context(), token, sessionID, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.Created(w, r, comment)
}
