// internal/domain/projects/service.go
package projects

import (
	"context"
	"strings"
	"sync"

	"devmarket-gateway/internal/upstream"
	"devmarket-gateway/pkg/errors"
)

// API is the slice of the marketplace client the project surface needs.
type API interface {
	ListProjects(ctx context.Context, token string, q upstream.Query) ([]upstream.Project, error)
	UserProjects(ctx context.Context, token string) ([]upstream.Project, error)
	GetProject(ctx context.Context, token, id string) (*upstream.Project, error)
	CreateProject(ctx context.Context, token string, in upstream.ProjectCreate) (*upstream.Project, error)
	DeleteProject(ctx context.Context, token, id string) error
	UpdateProjectStatus(ctx context.Context, token, id string, status upstream.Status) (*upstream.Project, error)
	ToggleLike(ctx context.Context, token, id string) (*upstream.LikeResult, error)
	CheckLike(ctx context.Context, token, id string) (bool, error)
	AddComment(ctx context.Context, token, id, text string) (*upstream.Comment, error)
}

// likeEntry serializes like-toggles per (session, project). Holding mu across
// the upstream call keeps repeated toggles from drifting the count; the
// server response is the sole source of truth once a call settles.
type likeEntry struct {
	mu    sync.Mutex
	state LikeState
	seq   uint64
}

type Service struct {
	api      API
	registry *Registry

	likeMu sync.Mutex
	likes  map[string]*likeEntry
}

func NewService(api API) *Service {
	return &Service{
		api:      api,
		registry: NewRegistry(),
		likes:    make(map[string]*likeEntry),
	}
}

func (s *Service) likeEntryFor(sessionID, projectID string) *likeEntry {
	s.likeMu.Lock()
	defer s.likeMu.Unlock()
	key := sessionID + "\x00" + projectID
	e, ok := s.likes[key]
	if !ok {
		e = &likeEntry{}
		s.likes[key] = e
	}
	return e
}

func (s *Service) SetFilters(sessionID string, f Filters) {
	s.registry.Get(sessionID).SetFilters(f)
}

func (s *Service) NextPage(sessionID string) {
	s.registry.Get(sessionID).NextPage()
}

func (s *Service) PrevPage(sessionID string) {
	s.registry.Get(sessionID).PrevPage()
}

// Fetch re-queries the listing for the session's current filters and page.
// The result replaces the held list; stale generations are discarded.
func (s *Service) Fetch(ctx context.Context, token, sessionID string) ([]upstream.Project, Page, error) {
	st := s.registry.Get(sessionID)
	gen := st.BeginFetch()
	q := st.Query()

	list, err := s.api.ListProjects(ctx, token, q)
	if err != nil {
		st.ApplyError(gen, err.Error())
		return nil, st.Page(), err
	}
	st.ApplyResult(gen, list)
	return list, st.Page(), nil
}

func (s *Service) GetProject(ctx context.Context, token, sessionID, id string) (*upstream.Project, error) {
	project, err := s.api.GetProject(ctx, token, id)
	if err != nil {
		return nil, err
	}
	st := s.registry.Get(sessionID)
	st.SetCurrent(project)

	if sessionID != "" {
		e := s.likeEntryFor(sessionID, id)
		e.mu.Lock()
		e.state.Count = project.Likes
		e.mu.Unlock()
	}
	return project, nil
}

func (s *Service) CreateProject(ctx context.Context, token string, in upstream.ProjectCreate) (*upstream.Project, error) {
	return s.api.CreateProject(ctx, token, in)
}

func (s *Service) DeleteProject(ctx context.Context, token, id string) error {
	return s.api.DeleteProject(ctx, token, id)
}

func (s *Service) UserProjects(ctx context.Context, token string) ([]upstream.Project, error) {
	return s.api.UserProjects(ctx, token)
}

// Complete marks a project COMPLETED and swaps the server copy into the
// session's cached list and current view.
func (s *Service) Complete(ctx context.Context, token, sessionID, id string) (*upstream.Project, error) {
	project, err := s.api.UpdateProjectStatus(ctx, token, id, upstream.StatusCompleted)
	if err != nil {
		return nil, err
	}
	s.registry.Get(sessionID).ReplaceProject(project)
	return project, nil
}

// ToggleLike applies the flip optimistically, issues the call, then settles:
// the server value wins on success, the exact inverse of the optimistic delta
// is applied on failure. Calls for the same (session, project) are serialized.
func (s *Service) ToggleLike(ctx context.Context, token, sessionID, projectID string) (LikeState, error) {
	e := s.likeEntryFor(sessionID, projectID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seq++
	optimistic, pending := ApplyOptimistic(e.state, e.seq)
	e.state = optimistic

	result, err := s.api.ToggleLike(ctx, token, projectID)
	e.state = Reconcile(pending, result, err)
	return e.state, err
}

// LikeStatus asks the server whether the session's user likes the project and
// seeds the local flag with the answer.
func (s *Service) LikeStatus(ctx context.Context, token, sessionID, projectID string) (bool, error) {
	liked, err := s.api.CheckLike(ctx, token, projectID)
	if err != nil {
		return false, err
	}
	e := s.likeEntryFor(sessionID, projectID)
	e.mu.Lock()
	e.state.Liked = liked
	e.mu.Unlock()
	return liked, nil
}

// AddComment validates the text before any network call is made; the comment
// only reaches UI state after the server confirms it.
func (s *Service) AddComment(ctx context.Context, token, sessionID, projectID, text string) (*upstream.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewValidationError("comment text must not be empty")
	}
	comment, err := s.api.AddComment(ctx, token, projectID, text)
	if err != nil {
		return nil, err
	}
	s.registry.Get(sessionID).AppendComment(projectID, *comment)
	return comment, nil
}

// DropSession forgets the per-session browse and like state on sign-out.
func (s *Service) DropSession(sessionID string) {
	s.registry.Drop(sessionID)
	s.likeMu.Lock()
	defer s.likeMu.Unlock()
	prefix := sessionID + "\x00"
	for key := range s.likes {
		if strings.HasPrefix(key, prefix) {
			delete(s.likes, key)
		}
	}
}

// BrowseStateFor exposes the session's browse state for read-side handlers.
func (s *Service) BrowseStateFor(sessionID string) *BrowseState {
	return s.registry.Get(sessionID)
}
