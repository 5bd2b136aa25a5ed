// internal/domain/projects/service_test.go
package projects

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devmarket-gateway/internal/upstream"
	"devmarket-gateway/pkg/errors"
)

// fakeAPI is an in-memory stand-in for the upstream client. Per-method call
// counters let tests assert which operations hit the network.
type fakeAPI struct {
	mu sync.Mutex

	listCalls    int
	toggleCalls  int
	commentCalls int

	liked bool
	likes int

	list       func(q upstream.Query) ([]upstream.Project, error)
	get        func(id string) (*upstream.Project, error)
	toggleErr  error
	comment    func(id, text string) (*upstream.Comment, error)
	updateStat func(id string, status upstream.Status) (*upstream.Project, error)
}

func (f *fakeAPI) ListProjects(ctx context.Context, token string, q upstream.Query) ([]upstream.Project, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
	if f.list != nil {
		return f.list(q)
	}
	return []upstream.Project{}, nil
}

func (f *fakeAPI) UserProjects(ctx context.Context, token string) ([]upstream.Project, error) {
	return []upstream.Project{{ID: "mine"}}, nil
}

func (f *fakeAPI) GetProject(ctx context.Context, token, id string) (*upstream.Project, error) {
	if f.get != nil {
		return f.get(id)
	}
	return &upstream.Project{ID: id}, nil
}

func (f *fakeAPI) CreateProject(ctx context.Context, token string, in upstream.ProjectCreate) (*upstream.Project, error) {
	return &upstream.Project{ID: "new", Title: in.Title}, nil
}

func (f *fakeAPI) DeleteProject(ctx context.Context, token, id string) error {
	return nil
}

func (f *fakeAPI) UpdateProjectStatus(ctx context.Context, token, id string, status upstream.Status) (*upstream.Project, error) {
	if f.updateStat != nil {
		return f.updateStat(id, status)
	}
	return &upstream.Project{ID: id, Status: status}, nil
}

func (f *fakeAPI) ToggleLike(ctx context.Context, token, id string) (*upstream.LikeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggleCalls++
	if f.toggleErr != nil {
		return nil, f.toggleErr
	}
	f.liked = !f.liked
	if f.liked {
		f.likes++
	} else {
		f.likes--
	}
	return &upstream.LikeResult{Liked: f.liked, Likes: f.likes}, nil
}

func (f *fakeAPI) CheckLike(ctx context.Context, token, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.liked, nil
}

func (f *fakeAPI) AddComment(ctx context.Context, token, id, text string) (*upstream.Comment, error) {
	f.mu.Lock()
	f.commentCalls++
	f.mu.Unlock()
	if f.comment != nil {
		return f.comment(id, text)
	}
	return &upstream.Comment{ID: "c1", Text: text}, nil
}

func TestFetchReplacesSessionList(t *testing.T) {
	api := &fakeAPI{list: func(q upstream.Query) ([]upstream.Project, error) {
		return []upstream.Project{{ID: "p1"}, {ID: "p2"}}, nil
	}}
	svc := NewService(api)
	ctx := context.Background()

	list, page, err := svc.Fetch(ctx, "tok", "sid-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, Page{Skip: 0, Limit: DefaultLimit}, page)

	api.list = func(q upstream.Query) ([]upstream.Project, error) {
		return []upstream.Project{{ID: "p3"}}, nil
	}
	list, _, err = svc.Fetch(ctx, "tok", "sid-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Len(t, svc.BrowseStateFor("sid-1").Projects(), 1)
}

func TestFetchUsesSessionFiltersAndPage(t *testing.T) {
	var gotQuery upstream.Query
	api := &fakeAPI{list: func(q upstream.Query) ([]upstream.Project, error) {
		gotQuery = q
		return nil, nil
	}}
	svc := NewService(api)
	ctx := context.Background()

	min := 1000
	svc.SetFilters("sid-1", Filters{TechStack: "Go", MinBudget: &min})
	svc.NextPage("sid-1")

	_, _, err := svc.Fetch(ctx, "tok", "sid-1")
	require.NoError(t, err)

	assert.Equal(t, "Go", gotQuery.TechStack)
	assert.Equal(t, &min, gotQuery.MinBudget)
	assert.Equal(t, 10, gotQuery.Skip)
	assert.Equal(t, DefaultLimit, gotQuery.Limit)
}

func TestFetchErrorRecordedOnState(t *testing.T) {
	api := &fakeAPI{list: func(q upstream.Query) ([]upstream.Project, error) {
		return nil, errors.NewServerError(502)
	}}
	svc := NewService(api)

	_, _, err := svc.Fetch(context.Background(), "tok", "sid-1")
	require.Error(t, err)
	assert.NotEmpty(t, svc.BrowseStateFor("sid-1").Err())
	assert.False(t, svc.BrowseStateFor("sid-1").Loading())
}

func TestToggleLikeOptimisticThenServerWins(t *testing.T) {
	api := &fakeAPI{likes: 3}
	svc := NewService(api)
	ctx := context.Background()

	api.get = func(id string) (*upstream.Project, error) {
		return &upstream.Project{ID: id, Likes: 3}, nil
	}
	_, err := svc.GetProject(ctx, "tok", "sid-1", "p1")
	require.NoError(t, err)

	state, err := svc.ToggleLike(ctx, "tok", "sid-1", "p1")
	require.NoError(t, err)
	assert.Equal(t, LikeState{Liked: true, Count: 4}, state)
}

func TestToggleLikeRollsBackOnFailure(t *testing.T) {
	api := &fakeAPI{likes: 3}
	svc := NewService(api)
	ctx := context.Background()

	api.get = func(id string) (*upstream.Project, error) {
		return &upstream.Project{ID: id, Likes: 3}, nil
	}
	_, err := svc.GetProject(ctx, "tok", "sid-1", "p1")
	require.NoError(t, err)

	api.toggleErr = errors.NewServerError(500)
	state, err := svc.ToggleLike(ctx, "tok", "sid-1", "p1")
	require.Error(t, err)
	assert.Equal(t, LikeState{Liked: false, Count: 3}, state)

	// Once the upstream recovers the toggle lands on the server truth.
	api.toggleErr = nil
	state, err = svc.ToggleLike(ctx, "tok", "sid-1", "p1")
	require.NoError(t, err)
	assert.Equal(t, LikeState{Liked: true, Count: 4}, state)
}

func TestConcurrentTogglesMatchServerTruth(t *testing.T) {
	api := &fakeAPI{likes: 3}
	svc := NewService(api)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ToggleLike(ctx, "tok", "sid-1", "p1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := svc.ToggleLike(ctx, "tok", "sid-1", "p1")
	require.NoError(t, err)
	assert.Equal(t, api.liked, state.Liked)
	assert.Equal(t, api.likes, state.Count)
	assert.Equal(t, 9, api.toggleCalls)
}

func TestLikeStatusSeedsLocalFlag(t *testing.T) {
	api := &fakeAPI{liked: true, likes: 7}
	svc := NewService(api)
	ctx := context.Background()

	liked, err := svc.LikeStatus(ctx, "tok", "sid-1", "p1")
	require.NoError(t, err)
	assert.True(t, liked)

	// The seeded flag means the next toggle flips to unliked.
	api.get = func(id string) (*upstream.Project, error) {
		return &upstream.Project{ID: id, Likes: 7}, nil
	}
	_, err = svc.GetProject(ctx, "tok", "sid-1", "p1")
	require.NoError(t, err)

	state, err := svc.ToggleLike(ctx, "tok", "sid-1", "p1")
	require.NoError(t, err)
	assert.False(t, state.Liked)
	assert.Equal(t, 6, state.Count)
}

func TestAddCommentRejectsBlankTextWithoutNetworkCall(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api)

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := svc.AddComment(context.Background(), "tok", "sid-1", "p1", text)
		var valErr *errors.ValidationError
		require.ErrorAs(t, err, &valErr)
	}
	assert.Equal(t, 0, api.commentCalls)
}

func TestAddCommentAppendsAfterConfirmation(t *testing.T) {
	api := &fakeAPI{get: func(id string) (*upstream.Project, error) {
		return &upstream.Project{ID: id}, nil
	}}
	svc := NewService(api)
	ctx := context.Background()

	_, err := svc.GetProject(ctx, "tok", "sid-1", "p1")
	require.NoError(t, err)

	comment, err := svc.AddComment(ctx, "tok", "sid-1", "p1", "looks great")
	require.NoError(t, err)
	assert.Equal(t, "looks great", comment.Text)

	current := svc.BrowseStateFor("sid-1").Current()
	require.Len(t, current.Comments, 1)
	assert.Equal(t, "looks great", current.Comments[0].Text)
}

func TestAddCommentFailureLeavesStateUntouched(t *testing.T) {
	api := &fakeAPI{
		get: func(id string) (*upstream.Project, error) {
			return &upstream.Project{ID: id}, nil
		},
		comment: func(id, text string) (*upstream.Comment, error) {
			return nil, errors.NewServerError(500)
		},
	}
	svc := NewService(api)
	ctx := context.Background()

	_, err := svc.GetProject(ctx, "tok", "sid-1", "p1")
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, "tok", "sid-1", "p1", "looks great")
	require.Error(t, err)
	assert.Empty(t, svc.BrowseStateFor("sid-1").Current().Comments)
}

func TestCompleteReplacesCachedCopies(t *testing.T) {
	api := &fakeAPI{
		list: func(q upstream.Query) ([]upstream.Project, error) {
			return []upstream.Project{{ID: "p1", Status: upstream.StatusOpen}}, nil
		},
		get: func(id string) (*upstream.Project, error) {
			return &upstream.Project{ID: id, Status: upstream.StatusOpen}, nil
		},
	}
	svc := NewService(api)
	ctx := context.Background()

	_, _, err := svc.Fetch(ctx, "tok", "sid-1")
	require.NoError(t, err)
	_, err = svc.GetProject(ctx, "tok", "sid-1", "p1")
	require.NoError(t, err)

	project, err := svc.Complete(ctx, "tok", "sid-1", "p1")
	require.NoError(t, err)
	assert.Equal(t, upstream.StatusCompleted, project.Status)

	st := svc.BrowseStateFor("sid-1")
	assert.Equal(t, upstream.StatusCompleted, st.Projects()[0].Status)
	assert.Equal(t, upstream.StatusCompleted, st.Current().Status)
}

func TestDropSessionForgetsBrowseAndLikeState(t *testing.T) {
	api := &fakeAPI{likes: 3}
	svc := NewService(api)
	ctx := context.Background()

	svc.NextPage("sid-1")
	_, err := svc.ToggleLike(ctx, "tok", "sid-1", "p1")
	require.NoError(t, err)

	svc.DropSession("sid-1")

	assert.Equal(t, 0, svc.BrowseStateFor("sid-1").Page().Skip)
	svc.likeMu.Lock()
	assert.Empty(t, svc.likes)
	svc.likeMu.Unlock()
}
