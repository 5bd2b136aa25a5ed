// internal/upstream/client.go
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"devmarket-gateway/pkg/errors"
)

const DefaultTimeout = 15 * time.Second

// Client is the single point of contact with the marketplace API. Every call
// carries the bearer token it is given; an empty token means the request goes
// out unauthenticated and the server decides whether the route requires auth.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// Unauthorized is invoked once per call that comes back 401, before the
	// call fails with an AuthenticationError. It is the only hook through
	// which a data call may tear down the session.
	Unauthorized func(ctx context.Context)
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// detailBody matches the error envelope the marketplace API uses.
type detailBody struct {
	Detail string `json:"detail"`
}

func readDetail(body io.Reader, fallback string) string {
	var d detailBody
	if err := json.NewDecoder(body).Decode(&d); err != nil || d.Detail == "" {
		return fallback
	}
	return d.Detail
}

// do issues one request and maps the response onto the error taxonomy:
// transport failures become NetworkError, 401 tears the session down and
// becomes AuthenticationError, other 4xx become ValidationError carrying the
// server detail verbatim, 5xx become ServerError. Nothing is retried.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, token string, out any) error {
	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.Unauthorized != nil {
			c.Unauthorized(ctx)
		}
		return errors.NewAuthenticationError(readDetail(resp.Body, "not authenticated"))
	case resp.StatusCode >= 500:
		return errors.NewServerError(resp.StatusCode)
	case resp.StatusCode >= 400:
		return errors.NewValidationError(readDetail(resp.Body, resp.Status))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// ExchangeToken trades credentials for a bearer token. The token endpoint is
// form-encoded, unlike the rest of the API.
func (c *Client) ExchangeToken(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/token", nil, form, "", &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var user User
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type profileUpdate struct {
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, token, name, bio string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPatch, "/auth/profile", nil, profileUpdate{Name: name, Bio: bio}, token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfileImage(ctx context.Context, token, imageURL string) (*User, error) {
	body := map[string]string{"image_url": imageURL}
	var user User
	if err := c.do(ctx, http.MethodPatch, "/auth/profile/image", nil, body, token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListProjects(ctx context.Context, token string, q Query) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/projects", q.Values(), nil, token, &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []Project{}
	}
	return projects, nil
}

func (c *Client) UserProjects(ctx context.Context, token string) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/projects/user", nil, nil, token, &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []Project{}
	}
	return projects, nil
}

func (c *Client) GetProject(ctx context.Context, token, id string) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+id, nil, nil, token, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) CreateProject(ctx context.Context, token string, in ProjectCreate) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodPost, "/projects", nil, in, token, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) DeleteProject(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+id, nil, nil, token, nil)
}

func (c *Client) UpdateProjectStatus(ctx context.Context, token, id string, status Status) (*Project, error) {
	body := map[string]Status{"status": status}
	var project Project
	if err := c.do(ctx, http.MethodPatch, "/projects/"+id+"/status", nil, body, token, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) ToggleLike(ctx context.Context, token, id string) (*LikeResult, error) {
	var result LikeResult
	if err := c.do(ctx, http.MethodPost, "/projects/"+id+"/like", nil, nil, token, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CheckLike(ctx context.Context, token, id string) (bool, error) {
	var result struct {
		Liked bool `json:"liked"`
	}
	if err := c.do(ctx, http.MethodGet, "/projects/"+id+"/like", nil, nil, token, &result); err != nil {
		return false, err
	}
	return result.Liked, nil
}

func (c *Client) AddComment(ctx context.Context, token, id, text string) (*Comment, error) {
	body := map[string]string{"text": text}
	var comment Comment
	if err := c.do(ctx, http.MethodPost, "/projects/"+id+"/comments", nil, body, token, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
