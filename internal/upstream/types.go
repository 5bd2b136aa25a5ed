// internal/upstream/types.go
package upstream

import (
	"net/url"
	"strconv"
)

type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusCompleted Status = "COMPLETED"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	Image     string `json:"image,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

type CommentAuthor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type Comment struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	User      CommentAuthor `json:"user"`
	CreatedAt string        `json:"created_at"`
}

type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      float64   `json:"budget"`
	TechStack   []string  `json:"tech_stack"`
	Status      Status    `json:"status"`
	CreatedAt   string    `json:"created_at"`
	Likes       int       `json:"likes"`
	UserID      string    `json:"user_id"`
	Images      []string  `json:"images,omitempty"`
	Comments    []Comment `json:"comments"`
}

type ProjectCreate struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      float64  `json:"budget"`
	TechStack   []string `json:"tech_stack"`
	Images      []string `json:"images,omitempty"`
}

// LikeResult is the authoritative like state returned by the toggle endpoint.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// Query holds the listing filters and pagination window. Zero-valued optional
// filters are omitted from the encoded form; skip and limit are always sent.
type Query struct {
	TechStack string
	MinBudget *int
	MaxBudget *int
	Skip      int
	Limit     int
}

func (q Query) Values() url.Values {
	v := url.Values{}
	if q.TechStack != "" {
		v.Set("tech_stack", q.TechStack)
	}
	if q.MinBudget != nil {
		v.Set("min_budget", strconv.Itoa(*q.MinBudget))
	}
	if q.MaxBudget != nil {
		v.Set("max_budget", strconv.Itoa(*q.MaxBudget))
	}
	v.Set("skip", strconv.Itoa(q.Skip))
	v.Set("limit", strconv.Itoa(q.Limit))
	return v
}
