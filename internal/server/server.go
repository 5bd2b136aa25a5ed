// internal/server/server.go
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"devmarket-gateway/internal/api/handler"
	"devmarket-gateway/internal/api/middleware"
	"devmarket-gateway/internal/config"
	"devmarket-gateway/internal/domain/projects"
	"devmarket-gateway/internal/domain/session"
	"devmarket-gateway/internal/upstream"
)

type Server struct {
	cfg      *config.Config
	router   *chi.Mux
	sessions *session.Service
	auth     *handler.AuthHandler
	projects *handler.ProjectHandler
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
}

func New(cfg *config.Config) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Initialize dependencies
	redisClient := initRedis(cfg)
	validate := validator.New()

	api := upstream.NewClient(cfg.UpstreamURL)
	codec := session.NewCookieCodec(cfg.SessionSecret, cfg.SessionMaxAge, cfg.IsProduction())
	denylist := session.NewDenylist(redisClient)
	v := session.NewValidator(validate)

	sessions := session.NewService(api, api, denylist, codec, v, cfg.SessionMaxAge)
	// A 401 on any data call evicts the session that made it.
	api.Unauthorized = sessions.Evict

	projectSvc := projects.NewService(api)

	rd := handler.NewResponder(sessions)
	authHandler := handler.NewAuthHandler(rd, sessions, api, v, projectSvc.DropSession)
	projectHandler := handler.NewProjectHandler(rd, projectSvc, v)

	return &Server{
		cfg:      cfg,
		router:   r,
		sessions: sessions,
		auth:     authHandler,
		projects: projectHandler,
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.setupRoutes()
	return http.ListenAndServe(s.cfg.Port, s.router)
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(s.sessions))

		r.Post("/auth/sign-in", s.auth.SignIn)
		r.Post("/auth/register", s.auth.Register)
		r.Get("/auth/session", s.auth.Session)

		// Anonymous browsing is allowed; the upstream decides what needs auth.
		r.Get("/projects", s.projects.List)
		r.Get("/projects/page/next", s.projects.NextPage)
		r.Get("/projects/page/previous", s.projects.PrevPage)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/auth/sign-out", s.auth.SignOut)
			r.Get("/auth/me", s.auth.Me)
			r.Patch("/auth/profile", s.auth.UpdateProfile)
			r.Patch("/auth/profile/image", s.auth.UpdateProfileImage)

			r.Get("/projects/user", s.projects.UserProjects)
			r.Post("/projects", s.projects.Create)
			r.Delete("/projects/{id}", s.projects.Delete)
			r.Patch("/projects/{id}/status", s.projects.Complete)
			r.Post("/projects/{id}/like", s.projects.ToggleLike)
			r.Get("/projects/{id}/like", s.projects.LikeStatus)
			r.Post("/projects/{id}/comments", s.projects.AddComment)
		})

		r.Get("/projects/{id}", s.projects.Get)
	})
}
