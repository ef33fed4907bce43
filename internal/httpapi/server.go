// Package httpapi exposes the post, comment, media, follow and team services as
// JSON over HTTP, plus a websocket feed of new comments.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/UkralStul/sportalk/internal/config"
	"github.com/UkralStul/sportalk/internal/dataloader"
	"github.com/UkralStul/sportalk/internal/feed"
	"github.com/UkralStul/sportalk/internal/service"
)

// Services собирает все сервисы, которые обслуживает роутер.
type Services struct {
	Posts    *service.PostService
	Comments *service.CommentService
	Media    *service.MediaService
	Follows  *service.FollowService
	Teams    *service.TeamService
	Users    *service.UserService
}

type Server struct {
	svc      Services
	hub      *feed.Hub
	feed     config.Feed
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// NewRouter wires every route. src backs the per-request dataloaders.
func NewRouter(svc Services, hub *feed.Hub, src dataloader.Source, cfg config.Config, log *slog.Logger) http.Handler {
	s := &Server{
		svc:  svc,
		hub:  hub,
		feed: cfg.Feed,
		log:  log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(log.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	router.Use(middleware.Recoverer)
	router.Use(principalMiddleware)
	router.Use(dataloader.Middleware(src))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/posts", func(r chi.Router) {
		r.Get("/", s.listPosts)
		r.Post("/", s.createPost)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getPost)
			r.Patch("/", s.updatePost)
			r.Delete("/", s.removePost)
			r.Get("/versions", s.listVersions)
			r.Post("/views", s.recordView)
			r.Get("/comments", s.listComments)
		})
	})

	router.Route("/comments", func(r chi.Router) {
		r.Post("/", s.createComment)
		r.Patch("/{id}", s.updateComment)
		r.Delete("/{id}", s.removeComment)
		r.Get("/{id}/replies", s.listReplies)
	})

	router.Route("/media", func(r chi.Router) {
		r.Post("/", s.createMedia)
		r.Patch("/{id}/status", s.updateMediaStatus)
		r.Delete("/{id}", s.removeMedia)
	})

	router.Get("/teams", s.listTeams)

	router.Route("/users/{id}", func(r chi.Router) {
		r.Get("/", s.getUser)
		r.Post("/follow", s.follow)
		r.Delete("/follow", s.unfollow)
		r.Get("/followers", s.followers)
		r.Get("/following", s.following)
		r.Get("/teams", s.userTeams)
	})

	router.Route("/me/teams", func(r chi.Router) {
		r.Put("/", s.setMyTeams)
		r.Post("/{teamId}", s.selectTeam)
		r.Delete("/{teamId}", s.unselectTeam)
	})

	router.Get("/ws/posts/{id}/comments", s.commentFeed)

	return router
}
