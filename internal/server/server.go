// Package server wires the router, the middleware chain and the background
// services together.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thejerf/suture/v4"

	"yatube/config"
	"yatube/internal/auth"
	"yatube/internal/cache"
	"yatube/internal/database"
	"yatube/internal/handlers"
	"yatube/internal/logging"
	"yatube/internal/media"
	"yatube/internal/middleware"
	"yatube/web"
)

// Server owns everything a running site needs besides the database.
type Server struct {
	cfg     *config.Config
	store   *database.Store
	auth    *auth.Service
	index   *cache.PageCache[*database.PostPage]
	handler *handlers.Handler
	static  fs.FS
	router  http.Handler
}

func New(cfg *config.Config, store *database.Store) (*Server, error) {
	templatesFS, staticFS, err := assets(cfg.Server)
	if err != nil {
		return nil, err
	}
	tmpl, err := handlers.LoadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("server: load templates: %w", err)
	}
	index, err := cache.New("index", cfg.Cache.IndexTTL, cfg.Cache.MaxCost, postPageCost)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		auth:   auth.NewService(store, cfg.Session.Expiration, cfg.Server.CookieSecure),
		index:  index,
		static: staticFS,
	}
	s.handler = handlers.New(handlers.Options{
		Store:          store,
		Auth:           s.auth,
		Templates:      tmpl,
		Index:          index,
		Media:          media.New(cfg.Media.Root),
		MaxUploadBytes: cfg.Media.MaxUploadMB << 20,
	})
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() http.Handler {
	h := s.handler
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover(h.Render500))
	r.Use(middleware.SecureHeaders(s.cfg.Server.CookieSecure))
	// room for one image plus the text fields
	r.Use(chimw.RequestSize(s.cfg.Media.MaxUploadMB<<20 + 1<<20))
	r.Use(middleware.Auth(s.auth))
	r.Use(middleware.CSRF(s.cfg.Server.CookieSecure, h.CSRFFailure))

	r.NotFound(h.Render404)
	r.MethodNotAllowed(h.Render405)

	r.Get("/", h.Index)
	r.Get("/group/{slug}/", h.GroupPosts)
	r.Get("/profile/{username}/", h.Profile)
	r.Get("/posts/{id}/", h.PostDetail)
	r.Get("/account/{username}", h.Account)
	r.Get("/posts/{id}/comment", h.ToPost)
	r.Get("/posts/{id}/delete", h.ToPost)
	r.Get("/posts/{id}/like", h.ToPost)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/create/", h.PostCreate)
		r.Post("/create/", h.PostCreate)
		r.Get("/posts/{id}/edit/", h.PostEdit)
		r.Post("/posts/{id}/edit/", h.PostEdit)
		r.Post("/posts/{id}/comment", h.AddComment)
		r.Post("/posts/{id}/delete", h.PostDelete)
		r.Post("/posts/{id}/like", h.LikeToggle)

		r.Get("/follow/", h.FollowIndex)
		// GET is kept for plain links
		r.Get("/profile/{username}/follow/", h.ProfileFollow)
		r.Post("/profile/{username}/follow/", h.ProfileFollow)
		r.Get("/profile/{username}/unfollow/", h.ProfileUnfollow)
		r.Post("/profile/{username}/unfollow/", h.ProfileUnfollow)
	})

	r.Route("/auth", func(r chi.Router) {
		if rl := s.cfg.RateLimit; rl.Enabled {
			r.Use(middleware.RateLimit(rl.Requests, rl.Window))
		}
		r.Get("/signup/", h.Signup)
		r.Post("/signup/", h.Signup)
		r.Get("/login/", h.Login)
		r.Post("/login/", h.Login)
		r.Post("/logout/", h.Logout)
	})

	r.Get("/about/author/", h.Page("author.html"))
	r.Get("/about/tech/", h.Page("tech.html"))

	r.Handle("/static/*", http.StripPrefix("/static/", h.ProtectFiles(http.FileServer(http.FS(s.static)))))
	r.Handle("/media/*", http.StripPrefix("/media/", h.ProtectFiles(http.FileServer(http.Dir(s.cfg.Media.Root)))))

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Run serves HTTP and sweeps expired sessions until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	defer s.index.Close()

	sup := suture.New("yatube", suture.Spec{
		EventHook: logSupervisorEvent,
		Timeout:   s.cfg.Server.ShutdownTimeout,
	})
	sup.Add(&httpService{
		srv: &http.Server{
			Addr:         s.cfg.Addr(),
			Handler:      s.router,
			ReadTimeout:  s.cfg.Server.ReadTimeout,
			WriteTimeout: s.cfg.Server.WriteTimeout,
			IdleTimeout:  s.cfg.Server.IdleTimeout,
		},
		shutdownTimeout: s.cfg.Server.ShutdownTimeout,
	})
	sup.Add(&sessionJanitor{
		store:    s.store,
		interval: s.cfg.Session.CleanupInterval,
		now:      time.Now,
	})

	err := sup.Serve(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func logSupervisorEvent(e suture.Event) {
	logging.Warn().Fields(e.Map()).Msg(e.String())
}

// assets picks the template and static file systems: directories from the
// config when set, the embedded copies otherwise.
func assets(cfg config.ServerConfig) (templatesFS, staticFS fs.FS, err error) {
	if cfg.TemplatesDir != "" {
		templatesFS = os.DirFS(cfg.TemplatesDir)
	} else if templatesFS, err = fs.Sub(web.FS, "templates"); err != nil {
		return nil, nil, err
	}
	if cfg.StaticDir != "" {
		staticFS = os.DirFS(cfg.StaticDir)
	} else if staticFS, err = fs.Sub(web.FS, "static"); err != nil {
		return nil, nil, err
	}
	return templatesFS, staticFS, nil
}

// postPageCost approximates the memory a cached page holds.
func postPageCost(p *database.PostPage) int64 {
	cost := int64(256)
	for i := range p.Posts {
		cost += int64(len(p.Posts[i].Text) + len(p.Posts[i].Author) + len(p.Posts[i].Image) + 128)
	}
	return cost
}
