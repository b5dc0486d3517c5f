package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"yatube/internal/auth"
	"yatube/internal/cache"
	"yatube/internal/database"
	"yatube/internal/logging"
	"yatube/internal/media"
	"yatube/internal/middleware"
)

// Handler carries everything the page handlers share. Nothing here is
// request-specific: the current user travels in the request context.
type Handler struct {
	store     *database.Store
	auth      *auth.Service
	tmpl      *Templates
	index     *cache.PageCache[*database.PostPage]
	media     *media.Storage
	maxUpload int64
}

type Options struct {
	Store     *database.Store
	Auth      *auth.Service
	Templates *Templates
	Index     *cache.PageCache[*database.PostPage]
	Media     *media.Storage
	// MaxUploadBytes limits a single image upload.
	MaxUploadBytes int64
}

func New(opts Options) *Handler {
	return &Handler{
		store:     opts.Store,
		auth:      opts.Auth,
		tmpl:      opts.Templates,
		index:     opts.Index,
		media:     opts.Media,
		maxUpload: opts.MaxUploadBytes,
	}
}

func (h *Handler) fillCommon(r *http.Request, data *TemplateData) {
	data.User = auth.GetUserFromContext(r.Context())
	data.CSRFToken = middleware.CSRFToken(r.Context())
	data.Path = r.URL.Path
}

// HTTP Error Handlers

func (h *Handler) Render403(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusForbidden, "403.html", &TemplateData{})
}

// CSRFFailure is the failure handler of the CSRF middleware. A body cut off
// by the size limit is not a forgery: post forms get an image error, other
// requests a 413.
func (h *Handler) CSRFFailure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, middleware.ErrRequestTooLarge) {
		h.uploadTooLarge(w, r)
		return
	}
	h.Render403CSRF(w, r, err)
}

func (h *Handler) Render403CSRF(w http.ResponseWriter, r *http.Request, err error) {
	h.render(w, r, http.StatusForbidden, "403csrf.html", &TemplateData{Error: err.Error()})
}

func (h *Handler) Render404(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "404.html", &TemplateData{})
}

func (h *Handler) Render405(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET, POST")
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

func (h *Handler) Render500(w http.ResponseWriter, r *http.Request, err error) {
	logErr(r, err, "internal server error")
	h.render(w, r, http.StatusInternalServerError, "500.html", &TemplateData{})
}

// fail maps store errors onto error pages: missing records are 404, the rest 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, database.ErrNotFound) {
		h.Render404(w, r)
		return
	}
	h.Render500(w, r, err)
}

// postID parses the {id} URL parameter; ok is false for anything but a positive integer.
func postID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

func postURL(id int) string {
	return "/posts/" + strconv.Itoa(id) + "/"
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func logErr(r *http.Request, err error, msg string) {
	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(msg)
}
