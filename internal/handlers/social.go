package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"yatube/internal/auth"
	"yatube/internal/database"
	"yatube/internal/forms"
	"yatube/internal/logging"
	"yatube/internal/metrics"
	"yatube/internal/models"
)

// AddComment сохраняет комментарий и возвращает на страницу поста.
// An invalid comment re-renders the post page with the error.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.Render404(w, r)
		return
	}
	ctx := r.Context()
	user := auth.GetUserFromContext(ctx)

	if _, err := h.store.PostByID(ctx, id, user.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	form, err := forms.ParseCommentForm(r)
	if err != nil {
		h.Render500(w, r, err)
		return
	}
	if errs := form.Validate(); errs != nil {
		h.renderDetail(w, r, id, form, &TemplateData{Errors: errs})
		return
	}

	comment := &models.Comment{PostID: id, AuthorID: user.ID, Text: form.Text}
	if err := h.store.CreateComment(ctx, comment); err != nil {
		h.Render500(w, r, err)
		return
	}
	metrics.CommentsCreated.Inc()

	http.Redirect(w, r, postURL(id), http.StatusFound)
}

type likeResponse struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// LikeToggle переключает лайк. AJAX callers get the new state as JSON,
// plain form posts are sent back to the post page.
func (h *Handler) LikeToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.Render404(w, r)
		return
	}
	ctx := r.Context()
	user := auth.GetUserFromContext(ctx)

	if _, err := h.store.PostByID(ctx, id, user.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	liked, likes, err := h.store.ToggleLike(ctx, user.ID, id)
	if err != nil {
		h.Render500(w, r, err)
		return
	}
	metrics.RecordLikeToggle(liked)

	if !wantsJSON(r) {
		http.Redirect(w, r, postURL(id), http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(likeResponse{Liked: liked, Likes: likes}); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("write like response")
	}
}

// FollowIndex показывает посты авторов, на которых подписан пользователь.
func (h *Handler) FollowIndex(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r.Context())
	page, err := h.store.FollowFeed(r.Context(), user.ID, r.URL.Query().Get("page"))
	if err != nil {
		h.Render500(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "follow.html", &TemplateData{Page: page})
}

func (h *Handler) ProfileFollow(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, true)
}

func (h *Handler) ProfileUnfollow(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, false)
}

func (h *Handler) changeFollow(w http.ResponseWriter, r *http.Request, follow bool) {
	ctx := r.Context()
	user := auth.GetUserFromContext(ctx)
	author, err := h.store.UserByUsername(ctx, chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if follow {
		err = h.store.Follow(ctx, user.ID, author.ID)
	} else {
		err = h.store.Unfollow(ctx, user.ID, author.ID)
	}
	if err != nil {
		h.Render500(w, r, err)
		return
	}
	http.Redirect(w, r, profileURL(author.Username), http.StatusFound)
}

// Account shows a user's account card.
func (h *Handler) Account(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	author, err := h.store.UserByUsername(ctx, chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	count, err := h.store.CountPosts(ctx, database.PostFilter{AuthorID: author.ID})
	if err != nil {
		h.Render500(w, r, err)
		return
	}
	data := &TemplateData{Author: author, AuthorPostCount: count}
	if data.FollowingCount, data.FollowersCount, err = h.store.FollowCounts(ctx, author.ID); err != nil {
		h.Render500(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "account.html", data)
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
