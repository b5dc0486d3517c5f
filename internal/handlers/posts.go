package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"yatube/internal/auth"
	"yatube/internal/database"
	"yatube/internal/forms"
	"yatube/internal/logging"
	"yatube/internal/metrics"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/validation"
)

// Index показывает главную страницу: все посты, новые первыми. Pages come from the
// index cache while it holds them.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("page")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		n = 1
	}

	page, ok := h.index.Get(n)
	if ok {
		metrics.IndexCacheHits.Inc()
	} else {
		metrics.IndexCacheMisses.Inc()
		page, err = h.store.Posts(r.Context(), database.PostFilter{}, raw)
		if err != nil {
			h.Render500(w, r, err)
			return
		}
		h.index.Set(n, page)
	}

	h.render(w, r, http.StatusOK, "index.html", &TemplateData{Page: page})
}

func (h *Handler) GroupPosts(w http.ResponseWriter, r *http.Request) {
	group, err := h.store.GroupBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.store.Posts(r.Context(), database.PostFilter{GroupID: group.ID}, r.URL.Query().Get("page"))
	if err != nil {
		h.Render500(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "group_list.html", &TemplateData{Group: group, Page: page})
}

// Profile lists the author's posts and, for a signed-in visitor, whether they follow the author.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	author, err := h.store.UserByUsername(ctx, chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	user := auth.GetUserFromContext(ctx)
	filter := database.PostFilter{AuthorID: author.ID}
	if user != nil {
		filter.ViewerID = user.ID
	}
	page, err := h.store.Posts(ctx, filter, r.URL.Query().Get("page"))
	if err != nil {
		h.Render500(w, r, err)
		return
	}

	data := &TemplateData{Author: author, Page: page}
	if user != nil && user.ID != author.ID {
		if data.Following, err = h.store.IsFollowing(ctx, user.ID, author.ID); err != nil {
			h.Render500(w, r, err)
			return
		}
	}
	if data.FollowingCount, data.FollowersCount, err = h.store.FollowCounts(ctx, author.ID); err != nil {
		h.Render500(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "profile.html", data)
}

func (h *Handler) PostDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.Render404(w, r)
		return
	}
	h.renderDetail(w, r, id, &forms.CommentForm{}, nil)
}

// renderDetail shows the post page; AddComment reuses it to show comment errors.
func (h *Handler) renderDetail(w http.ResponseWriter, r *http.Request, id int, form *forms.CommentForm, data *TemplateData) {
	ctx := r.Context()
	viewerID := 0
	if user := auth.GetUserFromContext(ctx); user != nil {
		viewerID = user.ID
	}

	post, err := h.store.PostByID(ctx, id, viewerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	comments, err := h.store.CommentsForPost(ctx, id)
	if err != nil {
		h.Render500(w, r, err)
		return
	}
	count, err := h.store.CountPosts(ctx, database.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		h.Render500(w, r, err)
		return
	}

	if data == nil {
		data = &TemplateData{}
	}
	data.Post = post
	data.Comments = comments
	data.AuthorPostCount = count
	data.CommentForm = form
	h.render(w, r, http.StatusOK, "post_detail.html", data)
}

// PostCreate показывает форму и создает пост. После создания автор попадает в свой профиль.
func (h *Handler) PostCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.renderPostForm(w, r, &forms.PostForm{}, nil, nil)
		return
	}

	user := auth.GetUserFromContext(r.Context())
	form, err := forms.ParsePostForm(r, h.maxUpload)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("bad post form")
		h.renderPostForm(w, r, &forms.PostForm{}, nil, formError("image", "The upload could not be read."))
		return
	}
	defer form.Close()

	post := &models.Post{AuthorID: user.ID}
	errs, err := form.Apply(r.Context(), h.store, h.media, post)
	if err != nil {
		h.Render500(w, r, err)
		return
	}
	if errs != nil {
		h.renderPostForm(w, r, form, nil, errs)
		return
	}

	if err := h.store.CreatePost(r.Context(), post); err != nil {
		h.removeImage(r, post.Image)
		h.Render500(w, r, err)
		return
	}
	h.index.Invalidate()
	metrics.PostsCreated.Inc()
	logging.Ctx(r.Context()).Info().Int("post_id", post.ID).Str("author", user.Username).Msg("post created")

	http.Redirect(w, r, profileURL(user.Username), http.StatusFound)
}

// ToPost answers a GET on a post's action URL, which is where a login
// redirect lands after an anonymous comment, like or delete.
func (h *Handler) ToPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.Render404(w, r)
		return
	}
	http.Redirect(w, r, postURL(id), http.StatusFound)
}

// PostEdit is author-only: anyone else is sent to the post page.
func (h *Handler) PostEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.Render404(w, r)
		return
	}
	user := auth.GetUserFromContext(r.Context())
	post, err := h.store.PostByID(r.Context(), id, user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if post.AuthorID != user.ID {
		http.Redirect(w, r, postURL(id), http.StatusFound)
		return
	}

	if r.Method == http.MethodGet {
		h.renderPostForm(w, r, forms.FromPost(post), post, nil)
		return
	}

	form, err := forms.ParsePostForm(r, h.maxUpload)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("bad post form")
		h.renderPostForm(w, r, forms.FromPost(post), post, formError("image", "The upload could not be read."))
		return
	}
	defer form.Close()

	oldImage := post.Image
	errs, err := form.Apply(r.Context(), h.store, h.media, post)
	if err != nil {
		h.Render500(w, r, err)
		return
	}
	if errs != nil {
		h.renderPostForm(w, r, form, post, errs)
		return
	}

	if err := h.store.UpdatePost(r.Context(), post); err != nil {
		if post.Image != oldImage {
			h.removeImage(r, post.Image)
		}
		h.fail(w, r, err)
		return
	}
	if post.Image != oldImage {
		h.removeImage(r, oldImage)
	}
	h.index.Invalidate()

	http.Redirect(w, r, postURL(id), http.StatusFound)
}

// PostDelete удаляет пост вместе с комментариями и лайками. Only the author may delete.
func (h *Handler) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		h.Render404(w, r)
		return
	}
	user := auth.GetUserFromContext(r.Context())
	post, err := h.store.PostByID(r.Context(), id, user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if post.AuthorID != user.ID {
		http.Redirect(w, r, postURL(id), http.StatusFound)
		return
	}

	if err := h.store.DeletePost(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.removeImage(r, post.Image)
	h.index.Invalidate()
	logging.Ctx(r.Context()).Info().Int("post_id", id).Str("author", user.Username).Msg("post deleted")

	http.Redirect(w, r, profileURL(user.Username), http.StatusFound)
}

func (h *Handler) renderPostForm(w http.ResponseWriter, r *http.Request, form *forms.PostForm, post *models.Post, errs validation.FieldErrors) {
	groups, err := h.store.ListGroups(r.Context())
	if err != nil {
		h.Render500(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "create_post.html", &TemplateData{
		PostForm: form,
		Post:     post,
		IsEdit:   post != nil,
		Groups:   groups,
		Errors:   errs,
	})
}

// uploadTooLarge answers a post form whose body went over the size limit.
// Nothing is read from the body and nothing is saved.
func (h *Handler) uploadTooLarge(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, middleware.LoginRedirect(r.URL.RequestURI()), http.StatusFound)
		return
	}
	errs := formError("image", fmt.Sprintf("The file is too large (max %d MB).", h.maxUpload>>20))

	if r.URL.Path == "/create/" {
		h.renderPostForm(w, r, &forms.PostForm{}, nil, errs)
		return
	}
	rest, ok := strings.CutPrefix(r.URL.Path, "/posts/")
	if ok {
		if raw, ok := strings.CutSuffix(rest, "/edit/"); ok {
			if id, err := strconv.Atoi(raw); err == nil && id > 0 {
				post, err := h.store.PostByID(r.Context(), id, user.ID)
				if err != nil {
					h.fail(w, r, err)
					return
				}
				if post.AuthorID != user.ID {
					http.Redirect(w, r, postURL(id), http.StatusFound)
					return
				}
				h.renderPostForm(w, r, forms.FromPost(post), post, errs)
				return
			}
		}
	}
	http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
}

func (h *Handler) removeImage(r *http.Request, rel string) {
	if err := h.media.Remove(rel); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("image", rel).Msg("could not remove image")
	}
}

func formError(field, message string) validation.FieldErrors {
	var errs validation.FieldErrors
	errs.Add(field, "invalid", message)
	return errs
}
