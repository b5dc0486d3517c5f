package server

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/config"
	"yatube/internal/database"
	"yatube/internal/database/databasetest"
	"yatube/internal/middleware"
)

type testSite struct {
	t     *testing.T
	store *database.Store
	srv   *Server
}

func newSite(t *testing.T) *testSite {
	t.Helper()
	return newSiteWith(t, nil)
}

func newSiteWith(t *testing.T, tweak func(*config.Config)) *testSite {
	t.Helper()
	cfg := config.Default()
	cfg.Media.Root = t.TempDir()
	cfg.RateLimit.Enabled = false
	if tweak != nil {
		tweak(cfg)
	}

	store := databasetest.New(t)
	srv, err := New(cfg, store)
	require.NoError(t, err)
	t.Cleanup(srv.index.Close)
	return &testSite{t: t, store: store, srv: srv}
}

// browser keeps cookies between requests like a real one.
type browser struct {
	site    *testSite
	cookies map[string]*http.Cookie
}

func (s *testSite) browser() *browser {
	return &browser{site: s, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.site.srv.Handler().ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
		} else {
			b.cookies[c.Name] = c
		}
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) csrfToken() string {
	if _, ok := b.cookies[middleware.CSRFCookieName]; !ok {
		b.get("/about/tech/")
	}
	return b.cookies[middleware.CSRFCookieName].Value
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set(middleware.CSRFFormField, b.csrfToken())
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(username string) {
	rec := b.post("/auth/login/", url.Values{"username": {username}, "password": {"password123"}})
	require.Equal(b.site.t, http.StatusSeeOther, rec.Code, rec.Body.String())
}

func TestIndexPagination(t *testing.T) {
	site := newSite(t)
	leo := databasetest.User(t, site.store, "leo")
	for i := 1; i <= 13; i++ {
		databasetest.Post(t, site.store, leo, "запись номер "+strconv.Itoa(i)+".", nil)
	}

	b := site.browser()
	first := b.get("/")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), "запись номер 13.")
	assert.Equal(t, 10, strings.Count(first.Body.String(), "подробная информация"))

	second := b.get("/?page=2")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 3, strings.Count(second.Body.String(), "подробная информация"))
	assert.Contains(t, second.Body.String(), "запись номер 1.")

	beyond := b.get("/?page=99")
	assert.Equal(t, http.StatusOK, beyond.Code, "out of range pages are clamped")
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	site := newSite(t)
	b := site.browser()

	for _, path := range []string{"/create/", "/follow/"} {
		rec := b.get(path)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/auth/login/?next="+url.QueryEscape(path), rec.Header().Get("Location"))
	}
}

func TestLoginFollowsNext(t *testing.T) {
	site := newSite(t)
	databasetest.User(t, site.store, "leo")
	b := site.browser()

	rec := b.post("/auth/login/", url.Values{"username": {"leo"}, "password": {"password123"}, "next": {"/follow/"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/follow/", rec.Header().Get("Location"))

	rec = b.get("/follow/")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRejectsForeignNext(t *testing.T) {
	site := newSite(t)
	databasetest.User(t, site.store, "leo")

	rec := site.browser().post("/auth/login/", url.Values{"username": {"leo"}, "password": {"password123"}, "next": {"//evil.example/"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestWrongPassword(t *testing.T) {
	site := newSite(t)
	databasetest.User(t, site.store, "leo")

	rec := site.browser().post("/auth/login/", url.Values{"username": {"leo"}, "password": {"nope-nope"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a correct username and password.")
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, "session_token", c.Name)
	}
}

func TestSignupThenLogin(t *testing.T) {
	site := newSite(t)
	b := site.browser()

	rec := b.post("/auth/signup/", url.Values{
		"username":  {"anna"},
		"email":     {"anna@example.com"},
		"password1": {"kareninaa"},
		"password2": {"kareninaa"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/auth/login/", rec.Header().Get("Location"))

	dup := b.post("/auth/signup/", url.Values{
		"username":  {"Anna"},
		"email":     {"other@example.com"},
		"password1": {"kareninaa"},
		"password2": {"kareninaa"},
	})
	assert.Equal(t, http.StatusOK, dup.Code)
	assert.Contains(t, dup.Body.String(), "is-invalid")

	rec = b.post("/auth/login/", url.Values{"username": {"anna@example.com"}, "password": {"kareninaa"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestSignupCyrillicUsername(t *testing.T) {
	site := newSite(t)
	b := site.browser()

	rec := b.post("/auth/signup/", url.Values{
		"username":  {"лев"},
		"email":     {"lev@example.com"},
		"password1": {"voinaimir1"},
		"password2": {"voinaimir1"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	rec = b.post("/auth/login/", url.Values{"username": {"лев"}, "password": {"voinaimir1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusOK, b.get("/profile/"+url.PathEscape("лев")+"/").Code)
}

func TestNotFoundPages(t *testing.T) {
	site := newSite(t)
	b := site.browser()

	for _, path := range []string{"/posts/999/", "/posts/abc/", "/group/missing/", "/profile/ghost/", "/no/such/page/"} {
		rec := b.get(path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Custom 404", path)
	}
}

func TestPostWithoutCSRFIsForbidden(t *testing.T) {
	site := newSite(t)
	databasetest.User(t, site.store, "leo")

	req := httptest.NewRequest(http.MethodPost, "/auth/login/", strings.NewReader("username=leo&password=password123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := site.browser().do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Custom 403 CSRF")
}

func TestCreatePostRefreshesIndex(t *testing.T) {
	site := newSite(t)
	leo := databasetest.User(t, site.store, "leo")
	group := databasetest.Group(t, site.store, "tolstoy")

	b := site.browser()
	b.login("leo")
	require.Equal(t, http.StatusOK, b.get("/").Code)

	// written behind the site's back: the cached page does not know about it yet
	databasetest.Post(t, site.store, leo, "тайная запись", nil)
	assert.NotContains(t, b.get("/").Body.String(), "тайная запись")

	rec := b.post("/create/", url.Values{"text": {"новая запись"}, "group": {strconv.Itoa(group.ID)}})
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "/profile/leo/", rec.Header().Get("Location"))

	index := b.get("/").Body.String()
	assert.Contains(t, index, "новая запись")
	assert.Contains(t, index, "тайная запись")
	assert.Contains(t, b.get("/group/tolstoy/").Body.String(), "новая запись")
	assert.Contains(t, b.get("/profile/leo/").Body.String(), "новая запись")
}

func TestCreatePostValidation(t *testing.T) {
	site := newSite(t)
	databasetest.User(t, site.store, "leo")
	b := site.browser()
	b.login("leo")

	rec := b.post("/create/", url.Values{"text": {"   "}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "is-invalid")

	rec = b.post("/create/", url.Values{"text": {"текст"}, "group": {"12345"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "is-invalid")

	n, err := site.store.CountPosts(context.Background(), database.PostFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func smallGIF(t *testing.T) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestCreatePostWithImage(t *testing.T) {
	site := newSite(t)
	leo := databasetest.User(t, site.store, "leo")
	b := site.browser()
	b.login("leo")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("text", "с картинкой"))
	require.NoError(t, mw.WriteField(middleware.CSRFFormField, b.csrfToken()))
	fw, err := mw.CreateFormFile("image", "small.gif")
	require.NoError(t, err)
	_, err = fw.Write(smallGIF(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/create/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := b.do(req)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())

	page, err := site.store.Posts(context.Background(), database.PostFilter{AuthorID: leo.ID}, "1")
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "posts/small.gif", page.Posts[0].Image)

	assert.Equal(t, http.StatusOK, b.get("/media/posts/small.gif").Code)
	assert.Contains(t, b.get("/").Body.String(), "/media/posts/small.gif")
}

// uploadRequest builds a post form whose image is size bytes of junk.
// The token goes first so only the size decides the outcome.
func uploadRequest(t *testing.T, b *browser, path string, size int) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField(middleware.CSRFFormField, b.csrfToken()))
	require.NoError(t, mw.WriteField("text", "слишком большая картинка"))
	fw, err := mw.CreateFormFile("image", "huge.gif")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{'G'}, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestOversizedUploadShowsImageError(t *testing.T) {
	site := newSiteWith(t, func(cfg *config.Config) { cfg.Media.MaxUploadMB = 1 })
	leo := databasetest.User(t, site.store, "leo")
	post := databasetest.Post(t, site.store, leo, "исходный текст", nil)
	b := site.browser()
	b.login("leo")

	rec := b.do(uploadRequest(t, b, "/create/", 3<<20))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "Custom 403 CSRF")
	assert.Contains(t, rec.Body.String(), "is-invalid")
	assert.Contains(t, rec.Body.String(), "The file is too large (max 1 MB).")

	n, err := site.store.CountPosts(context.Background(), database.PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "nothing was created")

	editURL := "/posts/" + strconv.Itoa(post.ID) + "/edit/"
	rec = b.do(uploadRequest(t, b, editURL, 3<<20))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "The file is too large (max 1 MB).")
	assert.Contains(t, rec.Body.String(), "исходный текст")

	rec = b.do(uploadRequest(t, b, "/auth/signup/", 3<<20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	anon := site.browser()
	rec = anon.do(uploadRequest(t, anon, "/create/", 3<<20))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login/?next="+url.QueryEscape("/create/"), rec.Header().Get("Location"))
}

func TestEditPost(t *testing.T) {
	site := newSite(t)
	leo := databasetest.User(t, site.store, "leo")
	databasetest.User(t, site.store, "anna")
	post := databasetest.Post(t, site.store, leo, "исходный текст", nil)
	editURL := "/posts/" + strconv.Itoa(post.ID) + "/edit/"
	detailURL := "/posts/" + strconv.Itoa(post.ID) + "/"

	anna := site.browser()
	anna.login("anna")
	rec := anna.get(editURL)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, detailURL, rec.Header().Get("Location"))
	rec = anna.post(editURL, url.Values{"text": {"взлом"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, detailURL, rec.Header().Get("Location"))

	author := site.browser()
	author.login("leo")
	form := author.get(editURL)
	require.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), "исходный текст")

	rec = author.post(editURL, url.Values{"text": {"исправленный текст"}})
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, detailURL, rec.Header().Get("Location"))

	got, err := site.store.PostByID(context.Background(), post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "исправленный текст", got.Text)
	assert.NotNil(t, got.EditedAt)
	assert.Contains(t, author.get("/").Body.String(), "исправленный текст")
}

func TestDeletePost(t *testing.T) {
	site := newSite(t)
	leo := databasetest.User(t, site.store, "leo")
	databasetest.User(t, site.store, "anna")
	post := databasetest.Post(t, site.store, leo, "удалить меня", nil)
	deleteURL := "/posts/" + strconv.Itoa(post.ID) + "/delete"

	anna := site.browser()
	anna.login("anna")
	rec := anna.post(deleteURL, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	_, err := site.store.PostByID(context.Background(), post.ID, 0)
	require.NoError(t, err, "only the author can delete")

	author := site.browser()
	author.login("leo")
	rec = author.post(deleteURL, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile/leo/", rec.Header().Get("Location"))
	assert.Equal(t, http.StatusNotFound, author.get("/posts/"+strconv.Itoa(post.ID)+"/").Code)
}

func TestComments(t *testing.T) {
	site := newSite(t)
	leo := databasetest.User(t, site.store, "leo")
	post := databasetest.Post(t, site.store, leo, "обсудим", nil)
	commentURL := "/posts/" + strconv.Itoa(post.ID) + "/comment"

	anon := site.browser()
	rec := anon.post(commentURL, url.Values{"text": {"аноним"}})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/auth/login/"))

	b := site.browser()
	b.login("leo")

	rec = b.post(commentURL, url.Values{"text": {strings.Repeat("я", 301)}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "is-invalid")

	rec = b.post(commentURL, url.Values{"text": {strings.Repeat("я", 300)}})
	assert.Equal(t, http.StatusFound, rec.Code)

	rec = b.post(commentURL, url.Values{"text": {"второй комментарий"}})
	assert.Equal(t, http.StatusFound, rec.Code)

	comments, err := site.store.CommentsForPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "второй комментарий", comments[0].Text)

	detail := b.get("/posts/" + strconv.Itoa(post.ID) + "/").Body.String()
	assert.Contains(t, detail, "второй комментарий")
}

func TestLoginAfterPostActionReturnsToPost(t *testing.T) {
	site := newSite(t)
	leo := databasetest.User(t, site.store, "leo")
	post := databasetest.Post(t, site.store, leo, "обсудим", nil)
	detail := "/posts/" + strconv.Itoa(post.ID) + "/"

	for _, action := range []string{"comment", "like", "delete"} {
		b := site.browser()
		next := detail + action
		rec := b.post(next, url.Values{"text": {"аноним"}})
		require.Equal(t, http.StatusFound, rec.Code, action)
		require.Equal(t, "/auth/login/?next="+url.QueryEscape(next), rec.Header().Get("Location"), action)

		rec = b.post("/auth/login/", url.Values{"username": {"leo"}, "password": {"password123"}, "next": {next}})
		require.Equal(t, http.StatusSeeOther, rec.Code, action)
		require.Equal(t, next, rec.Header().Get("Location"), action)

		rec = b.get(next)
		assert.Equal(t, http.StatusFound, rec.Code, action)
		assert.Equal(t, detail, rec.Header().Get("Location"), action)
	}

	_, err := site.store.PostByID(context.Background(), post.ID, 0)
	require.NoError(t, err, "a GET never deletes")
	assert.Equal(t, http.StatusNotFound, site.browser().get("/posts/abc/like").Code)
}

func TestLikeToggleJSON(t *testing.T) {
	site := newSite(t)
	leo := databasetest.User(t, site.store, "leo")
	post := databasetest.Post(t, site.store, leo, "нравится?", nil)
	likeURL := "/posts/" + strconv.Itoa(post.ID) + "/like"

	b := site.browser()
	b.login("leo")

	toggle := func() likeResponseBody {
		req := httptest.NewRequest(http.MethodPost, likeURL, nil)
		req.Header.Set("Accept", "application/json")
		req.Header.Set(middleware.CSRFHeaderName, b.csrfToken())
		rec := b.do(req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body likeResponseBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body
	}

	assert.Equal(t, likeResponseBody{Liked: true, Likes: 1}, toggle())
	assert.Equal(t, likeResponseBody{Liked: false, Likes: 0}, toggle())

	rec := b.post("/posts/999/like", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type likeResponseBody struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

func TestFollowFlow(t *testing.T) {
	site := newSite(t)
	databasetest.User(t, site.store, "leo")
	anna := databasetest.User(t, site.store, "anna")
	databasetest.Post(t, site.store, anna, "пост анны", nil)

	b := site.browser()
	b.login("leo")
	assert.NotContains(t, b.get("/follow/").Body.String(), "пост анны")
	assert.Contains(t, b.get("/profile/anna/").Body.String(), "Подписаться")

	rec := b.post("/profile/anna/follow/", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile/anna/", rec.Header().Get("Location"))
	b.post("/profile/anna/follow/", nil)

	assert.Contains(t, b.get("/follow/").Body.String(), "пост анны")
	assert.Contains(t, b.get("/profile/anna/").Body.String(), "Отписаться")
	_, followers, err := site.store.FollowCounts(context.Background(), anna.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, followers, "following twice creates one link")

	// self-follow is ignored
	b.post("/profile/leo/follow/", nil)
	_, followers, err = site.store.FollowCounts(context.Background(), anna.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, followers)

	rec = b.post("/profile/anna/unfollow/", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.NotContains(t, b.get("/follow/").Body.String(), "пост анны")

	assert.Equal(t, http.StatusNotFound, b.post("/profile/ghost/follow/", nil).Code)
}

func TestLogout(t *testing.T) {
	site := newSite(t)
	databasetest.User(t, site.store, "leo")
	b := site.browser()
	b.login("leo")
	require.Equal(t, http.StatusOK, b.get("/create/").Code)

	rec := b.post("/auth/logout/", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, http.StatusFound, b.get("/create/").Code)
}

func TestStaticPagesAndHealth(t *testing.T) {
	site := newSite(t)
	b := site.browser()

	assert.Equal(t, http.StatusOK, b.get("/about/author/").Code)
	assert.Equal(t, http.StatusOK, b.get("/about/tech/").Code)
	assert.Equal(t, http.StatusOK, b.get("/static/css/style.css").Code)
	assert.Equal(t, http.StatusForbidden, b.get("/static/css/").Code)
	assert.Equal(t, http.StatusForbidden, b.get("/media/").Code)

	rec := b.get("/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, b.get("/metrics").Code)
}

func TestAccountPage(t *testing.T) {
	site := newSite(t)
	leo := databasetest.User(t, site.store, "leo")
	databasetest.Post(t, site.store, leo, "один", nil)

	rec := site.browser().get("/account/leo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Постов: 1")
	assert.NotContains(t, rec.Body.String(), "leo@example.com", "email is shown to the owner only")
}

type fakeSessions struct {
	calls int
	now   time.Time
}

func (f *fakeSessions) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	f.calls++
	f.now = now
	return 2, nil
}

func TestSessionJanitorSweepsUntilCanceled(t *testing.T) {
	store := &fakeSessions{}
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	j := &sessionJanitor{store: store, interval: time.Hour, now: func() time.Time { return fixed }}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := j.Serve(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, store.calls, "one sweep on start")
	assert.Equal(t, fixed, store.now)
}

func TestSessionJanitorRemovesExpired(t *testing.T) {
	store := databasetest.New(t)
	leo := databasetest.User(t, store, "leo")
	_, err := store.ReplaceSession(context.Background(), leo.ID, "old", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	j := &sessionJanitor{store: store, interval: time.Hour, now: time.Now}
	j.sweep(context.Background())

	_, err = store.SessionByToken(context.Background(), "old")
	assert.ErrorIs(t, err, database.ErrNotFound)
}
