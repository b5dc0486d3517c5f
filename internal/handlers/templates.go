package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"yatube/internal/database"
	"yatube/internal/forms"
	"yatube/internal/logging"
	"yatube/internal/models"
	"yatube/internal/validation"
)

// TemplateData holds data passed to HTML templates.
type TemplateData struct {
	User      *models.User
	CSRFToken string
	Path      string

	Page            *database.PostPage
	Post            *models.Post
	Comments        []models.Comment
	Group           *models.Group
	Author          *models.User
	AuthorPostCount int
	Following       bool
	FollowingCount  int
	FollowersCount  int

	Groups      []models.Group
	PostForm    *forms.PostForm
	CommentForm *forms.CommentForm
	SignupForm  *forms.SignupForm
	LoginForm   *forms.LoginForm
	Errors      validation.FieldErrors
	IsEdit      bool
	Next        string
	Error       string
}

// Templates holds one parsed set per page: the shared layout plus the page itself.
type Templates struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("02 Jan 2006 15:04")
	},
	// linebreaks escapes the text and keeps its line breaks
	"linebreaks": func(s string) template.HTML {
		s = strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n")
		return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
	},
	"truncate": func(n int, s string) string {
		r := []rune(s)
		if len(r) <= n {
			return s
		}
		return string(r[:n]) + "…"
	},
	"mediaURL": func(rel string) string {
		return "/media/" + strings.TrimPrefix(rel, "/")
	},
	"pageURL": func(n int) template.URL {
		return template.URL("?page=" + strconv.Itoa(n))
	},
}

// LoadTemplates parses layout/*.html once and every pages/*.html on top of a
// copy of it. fsys is rooted at the templates directory.
func LoadTemplates(fsys fs.FS) (*Templates, error) {
	base, err := template.New("").Funcs(templateFuncs).ParseFS(fsys, "layout/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, err
	}
	t := &Templates{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		page, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := page.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		t.pages[path.Base(file)] = page
	}
	return t, nil
}

// render выполняет шаблон в буфер, чтобы не отправлять частичный вывод при ошибке.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data *TemplateData) {
	h.fillCommon(r, data)

	page, ok := h.tmpl.pages[name]
	if !ok {
		logging.Ctx(r.Context()).Error().Str("template", name).Msg("unknown template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, "base", data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("error rendering template")
		if name != "500.html" {
			h.Render500(w, r, err)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck
}
