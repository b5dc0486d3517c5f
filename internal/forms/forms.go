// Package forms turns submitted HTML forms into typed values and reports
// which fields failed validation.
package forms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"yatube/internal/database"
	"yatube/internal/media"
	"yatube/internal/models"
	"yatube/internal/validation"
)

// CommentMaxLen is the longest comment accepted, in characters.
const CommentMaxLen = 300

// GroupFinder resolves the group picked in the post form.
type GroupFinder interface {
	GroupByID(ctx context.Context, id int) (*models.Group, error)
}

// ImageStore persists an uploaded image and returns its stored path.
type ImageStore interface {
	SaveImage(src io.ReadSeeker, filename string) (string, error)
}

type PostForm struct {
	Text       string `form:"text" validate:"notblank"`
	Group      string `form:"group" validate:"omitempty,number"`
	ClearImage bool   `form:"image-clear" validate:"-"`

	image     multipart.File
	imageName string
	imageSize int64
}

// ParsePostForm reads a post form, multipart or urlencoded. Files bigger than
// maxUploadBytes are reported by Apply as an image error.
func ParsePostForm(r *http.Request, maxUploadBytes int64) (*PostForm, error) {
	multipartBody := strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
	if multipartBody {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, fmt.Errorf("forms: parse multipart: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("forms: parse form: %w", err)
	}

	f := &PostForm{
		Text:       r.PostFormValue("text"),
		Group:      strings.TrimSpace(r.PostFormValue("group")),
		ClearImage: r.PostFormValue("image-clear") != "",
	}
	if !multipartBody {
		return f, nil
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		f.imageName, f.imageSize = header.Filename, header.Size
		if header.Size > maxUploadBytes {
			file.Close()
		} else {
			f.image = file
		}
	case errors.Is(err, http.ErrMissingFile):
	default:
		return nil, fmt.Errorf("forms: read image: %w", err)
	}
	return f, nil
}

// FromPost pre-fills the form for editing.
func FromPost(p *models.Post) *PostForm {
	f := &PostForm{Text: p.Text}
	if p.GroupID != nil {
		f.Group = strconv.Itoa(*p.GroupID)
	}
	return f
}

// GroupSelected is used by the template to mark the chosen option.
func (f *PostForm) GroupSelected(id int) bool {
	return f.Group == strconv.Itoa(id)
}

// Close releases the uploaded file, if any.
func (f *PostForm) Close() {
	if f.image != nil {
		f.image.Close()
	}
}

// Apply validates the form and, when it is valid, copies the cleaned values
// onto p. The image is written to images only after every other check
// passed; nothing is written to the database here.
func (f *PostForm) Apply(ctx context.Context, groups GroupFinder, images ImageStore, p *models.Post) (validation.FieldErrors, error) {
	errs := validation.Struct(f)

	var groupID *int
	if f.Group != "" && !errs.Has("group") {
		id, _ := strconv.Atoi(f.Group)
		if _, err := groups.GroupByID(ctx, id); err != nil {
			if !errors.Is(err, database.ErrNotFound) {
				return nil, err
			}
			errs.Add("group", "exists", "Select a valid choice. That choice is not one of the available choices.")
		} else {
			groupID = &id
		}
	}

	switch {
	case f.imageSize > 0 && f.image == nil:
		errs.Add("image", "size", fmt.Sprintf("The file is too large (%d bytes).", f.imageSize))
	case f.image != nil && !media.IsImage(f.image):
		errs.Add("image", "image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	if errs != nil {
		return errs, nil
	}

	p.Text = f.Text
	p.GroupID = groupID
	if f.ClearImage {
		p.Image = ""
	}
	if f.image != nil {
		rel, err := images.SaveImage(f.image, f.imageName)
		if err != nil {
			if errors.Is(err, media.ErrNotImage) {
				errs.Add("image", "image", "Upload a valid image.")
				return errs, nil
			}
			return nil, err
		}
		p.Image = rel
	}
	return nil, nil
}

type CommentForm struct {
	Text string `form:"text" validate:"notblank,max=300"`
}

func ParseCommentForm(r *http.Request) (*CommentForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("forms: parse form: %w", err)
	}
	return &CommentForm{Text: r.PostFormValue("text")}, nil
}

func (f *CommentForm) Validate() validation.FieldErrors {
	return validation.Struct(f)
}

type SignupForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,min=3,max=150,username"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Password  string `form:"password1" validate:"required,min=8,max=128"`
	Password2 string `form:"password2" validate:"required,eqfield=Password"`
}

func ParseSignupForm(r *http.Request) (*SignupForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("forms: parse form: %w", err)
	}
	return &SignupForm{
		FirstName: strings.TrimSpace(r.PostFormValue("first_name")),
		LastName:  strings.TrimSpace(r.PostFormValue("last_name")),
		Username:  strings.TrimSpace(r.PostFormValue("username")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Password:  r.PostFormValue("password1"),
		Password2: r.PostFormValue("password2"),
	}, nil
}

func (f *SignupForm) Validate() validation.FieldErrors {
	return validation.Struct(f)
}

// LoginForm accepts either a username or an email in Login.
type LoginForm struct {
	Login    string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func ParseLoginForm(r *http.Request) (*LoginForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("forms: parse form: %w", err)
	}
	return &LoginForm{
		Login:    strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}, nil
}

func (f *LoginForm) Validate() validation.FieldErrors {
	return validation.Struct(f)
}

// GroupForm is filled from the command line, not from HTTP.
type GroupForm struct {
	Title       string `form:"title" validate:"notblank,max=200"`
	Slug        string `form:"slug" validate:"required,max=50,slug"`
	Description string `form:"description" validate:"notblank"`
}

func (f *GroupForm) Validate() validation.FieldErrors {
	return validation.Struct(f)
}
