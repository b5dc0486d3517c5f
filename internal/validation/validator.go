// Package validation wraps a shared go-playground/validator instance and turns
// its errors into per-field messages a form can display.
//
//	type CommentForm struct {
//	    Text string `form:"text" validate:"notblank,max=300"`
//	}
//
//	if errs := validation.Struct(&f); errs != nil {
//	    data.Errors = errs
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugRegex     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// FieldError is one failed rule on one form field.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// FieldErrors lists every failing field of a form. A nil value means the form is valid.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(fe))
	for i, e := range fe {
		messages[i] = e.Field + ": " + e.Message
	}
	return strings.Join(messages, "; ")
}

// Has reports whether field failed any rule.
func (fe FieldErrors) Has(field string) bool {
	return fe.Get(field) != ""
}

// Get returns the first message for field, or "".
func (fe FieldErrors) Get(field string) string {
	for _, e := range fe {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// Add records an error found outside of struct tags, e.g. a missing group.
func (fe *FieldErrors) Add(field, tag, message string) {
	*fe = append(*fe, FieldError{Field: field, Tag: tag, Message: message})
}

// Validator returns the shared validator. Field names in errors come from the
// `form` tag so they match the HTML inputs.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return strings.ToLower(f.Name)
			}
			return name
		})
		mustRegister("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		mustRegister("username", func(fl validator.FieldLevel) bool {
			return usernameRegex.MatchString(fl.Field().String())
		})
		mustRegister("slug", func(fl validator.FieldLevel) bool {
			return slugRegex.MatchString(fl.Field().String())
		})
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Struct validates s and returns nil when every rule passes.
func Struct(s any) FieldErrors {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return FieldErrors{{Field: "form", Tag: "unknown", Message: err.Error()}}
	}

	out := make(FieldErrors, len(validationErrs))
	for i, fe := range validationErrs {
		out[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translateError(fe),
		}
	}
	return out
}

var errorMessageTemplates = map[string]string{
	"required": "This field is required.",
	"notblank": "This field is required.",
	"email":    "Enter a valid email address.",
	"username": "Use only letters, digits and @/./+/-/_ characters.",
	"slug":     "Use only latin letters, digits, hyphens and underscores.",
	"number":   "Select a valid choice.",
}

var errorMessageWithParam = map[string]string{
	"min":     "Ensure this value has at least %s characters.",
	"max":     "Ensure this value has at most %s characters.",
	"eqfield": "The two %s fields didn't match.",
}

func translateError(fe validator.FieldError) string {
	if msg, ok := errorMessageTemplates[fe.Tag()]; ok {
		return msg
	}
	if tmpl, ok := errorMessageWithParam[fe.Tag()]; ok {
		param := fe.Param()
		if fe.Tag() == "eqfield" {
			param = strings.ToLower(param)
		}
		return fmt.Sprintf(tmpl, param)
	}
	return fmt.Sprintf("Failed %s validation.", fe.Tag())
}
