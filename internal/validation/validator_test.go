package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Text     string `form:"text" validate:"notblank,max=5"`
	Username string `form:"username" validate:"required,username"`
	Slug     string `form:"slug" validate:"omitempty,slug"`
}

func TestStructValid(t *testing.T) {
	assert.Nil(t, Struct(&sample{Text: "hi", Username: "leo.tolstoy"}))
}

func TestUsernameAcceptsUnicodeLetters(t *testing.T) {
	for _, name := range []string{"лев", "Лев_Толстой", "ёжик.42", "anna+bot@home", "٣"} {
		assert.Nil(t, Struct(&sample{Text: "hi", Username: name}), name)
	}
	for _, name := range []string{"лев толстой", "anna!", "a/b"} {
		assert.True(t, Struct(&sample{Text: "hi", Username: name}).Has("username"), name)
	}
}

func TestStructCollectsFieldErrors(t *testing.T) {
	errs := Struct(&sample{Text: "   ", Username: "bad name", Slug: "no spaces"})
	require.Len(t, errs, 3)

	assert.Equal(t, "This field is required.", errs.Get("text"))
	assert.True(t, errs.Has("username"))
	assert.True(t, errs.Has("slug"))
	assert.False(t, errs.Has("image"))
	assert.Contains(t, errs.Error(), "text: ")
}

func TestMaxCountsRunes(t *testing.T) {
	assert.Nil(t, Struct(&sample{Text: "пятьб", Username: "u"}))

	errs := Struct(&sample{Text: strings.Repeat("я", 6), Username: "u"})
	require.Len(t, errs, 1)
	assert.Equal(t, "max", errs[0].Tag)
	assert.Equal(t, "Ensure this value has at most 5 characters.", errs[0].Message)
}

func TestAdd(t *testing.T) {
	var errs FieldErrors
	errs.Add("group", "exists", "Select a valid choice.")
	assert.Equal(t, "Select a valid choice.", errs.Get("group"))
}
