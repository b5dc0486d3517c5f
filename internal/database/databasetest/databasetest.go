// Package databasetest opens throwaway stores for tests.
package databasetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"yatube/config"
	"yatube/internal/database"
	"yatube/internal/models"
)

// New returns a migrated store backed by a private in-memory SQLite database
// that is closed when the test ends.
func New(t testing.TB) *database.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	s, err := database.Open(context.Background(), config.DatabaseConfig{Driver: "sqlite3", DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// User creates a user with password "password123".
func User(t testing.TB, s *database.Store, username string) *models.User {
	t.Helper()
	hash, err := database.HashPassword("password123")
	require.NoError(t, err)
	u := &models.User{Username: username, Email: username + "@example.com", Password: hash}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func Group(t testing.TB, s *database.Store, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(t, s.CreateGroup(context.Background(), g))
	return g
}

func Post(t testing.TB, s *database.Store, author *models.User, text string, group *models.Group) *models.Post {
	t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, s.CreatePost(context.Background(), p))
	return p
}
