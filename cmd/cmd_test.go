package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLI(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("YATUBE_DB_DSN", filepath.Join(dir, "cli.db")+"?_foreign_keys=on")
	t.Setenv("YATUBE_LOG_LEVEL", "disabled")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestMigrate(t *testing.T) {
	setupCLI(t)

	_, err := execute(t, "migrate")
	require.NoError(t, err)
	_, err = execute(t, "migrate")
	require.NoError(t, err, "migrate must be repeatable")
}

func TestGroupCommands(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "group", "create", "--title", "Лев Толстой", "--slug", "tolstoy", "--description", "Всё о Толстом")
	require.NoError(t, err)
	assert.Contains(t, out, "/group/tolstoy/")

	_, err = execute(t, "group", "create", "--title", "Другая", "--slug", "tolstoy", "--description", "дубль")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "group", "create", "--title", "Плохой", "--slug", "not a slug", "--description", "x")
	require.Error(t, err)

	out, err = execute(t, "group", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "tolstoy")
	assert.Contains(t, out, "Лев Толстой")

	_, err = execute(t, "group", "delete", "tolstoy")
	require.NoError(t, err)
	_, err = execute(t, "group", "delete", "tolstoy")
	require.Error(t, err)
}

func TestUserCreate(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "user", "create", "--username", "leo", "--email", "leo@example.com", "--password", "warandpeace")
	require.NoError(t, err)
	assert.Contains(t, out, "leo")

	_, err = execute(t, "user", "create", "--username", "LEO", "--email", "other@example.com", "--password", "warandpeace")
	require.Error(t, err, "usernames are case-insensitive")

	_, err = execute(t, "user", "create", "--username", "anna", "--email", "anna@example.com", "--password", "short")
	require.Error(t, err)
}
