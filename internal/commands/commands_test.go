package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestMemberLifecycle(t *testing.T) {
	dir := t.TempDir()
	db := "sqlite3:" + filepath.Join(dir, "cli.db")
	env := filepath.Join(dir, "missing.env")
	t.Setenv("TASKBOARD_BCRYPT_COST", "4")

	_, err := run(t, "migrate", "--db", db, "--env-file", env)
	require.NoError(t, err)

	out, err := run(t, "member", "add", "--db", db, "--env-file", env, "--username", "ana", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, `Created member "ana"`)

	_, err = run(t, "member", "add", "--db", db, "--env-file", env, "--username", "ana", "--password", "pw")
	assert.ErrorContains(t, err, "username already exists")

	out, err = run(t, "member", "passwd", "--db", db, "--env-file", env, "--username", "ana", "--current", "pw", "--new", "pw2")
	require.NoError(t, err)
	assert.Contains(t, out, "Password changed")

	_, err = run(t, "member", "passwd", "--db", db, "--env-file", env, "--username", "ana", "--current", "pw", "--new", "pw3")
	assert.ErrorContains(t, err, "invalid username or password")

	_, err = run(t, "member", "passwd", "--db", db, "--env-file", env, "--username", "bo", "--current", "pw", "--new", "pw3")
	assert.ErrorContains(t, err, "invalid username or password")
}
