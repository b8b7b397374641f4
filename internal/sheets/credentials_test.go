package sheets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/receipt-bot/internal/logger"
)

func TestResolveCredentials_InlineWins(t *testing.T) {
	log := logger.NewWithWriter(os.Stderr)

	got, err := ResolveCredentials(`{"type":"service_account"}`, nil, log)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(got))
}

func TestResolveCredentials_InvalidInlineFallsThrough(t *testing.T) {
	log := logger.NewWithWriter(os.Stderr)

	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"service_account","from":"file"}`), 0o600))

	got, err := ResolveCredentials("{not json", []string{path}, log)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"from":"file"`)
}

func TestResolveCredentials_PathOrder(t *testing.T) {
	log := logger.NewWithWriter(os.Stderr)
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.json")
	invalid := filepath.Join(dir, "invalid.json")
	valid := filepath.Join(dir, "valid.json")
	require.NoError(t, os.WriteFile(invalid, []byte("not json"), 0o600))
	require.NoError(t, os.WriteFile(valid, []byte(`{"ok":true}`), 0o600))

	got, err := ResolveCredentials("", []string{missing, invalid, valid}, log)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(got))
}

func TestResolveCredentials_Exhausted(t *testing.T) {
	log := logger.NewWithWriter(os.Stderr)

	_, err := ResolveCredentials("", []string{filepath.Join(t.TempDir(), "nope.json")}, log)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCredentialsNotFound))
}
