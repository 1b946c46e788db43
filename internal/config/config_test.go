package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parley.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/parley.db

auth:
  session_secret: super-secret
  session_ttl: 2h

chats:
  member_management: owner
  page_size: 25

logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/parley.db", cfg.Database.Path)
	assert.Equal(t, "super-secret", cfg.Auth.SessionSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "owner", cfg.Chats.MemberManagement)
	assert.Equal(t, 25, cfg.Chats.PageSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("PARLEY_TEST_SECRET", "from-the-environment")

	path := writeConfig(t, `
database:
  path: /tmp/parley.db
auth:
  session_secret: ${PARLEY_TEST_SECRET}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-the-environment", cfg.Auth.SessionSecret)
}

func TestLoad_UnsetEnvVarFailsValidation(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/parley.db
auth:
  session_secret: ${PARLEY_DEFINITELY_UNSET_VAR}
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_secret")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MissingDatabasePath(t *testing.T) {
	path := writeConfig(t, `
auth:
  session_secret: secret
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.path")
}

func TestLoad_BadSessionTTL(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/parley.db
auth:
  session_secret: secret
  session_ttl: soon
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_ttl")
}

func TestLoad_BadMemberManagement(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/parley.db
auth:
  session_secret: secret
chats:
  member_management: anarchy
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "member_management")
}

func TestLoad_NegativePageSize(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/parley.db
auth:
  session_secret: secret
chats:
  page_size: -1
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page_size")
}

func TestLoad_DefaultsAreOptional(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/parley.db
auth:
  session_secret: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Auth.SessionTTL)
	assert.Empty(t, cfg.Chats.MemberManagement)
	assert.Zero(t, cfg.Chats.PageSize)
}
