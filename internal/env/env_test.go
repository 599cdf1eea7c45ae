package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("NARRADOR_TEST_STRING", "custom")
	assert.Equal(t, "custom", GetEnvOrDefault("NARRADOR_TEST_STRING", "fallback"))
	assert.Equal(t, "fallback", GetEnvOrDefault("NARRADOR_TEST_UNSET", "fallback"))

	t.Setenv("NARRADOR_TEST_BLANK", "   ")
	assert.Equal(t, "fallback", GetEnvOrDefault("NARRADOR_TEST_BLANK", "fallback"))
}

func TestGetEnvBoolOrDefault(t *testing.T) {
	t.Setenv("NARRADOR_TEST_BOOL", "true")
	assert.True(t, GetEnvBoolOrDefault("NARRADOR_TEST_BOOL", false))

	t.Setenv("NARRADOR_TEST_BOOL_BAD", "maybe")
	assert.True(t, GetEnvBoolOrDefault("NARRADOR_TEST_BOOL_BAD", true))
	assert.False(t, GetEnvBoolOrDefault("NARRADOR_TEST_BOOL_UNSET", false))
}

func TestGetEnvIntOrDefault(t *testing.T) {
	t.Setenv("NARRADOR_TEST_INT", " 42 ")
	assert.Equal(t, 42, GetEnvIntOrDefault("NARRADOR_TEST_INT", 7))

	t.Setenv("NARRADOR_TEST_INT_BAD", "forty")
	assert.Equal(t, 7, GetEnvIntOrDefault("NARRADOR_TEST_INT_BAD", 7))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NARRADOR_DOTENV_NEW=from-file\nNARRADOR_DOTENV_SET=from-file\n"), 0o600))

	t.Setenv("NARRADOR_DOTENV_SET", "from-env")
	t.Setenv("NARRADOR_DOTENV_NEW", "")
	require.NoError(t, os.Unsetenv("NARRADOR_DOTENV_NEW"))

	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { _ = os.Unsetenv("NARRADOR_DOTENV_NEW") })

	assert.Equal(t, "from-file", os.Getenv("NARRADOR_DOTENV_NEW"))
	assert.Equal(t, "from-env", os.Getenv("NARRADOR_DOTENV_SET"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
