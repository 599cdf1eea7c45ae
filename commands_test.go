package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestModelCommand(t *testing.T) {
	t.Setenv("OPENROUTER_MODEL", "model-a")
	t.Setenv("OPENROUTER_API_KEY", "")

	out, stderr, err := runCommand(t, "model", "--env-file", noEnvFile(t))
	require.NoError(t, err)

	assert.Contains(t, out, "current: model-a")
	assert.Contains(t, out, "fallback 1: google/gemma-3-4b:free")
	assert.Contains(t, out, "fallback 3: liquid/lfm-2.5-1.2b-instruct:free")
	assert.Contains(t, stderr, "OPENROUTER_API_KEY")
}

func TestModelCommand_ReadsDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("OPENROUTER_MODEL=from-dotenv\n"), 0o600))
	t.Setenv("OPENROUTER_MODEL", "")
	require.NoError(t, os.Unsetenv("OPENROUTER_MODEL"))

	out, _, err := runCommand(t, "model", "--env-file", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "current: from-dotenv")
}

func TestNarrateCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if bytes.Contains(body, []byte(`"model":"busy"`)) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error":{"message":"busy"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"O dragão acorda."}}]}`)
	}))
	defer srv.Close()

	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("OPENROUTER_BASE_URL", srv.URL)
	t.Setenv("OPENROUTER_MODEL", "busy")

	out, stderr, err := runCommand(t, "narrate", "--env-file", noEnvFile(t), "acordo", "o", "dragão")
	require.NoError(t, err)
	assert.Equal(t, "O dragão acorda.\n", out)
	assert.Contains(t, stderr, "attempts: 2")
}

func TestNarrateCommand_MissingCredential(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")

	_, _, err := runCommand(t, "narrate", "--env-file", noEnvFile(t), "olá")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENROUTER_API_KEY")
}

func TestNarrateCommand_Exhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = io.WriteString(w, `{"error":{"message":"Insufficient credits"}}`)
	}))
	defer srv.Close()

	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("OPENROUTER_BASE_URL", srv.URL)

	out, _, err := runCommand(t, "narrate", "--env-file", noEnvFile(t), "olá")
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("%d attempts", 4))
	assert.Contains(t, out, "OpenRouter 402: Insufficient credits")
}

func TestNarrateCommand_RequiresText(t *testing.T) {
	_, _, err := runCommand(t, "narrate", "--env-file", noEnvFile(t))
	assert.Error(t, err)
}
