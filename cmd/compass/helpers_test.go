package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/growth-compass/internal/signals"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// isolate clears the environment the commands read and resets flag state.
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "SQLITE_PATH", "CATALOG_PATH",
		"LLM_PROVIDER", "LLM_MODEL", "LLM_API_KEY", "GEMINI_API_KEY", "LLM_BASE_URL",
		"SUMMARY_TIMEOUT", "LOG_LEVEL", "JWT_SECRET", "JWT_EXPIRATION_HOURS", "JWT_ISSUER",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "error")

	configPath, verbose = "", false
	scoreAssessment, scoreAnswers, scoreOutput = "", "", ""
	scoreEmail, scoreName, scoreSQLite = "", "", ""
	recommendEmail, recommendName, recommendSQLite, recommendResults, recommendOutput = "", "", "", "", ""
	recommendLimit = signals.DefaultLimit
	validateCatalogSchema = ""
	tokenName = ""
	validateCatalogFile = ""
	tokenEmail = ""
}

// newTestCmd returns a command whose output is captured in the buffer.
func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	return cmd, &buf
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const exhaustedAnswers = `{
  "answers": [
    {"questionId": "exhaustion-1", "value": 5},
    {"questionId": "exhaustion-2", "value": 5},
    {"questionId": "exhaustion-3", "value": 5}
  ],
  "priorities": ["work-life-balance"]
}`
