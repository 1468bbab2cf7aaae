package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	stdout, stderr, err := runShred(t, binaryPath, home, "seed")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Seeded 5 subscriptions")

	stdout, stderr, err = runShred(t, binaryPath, home, "list", "--filter", "zombie", "--json")
	require.NoError(t, err, "stderr: %s", stderr)

	var zombies []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &zombies))
	require.Len(t, zombies, 3)
	assert.Equal(t, "Adobe CC", zombies[0]["name"])

	id, ok := zombies[0]["id"].(string)
	require.True(t, ok)

	stdout, stderr, err = runShred(t, binaryPath, home, "cancel", "--id", id, "--yes")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Cancelled Adobe CC: saving $600.00/mo")

	stdout, stderr, err = runShred(t, binaryPath, home, "stats", "--json")
	require.NoError(t, err, "stderr: %s", stderr)

	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &stats))
	assert.Equal(t, float64(850), stats["total_spend"])
	assert.Equal(t, float64(295), stats["wasted_spend"])
	assert.Equal(t, float64(65), stats["health_score"])
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "shred-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/shred")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build shred binary: %s", string(output))
	return binaryPath
}

func runShred(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home, "SHRED_HOME=", "SHRED_SECRETS_BACKEND=file")

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
