package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	cfgPath = ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestOptimizeThenList(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`optimizer:
  time_limit: 10
  battery:
    - {size: small, seed: 1}
results:
  backend: jsonl
  path: `+filepath.Join(dir, "results.jsonl")+`
`), 0o644))
	space := filepath.Join(dir, "space.yaml")
	require.NoError(t, os.WriteFile(space, []byte(`team_counts: [1, 2]
distributions: [uniform]
strategy_ratios:
  - [1, 0, 0]
headcount: 2
`), 0o644))
	csvPath := filepath.Join(dir, "ranking.csv")

	out := execute(t, "optimize", "-c", cfg, "--space", space, "-o", csvPath, "--workers", "2")
	assert.Contains(t, out, "2 configurations, 2 trials")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 3)

	out = execute(t, "results", "ls", "-c", cfg)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "RUN"))
}

func TestRunCommand(t *testing.T) {
	out := execute(t, "run", "--size", "small", "--seed", "42")
	assert.Contains(t, out, "nearest")
	assert.Contains(t, out, "largest")
	assert.Contains(t, out, "multi")
}
