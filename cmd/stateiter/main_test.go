package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestRun_PrintsEveryState(t *testing.T) {
	out, _, err := execute(t, "run", "inc", "inc", "dec", "inc")
	require.NoError(t, err)

	assert.Equal(t,
		"state: 0\nstate: 1\nstate: 2\nstate: 1\nstate: 2\ndelivered=5 buffered=4 dropped=0\n",
		out,
	)
}

func TestRun_WithInterval(t *testing.T) {
	out, _, err := execute(t, "run", "--interval", "5ms", "inc", "inc")
	require.NoError(t, err)
	assert.Equal(t, "state: 0\nstate: 1\nstate: 2\ndelivered=3 buffered=2 dropped=0\n", out)
}

func TestRun_NoActions(t *testing.T) {
	out, _, err := execute(t, "run")
	require.NoError(t, err)
	assert.Equal(t, "state: 0\ndelivered=1 buffered=0 dropped=0\n", out)
}

func TestRun_UnknownAction(t *testing.T) {
	_, _, err := execute(t, "run", "inc", "reset")
	assert.ErrorContains(t, err, "unknown counter action")
}

func TestRun_OverflowAccountsForEveryChange(t *testing.T) {
	out, _, err := execute(t, "run", "--max-buffered", "1", "inc", "inc", "inc", "inc", "inc")
	require.NoError(t, err)

	m := regexp.MustCompile(`delivered=(\d+) buffered=(\d+) dropped=(\d+)`).FindStringSubmatch(out)
	require.Len(t, m, 4, "missing metrics line in %q", out)

	delivered, _ := strconv.Atoi(m[1])
	buffered, _ := strconv.Atoi(m[2])
	dropped, _ := strconv.Atoi(m[3])

	assert.Equal(t, 5, buffered+dropped)
	assert.Equal(t, buffered+1, delivered)
}

func TestRun_RecordObserver(t *testing.T) {
	out, _, err := execute(t, "run", "--observer", "record", "inc")
	require.NoError(t, err)

	assert.Contains(t, out, "iterable.create=1\n")
	assert.Contains(t, out, "iterable.deliver=2\n")
	assert.Contains(t, out, "iterable.snapshot=1\n")
	assert.Contains(t, out, "iterable.unsubscribe=1\n")
	assert.Contains(t, out, "iterable.complete=1\n")
}

func TestRun_ObserverList(t *testing.T) {
	out, stderr, err := execute(t, "run", "--observer", "slog,record", "--verbose", "inc")
	require.NoError(t, err)

	assert.Contains(t, out, "iterable.create=1\n")
	assert.Contains(t, stderr, "iterable.create")
}

func TestRun_VerboseSlog(t *testing.T) {
	_, stderr, err := execute(t, "run", "--observer", "slog", "--verbose", "--name", "cli", "inc")
	require.NoError(t, err)

	assert.Contains(t, stderr, "iterable.create")
	assert.Contains(t, stderr, "name=cli")
}

func TestRun_ConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stateiter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-file\nobserver: noop\n"), 0o600))

	t.Setenv(envObserver, "record")

	out, _, err := execute(t, "run", "--config", path, "inc")
	require.NoError(t, err)
	assert.Contains(t, out, "iterable.create=1\n", "env observer overrides the file")
}

func TestRun_InvalidEnv(t *testing.T) {
	t.Setenv(envMaxBuffered, "lots")

	_, _, err := execute(t, "run", "inc")
	assert.ErrorContains(t, err, envMaxBuffered)
}

func TestRun_FlagOverridesEnv(t *testing.T) {
	t.Setenv(envMaxBuffered, "1")

	out, _, err := execute(t, "run", "--max-buffered", "0", "--interval", "1ms", "inc", "inc", "inc")
	require.NoError(t, err)
	assert.Contains(t, out, "dropped=0\n")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "stateiter version dev\n", out)
}
