package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/josephlewis42/myshell/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfgPath = ""
	out := &bytes.Buffer{}
	// A nil slice makes cobra fall back to os.Args.
	rootCmd.SetArgs(append([]string{}, args...))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestBuiltinsCommand(t *testing.T) {
	out, err := execute(t, "", "builtins")
	require.NoError(t, err)
	assert.Equal(t, "exit\nhistory\n", out)
}

func TestRootCommand(t *testing.T) {
	out, err := execute(t, "history\nexit\necho unreachable\n")
	require.NoError(t, err)
	assert.Equal(t, "myshell: myshell: ", out)
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "", "--config", dir, "init")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, config.ConfigurationName))
	assert.NoError(t, err)
}

func TestEventsCommands(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, config.ConfigurationName),
		[]byte("prompt: \"$ \"\nevent_log: events.log\n"),
		0644,
	))

	out, err := execute(t, "history\n!4\n", "--config", dir)
	require.NoError(t, err)
	assert.Equal(t, "$ $ Invalid history index.\n$ ", out)

	report, err := execute(t, "", "--config", dir, "events", "report")
	require.NoError(t, err)
	assert.Contains(t, report, "log_entries: 2")
	assert.Contains(t, report, "invalid_indexes: 1")

	entries, err := execute(t, "", "--config", dir, "events", "cat")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(entries), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], " command ")
	assert.Contains(t, lines[1], " invalid_history_index ")
}

func TestEventsWithoutLog(t *testing.T) {
	_, err := execute(t, "", "events", "report")
	assert.ErrorIs(t, err, errNoEventLog)
}
