package shell

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/josephlewis42/myshell/core/config"
	"github.com/josephlewis42/myshell/core/proc/proctest"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shellFixture struct {
	*Shell
	stdout *proctest.Buffer
	stderr *proctest.Buffer
}

func newTestShell(t *testing.T, input string, path string, configure ...func(*config.Configuration)) *shellFixture {
	t.Helper()

	cfg := config.Default()
	cfg.Color = "never"
	for _, fn := range configure {
		fn(cfg)
	}

	f := &shellFixture{stdout: &proctest.Buffer{}, stderr: &proctest.Buffer{}}
	s, err := NewShell(cfg, Env{
		Stdin:  strings.NewReader(input),
		Stdout: f.stdout,
		Stderr: f.stderr,
		Getenv: proctest.Getenv(path),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Jobs.WaitBackground()
		s.Close()
	})

	f.Shell = s
	return f
}

func TestTranscripts(t *testing.T) {
	cases := map[string]struct {
		programs []string
		input    []string
	}{
		"history": {
			programs: []string{"echo"},
			input:    []string{"echo one", "echo two", "history", "!5", "!0", "history"},
		},
		"errors": {
			input: []string{"nosuchcommand-xyz", "cat <", "history foo"},
		},
	}

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			out := &proctest.Buffer{}
			s, err := NewShell(&config.Configuration{
				Prompt:      DefaultPrompt,
				MaxLine:     DefaultMaxLine,
				MaxArgs:     DefaultMaxArgs,
				HistorySize: DefaultHistorySize,
				Color:       "never",
			}, Env{
				Stdin:  strings.NewReader(strings.Join(tc.input, "\n") + "\n"),
				Stdout: out,
				Stderr: out,
				Getenv: proctest.Getenv(proctest.Path(t, tc.programs...)),
			})
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.Run())
			g.Assert(t, tn, []byte(out.String()))
		})
	}
}

func TestShell_BlankLinesIgnored(t *testing.T) {
	s := newTestShell(t, "\n   \n\t\n", proctest.Path(t))

	require.NoError(t, s.Run())
	assert.Equal(t, 0, s.History.Len())
	assert.Empty(t, s.stderr.String())
	assert.Equal(t, strings.Repeat(DefaultPrompt, 4), s.stdout.String())
}

func TestShell_EndOfInput(t *testing.T) {
	s := newTestShell(t, "", proctest.Path(t))

	require.NoError(t, s.Run())
	assert.False(t, s.Quit)
	assert.Equal(t, DefaultPrompt, s.stdout.String())
}

func TestShell_InputError(t *testing.T) {
	cfg := config.Default()
	s, err := NewShell(cfg, Env{
		Stdin:  iotest.ErrReader(errors.New("device gone")),
		Stdout: &proctest.Buffer{},
		Stderr: &proctest.Buffer{},
	})
	require.NoError(t, err)

	err = s.Run()
	assert.ErrorIs(t, err, ErrInputIO)
	assert.Contains(t, err.Error(), "device gone")
}

func TestShell_Exit(t *testing.T) {
	s := newTestShell(t, "exit\necho after\n", proctest.Path(t, "echo"))

	require.NoError(t, s.Run())
	assert.True(t, s.Quit)
	assert.NotContains(t, s.stdout.String(), "after")
	assert.Equal(t, 0, s.lastRet)
}

func TestShell_ExitWithPendingJobs(t *testing.T) {
	s := newTestShell(t, "sleep 1 &\nexit\n", proctest.Path(t, "sleep"))

	require.NoError(t, s.Run())
	assert.False(t, s.Quit, "exit is refused while jobs run")
	assert.Equal(t, 1, s.lastRet)
	assert.Regexp(t, `Process running in background: \d+\n`, s.stdout.String())
	assert.Equal(t, msgPendingJobs+"\n", s.stderr.String())

	s.Jobs.WaitBackground()
	require.NoError(t, s.Execute("exit"))
	assert.True(t, s.Quit)
}

func TestShell_BackgroundReturnsPrompt(t *testing.T) {
	s := newTestShell(t, "sleep 2 &\n", proctest.Path(t, "sleep"))

	start := time.Now()
	require.NoError(t, s.Run())
	assert.True(t, time.Since(start) < 1500*time.Millisecond, "background jobs don't block")
	assert.Equal(t, 1, s.Jobs.Pending())
	assert.Nil(t, s.Jobs.Foreground())
}

func TestShell_ReplayNotRecorded(t *testing.T) {
	s := newTestShell(t, "echo a\n!0\n!0\n", proctest.Path(t, "echo"))

	require.NoError(t, s.Run())
	assert.Equal(t, 1, s.History.Len())
	assert.Equal(t, DefaultPrompt+"a\n"+DefaultPrompt+"a\n"+DefaultPrompt+"a\n"+DefaultPrompt, s.stdout.String())
}

func TestShell_ReplayNeedsBareIndex(t *testing.T) {
	cases := map[string]string{
		"trailing word": "!0 x",
		"background":    "!0 &",
		"sign":          "!+0",
		"negative":      "!-1",
		"not a number":  "!a",
		"bang only":     "!",
	}

	for tn, raw := range cases {
		t.Run(tn, func(t *testing.T) {
			line, err := Parser{}.Parse(raw)
			require.NoError(t, err)

			_, ok := replayIndex(line)
			assert.False(t, ok)
		})
	}

	line, err := Parser{}.Parse("!12")
	require.NoError(t, err)
	index, ok := replayIndex(line)
	assert.True(t, ok)
	assert.Equal(t, 12, index)
}

func TestShell_InvalidReplay(t *testing.T) {
	s := newTestShell(t, "!0\n", proctest.Path(t))

	require.NoError(t, s.Run())
	assert.Equal(t, msgInvalidHistoryIndex+"\n", s.stderr.String())
	assert.Equal(t, 0, s.History.Len())
}

func TestShell_TooManyArguments(t *testing.T) {
	s := newTestShell(t, "echo a b c\n", proctest.Path(t, "echo"), func(cfg *config.Configuration) {
		cfg.MaxArgs = 3
	})

	require.NoError(t, s.Run())
	assert.Contains(t, s.stderr.String(), "too many arguments")
	assert.NotContains(t, s.stdout.String(), "a b c")
	assert.Equal(t, 0, s.History.Len())
}

func TestShell_CommandNotFoundContinues(t *testing.T) {
	s := newTestShell(t, "nosuchcommand-xyz\necho still here\n", proctest.Path(t, "echo"))

	require.NoError(t, s.Run())
	assert.Equal(t, "Command not found: nosuchcommand-xyz\n", s.stderr.String())
	assert.Contains(t, s.stdout.String(), "still here\n")
	assert.Equal(t, 2, s.History.Len())
}

func TestShell_Redirection(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")
	s := newTestShell(t, "echo hi > "+out+"\n", proctest.Path(t, "echo"))

	require.NoError(t, s.Run())
	assert.Equal(t, DefaultPrompt+DefaultPrompt, s.stdout.String(), "nothing but prompts reach the terminal")

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(got))
}

func TestShell_BuiltinRedirection(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hist.txt")
	s := newTestShell(t, "echo a\nhistory > "+out+"\n", proctest.Path(t, "echo"))

	require.NoError(t, s.Run())
	assert.NotContains(t, s.stdout.String(), "0 echo a")

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "0 echo a\n", string(got))
}

func TestShell_HistoryLastN(t *testing.T) {
	s := newTestShell(t, "", proctest.Path(t))
	for _, line := range []string{"a", "b", "c", "d"} {
		s.History.Record(line)
	}

	require.NoError(t, s.Execute("history 2"))
	assert.Equal(t, "2 c\n3 d\n", s.stdout.String())
}

func TestShell_HistoryUsage(t *testing.T) {
	s := newTestShell(t, "", proctest.Path(t))

	require.NoError(t, s.Execute("history --help"))
	assert.Contains(t, s.stderr.String(), "usage: history [N]")
	assert.Empty(t, s.stdout.String())
}

func TestListBuiltins(t *testing.T) {
	assert.Equal(t, []string{"exit", "history"}, ListBuiltins())
}
