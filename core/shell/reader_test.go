package shell

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r LineReader) []string {
	t.Helper()

	var lines []string
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
}

func TestRawReader(t *testing.T) {
	cases := map[string]struct {
		input   string
		maxLine int
		want    []string
	}{
		"lines":             {"echo hi\nls\n", 128, []string{"echo hi", "ls"}},
		"blank lines":       {"\n\nls\n", 128, []string{"", "", "ls"}},
		"unterminated last": {"ls\nexit", 128, []string{"ls", "exit"}},
		"empty":             {"", 128, nil},
		"truncated":         {"abcdefghijk\nls\n", 8, []string{"abcdefg", "ls"}},
		"longer than buffer": {
			strings.Repeat("a", 5000) + "\nls\n", 128,
			[]string{strings.Repeat("a", 127), "ls"},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			out := &bytes.Buffer{}
			r := NewRawReader(strings.NewReader(tc.input), out, "> ", tc.maxLine)
			defer r.Close()

			assert.Equal(t, tc.want, readAll(t, r))
			assert.Equal(t, strings.Repeat("> ", len(tc.want)+1), out.String(), "prompt before every read")
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
	assert.False(t, IsTerminal(nil))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()
	assert.False(t, IsTerminal(r))

	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()
	assert.True(t, IsTerminal(tty))
}
