package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	suberrors "github.com/Aman-CERP/subseq/internal/errors"
)

// isolateEnv points the user config at an empty directory and clears
// SUBSEQ_* overrides.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && (strings.HasPrefix(name, "SUBSEQ_") || name == "NO_COLOR") {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
	return dir
}

// run executes the root command in-process with stdin and args.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRoot_PositionsOutput(t *testing.T) {
	// Given: three candidates, one of which does not match
	isolateEnv(t)

	// When: searching with positions
	stdout, _, err := run(t, "abc\nac\nxyz\n", "-p", "ac")

	// Then: the contiguous match ranks first
	require.NoError(t, err)
	assert.Equal(t, "0,1:ac\n0,2:abc\n", stdout)
}

func TestRoot_PlainOutput(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := run(t, "archer\nelementary\n", "e")

	require.NoError(t, err)
	assert.Equal(t, "elementary\narcher\n", stdout)
}

func TestRoot_MarkedOutput(t *testing.T) {
	// Given: escape-sequence delimiters
	isolateEnv(t)

	// When: marking matches
	stdout, _, err := run(t, "abc\n", "-b", `\e[32m`, "-a", `\e[0m`, "ac")

	// Then: each matched run is wrapped
	require.NoError(t, err)
	assert.Equal(t, "\x1b[32ma\x1b[0mb\x1b[32mc\x1b[0m\n", stdout)
}

func TestRoot_MarkedAndPositions(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := run(t, "xx/y\n", "-p", "--separator", " ", "-b", "[", "-a", "]", "y")

	require.NoError(t, err)
	assert.Equal(t, "3 xx/[y]\n", stdout)
}

func TestRoot_ThreadCountDoesNotChangeOutput(t *testing.T) {
	// Given: a corpus with ties and boundary variety
	isolateEnv(t)
	var sb strings.Builder
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&sb, "src/pkg%d/file_%d.go\n", i%13, i)
		fmt.Fprintf(&sb, "lib/Feature%dLoader.go\n", i%29)
	}
	input := sb.String()

	// When: running with 0..3 threads
	var outputs []string
	for threads := 0; threads <= 3; threads++ {
		stdout, _, err := run(t, input, "-p", "-t", fmt.Sprint(threads), "fl")
		require.NoError(t, err)
		outputs = append(outputs, stdout)
	}

	// Then: output is byte-identical
	require.NotEmpty(t, outputs[0])
	for i := 1; i < len(outputs); i++ {
		assert.Equal(t, outputs[0], outputs[i], "threads=%d", i)
	}
}

func TestRoot_ZeroMatchesSucceeds(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := run(t, "abc\n", "zzz")

	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestRoot_EmptyInput(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := run(t, "", "a")

	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestRoot_EmptyQueryListsEverything(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := run(t, "ccc\na\nbb\nd\n", "")

	require.NoError(t, err)
	assert.Equal(t, "a\nd\nbb\nccc\n", stdout)
}

func TestRoot_Limit(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := run(t, "ab\naxb\naxxb\n", "--limit", "2", "ab")

	require.NoError(t, err)
	assert.Equal(t, "ab\naxb\n", stdout)
}

func TestRoot_CustomBoundaries(t *testing.T) {
	// Given: '|' promoted to the top class and '/' removed
	isolateEnv(t)

	// When: the query character follows each separator once
	stdout, _, err := run(t, "xx/y\nxx|y\n", "--level1", "|", "y")

	// Then: the '|' line wins
	require.NoError(t, err)
	assert.Equal(t, "xx|y\nxx/y\n", stdout)
}

func TestRoot_ColorAlways(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := run(t, "abc\n", "--color", "always", "b")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "a\x1b["), "got %q", stdout)
	assert.Contains(t, stdout, "b\x1b[")
	assert.True(t, strings.HasSuffix(stdout, "c\n"), "got %q", stdout)
}

func TestRoot_ExplicitMarksOverrideColor(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := run(t, "abc\n", "--color", "always", "-b", "<", "-a", ">", "b")

	require.NoError(t, err)
	assert.Equal(t, "a<b>c\n", stdout)
}

func TestRoot_ColorAutoOffForPipes(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := run(t, "abc\n", "--color", "auto", "b")

	require.NoError(t, err)
	assert.Equal(t, "abc\n", stdout)
}

func TestRoot_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"missing query", []string{}, suberrors.ErrCodeInvalidInput},
		{"two queries", []string{"a", "b"}, suberrors.ErrCodeInvalidInput},
		{"negative threads", []string{"-t", "-1", "a"}, suberrors.ErrCodeInvalidThreads},
		{"bad color", []string{"--color", "rainbow", "a"}, suberrors.ErrCodeInvalidColorMode},
		{"unknown flag", []string{"--frobnicate", "a"}, suberrors.ErrCodeInvalidInput},
		{"non-numeric threads", []string{"-t", "many", "a"}, suberrors.ErrCodeInvalidInput},
		{"missing config", []string{"--config", "/nonexistent/subseq.yaml", "a"}, suberrors.ErrCodeConfigNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)

			stdout, _, err := run(t, "abc\n", tt.args...)

			require.Error(t, err)
			assert.Equal(t, tt.code, suberrors.GetCode(err))
			assert.Empty(t, stdout)
			assert.Contains(t, suberrors.FormatForCLI(err), tt.code)
		})
	}
}

func TestRoot_ConfigFileAndEnvLayering(t *testing.T) {
	// Given: a config file, an env override and a flag
	dir := isolateEnv(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  positions: true\n  separator: \"|\"\nlimit: 5\n"), 0o644))
	t.Setenv("SUBSEQ_LIMIT", "2")

	// When: the flag overrides the env limit
	stdout, _, err := run(t, "a1\na22\na333\n", "--config", path, "-l", "1", "a")

	// Then: file sets positions, flag wins the limit
	require.NoError(t, err)
	assert.Equal(t, "0|a1\n", stdout)
}

func TestRoot_UserConfigFile(t *testing.T) {
	dir := isolateEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subseq"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "subseq", "config.yaml"),
		[]byte("marks:\n  before: \"(\"\n  after: \")\"\n"), 0o644))

	stdout, _, err := run(t, "abc\n", "b")

	require.NoError(t, err)
	assert.Equal(t, "a(b)c\n", stdout)
}

func TestRoot_DebugLogging(t *testing.T) {
	// Given: HOME redirected so the debug log lands in a temp dir
	isolateEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	// When: running with --debug
	_, stderr, err := run(t, "abc\n", "--debug", "-t", "2", "a")

	// Then: JSON records reach the log file and stderr
	require.NoError(t, err)
	content, readErr := os.ReadFile(filepath.Join(home, ".subseq", "logs", "subseq.log"))
	require.NoError(t, readErr)
	assert.Contains(t, string(content), `"msg":"search_complete"`)
	assert.Contains(t, stderr, "search_complete")
}

func TestRoot_Profiles(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.prof")
	mem := filepath.Join(dir, "mem.prof")

	_, _, err := run(t, "abc\n", "--profile-cpu", cpu, "--profile-mem", mem, "a")

	require.NoError(t, err)
	for _, p := range []string{cpu, mem} {
		info, statErr := os.Stat(p)
		require.NoError(t, statErr)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestRoot_VersionFlag(t *testing.T) {
	isolateEnv(t)

	stdout, _, err := run(t, "", "--version")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "subseq version "))
}

func TestRoot_MarksBestAlignment(t *testing.T) {
	// Given: two occurrences, the second after a boundary
	isolateEnv(t)

	stdout, _, err := run(t, "xa/a\n", "-b", "[", "-a", "]", "a")

	// Then: the boundary occurrence is marked
	require.NoError(t, err)
	assert.Equal(t, "xa/[a]\n", stdout)
}

func TestLogFailure_RecordsCategory(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", suberrors.ValidationError("bad flag", nil), "category=VALIDATION"},
		{"uncoded", errors.New("boom"), "category=INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()

			logFailure(tt.err)

			assert.Contains(t, buf.String(), "command_failed")
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
