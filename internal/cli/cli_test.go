package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwiizo/yamori/internal/config"
)

const mixedConfig = `
[[tests]]
name = "greeting"
command = "echo"
args = ["hello"]
expected_output = "hello"

[[tests]]
name = "wrong"
command = "echo"
args = ["actual"]
expected_output = "expected"
`

const passingConfig = `
[[tests]]
name = "greeting"
command = "echo"
args = ["hello"]
expected_output = "hello"
`

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"test failure", &TestFailureError{Failed: 1, Total: 2}, ExitTestFailure},
		{"wrapped test failure", fmt.Errorf("batch: %w", &TestFailureError{Failed: 1, Total: 1}), ExitTestFailure},
		{"runtime error", NewRuntimeError(errors.New("bad config")), ExitRuntimeErr},
		{"plain error", errors.New("unknown flag"), ExitRuntimeErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestRuntimeErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewRuntimeError(cause)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "runtime error: boom", err.Error())
}

// newTestApp writes config into a temporary work directory and returns an
// App rooted there.
func newTestApp(t *testing.T, body string) (*App, *bytes.Buffer) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests rely on echo")
	}
	t.Setenv(configEnv, "")

	dir := t.TempDir()
	if body != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "tests.toml"), []byte(body), 0600))
	}
	out := &bytes.Buffer{}
	return &App{Out: out, WorkDir: dir}, out
}

const configEnv = config.EnvConfigPath

func execute(app *App, args ...string) error {
	cmd := app.CreateRootCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestCLIModeAllPass(t *testing.T) {
	app, out := newTestApp(t, passingConfig)

	err := execute(app, "--cli", "--yamori-config", "tests.toml")
	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, ExitCode(err))

	text := out.String()
	assert.Contains(t, text, "Running tests from configuration: tests.toml")
	assert.Contains(t, text, "Passed: 1/1 (100.0%)")
	assert.Contains(t, text, "[PASS] Test #1: greeting")
}

func TestCLIModeFailure(t *testing.T) {
	app, out := newTestApp(t, mixedConfig)

	err := execute(app, "-c", "-y", "tests.toml")
	require.Error(t, err)
	assert.Equal(t, ExitTestFailure, ExitCode(err))

	var failure *TestFailureError
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, 1, failure.Failed)
	assert.Equal(t, 2, failure.Total)

	text := out.String()
	assert.Contains(t, text, "Passed: 1/2 (50.0%)")
	assert.Contains(t, text, "[FAIL] Test #2: wrong")
	assert.Contains(t, text, "  Command: echo actual")
	assert.Contains(t, text, "- expected")
	assert.Contains(t, text, "+ actual")
}

func TestRunCommand(t *testing.T) {
	t.Run("selected tests only", func(t *testing.T) {
		app, out := newTestApp(t, mixedConfig)

		err := execute(app, "run", "greeting", "-y", "tests.toml")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Passed: 1/1")
		assert.NotContains(t, out.String(), "wrong")
	})

	t.Run("unknown test", func(t *testing.T) {
		app, _ := newTestApp(t, mixedConfig)

		err := execute(app, "run", "missing", "-y", "tests.toml")
		require.Error(t, err)
		assert.Equal(t, ExitRuntimeErr, ExitCode(err))
		assert.Contains(t, err.Error(), `unknown test "missing"`)
	})
}

func TestConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		app, _ := newTestApp(t, "")

		err := execute(app, "--cli", "-y", "nope.toml")
		require.Error(t, err)
		assert.Equal(t, ExitRuntimeErr, ExitCode(err))
		assert.Contains(t, err.Error(), "failed to load config from `nope.toml`")
	})

	t.Run("invalid document", func(t *testing.T) {
		app, _ := newTestApp(t, "[[tests]]\nname = \"no command\"\n")

		err := execute(app, "--cli", "-y", "tests.toml")
		require.Error(t, err)
		assert.Equal(t, ExitRuntimeErr, ExitCode(err))
	})
}

func TestConfigPathFromEnvironment(t *testing.T) {
	app, out := newTestApp(t, passingConfig)
	t.Setenv(configEnv, filepath.Join(app.WorkDir, "tests.toml"))

	err := execute(app, "--cli", "-y", "ignored.toml")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Passed: 1/1")
}

func TestListCommand(t *testing.T) {
	app, out := newTestApp(t, mixedConfig)

	require.NoError(t, execute(app, "list", "-y", "tests.toml"))
	text := out.String()
	assert.Contains(t, text, "greeting")
	assert.Contains(t, text, "echo actual")
	assert.Contains(t, text, "2 TESTS")
}

func TestVersionCommand(t *testing.T) {
	app, out := newTestApp(t, "")

	require.NoError(t, execute(app, "version"))
	assert.Contains(t, out.String(), "yamori v")
}

func TestRejectsPositionalArgs(t *testing.T) {
	app, _ := newTestApp(t, passingConfig)

	err := execute(app, "stray")
	require.Error(t, err)
	assert.Equal(t, ExitRuntimeErr, ExitCode(err))
}
