package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gdasset/internal/cli"
)

const okScene = `[gd_scene load_steps=2 format=3]

[ext_resource type="Texture2D" path="res://icon.png" id="1"]

[node name="Root" type="Sprite2D"]
texture = ExtResource("1")
`

const badScene = `[gd_scene format=3]

[node name="Root" type="Node2D"]
missing = ExtResource("7")
`

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test", Commit: "test", Date: "test"}
}

// newProject creates a project directory holding project.godot and the
// given files, plus an explicit config that keeps logs quiet.
func newProject(t *testing.T, files map[string]string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.godot"), []byte("config_version=5\n"), 0o644))
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfgFile := filepath.Join(t.TempDir(), "gdasset.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("log_level: error\n"), 0o644))

	return dir, cfgFile
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)
	assert.Equal(t, "gdasset", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"inspect", "outline", "resolve", "refs", "watch", "env", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestInspectFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	inspect, _, err := cmd.Find([]string{"inspect"})
	require.NoError(t, err)

	for _, name := range []string{"format", "jobs", "ignore", "ext", "follow-symlinks", "outline", "properties", "ranges", "compact", "strict", "no-summary"} {
		assert.NotNil(t, inspect.Flags().Lookup(name), "missing flag %q", name)
	}
	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing global flag %q", name)
	}
}

func TestInspectCleanProject(t *testing.T) {
	t.Parallel()

	dir, cfg := newProject(t, map[string]string{"ok.tscn": okScene})

	out, err := execute(t, "inspect", "--color", "never", "--config", cfg, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 documents")
	assert.Contains(t, out, "all resolved")
}

func TestInspectUnresolved(t *testing.T) {
	t.Parallel()

	dir, cfg := newProject(t, map[string]string{"ok.tscn": okScene, "levels/bad.tscn": badScene})

	out, err := execute(t, "inspect", "--color", "never", "--config", cfg, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrUnresolved)
	assert.Equal(t, cli.ExitUnresolved, cli.ExitCode(err))
	assert.True(t, cli.IsReportedIssue(err))
	assert.Contains(t, out, "bad.tscn:4:11: ExtResource(\"7\") unresolved")
	assert.Contains(t, out, "1 unresolved")
}

func TestInspectIgnore(t *testing.T) {
	t.Parallel()

	dir, cfg := newProject(t, map[string]string{"ok.tscn": okScene, "levels/bad.tscn": badScene})

	_, err := execute(t, "inspect", "--color", "never", "--config", cfg, "--ignore", "levels", dir)
	require.NoError(t, err)
}

func TestInspectStrictTruncated(t *testing.T) {
	t.Parallel()

	dir, cfg := newProject(t, map[string]string{"open.tres": "[resource]\ntext = \"never closed\n"})

	out, err := execute(t, "inspect", "--color", "never", "--config", cfg, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "unterminated string")

	_, err = execute(t, "inspect", "--color", "never", "--config", cfg, "--strict", dir)
	require.ErrorIs(t, err, cli.ErrTruncated)
	assert.Equal(t, cli.ExitTruncated, cli.ExitCode(err))
}

func TestInspectJSON(t *testing.T) {
	t.Parallel()

	dir, cfg := newProject(t, map[string]string{"ok.tscn": okScene})

	out, err := execute(t, "inspect", "--config", cfg, "--format", "json", "--ext", ".tscn", dir)
	require.NoError(t, err)

	var payload struct {
		Files []struct {
			Document     string `json:"document"`
			ExtResources []struct {
				ID   string `json:"id"`
				Path string `json:"path"`
			} `json:"extResources"`
		} `json:"files"`
		Summary struct {
			FilesParsed int `json:"filesParsed"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Len(t, payload.Files, 1)
	assert.Equal(t, "res://ok.tscn", payload.Files[0].Document)
	require.Len(t, payload.Files[0].ExtResources, 1)
	assert.Equal(t, "res://icon.png", payload.Files[0].ExtResources[0].Path)
	assert.Equal(t, 1, payload.Summary.FilesParsed)
}

func TestInspectInvalidFormat(t *testing.T) {
	t.Parallel()

	dir, cfg := newProject(t, nil)

	_, err := execute(t, "inspect", "--config", cfg, "--format", "sarif", dir)
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestOutline(t *testing.T) {
	t.Parallel()

	dir, cfg := newProject(t, map[string]string{"ok.tscn": okScene})
	scene := filepath.Join(dir, "ok.tscn")

	out, err := execute(t, "outline", "--color", "never", "--config", cfg, "--properties", scene)
	require.NoError(t, err)
	assert.Contains(t, out, "$Root")
	assert.Contains(t, out, "texture")
	assert.Contains(t, out, "res://icon.png")
}

func TestResolve(t *testing.T) {
	t.Parallel()

	dir, cfg := newProject(t, map[string]string{"ok.tscn": okScene, "bad.tscn": badScene})

	out, err := execute(t, "resolve", "--color", "never", "--config", cfg, filepath.Join(dir, "ok.tscn"), "6:13")
	require.NoError(t, err)
	assert.Contains(t, out, "texture")
	assert.Contains(t, out, "code")
	assert.Contains(t, out, `ExtResource("1") -> res://icon.png Texture2D`)
	assert.Contains(t, out, "ok.tscn:3:1 ext_resource")

	out, err = execute(t, "resolve", "--color", "never", "--config", cfg, filepath.Join(dir, "ok.tscn"), "3:40")
	require.NoError(t, err)
	assert.Contains(t, out, "string")
	assert.NotContains(t, out, "reference")

	_, err = execute(t, "resolve", "--color", "never", "--config", cfg, filepath.Join(dir, "bad.tscn"), "4:12")
	require.ErrorIs(t, err, cli.ErrUnresolved)
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	dir, cfg := newProject(t, map[string]string{"ok.tscn": okScene})
	scene := filepath.Join(dir, "ok.tscn")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing column", []string{scene, "6"}, cli.ExitInvalidUsage},
		{"zero line", []string{scene, "0:1"}, cli.ExitInvalidUsage},
		{"bad column", []string{scene, "1:x"}, cli.ExitInvalidUsage},
		{"missing file", []string{filepath.Join(dir, "nope.tscn"), "1:1"}, cli.ExitIOError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"resolve", "--config", cfg}, testCase.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, testCase.code, cli.ExitCode(err))
		})
	}
}

func TestRefs(t *testing.T) {
	t.Parallel()

	dir, cfg := newProject(t, map[string]string{"ok.tscn": okScene, "bad.tscn": badScene})

	out, err := execute(t, "refs", "--color", "never", "--config", cfg, "res://icon.png", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `ok.tscn:6:11 ExtResource("1")`)
	assert.Contains(t, out, "1 reference to res://icon.png")

	out, err = execute(t, "refs", "--color", "never", "--config", cfg, "res://other.png", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No references to res://other.png")
}

func TestEnv(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "env", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "GDASSET_JOBS")
	assert.Contains(t, out, "GDASSET_WATCH_DEBOUNCE")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(nil))
	assert.Equal(t, cli.ExitInternalError, cli.ExitCode(errors.New("boom")))
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(&cli.ExitError{Code: cli.ExitIOError, Err: errors.New("read")}))
	assert.False(t, cli.IsReportedIssue(errors.New("boom")))
	assert.Nil(t, cli.ResultError(nil, true))
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchReparsesChangedDocuments(t *testing.T) {
	t.Parallel()

	dir, cfg := newProject(t, map[string]string{"ok.tscn": okScene})

	cmd := cli.NewRootCommand(testInfo())
	var out syncBuffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"watch", "--color", "never", "--config", cfg, "--debounce", "20ms", dir})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "2 documents")
	}, 5*time.Second, 20*time.Millisecond)

	// Rewrite until the watcher has picked the directory up.
	added := filepath.Join(dir, "added.tscn")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(added, []byte(badScene), 0o644)
		return strings.Contains(out.String(), "added.tscn: ")
	}, 5*time.Second, 100*time.Millisecond)
	assert.Contains(t, out.String(), "1 unresolved")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "test\n", out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gdasset")
	assert.Contains(t, out, "commit=test")
}

func TestHelpListsCommandsAndEnvironment(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "--help", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "inspect")
	assert.Contains(t, out, "Environment:")
	assert.Contains(t, out, "GDASSET_LOG_LEVEL")

	out, err = execute(t, "resolve", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "LINE:COL")
	assert.NotContains(t, out, "Environment:")
}

func TestRootAcceptsGlobalFlagsWithHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"color after help", []string{"--help", "--color", "never"}},
		{"color before help", []string{"--color", "always", "--help"}},
		{"color with equals", []string{"--color=never", "--help"}},
		{"no arguments", []string{"--color", "never"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, testCase.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "Usage:")
			assert.Contains(t, out, "Commands:")
		})
	}

	_, err := execute(t, "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "bogus"`)
}

func TestHelpStylesFollowParsedColorFlag(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCommand(testInfo())
	formatter := cli.NewHelpFormatter("never")

	plain := formatter.StylesFor(root, &bytes.Buffer{})
	assert.Equal(t, lipgloss.NoColor{}, plain.Command.GetForeground())

	require.NoError(t, root.PersistentFlags().Set("color", "always"))
	colored := formatter.StylesFor(root, &bytes.Buffer{})
	assert.Equal(t, lipgloss.Color("14"), colored.Command.GetForeground())
}
