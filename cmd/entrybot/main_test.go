package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"entrybot/internal/batch"
	"entrybot/internal/config"
	"entrybot/internal/logging"
	"entrybot/internal/tactile"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ENTRYBOT_LOG_LEVEL", "error")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSetup_FlagOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entrybot.yaml")

	_, err := execute(t, "config", "init", path,
		"--limit", "3",
		"--output-dir", filepath.Join(dir, "posts"),
		"--source-url", "http://127.0.0.1:1/posts",
	)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Source.Limit)
	assert.Equal(t, filepath.Join(dir, "posts"), cfg.Output.Dir)
	assert.Equal(t, "http://127.0.0.1:1/posts", cfg.Source.URL)
}

func TestSetup_FlagsBeatEnvironment(t *testing.T) {
	t.Setenv("ENTRYBOT_LIMIT", "7")

	_, err := execute(t, "config", "init", filepath.Join(t.TempDir(), "a.yaml"), "--limit", "2")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Source.Limit)

	_, err = execute(t, "config", "init", filepath.Join(t.TempDir(), "b.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Source.Limit)
}

func TestSetup_RejectsInvalidConfig(t *testing.T) {
	_, err := execute(t, "config", "init", filepath.Join(t.TempDir(), "c.yaml"), "--limit", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source.limit")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "entrybot.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Source, loaded.Source)

	_, err = execute(t, "config", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestFetchCommand(t *testing.T) {
	var gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("_limit")
		_, _ = w.Write([]byte(`[{"id": 1, "title": "first title", "body": "b"}, {"title": "orphan", "body": "b"}]`))
	}))
	defer srv.Close()

	out, err := execute(t, "fetch", "--source-url", srv.URL+"/posts", "--limit", "2")
	require.NoError(t, err)

	assert.Equal(t, "2", gotLimit)
	assert.Contains(t, out, "first title")
	assert.Contains(t, out, "unknown")
}

func TestFetchCommand_SurfacesNetworkErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := execute(t, "fetch", "--source-url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestRunCommand_WrongPlatformFailsFast(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "posts")
	path := filepath.Join(t.TempDir(), "entrybot.yaml")
	c := config.DefaultConfig()
	c.Platform.RequiredOS = "darwin"
	if runtime.GOOS == "darwin" {
		c.Platform.RequiredOS = "linux"
	}
	require.NoError(t, c.Save(path))

	_, err := execute(t, "run", "--config", path, "--output-dir", dir, "--source-url", "http://127.0.0.1:1/posts")

	var fatal *batch.FatalPreconditionError
	require.ErrorAs(t, err, &fatal)
	assert.NoDirExists(t, dir)
}

type fakeRunner struct {
	report   *batch.Report
	err      error
	panicMsg string
	cleanups int
}

func (f *fakeRunner) Run(context.Context) (*batch.Report, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.report, f.err
}

func (f *fakeRunner) Cleanup(context.Context) tactile.CleanupResult {
	f.cleanups++
	return tactile.CleanupResult{}
}

func runFake(t *testing.T, r *fakeRunner) (string, error) {
	t.Helper()
	logger = zap.NewNop()
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	err := executeBatch(cmd, r)
	return out.String(), err
}

func TestExecuteBatch(t *testing.T) {
	sample := &batch.Report{
		OutputDir: "/tmp/posts",
		Outcomes: []batch.Outcome{
			{RecordID: "1", Title: "A", Stage: batch.StateClosingUp, Path: "/tmp/posts/post 1.txt"},
			{RecordID: "2", Title: "B", Stage: batch.StateAwaitingFocus, Err: errors.New("focus check failed")},
		},
		Succeeded: 1,
		Failed:    1,
		Sweeps:    4,
	}

	t.Run("completed", func(t *testing.T) {
		r := &fakeRunner{report: sample}
		out, err := runFake(t, r)
		require.NoError(t, err)
		assert.Zero(t, r.cleanups)
		assert.Contains(t, out, "Run summary")
		assert.Contains(t, out, "post 1.txt")
		assert.Contains(t, out, "awaiting_focus")
		assert.Contains(t, out, "1 succeeded, 1 failed, 4 cleanup sweeps")
	})

	t.Run("empty batch", func(t *testing.T) {
		r := &fakeRunner{report: &batch.Report{OutputDir: "/tmp/posts", Sweeps: 1}}
		out, err := runFake(t, r)
		require.NoError(t, err)
		assert.Contains(t, out, "0 succeeded, 0 failed")
	})

	t.Run("interrupted", func(t *testing.T) {
		r := &fakeRunner{report: &batch.Report{}, err: context.Canceled}
		_, err := runFake(t, r)
		assert.ErrorIs(t, err, errInterrupted)
		assert.Equal(t, 1, r.cleanups)
	})

	t.Run("fatal precondition", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logging.Use(zap.New(core))
		t.Cleanup(func() { logging.Use(nil) })

		r := &fakeRunner{report: &batch.Report{}, err: &batch.FatalPreconditionError{Reason: "wrong os"}}
		_, err := runFake(t, r)
		var fatal *batch.FatalPreconditionError
		assert.ErrorAs(t, err, &fatal)
		var logged *loggedError
		assert.ErrorAs(t, err, &logged)
		assert.Zero(t, r.cleanups)

		boot := logs.FilterField(zap.String("category", "boot")).All()
		require.Len(t, boot, 1)
		assert.Equal(t, zapcore.ErrorLevel, boot[0].Level)
		assert.Contains(t, boot[0].Message, "wrong os")
	})

	t.Run("unexpected error", func(t *testing.T) {
		boom := errors.New("boom")
		r := &fakeRunner{err: boom}
		_, err := runFake(t, r)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, r.cleanups)
	})

	t.Run("panic", func(t *testing.T) {
		r := &fakeRunner{panicMsg: "kaboom"}
		_, err := runFake(t, r)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unhandled panic: kaboom")
		assert.Equal(t, 1, r.cleanups)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
