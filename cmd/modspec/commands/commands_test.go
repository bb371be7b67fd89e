package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modspec/cmd/modspec/commands"
	"go.trai.ch/modspec/internal/app"
	"go.trai.ch/modspec/internal/build"
	"go.trai.ch/modspec/internal/core/domain"
)

type mockApp struct {
	resolveFunc func(ctx context.Context, cwd string, opts app.ResolveOptions) (*app.Result, error)
	serveFunc   func(ctx context.Context, cwd string, in io.Reader, out io.Writer) error
}

func (m *mockApp) Resolve(ctx context.Context, cwd string, opts app.ResolveOptions) (*app.Result, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, cwd, opts)
	}
	return &app.Result{Entry: &domain.CacheEntry{}}, nil
}

func (m *mockApp) Serve(ctx context.Context, cwd string, in io.Reader, out io.Writer) error {
	if m.serveFunc != nil {
		return m.serveFunc(ctx, cwd, in, out)
	}
	return nil
}

type jsonLogger struct {
	json bool
}

func (l *jsonLogger) Info(string) {}

func (l *jsonLogger) Warn(string) {}

func (l *jsonLogger) Error(error) {}

func (l *jsonLogger) SetJSON(enable bool) { l.json = enable }

func lodashResult() *app.Result {
	return &app.Result{
		Entry: &domain.CacheEntry{
			ModulePaths:                        []domain.ModulePath{{Path: "/proj/node_modules/lodash/index.d.ts", IsInNodeModules: true}},
			ModuleSpecifiers:                   []string{"lodash"},
			Kind:                               domain.KindNodeModules,
			IsBlockedByPackageJSONDependencies: true,
		},
		Cached: true,
	}
}

func TestCommands_Resolve(t *testing.T) {
	t.Run("wires arguments and flags", func(t *testing.T) {
		var captured app.ResolveOptions
		var capturedCwd string
		mock := &mockApp{
			resolveFunc: func(_ context.Context, cwd string, opts app.ResolveOptions) (*app.Result, error) {
				capturedCwd = cwd
				captured = opts
				return lodashResult(), nil
			},
		}

		cli := commands.New(mock, &jsonLogger{})
		out, errOut := new(bytes.Buffer), new(bytes.Buffer)
		cli.SetIO(strings.NewReader(""), out, errOut)
		cli.SetArgs([]string{"resolve", "-C", "/proj", "--mode", "esm", "src/a.ts", "/proj/node_modules/lodash/index.d.ts"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "/proj", capturedCwd)
		assert.Equal(t, app.ResolveOptions{
			From: "/proj/src/a.ts",
			To:   "/proj/node_modules/lodash/index.d.ts",
			Mode: domain.ModeESM,
		}, captured)
		assert.Equal(t, "lodash\n", out.String())
		assert.Contains(t, errOut.String(), "not a declared dependency")
	})

	t.Run("prints json", func(t *testing.T) {
		mock := &mockApp{
			resolveFunc: func(context.Context, string, app.ResolveOptions) (*app.Result, error) {
				return lodashResult(), nil
			},
		}

		cli := commands.New(mock, &jsonLogger{})
		out := new(bytes.Buffer)
		cli.SetIO(strings.NewReader(""), out, io.Discard)
		cli.SetArgs([]string{"resolve", "-C", "/proj", "--json", "src/a.ts", "node_modules/lodash/index.d.ts"})

		require.NoError(t, cli.Execute(context.Background()))

		var resp app.Response
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		assert.True(t, resp.OK)
		assert.True(t, resp.Cached)
		assert.Equal(t, []string{"lodash"}, resp.ModuleSpecifiers)
		assert.Equal(t, string(domain.KindNodeModules), resp.Kind)
		assert.True(t, resp.IsBlockedByPackageJSONDependencies)
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		mock := &mockApp{
			resolveFunc: func(context.Context, string, app.ResolveOptions) (*app.Result, error) {
				panic("should not be called")
			},
		}

		cli := commands.New(mock, &jsonLogger{})
		cli.SetIO(strings.NewReader(""), io.Discard, io.Discard)
		cli.SetArgs([]string{"resolve", "--mode", "amd", "/a.ts", "/b.ts"})

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrInvalidResolutionMode.Error())
	})

	t.Run("returns error on resolve failure", func(t *testing.T) {
		mock := &mockApp{
			resolveFunc: func(context.Context, string, app.ResolveOptions) (*app.Result, error) {
				return nil, errors.New("simulated error")
			},
		}

		cli := commands.New(mock, &jsonLogger{})
		cli.SetIO(strings.NewReader(""), io.Discard, io.Discard)
		cli.SetArgs([]string{"resolve", "/a.ts", "/b.ts"})

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Serve(t *testing.T) {
	var capturedCwd string
	mock := &mockApp{
		serveFunc: func(_ context.Context, cwd string, in io.Reader, out io.Writer) error {
			capturedCwd = cwd
			_, err := io.Copy(out, in)
			return err
		},
	}

	cli := commands.New(mock, &jsonLogger{})
	out := new(bytes.Buffer)
	cli.SetIO(strings.NewReader(`{"op":"count"}`), out, io.Discard)
	cli.SetArgs([]string{"serve", "--dir", "/proj"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "/proj", capturedCwd)
	assert.JSONEq(t, `{"op":"count"}`, out.String())
}

func TestCommands_LogJSON(t *testing.T) {
	log := &jsonLogger{}
	cli := commands.New(&mockApp{}, log)
	cli.SetIO(strings.NewReader(""), io.Discard, io.Discard)
	cli.SetArgs([]string{"--log-json", "version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, log.json)
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{}, &jsonLogger{})

	buf := new(bytes.Buffer)
	cli.SetIO(strings.NewReader(""), buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), build.Version)
}
