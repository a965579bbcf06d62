package host

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBinary writes an executable shell script standing in for the IDE
func fakeBinary(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "code")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755)) //nolint:gosec // test script
	return path
}

// fakeDebugger serves /json/version the way the IDE does when started with --remote-debugging-port
func fakeDebugger(t *testing.T, handler http.HandlerFunc) int {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.Listener.Addr().(*net.TCPAddr).Port
}

func TestNew_Defaults(t *testing.T) {
	h := New(Config{})
	assert.Equal(t, "code", h.Binary)
	assert.Equal(t, 9229, h.DebugPort)
	assert.Equal(t, 60*time.Second, h.StartTimeout)
	assert.True(t, strings.HasPrefix(h.UserDataDir, os.TempDir()), "generated profile should be under temp dir")
	assert.Equal(t, filepath.Dir(h.UserDataDir), filepath.Dir(h.ExtensionsDir))
	assert.NotEqual(t, New(Config{}).UserDataDir, h.UserDataDir, "each host gets its own profile")
}

func TestNew_KeepsProvidedDirs(t *testing.T) {
	h := New(Config{UserDataDir: "/tmp/ud", ExtensionsDir: "/tmp/ext", DebugPort: 9333})
	assert.Equal(t, "/tmp/ud", h.UserDataDir)
	assert.Equal(t, "/tmp/ext", h.ExtensionsDir)
	assert.Equal(t, 9333, h.DebugPort)
	assert.Empty(t, h.tmpDir)
}

func TestHost_Args(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			name: "full",
			cfg: Config{ExtensionPath: "/src/ext", WorkspaceDir: "/ws", UserDataDir: "/ud",
				ExtensionsDir: "/ext", DebugPort: 9230},
			want: []string{"--extensionDevelopmentPath=/src/ext", "--user-data-dir=/ud", "--extensions-dir=/ext",
				"--remote-debugging-port=9230", "--disable-workspace-trust", "--skip-welcome",
				"--skip-release-notes", "--new-window", "/ws"},
		},
		{
			name: "no extension and no workspace",
			cfg:  Config{UserDataDir: "/ud", ExtensionsDir: "/ext", DebugPort: 9230},
			want: []string{"--user-data-dir=/ud", "--extensions-dir=/ext", "--remote-debugging-port=9230",
				"--disable-workspace-trust", "--skip-welcome", "--skip-release-notes", "--new-window"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, New(tc.cfg).Args())
		})
	}
}

func TestHost_StartStop(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	bin := fakeBinary(t, `echo "$@" > `+argsFile+"\nexec sleep 30")
	h := New(Config{Binary: bin, WorkspaceDir: "/ws", DebugPort: 9444})

	require.NoError(t, h.Start(context.Background()))
	st := h.Status()
	assert.True(t, st.Running)
	assert.Positive(t, st.PID)
	assert.NotEmpty(t, st.Uptime)
	assert.DirExists(t, h.UserDataDir)
	assert.DirExists(t, h.ExtensionsDir)

	err := h.Start(context.Background())
	require.Error(t, err, "second start should fail")
	assert.Contains(t, err.Error(), "already started")

	assert.Eventually(t, func() bool {
		data, e := os.ReadFile(argsFile) //nolint:gosec // test file
		return e == nil && strings.Contains(string(data), "--remote-debugging-port=9444")
	}, 5*time.Second, 50*time.Millisecond, "fake binary should receive the args")

	profile := filepath.Dir(h.UserDataDir)
	require.NoError(t, h.Stop())
	assert.False(t, h.Status().Running)
	assert.NoDirExists(t, profile, "generated profile should be removed")
	require.NoError(t, h.Stop(), "second stop is a no-op")
}

func TestHost_StartMissingBinary(t *testing.T) {
	h := New(Config{Binary: filepath.Join(t.TempDir(), "no-such-code")})
	err := h.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
	assert.Equal(t, Status{}, h.Status())
}

func TestHost_WaitReady(t *testing.T) {
	var calls atomic.Int32
	port := fakeDebugger(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/version", r.URL.Path)
		if calls.Add(1) < 3 { // not ready for the first couple of polls
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"Browser":"Chrome/128.0.6613.186",` +
			`"webSocketDebuggerUrl":"ws://127.0.0.1/devtools/browser/abc"}`))
	})

	h := New(Config{Binary: fakeBinary(t, "exec sleep 30"), DebugPort: port, StartTimeout: 5 * time.Second})
	require.NoError(t, h.Start(context.Background()))
	defer h.Stop()

	ep, err := h.WaitReady(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Chrome/128.0.6613.186", ep.Browser)
	assert.Equal(t, "ws://127.0.0.1/devtools/browser/abc", ep.WebSocketURL)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))

	st := h.Status()
	require.NotNil(t, st.Endpoint)
	assert.Equal(t, ep, *st.Endpoint)
}

func TestHost_WaitReadyTimeout(t *testing.T) {
	port := fakeDebugger(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Browser":"Chrome"}`)) // no websocket url
	})

	h := New(Config{Binary: fakeBinary(t, "exec sleep 30"), DebugPort: port, StartTimeout: 300 * time.Millisecond})
	require.NoError(t, h.Start(context.Background()))
	defer h.Stop()

	_, err := h.WaitReady(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready after")
}

func TestHost_WaitReadyProcessExited(t *testing.T) {
	port := fakeDebugger(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	h := New(Config{Binary: fakeBinary(t, "exit 3"), DebugPort: port, StartTimeout: 10 * time.Second})
	require.NoError(t, h.Start(context.Background()))
	defer h.Stop()

	_, err := h.WaitReady(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited")
}

func TestHost_WaitReadyNotStarted(t *testing.T) {
	_, err := New(Config{}).WaitReady(context.Background())
	require.ErrorIs(t, err, ErrNotStarted)
}
