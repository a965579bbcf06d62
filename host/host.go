// Package host runs the IDE process under test, the scratch workspace used by scenarios and a small
// control server reporting both.
package host

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// ErrNotStarted is returned by operations requiring a running host.
var ErrNotStarted = errors.New("host not started")

// Config defines how the IDE is launched.
type Config struct {
	Binary        string        // IDE executable, "code" if empty
	ExtensionPath string        // extension under development
	WorkspaceDir  string        // folder opened in the IDE window
	UserDataDir   string        // isolated profile, generated if empty
	ExtensionsDir string        // isolated extensions dir, generated if empty
	DebugPort     int           // remote debugging (CDP) port
	Env           []string      // extra environment, appended to the current one
	StartTimeout  time.Duration // how long WaitReady polls for the debugging endpoint
}

// Endpoint is the CDP endpoint exposed by a running host.
type Endpoint struct {
	Browser      string `json:"Browser"`
	WebSocketURL string `json:"webSocketDebuggerUrl"`
}

// Status describes the host process.
type Status struct {
	PID      int       `json:"pid"`
	Running  bool      `json:"running"`
	Started  time.Time `json:"started"`
	Uptime   string    `json:"uptime,omitempty"`
	Endpoint *Endpoint `json:"endpoint,omitempty"`
}

// Host is a single IDE process.
type Host struct {
	Config

	mu       sync.Mutex
	cmd      *exec.Cmd
	done     chan struct{}
	started  time.Time
	endpoint *Endpoint
	tmpDir   string // generated profile root, removed on Stop
	client   *http.Client
}

// New makes a host with defaults applied. Nothing is started.
func New(cfg Config) *Host {
	h := &Host{Config: cfg, client: &http.Client{Timeout: time.Second}}
	if h.Binary == "" {
		h.Binary = "code"
	}
	if h.StartTimeout <= 0 {
		h.StartTimeout = 60 * time.Second
	}
	if h.DebugPort == 0 {
		h.DebugPort = 9229
	}
	if h.UserDataDir == "" || h.ExtensionsDir == "" {
		h.tmpDir = filepath.Join(os.TempDir(), "openshift-uitest-profile-"+uuid.NewString())
		if h.UserDataDir == "" {
			h.UserDataDir = filepath.Join(h.tmpDir, "user-data")
		}
		if h.ExtensionsDir == "" {
			h.ExtensionsDir = filepath.Join(h.tmpDir, "extensions")
		}
	}
	return h
}

// Args returns the IDE command line.
func (h *Host) Args() []string {
	var args []string
	if h.ExtensionPath != "" {
		args = append(args, "--extensionDevelopmentPath="+h.ExtensionPath)
	}
	args = append(args,
		"--user-data-dir="+h.UserDataDir,
		"--extensions-dir="+h.ExtensionsDir,
		fmt.Sprintf("--remote-debugging-port=%d", h.DebugPort),
		"--disable-workspace-trust",
		"--skip-welcome",
		"--skip-release-notes",
		"--new-window",
	)
	if h.WorkspaceDir != "" {
		args = append(args, h.WorkspaceDir)
	}
	return args
}

// Start spawns the IDE process. The process is killed if ctx is canceled.
func (h *Host) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cmd != nil {
		return fmt.Errorf("host already started, pid %d", h.cmd.Process.Pid)
	}

	for _, dir := range []string{h.UserDataDir, h.ExtensionsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	cmd := exec.CommandContext(ctx, h.Binary, h.Args()...) //nolint:gosec // binary is a user setting
	cmd.Env = append(os.Environ(), h.Env...)
	cmd.WaitDelay = 3 * time.Second // helper processes may keep output pipes open after kill
	stdout, stderr := logWriter("stdout"), logWriter("stderr")
	cmd.Stdout, cmd.Stderr = stdout, stderr
	if err := cmd.Start(); err != nil {
		_, _ = stdout.Close(), stderr.Close()
		if h.tmpDir != "" {
			_ = os.RemoveAll(h.tmpDir)
		}
		return fmt.Errorf("failed to start %s: %w", h.Binary, err)
	}
	log.Printf("[INFO] host started, pid %d, %s %v", cmd.Process.Pid, h.Binary, h.Args())

	done := make(chan struct{})
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("[DEBUG] host process finished: %v", err)
		}
		_, _ = stdout.Close(), stderr.Close()
		close(done)
	}()

	h.cmd, h.done, h.started, h.endpoint = cmd, done, time.Now(), nil
	return nil
}

// WaitReady polls the remote debugging endpoint until it responds or StartTimeout elapses.
func (h *Host) WaitReady(ctx context.Context) (Endpoint, error) {
	h.mu.Lock()
	done := h.done
	h.mu.Unlock()
	if done == nil {
		return Endpoint{}, ErrNotStarted
	}

	ctx, cancel := context.WithTimeout(ctx, h.StartTimeout)
	defer cancel()

	var lastErr error
	for {
		ep, err := h.version(ctx)
		if err == nil {
			h.mu.Lock()
			h.endpoint = &ep
			h.mu.Unlock()
			log.Printf("[INFO] host ready, %s at %s", ep.Browser, ep.WebSocketURL)
			return ep, nil
		}
		lastErr = err

		select {
		case <-done:
			return Endpoint{}, errors.New("host exited before debugging endpoint became ready")
		case <-ctx.Done():
			return Endpoint{}, fmt.Errorf("host not ready after %v: %w", h.StartTimeout, lastErr)
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (h *Host) version(ctx context.Context) (Endpoint, error) {
	url := fmt.Sprintf("http://127.0.0.1:%d/json/version", h.DebugPort)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Endpoint{}, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return Endpoint{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Endpoint{}, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	var ep Endpoint
	if err := json.NewDecoder(resp.Body).Decode(&ep); err != nil {
		return Endpoint{}, fmt.Errorf("failed to decode %s: %w", url, err)
	}
	if ep.WebSocketURL == "" {
		return Endpoint{}, fmt.Errorf("no websocket url in %s", url)
	}
	return ep, nil
}

// Stop kills the process and removes the generated profile. Safe to call more than once.
func (h *Host) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cmd == nil {
		return nil
	}

	select {
	case <-h.done:
	default:
		if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to kill host, pid %d: %w", h.cmd.Process.Pid, err)
		}
		<-h.done
	}
	log.Printf("[INFO] host stopped, pid %d, up %s", h.cmd.Process.Pid, time.Since(h.started).Round(time.Millisecond))

	if h.tmpDir != "" {
		if err := os.RemoveAll(h.tmpDir); err != nil {
			log.Printf("[WARN] failed to remove %s: %v", h.tmpDir, err)
		}
	}
	h.cmd, h.done, h.endpoint = nil, nil, nil
	return nil
}

// Done is closed when the host process exits. Nil channel if not started.
func (h *Host) Done() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}

// Status reports the current state of the host.
func (h *Host) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cmd == nil {
		return Status{}
	}
	st := Status{PID: h.cmd.Process.Pid, Started: h.started, Endpoint: h.endpoint}
	select {
	case <-h.done:
	default:
		st.Running = true
		st.Uptime = strings.TrimSpace(humanize.RelTime(h.started, time.Now(), "", ""))
	}
	return st
}

// logWriter forwards process output line by line to the debug log
func logWriter(stream string) io.WriteCloser {
	pr, pw := io.Pipe()
	go func() {
		scanner := bufio.NewScanner(pr)
		for scanner.Scan() {
			log.Printf("[DEBUG] host %s: %s", stream, scanner.Text())
		}
		_ = pr.CloseWithError(scanner.Err())
	}()
	return pw
}
