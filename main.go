package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/umputun/go-flags"

	"github.com/umputun/openshift-uitest/host"
)

type options struct {
	Code          string        `long:"code" env:"CODE_BIN" default:"code" description:"IDE executable"`
	Extension     string        `long:"extension" env:"EXTENSION_PATH" description:"extension development path"`
	Workspace     string        `long:"workspace" env:"WORKSPACE" description:"scratch workspace opened in the IDE, temp dir if empty"`
	UserData      string        `long:"user-data" env:"USER_DATA_DIR" description:"IDE profile dir, temp dir if empty"`
	ExtensionsDir string        `long:"extensions-dir" env:"EXTENSIONS_DIR" description:"IDE extensions dir, temp dir if empty"`
	DebugPort     int           `long:"debug-port" env:"DEBUG_PORT" default:"9229" description:"remote debugging port"`
	StartTimeout  time.Duration `long:"start-timeout" env:"START_TIMEOUT" default:"60s" description:"time to wait for the IDE"`
	Env           []string      `long:"env" env:"HOST_ENV" env-delim:"," description:"extra environment for the IDE, key=value"`
	Listen        string        `long:"listen" env:"LISTEN" default:"localhost:18090" description:"control server address"`
	KeepWorkspace bool          `long:"keep-workspace" env:"KEEP_WORKSPACE" description:"don't remove the workspace on exit"`
	Dbg           bool          `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var opts options

var revision string // set by ldflags

var errHostExited = errors.New("host exited unexpectedly")

func main() {
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	setupLog(opts.Dbg)
	log.Printf("[INFO] openshift-uitest %s", versionInfo())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runHost(ctx, &opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// runHost starts the IDE with the extension, serves the control endpoint and stops everything
// when ctx is canceled or the IDE exits. An IDE exiting on its own is reported as errHostExited.
func runHost(ctx context.Context, o *options) error {
	ws, err := host.NewWorkspace(o.Workspace)
	if err != nil {
		return err
	}
	if err = ws.Ensure(); err != nil {
		return err
	}
	defer func() {
		if o.KeepWorkspace {
			log.Printf("[INFO] workspace kept at %s", ws.Dir())
			return
		}
		if e := ws.Clear(); e != nil {
			log.Printf("[WARN] %v", e)
		}
	}()

	h := host.New(host.Config{
		Binary:        o.Code,
		ExtensionPath: o.Extension,
		WorkspaceDir:  ws.Dir(),
		UserDataDir:   o.UserData,
		ExtensionsDir: o.ExtensionsDir,
		DebugPort:     o.DebugPort,
		Env:           o.Env,
		StartTimeout:  o.StartTimeout,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err = h.Start(ctx); err != nil {
		return fmt.Errorf("failed to start host: %w", err)
	}
	defer func() {
		if e := h.Stop(); e != nil {
			log.Printf("[WARN] %v", e)
		}
	}()

	if _, err = h.WaitReady(ctx); err != nil {
		return err
	}

	exited := make(chan struct{})
	go func() {
		select {
		case <-h.Done():
			log.Printf("[WARN] host exited, stopping")
			close(exited)
			cancel()
		case <-ctx.Done():
		}
	}()

	ctl := &host.Control{Listen: o.Listen, Version: versionInfo(), Host: h, Workspace: ws}
	if err = ctl.Run(ctx); err != nil {
		return err
	}
	select {
	case <-exited:
		return errHostExited
	default:
		return nil
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

func versionInfo() string {
	if revision != "" {
		return revision
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
