// Command vmremote drives a running Voicemeeter engine from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shaban/voicemeeter"
	"github.com/shaban/voicemeeter/internal/config"
	xlog "github.com/shaban/voicemeeter/internal/log"
	"github.com/shaban/voicemeeter/internal/metrics"
	"github.com/shaban/voicemeeter/remote"
)

// openLibrary loads the native call table. Tests replace it with a fake.
var openLibrary = remote.Open

// app holds what every subcommand shares. It is filled by connect.
type app struct {
	configPath string
	dllPath    string
	logLevel   string

	cfg      config.Config
	log      zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Recorder
	lib      remote.Library
	session  *voicemeeter.Session
}

func main() {
	if err := execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "vmremote:", err)
		os.Exit(1)
	}
}

// execute runs one command line and always releases the engine afterwards.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vmremote",
		Short:         "Control Voicemeeter through the remote API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if offline(cmd) {
				return nil
			}
			return a.connect(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", os.Getenv("VMREMOTE_CONFIG"), "path to a YAML config file")
	pf.StringVar(&a.dllPath, "dll", "", "path to VoicemeeterRemote(64).dll (default: from the registry)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		a.infoCmd(),
		a.getCmd(),
		a.setCmd(),
		a.scriptCmd(),
		a.devicesCmd(),
		a.levelCmd(),
		a.midiCmd(),
		a.launchCmd(),
		a.watchCmd(),
		a.snapshotCmd(),
	)
	return root
}

// offline reports commands that never touch the engine.
func offline(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

// connect loads config, the native library and logs in.
func (a *app) connect(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.dllPath != "" {
		cfg.DLLPath = a.dllPath
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg

	xlog.Configure(xlog.Config{
		Level:   cfg.Log.Level,
		Output:  cmd.ErrOrStderr(),
		Console: cfg.Log.Console,
	})
	a.log = xlog.WithComponent("cli")

	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.New(a.registry)

	lib, err := openLibrary(cfg.DLLPath)
	if err != nil {
		return fmt.Errorf("load remote library: %w", err)
	}
	a.lib = lib

	s, err := voicemeeter.Open(lib,
		voicemeeter.WithLogger(xlog.WithComponent("session")),
		voicemeeter.WithMetrics(a.metrics),
	)
	if s != nil {
		a.session = s
	}
	switch {
	case errors.Is(err, voicemeeter.ErrEngineNotRunning):
		if !cfg.LaunchIfNotRunning || cmd.Name() == "launch" {
			a.log.Warn().Msg("voicemeeter is not running")
			return nil
		}
		return a.launchAndWait(cmd.Context(), cfg.ResolvedKind())
	case err != nil:
		return err
	}

	// the first dirty poll syncs the client's parameter cache
	if _, err := s.IsDirty(); err != nil {
		a.log.Debug().Err(err).Msg("initial dirty poll failed")
	}
	return nil
}

func (a *app) launchAndWait(ctx context.Context, kind voicemeeter.Kind) error {
	a.log.Info().Str("kind", kind.String()).Dur("wait", a.cfg.LaunchWait).Msg("launching voicemeeter")
	if err := a.session.Launch(kind); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(a.cfg.LaunchWait):
	}
	_, err := a.session.IsDirty()
	return err
}

func (a *app) close() error {
	var errs []error
	if a.session != nil {
		if err := a.session.Close(); err != nil {
			errs = append(errs, err)
		}
		a.session = nil
	}
	if a.lib != nil {
		if err := a.lib.Close(); err != nil {
			errs = append(errs, err)
		}
		a.lib = nil
	}
	return errors.Join(errs...)
}
