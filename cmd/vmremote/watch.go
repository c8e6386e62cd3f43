package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shaban/voicemeeter"
)

func (a *app) watchCmd() *cobra.Command {
	var (
		params   []string
		interval time.Duration
		listen   string
		duration time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print parameter and device changes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(params) == 0 {
				params = a.cfg.Watch
			}
			if interval == 0 {
				interval = a.cfg.PollInterval
			}
			if listen == "" {
				listen = a.cfg.Metrics.Listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}
			return a.watch(ctx, cmd, params, interval, listen)
		},
	}
	cmd.Flags().StringSliceVarP(&params, "param", "p", nil, "numeric parameters to watch (default: config watch list)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (default: config poll_interval)")
	cmd.Flags().StringVar(&listen, "metrics", "", "serve Prometheus metrics on this address")
	cmd.Flags().DurationVar(&duration, "for", 0, "stop after this long")
	return cmd
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, params []string, interval time.Duration, listen string) error {
	var outMu sync.Mutex
	out := cmd.OutOrStdout()
	printf := func(format string, args ...any) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(out, format, args...)
	}
	errOut := cmd.ErrOrStderr()
	reportErr := voicemeeter.ErrorHandlerFunc(func(err error) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(errOut, "error: %v\n", err)
	})

	for _, dir := range []voicemeeter.Direction{voicemeeter.DeviceInput, voicemeeter.DeviceOutput} {
		if n, err := a.session.DeviceCount(dir); err == nil {
			a.metrics.SetDevices(dir.String(), n)
		}
	}

	mon, err := voicemeeter.NewMonitor(a.session, voicemeeter.MonitorConfig{
		Interval:     interval,
		Params:       params,
		ErrorHandler: voicemeeter.ChainErrorHandlers(&voicemeeter.DefaultErrorHandler{Logger: a.log}, reportErr),
		OnParameterChange: func(c voicemeeter.ParameterChange) {
			a.metrics.ParameterChanged(c.Name)
			printf("%s %s -> %s\n", c.Name, formatFloat(c.Old), formatFloat(c.New))
		},
		OnDeviceChange: func(c voicemeeter.DeviceChange) {
			a.metrics.DevicesChanged(c.Direction.String(), c.New)
			printf("%s devices %d -> %d\n", c.Direction, c.Old, c.New)
		},
	})
	if err != nil {
		return err
	}

	var ln net.Listener
	if listen != "" {
		if ln, err = net.Listen("tcp", listen); err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return mon.Run(ctx) })

	if ln != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		a.log.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")

		g.Go(func() error {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	avg, worst, n := mon.PerformanceStats()
	a.log.Debug().Dur("avg", avg).Dur("max", worst).Int64("checks", n).Msg("watch finished")
	return nil
}
