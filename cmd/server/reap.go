package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"onboarding/internal/peers/servicetoken"
	"onboarding/internal/platform/logger"
	"onboarding/internal/platform/metrics"
	"onboarding/internal/registration/reaper"
)

func newReapCommand(root *rootOptions) *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "reap",
		Short: "Compensate abandoned registrations",
		Long: `Run the abandoned-registration reaper without the HTTP API.

With --once a single cycle runs and the command exits; otherwise cycles
follow REAPER_INITIAL_DELAY and REAPER_PERIOD until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return reap(ctx, root, once)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "run a single cycle and exit")
	return cmd
}

func reap(ctx context.Context, root *rootOptions, once bool) error {
	cfg := root.cfg
	log := logger.New(cfg.Server.LogLevel)
	m := metrics.New(prometheus.NewRegistry())

	b, err := openBackend(ctx, cfg, m, log)
	if err != nil {
		return err
	}
	defer b.close()

	tokens := servicetoken.New(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	r, err := newReaper(ctx, cfg, b, newPeers(cfg.Peers, tokens, m, log), m, log)
	if err != nil {
		return err
	}

	if once {
		summary, err := r.RunCycle(ctx)
		if err != nil {
			return err
		}
		log.Info("reaper cycle finished",
			"selected", summary.Selected,
			"skipped", summary.Skipped,
			"reaped", summary.Reaped,
			"failed", summary.Failed,
		)
		return nil
	}

	scheduler := reaper.NewScheduler(r, cfg.Reaper.InitialDelay, cfg.Reaper.Period, log)
	scheduler.Start(ctx)
	<-ctx.Done()
	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return scheduler.Stop(stopCtx)
}
