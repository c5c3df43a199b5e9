package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"onboarding/internal/peers/servicetoken"
	"onboarding/internal/platform/httpserver"
	"onboarding/internal/platform/kafka"
	"onboarding/internal/platform/kafka/consumer"
	"onboarding/internal/platform/kafka/producer"
	"onboarding/internal/platform/logger"
	"onboarding/internal/platform/metrics"
	"onboarding/internal/platform/ratelimit"
	"onboarding/internal/registration/events"
	"onboarding/internal/registration/handler"
	"onboarding/internal/registration/listener"
	"onboarding/internal/registration/reaper"
	"onboarding/internal/registration/service"
	"onboarding/pkg/platform/httputil"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, completion listener and reaper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, root)
		},
	}
}

func serve(ctx context.Context, root *rootOptions) error {
	cfg := root.cfg
	log := logger.New(cfg.Server.LogLevel)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	b, err := openBackend(ctx, cfg, m, log)
	if err != nil {
		return err
	}
	defer b.close()

	tokens := servicetoken.New(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	p := newPeers(cfg.Peers, tokens, m, log)

	topics := listener.Topics{
		KycUserProvisioned:    cfg.Kafka.KycUserProvisionedTopic,
		ReferralBountyGranted: cfg.Kafka.ReferralBountyGrantedTopic,
		BiometricIDEncrypted:  cfg.Kafka.BiometricIDEncryptedTopic,
	}

	producerClient, err := kafka.NewProducerClient(cfg.Kafka)
	if err != nil {
		return err
	}
	defer producerClient.Close()
	if err := kafka.EnsureTopics(ctx, producerClient, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor,
		cfg.Kafka.UserCreatedTopic, topics.KycUserProvisioned, topics.ReferralBountyGranted, topics.BiometricIDEncrypted,
	); err != nil {
		log.Warn("kafka topic provisioning failed", "error", err)
	}

	publisher := events.New(producer.New(producerClient), cfg.Kafka.UserCreatedTopic,
		events.WithLogger(log),
		events.WithMetrics(m),
		events.WithQueueSize(cfg.Events.QueueSize),
		events.WithBackoff(100*time.Millisecond, cfg.Events.MaxBackoff),
	)

	svc, err := service.New(b.store, p.orchestrator(), publisher,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithRetention(cfg.Store.Retention),
	)
	if err != nil {
		return err
	}

	router := consumer.NewRouter(log)
	listener.New(b.store, log, listener.WithMetrics(m)).Register(router, topics)
	consumerClient, err := kafka.NewConsumerClient(cfg.Kafka, router.Topics())
	if err != nil {
		return err
	}
	defer consumerClient.Close()
	listen := consumer.New(consumerClient, router,
		consumer.WithLogger(log),
		consumer.WithErrorObserver(func(topic string, err error) {
			m.IncListenerEvent(topic, "error")
		}),
	)

	var scheduler *reaper.Scheduler
	if cfg.Reaper.Enabled {
		r, err := newReaper(ctx, cfg, b, p, m, log)
		if err != nil {
			return err
		}
		scheduler = reaper.NewScheduler(r, cfg.Reaper.InitialDelay, cfg.Reaper.Period, log)
	}

	var limiter ratelimit.Limiter = ratelimit.NewMemory()
	if b.redis != nil {
		limiter = ratelimit.NewRedis(b.redis, "registration:ratelimit:")
	}
	api := handler.New(svc, tokens, log,
		handler.WithTimeout(cfg.Server.RequestTimeout),
		handler.WithOTPLimit(ratelimit.PerClientIP(limiter, "otp", cfg.Server.OTPRateLimit, cfg.Server.OTPRateWindow, log)),
	)
	srv := httpserver.New(cfg.Server.Addr, newRouter(api, b.health, reg, log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting onboarding", "addr", cfg.Server.Addr, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := listen.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("completion listener: %w", err)
		}
		return nil
	})
	if scheduler != nil {
		scheduler.Start(gctx)
	}
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(srv, scheduler, svc, publisher, log)
	})

	return g.Wait()
}

// shutdown stops intake first, then drains detached effects into the
// publisher before closing it.
func shutdown(srv *http.Server, scheduler *reaper.Scheduler, svc *service.Service, publisher *events.Publisher, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("shutting down")
	var errs []error
	if err := srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if scheduler != nil {
		if err := scheduler.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("reaper shutdown: %w", err))
		}
	}
	svc.Wait()
	if err := publisher.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func newRouter(api *handler.Handler, health func(context.Context) error, reg *prometheus.Registry, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := health(req.Context()); err != nil {
			log.ErrorContext(req.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Response{Success: false, Message: "store unavailable"})
			return
		}
		httputil.WriteSuccess(w, http.StatusOK, "ok", nil)
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	api.Register(r)
	return r
}
