package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"cdcaccount/internal/account"
	"cdcaccount/internal/account/litereg"
	"cdcaccount/internal/account/reconcile"
	"cdcaccount/internal/account/resolver"
	"cdcaccount/internal/account/submission"
	"cdcaccount/internal/audit"
	auditpg "cdcaccount/internal/audit/store/postgres"
	"cdcaccount/internal/cdc"
	"cdcaccount/internal/events"
	"cdcaccount/internal/locale"
	"cdcaccount/internal/notify"
	"cdcaccount/internal/platform/config"
	"cdcaccount/internal/platform/httpserver"
	"cdcaccount/internal/platform/logger"
	"cdcaccount/internal/platform/metrics"
	"cdcaccount/internal/platform/redis"
	"cdcaccount/internal/relyingparty"
	"cdcaccount/internal/secrets"
	httptransport "cdcaccount/internal/transport/http"
)

const (
	eventQueueSize = 256
	auditQueueSize = 256
)

// main wires dependencies and runs the server plus the background workers.
// Business logic lives in the internal services packages.
func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	m := metrics.New()

	client, err := cdc.NewHTTPClient(cdc.HTTPConfig{
		Endpoints: cfg.DatacenterEndpoints,
		Primary:   cfg.PrimaryDatacenter,
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	}, cdc.WithLogger(log), cdc.WithMetrics(m))
	if err != nil {
		return err
	}

	accountResolver, err := resolver.New(client, cfg.PrimaryDatacenter, cfg.SecondaryDatacenter,
		cfg.SecondaryLookupEnabled(), resolver.WithLogger(log), resolver.WithMetrics(m))
	if err != nil {
		return err
	}

	processor, err := litereg.New(accountResolver, client, cfg.PrimaryDatacenter,
		litereg.WithLogger(log), litereg.WithMetrics(m))
	if err != nil {
		return err
	}

	accountService, err := account.NewService(accountResolver, processor, account.WithLogger(log))
	if err != nil {
		return err
	}

	// Optional infrastructure: each backend degrades to an in-process
	// fallback when not configured, so a bare environment still serves. The
	// relying-party cache runs without redis, audit falls back to memory and
	// notifications to the log.
	rdb, err := redis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	rpOpts := []relyingparty.Option{relyingparty.WithLogger(log)}
	if rdb != nil {
		defer rdb.Close()
		rpOpts = append(rpOpts, relyingparty.WithRedis(rdb.Client))
	}
	relyingParties, err := relyingparty.New(client, rpOpts...)
	if err != nil {
		return err
	}

	var auditStore audit.Store = audit.NewMemoryStore()
	if cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		auditStore, err = auditpg.New(ctx, pool)
		if err != nil {
			return err
		}
	}

	var notifier reconcile.Notifier = notify.NewLogNotifier(log)
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier, err := notify.NewKafkaNotifier(cfg.KafkaBrokers, notify.WithLogger(log))
		if err != nil {
			return err
		}
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	}

	var secretProvider reconcile.SecretProvider
	switch cfg.Environment {
	case config.EnvDev:
		secretProvider = secrets.Static{cfg.AccessRoleSecretKey: "access-role-dev"}
	default:
		manager, err := secrets.NewManager(ctx)
		if err != nil {
			return err
		}
		secretProvider = manager
	}

	builder, err := submission.NewBuilder(locale.New())
	if err != nil {
		return err
	}

	auditInbox := make(chan audit.Event, auditQueueSize)
	eventInbox := make(chan events.RegistrationEvent, eventQueueSize)

	reconciler, err := reconcile.New(reconcile.Params{
		Client:         client,
		Finder:         accountResolver,
		RelyingParties: relyingParties,
		Secrets:        secretProvider,
		Notifier:       notifier,
		Audit:          audit.NewQueue(auditInbox),
		Builder:        builder,
		Schema:         cfg.SchemaVersion,
		Primary:        cfg.PrimaryDatacenter,
		RoleSecretKey:  cfg.AccessRoleSecretKey,
	}, reconcile.WithLogger(log), reconcile.WithMetrics(m))
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(
		httptransport.NewAccountHandler(accountService, log),
		httptransport.NewWebhookHandler([]byte(cfg.WebhookSecret), eventInbox, log),
		httptransport.NewAuditHandler(audit.NewPublisher(auditStore), log),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := events.NewWorker(reconciler, eventInbox, log).Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := audit.NewWorker(auditStore, auditInbox, log).Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		log.Info("starting cdc-account", "addr", cfg.Addr, "environment", cfg.Environment,
			"primary", cfg.PrimaryDatacenter, "secondaryLookup", cfg.SecondaryLookupEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
