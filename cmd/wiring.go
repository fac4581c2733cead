package cmd

import (
	"context"
	"fmt"
	"time"

	"lottogen/application"
	"lottogen/config"
	"lottogen/database"
	"lottogen/domain/interfaces"
	"lottogen/infrastructure"
	"lottogen/infrastructure/archive"
	"lottogen/infrastructure/export"
	"lottogen/infrastructure/observability"
	"lottogen/repository"

	log "github.com/sirupsen/logrus"
)

// appOptions selects the parts of the stack a command needs
type appOptions struct {
	outputDir string // Empty disables the file sink
}

// app holds the wired dependencies of a command
type app struct {
	cfg       *config.Config
	workflow  *application.GenerationWorkflow
	metrics   *observability.MetricsProvider
	publisher interfaces.EventPublisher
	runs      interfaces.GenerationRunRepository
	closers   []func()
}

// buildApp wires the workflow from configuration. Optional backends that
// cannot be reached are logged and left out.
func buildApp(ctx context.Context, cfg *config.Config, opts appOptions) *app {
	a := &app{cfg: cfg}

	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.WithError(err).Warn("Failed to initialize metrics, continuing without them")
	} else {
		a.metrics = observability.GetMetrics()
		a.closers = append(a.closers, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
				log.WithError(err).Warn("Failed to shut down metrics")
			}
		})
	}

	loaderCfg := archive.LoaderConfig{
		Client:   archive.NewClient(cfg.HTTPTimeout(), cfg.UserAgent),
		CacheTTL: cfg.CacheTTL(),
		Metrics:  a.metrics,
	}
	if cfg.CacheEnabled() {
		if cache := connectCache(ctx, cfg.RedisAddr); cache != nil {
			loaderCfg.Cache = cache
			a.closers = append(a.closers, func() { _ = cache.Close() })
		}
	}
	loader := archive.NewLoader(loaderCfg)

	var drawRepo interfaces.DrawRepository
	if cfg.PersistenceEnabled() {
		db, err := connectDatabase(ctx, cfg.GetDatabaseURL())
		if err != nil {
			log.WithError(err).Warn("Database unavailable, runs will not be stored")
		} else {
			drawRepo = repository.NewDrawRepository(db)
			a.runs = repository.NewGenerationRunRepository(db)
			a.closers = append(a.closers, db.Close)
		}
	}

	a.publisher = connectPublisher(ctx, cfg.NATSServers, a.metrics, a)

	a.workflow = application.NewGenerationWorkflow(loader, drawRepo, a.metrics)

	chart := export.NewChartRenderer()
	if opts.outputDir != "" {
		a.workflow.AddSink(export.NewFileSink(opts.outputDir, chart), true)
	}
	if a.runs != nil {
		a.workflow.AddSink(infrastructure.NewRunStoreSink(a.runs), false)
	}
	a.workflow.AddSink(infrastructure.NewEventSink(a.publisher), false)
	if cfg.DiscordEnabled() {
		session, err := infrastructure.NewDiscordSession()
		if err != nil {
			log.WithError(err).Warn("Discord notifications disabled")
		} else {
			a.workflow.AddSink(infrastructure.NewDiscordNotifier(session, cfg.DiscordWebhookID, cfg.DiscordWebhookToken, chart), false)
		}
	}

	return a
}

// Close releases everything opened by buildApp in reverse order
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func connectCache(ctx context.Context, addr string) *archive.RedisCache {
	cache := archive.NewRedisCache(addr)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		log.WithError(err).WithField("addr", addr).Warn("Redis unavailable, archive cache disabled")
		_ = cache.Close()
		return nil
	}

	log.WithField("addr", addr).Info("Archive cache connected")
	return cache
}

func connectDatabase(ctx context.Context, databaseURL string) (*database.DB, error) {
	if err := database.RunMigrationsWithURL(databaseURL); err != nil {
		return nil, err
	}

	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established")
	return db, nil
}

func connectPublisher(ctx context.Context, servers string, metrics *observability.MetricsProvider, a *app) interfaces.EventPublisher {
	if servers == "" {
		return infrastructure.NewNoopEventPublisher()
	}

	client := infrastructure.NewNATSClient(servers)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Connect(connectCtx); err != nil {
		log.WithError(err).Warn("NATS unavailable, events will not be published")
		return infrastructure.NewNoopEventPublisher()
	}
	a.closers = append(a.closers, func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("Failed to close NATS connection")
		}
	})

	mapper := infrastructure.NewEventSubjectMapper()
	if err := client.EnsureStream(infrastructure.DomainEventStream, mapper.GetAllSubjects()); err != nil {
		log.WithError(err).Warn("Failed to ensure event stream")
	}

	return infrastructure.NewNATSEventPublisher(client, mapper, metrics)
}
