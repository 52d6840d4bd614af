package app

import (
	"context"
	"errors"
	"fmt"

	"cozinha-magica/internal/chef"
	"cozinha-magica/internal/config"
	"cozinha-magica/internal/database"
	"cozinha-magica/internal/export"
	"cozinha-magica/internal/kitchen"
	"cozinha-magica/internal/llm"
	"cozinha-magica/internal/metrics"
	"cozinha-magica/internal/storage"

	"go.uber.org/zap"
)

// App holds the application's dependencies.
type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *database.DB
	Store       *storage.Store
	Collections *storage.Collections
	LLM         llm.LLMClient
	Chef        *chef.Service
	Rasterizer  *export.RodRasterizer
	Sink        *export.DirSink
	Exporter    *export.Service
	Metrics     *metrics.Store
	Collectors  *metrics.Collectors
	Kitchen     *kitchen.Controller
}

// New builds every collaborator from cfg. The browser used for exports is
// started lazily on the first export.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	sub, err := newSubstrate(ctx, cfg, db)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.StorageBackend, err)
	}
	a.Store = storage.NewStore(sub, logger.Named("storage"))
	a.Collections = storage.NewCollections(a.Store)

	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.AIProvider, err)
	}
	a.LLM = client
	a.Chef = chef.NewService(client, nil, logger.Named("chef"))

	sink, err := export.NewDirSink(cfg.ExportDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to prepare export dir: %w", err)
	}
	a.Sink = sink
	a.Rasterizer = export.NewRodRasterizer(cfg.ChromeBin, cfg.ChromeDebuggerURL, logger.Named("browser"))
	a.Exporter = export.NewService(a.Rasterizer, sink, logger.Named("export"))

	a.Collectors = metrics.NewCollectors()
	a.Metrics = metrics.NewStore(db.SQL, a.Collectors)

	a.Kitchen = kitchen.New(ctx, a.Collections, a.Chef, kitchen.Options{
		Logger:   logger.Named("kitchen"),
		Exporter: a.Exporter,
		Usage:    a.Metrics,
	})

	if err := a.registerGauges(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to register gauges: %w", err)
	}
	return a, nil
}

func newSubstrate(ctx context.Context, cfg *config.Config, db *database.DB) (storage.Substrate, error) {
	switch cfg.StorageBackend {
	case config.StorageRedis:
		return storage.NewRedisSubstrate(ctx, cfg.RedisAddr)
	case config.StorageFile:
		return storage.NewFileSubstrate(cfg.StorageDir)
	case config.StorageMemory:
		return storage.NewMemorySubstrate(), nil
	default:
		return storage.NewSQLiteSubstrate(db.SQL), nil
	}
}

func (a *App) registerGauges() error {
	return errors.Join(
		a.Collectors.RegisterGaugeFunc("cozinha_recipes", "Recipes in the cookbook", func() float64 {
			return float64(len(a.Kitchen.Snapshot().Recipes))
		}),
		a.Collectors.RegisterGaugeFunc("cozinha_shopping_lists", "Saved shopping lists", func() float64 {
			return float64(len(a.Kitchen.Snapshot().ShoppingLists))
		}),
	)
}

// Close releases every resource that was opened.
func (a *App) Close() error {
	var errs []error
	if a.Rasterizer != nil {
		errs = append(errs, a.Rasterizer.Close())
	}
	if a.LLM != nil {
		errs = append(errs, a.LLM.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
