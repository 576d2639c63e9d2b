package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/yourusername/grocery-price-ledger/config"
	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
	"github.com/yourusername/grocery-price-ledger/internal/infrastructure/gemini"
	"github.com/yourusername/grocery-price-ledger/internal/infrastructure/logger"
	"github.com/yourusername/grocery-price-ledger/internal/infrastructure/parser"
	"github.com/yourusername/grocery-price-ledger/internal/infrastructure/storage"
	"github.com/yourusername/grocery-price-ledger/internal/presenter"
	"github.com/yourusername/grocery-price-ledger/internal/usecase"
	"go.uber.org/zap"
)

// app everything one command invocation needs
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	data      *storage.DataService
	formatter *presenter.PriceFormatter
	products  usecase.ProductUseCase
	sheets    usecase.SheetUseCase
	closers   []func() error
}

func (o *options) apply(cfg *config.Config) {
	if o.backend != "" {
		cfg.Backend = o.backend
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.locale != "" {
		cfg.Locale = o.locale
	}
	if o.timezone != "" {
		cfg.Timezone = o.timezone
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}

// openApp wires config, storage and usecases; the caller must close it
func openApp(ctx context.Context, opts *options) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	a.closers = append(a.closers, func() error {
		_ = log.Sync()
		return nil
	})

	loc, err := cfg.Location()
	if err != nil {
		a.close()
		return nil, err
	}
	a.formatter, err = presenter.NewPriceFormatter(cfg.Locale, loc, cfg.ShareSuffix)
	if err != nil {
		a.close()
		return nil, err
	}

	switch cfg.Backend {
	case config.BackendMemory:
		a.data = storage.NewMemoryDataService()
	default:
		a.data, err = storage.NewSQLiteDataService(cfg.DBPath)
		if err != nil {
			a.close()
			return nil, err
		}
	}
	a.closers = append(a.closers, a.data.Close)

	if opts.fixture != "" {
		if _, err := seedFile(ctx, opts.fixture, a.data); err != nil {
			a.close()
			return nil, err
		}
	}

	var suggester repository.CategorySuggester
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		suggester = client
	}

	prices := usecase.NewPriceUseCase(a.data.Prices, nil, log)
	a.products = usecase.NewProductUseCase(a.data.Products, a.data.Stores, prices, a.formatter, suggester, log)
	a.sheets = usecase.NewSheetUseCase(parser.NewExcelPriceSheet(log), prices, log)

	return a, nil
}

// close runs closers in reverse order
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.log != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
}

func seedFile(ctx context.Context, path string, data *storage.DataService) (storage.SeedReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return storage.SeedReport{}, fmt.Errorf("failed to open fixture: %w", err)
	}
	defer f.Close()

	return storage.Seed(ctx, f, data)
}

// withApp opens the app for the duration of fn
func withApp(ctx context.Context, opts *options, fn func(a *app) error) error {
	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}
