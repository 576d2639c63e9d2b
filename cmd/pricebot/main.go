package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourusername/grocery-price-ledger/config"
	"github.com/yourusername/grocery-price-ledger/internal/delivery/telegram"
	"github.com/yourusername/grocery-price-ledger/internal/domain/repository"
	"github.com/yourusername/grocery-price-ledger/internal/infrastructure/gemini"
	"github.com/yourusername/grocery-price-ledger/internal/infrastructure/logger"
	"github.com/yourusername/grocery-price-ledger/internal/infrastructure/metrics"
	"github.com/yourusername/grocery-price-ledger/internal/infrastructure/parser"
	"github.com/yourusername/grocery-price-ledger/internal/infrastructure/storage"
	"github.com/yourusername/grocery-price-ledger/internal/presenter"
	"github.com/yourusername/grocery-price-ledger/internal/usecase"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("pricebot stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.RequireTelegram(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	formatter, err := presenter.NewPriceFormatter(cfg.Locale, loc, cfg.ShareSuffix)
	if err != nil {
		return err
	}

	var data *storage.DataService
	if cfg.Backend == config.BackendMemory {
		data = storage.NewMemoryDataService()
	} else {
		data, err = storage.NewSQLiteDataService(cfg.DBPath)
		if err != nil {
			return err
		}
	}
	defer data.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	submissions := metrics.NewSubmissionMetrics(registry)

	var suggester repository.CategorySuggester
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return err
		}
		defer client.Close()
		suggester = client
	} else {
		log.Info("GEMINI_API_KEY not set, category suggestions disabled")
	}

	prices := usecase.NewPriceUseCase(data.Prices, submissions, log)
	products := usecase.NewProductUseCase(data.Products, data.Stores, prices, formatter, suggester, log)
	sheets := usecase.NewSheetUseCase(parser.NewExcelPriceSheet(log), prices, log)

	bot, err := telegram.NewBotHandler(cfg.TelegramToken, cfg.ShareChatID, products, sheets, formatter, log)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return bot.Start(gctx)
	})

	return g.Wait()
}
