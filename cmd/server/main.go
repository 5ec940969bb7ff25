package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caixa-backend/internal/closing"
	"caixa-backend/internal/config"
	"caixa-backend/internal/database"
	"caixa-backend/internal/ledger"
	"caixa-backend/internal/report"
	"caixa-backend/internal/server"
)

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func openBackend(cfg *config.Config) (ledger.Backend, func(context.Context) error) {
	switch cfg.StorageBackend {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		backend, disconnect, err := ledger.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatalf("[FATAL] MongoDB bağlantı hatası: %v", err)
		}
		log.Println("MongoDB bağlantısı başarılı")
		return backend, disconnect
	case "memory":
		return ledger.NewMemoryBackend(), func(context.Context) error { return nil }
	default:
		database.Init(cfg)
		return ledger.NewGormBackend(database.DB), func(context.Context) error {
			database.Close()
			return nil
		}
	}
}

func newRenderer(cfg *config.Config) report.Renderer {
	opts := report.Options{CompanyName: cfg.CompanyName, Location: cfg.Location}
	if cfg.PDFEngine == "chromium" {
		return report.NewChromiumRenderer(opts, cfg.ChromiumPath, cfg.PDFTimeout)
	}
	return report.NewNativeRenderer(opts)
}

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	backend, closeBackend := openBackend(cfg)
	store := ledger.NewStore(backend, cfg.LedgerBucket, logger)

	renderer := newRenderer(cfg)
	exporter := report.Exporter{
		Renderer: renderer,
		Sink:     report.DirSink{Dir: cfg.ExportDir},
		Location: cfg.Location,
	}

	ctrl := closing.NewController(store, exporter, renderer, closing.Options{
		Delay:    cfg.CloseDelay,
		Location: cfg.Location,
		Logger:   logger,
	})

	app := server.New(ctrl, server.Settings{
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	go func() {
		log.Println("Server çalışıyor port:", cfg.HTTPPort)
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Server kapatılıyor...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("http kapanış hatası", slog.String("error", err.Error()))
	}
	if err := ctrl.Shutdown(ctx); err != nil {
		logger.Error("bekleyen kapanışlar bitmedi", slog.String("error", err.Error()))
	}
	if err := closeBackend(ctx); err != nil {
		logger.Error("depolama kapatılamadı", slog.String("error", err.Error()))
	}
}
