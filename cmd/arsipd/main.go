package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nandapratama/arsip-surat/internal/aiextract"
	"github.com/nandapratama/arsip-surat/internal/common"
	"github.com/nandapratama/arsip-surat/internal/detect"
	"github.com/nandapratama/arsip-surat/internal/observability/logging"
	"github.com/nandapratama/arsip-surat/internal/observability/metrics"
	"github.com/nandapratama/arsip-surat/internal/recognize"
	"github.com/nandapratama/arsip-surat/internal/rules"
	"github.com/nandapratama/arsip-surat/internal/server"
	"github.com/nandapratama/arsip-surat/internal/storage"
)

func main() {
	cfg := common.LoadConfig()

	logger := logging.NewJSONLogger("arsipd", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStore(cfg.Storage.UploadDir, logger)
	if err != nil {
		logger.Error("init storage", "error", err)
		os.Exit(1)
	}

	var pre recognize.Preprocessor = recognize.Identity{}
	if cfg.OCR.Preprocess {
		pre = recognize.Pipeline{}
	}
	recognizer := recognize.NewRecognizer(recognize.Config{
		Tesseract:     cfg.OCR.Tesseract,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		PSM:           cfg.OCR.PSM,
		OEM:           cfg.OCR.OEM,
	}, pre, logger)

	adapter := aiextract.NewClient(aiextract.Config{
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		BaseURL:     cfg.AI.BaseURL,
		SiteURL:     cfg.AI.SiteURL,
		SiteName:    cfg.AI.SiteName,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
		Timeout:     cfg.AI.Timeout,
	}, logger)
	if !adapter.Available() {
		logger.Warn("ai adapter disabled", "reason", "OPENROUTER_API_KEY not set")
	}

	m := metrics.NewDetectionMetrics()
	orchestrator := detect.NewOrchestrator(recognizer, rules.NewExtractor(), adapter, m, logger)

	srv := server.New(cfg.Server.Addr, server.Deps{
		Store:               store,
		Orchestrator:        orchestrator,
		Adapter:             adapter,
		Metrics:             m,
		ConfidenceThreshold: cfg.Detection.ConfidenceThreshold,
		MaxUploadBytes:      cfg.Server.MaxUploadBytes,
		Logger:              logger,
	})

	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server.shutdown")
}
