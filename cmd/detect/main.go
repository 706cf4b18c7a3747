// Command detect runs the detection pipeline over a single local file and
// prints the result as JSON. Useful for trying strategies without the HTTP
// server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nandapratama/arsip-surat/constants"
	"github.com/nandapratama/arsip-surat/internal/aiextract"
	"github.com/nandapratama/arsip-surat/internal/common"
	"github.com/nandapratama/arsip-surat/internal/detect"
	"github.com/nandapratama/arsip-surat/internal/letter"
	"github.com/nandapratama/arsip-surat/internal/observability/logging"
	"github.com/nandapratama/arsip-surat/internal/recognize"
	"github.com/nandapratama/arsip-surat/internal/rules"
)

func main() {
	var (
		file      = flag.String("file", "", "path to a PDF or image letter")
		strategy  = flag.String("strategy", string(constants.DefaultStrategy), "detection strategy: manual|ocr_only|rule|ai|hybrid")
		direction = flag.String("direction", string(constants.Incoming), "letter direction: masuk|keluar")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	logger := logging.NewJSONLogger("detect-cli", cfg.LogLevel)
	slog.SetDefault(logger)

	if *file == "" {
		logger.Error("usage", "cmd", "detect -file <path> [-strategy rule] [-direction masuk]")
		os.Exit(2)
	}

	strat, err := constants.ParseStrategy(*strategy)
	if err != nil {
		logger.Error("invalid strategy", "arg", *strategy, "error", err)
		os.Exit(2)
	}
	dir, err := constants.ParseDirection(*direction)
	if err != nil {
		logger.Error("invalid direction", "arg", *direction, "error", err)
		os.Exit(2)
	}

	abs, err := filepath.Abs(*file)
	if err != nil {
		logger.Error("resolve file", "error", err)
		os.Exit(1)
	}
	info, err := os.Stat(abs)
	if err != nil {
		logger.Error("stat file", "error", err)
		os.Exit(1)
	}
	doc := letter.Document{
		Token:            filepath.Base(abs),
		Path:             abs,
		Format:           constants.MapExtToFormat(filepath.Ext(abs)),
		Size:             info.Size(),
		OriginalFilename: filepath.Base(abs),
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

	orchestrator := detect.NewOrchestrator(recognizer, rules.NewExtractor(), adapter, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	result, err := orchestrator.Detect(ctx, doc, strat, dir)
	if err != nil {
		logger.Error("detect failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}
