package recognize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nandapratama/arsip-surat/constants"
	"github.com/nandapratama/arsip-surat/internal/letter"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"

	TesseractLang string // default "ind+eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir string
	PSM         int // e.g., 6 is good for a uniform block of text
	OEM         int // 1 = LSTM; leave 0 to use default
}

// Result is the full recognition output for one document. Confidence is on
// the 0..100 scale; 0 signals degraded recognition, not an error.
type Result struct {
	Text       string        `json:"text"`
	Confidence float64       `json:"confidence"`
	Keywords   []string      `json:"keywords"`
	Method     string        `json:"method"` // "pdf-text" | "pdf-ocr" | "image-ocr"
	Pages      int           `json:"pages"`
	Duration   time.Duration `json:"-"`
	Warnings   []string      `json:"warnings,omitempty"`
}

type Recognizer struct {
	cfg       Config
	runner    Runner
	pre       Preprocessor
	textLayer func(path string) (string, int, error)
	logger    *slog.Logger
}

func NewRecognizer(cfg Config, pre Preprocessor, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if pre == nil {
		pre = Identity{}
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "ind+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Recognizer{cfg: cfg, runner: newExecRunner(logger), pre: pre, textLayer: pdfTextLayer, logger: logger}
}

// Recognize converts a stored document into text, a confidence score and a
// ranked keyword list. It never fails: every internal fault degrades to the
// zero result with a warning attached.
func (r *Recognizer) Recognize(ctx context.Context, doc letter.Document) (res Result) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("recognize.panic", "token", doc.Token, "panic", rec)
			res = Result{Warnings: []string{fmt.Sprintf("recognition fault: %v", rec)}}
		}
		res.Keywords = Keywords(res.Text)
		res.Confidence = clampConfidence(res.Confidence)
		res.Duration = time.Since(start)
		r.logger.Info("recognize.done",
			"token", doc.Token,
			"method", res.Method,
			"pages", res.Pages,
			"confidence", res.Confidence,
			"text_len", len(res.Text),
			"keywords", len(res.Keywords),
			"duration_ms", res.Duration.Milliseconds(),
			"warnings", len(res.Warnings),
		)
	}()

	r.logger.Debug("recognize.start", "token", doc.Token, "format", doc.Format, "path", doc.Path)

	switch doc.Format {
	case constants.PDF:
		return r.recognizePDF(ctx, doc.Path)
	case constants.IMAGE:
		text, conf, warns := r.ocrImage(ctx, doc.Path)
		return Result{Text: text, Confidence: conf, Method: "image-ocr", Pages: 1, Warnings: warns}
	default:
		return Result{Warnings: []string{fmt.Sprintf("unsupported format: %q", doc.Format)}}
	}
}

func (r *Recognizer) recognizePDF(ctx context.Context, path string) Result {
	text, pages, err := r.textLayer(path)
	if err == nil && len(strings.TrimSpace(text)) > minTextLayerChars {
		return Result{
			Text:       Normalize(text),
			Confidence: textLayerConfidence,
			Method:     "pdf-text",
			Pages:      pages,
		}
	}

	var warns []string
	if err != nil {
		warns = append(warns, err.Error())
	}
	r.logger.Debug("recognize.pdf_scanned", "path", path, "text_layer_len", len(text))

	ocrText, conf, ocrPages, w := r.ocrPDF(ctx, path)
	warns = append(warns, w...)
	return Result{
		Text:       ocrText,
		Confidence: conf,
		Method:     "pdf-ocr",
		Pages:      ocrPages,
		Warnings:   warns,
	}
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
