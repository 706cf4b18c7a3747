// Package aiextract calls an OpenRouter-compatible chat completions API to
// pull letter fields out of an uploaded document. The call is best-effort:
// any failure (missing credential, transport error, malformed reply) yields
// an empty field set, never an error that aborts detection.
package aiextract

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/nandapratama/arsip-surat/internal/letter"
)

// Config holds the OpenRouter connection settings.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	SiteURL     string
	SiteName    string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

const (
	defaultModel     = "z-ai/glm-4.5-air:free"
	defaultBaseURL   = "https://openrouter.ai/api/v1"
	defaultMaxTokens = 2048
	defaultTimeout   = 60 * time.Second

	// maxFallbackTextChars bounds the OCR text attached alongside the file.
	maxFallbackTextChars = 6000
)

// Client is the external extraction adapter.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Available reports whether the adapter is configured to make calls.
func (c *Client) Available() bool {
	return c.cfg.APIKey != ""
}

// ExtractFromFile sends the document (and the recognized text as extra
// context) to the model and returns the fields it detected. The zero-value
// field set is returned on any failure; the single bool reports whether the
// adapter was available and reachable enough to attempt the call.
func (c *Client) ExtractFromFile(ctx context.Context, doc letter.Document, fallbackText string) (letter.Fields, bool) {
	if !c.Available() {
		c.logger.Warn("aiextract.skip", "reason", "no_api_key")
		return letter.Fields{}, false
	}

	body, err := c.buildRequest(doc, fallbackText)
	if err != nil {
		c.logger.Error("aiextract.build_error", "token", doc.Token, "error", err)
		return letter.Fields{}, false
	}

	start := time.Now()
	raw, status, err := c.send(ctx, body)
	if err != nil {
		c.logger.Error("aiextract.call_error",
			"token", doc.Token,
			"status", status,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return letter.Fields{}, false
	}

	fields, err := parseReply(raw)
	if err != nil {
		c.logger.Warn("aiextract.parse_error",
			"token", doc.Token,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		// The call succeeded; the model just answered badly.
		return letter.Fields{}, true
	}

	c.logger.Info("aiextract.done",
		"token", doc.Token,
		"model", c.cfg.Model,
		"fields_detected", fields.DetectedCount(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fields, true
}
