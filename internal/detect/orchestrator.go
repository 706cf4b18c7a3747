// Package detect coordinates the full detection pipeline: recognition always
// runs, then the chosen strategy decides which extractors fill the fields.
package detect

import (
	"context"
	"log/slog"
	"time"

	"github.com/nandapratama/arsip-surat/constants"
	"github.com/nandapratama/arsip-surat/internal/common"
	"github.com/nandapratama/arsip-surat/internal/letter"
	"github.com/nandapratama/arsip-surat/internal/observability/metrics"
	"github.com/nandapratama/arsip-surat/internal/recognize"
)

// Recognizer turns a stored document into text, confidence and keywords.
type Recognizer interface {
	Recognize(ctx context.Context, doc letter.Document) recognize.Result
}

// Rules extracts letter fields from recognized text.
type Rules interface {
	Extract(text string) letter.Fields
}

// Adapter is the external model-backed extractor. The bool reports whether
// the adapter actually got to attempt extraction.
type Adapter interface {
	Available() bool
	ExtractFromFile(ctx context.Context, doc letter.Document, fallbackText string) (letter.Fields, bool)
}

// Result is the outcome of one detection run.
type Result struct {
	Document           letter.Document     `json:"document"`
	Strategy           constants.Strategy  `json:"strategy"`
	Direction          constants.Direction `json:"direction"`
	Recognition        recognize.Result    `json:"recognition"`
	Fields             letter.Fields       `json:"fields"`
	AdapterUnavailable bool                `json:"adapter_unavailable"`
}

// Orchestrator wires the extractors behind a single Detect entry point.
type Orchestrator struct {
	recognizer Recognizer
	rules      Rules
	adapter    Adapter
	metrics    *metrics.DetectionMetrics
	logger     *slog.Logger
}

func NewOrchestrator(r Recognizer, rules Rules, adapter Adapter, m *metrics.DetectionMetrics, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{recognizer: r, rules: rules, adapter: adapter, metrics: m, logger: logger}
}

const metricService = "detect"

// Detect runs recognition and the strategy's extractors over the document.
// Only caller mistakes (an unsupported format) return an error; extractor
// failures degrade into undetected fields on a successful Result.
func (o *Orchestrator) Detect(ctx context.Context, doc letter.Document, strategy constants.Strategy, direction constants.Direction) (Result, error) {
	start := time.Now()

	if doc.Format != constants.PDF && doc.Format != constants.IMAGE {
		o.record(strategy, direction, "unsupported_format", 0, time.Since(start))
		return Result{}, common.NewAppError("UNSUPPORTED_FORMAT", "unsupported document format", common.ErrUnsupportedFormat)
	}

	// Recognition runs for every strategy, manual included, so the caller
	// always gets text, confidence and keywords to show.
	rec := o.recognizer.Recognize(ctx, doc)
	if o.metrics != nil {
		o.metrics.RecordRecognition(metricService, rec.Method, rec.Confidence, rec.Duration)
	}

	res := Result{
		Document:    doc,
		Strategy:    strategy,
		Direction:   direction,
		Recognition: rec,
	}

	switch strategy {
	case constants.StrategyManual, constants.StrategyOCROnly:
		res.Fields = letter.EmptyFields(direction)

	case constants.StrategyRule:
		res.Fields = o.rules.Extract(rec.Text)

	case constants.StrategyAI:
		res.Fields, res.AdapterUnavailable = o.adapterFields(ctx, doc, rec.Text)
		if res.AdapterUnavailable {
			res.Fields = letter.EmptyFields(direction)
		}

	case constants.StrategyHybrid:
		ruleFields := o.rules.Extract(rec.Text)
		aiFields, unavailable := o.adapterFields(ctx, doc, rec.Text)
		res.AdapterUnavailable = unavailable
		if unavailable {
			res.Fields = ruleFields
		} else {
			res.Fields = letter.Merge(aiFields, ruleFields)
		}

	default:
		o.record(strategy, direction, "unknown_strategy", 0, time.Since(start))
		return Result{}, common.NewAppError("INVALID_STRATEGY", "unknown detection strategy", common.ErrInvalidInput)
	}

	res.Fields = res.Fields.ForDirection(direction)

	outcome := "ok"
	if res.AdapterUnavailable {
		outcome = "adapter_unavailable"
	}
	o.record(strategy, direction, outcome, res.Fields.DetectedCount(), time.Since(start))

	o.logger.Info("detect.done",
		"token", doc.Token,
		"strategy", string(strategy),
		"direction", string(direction),
		"method", rec.Method,
		"confidence", rec.Confidence,
		"fields_detected", res.Fields.DetectedCount(),
		"adapter_unavailable", res.AdapterUnavailable,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// adapterFields calls the external adapter; the bool is true when the
// adapter never got to run (unconfigured or unreachable).
func (o *Orchestrator) adapterFields(ctx context.Context, doc letter.Document, text string) (letter.Fields, bool) {
	if o.adapter == nil || !o.adapter.Available() {
		if o.metrics != nil {
			o.metrics.RecordAdapterUnavailable(metricService)
		}
		return nil, true
	}
	fields, attempted := o.adapter.ExtractFromFile(ctx, doc, text)
	if o.metrics != nil {
		var err error
		if !attempted {
			err = common.ErrInternal
		}
		o.metrics.RecordAdapterCall(metricService, err)
	}
	if !attempted {
		return nil, true
	}
	return fields, false
}

func (o *Orchestrator) record(strategy constants.Strategy, direction constants.Direction, outcome string, detected int, d time.Duration) {
	if o.metrics != nil {
		o.metrics.RecordDetect(metricService, string(strategy), string(direction), outcome, detected, d)
	}
}
