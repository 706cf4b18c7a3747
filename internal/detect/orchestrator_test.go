package detect

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nandapratama/arsip-surat/constants"
	"github.com/nandapratama/arsip-surat/internal/common"
	"github.com/nandapratama/arsip-surat/internal/letter"
	"github.com/nandapratama/arsip-surat/internal/observability/metrics"
	"github.com/nandapratama/arsip-surat/internal/recognize"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRecognizer struct {
	result recognize.Result
	calls  int
}

func (f *fakeRecognizer) Recognize(context.Context, letter.Document) recognize.Result {
	f.calls++
	return f.result
}

type fakeRules struct {
	fields letter.Fields
}

func (f *fakeRules) Extract(string) letter.Fields {
	return f.fields
}

type fakeAdapter struct {
	available bool
	attempted bool
	fields    letter.Fields
	calls     int
}

func (f *fakeAdapter) Available() bool { return f.available }

func (f *fakeAdapter) ExtractFromFile(context.Context, letter.Document, string) (letter.Fields, bool) {
	f.calls++
	return f.fields, f.attempted
}

func pdfDoc() letter.Document {
	return letter.Document{Token: "2024/01/x.pdf", Path: "/tmp/x.pdf", Format: constants.PDF}
}

func recResult() recognize.Result {
	return recognize.Result{Text: "Nomor: 001/A/2024", Confidence: 88, Method: "pdf-text", Pages: 1}
}

func TestDetectUnsupportedFormat(t *testing.T) {
	rec := &fakeRecognizer{}
	o := NewOrchestrator(rec, &fakeRules{}, &fakeAdapter{}, nil, testLogger())

	_, err := o.Detect(context.Background(), letter.Document{Format: ""}, constants.StrategyRule, constants.Incoming)
	if !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Fatalf("want ErrUnsupportedFormat, got %v", err)
	}
	if rec.calls != 0 {
		t.Error("recognition must not run for unsupported formats")
	}
}

func TestDetectManualAndOCROnly(t *testing.T) {
	for _, strategy := range []constants.Strategy{constants.StrategyManual, constants.StrategyOCROnly} {
		rec := &fakeRecognizer{result: recResult()}
		adapter := &fakeAdapter{available: true, attempted: true}
		o := NewOrchestrator(rec, &fakeRules{fields: letter.Fields{
			constants.FieldNomorSurat: letter.Guess("should-not-appear"),
		}}, adapter, nil, testLogger())

		res, err := o.Detect(context.Background(), pdfDoc(), strategy, constants.Incoming)
		if err != nil {
			t.Fatalf("%s: %v", strategy, err)
		}
		if rec.calls != 1 {
			t.Errorf("%s: recognition must always run", strategy)
		}
		if res.Recognition.Text == "" || res.Recognition.Confidence != 88 {
			t.Errorf("%s: recognition result missing", strategy)
		}
		if res.Fields.DetectedCount() != 0 {
			t.Errorf("%s: expected no detected fields", strategy)
		}
		if adapter.calls != 0 {
			t.Errorf("%s: adapter must not be called", strategy)
		}
	}
}

func TestDetectRuleStrategy(t *testing.T) {
	rules := &fakeRules{fields: letter.Fields{
		constants.FieldNomorSurat: letter.Guess("001/A/2024"),
		constants.FieldPerihal:    letter.Guess("Undangan"),
	}}
	o := NewOrchestrator(&fakeRecognizer{result: recResult()}, rules, &fakeAdapter{}, nil, testLogger())

	res, err := o.Detect(context.Background(), pdfDoc(), constants.StrategyRule, constants.Incoming)
	if err != nil {
		t.Fatal(err)
	}
	if *res.Fields[constants.FieldNomorSurat].Value != "001/A/2024" {
		t.Error("rule fields missing")
	}
	if res.AdapterUnavailable {
		t.Error("rule strategy never touches the adapter")
	}
}

func TestDetectAIStrategyUnavailable(t *testing.T) {
	adapter := &fakeAdapter{available: false}
	o := NewOrchestrator(&fakeRecognizer{result: recResult()}, &fakeRules{}, adapter, nil, testLogger())

	res, err := o.Detect(context.Background(), pdfDoc(), constants.StrategyAI, constants.Incoming)
	if err != nil {
		t.Fatal(err)
	}
	if !res.AdapterUnavailable {
		t.Error("AdapterUnavailable must be set")
	}
	if res.Fields.DetectedCount() != 0 {
		t.Error("expected empty fields")
	}
	if len(res.Fields) != len(constants.FieldsFor(constants.Incoming)) {
		t.Error("field set must still cover the direction")
	}
}

func TestDetectAIStrategy(t *testing.T) {
	adapter := &fakeAdapter{available: true, attempted: true, fields: letter.Fields{
		constants.FieldPengirim: letter.Guess("DINAS PENDIDIKAN"),
	}}
	o := NewOrchestrator(&fakeRecognizer{result: recResult()}, &fakeRules{}, adapter, nil, testLogger())

	res, err := o.Detect(context.Background(), pdfDoc(), constants.StrategyAI, constants.Incoming)
	if err != nil {
		t.Fatal(err)
	}
	if res.AdapterUnavailable {
		t.Error("adapter ran; flag must be clear")
	}
	if *res.Fields[constants.FieldPengirim].Value != "DINAS PENDIDIKAN" {
		t.Error("adapter fields missing")
	}
}

func TestDetectHybridMergesPerField(t *testing.T) {
	rules := &fakeRules{fields: letter.Fields{
		constants.FieldNomorSurat:   letter.Guess("rule-nomor/2024"),
		constants.FieldTanggalSurat: letter.Guess("2024-01-01"),
	}}
	adapter := &fakeAdapter{available: true, attempted: true, fields: letter.Fields{
		constants.FieldNomorSurat: letter.Guess("ai-nomor/2024"),
		constants.FieldPerihal:    letter.Guess("Pemberitahuan"),
	}}
	o := NewOrchestrator(&fakeRecognizer{result: recResult()}, rules, adapter, nil, testLogger())

	res, err := o.Detect(context.Background(), pdfDoc(), constants.StrategyHybrid, constants.Incoming)
	if err != nil {
		t.Fatal(err)
	}
	if *res.Fields[constants.FieldNomorSurat].Value != "ai-nomor/2024" {
		t.Error("adapter detection must win the per-field tie")
	}
	if *res.Fields[constants.FieldTanggalSurat].Value != "2024-01-01" {
		t.Error("rule detection must fill adapter gaps")
	}
	if *res.Fields[constants.FieldPerihal].Value != "Pemberitahuan" {
		t.Error("adapter-only field must survive")
	}
}

func TestDetectHybridDegradesToRules(t *testing.T) {
	rules := &fakeRules{fields: letter.Fields{
		constants.FieldPerihal: letter.Guess("Undangan rapat"),
	}}
	o := NewOrchestrator(&fakeRecognizer{result: recResult()}, rules, &fakeAdapter{available: false}, nil, testLogger())

	res, err := o.Detect(context.Background(), pdfDoc(), constants.StrategyHybrid, constants.Incoming)
	if err != nil {
		t.Fatal(err)
	}
	if !res.AdapterUnavailable {
		t.Error("AdapterUnavailable must be set")
	}
	if *res.Fields[constants.FieldPerihal].Value != "Undangan rapat" {
		t.Error("rule fields must survive adapter outage")
	}
}

func TestDetectOutgoingDropsNomor(t *testing.T) {
	rules := &fakeRules{fields: letter.Fields{
		constants.FieldNomorSurat: letter.Guess("001/A/2024"),
		constants.FieldPerihal:    letter.Guess("Balasan"),
	}}
	o := NewOrchestrator(&fakeRecognizer{result: recResult()}, rules, &fakeAdapter{}, nil, testLogger())

	res, err := o.Detect(context.Background(), pdfDoc(), constants.StrategyRule, constants.Outgoing)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Fields[constants.FieldNomorSurat]; ok {
		t.Error("outgoing results must not carry nomor_surat")
	}
	if len(res.Fields) != len(constants.FieldsFor(constants.Outgoing)) {
		t.Errorf("field set size = %d", len(res.Fields))
	}
}

func TestUnconfiguredAdapterDoesNotCountAsCallError(t *testing.T) {
	m := metrics.NewDetectionMetrics()
	o := NewOrchestrator(&fakeRecognizer{result: recResult()}, &fakeRules{}, &fakeAdapter{available: false}, m, testLogger())

	if _, err := o.Detect(context.Background(), pdfDoc(), constants.StrategyAI, constants.Incoming); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	if !strings.Contains(body, `arsip_ai_adapter_calls_total{service="detect",status="unavailable"} 1`) {
		t.Errorf("unavailable status missing:\n%s", body)
	}
	if strings.Contains(body, `status="error"`) {
		t.Error("unconfigured adapter must not count as a call error")
	}
}

func TestDetectUnknownStrategy(t *testing.T) {
	o := NewOrchestrator(&fakeRecognizer{result: recResult()}, &fakeRules{}, &fakeAdapter{}, nil, testLogger())
	if _, err := o.Detect(context.Background(), pdfDoc(), constants.Strategy("bogus"), constants.Incoming); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("want ErrInvalidInput, got %v", err)
	}
}
