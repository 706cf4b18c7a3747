package recognize

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// minTextLayerChars is the cutoff between "digital PDF with a usable text
// layer" and "scanned PDF that needs rasterization + OCR".
const minTextLayerChars = 50

// textLayerConfidence is the fixed score assigned to direct text-layer
// extraction; lossless extraction needs no probabilistic score.
const textLayerConfidence = 90

// pdfTextLayer pulls the embedded text layer out of a PDF in-process.
// The parser panics on some malformed files, so recover converts those
// into ordinary errors.
func pdfTextLayer(path string) (text string, pages int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, pages = "", 0
			err = fmt.Errorf("pdf text layer: %v", rec)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("pdf open: %w", err)
	}
	defer func() { _ = f.Close() }()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", 0, fmt.Errorf("pdf plain text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", 0, fmt.Errorf("pdf read text: %w", err)
	}
	return string(raw), reader.NumPage(), nil
}

// ocrPDF rasterizes every page at the configured DPI and OCRs them
// independently. Page texts are concatenated in page order; the result
// confidence is the mean of the per-page TSV confidences.
func (r *Recognizer) ocrPDF(ctx context.Context, path string) (text string, confidence float64, pages int, warnings []string) {
	tmpDir, err := os.MkdirTemp("", "arsip-pdf-*")
	if err != nil {
		return "", 0, 0, []string{fmt.Sprintf("rasterize: %v", err)}
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", r.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, 0, []string{string(errb), fmt.Sprintf("pdftoppm: %v", err)}
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if r.cfg.MaxPages > 0 && len(matches) > r.cfg.MaxPages {
		matches = matches[:r.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, 0, []string{"pdftoppm produced no images"}
	}

	var b strings.Builder
	var confSum float64
	var confN int
	var warns []string
	for _, img := range matches {
		pageText, pageConf, w := r.ocrImage(ctx, img)
		warns = append(warns, w...)
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(pageText)
		confSum += pageConf
		confN++
	}

	confidence = 0
	if confN > 0 {
		confidence = confSum / float64(confN)
	}
	return b.String(), confidence, len(matches), warns
}
