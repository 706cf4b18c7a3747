package recognize

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

func (r *Recognizer) ocrImage(ctx context.Context, path string) (text string, confidence float64, warnings []string) {
	processed, cleanup, warns := r.pre.Process(path)
	if cleanup != nil {
		defer cleanup()
	}

	txt, w, err := r.tesseractOCR(ctx, processed)
	warns = append(warns, w...)
	if err != nil {
		warns = append(warns, err.Error())
		return "", 0, warns
	}
	txt = Normalize(txt)

	conf, w2, err := r.tesseractTSVConfidence(ctx, processed)
	warns = append(warns, w2...)
	if err != nil {
		warns = append(warns, err.Error())
		conf = 0
	}
	return txt, conf, warns
}

func (r *Recognizer) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", r.cfg.TesseractLang}
	if r.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(r.cfg.PSM))
	}
	if r.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(r.cfg.OEM))
	}
	if r.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", r.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := r.runner.Run(ctx, r.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}

	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return txt, nil, nil
}

// tesseractTSVConfidence runs tesseract in TSV mode and returns the mean
// word confidence on the 0..100 scale.
func (r *Recognizer) tesseractTSVConfidence(ctx context.Context, path string) (float64, []string, error) {
	args := []string{path, "stdout", "-l", r.cfg.TesseractLang}
	if r.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(r.cfg.PSM))
	}
	if r.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(r.cfg.OEM))
	}
	if r.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", r.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, errb, err := r.runner.Run(ctx, r.cfg.Tesseract, args...)
	if err != nil {
		return 0, []string{string(errb)}, fmt.Errorf("tesseract TSV: %w", err)
	}

	lines := strings.Split(string(out), "\n")
	// TSV layout: level..height, conf, text; the header line is skipped and
	// -1 marks non-word rows.
	var sum, n float64
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[10]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil && v >= 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil, nil
	}
	return sum / n, nil, nil
}
