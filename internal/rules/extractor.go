// Package rules extracts letter fields from recognized text with
// deterministic patterns and heuristics tuned for Indonesian official
// letters (surat dinas). Every extractor is pure and total: no match means
// an undetected guess, never an error.
package rules

import (
	"regexp"
	"strings"

	"github.com/nandapratama/arsip-surat/constants"
	"github.com/nandapratama/arsip-surat/internal/letter"
)

// orgPrefixes are letterhead openers of Indonesian government bodies; a
// leading line starting with one of these is almost always the sender.
var orgPrefixes = []string{
	"KEPOLISIAN", "POLDA", "POLRES", "POLRESTA",
	"KEMENTERIAN", "PEMERINTAH", "BADAN", "LEMBAGA",
	"DIREKTORAT", "SATUAN", "DINAS", "KOMISI",
}

// closingMarkers introduce the signature block at the end of a letter.
var closingMarkers = []string{
	"hormat kami",
	"wassalamu",
}

var (
	reNomorLabel = regexp.MustCompile(`(?i)\b(?:nomor\s*surat|nomor|no\.?)\s*[:.]?\s*([A-Za-z0-9][^\n\r]*)`)
	reNoiseSplit = regexp.MustCompile(`\s{2,}|\t`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs every field rule over the text and returns the full guess
// map for incoming letters. Callers narrow it to a direction's field set.
func (e *Extractor) Extract(text string) letter.Fields {
	return letter.Fields{
		constants.FieldNomorSurat:   letter.Guess(extractNomor(text)),
		constants.FieldTanggalSurat: letter.Guess(extractTanggal(text)),
		constants.FieldPengirim:     letter.Guess(extractPengirim(text)),
		constants.FieldPenerima:     letter.Guess(extractPenerima(text)),
		constants.FieldPerihal:      letter.Guess(extractPerihal(text)),
		constants.FieldIsiSingkat:   letter.Guess(extractIsiSingkat(text)),
	}
}

// extractNomor looks for a reference-number label ("Nomor", "No.") and
// accepts the remainder only when it looks like a filing code: it must
// contain "/" or "-" and be at least four characters once truncated at the
// first wide whitespace run.
func extractNomor(text string) string {
	m := reNomorLabel.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	nomor := strings.TrimSpace(reNoiseSplit.Split(m[1], 2)[0])
	if len(nomor) < 4 {
		return ""
	}
	if !strings.ContainsAny(nomor, "/-") {
		return ""
	}
	return nomor
}

// extractPengirim guesses the sending organization:
//  1. a known government-org line near the top of the letterhead,
//  2. else the all-caps line right after a closing marker (signature block),
//  3. else the first long all-caps line among the first 10 lines.
func extractPengirim(text string) string {
	lines := nonBlankLines(text)

	for i, line := range lines {
		if i >= 15 {
			break
		}
		upper := strings.ToUpper(line)
		for _, pfx := range orgPrefixes {
			if strings.HasPrefix(upper, pfx) {
				return line
			}
		}
	}

	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, marker := range closingMarkers {
			if strings.HasPrefix(lower, marker) && i+1 < len(lines) {
				next := lines[i+1]
				if isAllCaps(next) && len(next) > 5 {
					return next
				}
			}
		}
	}

	for i, line := range lines {
		if i >= 10 {
			break
		}
		if isAllCaps(line) && len(line) >= 8 {
			return line
		}
	}

	return ""
}

// extractPerihal reads the subject after a "Perihal"/"Hal" label, keeping a
// lowercase-starting continuation line, and rejects matches that are too
// short to be a real subject.
func extractPerihal(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		_, rest, ok := splitLabel(line, "perihal", "hal")
		if !ok {
			continue
		}
		perihal := rest
		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next != "" && startsLower(next) {
				perihal += " " + next
			}
		}
		perihal = strings.TrimSpace(reWhitespace.ReplaceAllString(perihal, " "))
		if len(perihal) < 5 {
			continue
		}
		return perihal
	}
	return ""
}

// splitLabel matches "<label> : value" at the start of a line for any of
// the given lowercase labels and returns the value.
func splitLabel(line string, labels ...string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)
	for _, label := range labels {
		if !strings.HasPrefix(lower, label) {
			continue
		}
		rest := trimmed[len(label):]
		if rest != "" && !strings.ContainsAny(rest[:1], " \t:.") {
			continue // label is a prefix of a longer word
		}
		rest = strings.TrimLeft(rest, " \t:.")
		return label, strings.TrimSpace(rest), true
	}
	return "", "", false
}

func nonBlankLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// isAllCaps reports whether the line is fully upper case and contains at
// least one letter.
func isAllCaps(line string) bool {
	hasLetter := false
	for _, r := range line {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

func startsLower(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c >= 'a' && c <= 'z'
}
