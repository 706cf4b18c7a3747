package rules

import (
	"strings"
	"unicode/utf8"
)

const (
	summaryMinChars = 20
	summaryMaxChars = 300
)

// openingPhrases mark where the body of a letter starts.
var openingPhrases = []string{
	"dengan hormat",
	"sehubungan dengan",
	"menindaklanjuti",
	"berdasarkan",
	"bersama surat ini",
}

// closingPhrases mark where the body winds down.
var closingPhrases = []string{
	"demikian",
	"hormat kami",
	"wassalamu",
	"atas perhatian",
}

// extractIsiSingkat takes the span between the first opening phrase and the
// first closing phrase that follows it, collapses whitespace, and caps the
// result at 300 characters on a word boundary.
func extractIsiSingkat(text string) string {
	lower := strings.ToLower(text)

	start := -1
	for _, p := range openingPhrases {
		if idx := strings.Index(lower, p); idx >= 0 && (start < 0 || idx < start) {
			start = idx
		}
	}
	if start < 0 {
		return ""
	}

	end := -1
	for _, p := range closingPhrases {
		idx := strings.Index(lower[start+1:], p)
		if idx < 0 {
			continue
		}
		idx += start + 1
		if end < 0 || idx < end {
			end = idx
		}
	}
	if end < 0 {
		return ""
	}

	body := strings.TrimSpace(reWhitespace.ReplaceAllString(text[start:end], " "))
	if len(body) < summaryMinChars {
		return ""
	}
	if len(body) > summaryMaxChars {
		// back up so the cut never splits a multi-byte rune
		n := summaryMaxChars
		for n > 0 && !utf8.RuneStart(body[n]) {
			n--
		}
		cut := body[:n]
		if sp := strings.LastIndex(cut, " "); sp > 0 {
			cut = cut[:sp]
		}
		body = strings.TrimRight(cut, " ,.;:") + "..."
	}
	return body
}
