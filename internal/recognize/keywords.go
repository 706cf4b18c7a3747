package recognize

import (
	"sort"
	"strings"
	"unicode"
)

const (
	maxKeywords   = 20
	minTokenChars = 4
)

// Keywords ranks the distinct tokens of text by frequency and returns the
// top 20. Text is case-folded and non-alphanumeric runes become spaces, so
// punctuation never glues tokens together. Tokens shorter than four
// characters are ignored. Ranking is stable: equally frequent tokens keep
// their first-seen order.
func Keywords(text string) []string {
	if text == "" {
		return nil
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	counts := make(map[string]int)
	var order []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) < minTokenChars {
			continue
		}
		if _, seen := counts[tok]; !seen {
			order = append(order, tok)
		}
		counts[tok]++
	}
	if len(order) == 0 {
		return nil
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}
