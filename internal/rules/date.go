package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// bulanMap maps Indonesian month names, full and abbreviated, to month
// numbers. "mei" has no abbreviation; agustus has two common ones.
var bulanMap = map[string]time.Month{
	"januari": time.January, "februari": time.February, "maret": time.March,
	"april": time.April, "mei": time.May, "juni": time.June,
	"juli": time.July, "agustus": time.August, "september": time.September,
	"oktober": time.October, "november": time.November, "desember": time.December,

	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July,
	"agt": time.August, "ags": time.August, "sep": time.September,
	"okt": time.October, "nov": time.November, "des": time.December,
}

var (
	reNamedDate = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(januari|februari|maret|april|mei|juni|juli|agustus|september|oktober|november|desember|jan|feb|mar|apr|jun|jul|agt|ags|sep|okt|nov|des)\s+(\d{4})\b`)

	reNumericDate = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})\b`)
)

// extractTanggal finds the letter date. Named-month forms are tried first
// ("19 April 2024", also when prefixed by a city: "Mataram, 5 Januari
// 2025"), then numeric DD/MM/YYYY and DD-MM-YYYY. The first candidate that
// is a real calendar date wins; the result is an ISO date string.
func extractTanggal(text string) string {
	if m := reNamedDate.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := bulanMap[strings.ToLower(m[2])]
		year, _ := strconv.Atoi(m[3])
		if iso, ok := validDate(year, month, day); ok {
			return iso
		}
	}

	if m := reNumericDate.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 {
			if iso, ok := validDate(year, time.Month(month), day); ok {
				return iso
			}
		}
	}

	return ""
}

// validDate accepts only real calendar dates: 31/02 is rejected, not
// silently normalized the way time.Date would.
func validDate(year int, month time.Month, day int) (string, bool) {
	if day < 1 || day > 31 || year < 2000 || year > 2099 {
		return "", false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day), true
}
