package rules

import (
	"regexp"
	"strings"
)

// honorifics are stripped from the front of the recipient name line.
var honorifics = []string{"bapak", "ibu", "sdr.", "sdri.", "sdr", "sdri", "saudara", "saudari"}

var reKepadaInline = regexp.MustCompile(`(?i)\b(?:kepada\s+)?yth\.?\s*[:]?\s*(.+)|\bkepada\s*[:]?\s*(.+)`)

// recipientBlock is the parsed "Kepada Yth." address block.
type recipientBlock struct {
	Name    string
	Title   string
	Address string
}

// extractPenerima returns the recipient name. The address block between the
// "Kepada"/"Yth." marker and its terminator is parsed positionally: first
// line (honorific stripped) is the name, second the title, the remainder
// the address. Only the name is emitted as the penerima field.
func extractPenerima(text string) string {
	if block, ok := parseRecipientBlock(text); ok {
		return block.Name
	}

	// single-line "Kepada Yth. : <name>" fallback
	for _, line := range nonBlankLines(text) {
		if !hasRecipientMarker(line) {
			continue
		}
		if m := reKepadaInline.FindStringSubmatch(line); m != nil {
			name := m[1]
			if name == "" {
				name = m[2]
			}
			if name = stripHonorific(strings.TrimSpace(name)); name != "" {
				return name
			}
		}
	}
	return ""
}

func parseRecipientBlock(text string) (recipientBlock, bool) {
	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if hasRecipientMarker(strings.TrimSpace(line)) {
			start = i
			break
		}
	}
	if start < 0 {
		return recipientBlock{}, false
	}

	var content []string
	// The marker line may already carry the name after the header tokens.
	if rest := stripRecipientHeader(strings.TrimSpace(lines[start])); rest != "" {
		content = append(content, rest)
	}
	for _, line := range lines[start+1:] {
		t := strings.TrimSpace(line)
		if t == "" {
			if len(content) > 0 {
				break
			}
			continue
		}
		if isRecipientTerminator(t) {
			break
		}
		content = append(content, t)
	}
	if len(content) == 0 {
		return recipientBlock{}, false
	}

	block := recipientBlock{Name: stripHonorific(content[0])}
	if block.Name == "" {
		return recipientBlock{}, false
	}
	if len(content) > 1 {
		block.Title = content[1]
	}
	if len(content) > 2 {
		block.Address = strings.Join(content[2:], ", ")
	}
	return block, true
}

func hasRecipientMarker(line string) bool {
	lower := strings.ToLower(line)
	return strings.HasPrefix(lower, "kepada") || strings.HasPrefix(lower, "yth")
}

// isRecipientTerminator matches the lines that end an address block: the
// "di <kota>" location line, a subject label, the salutation, or a lone
// "Tempat" placeholder.
func isRecipientTerminator(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.HasPrefix(lower, "di ") || lower == "di":
		return true
	case strings.HasPrefix(lower, "perihal") || strings.HasPrefix(lower, "hal:") || strings.HasPrefix(lower, "hal "):
		return true
	case strings.HasPrefix(lower, "dengan hormat"):
		return true
	case lower == "tempat" || lower == "tempat.":
		return true
	}
	return false
}

// stripRecipientHeader removes "Kepada", "Yth." and separator punctuation
// from the front of a line.
func stripRecipientHeader(line string) string {
	rest := line
	for {
		lower := strings.ToLower(rest)
		switch {
		case strings.HasPrefix(lower, "kepada"):
			rest = rest[len("kepada"):]
		case strings.HasPrefix(lower, "yth."):
			rest = rest[len("yth."):]
		case strings.HasPrefix(lower, "yth"):
			rest = rest[len("yth"):]
		default:
			return strings.TrimSpace(strings.TrimLeft(rest, " \t:.,"))
		}
		rest = strings.TrimLeft(rest, " \t:.,")
	}
}

func stripHonorific(name string) string {
	lower := strings.ToLower(name)
	for _, h := range honorifics {
		if strings.HasPrefix(lower, h) {
			rest := name[len(h):]
			if rest == "" || rest[0] == ' ' || rest[0] == '.' {
				return strings.TrimSpace(strings.TrimLeft(rest, " ."))
			}
		}
	}
	return strings.TrimSpace(name)
}
