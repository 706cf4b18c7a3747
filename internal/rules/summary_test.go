package rules

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractIsiSingkat(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"opening to closing span",
			"Sehubungan dengan kegiatan lomba sekolah, kami mohon izin penggunaan lapangan.\nDemikian permohonan kami.",
			"Sehubungan dengan kegiatan lomba sekolah, kami mohon izin penggunaan lapangan.",
		},
		{
			"earliest opening wins",
			"Dengan hormat, berdasarkan hasil rapat kemarin kami sampaikan jadwal baru.\nAtas perhatian Bapak kami ucapkan terima kasih.",
			"Dengan hormat, berdasarkan hasil rapat kemarin kami sampaikan jadwal baru.",
		},
		{"no opening phrase", "Isi surat langsung tanpa pembuka. Demikian.", ""},
		{"no closing phrase", "Sehubungan dengan hal tersebut kami menunggu jawaban", ""},
		{"span too short", "Berdasarkan itu. Demikian.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractIsiSingkat(tt.text); got != tt.want {
				t.Errorf("extractIsiSingkat = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractIsiSingkatCapsLongBody(t *testing.T) {
	body := "Sehubungan dengan " + strings.Repeat("pelaksanaan kegiatan rutin ", 20) + "akhir.\nDemikian kami sampaikan."
	got := extractIsiSingkat(body)
	if got == "" {
		t.Fatal("expected a summary")
	}
	if len(got) > summaryMaxChars+3 {
		t.Errorf("summary length %d exceeds cap", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if strings.Contains(got, "  ") {
		t.Error("whitespace not collapsed")
	}
}

func TestExtractIsiSingkatCapKeepsRunesIntact(t *testing.T) {
	body := "Sehubungan dengan " + strings.Repeat("sérémoni adat ", 40) + "selesai.\nDemikian kami sampaikan."
	got := extractIsiSingkat(body)
	if got == "" {
		t.Fatal("expected a summary")
	}
	if !utf8.ValidString(got) {
		t.Errorf("cap split a multi-byte rune: %q", got)
	}
	if len(got) > summaryMaxChars+3 {
		t.Errorf("summary length %d exceeds cap", len(got))
	}
}
