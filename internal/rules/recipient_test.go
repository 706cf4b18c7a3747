package rules

import "testing"

func TestExtractPenerima(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"block with honorific and address",
			"Kepada Yth.\nBapak Kepala Dinas Pendidikan\nKota Mataram\ndi Mataram",
			"Kepala Dinas Pendidikan",
		},
		{
			"yth only",
			"Yth. Ibu Siti Aminah\nJalan Merdeka 10\ndi Tempat",
			"Siti Aminah",
		},
		{
			"single line with separator",
			"Kepada Yth. : Sdr. Budi Santoso",
			"Budi Santoso",
		},
		{
			"terminated by perihal label",
			"Kepada\nDirektur PT Nusantara\nPerihal : Penawaran kerja sama",
			"Direktur PT Nusantara",
		},
		{
			"lone tempat terminator",
			"Kepada Yth.\nKetua RT 05\nTempat",
			"Ketua RT 05",
		},
		{"no marker", "Dengan hormat, kami sampaikan", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractPenerima(tt.text); got != tt.want {
				t.Errorf("extractPenerima = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRecipientBlockPositions(t *testing.T) {
	block, ok := parseRecipientBlock("Kepada Yth.\nIbu Dewi Lestari\nKepala Bagian Umum\nJalan Pejanggik 12\nMataram\ndi Mataram")
	if !ok {
		t.Fatal("expected block")
	}
	if block.Name != "Dewi Lestari" {
		t.Errorf("Name = %q", block.Name)
	}
	if block.Title != "Kepala Bagian Umum" {
		t.Errorf("Title = %q", block.Title)
	}
	if block.Address != "Jalan Pejanggik 12, Mataram" {
		t.Errorf("Address = %q", block.Address)
	}
}

func TestStripHonorific(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Bapak Ahmad", "Ahmad"},
		{"Sdr. Rina", "Rina"},
		{"Saudara Joko Widodo", "Joko Widodo"},
		{"Ibunda Tersayang", "Ibunda Tersayang"}, // prefix of a longer word stays
		{"Ahmad", "Ahmad"},
	}
	for _, tt := range tests {
		if got := stripHonorific(tt.in); got != tt.want {
			t.Errorf("stripHonorific(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
