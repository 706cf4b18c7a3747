package recognize

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestKeywords(t *testing.T) {
	got := Keywords("Surat ini berisi informasi penting penting")
	// "ini" is below the length cutoff; "penting" outranks by frequency but
	// first-seen order breaks the tie among the rest.
	want := []string{"penting", "surat", "berisi", "informasi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords = %v, want %v", got, want)
	}
}

func TestKeywordsCaseFoldAndPunctuation(t *testing.T) {
	got := Keywords("RAPAT, rapat; Rapat! koordinasi")
	want := []string{"rapat", "koordinasi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords = %v, want %v", got, want)
	}
}

func TestKeywordsEmpty(t *testing.T) {
	if got := Keywords(""); got != nil {
		t.Errorf("Keywords(\"\") = %v", got)
	}
	if got := Keywords("a ab abc"); got != nil {
		t.Errorf("short tokens only = %v", got)
	}
}

func TestKeywordsCapAtTwenty(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "kata%04d ", i)
	}
	got := Keywords(b.String())
	if len(got) != 20 {
		t.Errorf("len = %d, want 20", len(got))
	}
	if got[0] != "kata0000" {
		t.Errorf("stable order broken: first = %q", got[0])
	}
}

func TestNormalize(t *testing.T) {
	in := "Baris satu\t\tdua\r\n\r\n\r\n\r\nBaris   tiga   \r\n"
	want := "Baris satu dua\n\nBaris tiga"
	if got := Normalize(in); got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
	if got := Normalize(""); got != "" {
		t.Errorf("Normalize(\"\") = %q", got)
	}
}
