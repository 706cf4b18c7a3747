package constants

import "fmt"

// Direction distinguishes incoming letters (surat masuk) from outgoing
// letters (surat keluar). It decides which fields detection targets.
type Direction string

const (
	Incoming Direction = "masuk"
	Outgoing Direction = "keluar"
)

// Field names shared between the rule extractor, the model adapter and the
// detection result. They match the record schema of the archive.
const (
	FieldNomorSurat   = "nomor_surat"
	FieldTanggalSurat = "tanggal_surat"
	FieldPengirim     = "pengirim"
	FieldPenerima     = "penerima"
	FieldPerihal      = "perihal"
	FieldIsiSingkat   = "isi_singkat"
)

var incomingFields = []string{
	FieldNomorSurat,
	FieldTanggalSurat,
	FieldPengirim,
	FieldPenerima,
	FieldPerihal,
	FieldIsiSingkat,
}

// Outgoing letters never extract nomor_surat: outgoing numbering is
// sequenced centrally at record creation, not read off the document.
var outgoingFields = []string{
	FieldTanggalSurat,
	FieldPenerima,
	FieldPerihal,
	FieldIsiSingkat,
}

// ParseDirection validates a caller-supplied direction string. Empty input
// defaults to Incoming.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "":
		return Incoming, nil
	case Incoming, Outgoing:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown direction: %q", s)
	}
}

// FieldsFor returns the declared, ordered field set for a direction.
// The returned slice is a copy.
func FieldsFor(d Direction) []string {
	var src []string
	switch d {
	case Outgoing:
		src = outgoingFields
	default:
		src = incomingFields
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
