package letter

import (
	"strings"

	"github.com/nandapratama/arsip-surat/constants"
)

// Document references an uploaded letter held by the intake store. Token is
// the durable storage reference reused between detect and confirm; Path is
// the resolved absolute location of the same bytes.
type Document struct {
	Token            string           `json:"file_token"`
	Path             string           `json:"-"`
	Format           constants.Format `json:"format"`
	Size             int64            `json:"size"`
	OriginalFilename string           `json:"original_filename"`
}

// FieldGuess is one extractor's opinion about a single letter field.
// Detected is never true with a nil value; undetected guesses carry nil.
type FieldGuess struct {
	Value    *string `json:"value"`
	Detected bool    `json:"detected"`
}

// Undetected is the empty guess.
func Undetected() FieldGuess {
	return FieldGuess{Value: nil, Detected: false}
}

// Guess normalizes a raw string into a FieldGuess. Values are trimmed;
// blank or whitespace-only input means the field was not found.
func Guess(value string) FieldGuess {
	v := strings.TrimSpace(value)
	if v == "" {
		return Undetected()
	}
	return FieldGuess{Value: &v, Detected: true}
}

// Fields maps field names (constants.Field*) to guesses.
type Fields map[string]FieldGuess

// EmptyFields returns an all-undetected map for the direction's field set.
func EmptyFields(d constants.Direction) Fields {
	names := constants.FieldsFor(d)
	out := make(Fields, len(names))
	for _, name := range names {
		out[name] = Undetected()
	}
	return out
}

// ForDirection restricts f to exactly the direction's declared field set.
// Missing fields materialize as undetected; extras are dropped.
func (f Fields) ForDirection(d constants.Direction) Fields {
	names := constants.FieldsFor(d)
	out := make(Fields, len(names))
	for _, name := range names {
		if g, ok := f[name]; ok && g.Detected && g.Value != nil {
			out[name] = g
		} else {
			out[name] = Undetected()
		}
	}
	return out
}

// DetectedCount reports how many fields carry a detected value.
func (f Fields) DetectedCount() int {
	n := 0
	for _, g := range f {
		if g.Detected {
			n++
		}
	}
	return n
}

// Merge combines a primary and a fallback guess set field by field: the
// primary wins wherever it detected something, otherwise the fallback guess
// is used. The tie-break is per field, never whole-result.
func Merge(primary, fallback Fields) Fields {
	out := make(Fields, len(fallback))
	for name, g := range fallback {
		out[name] = g
	}
	for name, g := range primary {
		if g.Detected {
			out[name] = g
		}
	}
	return out
}
