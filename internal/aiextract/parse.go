package aiextract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nandapratama/arsip-surat/constants"
	"github.com/nandapratama/arsip-surat/internal/letter"
)

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			Reasoning string `json:"reasoning"`
		} `json:"message"`
	} `json:"choices"`
}

// replySchema validates the object the model answers with. Every field is a
// nullable string; models that return extra keys are tolerated.
var replySchema = jsonschema.MustCompileString("reply.json", `{
	"type": "object",
	"properties": {
		"nomor_surat":   {"type": ["string", "null"]},
		"tanggal_surat": {"type": ["string", "null"]},
		"pengirim":      {"type": ["string", "null"]},
		"penerima":      {"type": ["string", "null"]},
		"perihal":       {"type": ["string", "null"]},
		"isi_singkat":   {"type": ["string", "null"]}
	}
}`)

// parseReply digs the field object out of a chat completion response. Some
// models put the answer in the reasoning field instead of content, and many
// wrap the JSON in prose, so the parse takes the span from the first "{" to
// the last "}".
func parseReply(raw []byte) (letter.Fields, error) {
	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	answer := resp.Choices[0].Message.Content
	if strings.TrimSpace(answer) == "" {
		answer = resp.Choices[0].Message.Reasoning
	}

	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model answer")
	}

	var decoded any
	if err := json.Unmarshal([]byte(answer[start:end+1]), &decoded); err != nil {
		return nil, fmt.Errorf("decode model answer: %w", err)
	}
	if err := replySchema.Validate(decoded); err != nil {
		return nil, fmt.Errorf("validate model answer: %w", err)
	}

	obj := decoded.(map[string]any)
	fields := letter.Fields{}
	for _, name := range []string{
		constants.FieldNomorSurat,
		constants.FieldTanggalSurat,
		constants.FieldPengirim,
		constants.FieldPenerima,
		constants.FieldPerihal,
		constants.FieldIsiSingkat,
	} {
		if s, ok := obj[name].(string); ok {
			fields[name] = letter.Guess(s)
		} else {
			fields[name] = letter.Undetected()
		}
	}
	return fields, nil
}
