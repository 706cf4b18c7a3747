package aiextract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nandapratama/arsip-surat/constants"
	"github.com/nandapratama/arsip-surat/internal/letter"
)

const systemPrompt = "Anda adalah asisten yang ahli membaca surat resmi berbahasa Indonesia. " +
	"Ekstrak field berikut dari dokumen surat yang diberikan dan jawab HANYA dengan satu objek JSON: " +
	"nomor_surat (nomor surat lengkap), tanggal_surat (format YYYY-MM-DD), " +
	"pengirim (instansi atau orang pengirim), penerima (nama penerima atau tujuan surat), " +
	"perihal (perihal atau hal surat), isi_singkat (ringkasan isi surat, maksimal 2 kalimat). " +
	"Gunakan null untuk field yang tidak ditemukan. Jangan menambahkan penjelasan apa pun di luar JSON."

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Plugins     []plugin      `json:"plugins,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
	File     *filePart `json:"file,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type filePart struct {
	Filename string `json:"filename"`
	FileData string `json:"file_data"`
}

type plugin struct {
	ID  string     `json:"id"`
	PDF *pdfEngine `json:"pdf,omitempty"`
}

type pdfEngine struct {
	Engine string `json:"engine"`
}

// buildRequest assembles the chat completion payload. The document is
// attached base64-encoded; recognized text rides along as extra context so
// the model can cross-check its own reading. When the file cannot be read,
// the text alone is sent; with neither, the request fails locally.
func (c *Client) buildRequest(doc letter.Document, fallbackText string) (*chatRequest, error) {
	fallbackText = strings.TrimSpace(fallbackText)
	if len(fallbackText) > maxFallbackTextChars {
		// back up so the cut never splits a multi-byte rune
		cut := maxFallbackTextChars
		for cut > 0 && !utf8.RuneStart(fallbackText[cut]) {
			cut--
		}
		fallbackText = fallbackText[:cut]
	}

	userText := "Ekstrak field surat dari dokumen terlampir."
	if fallbackText != "" {
		userText += "\n\nTeks hasil OCR sebagai referensi:\n" + fallbackText
	}
	parts := []contentPart{{Type: "text", Text: userText}}

	var plugins []plugin
	data, readErr := os.ReadFile(doc.Path)
	switch {
	case readErr == nil && doc.Format == constants.PDF:
		parts = append(parts, contentPart{
			Type: "file",
			File: &filePart{
				Filename: attachmentName(doc),
				FileData: "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(data),
			},
		})
		plugins = []plugin{{ID: "file-parser", PDF: &pdfEngine{Engine: "mistral-ocr"}}}
	case readErr == nil:
		mime := constants.MIMEForExt(constants.NormalizeExt(filepath.Ext(doc.Path)))
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)},
		})
	case fallbackText == "":
		return nil, fmt.Errorf("read document: %w", readErr)
	}

	return &chatRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Plugins:     plugins,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: parts},
		},
	}, nil
}

func attachmentName(doc letter.Document) string {
	if doc.OriginalFilename != "" {
		return doc.OriginalFilename
	}
	return filepath.Base(doc.Path)
}

// send posts the payload to the chat completions endpoint. Single attempt,
// no retries.
func (c *Client) send(ctx context.Context, body *chatRequest) ([]byte, int, error) {
	reqID := uuid.New().String()

	bs, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("encode json: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.SiteURL != "" {
		req.Header.Set("HTTP-Referer", c.cfg.SiteURL)
	}
	if c.cfg.SiteName != "" {
		req.Header.Set("X-Title", c.cfg.SiteName)
	}

	c.logger.Info("aiextract.request",
		"req_id", reqID,
		"model", body.Model,
		"content_length", len(bs),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("aiextract.response_body_close_error", "req_id", reqID, "error", cerr)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("aiextract.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
	)

	if resp.StatusCode/100 != 2 {
		return raw, resp.StatusCode, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	return raw, resp.StatusCode, nil
}
