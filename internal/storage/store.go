// Package storage holds uploaded letter documents on local disk. Files are
// written once under a generated token and never mutated; the token is the
// handle callers pass between detect and confirm.
package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nandapratama/arsip-surat/constants"
	"github.com/nandapratama/arsip-surat/internal/common"
	"github.com/nandapratama/arsip-surat/internal/letter"
)

// Store is a write-once local file store rooted at a base directory.
type Store struct {
	baseDir string
	logger  *slog.Logger
	now     func() time.Time
}

func NewStore(baseDir string, logger *slog.Logger) (*Store, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, common.WrapError(err, "resolve upload dir")
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, common.WrapError(err, "create upload dir")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{baseDir: abs, logger: logger, now: time.Now}, nil
}

// Save writes the upload to disk and returns its Document. The token is
// <yyyy>/<mm>/<uuid><ext>; the extension must be one of the allowed upload
// types.
func (s *Store) Save(filename string, r io.Reader) (letter.Document, error) {
	ext := constants.NormalizeExt(filepath.Ext(filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return letter.Document{}, common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("extension %q is not accepted", ext), common.ErrUnsupportedFormat)
	}

	now := s.now()
	rel := filepath.Join(now.Format("2006"), now.Format("01"), uuid.New().String()+"."+ext)
	dst := filepath.Join(s.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return letter.Document{}, common.WrapError(err, "create storage dir")
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return letter.Document{}, common.WrapError(err, "create document file")
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return letter.Document{}, common.WrapError(err, "write document file")
	}

	token := filepath.ToSlash(rel)
	s.logger.Info("storage.saved", "token", token, "size", size, "original", filename)

	return letter.Document{
		Token:            token,
		Path:             dst,
		Format:           constants.MapExtToFormat(ext),
		Size:             size,
		OriginalFilename: filename,
	}, nil
}

// Resolve turns a token back into the stored Document. Tokens that escape
// the base directory or point at nothing return ErrNotFound.
func (s *Store) Resolve(token string) (letter.Document, error) {
	if token == "" || strings.Contains(token, "..") || strings.HasPrefix(token, "/") {
		return letter.Document{}, common.NewAppError("INVALID_TOKEN", "malformed file token", common.ErrInvalidInput)
	}
	path := filepath.Join(s.baseDir, filepath.FromSlash(token))

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return letter.Document{}, common.NewAppError("NOT_FOUND", "no document for token", common.ErrNotFound)
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	return letter.Document{
		Token:  token,
		Path:   path,
		Format: constants.MapExtToFormat(ext),
		Size:   info.Size(),
	}, nil
}

// Open returns a reader over the stored bytes for a token.
func (s *Store) Open(token string) (io.ReadCloser, error) {
	doc, err := s.Resolve(token)
	if err != nil {
		return nil, err
	}
	return os.Open(doc.Path)
}
