package server

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nandapratama/arsip-surat/constants"
	"github.com/nandapratama/arsip-surat/internal/letter"
)

// Record is a confirmed letter: the stored document plus the fields the
// user accepted.
type Record struct {
	Document  letter.Document
	Direction constants.Direction
	Fields    map[string]string
}

// RecordCreator persists confirmed letters. The archive backend is owned by
// a separate system; this process only hands records over.
type RecordCreator interface {
	CreateRecord(ctx context.Context, rec Record) (string, error)
}

// logRecordCreator is the default sink: it assigns an id and logs the
// record. Deployments with a real archive inject their own RecordCreator.
type logRecordCreator struct {
	logger *slog.Logger
}

func NewLogRecordCreator(logger *slog.Logger) RecordCreator {
	if logger == nil {
		logger = slog.Default()
	}
	return &logRecordCreator{logger: logger}
}

func (l *logRecordCreator) CreateRecord(_ context.Context, rec Record) (string, error) {
	id := uuid.New().String()
	l.logger.Info("records.created",
		"record_id", id,
		"token", rec.Document.Token,
		"direction", string(rec.Direction),
		"fields", len(rec.Fields),
	)
	return id, nil
}
