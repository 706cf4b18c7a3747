// Package server exposes the detection pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandapratama/arsip-surat/internal/common"
	"github.com/nandapratama/arsip-surat/internal/detect"
	"github.com/nandapratama/arsip-surat/internal/observability/metrics"
	"github.com/nandapratama/arsip-surat/internal/storage"
)

// Server wraps the gin engine with its wiring.
type Server struct {
	engine *gin.Engine
	addr   string
	logger *slog.Logger
}

// Deps carries everything the HTTP layer is built from.
type Deps struct {
	Store               *storage.Store
	Orchestrator        *detect.Orchestrator
	Adapter             detect.Adapter
	Records             RecordCreator
	Metrics             *metrics.DetectionMetrics
	ConfidenceThreshold float64
	MaxUploadBytes      int64
	Logger              *slog.Logger
}

func New(addr string, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Records == nil {
		deps.Records = NewLogRecordCreator(logger)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(logger))
	engine.Use(MaxBodySize(deps.MaxUploadBytes))
	engine.Use(CORS())

	api := newAPI(deps)
	registerRoutes(engine, api, deps.Metrics)

	return &Server{engine: engine, addr: addr, logger: logger}
}

// Run serves until the context is canceled, then drains with a short grace
// period.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server.listen", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	}

	msg := err.Error()
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	c.JSON(status, gin.H{"error": msg})
}
