package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nandapratama/arsip-surat/constants"
	"github.com/nandapratama/arsip-surat/internal/common"
	"github.com/nandapratama/arsip-surat/internal/detect"
	"github.com/nandapratama/arsip-surat/internal/observability/metrics"
	"github.com/nandapratama/arsip-surat/internal/storage"
)

type api struct {
	store        *storage.Store
	orchestrator *detect.Orchestrator
	adapter      detect.Adapter
	records      RecordCreator
	threshold    float64
}

func newAPI(deps Deps) *api {
	return &api{
		store:        deps.Store,
		orchestrator: deps.Orchestrator,
		adapter:      deps.Adapter,
		records:      deps.Records,
		threshold:    deps.ConfidenceThreshold,
	}
}

func registerRoutes(r *gin.Engine, a *api, m *metrics.DetectionMetrics) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", a.handleHealth)
		apiGroup.GET("/detect/availability", a.handleAvailability)
		apiGroup.POST("/detect", a.handleDetect)
		apiGroup.POST("/confirm", a.handleConfirm)
	}

	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
}

func (a *api) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleAvailability tells the UI which detection strategies it can offer.
func (a *api) handleAvailability(c *gin.Context) {
	aiAvailable := a.adapter != nil && a.adapter.Available()
	c.JSON(http.StatusOK, gin.H{
		"ai_available":         aiAvailable,
		"confidence_threshold": a.threshold,
	})
}

// handleDetect accepts a multipart upload plus strategy and direction,
// stores the file and runs the pipeline. The stored token comes back in the
// result so a later confirm can reference the same bytes.
func (a *api) handleDetect(c *gin.Context) {
	strategy, err := constants.ParseStrategy(c.PostForm("strategy"))
	if err != nil {
		respondError(c, common.NewAppError("INVALID_STRATEGY", err.Error(), common.ErrInvalidInput))
		return
	}
	direction, err := constants.ParseDirection(c.PostForm("direction"))
	if err != nil {
		respondError(c, common.NewAppError("INVALID_DIRECTION", err.Error(), common.ErrInvalidInput))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, common.NewAppError("MISSING_FILE", "multipart field \"file\" is required", common.ErrInvalidInput))
		return
	}
	src, err := fh.Open()
	if err != nil {
		respondError(c, common.WrapError(err, "open upload"))
		return
	}
	defer src.Close()

	doc, err := a.store.Save(fh.Filename, src)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := a.orchestrator.Detect(c.Request.Context(), doc, strategy, direction)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type confirmRequest struct {
	FileToken string            `json:"file_token" binding:"required"`
	Direction string            `json:"direction" binding:"required"`
	Fields    map[string]string `json:"fields" binding:"required"`
}

// handleConfirm takes the user-reviewed fields and hands them to the record
// sink. Field names outside the direction's declared set are rejected.
func (a *api) handleConfirm(c *gin.Context) {
	var payload confirmRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, common.NewAppError("INVALID_BODY", err.Error(), common.ErrInvalidInput))
		return
	}

	direction, err := constants.ParseDirection(payload.Direction)
	if err != nil {
		respondError(c, common.NewAppError("INVALID_DIRECTION", err.Error(), common.ErrInvalidInput))
		return
	}

	allowed := make(map[string]struct{})
	for _, name := range constants.FieldsFor(direction) {
		allowed[name] = struct{}{}
	}
	for name := range payload.Fields {
		if _, ok := allowed[name]; !ok {
			respondError(c, common.NewAppError("INVALID_FIELD",
				"field "+name+" is not part of the "+string(direction)+" field set", common.ErrInvalidInput))
			return
		}
	}

	doc, err := a.store.Resolve(strings.TrimSpace(payload.FileToken))
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := a.records.CreateRecord(c.Request.Context(), Record{
		Document:  doc,
		Direction: direction,
		Fields:    payload.Fields,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"record_id": id, "file_token": doc.Token})
}
