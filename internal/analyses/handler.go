package analyses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"transcript-backend/internal/llm"
	"transcript-backend/internal/shared/server/respond"
)

// Handler exposes the analysis endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.GET("/result/:runId", h.result)
	rg.GET("/result/:runId/csv", h.exportCSV)
}

type analyzeRequest struct {
	DocumentIDs []string `json:"documentIds"`
}

type analyzeResponse struct {
	RunID     string        `json:"runId"`
	Result    Result        `json:"result"`
	Documents []RunDocument `json:"documents"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "request body must be JSON with a documentIds array", nil)
		return
	}
	if len(req.DocumentIDs) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "documentIds must not be empty", nil)
		return
	}

	run, err := h.Svc.Analyze(c.Request.Context(), req.DocumentIDs)
	if err != nil {
		h.analyzeError(c, err)
		return
	}

	c.Set("runId", run.ID)
	c.Set("documentCount", len(run.Documents))
	respond.OK(c, analyzeResponse{
		RunID:     run.ID,
		Result:    run.Result,
		Documents: run.Documents,
	})
}

func (h *Handler) analyzeError(c *gin.Context, err error) {
	var insufficient *InsufficientContentError
	var rateLimited *llm.RateLimitError
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "documents_not_found", "none of the referenced documents exist", nil)
	case errors.As(err, &insufficient):
		respond.Error(c, http.StatusBadRequest, "insufficient_content",
			"the selected documents contain too little readable text to analyze",
			gin.H{"documents": insufficient.Details})
	case errors.As(err, &rateLimited):
		details := gin.H{}
		if rateLimited.RetryAfterSeconds != nil {
			details["retryAfterSeconds"] = *rateLimited.RetryAfterSeconds
		}
		respond.Error(c, http.StatusTooManyRequests, "rate_limited",
			"the analysis model is rate limited, try again shortly", details)
	case errors.Is(err, ErrEmptyOutput) || errors.Is(err, ErrInvalidModelOutput):
		respond.Error(c, http.StatusInternalServerError, "model_output_invalid",
			"the analysis model returned unusable output", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "analysis_failed", "analysis failed", nil)
	}
}

func (h *Handler) result(c *gin.Context) {
	run, err := h.Svc.Get(c.Request.Context(), c.Param("runId"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "run_not_found", "no analysis run with that id", nil)
		return
	}
	respond.OK(c, run)
}

func (h *Handler) exportCSV(c *gin.Context) {
	run, err := h.Svc.Get(c.Request.Context(), c.Param("runId"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "run_not_found", "no analysis run with that id", nil)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+CSVFileName(run.ID)+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(RenderCSV(run)))
}
