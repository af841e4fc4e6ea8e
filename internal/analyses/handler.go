package analyses

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mietrecht-backend/internal/documents"
	"mietrecht-backend/internal/shared/server/middleware"
	"mietrecht-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analyzer.
type Handler struct {
	Svc *Analyzer
}

// NewHandler constructs a Handler.
func NewHandler(svc *Analyzer) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/analyze", h.analyze)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
}

type listItem struct {
	AnalysisID   string                 `json:"analysisId"`
	DocumentID   string                 `json:"documentId"`
	DocumentType documents.DocumentType `json:"documentType"`
	IssueCount   int                    `json:"issueCount"`
	CreatedAt    time.Time              `json:"createdAt"`
}

func (h *Handler) analyze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	c.Set(middleware.DocumentIDKey, documentID)

	analysis, err := h.Svc.Analyze(c.Request.Context(), userID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrExtraction):
			respond.Error(c, http.StatusBadGateway, "extraction_failed", "document text could not be extracted", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze document", nil)
		}
		return
	}

	c.Set(middleware.AnalysisIDKey, analysis.ID)
	respond.JSON(c, http.StatusCreated, analysis)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	analysisID := c.Param("id")
	c.Set(middleware.AnalysisIDKey, analysisID)

	analysis, err := h.Svc.Get(c.Request.Context(), userID, analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, analysis)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	if middleware.IsGuest(c) {
		respond.Error(c, http.StatusUnauthorized, "login_required", "Login required to view history", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	limit, offset := documents.Pagination(c, 20, 50)

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	resp := make([]listItem, 0, len(items))
	for _, a := range items {
		resp = append(resp, listItem{
			AnalysisID:   a.ID,
			DocumentID:   a.DocumentID,
			DocumentType: a.DocumentType,
			IssueCount:   len(a.Issues),
			CreatedAt:    a.CreatedAt,
		})
	}
	respond.JSON(c, http.StatusOK, resp)
}
