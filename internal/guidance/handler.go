package guidance

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mietrecht-backend/internal/classify"
	"mietrecht-backend/internal/legal"
	"mietrecht-backend/internal/shared/server/middleware"
	"mietrecht-backend/internal/shared/server/respond"
	"mietrecht-backend/internal/shared/telemetry"
)

const maxTextLength = 5000

// RoleLookup returns the stored role of a signed-in user.
type RoleLookup interface {
	RoleOf(ctx context.Context, userID string) (legal.UserRole, error)
}

// Handler serves POST /guidance.
type Handler struct {
	Generator  *Generator
	Classifier classify.Classifier
	Roles      RoleLookup
}

// NewHandler constructs a Handler. roles may be nil.
func NewHandler(gen *Generator, classifier classify.Classifier, roles RoleLookup) *Handler {
	return &Handler{Generator: gen, Classifier: classifier, Roles: roles}
}

// RegisterRoutes attaches guidance routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/guidance", h.generate)
}

type requestBody struct {
	Text           string                `json:"text"`
	Classification *legal.Classification `json:"classification"`
	Intent         *Intent               `json:"intent"`
	Context        *Context              `json:"context"`
}

func (h *Handler) generate(c *gin.Context) {
	var body requestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	text := strings.TrimSpace(body.Text)
	if len(text) > maxTextLength {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is too long", gin.H{"maxLength": maxTextLength})
		return
	}

	ctx := c.Request.Context()
	var classification legal.Classification
	if body.Classification != nil {
		classification = *body.Classification
		if classification.EstimatedComplexity == "" {
			classification.EstimatedComplexity = legal.ComplexityModerate
		}
		if err := classification.Validate(); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
	} else {
		if text == "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", "text or classification is required", nil)
			return
		}
		result, err := h.Classifier.Classify(ctx, text)
		if err != nil {
			telemetry.Error("guidance.classification_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"error":      err,
			})
			respond.Error(c, http.StatusBadGateway, "classification_failed", "text could not be classified", nil)
			return
		}
		classification = result
	}

	intent := DetectIntent(text)
	if body.Intent != nil && body.Intent.Type != "" {
		intent = *body.Intent
	}

	scenarioCtx := Context{}
	if body.Context != nil {
		scenarioCtx.UserRole = legal.ParseUserRole(string(body.Context.UserRole))
	}
	if scenarioCtx.UserRole == "" && h.Roles != nil && !middleware.IsGuest(c) {
		if role, err := h.Roles.RoleOf(ctx, middleware.UserIDFromContext(c)); err == nil {
			scenarioCtx.UserRole = role
		}
	}

	resp := h.Generator.GenerateResponse(Scenario{
		Classification: classification,
		Intent:         intent,
		Context:        scenarioCtx,
	}, text)
	respond.JSON(c, http.StatusOK, resp)
}
