package account

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mietrecht-backend/internal/shared/server/middleware"
	"mietrecht-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/account/claim-guest", h.claimGuest)
}

type fieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// claimGuest moves the caller's former guest data, named by the guest
// header, onto their signed-in account.
func (h *Handler) claimGuest(c *gin.Context) {
	userID := strings.TrimSpace(middleware.UserIDFromContext(c))
	if middleware.IsGuest(c) || userID == "" {
		respond.Error(c, http.StatusUnauthorized, "login_required", "sign in to claim guest data", nil)
		return
	}

	guestID, issue := guestIDFromHeader(c)
	if issue != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "guest id "+issue.Issue, []fieldIssue{*issue})
		return
	}

	result, err := h.Svc.ClaimGuest(c.Request.Context(), middleware.GuestUserID(guestID), userID)
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case err != nil:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to claim guest data", nil)
	default:
		respond.JSON(c, http.StatusOK, result)
	}
}

func guestIDFromHeader(c *gin.Context) (string, *fieldIssue) {
	raw := strings.TrimSpace(c.GetHeader(middleware.GuestIDHeader))
	if raw == "" {
		return "", &fieldIssue{Field: middleware.GuestIDHeader, Issue: "required"}
	}
	// Rows were stored under the raw header value, so keep its casing.
	if _, err := uuid.Parse(raw); err != nil {
		return "", &fieldIssue{Field: middleware.GuestIDHeader, Issue: "invalid"}
	}
	return raw, nil
}
