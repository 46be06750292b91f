package handlers

import (
	"net/http"

	"lexdesk/internal/access"
	apimiddleware "lexdesk/internal/api/middleware"
	"lexdesk/internal/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ReportHandler serves firm-level summaries, gated by the reports category.
type ReportHandler struct {
	db    *gorm.DB
	guard *access.Guard
}

func NewReportHandler(db *gorm.DB, guard *access.Guard) *ReportHandler {
	return &ReportHandler{db: db, guard: guard}
}

type kindUsage struct {
	Limit     int64 `json:"limit"`
	Usage     int64 `json:"usage"`
	Remaining int64 `json:"remaining"`
}

// Overview returns the firm's plan consumption and case-load breakdown.
// @Summary Firm overview report
// @Description Plan consumption per resource kind and open/closed case counts
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} access.Refusal "Insufficient permission"
// @Failure 404 {object} map[string]string "No subscription"
// @Router /api/v1/reports/overview [get]
func (h *ReportHandler) Overview(c echo.Context) error {
	actor := apimiddleware.GetActor(c)
	tenantID, r := h.guard.Tenant(c.Request().Context(), actor)
	if r != nil {
		return apimiddleware.Deny(c, r)
	}

	var sub models.Subscription
	if err := h.db.Where("tenant_id = ? AND is_deleted = false", tenantID).First(&sub).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No subscription found"})
	}

	limits := sub.Limits()
	usage := sub.Usage()
	consumption := make(map[models.ResourceKind]kindUsage, len(models.ResourceKinds))
	for _, kind := range models.ResourceKinds {
		limit := limits.Kind(kind)
		used := usage.Kind(kind)
		remaining := int64(models.Unlimited)
		if limit != models.Unlimited {
			remaining = limit - used
			if remaining < 0 {
				remaining = 0
			}
		}
		consumption[kind] = kindUsage{Limit: limit, Usage: used, Remaining: remaining}
	}

	var caseCounts []struct {
		Status models.CaseStatus `json:"status"`
		Count  int64             `json:"count"`
	}
	if err := h.db.Model(&models.Case{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ? AND is_deleted = false", tenantID).
		Group("status").
		Scan(&caseCounts).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to build report"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"plan":        sub.PlanKey,
		"active":      sub.IsActive,
		"consumption": consumption,
		"cases":       caseCounts,
	})
}
