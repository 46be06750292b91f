package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"lexdesk/internal/access"
	apimiddleware "lexdesk/internal/api/middleware"
	"lexdesk/internal/api/validator"
	"lexdesk/internal/config"
	"lexdesk/internal/events"
	"lexdesk/internal/models"
	"lexdesk/internal/services"
	"lexdesk/internal/utils/crypto"
	"lexdesk/internal/utils/logger"

	"github.com/labstack/echo/v4"
)

// PaymentHandler owns the billing surface: the plan catalog, checkout,
// subscription state and the gateway webhook. Everything except the webhook
// is owner-only, enforced by the routes.
type PaymentHandler struct {
	subscriptions *services.SubscriptionService
	guard         *access.Guard
	cfg           *config.Config
	log           *logger.Logger
}

func NewPaymentHandler(subscriptions *services.SubscriptionService, guard *access.Guard, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		subscriptions: subscriptions,
		guard:         guard,
		cfg:           cfg,
		log:           logger.New("PaymentHandler"),
	}
}

// webhookPayload is the gateway's callback body. Only the fields we consume.
type webhookPayload struct {
	OrderRef   string `json:"order_ref"`
	GatewayRef string `json:"gateway_ref"`
	Status     string `json:"status"`
}

// ListPlans returns the plan catalog.
// @Summary List plans
// @Description List the available subscription plans
// @Tags billing
// @Produce json
// @Success 200 {array} models.Plan
// @Router /api/v1/billing/plans [get]
func (h *PaymentHandler) ListPlans(c echo.Context) error {
	return c.JSON(http.StatusOK, models.AllPlans())
}

// GetSubscription returns the firm's subscription with its limits and usage.
// @Summary Get subscription
// @Description Get the current firm's subscription, limits and usage
// @Tags billing
// @Produce json
// @Success 200 {object} models.Subscription
// @Failure 404 {object} map[string]string "No subscription"
// @Router /api/v1/billing/subscription [get]
func (h *PaymentHandler) GetSubscription(c echo.Context) error {
	tenantID, r := h.guard.Tenant(c.Request().Context(), apimiddleware.GetActor(c))
	if r != nil {
		return apimiddleware.Deny(c, r)
	}

	sub, err := h.subscriptions.CurrentSubscription(c.Request().Context(), tenantID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No subscription found"})
	}
	return c.JSON(http.StatusOK, sub)
}

// RefreshUsage recounts the firm's usage from the entity tables and returns
// the corrected counters.
// @Summary Refresh usage counters
// @Description Recount usage from entity tables and heal any drift
// @Tags billing
// @Produce json
// @Success 200 {object} models.UsageCounters
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/billing/usage/refresh [post]
func (h *PaymentHandler) RefreshUsage(c echo.Context) error {
	tenantID, r := h.guard.Tenant(c.Request().Context(), apimiddleware.GetActor(c))
	if r != nil {
		return apimiddleware.Deny(c, r)
	}

	usage, err := h.guard.Quota().RefreshUsageStats(c.Request().Context(), tenantID)
	if err != nil {
		_ = h.log.Error("usage refresh failed", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to refresh usage"})
	}
	return c.JSON(http.StatusOK, usage)
}

// Checkout opens a payment order for a paid plan.
// @Summary Checkout a plan
// @Description Open a payment order for a plan upgrade
// @Tags billing
// @Accept json
// @Produce json
// @Param request body validator.CheckoutRequest true "Plan to purchase"
// @Success 201 {object} models.Payment
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/billing/checkout [post]
func (h *PaymentHandler) Checkout(c echo.Context) error {
	var req validator.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	tenantID, r := h.guard.Tenant(c.Request().Context(), apimiddleware.GetActor(c))
	if r != nil {
		return apimiddleware.Deny(c, r)
	}

	payment, err := h.subscriptions.Checkout(c.Request().Context(), tenantID, models.PlanKey(req.Plan), h.cfg.Payments.Currency)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, payment)
}

// CancelSubscription deactivates the firm's subscription.
// @Summary Cancel subscription
// @Description Deactivate the firm's subscription
// @Tags billing
// @Produce json
// @Success 200 {object} map[string]string "Cancelled"
// @Failure 404 {object} map[string]string "No active subscription"
// @Router /api/v1/billing/subscription [delete]
func (h *PaymentHandler) CancelSubscription(c echo.Context) error {
	tenantID, r := h.guard.Tenant(c.Request().Context(), apimiddleware.GetActor(c))
	if r != nil {
		return apimiddleware.Deny(c, r)
	}

	if err := h.subscriptions.Cancel(c.Request().Context(), tenantID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No active subscription"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Subscription cancelled"})
}

// Webhook consumes gateway callbacks. The body is authenticated with an
// HMAC signature header before anything is parsed out of it; an invalid
// signature is rejected without detail.
// @Summary Payment gateway webhook
// @Description Consume a signed payment gateway callback
// @Tags billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Accepted"
// @Failure 400 {object} map[string]string "Malformed payload"
// @Failure 401 {object} map[string]string "Bad signature"
// @Router /api/v1/payments/webhook [post]
func (h *PaymentHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read body"})
	}

	signature := c.Request().Header.Get("X-Webhook-Signature")
	if !crypto.VerifyWebhookSignature(body, signature, h.cfg.Payments.WebhookSecret) {
		h.log.Warn("webhook rejected: bad signature from %s", c.RealIP())
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid signature"})
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Malformed payload"})
	}
	if payload.OrderRef == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing order reference"})
	}

	ev := services.PaymentEvent{
		OrderRef:   payload.OrderRef,
		GatewayRef: payload.GatewayRef,
		Succeeded:  payload.Status == "succeeded",
	}
	if ev.Succeeded {
		events.Emit("payment.succeeded", ev)
	} else {
		events.Emit("payment.failed", ev)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Accepted"})
}
