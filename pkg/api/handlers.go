package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cryptohub-labs/walletalert/internal/common"
	"github.com/cryptohub-labs/walletalert/internal/logger"
	"github.com/cryptohub-labs/walletalert/internal/metrics"
	"github.com/cryptohub-labs/walletalert/internal/notifier"
	"github.com/cryptohub-labs/walletalert/internal/portfolio"
	"github.com/cryptohub-labs/walletalert/internal/store"
	"github.com/cryptohub-labs/walletalert/internal/webhook"
)

// maxWebhookBody caps the raw body read for signature verification.
const maxWebhookBody = 1 << 20

// AlertStore defines the subscription operations the handlers need.
type AlertStore interface {
	Upsert(ctx context.Context, wallet, email string) (*store.Subscription, bool, error)
	Lookup(ctx context.Context, wallet string) (*store.Subscription, error)
	Disable(ctx context.Context, wallet string) (*store.Subscription, error)
	Delete(ctx context.Context, wallet string) error
	Ping(ctx context.Context) error
}

// PortfolioReader aggregates on-chain holdings for one wallet.
type PortfolioReader interface {
	Aggregate(ctx context.Context, wallet string) (*portfolio.Portfolio, error)
}

// Handler handles HTTP requests for the API.
type Handler struct {
	store      AlertStore
	processor  *webhook.Processor
	notifier   notifier.Notifier
	portfolio  PortfolioReader
	signingKey string
	sigHeader  string
	emailFrom  string
	welcome    bool
	log        *logger.Logger
}

// HandlerOptions carries the collaborators and settings for NewHandler.
type HandlerOptions struct {
	Store           AlertStore
	Processor       *webhook.Processor
	Notifier        notifier.Notifier
	Portfolio       PortfolioReader
	SigningKey      string
	SignatureHeader string
	EmailFrom       string
	SendWelcome     bool
}

// NewHandler creates a new API handler.
func NewHandler(opts HandlerOptions, log *logger.Logger) *Handler {
	return &Handler{
		store:      opts.Store,
		processor:  opts.Processor,
		notifier:   opts.Notifier,
		portfolio:  opts.Portfolio,
		signingKey: opts.SigningKey,
		sigHeader:  opts.SignatureHeader,
		emailFrom:  opts.EmailFrom,
		welcome:    opts.SendWelcome,
		log:        log.WithComponent(common.ComponentAPI),
	}
}

// Subscribe registers or updates an email subscription for a wallet.
// @Summary Subscribe a wallet to transaction alerts
// @Description Register an email address for a wallet. Re-subscribing an existing wallet updates the email and re-enables alerts.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body SubscribeRequest true "Wallet address and email"
// @Success 200 {object} SubscribeResponse "Existing subscription updated"
// @Success 201 {object} SubscribeResponse "Subscription created"
// @Failure 400 {object} ErrorResponse "Invalid wallet address or email"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /subscribe [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.WalletAddress == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: walletAddress and email")
		return
	}
	if !common.IsValidWalletAddress(req.WalletAddress) {
		respondError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}
	if !common.IsValidEmail(req.Email) {
		respondError(w, http.StatusBadRequest, "Invalid email")
		return
	}

	sub, created, err := h.store.Upsert(r.Context(), req.WalletAddress, req.Email)
	if err != nil {
		h.log.Errorf("failed to save subscription: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to save subscription")
		return
	}

	if created && h.welcome && h.notifier != nil {
		h.sendWelcome(r.Context(), sub)
	}

	status, message, verb := http.StatusCreated, "Subscription created", "created"
	if !created {
		status, message, verb = http.StatusOK, "Subscription updated", "updated"
	}

	respondJSON(w, status, SubscribeResponse{
		Success: true,
		Message: message,
		Data: SubscriptionData{
			WalletAddress: sub.WalletHex(),
			Email:         sub.Email,
			Status:        verb,
		},
	})
}

func (h *Handler) sendWelcome(ctx context.Context, sub *store.Subscription) {
	html, err := notifier.RenderWelcome(sub.WalletHex())
	if err != nil {
		h.log.Errorf("failed to render welcome email: %v", err)
		return
	}
	if err := h.notifier.Send(ctx, sub.Email, notifier.SubjectWelcome, html); err != nil {
		// The subscription is already stored. A lost welcome email is
		// not worth failing the request over.
		h.log.Warnf("failed to send welcome email to %s: %v", sub.Email, err)
	}
}

// Unsubscribe disables alerts for a wallet, keeping the row for later
// re-subscription.
// @Summary Unsubscribe a wallet from transaction alerts
// @Description Disable alert delivery for a wallet. The subscription record is kept so a later subscribe re-enables it.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body UnsubscribeRequest true "Wallet address"
// @Success 200 {object} SubscribeResponse "Subscription disabled"
// @Failure 400 {object} ErrorResponse "Invalid wallet address"
// @Failure 404 {object} ErrorResponse "Wallet has no subscription"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /unsubscribe [post]
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req UnsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !common.IsValidWalletAddress(req.WalletAddress) {
		respondError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	sub, err := h.store.Disable(r.Context(), req.WalletAddress)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "No subscription found for this wallet")
		return
	}
	if err != nil {
		h.log.Errorf("failed to disable subscription: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to unsubscribe")
		return
	}

	respondJSON(w, http.StatusOK, SubscribeResponse{
		Success: true,
		Message: "Unsubscribed successfully",
		Data: SubscriptionData{
			WalletAddress: sub.WalletHex(),
			Email:         sub.Email,
			Status:        "unsubscribed",
		},
	})
}

// SaveAlert enables alerts for a wallet from the dashboard.
// @Summary Enable alerts for a wallet
// @Description Store or update the alert email for a wallet. Used by the dashboard alert toggle.
// @Tags Alerts
// @Accept json
// @Produce json
// @Param request body AlertRequest true "Wallet and email"
// @Success 200 {object} SuccessResponse "Alerts enabled"
// @Failure 400 {object} ErrorResponse "Invalid wallet address or email"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /alerts [post]
func (h *Handler) SaveAlert(w http.ResponseWriter, r *http.Request) {
	var req AlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Wallet == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Missing wallet or email")
		return
	}
	if !common.IsValidWalletAddress(req.Wallet) {
		respondError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}
	if !common.IsValidEmail(req.Email) {
		respondError(w, http.StatusBadRequest, "Invalid email")
		return
	}

	if _, _, err := h.store.Upsert(r.Context(), req.Wallet, req.Email); err != nil {
		h.log.Errorf("failed to save alert: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to save alert")
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "Alerts enabled"})
}

// RemoveAlert deletes a wallet's alert configuration entirely.
// @Summary Disable alerts for a wallet
// @Description Delete the alert record for a wallet. Removing an unknown wallet succeeds.
// @Tags Alerts
// @Accept json
// @Produce json
// @Param request body AlertRequest true "Wallet"
// @Success 200 {object} SuccessResponse "Alerts disabled"
// @Failure 400 {object} ErrorResponse "Invalid wallet address"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /alerts/remove [post]
func (h *Handler) RemoveAlert(w http.ResponseWriter, r *http.Request) {
	var req AlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !common.IsValidWalletAddress(req.Wallet) {
		respondError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	if err := h.store.Delete(r.Context(), req.Wallet); err != nil {
		h.log.Errorf("failed to remove alert: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to remove alert")
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "Alerts disabled"})
}

// AlertStatus reports whether alerts are enabled for a wallet.
// @Summary Check alert status for a wallet
// @Description Report whether alerts are enabled for a wallet and which email they go to. Unknown wallets report enabled=false, never an error.
// @Tags Alerts
// @Produce json
// @Param wallet query string true "Wallet address"
// @Success 200 {object} AlertStatusResponse "Alert status"
// @Failure 400 {object} ErrorResponse "Invalid wallet address"
// @Router /alerts/status [get]
func (h *Handler) AlertStatus(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")
	if !common.IsValidWalletAddress(wallet) {
		respondError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	sub, err := h.store.Lookup(r.Context(), wallet)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			// A wallet with no subscription and a wallet we could not
			// check look the same to the dashboard.
			h.log.Errorf("failed to check alert status: %v", err)
		}
		respondJSON(w, http.StatusOK, AlertStatusResponse{Enabled: false, Email: nil})
		return
	}

	email := sub.Email
	respondJSON(w, http.StatusOK, AlertStatusResponse{Enabled: sub.Enabled, Email: &email})
}

// Webhook ingests one activity notification from the webhook provider.
// @Summary Ingest a transaction activity webhook
// @Description Verify the HMAC signature, then send alert emails for every subscribed wallet involved in the delivered activities. Always returns 200 after a valid signature so the provider does not redeliver.
// @Tags Webhook
// @Accept json
// @Produce json
// @Success 200 {object} WebhookResponse "Processing summary"
// @Failure 401 {object} ErrorResponse "Signature verification failed"
// @Router /webhook [post]
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.log.Errorf("failed to read webhook body: %v", err)
		respondJSON(w, http.StatusOK, WebhookResponse{Success: true, Message: "ignored"})
		return
	}

	if !webhook.VerifySignature(body, r.Header.Get(h.sigHeader), h.signingKey) {
		metrics.WebhookSignatureFailuresInc()
		h.log.Warnw("webhook signature verification failed", "remote", r.RemoteAddr)
		respondError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	payload, err := webhook.ParsePayload(body)
	if err != nil {
		// Malformed payloads are acknowledged so the provider does not
		// retry a delivery that can never succeed.
		h.log.Warnf("ignoring malformed webhook payload: %v", err)
		respondJSON(w, http.StatusOK, WebhookResponse{Success: true, Message: "ignored"})
		return
	}

	summary := h.processor.Process(r.Context(), payload)

	respondJSON(w, http.StatusOK, WebhookResponse{
		Success:       true,
		Message:       "Alerts sent successfully",
		UsersNotified: summary.UsersNotified,
	})
}

// TestEmail sends a test email to verify delivery configuration.
// @Summary Send a test email
// @Description Send a short test email to the given address through the configured email provider.
// @Tags Email
// @Produce json
// @Param to query string true "Recipient email address"
// @Success 200 {object} SuccessResponse "Email sent"
// @Failure 400 {object} ErrorResponse "Invalid email"
// @Failure 500 {object} ErrorResponse "Email delivery failed"
// @Router /test-email [get]
func (h *Handler) TestEmail(w http.ResponseWriter, r *http.Request) {
	to := r.URL.Query().Get("to")
	if !common.IsValidEmail(to) {
		respondError(w, http.StatusBadRequest, "Invalid email")
		return
	}

	if err := h.notifier.Send(r.Context(), to, notifier.SubjectTest, notifier.TestEmailHTML); err != nil {
		h.log.Errorf("failed to send test email: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to send test email")
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "Test email sent"})
}

// Portfolio returns aggregated on-chain holdings for a wallet.
// @Summary Get the portfolio of a wallet
// @Description Read native and token balances across the configured chains, price them, and return holdings sorted by USD value.
// @Tags Portfolio
// @Produce json
// @Param wallet query string true "Wallet address"
// @Success 200 {object} portfolio.Portfolio "Aggregated holdings"
// @Failure 400 {object} ErrorResponse "Invalid wallet address"
// @Failure 500 {object} ErrorResponse "Aggregation failed"
// @Router /portfolio [get]
func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")
	if !common.IsValidWalletAddress(wallet) {
		respondError(w, http.StatusBadRequest, "Invalid wallet address")
		return
	}

	if h.portfolio == nil {
		respondError(w, http.StatusServiceUnavailable, "portfolio aggregation is not configured")
		return
	}

	pf, err := h.portfolio.Aggregate(r.Context(), wallet)
	if err != nil {
		h.log.Errorf("failed to aggregate portfolio for %s: %v", wallet, err)
		respondError(w, http.StatusInternalServerError, "failed to aggregate portfolio")
		return
	}

	respondJSON(w, http.StatusOK, pf)
}

// Health reports service and database health.
// @Summary Health check
// @Description Report service status and database reachability
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Service is healthy"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if err := h.store.Ping(r.Context()); err != nil {
		dbStatus = "unreachable"
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  dbStatus,
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// Encode first so an encoding failure can still change the status
	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(encoded)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
