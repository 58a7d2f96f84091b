package api

import "time"

// SubscribeRequest is the body of POST /subscribe.
type SubscribeRequest struct {
	WalletAddress string `json:"walletAddress"`
	Email         string `json:"email"`
}

// UnsubscribeRequest is the body of POST /unsubscribe.
type UnsubscribeRequest struct {
	WalletAddress string `json:"walletAddress"`
}

// AlertRequest is the body of the alert management endpoints, which use
// the short field names of the original dashboard client.
type AlertRequest struct {
	Wallet string `json:"wallet"`
	Email  string `json:"email,omitempty"`
}

// SubscriptionData echoes the stored subscription back to the caller.
type SubscriptionData struct {
	WalletAddress string `json:"walletAddress"`
	Email         string `json:"email"`
	Status        string `json:"status"`
}

// SubscribeResponse is the success envelope for subscription mutations.
type SubscribeResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    SubscriptionData `json:"data"`
}

// SuccessResponse is the minimal success envelope.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// AlertStatusResponse is the body of GET /alerts/status. Absence of a
// subscription is reported as enabled=false, never as an error.
type AlertStatusResponse struct {
	Enabled bool    `json:"enabled"`
	Email   *string `json:"email"`
}

// WebhookResponse summarizes one processed webhook delivery.
type WebhookResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	UsersNotified int    `json:"usersNotified"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
}
