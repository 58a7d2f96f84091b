package notifier

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Alert email subjects by direction.
const (
	SubjectIncoming = "Incoming Transaction Alert"
	SubjectOutgoing = "Outgoing Transaction Alert"
	SubjectWelcome  = "Welcome to CryptoHub Transaction Alerts!"
	SubjectTest     = "Test Email"
)

// AlertData is the input to the transaction alert template.
type AlertData struct {
	// Direction is "Received" for incoming and "Sent" for outgoing.
	Direction   string
	Wallet      string
	From        string
	To          string
	Hash        string
	Value       string
	Asset       string
	Timestamp   string
	ExplorerURL string
}

// Color returns the accent color for the direction.
func (d AlertData) Color() template.CSS {
	if d.Incoming() {
		return "#4dd2ff"
	}
	return "#ff4d6d"
}

// Incoming reports whether the watched wallet is on the receiving side.
func (d AlertData) Incoming() bool {
	return d.Direction == "Received"
}

// Subject returns the direction-aware email subject.
func (d AlertData) Subject() string {
	if d.Incoming() {
		return SubjectIncoming
	}
	return SubjectOutgoing
}

// RenderAlert renders the transaction alert email body.
func RenderAlert(data AlertData) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, "alert.html", data); err != nil {
		return "", fmt.Errorf("failed to render alert template: %w", err)
	}
	return sb.String(), nil
}

// RenderWelcome renders the welcome email body for a new subscription.
func RenderWelcome(walletAddress string) (string, error) {
	var sb strings.Builder
	data := struct{ WalletAddress string }{WalletAddress: walletAddress}
	if err := templates.ExecuteTemplate(&sb, "welcome.html", data); err != nil {
		return "", fmt.Errorf("failed to render welcome template: %w", err)
	}
	return sb.String(), nil
}

// TestEmailHTML is the body of the test email endpoint.
const TestEmailHTML = "<p>Email system works.</p>"
