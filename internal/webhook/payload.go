package webhook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Payload is the provider-pushed webhook envelope (Alchemy address
// activity shape). Activities are consumed transiently, never stored
// verbatim.
type Payload struct {
	WebhookID string    `json:"webhookId"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Type      string    `json:"type"`
	Event     Event     `json:"event"`
}

// Event carries the activity batch for one network.
type Event struct {
	Network  string     `json:"network"`
	Activity []Activity `json:"activity"`
}

// Activity is one transfer event reported by the provider.
type Activity struct {
	Hash        string      `json:"hash"`
	FromAddress string      `json:"fromAddress"`
	ToAddress   string      `json:"toAddress"`
	Value       json.Number `json:"value"`
	Asset       string      `json:"asset"`
	Category    string      `json:"category"`
}

// ParsePayload decodes a webhook envelope from a raw request body.
func ParsePayload(body []byte) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	return &payload, nil
}

// AssetOrDefault returns the activity's asset ticker, defaulting to ETH.
func (a *Activity) AssetOrDefault() string {
	if a.Asset == "" {
		return "ETH"
	}
	return a.Asset
}

var weiPerEth = decimal.New(1, 18)

// FormatValue renders the activity value for display. Values at or above
// 1e15 are treated as raw wei and converted to whole units with six
// decimals; smaller values are assumed to already be in asset units.
func (a *Activity) FormatValue() string {
	if a.Value == "" {
		return "0"
	}

	d, err := decimal.NewFromString(a.Value.String())
	if err != nil {
		return "0"
	}

	if d.GreaterThanOrEqual(decimal.New(1, 15)) {
		return d.Div(weiPerEth).StringFixed(6)
	}
	return d.String()
}
