package webhook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"webhookId": "wh_abc",
		"id": "evt_123",
		"createdAt": "2024-01-15T10:30:00Z",
		"type": "ADDRESS_ACTIVITY",
		"event": {
			"network": "ETH_MAINNET",
			"activity": [
				{
					"hash": "0x00000000000000000000000000000000000000000000000000000000000000aa",
					"fromAddress": "0xabc1230000000000000000000000000000000001",
					"toAddress": "0xdef4560000000000000000000000000000000002",
					"value": 1.5,
					"asset": "ETH",
					"category": "external"
				}
			]
		}
	}`)

	payload, err := ParsePayload(body)
	require.NoError(t, err)
	require.Equal(t, "wh_abc", payload.WebhookID)
	require.Equal(t, "ADDRESS_ACTIVITY", payload.Type)
	require.Equal(t, "ETH_MAINNET", payload.Event.Network)
	require.Len(t, payload.Event.Activity, 1)

	act := payload.Event.Activity[0]
	require.Equal(t, "0xabc1230000000000000000000000000000000001", act.FromAddress)
	require.Equal(t, "1.5", act.Value.String())
	require.Equal(t, "external", act.Category)
}

func TestParsePayload_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParsePayload([]byte(`{not json`))
	require.Error(t, err)
}

func TestActivity_AssetOrDefault(t *testing.T) {
	t.Parallel()

	require.Equal(t, "USDC", (&Activity{Asset: "USDC"}).AssetOrDefault())
	require.Equal(t, "ETH", (&Activity{}).AssetOrDefault())
}

func TestActivity_FormatValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"already in asset units", "1.5", "1.5"},
		{"small fraction", "0.00021", "0.00021"},
		{"raw wei one ether", "1000000000000000000", "1.000000"},
		{"raw wei fractional", "2500000000000000000", "2.500000"},
		{"raw wei threshold", "1000000000000000", "0.001000"},
		{"just below wei threshold", "999999999999999", "999999999999999"},
		{"zero", "0", "0"},
		{"empty", "", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			act := &Activity{Value: json.Number(tt.value)}
			require.Equal(t, tt.want, act.FormatValue())
		})
	}
}
