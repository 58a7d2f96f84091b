package notifier

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleAlertData(direction string) AlertData {
	return AlertData{
		Direction:   direction,
		Wallet:      "0xabc1230000000000000000000000000000000001",
		From:        "0xabc1230000000000000000000000000000000001",
		To:          "0xdef4560000000000000000000000000000000002",
		Hash:        "0x00000000000000000000000000000000000000000000000000000000000000aa",
		Value:       "1.500000",
		Asset:       "ETH",
		Timestamp:   "Mon, 15 Jan 2024 10:30:00 UTC",
		ExplorerURL: "https://etherscan.io/tx/0x00000000000000000000000000000000000000000000000000000000000000aa",
	}
}

func TestRenderAlert(t *testing.T) {
	t.Parallel()

	data := sampleAlertData("Received")

	html, err := RenderAlert(data)
	require.NoError(t, err)
	require.Contains(t, html, "Received Transaction")
	require.Contains(t, html, data.Wallet)
	require.Contains(t, html, data.From)
	require.Contains(t, html, data.To)
	require.Contains(t, html, data.Hash)
	require.Contains(t, html, "1.500000 ETH")
	require.Contains(t, html, data.ExplorerURL)
}

func TestAlertData_DirectionStyling(t *testing.T) {
	t.Parallel()

	incoming := sampleAlertData("Received")
	require.True(t, incoming.Incoming())
	require.Equal(t, SubjectIncoming, incoming.Subject())

	outgoing := sampleAlertData("Sent")
	require.False(t, outgoing.Incoming())
	require.Equal(t, SubjectOutgoing, outgoing.Subject())
	require.NotEqual(t, incoming.Color(), outgoing.Color())
}

func TestRenderAlert_DirectionColors(t *testing.T) {
	t.Parallel()

	incoming, err := RenderAlert(sampleAlertData("Received"))
	require.NoError(t, err)
	require.Contains(t, incoming, "#4dd2ff")

	outgoing, err := RenderAlert(sampleAlertData("Sent"))
	require.NoError(t, err)
	require.Contains(t, outgoing, "#ff4d6d")
}

func TestRenderWelcome(t *testing.T) {
	t.Parallel()

	wallet := "0xabc1230000000000000000000000000000000001"

	html, err := RenderWelcome(wallet)
	require.NoError(t, err)
	require.Contains(t, html, wallet)
	require.Contains(t, html, "Welcome")
}
