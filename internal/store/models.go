package store

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Subscription is one wallet's opt-in state for transaction alerts.
// At most one row exists per normalized wallet address.
type Subscription struct {
	Wallet    common.Address `meddler:"wallet,address" json:"walletAddress"`
	Email     string         `meddler:"email" json:"email"`
	Enabled   bool           `meddler:"enabled" json:"enabled"`
	CreatedAt time.Time      `meddler:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `meddler:"updated_at" json:"updatedAt"`
}

// WalletHex returns the wallet address in the normalized lowercase form
// used for storage keys and API responses.
func (s *Subscription) WalletHex() string {
	return strings.ToLower(s.Wallet.Hex())
}
