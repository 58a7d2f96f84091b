package webhook

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/cryptohub-labs/walletalert/internal/common"
	"github.com/cryptohub-labs/walletalert/internal/dedup"
	"github.com/cryptohub-labs/walletalert/internal/logger"
	"github.com/cryptohub-labs/walletalert/internal/metrics"
	"github.com/cryptohub-labs/walletalert/internal/notifier"
	"github.com/cryptohub-labs/walletalert/internal/store"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// SubscriptionStore is the subset of the alert store the processor needs.
type SubscriptionStore interface {
	Lookup(ctx context.Context, wallet string) (*store.Subscription, error)
}

// Ledger is the subset of the dedup ledger the processor needs.
type Ledger interface {
	HasProcessed(ctx context.Context, hash string) (bool, error)
	MarkProcessed(ctx context.Context, tx *dedup.ProcessedTransaction) error
}

// ExplorerResolver maps a provider network identifier to a block explorer
// transaction URL prefix.
type ExplorerResolver func(network string) string

// Summary reports what one webhook delivery resulted in.
type Summary struct {
	Activities    int `json:"activities"`
	UsersNotified int `json:"usersNotified"`
}

// Processor drives the notification pipeline for one webhook delivery:
// Alert Store lookup, Dedup Ledger check, Notifier dispatch, ledger record.
//
// Every external call is independently fault tolerant. A failing wallet is
// logged and skipped; it never blocks the other wallets or activities.
type Processor struct {
	store    SubscriptionStore
	ledger   Ledger
	notifier notifier.Notifier
	explorer ExplorerResolver
	log      *logger.Logger
}

// NewProcessor creates a webhook processor.
func NewProcessor(
	subs SubscriptionStore,
	ledger Ledger,
	n notifier.Notifier,
	explorer ExplorerResolver,
	log *logger.Logger,
) *Processor {
	return &Processor{
		store:    subs,
		ledger:   ledger,
		notifier: n,
		explorer: explorer,
		log:      log.WithComponent(common.ComponentWebhook),
	}
}

// Process handles one webhook delivery and returns a summary. It never
// returns an error: processing faults are absorbed and logged so the
// provider sees a 200 and does not redeliver.
func (p *Processor) Process(ctx context.Context, payload *Payload) Summary {
	metrics.WebhooksReceivedInc()

	activities := payload.Event.Activity
	if len(activities) == 0 {
		p.log.Debug("webhook carried no activity")
		return Summary{}
	}

	p.log.Infow("processing webhook", "id", payload.ID, "activities", len(activities),
		"network", payload.Event.Network)

	var notified atomic.Int64
	for i := range activities {
		p.processActivity(ctx, &activities[i], payload.Event.Network, &notified)
	}

	return Summary{
		Activities:    len(activities),
		UsersNotified: int(notified.Load()),
	}
}

// processActivity fans notification dispatch out over the involved wallets.
func (p *Processor) processActivity(ctx context.Context, act *Activity, network string, notified *atomic.Int64) {
	if act.Hash == "" {
		p.log.Warn("activity missing transaction hash, skipping")
		return
	}

	hash := common.NormalizeAddress(act.Hash)

	// Global per-hash dedup: once any notification for this hash landed,
	// the whole activity is considered handled, including on redelivery.
	processed, err := p.ledger.HasProcessed(ctx, hash)
	if err != nil {
		p.log.Errorw("dedup ledger check failed", "hash", hash, "error", err)
		return
	}
	if processed {
		metrics.DedupSkipsInc()
		p.log.Infow("alert already sent for transaction", "hash", hash)
		return
	}

	var g errgroup.Group
	for _, wallet := range p.involvedWallets(act) {
		g.Go(func() error {
			if p.notifyWallet(ctx, wallet, act, network) {
				notified.Add(1)
			}
			// Failures are already logged; never abort the siblings.
			return nil
		})
	}
	_ = g.Wait()
}

// involvedWallets derives the deduplicated set of normalized participant
// addresses of an activity.
func (p *Processor) involvedWallets(act *Activity) []string {
	wallets := make([]string, 0, 2)
	seen := make(map[string]struct{}, 2)

	for _, raw := range []string{act.FromAddress, act.ToAddress} {
		w := common.NormalizeAddress(raw)
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		wallets = append(wallets, w)
	}

	return wallets
}

// notifyWallet sends the alert for one wallet and records the hash in the
// ledger on success. Reports whether an email went out.
func (p *Processor) notifyWallet(ctx context.Context, wallet string, act *Activity, network string) bool {
	sub, err := p.store.Lookup(ctx, wallet)
	if errors.Is(err, store.ErrNotFound) {
		// Not subscribed is the normal case, not an error.
		return false
	}
	if err != nil {
		p.log.Errorw("subscription lookup failed", "wallet", wallet, "error", err)
		return false
	}
	if !sub.Enabled {
		p.log.Debugw("subscription disabled, skipping", "wallet", wallet)
		return false
	}

	direction := "Received"
	if wallet == common.NormalizeAddress(act.FromAddress) {
		direction = "Sent"
	}

	data := notifier.AlertData{
		Direction:   direction,
		Wallet:      wallet,
		From:        common.NormalizeAddress(act.FromAddress),
		To:          common.NormalizeAddress(act.ToAddress),
		Hash:        common.NormalizeAddress(act.Hash),
		Value:       act.FormatValue(),
		Asset:       act.AssetOrDefault(),
		Timestamp:   time.Now().UTC().Format(time.RFC1123),
		ExplorerURL: p.explorer(network) + common.NormalizeAddress(act.Hash),
	}

	html, err := notifier.RenderAlert(data)
	if err != nil {
		p.log.Errorw("alert template render failed", "wallet", wallet, "error", err)
		return false
	}

	if err := p.notifier.Send(ctx, sub.Email, data.Subject(), html); err != nil {
		metrics.EmailsFailedInc()
		p.log.Errorw("alert email failed", "wallet", wallet, "to", sub.Email, "error", err)
		return false
	}
	metrics.EmailsSentInc()

	// Recorded only after a successful send so a transient failure does
	// not permanently suppress this hash.
	record := &dedup.ProcessedTransaction{
		TxHash:      ethcommon.HexToHash(act.Hash),
		Wallet:      ethcommon.HexToAddress(wallet),
		FromAddress: ethcommon.HexToAddress(act.FromAddress),
		ToAddress:   ethcommon.HexToAddress(act.ToAddress),
		Value:       act.Value.String(),
	}
	if err := p.ledger.MarkProcessed(ctx, record); err != nil {
		p.log.Errorw("failed to record processed transaction", "hash", act.Hash, "error", err)
	}

	return true
}
