package common

const (
	ComponentAPI         = "api"
	ComponentWebhook     = "webhook-ingress"
	ComponentAlertStore  = "alert-store"
	ComponentDedupLedger = "dedup-ledger"
	ComponentNotifier    = "notifier"
	ComponentPortfolio   = "portfolio"
	ComponentPrices      = "prices"
	ComponentRPC         = "rpc"
	ComponentMaintenance = "maintenance"
)

var AllComponents = map[string]struct{}{
	ComponentAPI:         {},
	ComponentWebhook:     {},
	ComponentAlertStore:  {},
	ComponentDedupLedger: {},
	ComponentNotifier:    {},
	ComponentPortfolio:   {},
	ComponentPrices:      {},
	ComponentRPC:         {},
	ComponentMaintenance: {},
}
