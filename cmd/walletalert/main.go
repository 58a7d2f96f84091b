package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/cryptohub-labs/walletalert/internal/common"
	"github.com/cryptohub-labs/walletalert/internal/config"
	"github.com/cryptohub-labs/walletalert/internal/db"
	"github.com/cryptohub-labs/walletalert/internal/dedup"
	"github.com/cryptohub-labs/walletalert/internal/logger"
	"github.com/cryptohub-labs/walletalert/internal/metrics"
	"github.com/cryptohub-labs/walletalert/internal/migrations"
	"github.com/cryptohub-labs/walletalert/internal/notifier"
	"github.com/cryptohub-labs/walletalert/internal/portfolio"
	"github.com/cryptohub-labs/walletalert/internal/prices"
	walletrpc "github.com/cryptohub-labs/walletalert/internal/rpc"
	"github.com/cryptohub-labs/walletalert/internal/store"
	"github.com/cryptohub-labs/walletalert/internal/webhook"
	"github.com/cryptohub-labs/walletalert/pkg/api"
	pkgconfig "github.com/cryptohub-labs/walletalert/pkg/config"
)

const version = "1.0.0"

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "walletalert",
	Short: "WalletAlert - Ethereum wallet email alerts",
	Long: `WalletAlert watches wallet activity delivered by an Alchemy address
activity webhook and sends email alerts to subscribed users. It also
serves an on-chain portfolio view for any wallet.`,
	Version: version,
	RunE:    runServer,
}

var portfolioCmd = &cobra.Command{
	Use:   "portfolio <wallet>",
	Short: "Print the aggregated portfolio of a wallet",
	Long:  `Read native and token balances for a wallet across the configured chains, price them, and print the result as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPortfolio,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration utilities",
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema := jsonschema.Reflect(&pkgconfig.Config{})
		out, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	configCmd.AddCommand(configSchemaCmd)
	rootCmd.AddCommand(portfolioCmd, configCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	secrets := config.LoadSecrets()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully...")
		cancel()
	}()

	log := logger.NewComponentLoggerFromConfig(common.ComponentAPI, cfg.Logging)

	if secrets.WebhookSigningKey == "" {
		log.Warn("No webhook signing key configured, signature verification is disabled")
	}

	// Metrics server
	var metricsServer *metrics.Server
	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics)
		if err := metricsServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			if err := metricsServer.Stop(ctx); err != nil {
				log.Warnf("Failed to stop metrics server: %v", err)
			}
		}()
		log.Infof("Metrics server started on %s%s", cfg.Metrics.ListenAddress, cfg.Metrics.Path)
	}

	// Database
	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(cfg.DB.Path); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	database, err := db.NewSQLiteDBFromConfig(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	maintenance := db.NewMaintenance(
		cfg.DB.Path,
		database,
		cfg.Maintenance,
		logger.NewComponentLoggerFromConfig(common.ComponentMaintenance, cfg.Logging),
	)
	if maintenance != nil {
		maintenance.Start(ctx)
		defer maintenance.Stop()
	}

	// Core collaborators
	alertStore := store.NewAlertStore(database,
		logger.NewComponentLoggerFromConfig(common.ComponentAlertStore, cfg.Logging))
	ledger := dedup.NewLedger(database,
		logger.NewComponentLoggerFromConfig(common.ComponentDedupLedger, cfg.Logging))
	mailer := notifier.NewResendNotifier(secrets.ResendAPIKey, cfg.Email.From,
		logger.NewComponentLoggerFromConfig(common.ComponentNotifier, cfg.Logging))

	processor := webhook.NewProcessor(alertStore, ledger, mailer,
		explorerResolver(cfg),
		logger.NewComponentLoggerFromConfig(common.ComponentWebhook, cfg.Logging))

	// Portfolio aggregation
	priceClient := prices.NewClient(cfg.Prices, secrets.PriceAPIKey,
		logger.NewComponentLoggerFromConfig(common.ComponentPrices, cfg.Logging))
	defer priceClient.Stop()

	aggregator := newAggregator(cfg, priceClient)

	handler := api.NewHandler(api.HandlerOptions{
		Store:           alertStore,
		Processor:       processor,
		Notifier:        mailer,
		Portfolio:       aggregator,
		SigningKey:      secrets.WebhookSigningKey,
		SignatureHeader: cfg.Webhook.SignatureHeader,
		EmailFrom:       cfg.Email.From,
		SendWelcome:     !cfg.Email.DisableWelcome,
	}, log)

	server := api.NewServer(&cfg.Server, handler, log)

	log.Info("Starting WalletAlert...")
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("API server failed: %w", err)
	}

	log.Info("WalletAlert stopped successfully")
	return nil
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	wallet := args[0]
	if !common.IsValidWalletAddress(wallet) {
		return fmt.Errorf("invalid wallet address: %s", wallet)
	}

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	secrets := config.LoadSecrets()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	priceClient := prices.NewClient(cfg.Prices, secrets.PriceAPIKey, logger.GetDefaultLogger())
	defer priceClient.Stop()

	pf, err := newAggregator(cfg, priceClient).Aggregate(ctx, wallet)
	if err != nil {
		return fmt.Errorf("failed to aggregate portfolio: %w", err)
	}

	out, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal portfolio: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func newAggregator(cfg *pkgconfig.Config, priceClient *prices.Client) *portfolio.Aggregator {
	dial := func(ctx context.Context, rpcURL string, retry *pkgconfig.RetryConfig) (walletrpc.EthClient, error) {
		return walletrpc.NewClient(ctx, rpcURL, retry)
	}
	return portfolio.NewAggregator(cfg.Chains, cfg.Retry, priceClient, dial,
		logger.NewComponentLoggerFromConfig(common.ComponentPortfolio, cfg.Logging))
}

// explorerResolver maps a provider network identifier to the explorer
// transaction URL prefix of the matching configured chain.
func explorerResolver(cfg *pkgconfig.Config) webhook.ExplorerResolver {
	return func(network string) string {
		if chain := cfg.ChainByNetwork(network); chain != nil {
			return chain.ExplorerTxURL
		}
		return "https://etherscan.io/tx/"
	}
}
