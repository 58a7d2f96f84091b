package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/cryptohub-labs/walletalert/internal/common"
	"github.com/cryptohub-labs/walletalert/internal/logger"
)

// Config represents the complete configuration for the wallet alert service.
type Config struct {
	// Server contains the HTTP API server configuration
	Server ServerConfig `yaml:"server" json:"server" toml:"server"`

	// DB contains the SQLite database configuration
	DB DatabaseConfig `yaml:"db" json:"db" toml:"db"`

	// Email contains the transactional email configuration
	Email EmailConfig `yaml:"email" json:"email" toml:"email"`

	// Webhook contains the provider webhook ingress configuration
	Webhook WebhookConfig `yaml:"webhook" json:"webhook" toml:"webhook"`

	// Chains contains the chains the portfolio aggregator reads from
	Chains []ChainConfig `yaml:"chains" json:"chains" toml:"chains"`

	// Prices contains the USD quote API configuration
	Prices PricesConfig `yaml:"prices" json:"prices" toml:"prices"`

	// Retry contains RPC retry configuration with exponential backoff
	Retry *RetryConfig `yaml:"retry,omitempty" json:"retry,omitempty" toml:"retry,omitempty"`

	// Maintenance contains optional database maintenance settings
	Maintenance *MaintenanceConfig `yaml:"maintenance,omitempty" json:"maintenance,omitempty" toml:"maintenance,omitempty"`

	// Logging contains logging configuration
	Logging *LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty" toml:"logging,omitempty"`

	// Metrics contains Prometheus metrics configuration
	Metrics *MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty" toml:"metrics,omitempty"`
}

// ServerConfig represents the HTTP API server configuration.
type ServerConfig struct {
	// ListenAddress is the address to bind the API server to
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request
	ReadTimeout common.Duration `yaml:"read_timeout" json:"read_timeout" toml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out a response write
	WriteTimeout common.Duration `yaml:"write_timeout" json:"write_timeout" toml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a kept-alive connection
	IdleTimeout common.Duration `yaml:"idle_timeout" json:"idle_timeout" toml:"idle_timeout"`

	// CORS contains cross-origin settings for the browser-facing endpoints
	CORS CORSConfig `yaml:"cors" json:"cors" toml:"cors"`
}

// ApplyDefaults sets default values for optional server configuration fields.
func (s *ServerConfig) ApplyDefaults() {
	if s.ListenAddress == "" {
		s.ListenAddress = ":8080"
	}
	if s.ReadTimeout.Duration == 0 {
		s.ReadTimeout = common.NewDuration(15 * time.Second) //nolint:mnd
	}
	if s.WriteTimeout.Duration == 0 {
		s.WriteTimeout = common.NewDuration(30 * time.Second) //nolint:mnd
	}
	if s.IdleTimeout.Duration == 0 {
		s.IdleTimeout = common.NewDuration(60 * time.Second) //nolint:mnd
	}
	s.CORS.ApplyDefaults()
}

// CORSConfig configures cross-origin resource sharing.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// AllowedOrigins lists origins allowed to call the subscribe/unsubscribe
	// endpoints. "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins" toml:"allowed_origins"`
}

// ApplyDefaults sets default values for optional CORS configuration fields.
func (c *CORSConfig) ApplyDefaults() {
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
}

// DatabaseConfig represents database configuration.
type DatabaseConfig struct {
	// Path is the file path to the SQLite database
	Path string `yaml:"path" json:"path" toml:"path"`

	// JournalMode sets the SQLite journal mode (e.g., "WAL", "DELETE")
	// WAL mode is recommended for better concurrency
	JournalMode string `yaml:"journal_mode" json:"journal_mode" toml:"journal_mode"`

	// Synchronous sets the synchronization level ("FULL", "NORMAL", "OFF")
	// NORMAL provides a good balance between safety and performance
	Synchronous string `yaml:"synchronous" json:"synchronous" toml:"synchronous"`

	// BusyTimeout is the time in milliseconds to wait when the database is locked
	BusyTimeout int `yaml:"busy_timeout" json:"busy_timeout" toml:"busy_timeout"`

	// CacheSize is the size of the page cache (negative = KB, positive = pages)
	CacheSize int `yaml:"cache_size" json:"cache_size" toml:"cache_size"`

	// MaxOpenConnections is the maximum number of open database connections
	MaxOpenConnections int `yaml:"max_open_connections" json:"max_open_connections" toml:"max_open_connections"`

	// MaxIdleConnections is the maximum number of idle connections in the pool
	MaxIdleConnections int `yaml:"max_idle_connections" json:"max_idle_connections" toml:"max_idle_connections"`

	// EnableForeignKeys enables foreign key constraint enforcement
	EnableForeignKeys bool `yaml:"enable_foreign_keys" json:"enable_foreign_keys" toml:"enable_foreign_keys"`
}

// ApplyDefaults sets default values for optional database configuration fields.
func (d *DatabaseConfig) ApplyDefaults() {
	if d.JournalMode == "" {
		d.JournalMode = "WAL"
	}
	if d.Synchronous == "" {
		d.Synchronous = "NORMAL"
	}
	if d.BusyTimeout == 0 {
		d.BusyTimeout = 5000
	}
	if d.CacheSize == 0 {
		d.CacheSize = 10000
	}
	if d.MaxOpenConnections == 0 {
		d.MaxOpenConnections = 25
	}
	if d.MaxIdleConnections == 0 {
		d.MaxIdleConnections = 5
	}
	// EnableForeignKeys defaults to false (zero value)
}

// EmailConfig represents the transactional email configuration.
// The provider API key is supplied through the environment, not here.
type EmailConfig struct {
	// From is the sender, e.g. "CryptoHub Alerts <alerts@example.com>"
	From string `yaml:"from" json:"from" toml:"from"`

	// DisableWelcome suppresses the welcome email sent on new subscriptions
	DisableWelcome bool `yaml:"disable_welcome" json:"disable_welcome" toml:"disable_welcome"`
}

// ApplyDefaults sets default values for optional email configuration fields.
func (e *EmailConfig) ApplyDefaults() {
	if e.From == "" {
		e.From = "CryptoHub Alerts <alerts@resend.dev>"
	}
	// DisableWelcome defaults to false (zero value)
}

// WebhookConfig represents the provider webhook ingress configuration.
// The HMAC signing key is supplied through the environment, not here.
type WebhookConfig struct {
	// SignatureHeader is the HTTP header carrying the hex HMAC-SHA256 of the raw body
	SignatureHeader string `yaml:"signature_header" json:"signature_header" toml:"signature_header"`
}

// ApplyDefaults sets default values for optional webhook configuration fields.
func (w *WebhookConfig) ApplyDefaults() {
	if w.SignatureHeader == "" {
		w.SignatureHeader = "X-Alchemy-Signature"
	}
}

// ChainConfig represents one chain the portfolio aggregator reads from and
// the explorer links alert emails use for it.
type ChainConfig struct {
	// Name is a unique identifier for this chain, e.g. "ethereum"
	Name string `yaml:"name" json:"name" toml:"name"`

	// Network is the provider network identifier, e.g. "ETH_MAINNET"
	Network string `yaml:"network" json:"network" toml:"network"`

	// RPCURL is the JSON-RPC endpoint URL
	RPCURL string `yaml:"rpc_url" json:"rpc_url" toml:"rpc_url"`

	// ExplorerTxURL is the block explorer transaction URL prefix,
	// e.g. "https://etherscan.io/tx/"
	ExplorerTxURL string `yaml:"explorer_tx_url" json:"explorer_tx_url" toml:"explorer_tx_url"`

	// NativeSymbol is the native asset ticker, e.g. "ETH"
	NativeSymbol string `yaml:"native_symbol" json:"native_symbol" toml:"native_symbol"`

	// NativeQuoteID is the price API identifier for the native asset,
	// e.g. "ethereum"
	NativeQuoteID string `yaml:"native_quote_id" json:"native_quote_id" toml:"native_quote_id"`

	// Tokens is the fixed token list scanned on this chain
	Tokens []TokenConfig `yaml:"tokens" json:"tokens" toml:"tokens"`
}

// ApplyDefaults sets default values for optional chain configuration fields.
func (c *ChainConfig) ApplyDefaults() {
	if c.NativeSymbol == "" {
		c.NativeSymbol = "ETH"
	}
	if c.NativeQuoteID == "" {
		c.NativeQuoteID = "ethereum"
	}
	if c.ExplorerTxURL == "" {
		c.ExplorerTxURL = "https://etherscan.io/tx/"
	}
}

// TokenConfig represents one ERC-20 token in a chain's fixed token list.
type TokenConfig struct {
	// Symbol is the display ticker, e.g. "USDC"
	Symbol string `yaml:"symbol" json:"symbol" toml:"symbol"`

	// Address is the token contract address
	Address string `yaml:"address" json:"address" toml:"address"`

	// QuoteID is the price API identifier, e.g. "usd-coin".
	// Empty means no USD quote is fetched for this token.
	QuoteID string `yaml:"quote_id" json:"quote_id" toml:"quote_id"`
}

// PricesConfig represents the USD quote API configuration.
type PricesConfig struct {
	// BaseURL is the price API base URL
	BaseURL string `yaml:"base_url" json:"base_url" toml:"base_url"`

	// Currency is the quote currency
	Currency string `yaml:"currency" json:"currency" toml:"currency"`

	// CacheTTL is how long quotes are served from cache
	CacheTTL common.Duration `yaml:"cache_ttl" json:"cache_ttl" toml:"cache_ttl"`
}

// ApplyDefaults sets default values for optional prices configuration fields.
func (p *PricesConfig) ApplyDefaults() {
	if p.BaseURL == "" {
		p.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if p.Currency == "" {
		p.Currency = "usd"
	}
	if p.CacheTTL.Duration == 0 {
		p.CacheTTL = common.NewDuration(time.Minute)
	}
}

// RetryConfig represents RPC retry configuration with exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial request)
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts" toml:"max_attempts"`

	// InitialBackoff is the initial backoff duration before first retry
	InitialBackoff common.Duration `yaml:"initial_backoff" json:"initial_backoff" toml:"initial_backoff"`

	// MaxBackoff is the maximum backoff duration
	MaxBackoff common.Duration `yaml:"max_backoff" json:"max_backoff" toml:"max_backoff"`

	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64 `yaml:"backoff_multiplier" json:"backoff_multiplier" toml:"backoff_multiplier"`
}

// ApplyDefaults sets default values for retry configuration.
func (r *RetryConfig) ApplyDefaults() {
	if r.MaxAttempts == 0 {
		r.MaxAttempts = 5
	}
	if r.InitialBackoff.Duration == 0 {
		r.InitialBackoff = common.NewDuration(1 * time.Second)
	}
	if r.MaxBackoff.Duration == 0 {
		r.MaxBackoff = common.NewDuration(30 * time.Second) //nolint:mnd
	}
	if r.BackoffMultiplier == 0 {
		r.BackoffMultiplier = 2.0
	}
}

// MaintenanceConfig configures database maintenance behavior.
type MaintenanceConfig struct {
	// Enabled controls whether background maintenance runs
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// CheckInterval is how often to run maintenance (e.g., "30m", "1h")
	CheckInterval common.Duration `yaml:"check_interval" json:"check_interval" toml:"check_interval"`

	// VacuumOnStartup runs maintenance immediately on startup
	VacuumOnStartup bool `yaml:"vacuum_on_startup" json:"vacuum_on_startup" toml:"vacuum_on_startup"`

	// WALCheckpointMode controls the WAL checkpoint aggressiveness
	// Options: PASSIVE, FULL, RESTART, TRUNCATE
	WALCheckpointMode string `yaml:"wal_checkpoint_mode" json:"wal_checkpoint_mode" toml:"wal_checkpoint_mode"`
}

// ApplyDefaults sets default values for optional maintenance configuration fields.
func (m *MaintenanceConfig) ApplyDefaults() {
	if m.CheckInterval.Duration == 0 {
		m.CheckInterval = common.NewDuration(30 * time.Minute) //nolint:mnd
	}
	if m.WALCheckpointMode == "" {
		m.WALCheckpointMode = "TRUNCATE"
	}
	// Enabled defaults to false (zero value)
	// VacuumOnStartup defaults to false (zero value)
}

// Validate checks if the maintenance configuration is valid.
func (m *MaintenanceConfig) Validate() error {
	if m.WALCheckpointMode != "" {
		validModes := []string{"PASSIVE", "FULL", "RESTART", "TRUNCATE"}
		if !slices.Contains(validModes, m.WALCheckpointMode) {
			return fmt.Errorf("maintenance.wal_checkpoint_mode: must be one of: PASSIVE, FULL, RESTART, TRUNCATE")
		}
	}

	return nil
}

// LoggingConfig configures logging behavior with per-component log levels.
type LoggingConfig struct {
	// DefaultLevel is the default log level for all components
	// Options: "debug", "info", "warn", "error"
	DefaultLevel string `yaml:"default_level" json:"default_level" toml:"default_level"`

	// Development enables development mode (stack traces, console encoder)
	Development bool `yaml:"development" json:"development" toml:"development"`

	// ComponentLevels sets log levels for specific components
	// Available components:
	//   - api: HTTP API server
	//   - webhook-ingress: Provider webhook processing
	//   - alert-store: Subscription storage
	//   - dedup-ledger: Processed transaction ledger
	//   - notifier: Email delivery
	//   - portfolio: Portfolio aggregation
	//   - prices: USD quote client
	//   - rpc: Chain RPC client
	//   - maintenance: Database maintenance
	ComponentLevels map[string]string `yaml:"component_levels,omitempty" json:"component_levels,omitempty" toml:"component_levels,omitempty"` //nolint:lll
}

// ApplyDefaults sets default values for optional logging configuration fields.
func (l *LoggingConfig) ApplyDefaults() {
	if l.DefaultLevel == "" {
		l.DefaultLevel = "info"
	}
	// Development defaults to false (zero value)
	if l.ComponentLevels == nil {
		l.ComponentLevels = make(map[string]string)
	}
}

// Validate checks if the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	if l.DefaultLevel != "" {
		if _, valid := logger.ValidLogLevels[common.ToLowerWithTrim(l.DefaultLevel)]; !valid {
			return fmt.Errorf("logging.default_level: must be one of: debug, info, warn, error")
		}
	}

	for component, level := range l.ComponentLevels {
		if _, validComponent := common.AllComponents[common.ToLowerWithTrim(component)]; !validComponent {
			return fmt.Errorf("logging.component_levels: unknown component '%s'", component)
		}

		if _, valid := logger.ValidLogLevels[common.ToLowerWithTrim(level)]; !valid {
			return fmt.Errorf("logging.component_levels[%s]: must be one of: debug, info, warn, error", component)
		}
	}

	return nil
}

// GetComponentLevel returns the log level for a specific component.
// Falls back to DefaultLevel if no component-specific level is set.
func (l *LoggingConfig) GetComponentLevel(component string) string {
	if l == nil {
		return "info"
	}
	if level, ok := l.ComponentLevels[component]; ok {
		return level
	}
	return common.ToLowerWithTrim(l.DefaultLevel)
}

// GetDefaultLevel returns the default log level.
func (l *LoggingConfig) GetDefaultLevel() string {
	if l == nil {
		return "info"
	}
	return common.ToLowerWithTrim(l.DefaultLevel)
}

// IsDevelopment returns whether development mode is enabled.
func (l *LoggingConfig) IsDevelopment() bool {
	return l != nil && l.Development
}

// MetricsConfig configures Prometheus metrics exposition.
type MetricsConfig struct {
	// Enabled controls whether metrics collection and HTTP endpoint are active
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// ListenAddress is the address to bind the metrics HTTP server to
	// Format: "host:port" or ":port"
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// Path is the HTTP path where metrics are exposed
	Path string `yaml:"path" json:"path" toml:"path"`
}

// ApplyDefaults sets default values for optional metrics configuration fields.
func (m *MetricsConfig) ApplyDefaults() {
	if m.ListenAddress == "" {
		m.ListenAddress = ":9090"
	}
	if m.Path == "" {
		m.Path = "/metrics"
	}
	// Enabled defaults to false (zero value)
}

// Validate checks if the metrics configuration is valid.
func (m *MetricsConfig) Validate() error {
	if m.Enabled {
		if m.ListenAddress == "" {
			return fmt.Errorf("listen_address is required when metrics are enabled")
		}
		if m.Path == "" {
			return fmt.Errorf("path is required when metrics are enabled")
		}
		if m.Path[0] != '/' {
			return fmt.Errorf("path must start with '/'")
		}
	}
	return nil
}

// ApplyDefaults sets default values for optional configuration fields.
func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.DB.ApplyDefaults()
	c.Email.ApplyDefaults()
	c.Webhook.ApplyDefaults()
	c.Prices.ApplyDefaults()

	for i := range c.Chains {
		c.Chains[i].ApplyDefaults()
	}

	if c.Retry != nil {
		c.Retry.ApplyDefaults()
	}

	if c.Maintenance != nil {
		c.Maintenance.ApplyDefaults()
	}

	if c.Logging != nil {
		c.Logging.ApplyDefaults()
	}

	if c.Metrics != nil {
		c.Metrics.ApplyDefaults()
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return fmt.Errorf("db.path is required")
	}

	if c.DB.JournalMode != "" && c.DB.JournalMode != "WAL" &&
		c.DB.JournalMode != "DELETE" && c.DB.JournalMode != "TRUNCATE" &&
		c.DB.JournalMode != "PERSIST" && c.DB.JournalMode != "MEMORY" {
		return fmt.Errorf("db.journal_mode must be one of: WAL, DELETE, TRUNCATE, PERSIST, MEMORY")
	}

	if c.DB.Synchronous != "" && c.DB.Synchronous != "FULL" &&
		c.DB.Synchronous != "NORMAL" && c.DB.Synchronous != "OFF" {
		return fmt.Errorf("db.synchronous must be one of: FULL, NORMAL, OFF")
	}

	if c.Email.From == "" {
		return fmt.Errorf("email.from is required")
	}

	chainNames := make(map[string]bool)
	for i, chain := range c.Chains {
		if chain.Name == "" {
			return fmt.Errorf("chains[%d]: name is required", i)
		}

		if chainNames[chain.Name] {
			return fmt.Errorf("chains[%d]: duplicate chain name '%s'", i, chain.Name)
		}
		chainNames[chain.Name] = true

		if chain.RPCURL == "" {
			return fmt.Errorf("chains[%d] (%s): rpc_url is required", i, chain.Name)
		}

		for j, token := range chain.Tokens {
			if token.Address == "" {
				return fmt.Errorf("chains[%d] (%s), tokens[%d]: address is required", i, chain.Name, j)
			}
			if !common.IsValidWalletAddress(token.Address) {
				return fmt.Errorf("chains[%d] (%s), tokens[%d]: invalid contract address '%s'",
					i, chain.Name, j, token.Address)
			}
			if token.Symbol == "" {
				return fmt.Errorf("chains[%d] (%s), tokens[%d]: symbol is required", i, chain.Name, j)
			}
		}
	}

	if c.Maintenance != nil {
		if err := c.Maintenance.Validate(); err != nil {
			return err
		}
	}

	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			return err
		}
	}

	if c.Metrics != nil {
		if err := c.Metrics.Validate(); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	return nil
}

// ChainByNetwork returns the chain configured for the given provider network
// identifier, or nil if none matches.
func (c *Config) ChainByNetwork(network string) *ChainConfig {
	for i := range c.Chains {
		if c.Chains[i].Network == network {
			return &c.Chains[i]
		}
	}
	return nil
}
