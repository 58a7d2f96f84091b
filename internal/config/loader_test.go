package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cryptohub-labs/walletalert/pkg/config"
)

func TestLoadFromYAML(t *testing.T) {
	cfg, err := LoadFromYAML("../../config.example.yaml")
	require.NoError(t, err)

	validateExampleConfig(t, cfg)
}

func TestLoadFromJSON(t *testing.T) {
	cfg, err := LoadFromJSON("../../config.example.json")
	require.NoError(t, err)

	validateExampleConfig(t, cfg)
}

func TestLoadFromTOML(t *testing.T) {
	cfg, err := LoadFromTOML("../../config.example.toml")
	require.NoError(t, err)

	validateExampleConfig(t, cfg)
}

func TestLoadFromFile_AutoDetect(t *testing.T) {
	for _, path := range []string{
		"../../config.example.yaml",
		"../../config.example.json",
		"../../config.example.toml",
	} {
		cfg, err := LoadFromFile(path)
		require.NoError(t, err, "failed to auto-load %s", path)
		validateExampleConfig(t, cfg)
	}
}

func TestLoadFromFile_UnsupportedExtension(t *testing.T) {
	_, err := LoadFromFile("config.ini")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported config file format")
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile("does-not-exist.yaml")
	require.Error(t, err)
}

func TestLoadFromYAML_DefaultsApplied(t *testing.T) {
	// A minimal config only needs the database path and email sender
	path := writeTempConfig(t, `
db:
  path: "test.db"
email:
  from: "Alerts <alerts@example.com>"
`)

	cfg, err := LoadFromYAML(path)
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.ListenAddress)
	require.Equal(t, 15*time.Second, cfg.Server.ReadTimeout.Duration)
	require.Equal(t, []string{"*"}, cfg.Server.CORS.AllowedOrigins)
	require.Equal(t, "X-Alchemy-Signature", cfg.Webhook.SignatureHeader)
	require.Equal(t, "https://api.coingecko.com/api/v3", cfg.Prices.BaseURL)
	require.Equal(t, "usd", cfg.Prices.Currency)
	require.Equal(t, time.Minute, cfg.Prices.CacheTTL.Duration)
}

func TestLoadFromYAML_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing db path",
			yaml:    `email: {from: "a@b.co"}`,
			wantErr: "db.path is required",
		},
		{
			name: "bad journal mode",
			yaml: `
db:
  path: "test.db"
  journal_mode: "BOGUS"
email:
  from: "a@b.co"
`,
			wantErr: "journal_mode",
		},
		{
			name: "chain without rpc url",
			yaml: `
db:
  path: "test.db"
email:
  from: "a@b.co"
chains:
  - name: "ethereum"
`,
			wantErr: "rpc_url is required",
		},
		{
			name: "token with invalid contract address",
			yaml: `
db:
  path: "test.db"
email:
  from: "a@b.co"
chains:
  - name: "ethereum"
    rpc_url: "https://example.com"
    tokens:
      - symbol: "BAD"
        address: "0x123"
`,
			wantErr: "invalid contract address",
		},
		{
			name: "duplicate chain names",
			yaml: `
db:
  path: "test.db"
email:
  from: "a@b.co"
chains:
  - name: "ethereum"
    rpc_url: "https://one.example.com"
  - name: "ethereum"
    rpc_url: "https://two.example.com"
`,
			wantErr: "duplicate chain name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempConfig(t, tt.yaml)
			_, err := LoadFromYAML(path)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func validateExampleConfig(t *testing.T, cfg *config.Config) {
	t.Helper()

	require.Equal(t, ":8080", cfg.Server.ListenAddress)
	require.True(t, cfg.Server.CORS.Enabled)

	require.Equal(t, "walletalert.db", cfg.DB.Path)
	require.Equal(t, "WAL", cfg.DB.JournalMode)

	require.Contains(t, cfg.Email.From, "alerts@resend.dev")
	require.Equal(t, "X-Alchemy-Signature", cfg.Webhook.SignatureHeader)

	require.Len(t, cfg.Chains, 1)
	chain := cfg.Chains[0]
	require.Equal(t, "ethereum", chain.Name)
	require.Equal(t, "ETH_MAINNET", chain.Network)
	require.Equal(t, "ETH", chain.NativeSymbol)
	require.Len(t, chain.Tokens, 2)
	require.Equal(t, "USDC", chain.Tokens[0].Symbol)

	require.Same(t, &cfg.Chains[0], cfg.ChainByNetwork("ETH_MAINNET"))
	require.Nil(t, cfg.ChainByNetwork("BASE_MAINNET"))

	require.Equal(t, "usd", cfg.Prices.Currency)
	require.Equal(t, time.Minute, cfg.Prices.CacheTTL.Duration)

	require.NotNil(t, cfg.Retry)
	require.Equal(t, 5, cfg.Retry.MaxAttempts)
	require.Equal(t, time.Second, cfg.Retry.InitialBackoff.Duration)

	require.NotNil(t, cfg.Maintenance)
	require.True(t, cfg.Maintenance.Enabled)
	require.Equal(t, 24*time.Hour, cfg.Maintenance.CheckInterval.Duration)

	require.NotNil(t, cfg.Logging)
	require.Equal(t, "debug", cfg.Logging.GetComponentLevel("webhook-ingress"))
	require.Equal(t, "info", cfg.Logging.GetComponentLevel("api"))

	require.NotNil(t, cfg.Metrics)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, ":9090", cfg.Metrics.ListenAddress)
}
