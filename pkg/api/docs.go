// Package api provides the REST API for the wallet alert service
// @title WalletAlert API
// @version 1.0
// @description REST API for Ethereum wallet email alerts and portfolio aggregation
// @contact.name API Support
// @contact.url https://github.com/cryptohub-labs/walletalert
// @host localhost:8080
// @basePath /api/v1
// @schemes http https
package api
