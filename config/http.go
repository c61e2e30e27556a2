package config

// APIConfig configures the read-only HTTP API exposing solve logs, provider
// status and usage.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address"`
	// Token protects every endpoint when non-empty.
	Token string `json:"token"`
}

// PromServerConfig configures the Prometheus scrape endpoint.
type PromServerConfig struct {
	Enabled bool   `json:"enabled"`
	Address string `json:"address"`
}
