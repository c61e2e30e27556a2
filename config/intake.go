package config

import (
	"fmt"

	"github.com/careops/bookd/auth"
)

// IntakeConfig selects how reservation cycles reach the service.
type IntakeConfig struct {
	// Mode is "server" to accept HTTP batches or "client" to poll the
	// upstream booking API.
	Mode   string             `json:"mode"`
	Server IntakeServerConfig `json:"server"`
	Client IntakeClientConfig `json:"client"`
}

// IntakeServerConfig configures the HTTP intake endpoint.
type IntakeServerConfig struct {
	Address string `json:"address"`
	// Token protects the cycle endpoint when non-empty.
	Token string `json:"token"`
}

// IntakeClientConfig configures the upstream polling client.
type IntakeClientConfig struct {
	APIURL              string    `json:"api_url"`
	PollIntervalSeconds int       `json:"poll_interval_seconds"`
	Auth                auth.Conf `json:"auth"`
}

// SetDefaults applies sane defaults.
func (c *IntakeConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "server"
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Client.PollIntervalSeconds <= 0 {
		c.Client.PollIntervalSeconds = 60
	}
}

// Validate checks mandatory fields per mode.
func (c IntakeConfig) Validate() error {
	switch c.Mode {
	case "server":
		if c.Server.Address == "" {
			return fmt.Errorf("server address is required")
		}
	case "client":
		if c.Client.APIURL == "" {
			return fmt.Errorf("client api_url is required")
		}
		if c.Client.Auth.ClientID != "" {
			if err := c.Client.Auth.Validate(); err != nil {
				return fmt.Errorf("client auth: %w", err)
			}
		}
	default:
		return fmt.Errorf("unknown intake mode %q", c.Mode)
	}
	return nil
}
