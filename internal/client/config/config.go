package config

import "time"

// Config holds runtime settings for the accountkeeper CLI.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig applies defaults, then JSON (if present), then command-line
// flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
