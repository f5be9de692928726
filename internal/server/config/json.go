package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
	"github.com/dmitrijs2005/accountkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept either strings such as "15m" or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	OTPValidityDuration          timex.Duration `json:"otp_validity_duration"`
	PendingPurgeInterval         timex.Duration `json:"pending_purge_interval"`
	PasswordHashAlgorithm        string         `json:"password_hash_algorithm"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	Notifier                     string         `json:"notifier"`
	SESRegion                    string         `json:"ses_region"`
	SESSender                    string         `json:"ses_sender"`
	SESAccessKeyID               string         `json:"ses_access_key_id"`
	SESSecretAccessKey           string         `json:"ses_secret_access_key"`
	SESBaseEndpoint              string         `json:"ses_base_endpoint"`
	LogLevel                     string         `json:"log_level"`
}

// parseJson loads the file named by -c or -config, if any, and copies every
// non-zero value into config. A file that cannot be read or decoded panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.PasswordHashAlgorithm, c.PasswordHashAlgorithm)
	setString(&config.Notifier, c.Notifier)
	setString(&config.SESRegion, c.SESRegion)
	setString(&config.SESSender, c.SESSender)
	setString(&config.SESAccessKeyID, c.SESAccessKeyID)
	setString(&config.SESSecretAccessKey, c.SESSecretAccessKey)
	setString(&config.SESBaseEndpoint, c.SESBaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.OTPValidityDuration.Duration != 0 {
		config.OTPValidityDuration = c.OTPValidityDuration.Duration
	}
	if c.PendingPurgeInterval.Duration != 0 {
		config.PendingPurgeInterval = c.PendingPurgeInterval.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
