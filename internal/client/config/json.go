package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
	"github.com/dmitrijs2005/accountkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the CLI configuration file.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with the non-zero values of the file named by -c or
// -config. Read or decode failures panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
