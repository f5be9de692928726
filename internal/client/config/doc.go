// Package config loads runtime configuration for the accountkeeper CLI.
//
// Sources, in increasing precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Supported flags
//
//	-a string   address:port of the server gRPC endpoint
//	-t int      per-request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s"
//	}
package config
