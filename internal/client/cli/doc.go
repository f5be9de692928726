// Package cli provides the interactive accountkeeper command-line client.
//
// It wires configuration, the gRPC client and a read-eval-print loop. The
// typical flow is register, enter the emailed code with verify, then login
// and manage the account with whoami, update and delete.
//
// The REPL is started with App.Run(ctx), which blocks until the user exits or
// stdin is closed.
package cli
