// Package client talks to the accountkeeper server over gRPC.
//
// GRPCClient keeps the token pair returned by Login, attaches the access
// token to every call through a unary interceptor, and transparently rotates
// the pair with Refresh once when the server rejects the access token.
//
// Server errors that carry a known error kind come back as the matching
// common error, so callers can use errors.Is. Transport failures become
// ErrUnavailable.
package client
