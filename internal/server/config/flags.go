package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-t", "-r", "-o", "-x", "-k", "-n", "-g", "-f", "-e", "-l"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-o int      OTP validity, minutes
//	-x string   password hash algorithm (bcrypt, argon2id)
//	-k int      bcrypt cost
//	-n string   notifier (log, ses)
//	-g string   SES region
//	-f string   SES sender address
//	-e string   SES base endpoint
//	-l string   log level
//
// SES credentials are read only from JSON or the environment.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")
	otpValidity := fs.Int("o", int(config.OTPValidityDuration.Minutes()), "otp validity (in minutes)")

	fs.StringVar(&config.PasswordHashAlgorithm, "x", config.PasswordHashAlgorithm, "password hash algorithm")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.Notifier, "n", config.Notifier, "otp notifier")
	fs.StringVar(&config.SESRegion, "g", config.SESRegion, "SES region")
	fs.StringVar(&config.SESSender, "f", config.SESSender, "SES sender address")
	fs.StringVar(&config.SESBaseEndpoint, "e", config.SESBaseEndpoint, "SES base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidity) * time.Minute
	config.OTPValidityDuration = time.Duration(*otpValidity) * time.Minute
}
