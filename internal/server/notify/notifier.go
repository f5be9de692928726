// Package notify delivers one-time registration codes to users.
package notify

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
)

// Notifier sends an OTP to an email address. A returned error means the code
// was not delivered.
type Notifier interface {
	SendOtp(ctx context.Context, email, code string) error
}

// Kinds accepted by New.
const (
	KindLog = "log"
	KindSES = "ses"
)

// SESOptions configures the SES-backed notifier.
type SESOptions struct {
	Region          string
	Sender          string
	AccessKeyID     string
	SecretAccessKey string
	BaseEndpoint    string
}

// New builds the notifier named by kind.
func New(ctx context.Context, kind string, opts SESOptions, logger logging.Logger) (Notifier, error) {
	switch kind {
	case "", KindLog:
		return NewLogNotifier(logger), nil
	case KindSES:
		return NewSESNotifier(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown notifier %q", kind)
	}
}

// LogNotifier writes codes to the log. For local development only.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendOtp(ctx context.Context, email, code string) error {
	n.logger.Info(ctx, "otp issued", "email", email, "otp", code)
	return nil
}

func subject() string { return "Your verification code" }

func body(code string) string {
	return fmt.Sprintf("Your verification code is %s. It expires shortly; do not share it.", code)
}
