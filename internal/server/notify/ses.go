package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// emailSender is the part of *sesv2.Client the notifier uses.
type emailSender interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newSESClientFromConfig = func(cfg aws.Config, optFns ...func(*sesv2.Options)) emailSender {
		return sesv2.NewFromConfig(cfg, optFns...)
	}
)

// SESNotifier sends codes as plain-text mail through Amazon SES v2.
type SESNotifier struct {
	client emailSender
	sender string
}

// NewSESNotifier loads AWS configuration for opts.Region. Static credentials
// and a custom endpoint are applied only when set.
func NewSESNotifier(ctx context.Context, opts SESOptions) (*SESNotifier, error) {
	if opts.Sender == "" {
		return nil, errors.New("ses sender address is required")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newSESClientFromConfig(cfg, func(o *sesv2.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		}
	})

	return &SESNotifier{client: client, sender: opts.Sender}, nil
}

func (n *SESNotifier) SendOtp(ctx context.Context, email, code string) error {
	_, err := n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.sender),
		Destination:      &types.Destination{ToAddresses: []string{email}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject()), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body(code)), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}
