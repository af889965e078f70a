package referral

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/okian/oculo/pkg/logger"
	"github.com/okian/oculo/pkg/metrics"
)

// Sender delivers a drafted referral email.
type Sender interface {
	Send(ctx context.Context, to string, d Draft) error
}

// GmailConfig configures the Gmail sender. The token file is produced by a
// one-time OAuth consent flow outside this process.
type GmailConfig struct {
	ClientID     string
	ClientSecret string
	TokenPath    string
}

// GmailSender sends referral drafts through the Gmail API on behalf of the
// authenticated user.
type GmailSender struct {
	service *gmail.Service
	logger  logger.Logger
}

// NewGmailSender loads the stored OAuth token and builds the Gmail service.
func NewGmailSender(ctx context.Context, cfg GmailConfig) (*GmailSender, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	token, err := loadToken(cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("load gmail token: %w", err)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{gmail.GmailSendScope},
		Endpoint:     google.Endpoint,
	}

	service, err := gmail.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	return &GmailSender{
		service: service,
		logger:  logger.Get().Named("referral"),
	}, nil
}

// Send delivers the draft to the given address from the authenticated
// account.
func (s *GmailSender) Send(ctx context.Context, to string, d Draft) error {
	if to == "" {
		return ErrMissingRecipient
	}

	raw := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s", to, d.Subject, d.Body)
	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	if _, err := s.service.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		metrics.RecordReferralError()
		return fmt.Errorf("send referral email: %w", err)
	}

	metrics.RecordReferralSent()
	s.logger.Info(ctx, "referral email sent", logger.String("to", to))
	return nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	return &token, nil
}
