package email

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ecobank/internal/config"
	"ecobank/internal/logger"
	"ecobank/internal/models"

	"github.com/mailgun/mailgun-go/v5"
)

const sendTimeout = 10 * time.Second

type mailer interface {
	send(ctx context.Context, to, subject, text, html string) (string, error)
}

type mailgunMailer struct {
	client mailgun.Mailgun
	domain string
	from   string
}

func (m mailgunMailer) send(ctx context.Context, to, subject, text, html string) (string, error) {
	message := mailgun.NewMessage(m.domain, m.from, subject, text, to)
	message.SetHTML(html)

	resp, err := m.client.Send(ctx, message)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v", resp), nil
}

// Service sends badge notifications through Mailgun. It is a no-op unless
// a domain, an API key and a recipient are configured.
type Service struct {
	mailer    mailer
	recipient string
	enabled   bool

	wg sync.WaitGroup
}

func NewService(cfg *config.Config) *Service {
	enabled := cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" && cfg.NotifyEmail != ""

	s := &Service{
		recipient: cfg.NotifyEmail,
		enabled:   enabled,
	}
	if enabled {
		s.mailer = mailgunMailer{
			client: mailgun.NewMailgun(cfg.MailgunAPIKey),
			domain: cfg.MailgunDomain,
			from:   fmt.Sprintf("%s <%s>", cfg.MailgunSenderName, cfg.MailgunSenderEmail),
		}
	}
	return s
}

func (s *Service) IsEnabled() bool {
	return s.enabled
}

// BadgeEarned sends the notification in the background so callers holding
// locks are never held up by the mail provider.
func (s *Service) BadgeEarned(b models.Badge) {
	if !s.enabled {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.SendBadgeEarnedEmail(b); err != nil {
			logger.Error("Failed to send badge email", "badge", b.ID, "error", err)
		}
	}()
}

func (s *Service) SendBadgeEarnedEmail(b models.Badge) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	subject := fmt.Sprintf("You earned the %s badge!", b.Name)

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	id, err := s.mailer.send(ctx, s.recipient, subject, generateBadgeText(b), generateBadgeHTML(b))
	if err != nil {
		return fmt.Errorf("failed to send badge email to %s: %w", s.recipient, err)
	}

	logger.Info("Badge email sent", "badge", b.ID, "email", s.recipient, "message_id", id)
	return nil
}

// Close waits for in-flight notifications, or until ctx is done.
func (s *Service) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
