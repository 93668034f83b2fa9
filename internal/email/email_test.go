package email

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ecobank/internal/config"
	"ecobank/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	html string
	err  error
}

func (f *fakeMailer) send(_ context.Context, to, subject, _, html string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, to+"|"+subject)
	f.html = html
	return "msg-1", nil
}

func testBadge() models.Badge {
	return models.Badge{
		BadgeTemplate: models.BadgeTemplate{
			ID:          "b1",
			Name:        "Eco <Starter>",
			Description: "Scan your first item",
			Icon:        "🌱",
			Stores:      []string{"Bravo", "Araz"},
			Discount:    "5% off",
			Prizes:      []string{"Reusable bag"},
		},
		EarnedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestDisabledWithoutConfig(t *testing.T) {
	s := NewService(&config.Config{MailgunDomain: "mg.example.com"})
	assert.False(t, s.IsEnabled())

	s.BadgeEarned(testBadge())
	assert.Error(t, s.SendBadgeEarnedEmail(testBadge()))
	assert.NoError(t, s.Close(context.Background()))
}

func TestBadgeEarnedSendsInBackground(t *testing.T) {
	fake := &fakeMailer{}
	s := &Service{mailer: fake, recipient: "owner@example.com", enabled: true}

	s.BadgeEarned(testBadge())
	require.NoError(t, s.Close(context.Background()))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.sent, 1)
	assert.Equal(t, "owner@example.com|You earned the Eco <Starter> badge!", fake.sent[0])
	assert.Contains(t, fake.html, "Eco &lt;Starter&gt;")
	assert.Contains(t, fake.html, "Bravo, Araz")
	assert.Contains(t, fake.html, "Reusable bag")
}

func TestSendBadgeEarnedEmailWrapsErrors(t *testing.T) {
	s := &Service{mailer: &fakeMailer{err: errors.New("rejected")}, recipient: "owner@example.com", enabled: true}

	err := s.SendBadgeEarnedEmail(testBadge())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestBadgeText(t *testing.T) {
	text := generateBadgeText(testBadge())

	assert.True(t, strings.HasPrefix(text, "🌱 Eco <Starter>"))
	assert.Contains(t, text, "- 5% off\n")
	assert.Contains(t, text, "Earned on 2 March 2026")
}
