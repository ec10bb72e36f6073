package mail

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/shashiranjanraj/storefront/config"
)

type fakeDialer struct {
	mu   sync.Mutex
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(msgs ...*gomail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msgs...)
	return f.err
}

var testSMTP = SMTP{Host: "smtp.test", Port: 587, From: "noreply@storefront.local", FromName: "Storefront"}

func TestMailerDeliversQueuedMessages(t *testing.T) {
	d := &fakeDialer{}
	m := newMailer(testSMTP, d)

	require.NoError(t, m.Send(context.Background(), To("ann@example.com").CC("ops@example.com").
		Subject("Hello").Text("plain body")))
	m.Close()
	m.Close()

	require.Len(t, d.sent, 1)
	g := d.sent[0]
	assert.Equal(t, []string{"ann@example.com"}, g.GetHeader("To"))
	assert.Equal(t, []string{"ops@example.com"}, g.GetHeader("Cc"))
	assert.Equal(t, []string{"Hello"}, g.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err := g.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "noreply@storefront.local")
	assert.Contains(t, raw.String(), "text/plain")
	assert.Contains(t, raw.String(), "plain body")

	assert.ErrorIs(t, m.Send(context.Background(), To("ann@example.com")), ErrClosed)
}

func TestMailerRejectsMissingRecipients(t *testing.T) {
	m := newMailer(testSMTP, &fakeDialer{})
	defer m.Close()
	assert.ErrorIs(t, m.Send(context.Background(), To().Subject("x")), ErrNoRecipients)
}

func TestMailerSurvivesDeliveryFailure(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}
	m := newMailer(testSMTP, d)

	require.NoError(t, m.Send(context.Background(), To("a@example.com").Body("<b>one</b>")))
	require.NoError(t, m.Send(context.Background(), To("b@example.com").Body("<b>two</b>")))
	m.Close()

	assert.Len(t, d.sent, 2)
}

func TestFromConfig(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)
	require.NoError(t, config.LoadFrom("", ""))
	assert.False(t, FromConfig().Configured())

	t.Setenv("MAIL_HOST", "smtp.example.com")
	t.Setenv("MAIL_PORT", "465")
	cfg := FromConfig()
	assert.True(t, cfg.Configured())
	assert.Equal(t, 465, cfg.Port)
	assert.Equal(t, "noreply@storefront.local", cfg.From)
}
