// Package mail sends transactional email over SMTP.
//
//	m := mail.To("ann@example.com").
//	    Subject("About your account").
//	    Text("Hello Ann")
//	err := mailer.Send(ctx, m)
//
// A Mailer only enqueues; delivery happens on its own goroutine so a slow
// SMTP server never holds a request.
package mail

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"gopkg.in/gomail.v2"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

const queueSize = 256

// SMTP holds connection settings.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// FromConfig reads MAIL_* settings.
func FromConfig() SMTP {
	return SMTP{
		Host:     config.MailHost(),
		Port:     config.MailPort(),
		Username: config.MailUsername(),
		Password: config.MailPassword(),
		From:     config.MailFrom(),
		FromName: config.MailFromName(),
	}
}

// Configured reports whether there is a server to send through.
func (c SMTP) Configured() bool { return c.Host != "" && c.From != "" }

// ─── Message ─────────────────────────────────────────────────────────────────

// Message is a fluent builder for one email.
type Message struct {
	to      []string
	cc      []string
	subject string
	body    string
	isHTML  bool
}

func To(addresses ...string) *Message {
	return &Message{to: addresses}
}

func (m *Message) CC(addresses ...string) *Message {
	m.cc = append(m.cc, addresses...)
	return m
}

func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Body sets an HTML body.
func (m *Message) Body(html string) *Message {
	m.body = html
	m.isHTML = true
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.body = text
	m.isHTML = false
	return m
}

func (m *Message) Recipients() []string { return m.to }

// Content returns the body as set by Body or Text.
func (m *Message) Content() string { return m.body }

func (m *Message) build(cfg SMTP) *gomail.Message {
	g := gomail.NewMessage()
	g.SetAddressHeader("From", cfg.From, cfg.FromName)
	g.SetHeader("To", m.to...)
	if len(m.cc) > 0 {
		g.SetHeader("Cc", m.cc...)
	}
	g.SetHeader("Subject", m.subject)
	contentType := "text/plain"
	if m.isHTML {
		contentType = "text/html"
	}
	g.SetBody(contentType, m.body)
	return g
}

// ─── Sending ─────────────────────────────────────────────────────────────────

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, m *Message) error
}

// dialer is the part of *gomail.Dialer the Mailer uses.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var (
	ErrNoRecipients = errors.New("mail: no recipients")
	ErrClosed       = errors.New("mail: mailer closed")
	ErrQueueFull    = errors.New("mail: queue full")
)

// Mailer queues messages and delivers them one at a time.
type Mailer struct {
	cfg     SMTP
	dialer  dialer
	queue   chan *gomail.Message
	stopped chan struct{}
	mu      sync.RWMutex
	closed  bool
	once    sync.Once
	dropped atomic.Int64
}

// NewMailer dials cfg per message; port 465 uses implicit TLS, other ports
// STARTTLS when offered. The caller must eventually call Close.
func NewMailer(cfg SMTP) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Port == 465
	return newMailer(cfg, d)
}

func newMailer(cfg SMTP, d dialer) *Mailer {
	m := &Mailer{
		cfg:     cfg,
		dialer:  d,
		queue:   make(chan *gomail.Message, queueSize),
		stopped: make(chan struct{}),
	}
	go m.deliverLoop()
	return m
}

func (m *Mailer) Send(ctx context.Context, msg *Message) error {
	if len(msg.to) == 0 {
		return ErrNoRecipients
	}
	g := msg.build(m.cfg)

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	select {
	case m.queue <- g:
		logger.WithCtx(ctx).Debug("mail: queued", "to", msg.to, "subject", msg.subject)
		return nil
	default:
		m.dropped.Add(1)
		return ErrQueueFull
	}
}

func (m *Mailer) deliverLoop() {
	defer close(m.stopped)
	for g := range m.queue {
		if err := m.dialer.DialAndSend(g); err != nil {
			logger.Error("mail: delivery failed",
				"to", g.GetHeader("To"), "host", m.cfg.Host, "error", fmt.Sprint(err))
		}
	}
}

// Dropped reports how many messages were discarded on a full queue.
func (m *Mailer) Dropped() int64 { return m.dropped.Load() }

// Close delivers what is still queued. Safe to call twice.
func (m *Mailer) Close() {
	m.once.Do(func() {
		m.mu.Lock()
		m.closed = true
		close(m.queue)
		m.mu.Unlock()
		<-m.stopped
	})
}
