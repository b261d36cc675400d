package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"
	"gopkg.in/gomail.v2"

	"ballpark-api/config"
	"ballpark-api/models"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestEmailServicePostPublished(t *testing.T) {
	content := "First pitch at 7 #Cubs"
	post := models.Post{
		ID:       "p1",
		AuthorID: "u1",
		Content:  &content,
		Author:   models.User{ID: "u1", Username: "fan", Name: "Casey", Email: "casey@example.com"},
	}
	cfg := config.SMTPConfig{Enabled: true, FromEmail: "noreply@example.com", FromName: "Ballpark"}

	t.Run("sends", func(t *testing.T) {
		dialer := &fakeDialer{}
		es := NewEmailService(cfg)
		es.dialer = dialer

		if err := es.PostPublished(context.Background(), post); err != nil {
			t.Fatalf("PostPublished: %v", err)
		}
		if len(dialer.sent) != 1 {
			t.Fatalf("sent %d messages, want 1", len(dialer.sent))
		}
		if to := dialer.sent[0].GetHeader("To"); len(to) != 1 || !strings.Contains(to[0], "casey@example.com") {
			t.Errorf("To = %v", to)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		dialer := &fakeDialer{}
		off := cfg
		off.Enabled = false
		es := NewEmailService(off)
		es.dialer = dialer

		if err := es.PostPublished(context.Background(), post); err != nil {
			t.Fatalf("PostPublished: %v", err)
		}
		if len(dialer.sent) != 0 {
			t.Errorf("sent mail with SMTP disabled")
		}
	})

	t.Run("dial error", func(t *testing.T) {
		boom := errors.New("connection refused")
		es := NewEmailService(cfg)
		es.dialer = &fakeDialer{err: boom}

		if err := es.PostPublished(context.Background(), post); !errors.Is(err, boom) {
			t.Fatalf("err = %v, want %v", err, boom)
		}
	})

	t.Run("breaker opens", func(t *testing.T) {
		dialer := &fakeDialer{err: errors.New("connection refused")}
		es := NewEmailService(cfg)
		es.dialer = dialer

		for i := 0; i < mailFailureThreshold+2; i++ {
			_ = es.PostPublished(context.Background(), post)
		}
		if len(dialer.sent) != mailFailureThreshold {
			t.Errorf("dialed %d times, want %d", len(dialer.sent), mailFailureThreshold)
		}
		if err := es.PostPublished(context.Background(), post); !errors.Is(err, gobreaker.ErrOpenState) {
			t.Errorf("err = %v, want ErrOpenState", err)
		}
	})
}
