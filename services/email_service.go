// File: /services/email_service.go
package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"gopkg.in/gomail.v2"

	"ballpark-api/config"
	"ballpark-api/logging"
	"ballpark-api/models"
)

// mailSender is the part of gomail.Dialer the email service uses.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService tells authors when a scheduled post goes live.
type EmailService struct {
	cfg     config.SMTPConfig
	dialer  mailSender
	breaker *gobreaker.CircuitBreaker[struct{}]
	log     zerolog.Logger
}

// Consecutive SMTP failures before sends are skipped for mailCooldown.
const (
	mailFailureThreshold = 3
	mailCooldown         = time.Minute
)

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	es := &EmailService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		log:    logging.With("email"),
	}
	es.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     mailCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= mailFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			es.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("smtp breaker state changed")
		},
	})
	return es
}

// PostPublished sends the publish notice. It does nothing when SMTP is off
// or the author has no address on file.
func (es *EmailService) PostPublished(ctx context.Context, post models.Post) error {
	if !es.cfg.Enabled || post.Author.Email == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := es.publishedMessage(post)
	_, err := es.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, es.dialer.DialAndSend(m)
	})
	if err != nil {
		return fmt.Errorf("failed to send publish notice: %w", err)
	}

	es.log.Info().Str("post_id", post.ID).Str("author_id", post.AuthorID).Msg("publish notice sent")
	return nil
}

func (es *EmailService) publishedMessage(post models.Post) *gomail.Message {
	name := post.Author.Name
	if name == "" {
		name = post.Author.Username
	}
	preview := ""
	if post.Content != nil {
		preview = *post.Content
		if r := []rune(preview); len(r) > 140 {
			preview = string(r[:140]) + "..."
		}
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", es.cfg.FromEmail, es.cfg.FromName)
	m.SetAddressHeader("To", post.Author.Email, name)
	m.SetHeader("Subject", "Your scheduled post is live")

	textBody := fmt.Sprintf(`Hi %s,

Your scheduled post just went live on Ballpark.

%s

See you at the ballpark!
`, name, preview)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Your post is live</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <h2>Hi %s,</h2>
  <p>Your scheduled post just went live on Ballpark.</p>
  <blockquote style="border-left: 4px solid #0b6e4f; padding-left: 12px; color: #555;">%s</blockquote>
  <p>See you at the ballpark!</p>
</body>
</html>`, html.EscapeString(name), html.EscapeString(preview))

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)
	return m
}
