package alert

import (
	"context"
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/aluiziolira/go-price-watch/config"
	"github.com/aluiziolira/go-price-watch/models"
)

// sendFunc matches smtp.SendMail, injected for tests.
type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends plain-text alert e-mails.
type SMTPNotifier struct {
	server     string
	port       int
	user       string
	password   string
	recipients []string
	send       sendFunc
}

// NewSMTPNotifier builds a notifier from the e-mail settings in cfg.
func NewSMTPNotifier(cfg *config.Config) *SMTPNotifier {
	return &SMTPNotifier{
		server:     cfg.SMTPServer,
		port:       cfg.SMTPPort,
		user:       cfg.EmailUser,
		password:   cfg.EmailPassword,
		recipients: cfg.EmailRecipients,
		send:       smtp.SendMail,
	}
}

// PriceAlert mails the threshold-crossing price movements. No-op on an empty
// list.
func (n *SMTPNotifier) PriceAlert(ctx context.Context, changes []models.PriceChange) error {
	if len(changes) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d price change(s) detected:\n\n", len(changes))
	for _, change := range changes {
		fmt.Fprintf(&b, "- %s\n  %s -> %s (%s%%)\n  %s\n\n",
			titleOrURL(change.Title, change.URL),
			change.OldPrice, change.NewPrice, change.ChangePercent,
			change.URL,
		)
	}

	subject := fmt.Sprintf("Price alert: %d change(s)", len(changes))
	return n.mail(ctx, subject, b.String())
}

// AvailabilityAlert mails the stock transitions. No-op on an empty list.
func (n *SMTPNotifier) AvailabilityAlert(ctx context.Context, changes []models.AvailabilityChange) error {
	if len(changes) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d availability change(s) detected:\n\n", len(changes))
	for _, change := range changes {
		fmt.Fprintf(&b, "- %s\n  %s -> %s\n  %s\n\n",
			titleOrURL(change.Title, change.URL),
			change.OldAvailability, change.NewAvailability,
			change.URL,
		)
	}

	subject := fmt.Sprintf("Availability alert: %d change(s)", len(changes))
	return n.mail(ctx, subject, b.String())
}

// Summary mails the run-level statistics.
func (n *SMTPNotifier) Summary(ctx context.Context, summary models.RunSummary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Monitoring run finished at %s\n\n", summary.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Products: %d (%d ok, %d failed) across %d site(s)\n",
		summary.TotalProducts, summary.SuccessfulScrapes, summary.FailedScrapes, summary.SitesScraped)
	if summary.SuccessfulScrapes > 0 {
		fmt.Fprintf(&b, "Average price: %s (range %s - %s)\n",
			summary.AveragePrice, summary.PriceRange.Min, summary.PriceRange.Max)
	}
	availabilities := make([]models.Availability, 0, len(summary.AvailabilityStats))
	for availability := range summary.AvailabilityStats {
		availabilities = append(availabilities, availability)
	}
	sort.Slice(availabilities, func(i, j int) bool { return availabilities[i] < availabilities[j] })
	for _, availability := range availabilities {
		fmt.Fprintf(&b, "  %s: %d\n", availability, summary.AvailabilityStats[availability])
	}

	return n.mail(ctx, "Price monitor run summary", b.String())
}

func (n *SMTPNotifier) mail(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		n.user, strings.Join(n.recipients, ", "), subject, body)

	var auth smtp.Auth
	if n.user != "" {
		auth = smtp.PlainAuth("", n.user, n.password, n.server)
	}

	addr := fmt.Sprintf("%s:%d", n.server, n.port)
	if err := n.send(addr, auth, n.user, n.recipients, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func titleOrURL(title, url string) string {
	if title != "" {
		return title
	}
	return url
}
