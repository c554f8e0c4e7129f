package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"kenyaMart/domain"
	"kenyaMart/pkg/logger"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pobyzaarif/goshortcute"
)

type MailjetConfig struct {
	MailjetBaseURL           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderEmail       string
	MailjetSenderName        string
}

// Enabled reports whether enough is configured to send mail.
func (c MailjetConfig) Enabled() bool {
	return c.MailjetBaseURL != "" && c.MailjetSenderEmail != ""
}

type MailjetRepository struct {
	mailjetConfig MailjetConfig
	client        *http.Client
}

func NewMailjetRepository(cfg MailjetConfig) *MailjetRepository {
	return &MailjetRepository{
		mailjetConfig: cfg,
		client:        &http.Client{Timeout: 5 * time.Second},
	}
}

type payloadSendEmail struct {
	Messages []message `json:"Messages"`
}

type address struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type message struct {
	From     address   `json:"From"`
	To       []address `json:"To"`
	Subject  string    `json:"Subject"`
	TextPart string    `json:"TextPart"`
	HTMLPart string    `json:"HTMLPart"`
}

// SendOrderConfirmation mails the owner a summary of a placed order.
func (r *MailjetRepository) SendOrderConfirmation(ctx context.Context, toEmail string, order domain.Order) error {
	subject := fmt.Sprintf("Your KenyaMart order %s", shortID(order.ID))
	return r.send(ctx, toEmail, subject, orderText(order), orderHTML(order))
}

func (r *MailjetRepository) send(ctx context.Context, toEmail, subject, text, html string) error {
	url := r.mailjetConfig.MailjetBaseURL + "/v3.1/send"

	payload := payloadSendEmail{
		Messages: []message{{
			From: address{
				Email: r.mailjetConfig.MailjetSenderEmail,
				Name:  r.mailjetConfig.MailjetSenderName,
			},
			To:       []address{{Email: toEmail}},
			Subject:  subject,
			TextPart: text,
			HTMLPart: html,
		}},
	}

	payloadByte, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadByte))
	if err != nil {
		return err
	}

	buildBasicAuth := goshortcute.StringtoBase64Encode(r.mailjetConfig.MailjetBasicAuthUsername + ":" + r.mailjetConfig.MailjetBasicAuthPassword)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Basic "+buildBasicAuth)

	res, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	logger.Warn("Mailjet rejected message", slog.Int("status", res.StatusCode), slog.String("body", string(bodyBytes)))

	return fmt.Errorf("mailer service return negative response %v", res.StatusCode)
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

func orderText(order domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order %s.\n\n", shortID(order.ID))
	for _, it := range order.Items {
		fmt.Fprintf(&b, "%d x %s @ KES %s\n", it.Quantity, it.ProductID, it.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: KES %s\nPayment: cash on delivery\n", order.TotalAmount.StringFixed(2))
	return b.String()
}

func orderHTML(order domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h3>Thank you for your order %s</h3><ul>", shortID(order.ID))
	for _, it := range order.Items {
		fmt.Fprintf(&b, "<li>%d x %s @ KES %s</li>", it.Quantity, it.ProductID, it.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "</ul><p><strong>Total: KES %s</strong><br>Payment: cash on delivery</p>", order.TotalAmount.StringFixed(2))
	return b.String()
}
