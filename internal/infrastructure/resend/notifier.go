package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/authkit/authkit/internal/config"
	"github.com/authkit/authkit/internal/infrastructure/email"
)

const defaultEndpoint = "https://api.resend.com/emails"

// Notifier delivers auth emails through the Resend HTTP API.
type Notifier struct {
	endpoint string
	apiKey   string
	from     string
	fromName string
	appName  string
	client   *http.Client
}

func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		endpoint: defaultEndpoint,
		apiKey:   cfg.ResendAPIKey,
		from:     cfg.ResendFromEmail,
		fromName: cfg.ResendFromName,
		appName:  cfg.AppName,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *Notifier) SendVerificationEmail(ctx context.Context, to, token, baseURL string) error {
	subject, html := email.Verification(n.appName, token, baseURL)
	return n.send(ctx, to, subject, html)
}

func (n *Notifier) SendPasswordResetEmail(ctx context.Context, to, token, baseURL string) error {
	subject, html := email.PasswordReset(n.appName, token, baseURL)
	return n.send(ctx, to, subject, html)
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (n *Notifier) send(ctx context.Context, to, subject, html string) error {
	from := n.from
	if n.fromName != "" {
		from = fmt.Sprintf("%s <%s>", n.fromName, n.from)
	}

	body, err := json.Marshal(sendRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("marshal resend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("call resend api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return fmt.Errorf("resend api: %s", apiErr.Message)
	}
	return nil
}
