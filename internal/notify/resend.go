package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"infinite-experiment/skywatch/internal/logging"
)

const (
	defaultResendBaseURL = "https://api.resend.com"
	defaultFromEmail     = "onboarding@resend.dev"
	senderName           = "SkyWatch Alerts"
)

type Config struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	Timeout   time.Duration
}

// New returns a Resend-backed notifier, or Noop when no API key is set
func New(cfg Config) Notifier {
	if strings.TrimSpace(cfg.APIKey) == "" {
		logging.Warn("Resend API key not configured, alert emails are disabled")
		return Noop{}
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultResendBaseURL
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	if strings.TrimSpace(cfg.FromEmail) == "" {
		cfg.FromEmail = defaultFromEmail
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &ResendNotifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ResendNotifier delivers email through the Resend HTTP API
type ResendNotifier struct {
	cfg        Config
	httpClient *http.Client
}

var _ Notifier = (*ResendNotifier)(nil)

func (n *ResendNotifier) Enabled() bool { return true }

func (n *ResendNotifier) SendPriceDrop(ctx context.Context, msg PriceDrop) (bool, error) {
	subject := fmt.Sprintf("Price Alert: %s to %s dropped to %s",
		msg.Route.OriginCode, msg.Route.DestinationCode, formatWhole(msg.CurrentPrice, msg.Currency))

	html, err := renderPriceDrop(msg)
	if err != nil {
		return false, err
	}

	id, err := n.send(ctx, msg.Email, subject, html)
	if err != nil {
		return false, err
	}

	logging.Info("Price alert email sent", "email", msg.Email, "message_id", id)
	return true, nil
}

func (n *ResendNotifier) SendAlertConfirmation(ctx context.Context, msg AlertConfirmation) (bool, error) {
	subject := fmt.Sprintf("Alert Confirmed: %s to %s under %s",
		msg.Route.OriginCode, msg.Route.DestinationCode, formatWhole(msg.TargetPrice, msg.Currency))

	html, err := renderConfirmation(msg)
	if err != nil {
		return false, err
	}

	id, err := n.send(ctx, msg.Email, subject, html)
	if err != nil {
		return false, err
	}

	logging.Info("Alert confirmation email sent", "email", msg.Email, "message_id", id)
	return true, nil
}

// --- Resend wire types ---

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendEmailResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// HTTPError is a non-2xx response from Resend
type HTTPError struct {
	StatusCode int
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "resend: <nil error>"
	}
	if strings.TrimSpace(e.Message) != "" {
		return fmt.Sprintf("resend http %d: %s", e.StatusCode, e.Message)
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 4000 {
		msg = msg[:4000] + "..."
	}
	return fmt.Sprintf("resend http %d: %s", e.StatusCode, msg)
}

func (n *ResendNotifier) send(ctx context.Context, to, subject, html string) (string, error) {
	if strings.TrimSpace(to) == "" {
		return "", fmt.Errorf("resend: recipient required")
	}

	wire := sendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", senderName, n.cfg.FromEmail),
		To:      []string{strings.TrimSpace(to)},
		Subject: subject,
		HTML:    html,
	}

	raw, err := n.do(ctx, http.MethodPost, "/emails", wire)
	if err != nil {
		return "", err
	}

	var resp sendEmailResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("resend: decode response: %w", err)
	}
	return resp.ID, nil
}

func (n *ResendNotifier) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, n.cfg.BaseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil {
			httpErr.Message = er.Message
		}
		return nil, httpErr
	}

	return raw, nil
}
