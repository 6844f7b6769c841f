package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	intconfig "onnrides/internal/config"
)

// Sender delivers a text message to a customer phone number.
type Sender interface {
	Send(ctx context.Context, toPhone, message string) error
}

// WhatsAppClient posts messages to the WhatsApp business API. It is
// constructed explicitly and passed to whoever needs it; there is no
// process-wide instance.
type WhatsAppClient struct {
	APIURL     string
	Token      string
	Sender     string
	HTTPClient *http.Client

	// MaxAttempts counts the first try plus retries; Backoff doubles after
	// every failed attempt.
	MaxAttempts int
	Backoff     time.Duration
}

func NewWhatsAppClient(env intconfig.Env) *WhatsAppClient {
	return &WhatsAppClient{
		APIURL:      env.WhatsAppAPIURL,
		Token:       env.WhatsAppToken,
		Sender:      env.WhatsAppSender,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		MaxAttempts: 3,
		Backoff:     2 * time.Second,
	}
}

type whatsappPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

// Send delivers one message, retrying transient failures with exponential
// backoff. A 4xx response is not retried.
func (c *WhatsAppClient) Send(ctx context.Context, toPhone, message string) error {
	if c.APIURL == "" || c.Token == "" {
		return fmt.Errorf("whatsapp client not configured")
	}
	if toPhone == "" {
		return fmt.Errorf("recipient phone is empty")
	}

	payload := whatsappPayload{From: c.Sender, To: toPhone, Type: "text"}
	payload.Text.Body = message
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	attempts := c.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := c.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		lastErr = c.post(ctx, body)
		if lastErr == nil {
			return nil
		}
		if permanent, ok := lastErr.(permanentError); ok {
			return permanent.err
		}
		log.Printf("[WHATSAPP] attempt %d/%d to %s failed: %v", attempt, attempts, toPhone, lastErr)
	}
	return fmt.Errorf("whatsapp send to %s failed after %d attempts: %w", toPhone, attempts, lastErr)
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }

func (c *WhatsAppClient) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	err = fmt.Errorf("whatsapp api status %d: %s", resp.StatusCode, string(respBody))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return permanentError{err: err}
	}
	return err
}

// NopSender logs and drops messages; used when WhatsApp is not configured so
// collection and reminder flows keep working in development.
type NopSender struct{}

func (NopSender) Send(_ context.Context, toPhone, message string) error {
	log.Printf("[WHATSAPP] not configured, dropping message to %s: %s", toPhone, message)
	return nil
}
