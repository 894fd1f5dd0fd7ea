package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Relay delivers a contact message somewhere the site owner will read it.
type Relay interface {
	Send(ctx context.Context, msg Message) error
}

// RelayError is a delivery rejected by the relay. Message is the reason the
// relay gave, if any.
type RelayError struct {
	StatusCode int
	Message    string
}

func (e *RelayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("contact relay: status %d", e.StatusCode)
	}
	return fmt.Sprintf("contact relay: status %d: %s", e.StatusCode, e.Message)
}

// FormRelay posts messages as JSON to a hosted form endpoint such as
// Formspree.
type FormRelay struct {
	url  string
	http *http.Client
}

func NewFormRelay(url string, timeout time.Duration) *FormRelay {
	return &FormRelay{url: url, http: &http.Client{Timeout: timeout}}
}

func (r *FormRelay) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode contact message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("post contact message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	relayErr := &RelayError{StatusCode: resp.StatusCode}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload); err == nil {
		relayErr.Message = payload.Error
	}
	return relayErr
}
