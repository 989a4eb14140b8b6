package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medrecall/MedRecall/internal/pkg/env"
)

const defaultAPIBaseURL = "https://api.mercadopago.com"

// Statuses reported by the provider for a payment.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Client performs authenticated calls against the Mercado Pago REST API.
type Client struct {
	AccessToken string
	APIBaseURL  string

	HTTPClient *http.Client
}

// FetchError is returned when the provider answers with a non-2xx status.
// It carries the raw response for diagnostics.
type FetchError struct {
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("mercadopago request failed: status=%d body=%s", e.StatusCode, e.Body)
}

// Payment is the authoritative payment record fetched from the provider.
// Only the fields this system consumes are mapped.
type Payment struct {
	ID     FlexibleID `json:"id"`
	Status string     `json:"status"`
	Payer  struct {
		Email string `json:"email"`
	} `json:"payer"`
	Metadata struct {
		Email  string     `json:"email"`
		UserID FlexibleID `json:"user_id"`
	} `json:"metadata"`
	AdditionalInfo struct {
		Payer struct {
			Email string `json:"email"`
		} `json:"payer"`
	} `json:"additional_info"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
			TicketURL    string `json:"ticket_url"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

// IsApproved reports whether the payment reached the approved status.
func (p *Payment) IsApproved() bool {
	return strings.EqualFold(strings.TrimSpace(p.Status), StatusApproved)
}

// FlexibleID tolerates the provider sending identifiers as JSON strings or
// numbers (metadata round-trips change the type).
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}

func (f FlexibleID) String() string {
	return string(f)
}

// NewClientFromEnv builds a client from MP_ACCESS_TOKEN / MP_API_BASE_URL.
func NewClientFromEnv() *Client {
	return &Client{
		AccessToken: strings.TrimSpace(env.GetEnv("MP_ACCESS_TOKEN", "")),
		APIBaseURL:  strings.TrimRight(env.GetEnv("MP_API_BASE_URL", defaultAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchPayment loads the full payment record by ID. The inbound webhook
// notification only proves that something happened; this call is the source
// of truth for status and payer identity.
func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	id := strings.TrimSpace(paymentID)
	if id == "" {
		return nil, errors.New("payment id is required")
	}
	if strings.TrimSpace(c.AccessToken) == "" {
		return nil, errors.New("MP_ACCESS_TOKEN is not configured")
	}

	url := strings.TrimRight(c.APIBaseURL, "/") + "/v1/payments/" + id
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out Payment
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePaymentInput describes a new PIX payment to create for a user.
// Email and UserID end up in the payment metadata so the webhook reconciler
// can later resolve the owning user.
type CreatePaymentInput struct {
	Amount      float64
	Description string
	PayerEmail  string
	UserID      uint
}

// CreatePayment creates a PIX payment carrying the user identity in
// metadata.
func (c *Client) CreatePayment(ctx context.Context, in CreatePaymentInput) (*Payment, error) {
	if strings.TrimSpace(c.AccessToken) == "" {
		return nil, errors.New("MP_ACCESS_TOKEN is not configured")
	}
	if in.Amount <= 0 {
		return nil, errors.New("payment amount must be positive")
	}
	if strings.TrimSpace(in.PayerEmail) == "" {
		return nil, errors.New("payer email is required")
	}

	payload := map[string]interface{}{
		"transaction_amount": in.Amount,
		"description":        in.Description,
		"payment_method_id":  "pix",
		"payer": map[string]string{
			"email": strings.TrimSpace(in.PayerEmail),
		},
		"metadata": map[string]interface{}{
			"email":   strings.TrimSpace(in.PayerEmail),
			"user_id": in.UserID,
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(c.APIBaseURL, "/") + "/v1/payments"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// The provider rejects replays of the same idempotency key with a
	// different body, so every create gets a fresh one.
	req.Header.Set("X-Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out Payment
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
