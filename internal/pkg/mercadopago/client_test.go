package mercadopago

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		AccessToken: "test-token",
		APIBaseURL:  baseURL,
		HTTPClient:  &http.Client{},
	}
}

func TestFetchPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/123" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 123,
			"status": "approved",
			"payer": {"email": "payer@example.com"},
			"metadata": {"email": "meta@example.com", "user_id": 42},
			"additional_info": {"payer": {"email": "nested@example.com"}}
		}`))
	}))
	defer srv.Close()

	p, err := newTestClient(srv.URL).FetchPayment(context.Background(), "123")
	if err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}
	if p.ID.String() != "123" {
		t.Fatalf("expected numeric id to normalize to %q, got %q", "123", p.ID)
	}
	if !p.IsApproved() {
		t.Fatalf("expected approved payment")
	}
	if p.Metadata.UserID.String() != "42" {
		t.Fatalf("expected metadata user_id 42, got %q", p.Metadata.UserID)
	}
	if p.Payer.Email != "payer@example.com" || p.AdditionalInfo.Payer.Email != "nested@example.com" {
		t.Fatalf("unexpected payer emails: %q / %q", p.Payer.Email, p.AdditionalInfo.Payer.Email)
	}
}

func TestFetchPaymentNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"payment not found"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchPayment(context.Background(), "999")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", fetchErr.StatusCode)
	}
	if fetchErr.Body == "" {
		t.Fatalf("expected body to be carried for diagnostics")
	}
}

func TestFetchPaymentRequiresID(t *testing.T) {
	if _, err := newTestClient("http://unused").FetchPayment(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty payment id")
	}
}

func TestCreatePaymentSendsMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payments" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Idempotency-Key") == "" {
			t.Fatalf("expected idempotency key header")
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		meta, _ := body["metadata"].(map[string]interface{})
		if meta["email"] != "doc@medrecall.app" {
			t.Fatalf("expected metadata email, got %v", meta["email"])
		}
		if meta["user_id"] != float64(42) {
			t.Fatalf("expected metadata user_id 42, got %v", meta["user_id"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "555", "status": "pending"}`))
	}))
	defer srv.Close()

	p, err := newTestClient(srv.URL).CreatePayment(context.Background(), CreatePaymentInput{
		Amount:      19.90,
		Description: "Assinatura MedRecall",
		PayerEmail:  "doc@medrecall.app",
		UserID:      42,
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if p.ID.String() != "555" || p.Status != StatusPending {
		t.Fatalf("unexpected payment: id=%q status=%q", p.ID, p.Status)
	}
}

func TestFlexibleID(t *testing.T) {
	var p Payment
	if err := json.Unmarshal([]byte(`{"id":"abc","metadata":{"user_id":"77"}}`), &p); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	if p.ID.String() != "abc" || p.Metadata.UserID.String() != "77" {
		t.Fatalf("unexpected ids: %q / %q", p.ID, p.Metadata.UserID)
	}

	var q Payment
	if err := json.Unmarshal([]byte(`{"id":9007199254740993,"metadata":{"user_id":null}}`), &q); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	if q.ID.String() != "9007199254740993" {
		t.Fatalf("large numeric id must not lose precision, got %q", q.ID)
	}
	if q.Metadata.UserID.String() != "" {
		t.Fatalf("null user_id should normalize to empty, got %q", q.Metadata.UserID)
	}
}
