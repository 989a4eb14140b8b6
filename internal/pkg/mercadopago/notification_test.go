package mercadopago

import "testing"

func TestParseWebhookNotificationGenericShape(t *testing.T) {
	n, err := ParseWebhookNotification([]byte(`{"type":"payment","data":{"id":"PAY1"}}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if n.Kind != "payment" || n.PaymentID != "PAY1" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if !n.IsPaymentEvent() {
		t.Fatalf("expected payment event")
	}
}

func TestParseWebhookNotificationActionShape(t *testing.T) {
	n, err := ParseWebhookNotification([]byte(`{"action":"payment.updated","data":{"id":12345}}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if n.Kind != "payment.updated" || n.PaymentID != "12345" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if !n.IsPaymentEvent() {
		t.Fatalf("expected payment.updated to classify as payment event")
	}
}

func TestParseWebhookNotificationIDPriority(t *testing.T) {
	// data.id wins over the top-level id.
	n, err := ParseWebhookNotification([]byte(`{"type":"payment","id":"TOP","data":{"id":"INNER"}}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if n.PaymentID != "INNER" {
		t.Fatalf("expected data.id to win, got %q", n.PaymentID)
	}

	// Top-level id is the fallback.
	n, err = ParseWebhookNotification([]byte(`{"type":"payment","id":"TOP"}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if n.PaymentID != "TOP" {
		t.Fatalf("expected top-level id fallback, got %q", n.PaymentID)
	}
}

func TestParseWebhookNotificationUnrelatedKind(t *testing.T) {
	n, err := ParseWebhookNotification([]byte(`{"type":"refund","data":{"id":"X"}}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if n.IsPaymentEvent() {
		t.Fatalf("refund must not classify as payment event")
	}
}

func TestParseWebhookNotificationMissingID(t *testing.T) {
	n, err := ParseWebhookNotification([]byte(`{"type":"payment"}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if n.PaymentID != "" {
		t.Fatalf("expected empty payment id, got %q", n.PaymentID)
	}
}

func TestParseWebhookNotificationMalformed(t *testing.T) {
	if _, err := ParseWebhookNotification([]byte(`{"type":`)); err == nil {
		t.Fatalf("expected malformed payload to error")
	}
}
