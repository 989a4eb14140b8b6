package mercadopago

import (
	"encoding/json"
	"strings"
)

// WebhookNotification is the normalized form of an inbound provider
// notification. It only proves that something happened; the payment itself
// must be fetched back from the provider.
type WebhookNotification struct {
	Kind      string
	PaymentID string
}

// IsPaymentEvent reports whether the notification describes a payment event
// ("payment" for the generic shape, "payment.<action>" for the action shape).
func (n WebhookNotification) IsPaymentEvent() bool {
	return n.Kind == "payment" || strings.HasPrefix(n.Kind, "payment.")
}

// The provider delivers one of two known notification shapes. Both are
// modeled explicitly instead of duck-typing field presence.
type genericNotification struct {
	Type string     `json:"type"`
	ID   FlexibleID `json:"id"`
	Data struct {
		ID FlexibleID `json:"id"`
	} `json:"data"`
}

type actionNotification struct {
	Action string `json:"action"`
	Data   struct {
		ID FlexibleID `json:"id"`
	} `json:"data"`
}

// ParseWebhookNotification normalizes a raw webhook body into a
// WebhookNotification. The payment ID is taken from data.id first, then the
// top-level id; first non-empty wins. An empty PaymentID is not an error
// here — the reconciler decides how to acknowledge it.
func ParseWebhookNotification(payload []byte) (WebhookNotification, error) {
	var generic genericNotification
	if err := json.Unmarshal(payload, &generic); err != nil {
		return WebhookNotification{}, err
	}

	if strings.TrimSpace(generic.Type) != "" {
		n := WebhookNotification{Kind: strings.TrimSpace(generic.Type)}
		n.PaymentID = firstNonEmpty(generic.Data.ID.String(), generic.ID.String())
		return n, nil
	}

	var action actionNotification
	if err := json.Unmarshal(payload, &action); err != nil {
		return WebhookNotification{}, err
	}
	n := WebhookNotification{Kind: strings.TrimSpace(action.Action)}
	n.PaymentID = action.Data.ID.String()
	return n, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
