package entitlements

import "strings"

// Limits for users without an active subscription. Subscribers are
// unlimited.
const (
	FreeMaxDecks             = 3
	FreeMaxFlashcardsPerDeck = 50
)

// MaxDecks returns the deck limit for a subscription status, 0 meaning
// unlimited.
func MaxDecks(subscriptionStatus string) int {
	if isActive(subscriptionStatus) {
		return 0
	}
	return FreeMaxDecks
}

// MaxFlashcardsPerDeck returns the per-deck card limit, 0 meaning unlimited.
func MaxFlashcardsPerDeck(subscriptionStatus string) int {
	if isActive(subscriptionStatus) {
		return 0
	}
	return FreeMaxFlashcardsPerDeck
}

// WithinLimit reports whether count more of a resource may be created under
// the given limit (0 = unlimited).
func WithinLimit(current int64, limit int) bool {
	if limit <= 0 {
		return true
	}
	return current < int64(limit)
}

func isActive(subscriptionStatus string) bool {
	return strings.ToLower(strings.TrimSpace(subscriptionStatus)) == "active"
}
