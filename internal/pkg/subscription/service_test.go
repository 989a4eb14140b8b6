package subscription

import (
	"context"
	"testing"
	"time"
)

func TestActivationWindowIsAbsolute(t *testing.T) {
	repo := &fakeRepo{rows: 1}
	svc := NewService(repo)

	first := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return first })
	if _, err := svc.ActivateByUserID(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := first.Add(30 * 24 * time.Hour); !repo.lastEndDate.Equal(want) {
		t.Fatalf("expected end date %v, got %v", want, repo.lastEndDate)
	}

	// Redelivery ten days later: the end date must be recomputed from the
	// later clock reading, not extended on top of the previous window.
	second := first.Add(10 * 24 * time.Hour)
	svc.WithNow(func() time.Time { return second })
	if _, err := svc.ActivateByUserID(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := second.Add(30 * 24 * time.Hour); !repo.lastEndDate.Equal(want) {
		t.Fatalf("expected end date %v after redelivery, got %v", want, repo.lastEndDate)
	}
}

func TestActivateValidatesInput(t *testing.T) {
	svc := NewService(&fakeRepo{rows: 1})

	if _, err := svc.ActivateByUserID(context.Background(), 0); err == nil {
		t.Fatalf("expected error for zero user id")
	}
	if _, err := svc.ActivateByEmail(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for blank email")
	}
}

func TestActivateByEmailTrims(t *testing.T) {
	repo := &fakeRepo{rows: 1}
	svc := NewService(repo)

	if _, err := svc.ActivateByEmail(context.Background(), " doc@medrecall.app "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.activateEmailCalls) != 1 || repo.activateEmailCalls[0] != "doc@medrecall.app" {
		t.Fatalf("expected trimmed email, got %v", repo.activateEmailCalls)
	}
}
