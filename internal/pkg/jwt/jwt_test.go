package jwt

import (
	"testing"

	"github.com/medrecall/MedRecall/internal/pkg/env"
)

func setSecret(t *testing.T, value string) {
	t.Helper()
	if env.Env == nil {
		env.Env = map[string]string{}
	}
	old, had := env.Env["JWT_SECRET"]
	env.Env["JWT_SECRET"] = value
	t.Cleanup(func() {
		if had {
			env.Env["JWT_SECRET"] = old
		} else {
			delete(env.Env, "JWT_SECRET")
		}
	})
}

func TestIssueAndVerify(t *testing.T) {
	setSecret(t, "test-secret")

	token, err := Issue(42, "doc@medrecall.app")
	if err != nil {
		t.Fatalf("unexpected issue error: %v", err)
	}

	claims, err := Verify(token)
	if err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "doc@medrecall.app" {
		t.Fatalf("unexpected claims: uid=%d email=%q", claims.UserID, claims.Email)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	setSecret(t, "test-secret")

	if _, err := Verify("not.a.token"); err == nil {
		t.Fatalf("expected garbage token to be rejected")
	}
	if _, err := Verify(""); err == nil {
		t.Fatalf("expected empty token to be rejected")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	setSecret(t, "secret-a")
	token, err := Issue(7, "a@b.cd")
	if err != nil {
		t.Fatalf("unexpected issue error: %v", err)
	}

	setSecret(t, "secret-b")
	if _, err := Verify(token); err == nil {
		t.Fatalf("expected token signed with a different secret to be rejected")
	}
}

func TestIssueRequiresSecret(t *testing.T) {
	setSecret(t, "")

	if _, err := Issue(1, "a@b.cd"); err == nil {
		t.Fatalf("expected issue to fail without JWT_SECRET")
	}
}
