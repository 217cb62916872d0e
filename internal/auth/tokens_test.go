package auth_test

import (
	"errors"
	"testing"
	"time"

	"stayhub/internal/auth"
	"stayhub/internal/domain"
)

func TestIssueAndVerifyPair(t *testing.T) {
	iss := auth.NewIssuer("test-secret", time.Hour, 24*time.Hour)

	pair, err := iss.IssuePair("u1", "ana@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, err := iss.Verify(pair.Access, auth.KindAccess)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if c.Subject != "u1" || c.Email != "ana@example.com" {
		t.Fatalf("claims = %+v", c)
	}
	if _, err := iss.Verify(pair.Refresh, auth.KindRefresh); err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
}

func TestVerify_KindMismatch(t *testing.T) {
	iss := auth.NewIssuer("test-secret", time.Hour, 24*time.Hour)
	pair, err := iss.IssuePair("u1", "ana@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := iss.Verify(pair.Refresh, auth.KindAccess); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("refresh accepted as access: %v", err)
	}
}

func TestVerify_WrongSecretAndExpiry(t *testing.T) {
	iss := auth.NewIssuer("secret-a", time.Hour, time.Hour)
	other := auth.NewIssuer("secret-b", time.Hour, time.Hour)
	pair, err := iss.IssuePair("u1", "a@b.c")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := other.Verify(pair.Access, auth.KindAccess); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("token verified with wrong secret: %v", err)
	}

	expired := auth.NewIssuer("secret-a", -time.Minute, -time.Minute)
	pair, err = expired.IssuePair("u1", "a@b.c")
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}
	if _, err := expired.Verify(pair.Access, auth.KindAccess); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expired token verified: %v", err)
	}
}
