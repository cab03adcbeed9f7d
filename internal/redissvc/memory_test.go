package redissvc

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.SetClock(func() time.Time { return now })
	ctx := context.Background()

	_ = m.Revoke(ctx, "jti-1", time.Minute)
	if revoked, _ := m.IsRevoked(ctx, "jti-1"); !revoked {
		t.Fatal("expected token to be revoked")
	}

	now = now.Add(time.Minute)
	if revoked, _ := m.IsRevoked(ctx, "jti-1"); revoked {
		t.Error("expected revocation to expire with the token")
	}
}

func TestMemoryStore_StrikesAndBan(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.SetClock(func() time.Time { return now })
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, _ := m.Strike(ctx, "1.2.3.4", time.Minute)
		if n != i {
			t.Fatalf("expected strike %d, got %d", i, n)
		}
	}

	now = now.Add(2 * time.Minute)
	if n, _ := m.Strike(ctx, "1.2.3.4", time.Minute); n != 1 {
		t.Errorf("expected strike window to reset, got %d", n)
	}

	_ = m.Ban(ctx, "1.2.3.4", 10*time.Minute)
	if banned, _ := m.IsBanned(ctx, "1.2.3.4"); !banned {
		t.Fatal("expected ban")
	}
	if n, _ := m.Strike(ctx, "1.2.3.4", time.Minute); n != 1 {
		t.Errorf("expected strikes cleared by ban, got %d", n)
	}

	now = now.Add(10 * time.Minute)
	if banned, _ := m.IsBanned(ctx, "1.2.3.4"); banned {
		t.Error("expected ban to expire")
	}
}
