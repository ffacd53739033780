package service

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryRefreshTokenStore_OwnerAndExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	store := newMemoryRefreshTokenStore(func() time.Time { return now })
	ctx := t.Context()

	if _, err := store.Owner(ctx, "missing"); !errors.Is(err, ErrRefreshUnknown) {
		t.Fatalf("expected ErrRefreshUnknown, got %v", err)
	}
	if err := store.Save(ctx, "jti-1", "user-ana", time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	if owner, err := store.Owner(ctx, "jti-1"); err != nil || owner != "user-ana" {
		t.Fatalf("expected owner user-ana, got %q,%v", owner, err)
	}

	now = now.Add(time.Minute)
	if _, err := store.Owner(ctx, "jti-1"); !errors.Is(err, ErrRefreshUnknown) {
		t.Fatalf("expected session expired at ttl, got %v", err)
	}
	if len(store.byUser) != 0 {
		t.Fatalf("expected user index emptied, got %v", store.byUser)
	}
	if err := store.Save(ctx, " ", "user-ana", time.Minute); err == nil {
		t.Fatalf("expected error for empty jti")
	}
}

func TestMemoryRefreshTokenStore_SaveSweepsExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	store := newMemoryRefreshTokenStore(func() time.Time { return now })
	ctx := t.Context()

	_ = store.Save(ctx, "old-1", "user-ana", time.Minute)
	_ = store.Save(ctx, "old-2", "user-bo", time.Minute)
	now = now.Add(2 * time.Minute)
	_ = store.Save(ctx, "fresh", "user-ana", time.Minute)

	if len(store.sessions) != 1 {
		t.Fatalf("expected expired sessions swept, got %d", len(store.sessions))
	}
	if _, ok := store.byUser["user-bo"]; ok {
		t.Fatalf("expected user-bo index removed")
	}
}

func TestMemoryRefreshTokenStore_RevokeAll(t *testing.T) {
	store := NewMemoryRefreshTokenStore()
	ctx := t.Context()
	_ = store.Save(ctx, "a1", "user-ana", time.Hour)
	_ = store.Save(ctx, "a2", "user-ana", time.Hour)
	_ = store.Save(ctx, "b1", "user-bo", time.Hour)

	if err := store.Revoke(ctx, "a1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := store.Owner(ctx, "a1"); !errors.Is(err, ErrRefreshUnknown) {
		t.Fatalf("expected a1 revoked, got %v", err)
	}
	if err := store.RevokeAll(ctx, "user-ana"); err != nil {
		t.Fatalf("revoke all: %v", err)
	}
	if _, err := store.Owner(ctx, "a2"); !errors.Is(err, ErrRefreshUnknown) {
		t.Fatalf("expected a2 revoked, got %v", err)
	}
	if owner, err := store.Owner(ctx, "b1"); err != nil || owner != "user-bo" {
		t.Fatalf("expected b1 untouched, got %q,%v", owner, err)
	}
}

func TestRedisRefreshTokenStore_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := t.Context()

	store := NewRedisRefreshTokenStore(client)
	if err := store.Save(ctx, " j1 ", "user-ana", 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "j2", "user-ana", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got, _ := mr.Get("tara:refresh:j1"); got != "user-ana" {
		t.Fatalf("expected user id under trimmed key, got %q", got)
	}
	if mr.TTL("tara:refresh:j1") != defaultRefreshTTL {
		t.Fatalf("expected default ttl, got %v", mr.TTL("tara:refresh:j1"))
	}
	if ok, _ := mr.SIsMember("tara:refresh-sessions:user-ana", "j2"); !ok {
		t.Fatalf("expected j2 indexed for user-ana")
	}

	if owner, err := store.Owner(ctx, "j1"); err != nil || owner != "user-ana" {
		t.Fatalf("expected owner user-ana, got %q,%v", owner, err)
	}
	if err := store.Revoke(ctx, "j1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := store.Owner(ctx, "j1"); !errors.Is(err, ErrRefreshUnknown) {
		t.Fatalf("expected j1 revoked, got %v", err)
	}
	if ok, _ := mr.SIsMember("tara:refresh-sessions:user-ana", "j1"); ok {
		t.Fatalf("expected j1 removed from user index")
	}

	if err := store.RevokeAll(ctx, "user-ana"); err != nil {
		t.Fatalf("revoke all: %v", err)
	}
	if mr.Exists("tara:refresh:j2") || mr.Exists("tara:refresh-sessions:user-ana") {
		t.Fatalf("expected every session key of user-ana removed")
	}
	if NewRedisRefreshTokenStore(nil) != nil {
		t.Fatalf("expected nil store for nil client")
	}
}

func TestRedisRefreshTokenStore_ErrorPaths(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	store := NewRedisRefreshTokenStore(client)
	ctx := t.Context()

	if _, err := store.Owner(ctx, ""); !errors.Is(err, ErrRefreshUnknown) {
		t.Fatalf("empty jti should be unknown, got %v", err)
	}
	mr.Close()

	if err := store.Save(ctx, "j3", "user-ana", time.Minute); err == nil {
		t.Fatalf("expected save error")
	}
	if _, err := store.Owner(ctx, "j3"); err == nil || errors.Is(err, ErrRefreshUnknown) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
	if err := store.Revoke(ctx, "j3"); err == nil {
		t.Fatalf("expected revoke error")
	}
	if err := store.RevokeAll(ctx, "user-ana"); err == nil {
		t.Fatalf("expected revoke all error")
	}
}
