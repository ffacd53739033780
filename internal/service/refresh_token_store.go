package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRefreshTTL   = 30 * 24 * time.Hour
	refreshStoreTimeout = 500 * time.Millisecond
)

// ErrRefreshUnknown indica que el jti nunca se emitio, expiro o fue revocado.
var ErrRefreshUnknown = errors.New("refresh session unknown")

var errEmptyRefreshSession = errors.New("save refresh session: empty jti or user")

// RefreshTokenStore lleva las sesiones de refresh vivas (jti -> usuario).
// RevokeAll cierra todas las sesiones de un usuario.
type RefreshTokenStore interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	Owner(ctx context.Context, jti string) (string, error)
	Revoke(ctx context.Context, jti string) error
	RevokeAll(ctx context.Context, userID string) error
}

type refreshSession struct {
	userID    string
	expiresAt time.Time
}

type memoryRefreshTokenStore struct {
	mu       sync.Mutex
	now      func() time.Time
	sessions map[string]refreshSession
	byUser   map[string]map[string]struct{}
}

// NewMemoryRefreshTokenStore sirve para desarrollo y tests; no sobrevive reinicios.
func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return newMemoryRefreshTokenStore(func() time.Time { return time.Now().UTC() })
}

func newMemoryRefreshTokenStore(now func() time.Time) *memoryRefreshTokenStore {
	return &memoryRefreshTokenStore{
		now:      now,
		sessions: make(map[string]refreshSession),
		byUser:   make(map[string]map[string]struct{}),
	}
}

func (s *memoryRefreshTokenStore) Save(_ context.Context, jti, userID string, ttl time.Duration) error {
	jti, userID = strings.TrimSpace(jti), strings.TrimSpace(userID)
	if jti == "" || userID == "" {
		return errEmptyRefreshSession
	}
	if ttl <= 0 {
		ttl = defaultRefreshTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	s.sessions[jti] = refreshSession{userID: userID, expiresAt: now.Add(ttl)}
	if s.byUser[userID] == nil {
		s.byUser[userID] = make(map[string]struct{})
	}
	s.byUser[userID][jti] = struct{}{}
	return nil
}

func (s *memoryRefreshTokenStore) Owner(_ context.Context, jti string) (string, error) {
	jti = strings.TrimSpace(jti)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[jti]
	if !ok {
		return "", ErrRefreshUnknown
	}
	if !s.now().Before(sess.expiresAt) {
		s.dropLocked(jti, sess.userID)
		return "", ErrRefreshUnknown
	}
	return sess.userID, nil
}

func (s *memoryRefreshTokenStore) Revoke(_ context.Context, jti string) error {
	jti = strings.TrimSpace(jti)
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[jti]; ok {
		s.dropLocked(jti, sess.userID)
	}
	return nil
}

func (s *memoryRefreshTokenStore) RevokeAll(_ context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	for jti := range s.byUser[userID] {
		delete(s.sessions, jti)
	}
	delete(s.byUser, userID)
	return nil
}

// sweepLocked borra sesiones vencidas para que el mapa no crezca sin limite.
func (s *memoryRefreshTokenStore) sweepLocked(now time.Time) {
	for jti, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			s.dropLocked(jti, sess.userID)
		}
	}
}

func (s *memoryRefreshTokenStore) dropLocked(jti, userID string) {
	delete(s.sessions, jti)
	if set := s.byUser[userID]; set != nil {
		delete(set, jti)
		if len(set) == 0 {
			delete(s.byUser, userID)
		}
	}
}

// redisRefreshTokenStore guarda "tara:refresh:<jti>" = user id con TTL y un
// set "tara:refresh-sessions:<user>" con los jti de cada usuario.
type redisRefreshTokenStore struct {
	client *redis.Client
}

func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	if client == nil {
		return nil
	}
	return &redisRefreshTokenStore{client: client}
}

func refreshKey(jti string) string { return "tara:refresh:" + jti }

func refreshUserKey(userID string) string { return "tara:refresh-sessions:" + userID }

func (s *redisRefreshTokenStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	jti, userID = strings.TrimSpace(jti), strings.TrimSpace(userID)
	if jti == "" || userID == "" {
		return errEmptyRefreshSession
	}
	if ttl <= 0 {
		ttl = defaultRefreshTTL
	}
	ctx, cancel := context.WithTimeout(ctx, refreshStoreTimeout)
	defer cancel()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, refreshKey(jti), userID, ttl)
		pipe.SAdd(ctx, refreshUserKey(userID), jti)
		// el set vive tanto como la sesion mas nueva
		pipe.Expire(ctx, refreshUserKey(userID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *redisRefreshTokenStore) Owner(ctx context.Context, jti string) (string, error) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return "", ErrRefreshUnknown
	}
	ctx, cancel := context.WithTimeout(ctx, refreshStoreTimeout)
	defer cancel()
	userID, err := s.client.Get(ctx, refreshKey(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshUnknown
	}
	if err != nil {
		return "", fmt.Errorf("load refresh session: %w", err)
	}
	return userID, nil
}

func (s *redisRefreshTokenStore) Revoke(ctx context.Context, jti string) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	userID, err := s.Owner(ctx, jti)
	if errors.Is(err, ErrRefreshUnknown) {
		return nil
	}
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, refreshStoreTimeout)
	defer cancel()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, refreshKey(jti))
		pipe.SRem(ctx, refreshUserKey(userID), jti)
		return nil
	})
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

func (s *redisRefreshTokenStore) RevokeAll(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, refreshStoreTimeout)
	defer cancel()
	jtis, err := s.client.SMembers(ctx, refreshUserKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list refresh sessions: %w", err)
	}
	keys := make([]string, 0, len(jtis)+1)
	for _, jti := range jtis {
		keys = append(keys, refreshKey(jti))
	}
	keys = append(keys, refreshUserKey(userID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke refresh sessions: %w", err)
	}
	return nil
}
