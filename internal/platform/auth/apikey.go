package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var (
	// ErrKeyNotFound indicates the requested API key does not exist in the store.
	ErrKeyNotFound = errors.New("api key not found")

	// ErrKeyRevoked indicates the API key has been revoked and can no longer be used.
	ErrKeyRevoked = errors.New("api key revoked")

	// ErrKeyExpired indicates the API key has passed its expiration time.
	ErrKeyExpired = errors.New("api key expired")

	// ErrInvalidKey indicates the provided raw key does not match any stored hash.
	ErrInvalidKey = errors.New("invalid api key")
)

// APIKey represents a managed API key for programmatic access, used by the
// dictation bridge and reporting integrations. The actual key material is
// never stored; only a SHA-256 hash is persisted.
type APIKey struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	KeyHash    string     `json:"-"` // never serialize
	KeyPrefix  string     `json:"key_prefix"`
	Roles      []string   `json:"roles"`
	Status     string     `json:"status"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// APIKeyStore defines the contract for persisting and querying API keys.
type APIKeyStore interface {
	CreateKey(ctx context.Context, key *APIKey) error
	GetByID(ctx context.Context, id string) (*APIKey, error)
	GetByHash(ctx context.Context, hash string) (*APIKey, error)
	UpdateKey(ctx context.Context, key *APIKey) error
	DeleteKey(ctx context.Context, id string) error
}

// InMemoryAPIKeyStore provides a thread-safe in-memory implementation of
// APIKeyStore. It is suitable for development, testing, and single-node
// deployments.
type InMemoryAPIKeyStore struct {
	mu     sync.RWMutex
	byID   map[string]*APIKey
	byHash map[string]string // hash -> ID
}

// NewInMemoryAPIKeyStore creates a new empty in-memory store.
func NewInMemoryAPIKeyStore() *InMemoryAPIKeyStore {
	return &InMemoryAPIKeyStore{
		byID:   make(map[string]*APIKey),
		byHash: make(map[string]string),
	}
}

func (s *InMemoryAPIKeyStore) CreateKey(_ context.Context, key *APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[key.ID] = key
	s.byHash[key.KeyHash] = key.ID
	return nil
}

func (s *InMemoryAPIKeyStore) GetByID(_ context.Context, id string) (*APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.byID[id]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return key, nil
}

func (s *InMemoryAPIKeyStore) GetByHash(_ context.Context, hash string) (*APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byHash[hash]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return s.byID[id], nil
}

func (s *InMemoryAPIKeyStore) UpdateKey(_ context.Context, key *APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[key.ID]; !ok {
		return ErrKeyNotFound
	}
	s.byID[key.ID] = key
	return nil
}

func (s *InMemoryAPIKeyStore) DeleteKey(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.byID[id]
	if !ok {
		return ErrKeyNotFound
	}
	delete(s.byHash, key.KeyHash)
	delete(s.byID, id)
	return nil
}

// GenerateAPIKey creates a new API key with random key material. The raw key
// is returned exactly once; only its hash is stored.
func GenerateAPIKey(ctx context.Context, store APIKeyStore, name string, roles []string, expiresAt *time.Time) (*APIKey, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", err
	}
	rawKey := "rpt_" + hex.EncodeToString(raw)

	key := &APIKey{
		ID:        uuid.New().String(),
		Name:      name,
		KeyHash:   HashAPIKey(rawKey),
		KeyPrefix: rawKey[:12],
		Roles:     roles,
		Status:    "active",
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.CreateKey(ctx, key); err != nil {
		return nil, "", err
	}
	return key, rawKey, nil
}

// HashAPIKey returns the hex-encoded SHA-256 hash of a raw key.
func HashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

// ValidateAPIKey looks up a raw key in the store and checks its status and
// expiry. On success the key's LastUsedAt is updated.
func ValidateAPIKey(ctx context.Context, store APIKeyStore, rawKey string) (*APIKey, error) {
	key, err := store.GetByHash(ctx, HashAPIKey(rawKey))
	if err != nil {
		return nil, ErrInvalidKey
	}
	if key.Status == "revoked" {
		return nil, ErrKeyRevoked
	}
	if key.ExpiresAt != nil && time.Now().After(*key.ExpiresAt) {
		return nil, ErrKeyExpired
	}
	now := time.Now().UTC()
	key.LastUsedAt = &now
	_ = store.UpdateKey(ctx, key)
	return key, nil
}

// APIKeyMiddleware authenticates requests carrying an X-API-Key header. It
// is intended for machine clients; interactive users authenticate with JWTs.
func APIKeyMiddleware(store APIKeyStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawKey := c.Request().Header.Get("X-API-Key")
			if rawKey == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing api key")
			}

			key, err := ValidateAPIKey(c.Request().Context(), store, rawKey)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid api key")
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, UserIDKey, "apikey:"+key.ID)
			ctx = context.WithValue(ctx, UserRolesKey, key.Roles)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
