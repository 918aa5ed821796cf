package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestGenerateAPIKey(t *testing.T) {
	store := NewInMemoryAPIKeyStore()
	key, raw, err := GenerateAPIKey(context.Background(), store, "bridge", []string{RoleTranscriptionist}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(raw, "rpt_") {
		t.Errorf("expected rpt_ prefix, got %q", raw[:8])
	}
	if key.KeyPrefix != raw[:12] {
		t.Errorf("key prefix mismatch: %q vs %q", key.KeyPrefix, raw[:12])
	}
	if key.KeyHash == raw {
		t.Error("raw key must never be stored")
	}
	if key.Status != "active" {
		t.Errorf("expected active status, got %q", key.Status)
	}
}

func TestValidateAPIKey_Success(t *testing.T) {
	store := NewInMemoryAPIKeyStore()
	created, raw, _ := GenerateAPIKey(context.Background(), store, "bridge", []string{RoleTranscriptionist}, nil)

	key, err := ValidateAPIKey(context.Background(), store, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key.ID != created.ID {
		t.Errorf("wrong key returned: %s vs %s", key.ID, created.ID)
	}
	if key.LastUsedAt == nil {
		t.Error("expected LastUsedAt to be set after validation")
	}
}

func TestValidateAPIKey_Invalid(t *testing.T) {
	store := NewInMemoryAPIKeyStore()
	if _, err := ValidateAPIKey(context.Background(), store, "rpt_nope"); err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestValidateAPIKey_Revoked(t *testing.T) {
	store := NewInMemoryAPIKeyStore()
	key, raw, _ := GenerateAPIKey(context.Background(), store, "bridge", nil, nil)
	key.Status = "revoked"
	store.UpdateKey(context.Background(), key)

	if _, err := ValidateAPIKey(context.Background(), store, raw); err != ErrKeyRevoked {
		t.Errorf("expected ErrKeyRevoked, got %v", err)
	}
}

func TestValidateAPIKey_Expired(t *testing.T) {
	store := NewInMemoryAPIKeyStore()
	past := time.Now().Add(-time.Hour)
	_, raw, _ := GenerateAPIKey(context.Background(), store, "bridge", nil, &past)

	if _, err := ValidateAPIKey(context.Background(), store, raw); err != ErrKeyExpired {
		t.Errorf("expected ErrKeyExpired, got %v", err)
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	store := NewInMemoryAPIKeyStore()
	key, raw, _ := GenerateAPIKey(context.Background(), store, "bridge", []string{RoleTranscriptionist}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	req.Header.Set("X-API-Key", raw)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := APIKeyMiddleware(store)
	h := mw(func(c echo.Context) error {
		ctx := c.Request().Context()
		if UserIDFromContext(ctx) != "apikey:"+key.ID {
			t.Errorf("unexpected user id: %q", UserIDFromContext(ctx))
		}
		roles := RolesFromContext(ctx)
		if len(roles) != 1 || roles[0] != RoleTranscriptionist {
			t.Errorf("unexpected roles: %v", roles)
		}
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAPIKeyMiddleware_MissingKey(t *testing.T) {
	store := NewInMemoryAPIKeyStore()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := APIKeyMiddleware(store)
	err := mw(func(c echo.Context) error { return nil })(c)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestInMemoryStore_Delete(t *testing.T) {
	store := NewInMemoryAPIKeyStore()
	key, raw, _ := GenerateAPIKey(context.Background(), store, "bridge", nil, nil)

	if err := store.DeleteKey(context.Background(), key.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.GetByID(context.Background(), key.ID); err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
	}
	if _, err := ValidateAPIKey(context.Background(), store, raw); err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey after delete, got %v", err)
	}
}
