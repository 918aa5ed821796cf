package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// APIKeyHandler exposes admin endpoints for issuing and revoking API keys
// for machine clients such as the dictation bridge.
type APIKeyHandler struct {
	store APIKeyStore
}

func NewAPIKeyHandler(store APIKeyStore) *APIKeyHandler {
	return &APIKeyHandler{store: store}
}

func (h *APIKeyHandler) RegisterRoutes(api *echo.Group) {
	admin := api.Group("", RequireRole(RoleAdmin))
	admin.POST("/apikeys", h.Create)
	admin.GET("/apikeys/:id", h.Get)
	admin.DELETE("/apikeys/:id", h.Revoke)
}

// Create issues a new key. The raw key material appears in this response
// only; afterwards just the hash is kept.
func (h *APIKeyHandler) Create(c echo.Context) error {
	var body struct {
		Name          string   `json:"name"`
		Roles         []string `json:"roles"`
		ExpiresInDays int      `json:"expires_in_days"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	var expiresAt *time.Time
	if body.ExpiresInDays > 0 {
		t := time.Now().UTC().AddDate(0, 0, body.ExpiresInDays)
		expiresAt = &t
	}

	key, rawKey, err := GenerateAPIKey(c.Request().Context(), h.store, body.Name, body.Roles, expiresAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"api_key": key,
		"key":     rawKey,
	})
}

func (h *APIKeyHandler) Get(c echo.Context) error {
	key, err := h.store.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "api key not found")
	}
	return c.JSON(http.StatusOK, key)
}

// Revoke marks the key revoked; it is kept for the audit trail rather than
// deleted.
func (h *APIKeyHandler) Revoke(c echo.Context) error {
	key, err := h.store.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "api key not found")
	}
	now := time.Now().UTC()
	key.Status = "revoked"
	key.RevokedAt = &now
	if err := h.store.UpdateKey(c.Request().Context(), key); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
