package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/uphomesco-hub/mvptypist-sub001/internal/platform/auth"
)

// AuditEntry represents an audit log entry produced by the middleware.
// It captures who accessed which report resource, when, from where, and the
// action type. Finalized reports are medico-legal documents, so every access
// is recorded.
type AuditEntry struct {
	UserID       string
	UserRoles    []string
	ResourceType string
	ResourceID   string
	Action       string // read, create, update, delete, render, finalize, amend, approve
	IPAddress    string
	UserAgent    string
	Path         string
	Method       string
	Timestamp    time.Time
	RequestID    string
	StatusCode   int
}

// AuditRecorder is the interface that the audit middleware uses to persist
// audit entries. This decouples the middleware from any concrete store so
// that tests can provide a mock implementation.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit returns Echo middleware that intercepts requests to /api/v1/*,
// extracts the authenticated user from JWT claims, determines the resource
// type from the URL path, and logs the access.
//
// If no AuditRecorder is provided, it falls back to structured zerolog logging.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if !isAuditablePath(path) {
				return next(c)
			}

			// Execute the handler first so we capture the response status
			err := next(c)

			entry := AuditEntry{
				Timestamp:  time.Now().UTC(),
				Path:       path,
				Method:     req.Method,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				StatusCode: c.Response().Status,
			}

			ctx := req.Context()
			entry.UserID = auth.UserIDFromContext(ctx)
			entry.UserRoles = auth.RolesFromContext(ctx)

			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			entry.ResourceType, entry.ResourceID = resourceFromPath(path)
			entry.Action = actionFromRequest(req.Method, path)

			recorded := false
			for _, r := range recorders {
				if r == nil {
					continue
				}
				if recErr := r.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).Msg("audit recorder failed")
				} else {
					recorded = true
				}
			}

			if !recorded {
				logger.Info().
					Str("user_id", entry.UserID).
					Strs("user_roles", entry.UserRoles).
					Str("resource_type", entry.ResourceType).
					Str("resource_id", entry.ResourceID).
					Str("action", entry.Action).
					Str("ip", entry.IPAddress).
					Str("path", entry.Path).
					Str("method", entry.Method).
					Str("request_id", entry.RequestID).
					Int("status", entry.StatusCode).
					Msg("audit")
			}

			return err
		}
	}
}

// isAuditablePath reports whether the path belongs to the audited API surface.
func isAuditablePath(path string) bool {
	return strings.HasPrefix(path, "/api/v1/")
}

// resourceFromPath extracts the resource type and, when present, the resource
// identifier from an /api/v1/ path. "/api/v1/reports/123/finalize" yields
// ("reports", "123").
func resourceFromPath(path string) (string, string) {
	trimmed := strings.TrimPrefix(path, "/api/v1/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", ""
	}
	resourceType := parts[0]
	if len(parts) < 2 {
		return resourceType, ""
	}
	id := parts[1]
	// Collection-level operations have no resource ID.
	switch id {
	case "render", "preview":
		return resourceType, ""
	}
	return resourceType, id
}

// actionFromRequest maps the HTTP method and path to an audit action. Named
// lifecycle operations take precedence over the generic method mapping.
func actionFromRequest(method, path string) string {
	switch {
	case strings.HasSuffix(path, "/render"):
		return "render"
	case strings.HasSuffix(path, "/finalize"):
		return "finalize"
	case strings.HasSuffix(path, "/amend"):
		return "amend"
	case strings.HasSuffix(path, "/approve"):
		return "approve"
	case strings.HasSuffix(path, "/preview"):
		return "render"
	}

	switch method {
	case "GET":
		return "read"
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	}
	return strings.ToLower(method)
}
