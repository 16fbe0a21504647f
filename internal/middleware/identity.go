package middleware

// identity.go exposes the caller identity stored by JWTAuth to handlers and
// to the other middleware.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

const (
    RoleAdmin = "ADMIN"
    RoleStaff = "STAFF"
)

// ActorID returns the authenticated user id, or 0 for anonymous requests.
func ActorID(c echo.Context) uint64 {
    if v, ok := c.Get("user_id").(uint64); ok {
        return v
    }
    return 0
}

// ActorRole returns the role claim of the caller, or "".
func ActorRole(c echo.Context) string {
    if v, ok := c.Get("role").(string); ok {
        return v
    }
    return ""
}

// IsStaff reports whether the caller is front-desk staff or an admin.
func IsStaff(c echo.Context) bool {
    r := ActorRole(c)
    return r == RoleAdmin || r == RoleStaff
}

// actorKey identifies the caller in rate-limit keys.
func actorKey(c echo.Context) string {
    if id := ActorID(c); id != 0 {
        return strconv.FormatUint(id, 10)
    }
    return "anon"
}
