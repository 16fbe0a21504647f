package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireRole aborts with 403 unless the caller's role (set by JWTAuth) is
// one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !allowed[ActorRole(c)] {
                return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "Forbidden", "message": "role not allowed"})
            }
            return next(c)
        }
    }
}
