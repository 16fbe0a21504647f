package middleware // middleware provides shared request processing for handlers

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-front-desk/internal/utils"
)

// JWTAuth validates a Bearer access token and stores the caller's user id
// (uint64) and role in the context under "user_id" and "role".  Requests
// without a valid token are rejected with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearer(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "MissingActor", "message": "missing bearer token"})
            }
            claims, err := utils.ParseActorToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "MissingActor", "message": "invalid token"})
            }
            setActor(c, claims)
            return next(c)
        }
    }
}

// OptionalJWT behaves like JWTAuth when a token is present and lets
// anonymous requests through untouched.  A token that fails verification
// is still rejected.
func OptionalJWT(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearer(c)
            if !ok {
                return next(c)
            }
            claims, err := utils.ParseActorToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "MissingActor", "message": "invalid token"})
            }
            setActor(c, claims)
            return next(c)
        }
    }
}

func bearer(c echo.Context) (string, bool) {
    auth := c.Request().Header.Get("Authorization")
    if !strings.HasPrefix(auth, "Bearer ") {
        return "", false
    }
    raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
    return raw, raw != ""
}

func setActor(c echo.Context, claims utils.ActorClaims) {
    id, _ := claims.UserID() // already validated by ParseActorToken
    c.Set("user_id", id)
    c.Set("role", claims.Role)
}
