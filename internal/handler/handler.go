// Package handler exposes the front-desk service over HTTP.  Every response
// uses the {success, data} / {success, error, message} envelope.
package handler

import (
    "time"

    "go.uber.org/zap"

    "github.com/iliyamo/hotel-front-desk/internal/middleware"
    "github.com/iliyamo/hotel-front-desk/internal/service"

    "github.com/labstack/echo/v4"
)

// Handler groups the HTTP endpoints.  It holds no state beyond its
// dependencies.
type Handler struct {
    svc *service.Service
    log *zap.Logger
}

func New(svc *service.Service, log *zap.Logger) *Handler {
    if log == nil {
        log = zap.NewNop()
    }
    return &Handler{svc: svc, log: log}
}

// actor returns the authenticated caller, or nil for anonymous requests.
func actor(c echo.Context) *service.Actor {
    id := middleware.ActorID(c)
    if id == 0 {
        return nil
    }
    return &service.Actor{UserID: id, Staff: middleware.IsStaff(c)}
}

// parseDate reads a YYYY-MM-DD value as midnight UTC.
func parseDate(s string) (time.Time, error) {
    return time.Parse(time.DateOnly, s)
}
