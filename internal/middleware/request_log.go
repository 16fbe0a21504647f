package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"
)

// RequestLogger writes one structured line per request.  It expects echo's
// RequestID middleware to run first.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }
            res := c.Response()
            fields := []zap.Field{
                zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
                zap.String("method", c.Request().Method),
                zap.String("route", c.Path()),
                zap.Int("status", res.Status),
                zap.Int64("bytes", res.Size),
                zap.Duration("latency", time.Since(start)),
                zap.String("ip", c.RealIP()),
            }
            if id := ActorID(c); id != 0 {
                fields = append(fields, zap.Uint64("actor_id", id))
            }
            switch {
            case res.Status >= 500:
                log.Error("request", fields...)
            case res.Status >= 400:
                log.Warn("request", fields...)
            default:
                log.Info("request", fields...)
            }
            return nil
        }
    }
}
