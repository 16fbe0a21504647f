package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/hotel-front-desk/internal/service"
)

// ok writes the success envelope {"success": true, "data": ...}.
func ok(c echo.Context, status int, data any) error {
    return c.JSON(status, echo.Map{"success": true, "data": data})
}

// fail writes the error envelope.  details is omitted when empty.
func fail(c echo.Context, status int, code, message string, details map[string]any) error {
    body := echo.Map{"success": false, "error": code, "message": message}
    if len(details) > 0 {
        body["details"] = details
    }
    return c.JSON(status, body)
}

var kindStatus = map[service.Kind]int{
    service.KindValidation:              http.StatusBadRequest,
    service.KindInvalidTransition:       http.StatusConflict,
    service.KindPrematureCheckIn:        http.StatusUnprocessableEntity,
    service.KindOutstandingBalance:      http.StatusUnprocessableEntity,
    service.KindGuestNotCheckedIn:       http.StatusUnprocessableEntity,
    service.KindReservationNotConfirmed: http.StatusUnprocessableEntity,
    service.KindMissingActor:            http.StatusUnauthorized,
    service.KindNotFound:                http.StatusNotFound,
    service.KindConflict:                http.StatusConflict,
}

// respondError maps a service error to its HTTP status.  Anything that is
// not a service error is logged and reported as a 500 without detail.
func (h *Handler) respondError(c echo.Context, err error) error {
    var se *service.Error
    if errors.As(err, &se) {
        status, known := kindStatus[se.Kind]
        if !known {
            status = http.StatusBadRequest
        }
        return fail(c, status, string(se.Kind), se.Message, se.Details)
    }
    h.log.Error("request failed",
        zap.String("route", c.Path()),
        zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
        zap.Error(err))
    return fail(c, http.StatusInternalServerError, "InternalError", "internal server error", nil)
}

func badRequest(c echo.Context, message string) error {
    return fail(c, http.StatusBadRequest, string(service.KindValidation), message, nil)
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id > 0
}

// queryID parses an optional numeric query parameter; absent means 0.
func queryID(c echo.Context, name string) (uint64, bool) {
    v := c.QueryParam(name)
    if v == "" {
        return 0, true
    }
    id, err := strconv.ParseUint(v, 10, 64)
    return id, err == nil
}
