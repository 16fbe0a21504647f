package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// StatusHistory handles GET /v1/status-history?reservation_id=.  Without a
// reservation_id every row is returned in the order it was written.
func (h *Handler) StatusHistory(c echo.Context) error {
    id, valid := queryID(c, "reservation_id")
    if !valid {
        return badRequest(c, "reservation_id must be numeric")
    }
    hs, err := h.svc.ReservationHistory(c.Request().Context(), id)
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toHistory(hs, reservationStatusName))
}

// AddonOrderHistory handles GET /v1/addon-order-history?addon_order_id=.
func (h *Handler) AddonOrderHistory(c echo.Context) error {
    id, valid := queryID(c, "addon_order_id")
    if !valid {
        return badRequest(c, "addon_order_id must be numeric")
    }
    hs, err := h.svc.AddonOrderHistory(c.Request().Context(), id)
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toHistory(hs, orderStatusName))
}
