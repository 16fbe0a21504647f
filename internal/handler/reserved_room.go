package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-front-desk/internal/service"
)

type addReservedRoomRequest struct {
    ReservationID uint64 `json:"reservation_id" validate:"required"`
    roomRequest
}

type updateReservedRoomRequest struct {
    RoomID     *uint64   `json:"room_id"`
    Companions *[]string `json:"companions"`
}

// AddReservedRoom handles POST /v1/reserved-rooms.
func (h *Handler) AddReservedRoom(c echo.Context) error {
    var req addReservedRoomRequest
    if msg, valid := bind(c, &req); !valid {
        return badRequest(c, msg)
    }
    rr, err := h.svc.AddReservedRoom(c.Request().Context(), service.AddReservedRoomInput{
        ReservationID: req.ReservationID,
        RoomRequest:   req.toService(),
    })
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusCreated, toReservedRoom(rr, nil))
}

// UpdateReservedRoom handles PUT /v1/reserved-rooms/:id.  A room_id moves
// the booking to another physical room; companions replaces the list.
func (h *Handler) UpdateReservedRoom(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid reserved room id")
    }
    var req updateReservedRoomRequest
    if msg, valid := bind(c, &req); !valid {
        return badRequest(c, msg)
    }
    if req.RoomID == nil && req.Companions == nil {
        return badRequest(c, "room_id or companions is required")
    }
    rr, err := h.svc.UpdateReservedRoom(c.Request().Context(), service.UpdateReservedRoomInput{
        ReservedRoomID: id,
        RoomID:         req.RoomID,
        Companions:     req.Companions,
    })
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toReservedRoom(rr, nil))
}

// RemoveReservedRoom handles DELETE /v1/reserved-rooms/:id.
func (h *Handler) RemoveReservedRoom(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid reserved room id")
    }
    if err := h.svc.RemoveReservedRoom(c.Request().Context(), id); err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, echo.Map{"id": id, "deleted": true})
}
