package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-front-desk/internal/model"
)

// ListRoomTypes handles GET /v1/room-types.
func (h *Handler) ListRoomTypes(c echo.Context) error {
    types, err := h.svc.ListRoomTypes(c.Request().Context())
    if err != nil {
        return h.respondError(c, err)
    }
    out := make([]roomTypeDTO, 0, len(types))
    for _, t := range types {
        out = append(out, toRoomType(t))
    }
    return ok(c, http.StatusOK, out)
}

// ListAddons handles GET /v1/addons.
func (h *Handler) ListAddons(c echo.Context) error {
    addons, err := h.svc.ListAddons(c.Request().Context())
    if err != nil {
        return h.respondError(c, err)
    }
    out := make([]addonDTO, 0, len(addons))
    for _, a := range addons {
        out = append(out, toAddon(a))
    }
    return ok(c, http.StatusOK, out)
}

// ListRooms handles GET /v1/rooms?room_type_id=&status=.
func (h *Handler) ListRooms(c echo.Context) error {
    typeID, valid := queryID(c, "room_type_id")
    if !valid {
        return badRequest(c, "room_type_id must be numeric")
    }
    rooms, err := h.svc.ListRooms(c.Request().Context(), model.RoomFilter{
        RoomTypeID: typeID,
        Status:     model.RoomStatus(c.QueryParam("status")),
    })
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toRooms(rooms))
}

// ListAvailableRooms handles
// GET /v1/rooms/available?room_type_id=&check_in_date=&check_out_date=.
func (h *Handler) ListAvailableRooms(c echo.Context) error {
    typeID, valid := queryID(c, "room_type_id")
    if !valid {
        return badRequest(c, "room_type_id must be numeric")
    }
    in, err := parseDate(c.QueryParam("check_in_date"))
    if err != nil {
        return badRequest(c, "check_in_date must be a date in 2006-01-02 format")
    }
    out, err := parseDate(c.QueryParam("check_out_date"))
    if err != nil {
        return badRequest(c, "check_out_date must be a date in 2006-01-02 format")
    }
    rooms, err := h.svc.ListAvailableRooms(c.Request().Context(), typeID, in, out)
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toRooms(rooms))
}

func toRooms(rooms []model.Room) []roomDTO {
    out := make([]roomDTO, 0, len(rooms))
    for _, r := range rooms {
        out = append(out, toRoom(r))
    }
    return out
}
