package handler

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-front-desk/internal/middleware"
    "github.com/iliyamo/hotel-front-desk/internal/model"
    "github.com/iliyamo/hotel-front-desk/internal/service"
)

type roomRequest struct {
    RoomID     *uint64  `json:"room_id"`
    RoomTypeID *uint64  `json:"room_type_id"`
    Companions []string `json:"companions"`
}

type paymentRequest struct {
    SubMethodID     uint64           `json:"sub_method_id"`
    Amount          *decimal.Decimal `json:"amount"`
    MoneyGiven      *decimal.Decimal `json:"money_given"`
    ReferenceNumber string           `json:"reference_number" validate:"max=64"`
    Notes           string           `json:"notes"`
}

type createReservationRequest struct {
    GuestID             uint64          `json:"guest_id" validate:"required"`
    RequestedRoomTypeID *uint64         `json:"requested_room_type_id"`
    CheckInDate         string          `json:"check_in_date" validate:"required,datetime=2006-01-02"`
    CheckOutDate        string          `json:"check_out_date" validate:"required,datetime=2006-01-02"`
    ReservationType     string          `json:"reservation_type" validate:"omitempty,oneof=walk-in online"`
    StatusID            uint8           `json:"status_id" validate:"omitempty,min=1,max=5"`
    Notes               string          `json:"notes"`
    Rooms               []roomRequest   `json:"rooms" validate:"dive"`
    Payment             *paymentRequest `json:"payment"`
}

type updateReservationRequest struct {
    GuestID        *uint64 `json:"guest_id"`
    CheckInDate    *string `json:"check_in_date" validate:"omitempty,datetime=2006-01-02"`
    CheckOutDate   *string `json:"check_out_date" validate:"omitempty,datetime=2006-01-02"`
    Notes          *string `json:"notes"`
    StatusID       uint8   `json:"status_id" validate:"omitempty,min=1,max=5"`
    ReservedRoomID uint64  `json:"reserved_room_id"`
    RoomID         *uint64 `json:"room_id"`
}

type statusRequest struct {
    StatusID uint8  `json:"status_id"`
    Status   string `json:"status"`
    Remarks  string `json:"remarks"`
}

func (r roomRequest) toService() service.RoomRequest {
    return service.RoomRequest{RoomID: r.RoomID, RoomTypeID: r.RoomTypeID, Companions: r.Companions}
}

// CreateReservation handles POST /v1/reservations.  Anonymous callers
// create online bookings; staff default to walk-ins.
func (h *Handler) CreateReservation(c echo.Context) error {
    var req createReservationRequest
    if msg, valid := bind(c, &req); !valid {
        return badRequest(c, msg)
    }
    in, err := parseDate(req.CheckInDate)
    if err != nil {
        return badRequest(c, "check_in_date must be a date in 2006-01-02 format")
    }
    out, err := parseDate(req.CheckOutDate)
    if err != nil {
        return badRequest(c, "check_out_date must be a date in 2006-01-02 format")
    }

    input := service.CreateReservationInput{
        GuestID:             req.GuestID,
        RequestedRoomTypeID: req.RequestedRoomTypeID,
        CheckInDate:         in,
        CheckOutDate:        out,
        Type:                model.ReservationType(req.ReservationType),
        Status:              model.ReservationStatus(req.StatusID),
        Notes:               req.Notes,
        Actor:               actor(c),
    }
    for _, r := range req.Rooms {
        input.Rooms = append(input.Rooms, r.toService())
    }
    if p := req.Payment; p != nil {
        input.Payment = &service.PaymentRequest{
            SubMethodID:     p.SubMethodID,
            Amount:          p.Amount,
            MoneyGiven:      p.MoneyGiven,
            ReferenceNumber: p.ReferenceNumber,
            Notes:           p.Notes,
        }
    }

    res, err := h.svc.CreateReservation(c.Request().Context(), input)
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusCreated, echo.Map{
        "reservation": toReservation(res.Reservation),
        "billing_id":  res.BillingID,
        "payment_id":  res.PaymentID,
    })
}

// ListReservations handles GET /v1/reservations with the optional query
// parameters status_id, reservation_type, view, date_from, date_to and q.
func (h *Handler) ListReservations(c echo.Context) error {
    f := model.ReservationFilter{
        Type:   model.ReservationType(c.QueryParam("reservation_type")),
        View:   c.QueryParam("view"),
        Search: strings.TrimSpace(c.QueryParam("q")),
    }
    if v := c.QueryParam("status_id"); v != "" {
        n, err := strconv.ParseUint(v, 10, 8)
        if err != nil {
            return badRequest(c, "status_id must be numeric")
        }
        f.Status = model.ReservationStatus(n)
    }
    if v := c.QueryParam("date_from"); v != "" {
        t, err := parseDate(v)
        if err != nil {
            return badRequest(c, "date_from must be a date in 2006-01-02 format")
        }
        f.DateFrom = &t
    }
    if v := c.QueryParam("date_to"); v != "" {
        t, err := parseDate(v)
        if err != nil {
            return badRequest(c, "date_to must be a date in 2006-01-02 format")
        }
        f.DateTo = &t
    }

    list, err := h.svc.ListReservations(c.Request().Context(), f)
    if err != nil {
        return h.respondError(c, err)
    }
    out := make([]reservationSummaryDTO, 0, len(list))
    for _, s := range list {
        out = append(out, toSummary(s))
    }
    return ok(c, http.StatusOK, out)
}

// GetReservation handles GET /v1/reservations/:id.
func (h *Handler) GetReservation(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid reservation id")
    }
    d, err := h.svc.GetReservation(c.Request().Context(), id)
    if err != nil {
        return h.respondError(c, err)
    }
    out := reservationDetailDTO{
        reservationDTO: toReservation(d.Reservation),
        Guest: guestDTO{
            ID:          d.Guest.ID,
            FullName:    d.Guest.FullName(),
            Email:       d.Guest.Email,
            PhoneNumber: d.Guest.PhoneNumber,
        },
        Rooms: toReservedRooms(d.Rooms),
    }
    if d.Billing != nil {
        b := toBilling(*d.Billing)
        out.Billing = &b
    }
    return ok(c, http.StatusOK, out)
}

// UpdateReservation handles PUT /v1/reservations/:id.
func (h *Handler) UpdateReservation(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid reservation id")
    }
    var req updateReservationRequest
    if msg, valid := bind(c, &req); !valid {
        return badRequest(c, msg)
    }
    in := service.UpdateReservationInput{
        ReservationID:  id,
        GuestID:        req.GuestID,
        Notes:          req.Notes,
        Status:         model.ReservationStatus(req.StatusID),
        ReservedRoomID: req.ReservedRoomID,
        RoomID:         req.RoomID,
        Actor:          actor(c),
    }
    if req.CheckInDate != nil {
        t, err := parseDate(*req.CheckInDate)
        if err != nil {
            return badRequest(c, "check_in_date must be a date in 2006-01-02 format")
        }
        in.CheckInDate = &t
    }
    if req.CheckOutDate != nil {
        t, err := parseDate(*req.CheckOutDate)
        if err != nil {
            return badRequest(c, "check_out_date must be a date in 2006-01-02 format")
        }
        in.CheckOutDate = &t
    }
    res, err := h.svc.UpdateReservation(c.Request().Context(), in)
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toReservation(res))
}

// DeleteReservation handles DELETE /v1/reservations/:id.
func (h *Handler) DeleteReservation(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid reservation id")
    }
    if err := h.svc.DeleteReservation(c.Request().Context(), id); err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, echo.Map{"id": id, "deleted": true})
}

// ChangeReservationStatus handles PATCH /v1/reservations/:id/status.  The
// target is given either as status_id or as a name such as "checked-in".
func (h *Handler) ChangeReservationStatus(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid reservation id")
    }
    var req statusRequest
    if msg, valid := bind(c, &req); !valid {
        return badRequest(c, msg)
    }
    ctx, userID := c.Request().Context(), middleware.ActorID(c)

    var (
        res model.Reservation
        err error
    )
    switch {
    case req.Status != "":
        res, err = h.svc.ChangeStatusByName(ctx, id, req.Status, userID)
    case req.StatusID != 0:
        res, err = h.svc.ChangeStatus(ctx, id, model.ReservationStatus(req.StatusID), userID)
    default:
        return badRequest(c, "status or status_id is required")
    }
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toReservation(res))
}

// ConfirmReservation handles POST /v1/reservations/:id/confirm.
func (h *Handler) ConfirmReservation(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid reservation id")
    }
    res, err := h.svc.ConfirmAndCreateBilling(c.Request().Context(), id, middleware.ActorID(c))
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toReservation(res))
}

// ReservationRooms handles GET /v1/reservations/:id/rooms.
func (h *Handler) ReservationRooms(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid reservation id")
    }
    rooms, err := h.svc.ListReservedRooms(c.Request().Context(), id)
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toReservedRooms(rooms))
}

// ReservationBilling handles GET /v1/reservations/:id/billing.
func (h *Handler) ReservationBilling(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid reservation id")
    }
    v, err := h.svc.GetBillingByReservation(c.Request().Context(), id)
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toBilling(v))
}

// BillingEligibility handles GET /v1/reservations/:id/billing-eligibility.
func (h *Handler) BillingEligibility(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid reservation id")
    }
    e, err := h.svc.CheckReservationStatus(c.Request().Context(), id)
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, echo.Map{
        "reservation_id": e.ReservationID,
        "status":         e.Status.String(),
        "can_bill":       e.CanBill,
        "can_pay":        e.CanPay,
    })
}

// ReservationHistory handles GET /v1/reservations/:id/history.
func (h *Handler) ReservationHistory(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid reservation id")
    }
    hs, err := h.svc.ReservationHistory(c.Request().Context(), id)
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toHistory(hs, reservationStatusName))
}

func reservationStatusName(id uint8) string { return model.ReservationStatus(id).String() }

func orderStatusName(id uint8) string { return model.AddonOrderStatus(id).String() }
