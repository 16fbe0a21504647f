package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-front-desk/internal/service"
)

type createBillingRequest struct {
    ReservationID uint64 `json:"reservation_id" validate:"required"`
}

type createPaymentRequest struct {
    ReservationID   uint64           `json:"reservation_id" validate:"required"`
    SubMethodID     uint64           `json:"sub_method_id"`
    Amount          decimal.Decimal  `json:"amount_paid"`
    MoneyGiven      *decimal.Decimal `json:"money_given"`
    ReferenceNumber string           `json:"reference_number" validate:"max=64"`
    Notes           string           `json:"notes"`
}

// ListBillings handles GET /v1/billings.
func (h *Handler) ListBillings(c echo.Context) error {
    views, err := h.svc.ListBillings(c.Request().Context())
    if err != nil {
        return h.respondError(c, err)
    }
    out := make([]billingDTO, 0, len(views))
    for _, v := range views {
        out = append(out, toBilling(v))
    }
    return ok(c, http.StatusOK, out)
}

// GetBilling handles GET /v1/billings/:id.
func (h *Handler) GetBilling(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid billing id")
    }
    v, err := h.svc.GetBilling(c.Request().Context(), id)
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toBilling(v))
}

// CreateBilling handles POST /v1/billings.
func (h *Handler) CreateBilling(c echo.Context) error {
    var req createBillingRequest
    if msg, valid := bind(c, &req); !valid {
        return badRequest(c, msg)
    }
    v, err := h.svc.InsertBilling(c.Request().Context(), req.ReservationID)
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusCreated, toBilling(v))
}

// CreatePayment handles POST /v1/payments.
func (h *Handler) CreatePayment(c echo.Context) error {
    var req createPaymentRequest
    if msg, valid := bind(c, &req); !valid {
        return badRequest(c, msg)
    }
    p, err := h.svc.InsertPayment(c.Request().Context(), service.PaymentInput{
        ReservationID:   req.ReservationID,
        SubMethodID:     req.SubMethodID,
        Amount:          req.Amount,
        MoneyGiven:      req.MoneyGiven,
        ReferenceNumber: req.ReferenceNumber,
        Notes:           req.Notes,
    })
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusCreated, toPayment(p))
}

// DeletePayment handles DELETE /v1/payments/:id.
func (h *Handler) DeletePayment(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid payment id")
    }
    if err := h.svc.DeletePayment(c.Request().Context(), id); err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, echo.Map{"id": id, "deleted": true})
}
