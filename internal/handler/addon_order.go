package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-front-desk/internal/middleware"
    "github.com/iliyamo/hotel-front-desk/internal/model"
    "github.com/iliyamo/hotel-front-desk/internal/service"
)

type orderItemRequest struct {
    AddonID  uint64 `json:"addon_id" validate:"required"`
    Quantity int    `json:"quantity" validate:"min=1,max=100"`
}

type createOrderRequest struct {
    ReservationID uint64             `json:"reservation_id" validate:"required"`
    StatusID      uint8              `json:"status_id" validate:"omitempty,min=1,max=5"`
    Items         []orderItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

type editOrderRequest struct {
    Items []orderItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

func toItems(reqs []orderItemRequest) []service.OrderItemInput {
    out := make([]service.OrderItemInput, 0, len(reqs))
    for _, r := range reqs {
        out = append(out, service.OrderItemInput{AddonID: r.AddonID, Quantity: r.Quantity})
    }
    return out
}

// CreateOrder handles POST /v1/addon-orders.  The order is attributed to
// the authenticated caller.
func (h *Handler) CreateOrder(c echo.Context) error {
    var req createOrderRequest
    if msg, valid := bind(c, &req); !valid {
        return badRequest(c, msg)
    }
    v, err := h.svc.CreateOrder(c.Request().Context(), service.CreateOrderInput{
        ReservationID: req.ReservationID,
        UserID:        middleware.ActorID(c),
        Status:        model.AddonOrderStatus(req.StatusID),
        Items:         toItems(req.Items),
    })
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusCreated, toOrderView(v))
}

// ListOrders handles GET /v1/addon-orders?status_id=&reservation_id=.
func (h *Handler) ListOrders(c echo.Context) error {
    resID, valid := queryID(c, "reservation_id")
    if !valid {
        return badRequest(c, "reservation_id must be numeric")
    }
    f := model.AddonOrderFilter{ReservationID: resID}
    if v := c.QueryParam("status_id"); v != "" {
        n, err := strconv.ParseUint(v, 10, 8)
        if err != nil {
            return badRequest(c, "status_id must be numeric")
        }
        f.Status = model.AddonOrderStatus(n)
    }
    views, err := h.svc.ListOrders(c.Request().Context(), f)
    if err != nil {
        return h.respondError(c, err)
    }
    out := make([]orderDTO, 0, len(views))
    for _, v := range views {
        out = append(out, toOrderView(v))
    }
    return ok(c, http.StatusOK, out)
}

// GetOrder handles GET /v1/addon-orders/:id.
func (h *Handler) GetOrder(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid add-on order id")
    }
    v, err := h.svc.GetOrder(c.Request().Context(), id)
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toOrderView(v))
}

// EditOrder handles PUT /v1/addon-orders/:id and replaces the item list.
func (h *Handler) EditOrder(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid add-on order id")
    }
    var req editOrderRequest
    if msg, valid := bind(c, &req); !valid {
        return badRequest(c, msg)
    }
    v, err := h.svc.EditOrder(c.Request().Context(), id, toItems(req.Items))
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toOrderView(v))
}

// ChangeOrderStatus handles PATCH /v1/addon-orders/:id/status.
func (h *Handler) ChangeOrderStatus(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid add-on order id")
    }
    var req statusRequest
    if msg, valid := bind(c, &req); !valid {
        return badRequest(c, msg)
    }
    ctx, userID := c.Request().Context(), middleware.ActorID(c)

    var (
        o   model.AddonOrder
        err error
    )
    switch {
    case req.Status != "":
        o, err = h.svc.UpdateOrderStatusByName(ctx, id, req.Status, userID, req.Remarks)
    case req.StatusID != 0:
        o, err = h.svc.ChangeOrderStatus(ctx, id, model.AddonOrderStatus(req.StatusID), userID, req.Remarks)
    default:
        return badRequest(c, "status or status_id is required")
    }
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toOrder(o))
}

// DeleteOrder handles DELETE /v1/addon-orders/:id.
func (h *Handler) DeleteOrder(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid add-on order id")
    }
    if err := h.svc.DeleteOrder(c.Request().Context(), id); err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, echo.Map{"id": id, "deleted": true})
}

// OrderHistory handles GET /v1/addon-orders/:id/history.
func (h *Handler) OrderHistory(c echo.Context) error {
    id, valid := paramID(c, "id")
    if !valid {
        return badRequest(c, "invalid add-on order id")
    }
    hs, err := h.svc.AddonOrderHistory(c.Request().Context(), id)
    if err != nil {
        return h.respondError(c, err)
    }
    return ok(c, http.StatusOK, toHistory(hs, orderStatusName))
}
