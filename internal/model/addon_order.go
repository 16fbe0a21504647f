package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// AddonOrder is a room-service order placed against a reservation.
type AddonOrder struct {
    ID            uint64           // addon_orders.id
    ReservationID uint64           // addon_orders.reservation_id
    UserID        uint64           // addon_orders.user_id
    Status        AddonOrderStatus // addon_orders.status_id
    OrderDate     time.Time        // addon_orders.order_date
}

// AddonOrderItemCount aggregates the one-row-per-unit item ledger of an
// order by add-on.
type AddonOrderItemCount struct {
    AddonID   uint64
    AddonName string
    UnitPrice decimal.Decimal // current catalog price
    Quantity  int
}

// AddonOrderFilter narrows ListAddonOrders.  Zero values mean "any".
type AddonOrderFilter struct {
    Status        AddonOrderStatus
    ReservationID uint64
}
