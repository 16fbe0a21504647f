package model

import "strings"

// ReservationStatus is the canonical lifecycle state of a reservation.  The
// numeric value is what is stored in reservations.status_id; display names
// are derived with String and never persisted.
type ReservationStatus uint8

const (
    ReservationPending    ReservationStatus = 1
    ReservationConfirmed  ReservationStatus = 2
    ReservationCheckedIn  ReservationStatus = 3
    ReservationCheckedOut ReservationStatus = 4
    ReservationCancelled  ReservationStatus = 5
)

var reservationStatusNames = map[ReservationStatus]string{
    ReservationPending:    "pending",
    ReservationConfirmed:  "confirmed",
    ReservationCheckedIn:  "checked-in",
    ReservationCheckedOut: "checked-out",
    ReservationCancelled:  "cancelled",
}

func (s ReservationStatus) String() string {
    if n, ok := reservationStatusNames[s]; ok {
        return n
    }
    return "unknown"
}

// Valid reports whether s is one of the known reservation states.
func (s ReservationStatus) Valid() bool {
    _, ok := reservationStatusNames[s]
    return ok
}

// Terminal reports whether no further transition can leave s.
func (s ReservationStatus) Terminal() bool {
    return s == ReservationCheckedOut || s == ReservationCancelled
}

// ParseReservationStatus resolves a display name ("checked-in",
// "Checked In", "checked_in") to its status.
func ParseReservationStatus(name string) (ReservationStatus, bool) {
    key := normalizeStatusName(name)
    for s, n := range reservationStatusNames {
        if n == key {
            return s, true
        }
    }
    return 0, false
}

// AddonOrderStatus is the canonical state of an add-on (room service) order.
type AddonOrderStatus uint8

const (
    AddonOrderPending   AddonOrderStatus = 1
    AddonOrderPreparing AddonOrderStatus = 2
    AddonOrderReady     AddonOrderStatus = 3
    AddonOrderDelivered AddonOrderStatus = 4
    AddonOrderCancelled AddonOrderStatus = 5
)

var addonOrderStatusNames = map[AddonOrderStatus]string{
    AddonOrderPending:   "pending",
    AddonOrderPreparing: "preparing",
    AddonOrderReady:     "ready",
    AddonOrderDelivered: "delivered",
    AddonOrderCancelled: "cancelled",
}

func (s AddonOrderStatus) String() string {
    if n, ok := addonOrderStatusNames[s]; ok {
        return n
    }
    return "unknown"
}

func (s AddonOrderStatus) Valid() bool {
    _, ok := addonOrderStatusNames[s]
    return ok
}

// Billable reports whether charges for an order in this state post to the
// reservation's billing.  Only pending and cancelled orders are unbilled.
func (s AddonOrderStatus) Billable() bool {
    return s.Valid() && s != AddonOrderPending && s != AddonOrderCancelled
}

func ParseAddonOrderStatus(name string) (AddonOrderStatus, bool) {
    key := normalizeStatusName(name)
    for s, n := range addonOrderStatusNames {
        if n == key {
            return s, true
        }
    }
    return 0, false
}

// BillingStatus is the derived payment classification of a billing.
type BillingStatus uint8

const (
    BillingUnpaid  BillingStatus = 1
    BillingPaid    BillingStatus = 2
    BillingPartial BillingStatus = 3
)

func (s BillingStatus) String() string {
    switch s {
    case BillingUnpaid:
        return "unpaid"
    case BillingPaid:
        return "paid"
    case BillingPartial:
        return "partial"
    }
    return "unknown"
}

// RoomStatus is the housekeeping state of a physical room.
type RoomStatus string

const (
    RoomAvailable   RoomStatus = "available"
    RoomReserved    RoomStatus = "reserved"
    RoomOccupied    RoomStatus = "occupied"
    RoomMaintenance RoomStatus = "maintenance"
)

func (s RoomStatus) Valid() bool {
    switch s {
    case RoomAvailable, RoomReserved, RoomOccupied, RoomMaintenance:
        return true
    }
    return false
}

// RoomStatusFor maps a reservation state to the status its rooms must carry.
func RoomStatusFor(s ReservationStatus) RoomStatus {
    switch s {
    case ReservationConfirmed:
        return RoomReserved
    case ReservationCheckedIn:
        return RoomOccupied
    default:
        return RoomAvailable
    }
}

func normalizeStatusName(name string) string {
    s := strings.ToLower(strings.TrimSpace(name))
    s = strings.ReplaceAll(s, "_", "-")
    s = strings.ReplaceAll(s, " ", "-")
    return s
}
