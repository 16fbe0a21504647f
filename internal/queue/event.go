// Package queue defines message payloads exchanged over the message broker
// and the RabbitMQ publisher and consumer that carry them.
package queue

import "time"

const (
    ReservationStatusQueue = "reservation.status_changed"
    AddonOrderStatusQueue  = "addon_order.status_changed"
)

// ReservationStatusChangedEvent is published after a reservation status
// change has been committed.  It carries enough for downstream consumers
// (housekeeping boards, notifications) to act without querying the database.
type ReservationStatusChangedEvent struct {
    ReservationID uint64    `json:"reservation_id"`
    FromStatus    string    `json:"from_status"`
    ToStatus      string    `json:"to_status"`
    ChangedBy     uint64    `json:"changed_by"`
    ChangedAt     time.Time `json:"changed_at"`
}

// AddonOrderStatusChangedEvent is published after an add-on order moves
// along the kitchen path.
type AddonOrderStatusChangedEvent struct {
    OrderID       uint64    `json:"order_id"`
    ReservationID uint64    `json:"reservation_id"`
    FromStatus    string    `json:"from_status"`
    ToStatus      string    `json:"to_status"`
    ChangedBy     uint64    `json:"changed_by"`
    Remarks       string    `json:"remarks,omitempty"`
    ChangedAt     time.Time `json:"changed_at"`
}
