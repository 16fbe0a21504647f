package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// ReservationType records the channel a reservation came through.
type ReservationType string

const (
    ReservationWalkIn ReservationType = "walk-in"
    ReservationOnline ReservationType = "online"
)

func (t ReservationType) Valid() bool {
    return t == ReservationWalkIn || t == ReservationOnline
}

// Reservation is the root aggregate of a guest's stay.  Reserved rooms,
// billing, payments, add-on orders and both history logs belong to it.
//
// Fields:
//  ID                  – primary key identifier.
//  GuestID             – guest the reservation is made for.
//  RequestedRoomTypeID – room type asked for (online bookings); nil when
//                        it is implied by the assigned rooms.
//  Type                – walk-in or online.
//  Status              – lifecycle state.
//  CheckInDate         – arrival date (midnight, hotel timezone).
//  CheckOutDate        – departure date; always after CheckInDate.
//  Notes               – free text kept by the front desk.
type Reservation struct {
    ID                  uint64            // reservations.id
    GuestID             uint64            // reservations.guest_id
    RequestedRoomTypeID *uint64           // reservations.requested_room_type_id (nullable)
    Type                ReservationType   // reservations.reservation_type
    Status              ReservationStatus // reservations.status_id
    CheckInDate         time.Time         // reservations.check_in_date
    CheckOutDate        time.Time         // reservations.check_out_date
    Notes               string            // reservations.notes
    CreatedAt           time.Time         // reservations.created_at
    UpdatedAt           time.Time         // reservations.updated_at
}

// Nights returns the number of nights between check-in and check-out,
// never less than one.
func (r Reservation) Nights() int {
    return NightsBetween(r.CheckInDate, r.CheckOutDate)
}

// NightsBetween counts calendar nights between two dates.
func NightsBetween(in, out time.Time) int {
    a := time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, time.UTC)
    b := time.Date(out.Year(), out.Month(), out.Day(), 0, 0, 0, 0, time.UTC)
    n := int(b.Sub(a).Hours() / 24)
    if n < 1 {
        return 1
    }
    return n
}

// ReservationSummary is a list row: the reservation plus the joined guest
// name, its room numbers and the time of its latest status change.
type ReservationSummary struct {
    Reservation
    GuestName      string
    RoomNumbers    []string
    LastActivityAt *time.Time
}

// ReservationFilter narrows ListReservations.  Zero values mean "any".
type ReservationFilter struct {
    Status   ReservationStatus
    Type     ReservationType
    View     string // active | history | arrivals | departures
    DateFrom *time.Time
    DateTo   *time.Time
    Search   string
    Today    time.Time // reference date for the arrivals/departures views
}

// ReservedRoom binds a reservation to a physical room.  RoomID is nil for
// online bookings until staff assign a room.  Primary marks the room that
// holds the main guest, who is an occupant but never a companion row.
type ReservedRoom struct {
    ID            uint64  // reserved_rooms.id
    ReservationID uint64  // reserved_rooms.reservation_id
    RoomID        *uint64 // reserved_rooms.room_id (nullable)
    RoomTypeID    uint64  // reserved_rooms.room_type_id
    Primary       bool    // reserved_rooms.is_primary

    // Joined from rooms/room_types on reads.
    RoomNumber   string
    TypeName     string
    MaxCapacity  int
    PricePerStay decimal.Decimal
}

// CompanionCap is how many companion rows the room accepts.
func (rr ReservedRoom) CompanionCap() int {
    c := rr.MaxCapacity
    if rr.Primary {
        c--
    }
    if c < 0 {
        return 0
    }
    return c
}

// Companion is an additional occupant of a reserved room.
type Companion struct {
    ID             uint64 // reserved_room_companions.id
    ReservedRoomID uint64 // reserved_room_companions.reserved_room_id
    FullName       string // reserved_room_companions.full_name
}

// StatusHistory is one append-only audit row for a reservation or an add-on
// order.  OwnerID is the reservation id or the order id.
type StatusHistory struct {
    ID        uint64
    OwnerID   uint64
    StatusID  uint8
    ChangedBy *uint64
    Remarks   string
    ChangedAt time.Time
}
