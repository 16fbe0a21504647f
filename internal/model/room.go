package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// RoomType is reference data: capacity and nightly price of a class of
// rooms.  PricePerStay is always read live; historical rates are not kept.
type RoomType struct {
    ID           uint64          // room_types.id
    TypeName     string          // room_types.type_name
    MaxCapacity  int             // room_types.max_capacity
    PricePerStay decimal.Decimal // room_types.price_per_stay (nightly rate)
}

// Room is a physical room.  Its Status is only changed as a side effect of
// reservation transitions.
type Room struct {
    ID         uint64     // rooms.id
    RoomNumber string     // rooms.room_number
    RoomTypeID uint64     // rooms.room_type_id
    Status     RoomStatus // rooms.room_status

    TypeName     string
    MaxCapacity  int
    PricePerStay decimal.Decimal
}

// RoomFilter narrows ListRooms.
type RoomFilter struct {
    RoomTypeID uint64
    Status     RoomStatus
}

// Guest is the identity record a reservation points at.  Guests are created
// elsewhere; this service only reads them.
type Guest struct {
    ID          uint64     // guests.id
    FirstName   string     // guests.first_name
    MiddleName  string     // guests.middle_name
    LastName    string     // guests.last_name
    Email       string     // guests.email
    PhoneNumber string     // guests.phone_number
    DateOfBirth *time.Time // guests.date_of_birth
    IDTypeID    *uint64    // guests.id_type_id
    IDNumber    string     // guests.id_number
    IDPicture   string     // guests.id_picture (storage reference)
}

// FullName joins the non-empty name parts.
func (g Guest) FullName() string {
    name := g.FirstName
    if g.MiddleName != "" {
        name += " " + g.MiddleName
    }
    if g.LastName != "" {
        name += " " + g.LastName
    }
    return name
}

// Addon is a purchasable extra (room service, amenities).
type Addon struct {
    ID          uint64          // addons.id
    Name        string          // addons.name
    Price       decimal.Decimal // addons.price
    IsAvailable bool            // addons.is_available
}
