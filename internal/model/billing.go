package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Billing is the single billing row of a reservation.  StatusID and
// TotalAmount are advisory snapshots; the effective values are always
// derived from payments and add-on lines on read.
type Billing struct {
    ID            uint64          // billings.id
    ReservationID uint64          // billings.reservation_id
    StatusID      BillingStatus   // billings.billing_status_id (advisory)
    TotalAmount   decimal.Decimal // billings.total_amount (advisory)
    BillingDate   time.Time       // billings.billing_date
}

// Payment is money received against a billing.  OnHold marks a payment taken
// while the reservation was still pending; it is excluded from the paid
// total until the reservation is confirmed.
type Payment struct {
    ID              uint64          // payments.id
    BillingID       uint64          // payments.billing_id
    ReservationID   uint64          // payments.reservation_id
    SubMethodID     uint64          // payments.sub_method_id
    AmountPaid      decimal.Decimal // payments.amount_paid
    MoneyGiven      decimal.Decimal // payments.money_given
    ChangeGiven     decimal.Decimal // payments.change_given
    PaymentDate     time.Time       // payments.payment_date
    ReferenceNumber string          // payments.reference_number
    Notes           string          // payments.notes
    OnHold          bool            // payments.is_on_hold
}

// BillingAddon is a posted add-on charge.  UnitPrice is the catalog price
// captured when the charge was posted and is never re-read afterwards.
type BillingAddon struct {
    ID           uint64          // billing_addons.id
    BillingID    uint64          // billing_addons.billing_id
    AddonOrderID uint64          // billing_addons.addon_order_id
    AddonID      uint64          // billing_addons.addon_id
    UnitPrice    decimal.Decimal // billing_addons.unit_price
    Quantity     int             // billing_addons.quantity
}

// BillingAddonLine is a posted charge joined with its add-on name and the
// current status of the order that produced it.
type BillingAddonLine struct {
    BillingAddon
    AddonName   string
    OrderStatus AddonOrderStatus
}

// BillingRecord is a billing row joined with the reservation fields the
// derivation needs and the guest name shown in list views.
type BillingRecord struct {
    Billing
    ReservationStatus ReservationStatus
    CheckInDate       time.Time
    CheckOutDate      time.Time
    GuestName         string
}
