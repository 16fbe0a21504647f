package service

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// paymentTolerance absorbs rounding when comparing paid against due.
var paymentTolerance = decimal.RequireFromString("0.01")

// BillingInput is everything the derivation reads.  It never touches the
// billing row's stored status or total.
type BillingInput struct {
	Status   model.ReservationStatus
	Nights   int
	Rooms    []model.ReservedRoom
	Addons   []model.BillingAddonLine
	Payments []model.Payment
}

// BillingSummary holds the derived money figures of one reservation.
type BillingSummary struct {
	RoomPrice   decimal.Decimal
	AddonsTotal decimal.Decimal
	TotalBill   decimal.Decimal
	AmountPaid  decimal.Decimal
	Remaining   decimal.Decimal
	Status      model.BillingStatus
}

// RoomPrice prices every distinct physical room once for the whole stay.
// Rooms without an assignment are priced by their room type.
func RoomPrice(rooms []model.ReservedRoom, nights int) decimal.Decimal {
	if nights < 1 {
		nights = 1
	}
	seen := make(map[uint64]bool, len(rooms))
	nightly := decimal.Zero
	for _, rr := range rooms {
		if rr.RoomID != nil {
			if seen[*rr.RoomID] {
				continue
			}
			seen[*rr.RoomID] = true
		}
		nightly = nightly.Add(rr.PricePerStay)
	}
	return nightly.Mul(decimal.NewFromInt(int64(nights)))
}

// AddonsTotal sums posted charges whose order is still billable.
func AddonsTotal(lines []model.BillingAddonLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if !l.OrderStatus.Billable() {
			continue
		}
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// AmountPaid sums payments that count toward the bill.  Nothing counts
// while the reservation is pending, and held payments never count.
func AmountPaid(status model.ReservationStatus, payments []model.Payment) decimal.Decimal {
	if status == model.ReservationPending {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, p := range payments {
		if p.OnHold {
			continue
		}
		total = total.Add(p.AmountPaid)
	}
	return total
}

// DeriveBilling computes the effective bill of a reservation.
func DeriveBilling(in BillingInput) BillingSummary {
	var s BillingSummary
	s.RoomPrice = RoomPrice(in.Rooms, in.Nights)
	s.AddonsTotal = AddonsTotal(in.Addons)
	s.TotalBill = s.RoomPrice.Add(s.AddonsTotal)
	s.AmountPaid = AmountPaid(in.Status, in.Payments)

	remaining := s.TotalBill.Sub(s.AmountPaid)
	s.Remaining = decimal.Max(remaining, decimal.Zero)

	switch {
	case in.Status == model.ReservationPending:
		s.Status = model.BillingUnpaid
	case !s.AmountPaid.IsPositive():
		s.Status = model.BillingUnpaid
	case !remaining.IsPositive():
		s.Status = model.BillingPaid
	default:
		s.Status = model.BillingPartial
	}
	return s
}

// sumPayments totals every non-deleted payment, held or not.
func sumPayments(payments []model.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.AmountPaid)
	}
	return total
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }
