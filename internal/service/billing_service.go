package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// BillingView is a billing row with its lines and the derived figures.
// The stored status and total of the row are ignored in favour of Summary.
type BillingView struct {
	Billing  model.BillingRecord
	Rooms    []model.ReservedRoom
	Addons   []model.BillingAddonLine
	Payments []model.Payment
	Summary  BillingSummary
}

// PaymentInput records a payment against a reservation's billing.
type PaymentInput struct {
	ReservationID   uint64
	SubMethodID     uint64
	Amount          decimal.Decimal
	MoneyGiven      *decimal.Decimal
	ReferenceNumber string
	Notes           string
}

func (s *Service) GetBilling(ctx context.Context, id uint64) (BillingView, error) {
	rec, err := s.store.GetBilling(ctx, id)
	if err != nil {
		return BillingView{}, notFound(err, "billing", id)
	}
	return s.billingView(ctx, rec)
}

func (s *Service) GetBillingByReservation(ctx context.Context, reservationID uint64) (BillingView, error) {
	rec, err := s.store.GetBillingByReservation(ctx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BillingView{}, newError(KindNotFound, "reservation %d has no billing", reservationID)
		}
		return BillingView{}, err
	}
	return s.billingView(ctx, rec)
}

// ListBillings derives every billing on read.
func (s *Service) ListBillings(ctx context.Context) ([]BillingView, error) {
	recs, err := s.store.ListBillings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BillingView, 0, len(recs))
	for _, rec := range recs {
		v, err := s.billingView(ctx, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// InsertBilling creates the billing of a reservation that has none yet.
// Pending reservations cannot be billed.
func (s *Service) InsertBilling(ctx context.Context, reservationID uint64) (BillingView, error) {
	var id uint64
	err := s.store.InTx(ctx, func(ctx context.Context) error {
		res, err := s.store.GetReservation(ctx, reservationID)
		if err != nil {
			return notFound(err, "reservation", reservationID)
		}
		if res.Status == model.ReservationPending || res.Status == model.ReservationCancelled {
			return newError(KindValidation, "a %s reservation cannot be billed", res.Status)
		}
		_, err = s.store.GetBillingByReservation(ctx, res.ID)
		if err == nil {
			return newError(KindConflict, "reservation %d already has a billing", res.ID)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		sum, err := s.deriveFor(ctx, res, 0)
		if err != nil {
			return err
		}
		b := model.Billing{
			ReservationID: res.ID,
			StatusID:      sum.Status,
			TotalAmount:   sum.TotalBill,
			BillingDate:   s.now(),
		}
		if err := s.store.CreateBilling(ctx, &b); err != nil {
			return err
		}
		id = b.ID
		return nil
	})
	if err != nil {
		return BillingView{}, err
	}
	return s.GetBilling(ctx, id)
}

// InsertPayment records money received.  Payments taken while the
// reservation is pending are held until it is confirmed.
func (s *Service) InsertPayment(ctx context.Context, in PaymentInput) (model.Payment, error) {
	if !in.Amount.IsPositive() {
		return model.Payment{}, newError(KindValidation, "amount must be greater than zero")
	}
	var p model.Payment
	err := s.store.InTx(ctx, func(ctx context.Context) error {
		res, err := s.store.GetReservation(ctx, in.ReservationID)
		if err != nil {
			return notFound(err, "reservation", in.ReservationID)
		}
		if res.Status.Terminal() {
			return newError(KindValidation, "payments cannot be recorded for a %s reservation", res.Status)
		}
		rec, err := s.store.GetBillingByReservation(ctx, res.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return newError(KindNotFound, "reservation %d has no billing", res.ID)
			}
			return err
		}
		p, err = s.buildPayment(res, in.Amount, &PaymentRequest{
			SubMethodID:     in.SubMethodID,
			MoneyGiven:      in.MoneyGiven,
			ReferenceNumber: in.ReferenceNumber,
			Notes:           in.Notes,
		})
		if err != nil {
			return err
		}
		p.BillingID = rec.ID
		if err := s.store.CreatePayment(ctx, &p); err != nil {
			return err
		}
		return s.refreshBillingSnapshot(ctx, res)
	})
	if err != nil {
		return model.Payment{}, err
	}
	s.log.Info("payment recorded",
		zap.Uint64("reservation_id", p.ReservationID),
		zap.Uint64("payment_id", p.ID),
		zap.String("amount", money(p.AmountPaid)),
		zap.Bool("on_hold", p.OnHold))
	return p, nil
}

// DeletePayment soft-deletes a payment.
func (s *Service) DeletePayment(ctx context.Context, id uint64) error {
	return s.store.InTx(ctx, func(ctx context.Context) error {
		p, err := s.store.GetPayment(ctx, id)
		if err != nil {
			return notFound(err, "payment", id)
		}
		if err := s.store.SoftDeletePayment(ctx, p.ID); err != nil {
			return err
		}
		res, err := s.store.GetReservation(ctx, p.ReservationID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.refreshBillingSnapshot(ctx, res)
	})
}

func (s *Service) billingView(ctx context.Context, rec model.BillingRecord) (BillingView, error) {
	v := BillingView{Billing: rec}
	var err error
	if v.Rooms, err = s.store.ListReservedRooms(ctx, rec.ReservationID); err != nil {
		return BillingView{}, err
	}
	if v.Addons, err = s.store.ListBillingAddons(ctx, rec.ID); err != nil {
		return BillingView{}, err
	}
	if v.Payments, err = s.store.ListPayments(ctx, rec.ReservationID); err != nil {
		return BillingView{}, err
	}
	v.Summary = DeriveBilling(BillingInput{
		Status:   rec.ReservationStatus,
		Nights:   model.NightsBetween(rec.CheckInDate, rec.CheckOutDate),
		Rooms:    v.Rooms,
		Addons:   v.Addons,
		Payments: v.Payments,
	})
	return v, nil
}

// deriveFor derives the bill of a reservation.  billingID 0 means no
// add-on lines have been posted yet.
func (s *Service) deriveFor(ctx context.Context, res model.Reservation, billingID uint64) (BillingSummary, error) {
	rooms, err := s.store.ListReservedRooms(ctx, res.ID)
	if err != nil {
		return BillingSummary{}, err
	}
	var addons []model.BillingAddonLine
	if billingID != 0 {
		if addons, err = s.store.ListBillingAddons(ctx, billingID); err != nil {
			return BillingSummary{}, err
		}
	}
	payments, err := s.store.ListPayments(ctx, res.ID)
	if err != nil {
		return BillingSummary{}, err
	}
	return DeriveBilling(BillingInput{
		Status:   res.Status,
		Nights:   res.Nights(),
		Rooms:    rooms,
		Addons:   addons,
		Payments: payments,
	}), nil
}

// refreshBillingSnapshot rewrites the advisory status and total stored on
// the billing row.  Reservations without a billing are skipped.
func (s *Service) refreshBillingSnapshot(ctx context.Context, res model.Reservation) error {
	rec, err := s.store.GetBillingByReservation(ctx, res.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	sum, err := s.deriveFor(ctx, res, rec.ID)
	if err != nil {
		return err
	}
	return s.store.UpdateBillingSnapshot(ctx, rec.ID, sum.Status, sum.TotalBill)
}

// buildPayment fills in change, reference and hold flag for a payment of
// amount.  It does not persist anything.
func (s *Service) buildPayment(res model.Reservation, amount decimal.Decimal, req *PaymentRequest) (model.Payment, error) {
	given := amount
	if req.MoneyGiven != nil {
		given = *req.MoneyGiven
	}
	if given.LessThan(amount) {
		return model.Payment{}, &Error{
			Kind:    KindValidation,
			Message: "money_given is less than the amount paid",
			Details: map[string]any{"amount": money(amount), "money_given": money(given)},
		}
	}
	method := req.SubMethodID
	if method == 0 {
		method = s.cashMethod
	}
	ref := strings.TrimSpace(req.ReferenceNumber)
	if ref == "" {
		ref = "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	}
	return model.Payment{
		ReservationID:   res.ID,
		SubMethodID:     method,
		AmountPaid:      amount,
		MoneyGiven:      given,
		ChangeGiven:     given.Sub(amount),
		PaymentDate:     s.now(),
		ReferenceNumber: ref,
		Notes:           req.Notes,
		OnHold:          res.Status == model.ReservationPending,
	}, nil
}
