package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// PaymentRequest carries the payment taken when a reservation is created.
// For walk-ins Amount is ignored and the downpayment is computed; for
// online bookings Amount is the prepayment, held while the reservation is
// pending.
type PaymentRequest struct {
	SubMethodID     uint64
	Amount          *decimal.Decimal
	MoneyGiven      *decimal.Decimal
	ReferenceNumber string
	Notes           string
}

// CreateReservationInput describes a new reservation.  Type and Status are
// optional; when left zero they are inferred from the actor.
type CreateReservationInput struct {
	GuestID             uint64
	RequestedRoomTypeID *uint64
	CheckInDate         time.Time
	CheckOutDate        time.Time
	Type                model.ReservationType
	Status              model.ReservationStatus
	Notes               string
	Actor               *Actor
	Rooms               []RoomRequest
	Payment             *PaymentRequest
}

// CreateReservationResult names the rows created for a new reservation.
type CreateReservationResult struct {
	Reservation model.Reservation
	BillingID   uint64
	PaymentID   uint64
}

// UpdateReservationInput edits a reservation.  Nil fields are unchanged.
// RoomID reassigns the reserved room ReservedRoomID, or the primary room
// when ReservedRoomID is zero.  A non-zero Status goes through the same
// checks as ChangeStatus.
type UpdateReservationInput struct {
	ReservationID  uint64
	GuestID        *uint64
	CheckInDate    *time.Time
	CheckOutDate   *time.Time
	Notes          *string
	Status         model.ReservationStatus
	ReservedRoomID uint64
	RoomID         *uint64
	Actor          *Actor
}

// ReservationDetail is a reservation with its rooms and derived bill.
type ReservationDetail struct {
	model.Reservation
	Guest   model.Guest
	Rooms   []ReservedRoomView
	Billing *BillingView
}

// Eligibility reports which billing actions a reservation currently allows.
type Eligibility struct {
	ReservationID uint64
	Status        model.ReservationStatus
	CanBill       bool
	CanPay        bool
}

// CreateReservation inserts a reservation with its rooms, companions,
// billing, optional payment and first history row in one transaction.
func (s *Service) CreateReservation(ctx context.Context, in CreateReservationInput) (CreateReservationResult, error) {
	var out CreateReservationResult

	if in.GuestID == 0 {
		return out, newError(KindValidation, "guest_id is required")
	}
	if in.CheckInDate.IsZero() || in.CheckOutDate.IsZero() {
		return out, newError(KindValidation, "check_in_date and check_out_date are required")
	}
	in.CheckInDate, in.CheckOutDate = dateOnly(in.CheckInDate), dateOnly(in.CheckOutDate)
	if !in.CheckOutDate.After(in.CheckInDate) {
		return out, newError(KindValidation, "check_out_date must be after check_in_date")
	}

	rtype := in.Type
	switch {
	case rtype != "" && !rtype.Valid():
		return out, newError(KindValidation, "unknown reservation type %q", rtype)
	case rtype == "" && in.Actor != nil && in.Actor.Staff:
		rtype = model.ReservationWalkIn
	case rtype == "":
		rtype = model.ReservationOnline
	}

	status := in.Status
	switch {
	case status == 0 && rtype == model.ReservationWalkIn:
		status = model.ReservationConfirmed
	case status == 0:
		status = model.ReservationPending
	case !status.Valid() || status.Terminal():
		return out, newError(KindValidation, "a reservation cannot be created as %s", status)
	case status == model.ReservationCheckedIn && s.today().Before(in.CheckInDate):
		return out, newError(KindPrematureCheckIn, "check-in is not allowed before %s", in.CheckInDate.Format(time.DateOnly))
	}

	// guests booking for themselves get an online, pending reservation
	if in.Actor == nil || !in.Actor.Staff {
		if rtype != model.ReservationOnline {
			return out, newError(KindValidation, "only staff can create %s reservations", rtype)
		}
		if status != model.ReservationPending {
			return out, newError(KindValidation, "only staff can create %s reservations", status)
		}
	}

	var actorID *uint64
	if in.Actor != nil && in.Actor.UserID != 0 {
		actorID = ptr(in.Actor.UserID)
	}

	err := s.store.InTx(ctx, func(ctx context.Context) error {
		guest, err := s.store.GetGuest(ctx, in.GuestID)
		if err != nil {
			return notFound(err, "guest", in.GuestID)
		}

		res := model.Reservation{
			GuestID:             guest.ID,
			RequestedRoomTypeID: in.RequestedRoomTypeID,
			Type:                rtype,
			Status:              status,
			CheckInDate:         in.CheckInDate,
			CheckOutDate:        in.CheckOutDate,
			Notes:               in.Notes,
		}

		requests := in.Rooms
		if len(requests) == 0 {
			if rtype == model.ReservationWalkIn {
				return newError(KindValidation, "walk-in reservations need at least one room")
			}
			requests = []RoomRequest{{}}
		}
		seenRooms := make(map[uint64]bool, len(requests))
		plan := make([]model.ReservedRoom, 0, len(requests))
		companions := make([][]string, 0, len(requests))
		for i, req := range requests {
			if req.RoomID != nil {
				if seenRooms[*req.RoomID] {
					return newError(KindValidation, "room %d is listed more than once", *req.RoomID)
				}
				seenRooms[*req.RoomID] = true
			}
			rr, err := s.planRoom(ctx, req, res, in.RequestedRoomTypeID)
			if err != nil {
				return err
			}
			rr.Primary = i == 0
			names := cleanCompanions(req.Companions, guestNameFor(rr, guest))
			if err := checkCompanions(rr, names); err != nil {
				return err
			}
			plan = append(plan, rr)
			companions = append(companions, names)
		}
		if res.RequestedRoomTypeID == nil {
			res.RequestedRoomTypeID = ptr(plan[0].RoomTypeID)
		}

		if err := s.store.CreateReservation(ctx, &res); err != nil {
			return err
		}
		roomStatus := model.RoomStatusFor(status)
		for i := range plan {
			plan[i].ReservationID = res.ID
			if err := s.store.CreateReservedRoom(ctx, &plan[i]); err != nil {
				return err
			}
			if len(companions[i]) > 0 {
				if err := s.store.ReplaceCompanions(ctx, plan[i].ID, companions[i]); err != nil {
					return err
				}
			}
			if plan[i].RoomID != nil {
				if err := s.store.SetRoomStatus(ctx, *plan[i].RoomID, roomStatus); err != nil {
					return err
				}
			}
		}

		billingID, paymentID, err := s.openBilling(ctx, res, plan, in.Payment)
		if err != nil {
			return err
		}

		if err := s.store.AppendReservationHistory(ctx, model.StatusHistory{
			OwnerID:   res.ID,
			StatusID:  uint8(status),
			ChangedBy: actorID,
			Remarks:   "reservation created",
			ChangedAt: s.now(),
		}); err != nil {
			return err
		}

		out = CreateReservationResult{Reservation: res, BillingID: billingID, PaymentID: paymentID}
		return nil
	})
	if err != nil {
		return CreateReservationResult{}, err
	}
	s.log.Info("reservation created",
		zap.Uint64("reservation_id", out.Reservation.ID),
		zap.String("type", string(rtype)),
		zap.String("status", status.String()))
	return out, nil
}

// openBilling creates the billing row of a new reservation.  Confirmed
// walk-ins pay the downpayment up front; everything else starts unpaid with
// an optional prepayment that is held while the reservation is pending.
func (s *Service) openBilling(ctx context.Context, res model.Reservation, rooms []model.ReservedRoom, req *PaymentRequest) (uint64, uint64, error) {
	total := RoomPrice(rooms, res.Nights())
	b := model.Billing{
		ReservationID: res.ID,
		StatusID:      model.BillingUnpaid,
		TotalAmount:   total,
		BillingDate:   s.now(),
	}

	var pay *model.Payment
	if res.Type == model.ReservationWalkIn && res.Status != model.ReservationPending {
		if req == nil {
			req = &PaymentRequest{}
		}
		down := total.Mul(s.downpayment).Round(2)
		p, err := s.buildPayment(res, down, req)
		if err != nil {
			return 0, 0, err
		}
		pay = &p
	} else if req != nil && req.Amount != nil && req.Amount.IsPositive() {
		p, err := s.buildPayment(res, *req.Amount, req)
		if err != nil {
			return 0, 0, err
		}
		pay = &p
	}

	if pay != nil {
		b.StatusID = DeriveBilling(BillingInput{
			Status:   res.Status,
			Nights:   res.Nights(),
			Rooms:    rooms,
			Payments: []model.Payment{*pay},
		}).Status
	}
	if err := s.store.CreateBilling(ctx, &b); err != nil {
		return 0, 0, err
	}
	if pay == nil {
		return b.ID, 0, nil
	}
	pay.BillingID = b.ID
	if err := s.store.CreatePayment(ctx, pay); err != nil {
		return 0, 0, err
	}
	return b.ID, pay.ID, nil
}

// GetReservation returns a reservation with its guest, rooms and bill.
func (s *Service) GetReservation(ctx context.Context, id uint64) (ReservationDetail, error) {
	res, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return ReservationDetail{}, notFound(err, "reservation", id)
	}
	d := ReservationDetail{Reservation: res}
	if d.Guest, err = s.store.GetGuest(ctx, res.GuestID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ReservationDetail{}, err
	}
	if d.Rooms, err = s.ListReservedRooms(ctx, id); err != nil {
		return ReservationDetail{}, err
	}
	rec, err := s.store.GetBillingByReservation(ctx, id)
	switch {
	case err == nil:
		v, err := s.billingView(ctx, rec)
		if err != nil {
			return ReservationDetail{}, err
		}
		d.Billing = &v
	case !errors.Is(err, sql.ErrNoRows):
		return ReservationDetail{}, err
	}
	return d, nil
}

// ListReservations lists reservations for the front-desk views.
func (s *Service) ListReservations(ctx context.Context, f model.ReservationFilter) ([]model.ReservationSummary, error) {
	switch f.View {
	case "", "active", "history", "arrivals", "departures":
	default:
		return nil, newError(KindValidation, "unknown view %q", f.View)
	}
	if f.Status != 0 && !f.Status.Valid() {
		return nil, newError(KindValidation, "unknown reservation status %d", f.Status)
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, newError(KindValidation, "unknown reservation type %q", f.Type)
	}
	if f.Today.IsZero() {
		f.Today = s.today()
	}
	return s.store.ListReservations(ctx, f)
}

// UpdateReservation applies edits, optional room reassignment and an
// optional status change in one transaction.
func (s *Service) UpdateReservation(ctx context.Context, in UpdateReservationInput) (model.Reservation, error) {
	if in.Status != 0 && !in.Status.Valid() {
		return model.Reservation{}, newError(KindValidation, "unknown reservation status %d", in.Status)
	}
	var (
		res  model.Reservation
		prev model.ReservationStatus
	)
	err := s.store.InTx(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.store.GetReservation(ctx, in.ReservationID)
		if err != nil {
			return notFound(err, "reservation", in.ReservationID)
		}
		prev = res.Status

		datesMoved := false
		if in.CheckInDate != nil {
			datesMoved = datesMoved || !dateOnly(*in.CheckInDate).Equal(res.CheckInDate)
			res.CheckInDate = dateOnly(*in.CheckInDate)
		}
		if in.CheckOutDate != nil {
			datesMoved = datesMoved || !dateOnly(*in.CheckOutDate).Equal(res.CheckOutDate)
			res.CheckOutDate = dateOnly(*in.CheckOutDate)
		}
		if !res.CheckOutDate.After(res.CheckInDate) {
			return newError(KindValidation, "check_out_date must be after check_in_date")
		}
		if res.Status.Terminal() && (datesMoved || in.RoomID != nil) {
			return newError(KindValidation, "a %s reservation can no longer change rooms or dates", res.Status)
		}
		if in.GuestID != nil && *in.GuestID != res.GuestID {
			if _, err := s.store.GetGuest(ctx, *in.GuestID); err != nil {
				return notFound(err, "guest", *in.GuestID)
			}
			res.GuestID = *in.GuestID
		}
		if in.Notes != nil {
			res.Notes = *in.Notes
		}

		rooms, err := s.store.ListReservedRooms(ctx, res.ID)
		if err != nil {
			return err
		}
		if datesMoved {
			for _, rr := range rooms {
				if rr.RoomID == nil {
					continue
				}
				if _, err := s.claimRoom(ctx, *rr.RoomID, res.CheckInDate, res.CheckOutDate, res.ID); err != nil {
					return err
				}
			}
		}
		if in.RoomID != nil {
			target, ok := pickReservedRoom(rooms, in.ReservedRoomID)
			if !ok {
				return newError(KindNotFound, "reserved room %d not found on reservation %d", in.ReservedRoomID, res.ID)
			}
			if _, err := s.reassignRoom(ctx, res, target, *in.RoomID); err != nil {
				return err
			}
		}

		if in.Status != 0 && in.Status != res.Status {
			if in.Actor == nil || in.Actor.UserID == 0 {
				return newError(KindMissingActor, "a status change needs an authenticated user")
			}
			if err := s.checkTransition(ctx, res, in.Status); err != nil {
				return err
			}
			res.Status = in.Status
		}

		if err := s.store.UpdateReservation(ctx, res); err != nil {
			return err
		}
		if err := s.syncRoomStatuses(ctx, res); err != nil {
			return err
		}
		if prev == model.ReservationPending && res.Status == model.ReservationConfirmed {
			if err := s.activateBilling(ctx, res); err != nil {
				return err
			}
		}
		return s.refreshBillingSnapshot(ctx, res)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	if res.Status != prev {
		s.afterStatusChange(ctx, res, prev, in.Actor.UserID, "status updated")
	}
	return res, nil
}

// DeleteReservation soft-deletes a reservation and its reserved rooms and
// frees the rooms.  Billing, payments and history are kept.
func (s *Service) DeleteReservation(ctx context.Context, id uint64) error {
	return s.store.InTx(ctx, func(ctx context.Context) error {
		res, err := s.store.GetReservation(ctx, id)
		if err != nil {
			return notFound(err, "reservation", id)
		}
		rooms, err := s.store.ListReservedRooms(ctx, res.ID)
		if err != nil {
			return err
		}
		for _, rr := range rooms {
			if err := s.store.SoftDeleteReservedRoom(ctx, rr.ID); err != nil {
				return err
			}
			if rr.RoomID != nil {
				if err := s.store.SetRoomStatus(ctx, *rr.RoomID, model.RoomAvailable); err != nil {
					return err
				}
			}
		}
		return s.store.SoftDeleteReservation(ctx, res.ID)
	})
}

// ChangeStatus moves a reservation through the state machine, cascading the
// new state to its rooms.  The history row is written after commit.
func (s *Service) ChangeStatus(ctx context.Context, reservationID uint64, next model.ReservationStatus, actorID uint64) (model.Reservation, error) {
	return s.transition(ctx, reservationID, next, actorID, "status updated", nil)
}

// ChangeStatusByName is ChangeStatus keyed by a display name such as
// "checked-in".
func (s *Service) ChangeStatusByName(ctx context.Context, reservationID uint64, name string, actorID uint64) (model.Reservation, error) {
	next, ok := model.ParseReservationStatus(name)
	if !ok {
		return model.Reservation{}, newError(KindValidation, "unknown reservation status %q", name)
	}
	return s.ChangeStatus(ctx, reservationID, next, actorID)
}

// ConfirmAndCreateBilling confirms a pending online reservation, releases
// any held prepayment and makes sure a billing row exists.
func (s *Service) ConfirmAndCreateBilling(ctx context.Context, reservationID, actorID uint64) (model.Reservation, error) {
	onlineOnly := func(res model.Reservation) error {
		if res.Type != model.ReservationOnline {
			return newError(KindValidation, "only online reservations are confirmed this way")
		}
		return nil
	}
	return s.transition(ctx, reservationID, model.ReservationConfirmed, actorID, "reservation confirmed", onlineOnly)
}

// CheckReservationStatus reports whether a billing may be created and
// whether payments may be taken for a reservation.
func (s *Service) CheckReservationStatus(ctx context.Context, reservationID uint64) (Eligibility, error) {
	res, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return Eligibility{}, notFound(err, "reservation", reservationID)
	}
	return Eligibility{
		ReservationID: res.ID,
		Status:        res.Status,
		CanBill:       res.Status != model.ReservationPending && res.Status != model.ReservationCancelled,
		CanPay:        !res.Status.Terminal(),
	}, nil
}

func (s *Service) transition(ctx context.Context, id uint64, next model.ReservationStatus, actorID uint64, remarks string, guard func(model.Reservation) error) (model.Reservation, error) {
	if actorID == 0 {
		return model.Reservation{}, newError(KindMissingActor, "a status change needs an authenticated user")
	}
	if !next.Valid() {
		return model.Reservation{}, newError(KindValidation, "unknown reservation status %d", next)
	}
	var (
		res  model.Reservation
		prev model.ReservationStatus
	)
	err := s.store.InTx(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.store.GetReservation(ctx, id)
		if err != nil {
			return notFound(err, "reservation", id)
		}
		if guard != nil {
			if err := guard(res); err != nil {
				return err
			}
		}
		if err := s.checkTransition(ctx, res, next); err != nil {
			return err
		}
		prev = res.Status
		res.Status = next
		if err := s.store.UpdateReservation(ctx, res); err != nil {
			return err
		}
		if err := s.syncRoomStatuses(ctx, res); err != nil {
			return err
		}
		if prev == model.ReservationPending && next == model.ReservationConfirmed {
			if err := s.activateBilling(ctx, res); err != nil {
				return err
			}
		}
		return s.refreshBillingSnapshot(ctx, res)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	s.afterStatusChange(ctx, res, prev, actorID, remarks)
	return res, nil
}

// checkTransition enforces the transition table, the check-in date gate
// and the check-out balance gate.
func (s *Service) checkTransition(ctx context.Context, res model.Reservation, next model.ReservationStatus) error {
	if !CanTransition(res.Status, next) {
		return newError(KindInvalidTransition, "cannot change reservation status from %s to %s", res.Status, next)
	}
	switch next {
	case model.ReservationCheckedIn:
		if s.today().Before(dateOnly(res.CheckInDate)) {
			return &Error{
				Kind:    KindPrematureCheckIn,
				Message: "check-in is not allowed before " + res.CheckInDate.Format(time.DateOnly),
				Details: map[string]any{"check_in_date": res.CheckInDate.Format(time.DateOnly)},
			}
		}
	case model.ReservationCheckedOut:
		rooms, err := s.store.ListReservedRooms(ctx, res.ID)
		if err != nil {
			return err
		}
		payments, err := s.store.ListPayments(ctx, res.ID)
		if err != nil {
			return err
		}
		due := RoomPrice(rooms, res.Nights())
		paid := sumPayments(payments)
		if paid.LessThan(due.Sub(paymentTolerance)) {
			remaining := due.Sub(paid)
			return &Error{
				Kind: KindOutstandingBalance,
				Message: "outstanding balance: total due " + money(due) +
					", paid " + money(paid) + ", remaining " + money(remaining),
				Details: map[string]any{
					"total_due": money(due),
					"paid":      money(paid),
					"remaining": money(remaining),
				},
			}
		}
	}
	return nil
}

// activateBilling runs when a reservation leaves pending for confirmed:
// held payments start counting and a billing row is guaranteed.
func (s *Service) activateBilling(ctx context.Context, res model.Reservation) error {
	if err := s.store.ReleaseHeldPayments(ctx, res.ID); err != nil {
		return err
	}
	_, err := s.store.GetBillingByReservation(ctx, res.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return s.store.CreateBilling(ctx, &model.Billing{
		ReservationID: res.ID,
		StatusID:      model.BillingUnpaid,
		TotalAmount:   decimal.Zero,
		BillingDate:   s.now(),
	})
}

func (s *Service) afterStatusChange(ctx context.Context, res model.Reservation, prev model.ReservationStatus, actorID uint64, remarks string) {
	var by *uint64
	if actorID != 0 {
		by = ptr(actorID)
	}
	s.recordReservationHistory(ctx, model.StatusHistory{
		OwnerID:   res.ID,
		StatusID:  uint8(res.Status),
		ChangedBy: by,
		Remarks:   remarks,
		ChangedAt: s.now(),
	})
	s.publishReservationStatus(ctx, res.ID, prev, res.Status, actorID)
	s.log.Info("reservation status changed",
		zap.Uint64("reservation_id", res.ID),
		zap.String("from", prev.String()),
		zap.String("to", res.Status.String()))
}

// pickReservedRoom finds the reserved room with the given id, or the
// primary room when id is zero.
func pickReservedRoom(rooms []model.ReservedRoom, id uint64) (model.ReservedRoom, bool) {
	for _, rr := range rooms {
		if (id == 0 && rr.Primary) || (id != 0 && rr.ID == id) {
			return rr, true
		}
	}
	if id == 0 && len(rooms) > 0 {
		return rooms[0], true
	}
	return model.ReservedRoom{}, false
}
