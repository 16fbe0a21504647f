package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/queue"
)

// Options configures a Service.  Zero values fall back to sensible
// defaults: a no-op logger, no event publishing, time.Now, UTC and a 50%
// walk-in downpayment.
type Options struct {
	Publisher        Publisher
	Logger           *zap.Logger
	Now              func() time.Time
	Location         *time.Location
	DownpaymentRatio decimal.Decimal
	CashSubMethodID  uint64
}

// Service implements the reservation lifecycle and billing rules on top of
// a Store.  It is safe for concurrent use; all shared state lives in the
// database.
type Service struct {
	store       Store
	pub         Publisher
	log         *zap.Logger
	now         func() time.Time
	loc         *time.Location
	downpayment decimal.Decimal
	cashMethod  uint64
}

// Actor is the authenticated user performing an operation.  Staff actors
// create walk-in reservations by default.
type Actor struct {
	UserID uint64
	Staff  bool
}

func New(store Store, opts Options) *Service {
	s := &Service{
		store:       store,
		pub:         opts.Publisher,
		log:         opts.Logger,
		now:         opts.Now,
		loc:         opts.Location,
		downpayment: opts.DownpaymentRatio,
		cashMethod:  opts.CashSubMethodID,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if !s.downpayment.IsPositive() {
		s.downpayment = decimal.NewFromFloat(0.5)
	}
	if s.cashMethod == 0 {
		s.cashMethod = 1
	}
	return s
}

// today is the current calendar date in the hotel's timezone, expressed as
// midnight UTC so it compares directly with DATE columns.
func (s *Service) today() time.Time {
	return dateOnly(s.now().In(s.loc))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// recordReservationHistory appends an audit row outside the mutating
// transaction.  A failure is logged and never undoes the status change.
func (s *Service) recordReservationHistory(ctx context.Context, h model.StatusHistory) {
	if err := s.store.AppendReservationHistory(ctx, h); err != nil {
		s.log.Error("append reservation history failed",
			zap.Uint64("reservation_id", h.OwnerID),
			zap.Uint8("status_id", h.StatusID),
			zap.Error(err))
	}
}

func (s *Service) recordAddonOrderHistory(ctx context.Context, h model.StatusHistory) {
	if err := s.store.AppendAddonOrderHistory(ctx, h); err != nil {
		s.log.Error("append addon order history failed",
			zap.Uint64("addon_order_id", h.OwnerID),
			zap.Uint8("status_id", h.StatusID),
			zap.Error(err))
	}
}

func (s *Service) publishReservationStatus(ctx context.Context, id uint64, from, to model.ReservationStatus, actorID uint64) {
	if s.pub == nil {
		return
	}
	ev := queue.ReservationStatusChangedEvent{
		ReservationID: id,
		FromStatus:    from.String(),
		ToStatus:      to.String(),
		ChangedBy:     actorID,
		ChangedAt:     s.now().UTC(),
	}
	if err := s.pub.PublishReservationStatusChanged(ctx, ev); err != nil {
		s.log.Warn("publish reservation status event failed", zap.Uint64("reservation_id", id), zap.Error(err))
	}
}

func (s *Service) publishOrderStatus(ctx context.Context, o model.AddonOrder, from model.AddonOrderStatus, actorID uint64, remarks string) {
	if s.pub == nil {
		return
	}
	ev := queue.AddonOrderStatusChangedEvent{
		OrderID:       o.ID,
		ReservationID: o.ReservationID,
		FromStatus:    from.String(),
		ToStatus:      o.Status.String(),
		ChangedBy:     actorID,
		Remarks:       remarks,
		ChangedAt:     s.now().UTC(),
	}
	if err := s.pub.PublishAddonOrderStatusChanged(ctx, ev); err != nil {
		s.log.Warn("publish addon order status event failed", zap.Uint64("addon_order_id", o.ID), zap.Error(err))
	}
}

func ptr[T any](v T) *T { return &v }
