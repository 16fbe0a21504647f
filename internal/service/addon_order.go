package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// OrderItemInput is one line of an add-on order.
type OrderItemInput struct {
	AddonID  uint64
	Quantity int
}

// CreateOrderInput places an add-on order.  Status defaults to pending.
type CreateOrderInput struct {
	ReservationID uint64
	UserID        uint64
	Status        model.AddonOrderStatus
	Items         []OrderItemInput
}

// OrderView is an order with its aggregated items.
type OrderView struct {
	model.AddonOrder
	Items []model.AddonOrderItemCount
	Total decimal.Decimal
}

// CreateOrder places an add-on order on a confirmed or checked-in
// reservation.  A reservation must have been confirmed before anything can
// be ordered; in-house guests keep ordering after check-in, and delivery is
// only possible once they have checked in.  Pending, checked-out and
// cancelled reservations are refused.  An order created in a billable state
// posts its charges immediately.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (OrderView, error) {
	if in.UserID == 0 {
		return OrderView{}, newError(KindMissingActor, "an add-on order needs an authenticated user")
	}
	units, err := expandItems(in.Items)
	if err != nil {
		return OrderView{}, err
	}
	status := in.Status
	if status == 0 {
		status = model.AddonOrderPending
	}
	if !status.Valid() || status == model.AddonOrderCancelled {
		return OrderView{}, newError(KindValidation, "an add-on order cannot be created as %s", status)
	}

	var o model.AddonOrder
	err = s.store.InTx(ctx, func(ctx context.Context) error {
		res, err := s.store.GetReservation(ctx, in.ReservationID)
		if err != nil {
			return notFound(err, "reservation", in.ReservationID)
		}
		if res.Status != model.ReservationConfirmed && res.Status != model.ReservationCheckedIn {
			return newError(KindReservationNotConfirmed,
				"add-on orders need a confirmed reservation; reservation %d is %s", res.ID, res.Status)
		}
		if status == model.AddonOrderDelivered && res.Status != model.ReservationCheckedIn {
			return newError(KindGuestNotCheckedIn, "orders can only be delivered to a checked-in guest")
		}
		if err := s.checkAddons(ctx, in.Items); err != nil {
			return err
		}

		o = model.AddonOrder{
			ReservationID: res.ID,
			UserID:        in.UserID,
			Status:        status,
			OrderDate:     s.now(),
		}
		if err := s.store.CreateAddonOrder(ctx, &o); err != nil {
			return err
		}
		if err := s.store.AddAddonOrderItems(ctx, o.ID, units); err != nil {
			return err
		}
		if err := s.store.AppendAddonOrderHistory(ctx, model.StatusHistory{
			OwnerID:   o.ID,
			StatusID:  uint8(status),
			ChangedBy: ptr(in.UserID),
			Remarks:   "order placed",
			ChangedAt: s.now(),
		}); err != nil {
			return err
		}
		if status.Billable() {
			if err := s.postCharges(ctx, o); err != nil {
				return err
			}
		}
		return s.refreshBillingSnapshot(ctx, res)
	})
	if err != nil {
		return OrderView{}, err
	}
	s.log.Info("addon order created",
		zap.Uint64("addon_order_id", o.ID),
		zap.Uint64("reservation_id", o.ReservationID),
		zap.Int("units", len(units)))
	return s.GetOrder(ctx, o.ID)
}

// ChangeOrderStatus moves an order through its state machine.  Entering a
// billable state posts the order's charges once; cancelling retracts them.
func (s *Service) ChangeOrderStatus(ctx context.Context, orderID uint64, next model.AddonOrderStatus, actorID uint64, remarks string) (model.AddonOrder, error) {
	if actorID == 0 {
		return model.AddonOrder{}, newError(KindMissingActor, "a status change needs an authenticated user")
	}
	if !next.Valid() {
		return model.AddonOrder{}, newError(KindValidation, "unknown add-on order status %d", next)
	}
	var (
		o    model.AddonOrder
		prev model.AddonOrderStatus
	)
	err := s.store.InTx(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.store.GetAddonOrder(ctx, orderID)
		if err != nil {
			return notFound(err, "add-on order", orderID)
		}
		if !CanTransitionOrder(o.Status, next) {
			return newError(KindInvalidTransition, "cannot change add-on order status from %s to %s", o.Status, next)
		}
		res, err := s.store.GetReservation(ctx, o.ReservationID)
		if err != nil {
			return notFound(err, "reservation", o.ReservationID)
		}
		if next == model.AddonOrderDelivered && res.Status != model.ReservationCheckedIn {
			return newError(KindGuestNotCheckedIn, "orders can only be delivered to a checked-in guest")
		}

		prev = o.Status
		o.Status = next
		if err := s.store.UpdateAddonOrder(ctx, o); err != nil {
			return err
		}
		switch {
		case next == model.AddonOrderCancelled:
			if err := s.retractCharges(ctx, o); err != nil {
				return err
			}
		case !prev.Billable() && next.Billable():
			if err := s.postCharges(ctx, o); err != nil {
				return err
			}
		}
		return s.refreshBillingSnapshot(ctx, res)
	})
	if err != nil {
		return model.AddonOrder{}, err
	}

	s.recordAddonOrderHistory(ctx, model.StatusHistory{
		OwnerID:   o.ID,
		StatusID:  uint8(o.Status),
		ChangedBy: ptr(actorID),
		Remarks:   remarks,
		ChangedAt: s.now(),
	})
	s.publishOrderStatus(ctx, o, prev, actorID, remarks)
	return o, nil
}

// UpdateOrderStatusByName is ChangeOrderStatus keyed by a display name.
func (s *Service) UpdateOrderStatusByName(ctx context.Context, orderID uint64, name string, actorID uint64, remarks string) (model.AddonOrder, error) {
	next, ok := model.ParseAddonOrderStatus(name)
	if !ok {
		return model.AddonOrder{}, newError(KindValidation, "unknown add-on order status %q", name)
	}
	return s.ChangeOrderStatus(ctx, orderID, next, actorID, remarks)
}

// EditOrder replaces the items of an order that is not yet delivered or
// cancelled.  Charges of a billable order are re-posted at current prices.
func (s *Service) EditOrder(ctx context.Context, orderID uint64, items []OrderItemInput) (OrderView, error) {
	units, err := expandItems(items)
	if err != nil {
		return OrderView{}, err
	}
	err = s.store.InTx(ctx, func(ctx context.Context) error {
		o, err := s.store.GetAddonOrder(ctx, orderID)
		if err != nil {
			return notFound(err, "add-on order", orderID)
		}
		if o.Status == model.AddonOrderDelivered || o.Status == model.AddonOrderCancelled {
			return newError(KindValidation, "a %s order can no longer be edited", o.Status)
		}
		if err := s.checkAddons(ctx, items); err != nil {
			return err
		}
		if err := s.store.RetireAddonOrderItems(ctx, o.ID); err != nil {
			return err
		}
		if err := s.store.AddAddonOrderItems(ctx, o.ID, units); err != nil {
			return err
		}
		if o.Status.Billable() {
			if err := s.retractCharges(ctx, o); err != nil {
				return err
			}
			if err := s.postCharges(ctx, o); err != nil {
				return err
			}
		}
		o.OrderDate = s.now()
		if err := s.store.UpdateAddonOrder(ctx, o); err != nil {
			return err
		}
		res, err := s.store.GetReservation(ctx, o.ReservationID)
		if err != nil {
			return notFound(err, "reservation", o.ReservationID)
		}
		return s.refreshBillingSnapshot(ctx, res)
	})
	if err != nil {
		return OrderView{}, err
	}
	return s.GetOrder(ctx, orderID)
}

// DeleteOrder soft-deletes an order, its items and any charges it posted.
func (s *Service) DeleteOrder(ctx context.Context, orderID uint64) error {
	return s.store.InTx(ctx, func(ctx context.Context) error {
		o, err := s.store.GetAddonOrder(ctx, orderID)
		if err != nil {
			return notFound(err, "add-on order", orderID)
		}
		if err := s.retractCharges(ctx, o); err != nil {
			return err
		}
		if err := s.store.RetireAddonOrderItems(ctx, o.ID); err != nil {
			return err
		}
		if err := s.store.SoftDeleteAddonOrder(ctx, o.ID); err != nil {
			return err
		}
		res, err := s.store.GetReservation(ctx, o.ReservationID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.refreshBillingSnapshot(ctx, res)
	})
}

func (s *Service) GetOrder(ctx context.Context, id uint64) (OrderView, error) {
	o, err := s.store.GetAddonOrder(ctx, id)
	if err != nil {
		return OrderView{}, notFound(err, "add-on order", id)
	}
	return s.orderView(ctx, o)
}

func (s *Service) ListOrders(ctx context.Context, f model.AddonOrderFilter) ([]OrderView, error) {
	if f.Status != 0 && !f.Status.Valid() {
		return nil, newError(KindValidation, "unknown add-on order status %d", f.Status)
	}
	orders, err := s.store.ListAddonOrders(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		v, err := s.orderView(ctx, o)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) orderView(ctx context.Context, o model.AddonOrder) (OrderView, error) {
	items, err := s.store.CountAddonOrderItems(ctx, o.ID)
	if err != nil {
		return OrderView{}, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return OrderView{AddonOrder: o, Items: items, Total: total}, nil
}

// postCharges writes one billing line per distinct add-on of the order,
// priced from the catalog now.  Lines already posted for the same billing,
// order and add-on are skipped, so calling it twice posts nothing new.
func (s *Service) postCharges(ctx context.Context, o model.AddonOrder) error {
	rec, err := s.store.GetBillingByReservation(ctx, o.ReservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return newError(KindNotFound, "reservation %d has no billing to post charges to", o.ReservationID)
		}
		return err
	}
	counts, err := s.store.CountAddonOrderItems(ctx, o.ID)
	if err != nil {
		return err
	}
	for _, c := range counts {
		posted, err := s.store.HasBillingAddon(ctx, rec.ID, o.ID, c.AddonID)
		if err != nil {
			return err
		}
		if posted {
			continue
		}
		if err := s.store.CreateBillingAddon(ctx, &model.BillingAddon{
			BillingID:    rec.ID,
			AddonOrderID: o.ID,
			AddonID:      c.AddonID,
			UnitPrice:    c.UnitPrice,
			Quantity:     c.Quantity,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) retractCharges(ctx context.Context, o model.AddonOrder) error {
	rec, err := s.store.GetBillingByReservation(ctx, o.ReservationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.store.RetractBillingAddons(ctx, rec.ID, o.ID)
}

// checkAddons makes sure every add-on exists and can be ordered.
func (s *Service) checkAddons(ctx context.Context, items []OrderItemInput) error {
	for _, it := range items {
		a, err := s.store.GetAddon(ctx, it.AddonID)
		if err != nil {
			return notFound(err, "add-on", it.AddonID)
		}
		if !a.IsAvailable {
			return newError(KindValidation, "add-on %s is not available", a.Name)
		}
	}
	return nil
}

const (
	maxUnitsPerLine  = 100
	maxUnitsPerOrder = 500
)

// expandItems turns quantities into one add-on id per unit.
func expandItems(items []OrderItemInput) ([]uint64, error) {
	if len(items) == 0 {
		return nil, newError(KindValidation, "an order needs at least one item")
	}
	total := 0
	for _, it := range items {
		if it.AddonID == 0 {
			return nil, newError(KindValidation, "addon_id is required")
		}
		if it.Quantity < 1 || it.Quantity > maxUnitsPerLine {
			return nil, newError(KindValidation, "quantity must be between 1 and %d", maxUnitsPerLine)
		}
		total += it.Quantity
		if total > maxUnitsPerOrder {
			return nil, newError(KindValidation, "an order holds at most %d units", maxUnitsPerOrder)
		}
	}
	units := make([]uint64, 0, total)
	for _, it := range items {
		for i := 0; i < it.Quantity; i++ {
			units = append(units, it.AddonID)
		}
	}
	return units, nil
}
