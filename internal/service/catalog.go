package service

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

func (s *Service) ListRoomTypes(ctx context.Context) ([]model.RoomType, error) {
	return s.store.ListRoomTypes(ctx)
}

func (s *Service) ListAddons(ctx context.Context) ([]model.Addon, error) {
	return s.store.ListAddons(ctx)
}

func (s *Service) ListRooms(ctx context.Context, f model.RoomFilter) ([]model.Room, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, newError(KindValidation, "unknown room status %q", f.Status)
	}
	return s.store.ListRooms(ctx, f)
}

// ListAvailableRooms returns rooms of a type that are free for the whole
// stay and not under maintenance.
func (s *Service) ListAvailableRooms(ctx context.Context, roomTypeID uint64, checkIn, checkOut time.Time) ([]model.Room, error) {
	checkIn, checkOut = dateOnly(checkIn), dateOnly(checkOut)
	if !checkOut.After(checkIn) {
		return nil, newError(KindValidation, "check_out_date must be after check_in_date")
	}
	if roomTypeID != 0 {
		if _, err := s.store.GetRoomType(ctx, roomTypeID); err != nil {
			return nil, notFound(err, "room type", roomTypeID)
		}
	}
	return s.store.ListAvailableRooms(ctx, roomTypeID, checkIn, checkOut)
}

// ReservationHistory returns the status trail of one reservation, or of
// every reservation when id is zero.
func (s *Service) ReservationHistory(ctx context.Context, id uint64) ([]model.StatusHistory, error) {
	return s.store.ListReservationHistory(ctx, id)
}

// AddonOrderHistory returns the status trail of one order, or of every
// order when id is zero.
func (s *Service) AddonOrderHistory(ctx context.Context, id uint64) ([]model.StatusHistory, error) {
	return s.store.ListAddonOrderHistory(ctx, id)
}
