package service

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// RoomRequest asks for one room on a reservation.  Either a concrete room
// or a room type is given; companions are the extra occupants.
type RoomRequest struct {
	RoomID     *uint64
	RoomTypeID *uint64
	Companions []string
}

// ReservedRoomView is a reserved room together with its companions.
type ReservedRoomView struct {
	model.ReservedRoom
	Companions []model.Companion
}

// AddReservedRoomInput adds a room to an existing reservation.
type AddReservedRoomInput struct {
	ReservationID uint64
	RoomRequest
}

// UpdateReservedRoomInput reassigns a reserved room and/or replaces its
// companion list.  Nil fields are left alone.
type UpdateReservedRoomInput struct {
	ReservedRoomID uint64
	RoomID         *uint64
	Companions     *[]string
}

// ListReservedRooms returns the active rooms of a reservation, primary first.
func (s *Service) ListReservedRooms(ctx context.Context, reservationID uint64) ([]ReservedRoomView, error) {
	if _, err := s.store.GetReservation(ctx, reservationID); err != nil {
		return nil, notFound(err, "reservation", reservationID)
	}
	rooms, err := s.store.ListReservedRooms(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	out := make([]ReservedRoomView, 0, len(rooms))
	for _, rr := range rooms {
		cs, err := s.store.ListCompanions(ctx, rr.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ReservedRoomView{ReservedRoom: rr, Companions: cs})
	}
	return out, nil
}

// AddReservedRoom books one more room for a reservation.  The first active
// room of a reservation becomes its primary room.
func (s *Service) AddReservedRoom(ctx context.Context, in AddReservedRoomInput) (model.ReservedRoom, error) {
	var created model.ReservedRoom
	err := s.store.InTx(ctx, func(ctx context.Context) error {
		res, err := s.store.GetReservation(ctx, in.ReservationID)
		if err != nil {
			return notFound(err, "reservation", in.ReservationID)
		}
		if res.Status.Terminal() {
			return newError(KindValidation, "rooms cannot be added to a %s reservation", res.Status)
		}
		existing, err := s.store.ListReservedRooms(ctx, res.ID)
		if err != nil {
			return err
		}
		if in.RoomID != nil && holdsRoom(existing, *in.RoomID, 0) {
			return newError(KindConflict, "room %d is already part of this reservation", *in.RoomID)
		}
		rr, err := s.planRoom(ctx, in.RoomRequest, res, res.RequestedRoomTypeID)
		if err != nil {
			return err
		}
		rr.ReservationID = res.ID
		rr.Primary = len(existing) == 0

		guest, err := s.store.GetGuest(ctx, res.GuestID)
		if err != nil {
			return notFound(err, "guest", res.GuestID)
		}
		names := cleanCompanions(in.Companions, guestNameFor(rr, guest))
		if err := checkCompanions(rr, names); err != nil {
			return err
		}
		if err := s.store.CreateReservedRoom(ctx, &rr); err != nil {
			return err
		}
		if len(names) > 0 {
			if err := s.store.ReplaceCompanions(ctx, rr.ID, names); err != nil {
				return err
			}
		}
		if rr.RoomID != nil {
			if err := s.store.SetRoomStatus(ctx, *rr.RoomID, model.RoomStatusFor(res.Status)); err != nil {
				return err
			}
		}
		created = rr
		return s.refreshBillingSnapshot(ctx, res)
	})
	return created, err
}

// UpdateReservedRoom moves a reserved room to another physical room and/or
// replaces its companions.  A move soft-deletes the old row and creates a
// new one carrying the same companions and primary marker.
func (s *Service) UpdateReservedRoom(ctx context.Context, in UpdateReservedRoomInput) (model.ReservedRoom, error) {
	var updated model.ReservedRoom
	err := s.store.InTx(ctx, func(ctx context.Context) error {
		rr, err := s.store.GetReservedRoom(ctx, in.ReservedRoomID)
		if err != nil {
			return notFound(err, "reserved room", in.ReservedRoomID)
		}
		res, err := s.store.GetReservation(ctx, rr.ReservationID)
		if err != nil {
			return notFound(err, "reservation", rr.ReservationID)
		}
		if in.RoomID != nil {
			if res.Status.Terminal() {
				return newError(KindValidation, "rooms of a %s reservation cannot be reassigned", res.Status)
			}
			if rr, err = s.reassignRoom(ctx, res, rr, *in.RoomID); err != nil {
				return err
			}
		}
		if in.Companions != nil {
			guest, err := s.store.GetGuest(ctx, res.GuestID)
			if err != nil {
				return notFound(err, "guest", res.GuestID)
			}
			names := cleanCompanions(*in.Companions, guestNameFor(rr, guest))
			if err := checkCompanions(rr, names); err != nil {
				return err
			}
			if err := s.store.ReplaceCompanions(ctx, rr.ID, names); err != nil {
				return err
			}
		}
		updated = rr
		return s.refreshBillingSnapshot(ctx, res)
	})
	return updated, err
}

// RemoveReservedRoom soft-deletes a reserved room and frees its physical
// room.  The last room of a reservation cannot be removed.
func (s *Service) RemoveReservedRoom(ctx context.Context, id uint64) error {
	return s.store.InTx(ctx, func(ctx context.Context) error {
		rr, err := s.store.GetReservedRoom(ctx, id)
		if err != nil {
			return notFound(err, "reserved room", id)
		}
		res, err := s.store.GetReservation(ctx, rr.ReservationID)
		if err != nil {
			return notFound(err, "reservation", rr.ReservationID)
		}
		rooms, err := s.store.ListReservedRooms(ctx, res.ID)
		if err != nil {
			return err
		}
		if len(rooms) <= 1 {
			return newError(KindValidation, "a reservation must keep at least one room")
		}
		if err := s.store.SoftDeleteReservedRoom(ctx, rr.ID); err != nil {
			return err
		}
		if rr.RoomID != nil {
			if err := s.store.SetRoomStatus(ctx, *rr.RoomID, model.RoomAvailable); err != nil {
				return err
			}
		}
		return s.refreshBillingSnapshot(ctx, res)
	})
}

// planRoom resolves a room request into an unsaved reserved room, locking
// and checking the physical room when one is named.
func (s *Service) planRoom(ctx context.Context, req RoomRequest, res model.Reservation, fallbackType *uint64) (model.ReservedRoom, error) {
	if req.RoomID != nil {
		room, err := s.claimRoom(ctx, *req.RoomID, res.CheckInDate, res.CheckOutDate, res.ID)
		if err != nil {
			return model.ReservedRoom{}, err
		}
		if req.RoomTypeID != nil && *req.RoomTypeID != room.RoomTypeID {
			return model.ReservedRoom{}, newError(KindValidation, "room %s is not of room type %d", room.RoomNumber, *req.RoomTypeID)
		}
		return reservedRoomFor(room), nil
	}
	if res.Type == model.ReservationWalkIn {
		return model.ReservedRoom{}, newError(KindValidation, "walk-in reservations need an assigned room")
	}
	typeID := req.RoomTypeID
	if typeID == nil {
		typeID = fallbackType
	}
	if typeID == nil {
		return model.ReservedRoom{}, newError(KindValidation, "a room type is required for an unassigned room")
	}
	rt, err := s.store.GetRoomType(ctx, *typeID)
	if err != nil {
		return model.ReservedRoom{}, notFound(err, "room type", *typeID)
	}
	return model.ReservedRoom{
		RoomTypeID:   rt.ID,
		TypeName:     rt.TypeName,
		MaxCapacity:  rt.MaxCapacity,
		PricePerStay: rt.PricePerStay,
	}, nil
}

// claimRoom locks a physical room and makes sure nothing else holds it for
// the given stay.  excludeReservationID lets a reservation re-check its own
// rooms when its dates move.
func (s *Service) claimRoom(ctx context.Context, roomID uint64, in, out time.Time, excludeReservationID uint64) (model.Room, error) {
	room, err := s.store.LockRoom(ctx, roomID)
	if err != nil {
		return model.Room{}, notFound(err, "room", roomID)
	}
	if room.Status == model.RoomMaintenance {
		return model.Room{}, newError(KindConflict, "room %s is under maintenance", room.RoomNumber)
	}
	n, err := s.store.CountRoomConflicts(ctx, room.ID, in, out, excludeReservationID)
	if err != nil {
		return model.Room{}, err
	}
	if n > 0 {
		return model.Room{}, newError(KindConflict, "room %s is already booked between %s and %s",
			room.RoomNumber, in.Format(time.DateOnly), out.Format(time.DateOnly))
	}
	return room, nil
}

// reassignRoom swaps the physical room behind a reserved room.
func (s *Service) reassignRoom(ctx context.Context, res model.Reservation, target model.ReservedRoom, roomID uint64) (model.ReservedRoom, error) {
	if target.RoomID != nil && *target.RoomID == roomID {
		return target, nil
	}
	rooms, err := s.store.ListReservedRooms(ctx, res.ID)
	if err != nil {
		return model.ReservedRoom{}, err
	}
	if holdsRoom(rooms, roomID, target.ID) {
		return model.ReservedRoom{}, newError(KindConflict, "room %d is already part of this reservation", roomID)
	}
	room, err := s.claimRoom(ctx, roomID, res.CheckInDate, res.CheckOutDate, res.ID)
	if err != nil {
		return model.ReservedRoom{}, err
	}

	companions, err := s.store.ListCompanions(ctx, target.ID)
	if err != nil {
		return model.ReservedRoom{}, err
	}
	names := make([]string, 0, len(companions))
	for _, c := range companions {
		names = append(names, c.FullName)
	}

	next := reservedRoomFor(room)
	next.ReservationID = res.ID
	next.Primary = target.Primary
	if err := checkCompanions(next, names); err != nil {
		return model.ReservedRoom{}, err
	}

	if err := s.store.SoftDeleteReservedRoom(ctx, target.ID); err != nil {
		return model.ReservedRoom{}, err
	}
	if target.RoomID != nil {
		if err := s.store.SetRoomStatus(ctx, *target.RoomID, model.RoomAvailable); err != nil {
			return model.ReservedRoom{}, err
		}
	}
	if err := s.store.CreateReservedRoom(ctx, &next); err != nil {
		return model.ReservedRoom{}, err
	}
	if len(names) > 0 {
		if err := s.store.ReplaceCompanions(ctx, next.ID, names); err != nil {
			return model.ReservedRoom{}, err
		}
	}
	if err := s.store.SetRoomStatus(ctx, room.ID, model.RoomStatusFor(res.Status)); err != nil {
		return model.ReservedRoom{}, err
	}
	return next, nil
}

// syncRoomStatuses sets every assigned room of a reservation to the status
// its reservation state implies.
func (s *Service) syncRoomStatuses(ctx context.Context, res model.Reservation) error {
	rooms, err := s.store.ListReservedRooms(ctx, res.ID)
	if err != nil {
		return err
	}
	want := model.RoomStatusFor(res.Status)
	for _, rr := range rooms {
		if rr.RoomID == nil {
			continue
		}
		if err := s.store.SetRoomStatus(ctx, *rr.RoomID, want); err != nil {
			return err
		}
	}
	return nil
}

func reservedRoomFor(room model.Room) model.ReservedRoom {
	id := room.ID
	return model.ReservedRoom{
		RoomID:       &id,
		RoomTypeID:   room.RoomTypeID,
		RoomNumber:   room.RoomNumber,
		TypeName:     room.TypeName,
		MaxCapacity:  room.MaxCapacity,
		PricePerStay: room.PricePerStay,
	}
}

// holdsRoom reports whether any reserved room other than skipID is on roomID.
func holdsRoom(rooms []model.ReservedRoom, roomID, skipID uint64) bool {
	for _, rr := range rooms {
		if rr.ID != skipID && rr.RoomID != nil && *rr.RoomID == roomID {
			return true
		}
	}
	return false
}

// guestNameFor returns the main guest's name when rr is the primary room,
// so it can be filtered out of the companion list.
func guestNameFor(rr model.ReservedRoom, g model.Guest) []string {
	if !rr.Primary {
		return nil
	}
	return []string{g.FullName(), g.FirstName + " " + g.LastName}
}

// cleanCompanions trims names, drops blanks and case-insensitive duplicates,
// and removes any name matching one of exclude.
func cleanCompanions(names []string, exclude []string) []string {
	seen := make(map[string]bool, len(names)+len(exclude))
	for _, n := range exclude {
		if k := companionKey(n); k != "" {
			seen[k] = true
		}
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.Join(strings.Fields(n), " ")
		k := companionKey(n)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, n)
	}
	return out
}

func companionKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func checkCompanions(rr model.ReservedRoom, names []string) error {
	if limit := rr.CompanionCap(); len(names) > limit {
		label := rr.RoomNumber
		if label == "" {
			label = rr.TypeName
		}
		return &Error{
			Kind:    KindValidation,
			Message: "too many companions for room " + label,
			Details: map[string]any{"max_companions": limit, "given": len(names)},
		}
	}
	return nil
}
