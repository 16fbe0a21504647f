package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

var clock = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

// day returns the calendar date offset days from the fixture clock.
func day(offset int) time.Time {
	return time.Date(2026, 3, 10+offset, 0, 0, 0, 0, time.UTC)
}

var staff = &Actor{UserID: 7, Staff: true}

type fixture struct {
	store *memStore
	pub   *recordingPublisher
	svc   *Service

	deluxe, single   model.RoomType
	r101, r102, r201 model.Room
	broken           model.Room
	guest, other     model.Guest
	breakfast, towel model.Addon
	spa              model.Addon
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newMemStore()
	f := &fixture{store: st, pub: &recordingPublisher{}}
	f.deluxe = st.addRoomType("Deluxe", 3, "3000")
	f.single = st.addRoomType("Single", 1, "1500")
	f.r101 = st.addRoom("101", f.deluxe)
	f.r102 = st.addRoom("102", f.deluxe)
	f.r201 = st.addRoom("201", f.single)
	f.broken = st.addRoom("301", f.deluxe)
	if err := st.SetRoomStatus(context.Background(), f.broken.ID, model.RoomMaintenance); err != nil {
		t.Fatal(err)
	}
	f.guest = st.addGuest("Juan", "Dela Cruz")
	f.other = st.addGuest("Maria", "Santos")
	f.breakfast = st.addAddon("Breakfast", "250", true)
	f.towel = st.addAddon("Extra towel", "50", true)
	f.spa = st.addAddon("Spa", "1200", false)

	f.svc = New(st, Options{
		Publisher: f.pub,
		Now:       func() time.Time { return clock },
	})
	return f
}

// walkIn books the given rooms for guest from day in to day out.
func (f *fixture) walkIn(t *testing.T, guest model.Guest, in, out int, rooms ...RoomRequest) model.Reservation {
	t.Helper()
	res, err := f.svc.CreateReservation(context.Background(), CreateReservationInput{
		GuestID:      guest.ID,
		CheckInDate:  day(in),
		CheckOutDate: day(out),
		Actor:        staff,
		Rooms:        rooms,
	})
	if err != nil {
		t.Fatalf("create walk-in: %v", err)
	}
	return res.Reservation
}

func (f *fixture) online(t *testing.T, payment *PaymentRequest) model.Reservation {
	t.Helper()
	res, err := f.svc.CreateReservation(context.Background(), CreateReservationInput{
		GuestID:             f.guest.ID,
		RequestedRoomTypeID: &f.deluxe.ID,
		CheckInDate:         day(0),
		CheckOutDate:        day(2),
		Payment:             payment,
	})
	if err != nil {
		t.Fatalf("create online: %v", err)
	}
	return res.Reservation
}

func (f *fixture) room(id uint64) model.Room {
	r, _ := f.store.GetRoom(context.Background(), id)
	return r
}

func (f *fixture) billing(t *testing.T, reservationID uint64) BillingView {
	t.Helper()
	v, err := f.svc.GetBillingByReservation(context.Background(), reservationID)
	if err != nil {
		t.Fatalf("billing: %v", err)
	}
	return v
}

func (f *fixture) move(t *testing.T, id uint64, to model.ReservationStatus) {
	t.Helper()
	if _, err := f.svc.ChangeStatus(context.Background(), id, to, staff.UserID); err != nil {
		t.Fatalf("change status to %s: %v", to, err)
	}
}

func roomReq(r model.Room, companions ...string) RoomRequest {
	id := r.ID
	return RoomRequest{RoomID: &id, Companions: companions}
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if KindOf(err) != kind {
		t.Fatalf("expected %s error, got %v (%s)", kind, err, KindOf(err))
	}
}

func TestErrorMatchesSentinelByKind(t *testing.T) {
	err := newError(KindConflict, "room 101 is already booked")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("errors.Is should match the Conflict sentinel")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("errors.Is matched the wrong kind")
	}
	if KindOf(errors.New("boom")) != "" {
		t.Fatalf("plain errors have no kind")
	}
}
