package service

import (
	"context"
	"testing"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to model.ReservationStatus
		want     bool
	}{
		{model.ReservationPending, model.ReservationConfirmed, true},
		{model.ReservationPending, model.ReservationCancelled, true},
		{model.ReservationPending, model.ReservationCheckedIn, false},
		{model.ReservationConfirmed, model.ReservationCheckedIn, true},
		{model.ReservationConfirmed, model.ReservationCancelled, true},
		{model.ReservationConfirmed, model.ReservationCheckedOut, false},
		{model.ReservationCheckedIn, model.ReservationCheckedOut, true},
		{model.ReservationCheckedIn, model.ReservationCancelled, false},
		{model.ReservationCheckedOut, model.ReservationCheckedIn, false},
		{model.ReservationCancelled, model.ReservationPending, false},
		{model.ReservationConfirmed, model.ReservationConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCanTransitionOrder(t *testing.T) {
	tests := []struct {
		from, to model.AddonOrderStatus
		want     bool
	}{
		{model.AddonOrderPending, model.AddonOrderPreparing, true},
		{model.AddonOrderPreparing, model.AddonOrderReady, true},
		{model.AddonOrderReady, model.AddonOrderDelivered, true},
		{model.AddonOrderPending, model.AddonOrderDelivered, false},
		{model.AddonOrderReady, model.AddonOrderCancelled, true},
		{model.AddonOrderDelivered, model.AddonOrderCancelled, false},
		{model.AddonOrderCancelled, model.AddonOrderPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			if got := CanTransitionOrder(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransitionOrder(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

var reservationStatuses = []model.ReservationStatus{
	model.ReservationPending,
	model.ReservationConfirmed,
	model.ReservationCheckedIn,
	model.ReservationCheckedOut,
	model.ReservationCancelled,
}

// reservationIn books rooms 101 and 201 for two nights and walks the
// reservation to status.  Checked-in stays are paid in full.
func (f *fixture) reservationIn(t *testing.T, status model.ReservationStatus) model.Reservation {
	t.Helper()
	initial := model.ReservationConfirmed
	if status == model.ReservationPending {
		initial = model.ReservationPending
	}
	out, err := f.svc.CreateReservation(context.Background(), CreateReservationInput{
		GuestID:      f.guest.ID,
		CheckInDate:  day(0),
		CheckOutDate: day(2),
		Type:         model.ReservationWalkIn,
		Status:       initial,
		Actor:        staff,
		Rooms:        []RoomRequest{roomReq(f.r101), roomReq(f.r201)},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := out.Reservation.ID
	switch status {
	case model.ReservationCheckedIn, model.ReservationCheckedOut:
		f.move(t, id, model.ReservationCheckedIn)
		b := f.billing(t, id)
		if _, err := f.svc.InsertPayment(context.Background(), PaymentInput{ReservationID: id, Amount: b.Summary.Remaining}); err != nil {
			t.Fatalf("settle: %v", err)
		}
		if status == model.ReservationCheckedOut {
			f.move(t, id, model.ReservationCheckedOut)
		}
	case model.ReservationCancelled:
		f.move(t, id, model.ReservationCancelled)
	}
	res, err := f.store.GetReservation(context.Background(), id)
	if err != nil || res.Status != status {
		t.Fatalf("setup reached %s (%v), want %s", res.Status, err, status)
	}
	return res
}

func TestChangeStatusEveryPair(t *testing.T) {
	for _, from := range reservationStatuses {
		for _, to := range reservationStatuses {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				f := newFixture(t)
				res := f.reservationIn(t, from)
				rooms := []model.RoomStatus{f.room(f.r101.ID).Status, f.room(f.r201.ID).Status}
				history, events := len(f.store.st.resHistory), len(f.pub.reservations)

				got, err := f.svc.ChangeStatus(context.Background(), res.ID, to, staff.UserID)
				if CanTransition(from, to) {
					if err != nil {
						t.Fatalf("allowed transition failed: %v", err)
					}
					if got.Status != to || f.room(f.r101.ID).Status != model.RoomStatusFor(to) {
						t.Fatalf("got %s with room %s, want %s", got.Status, f.room(f.r101.ID).Status, to)
					}
					return
				}

				wantKind(t, err, KindInvalidTransition)
				after, _ := f.store.GetReservation(context.Background(), res.ID)
				if after.Status != from {
					t.Errorf("reservation status = %s, want %s", after.Status, from)
				}
				if r1, r2 := f.room(f.r101.ID).Status, f.room(f.r201.ID).Status; r1 != rooms[0] || r2 != rooms[1] {
					t.Errorf("room statuses = %s/%s, want %s/%s", r1, r2, rooms[0], rooms[1])
				}
				if n := len(f.store.st.resHistory); n != history {
					t.Errorf("history rows = %d, want %d", n, history)
				}
				if len(f.pub.reservations) != events {
					t.Errorf("rejected transition published an event")
				}
			})
		}
	}
}
