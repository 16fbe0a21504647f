package service

import (
	"context"
	"strings"
	"testing"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

func TestInsertBillingRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.online(t, nil)
	_, err := f.svc.InsertBilling(ctx, pending.ID)
	wantKind(t, err, KindValidation)

	walkIn := f.walkIn(t, f.guest, 0, 2, roomReq(f.r101))
	_, err = f.svc.InsertBilling(ctx, walkIn.ID)
	wantKind(t, err, KindConflict)

	_, err = f.svc.InsertBilling(ctx, 9999)
	wantKind(t, err, KindNotFound)
}

func TestInsertPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.walkIn(t, f.guest, 0, 2, roomReq(f.r101))

	given := dec("5000")
	p, err := f.svc.InsertPayment(ctx, PaymentInput{ReservationID: res.ID, Amount: dec("3000"), MoneyGiven: &given})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if !p.ChangeGiven.Equal(dec("2000")) {
		t.Errorf("change = %s, want 2000", p.ChangeGiven)
	}
	if !strings.HasPrefix(p.ReferenceNumber, "PAY-") || len(p.ReferenceNumber) != 16 {
		t.Errorf("reference = %q", p.ReferenceNumber)
	}
	if p.SubMethodID != 1 || p.OnHold {
		t.Errorf("payment = %+v", p)
	}
	if b := f.billing(t, res.ID); b.Summary.Status != model.BillingPaid {
		t.Fatalf("billing status = %s, want paid", b.Summary.Status)
	}

	short := dec("10")
	tests := []struct {
		name string
		in   PaymentInput
		kind Kind
	}{
		{"zero amount", PaymentInput{ReservationID: res.ID}, KindValidation},
		{"negative amount", PaymentInput{ReservationID: res.ID, Amount: dec("-5")}, KindValidation},
		{"money given short", PaymentInput{ReservationID: res.ID, Amount: dec("100"), MoneyGiven: &short}, KindValidation},
		{"unknown reservation", PaymentInput{ReservationID: 9999, Amount: dec("100")}, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.InsertPayment(ctx, tt.in)
			wantKind(t, err, tt.kind)
		})
	}
}

func TestPaymentOnCancelledReservation(t *testing.T) {
	f := newFixture(t)
	res := f.walkIn(t, f.guest, 0, 2, roomReq(f.r101))
	f.move(t, res.ID, model.ReservationCancelled)
	_, err := f.svc.InsertPayment(context.Background(), PaymentInput{ReservationID: res.ID, Amount: dec("100")})
	wantKind(t, err, KindValidation)
}

func TestDeletePaymentReopensBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.walkIn(t, f.guest, 0, 2, roomReq(f.r101))
	b := f.billing(t, res.ID)

	if err := f.svc.DeletePayment(ctx, b.Payments[0].ID); err != nil {
		t.Fatal(err)
	}
	b = f.billing(t, res.ID)
	if b.Summary.Status != model.BillingUnpaid || !b.Summary.Remaining.Equal(dec("6000")) {
		t.Fatalf("bill after delete = %s remaining %s", b.Summary.Status, b.Summary.Remaining)
	}
	snap := f.store.st.billings[b.Billing.ID]
	if snap.StatusID != model.BillingUnpaid {
		t.Fatalf("stored snapshot = %s, want unpaid", snap.StatusID)
	}
	wantKind(t, f.svc.DeletePayment(ctx, 9999), KindNotFound)
}

func TestListBillingsDerivesEachRow(t *testing.T) {
	f := newFixture(t)
	f.walkIn(t, f.guest, 0, 2, roomReq(f.r101))
	f.online(t, nil)

	views, err := f.svc.ListBillings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 {
		t.Fatalf("want 2 billings, got %d", len(views))
	}
	if views[0].Summary.Status != model.BillingPartial || views[1].Summary.Status != model.BillingUnpaid {
		t.Fatalf("statuses = %s, %s", views[0].Summary.Status, views[1].Summary.Status)
	}
}
