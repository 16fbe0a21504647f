package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/hotel-front-desk/internal/model"
)

type PaymentRepo struct {
    db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, billing_id, reservation_id, sub_method_id, amount_paid, money_given, change_given,
    payment_date, reference_number, COALESCE(notes, ''), is_on_hold`

func scanPayment(sc interface{ Scan(...any) error }) (model.Payment, error) {
    var p model.Payment
    err := sc.Scan(&p.ID, &p.BillingID, &p.ReservationID, &p.SubMethodID, &p.AmountPaid, &p.MoneyGiven,
        &p.ChangeGiven, &p.PaymentDate, &p.ReferenceNumber, &p.Notes, &p.OnHold)
    return p, err
}

func (r *PaymentRepo) CreatePayment(ctx context.Context, p *model.Payment) error {
    const q = `INSERT INTO payments
        (billing_id, reservation_id, sub_method_id, amount_paid, money_given, change_given, payment_date, reference_number, notes, is_on_hold)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := conn(ctx, r.db).ExecContext(ctx, q,
        p.BillingID, p.ReservationID, p.SubMethodID, p.AmountPaid, p.MoneyGiven, p.ChangeGiven,
        p.PaymentDate, p.ReferenceNumber, p.Notes, p.OnHold)
    return lastID(result, err, &p.ID)
}

func (r *PaymentRepo) GetPayment(ctx context.Context, id uint64) (model.Payment, error) {
    const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = ? AND is_deleted = 0`
    return scanPayment(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// ListPayments returns the live payments of a reservation, oldest first.
func (r *PaymentRepo) ListPayments(ctx context.Context, reservationID uint64) ([]model.Payment, error) {
    const q = `SELECT ` + paymentColumns + ` FROM payments WHERE reservation_id = ? AND is_deleted = 0 ORDER BY payment_date, id`
    rows, err := conn(ctx, r.db).QueryContext(ctx, q, reservationID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Payment
    for rows.Next() {
        p, err := scanPayment(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    return out, rows.Err()
}

// ReleaseHeldPayments lets prepayments taken while pending count.
func (r *PaymentRepo) ReleaseHeldPayments(ctx context.Context, reservationID uint64) error {
    const q = `UPDATE payments SET is_on_hold = 0 WHERE reservation_id = ? AND is_on_hold = 1 AND is_deleted = 0`
    _, err := conn(ctx, r.db).ExecContext(ctx, q, reservationID)
    return err
}

func (r *PaymentRepo) SoftDeletePayment(ctx context.Context, id uint64) error {
    const q = `UPDATE payments SET is_deleted = 1 WHERE id = ? AND is_deleted = 0`
    return affectedOne(conn(ctx, r.db).ExecContext(ctx, q, id))
}
