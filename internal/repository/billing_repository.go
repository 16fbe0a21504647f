package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-front-desk/internal/model"
)

// BillingRepo persists billings and the add-on charges posted to them.
// Billings of soft-deleted reservations stay readable.
type BillingRepo struct {
    db *sql.DB
}

func NewBillingRepo(db *sql.DB) *BillingRepo { return &BillingRepo{db: db} }

const billingSelect = `SELECT b.id, b.reservation_id, b.billing_status_id, b.total_amount, b.billing_date,
        r.status_id, r.check_in_date, r.check_out_date,
        CONCAT_WS(' ', g.first_name, NULLIF(g.middle_name, ''), g.last_name)
    FROM billings b
    JOIN reservations r ON r.id = b.reservation_id
    JOIN guests g ON g.id = r.guest_id`

func scanBilling(sc interface{ Scan(...any) error }) (model.BillingRecord, error) {
    var b model.BillingRecord
    err := sc.Scan(&b.ID, &b.ReservationID, &b.StatusID, &b.TotalAmount, &b.BillingDate,
        &b.ReservationStatus, &b.CheckInDate, &b.CheckOutDate, &b.GuestName)
    return b, err
}

func (r *BillingRepo) CreateBilling(ctx context.Context, b *model.Billing) error {
    const q = `INSERT INTO billings (reservation_id, billing_status_id, total_amount, billing_date) VALUES (?, ?, ?, ?)`
    result, err := conn(ctx, r.db).ExecContext(ctx, q, b.ReservationID, uint8(b.StatusID), b.TotalAmount, b.BillingDate)
    err = lastID(result, err, &b.ID)
    return conflictOnDuplicate(err, fmt.Sprintf("reservation %d already has a billing", b.ReservationID))
}

func (r *BillingRepo) GetBilling(ctx context.Context, id uint64) (model.BillingRecord, error) {
    return scanBilling(conn(ctx, r.db).QueryRowContext(ctx, billingSelect+` WHERE b.id = ? AND b.is_deleted = 0`, id))
}

func (r *BillingRepo) GetBillingByReservation(ctx context.Context, reservationID uint64) (model.BillingRecord, error) {
    return scanBilling(conn(ctx, r.db).QueryRowContext(ctx, billingSelect+` WHERE b.reservation_id = ? AND b.is_deleted = 0`, reservationID))
}

func (r *BillingRepo) ListBillings(ctx context.Context) ([]model.BillingRecord, error) {
    rows, err := conn(ctx, r.db).QueryContext(ctx, billingSelect+` WHERE b.is_deleted = 0 ORDER BY b.billing_date DESC, b.id DESC`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.BillingRecord
    for rows.Next() {
        b, err := scanBilling(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// UpdateBillingSnapshot stores the advisory status and total.
func (r *BillingRepo) UpdateBillingSnapshot(ctx context.Context, billingID uint64, status model.BillingStatus, total decimal.Decimal) error {
    const q = `UPDATE billings SET billing_status_id = ?, total_amount = ? WHERE id = ? AND is_deleted = 0`
    _, err := conn(ctx, r.db).ExecContext(ctx, q, uint8(status), total, billingID)
    return err
}

func (r *BillingRepo) CreateBillingAddon(ctx context.Context, ba *model.BillingAddon) error {
    const q = `INSERT INTO billing_addons (billing_id, addon_order_id, addon_id, unit_price, quantity) VALUES (?, ?, ?, ?, ?)`
    result, err := conn(ctx, r.db).ExecContext(ctx, q, ba.BillingID, ba.AddonOrderID, ba.AddonID, ba.UnitPrice, ba.Quantity)
    return lastID(result, err, &ba.ID)
}

// HasBillingAddon reports whether a live charge exists for the posting key
// (billing, order, add-on).
func (r *BillingRepo) HasBillingAddon(ctx context.Context, billingID, orderID, addonID uint64) (bool, error) {
    const q = `SELECT 1 FROM billing_addons
        WHERE billing_id = ? AND addon_order_id = ? AND addon_id = ? AND is_deleted = 0
        LIMIT 1`
    var one int
    err := conn(ctx, r.db).QueryRowContext(ctx, q, billingID, orderID, addonID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    return err == nil, err
}

// ListBillingAddons returns live charges with the add-on name and the
// current status of the order behind each line.
func (r *BillingRepo) ListBillingAddons(ctx context.Context, billingID uint64) ([]model.BillingAddonLine, error) {
    const q = `SELECT ba.id, ba.billing_id, ba.addon_order_id, ba.addon_id, ba.unit_price, ba.quantity, a.name, ao.status_id
        FROM billing_addons ba
        JOIN addons a ON a.id = ba.addon_id
        JOIN addon_orders ao ON ao.id = ba.addon_order_id
        WHERE ba.billing_id = ? AND ba.is_deleted = 0
        ORDER BY ba.id`
    rows, err := conn(ctx, r.db).QueryContext(ctx, q, billingID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.BillingAddonLine
    for rows.Next() {
        var l model.BillingAddonLine
        if err := rows.Scan(&l.ID, &l.BillingID, &l.AddonOrderID, &l.AddonID, &l.UnitPrice, &l.Quantity, &l.AddonName, &l.OrderStatus); err != nil {
            return nil, err
        }
        out = append(out, l)
    }
    return out, rows.Err()
}

// RetractBillingAddons soft-deletes every charge an order posted.
func (r *BillingRepo) RetractBillingAddons(ctx context.Context, billingID, orderID uint64) error {
    const q = `UPDATE billing_addons SET is_deleted = 1 WHERE billing_id = ? AND addon_order_id = ? AND is_deleted = 0`
    _, err := conn(ctx, r.db).ExecContext(ctx, q, billingID, orderID)
    return err
}
