package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/hotel-front-desk/internal/model"
)

// AddonOrderRepo persists add-on orders and their item ledger.  Items are
// stored one row per unit; quantities are computed by grouping.
type AddonOrderRepo struct {
    db *sql.DB
}

func NewAddonOrderRepo(db *sql.DB) *AddonOrderRepo { return &AddonOrderRepo{db: db} }

const addonOrderColumns = `id, reservation_id, user_id, status_id, order_date`

func scanAddonOrder(sc interface{ Scan(...any) error }) (model.AddonOrder, error) {
    var o model.AddonOrder
    err := sc.Scan(&o.ID, &o.ReservationID, &o.UserID, &o.Status, &o.OrderDate)
    return o, err
}

func (r *AddonOrderRepo) CreateAddonOrder(ctx context.Context, o *model.AddonOrder) error {
    const q = `INSERT INTO addon_orders (reservation_id, user_id, status_id, order_date) VALUES (?, ?, ?, ?)`
    result, err := conn(ctx, r.db).ExecContext(ctx, q, o.ReservationID, o.UserID, uint8(o.Status), o.OrderDate)
    return lastID(result, err, &o.ID)
}

func (r *AddonOrderRepo) GetAddonOrder(ctx context.Context, id uint64) (model.AddonOrder, error) {
    const q = `SELECT ` + addonOrderColumns + ` FROM addon_orders WHERE id = ? AND is_deleted = 0`
    return scanAddonOrder(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

func (r *AddonOrderRepo) ListAddonOrders(ctx context.Context, f model.AddonOrderFilter) ([]model.AddonOrder, error) {
    q := `SELECT ` + addonOrderColumns + ` FROM addon_orders WHERE is_deleted = 0`
    var args []any
    if f.Status != 0 {
        q += ` AND status_id = ?`
        args = append(args, uint8(f.Status))
    }
    if f.ReservationID != 0 {
        q += ` AND reservation_id = ?`
        args = append(args, f.ReservationID)
    }
    q += ` ORDER BY order_date DESC, id DESC`

    rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.AddonOrder
    for rows.Next() {
        o, err := scanAddonOrder(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, o)
    }
    return out, rows.Err()
}

// UpdateAddonOrder writes the status and order date of o.
func (r *AddonOrderRepo) UpdateAddonOrder(ctx context.Context, o model.AddonOrder) error {
    const q = `UPDATE addon_orders SET status_id = ?, order_date = ? WHERE id = ? AND is_deleted = 0`
    _, err := conn(ctx, r.db).ExecContext(ctx, q, uint8(o.Status), o.OrderDate, o.ID)
    return err
}

func (r *AddonOrderRepo) SoftDeleteAddonOrder(ctx context.Context, id uint64) error {
    const q = `UPDATE addon_orders SET is_deleted = 1 WHERE id = ? AND is_deleted = 0`
    return affectedOne(conn(ctx, r.db).ExecContext(ctx, q, id))
}

// AddAddonOrderItems inserts one ledger row per unit in a single statement.
func (r *AddonOrderRepo) AddAddonOrderItems(ctx context.Context, orderID uint64, addonIDs []uint64) error {
    if len(addonIDs) == 0 {
        return nil
    }
    var sb strings.Builder
    sb.WriteString(`INSERT INTO addon_order_items (addon_order_id, addon_id) VALUES `)
    args := make([]any, 0, len(addonIDs)*2)
    for i, id := range addonIDs {
        if i > 0 {
            sb.WriteString(",")
        }
        sb.WriteString("(?, ?)")
        args = append(args, orderID, id)
    }
    _, err := conn(ctx, r.db).ExecContext(ctx, sb.String(), args...)
    return err
}

// CountAddonOrderItems groups the live items of an order by add-on, with the
// add-on's current catalog price.
func (r *AddonOrderRepo) CountAddonOrderItems(ctx context.Context, orderID uint64) ([]model.AddonOrderItemCount, error) {
    const q = `SELECT a.id, a.name, a.price, COUNT(*)
        FROM addon_order_items i
        JOIN addons a ON a.id = i.addon_id
        WHERE i.addon_order_id = ? AND i.is_deleted = 0
        GROUP BY a.id, a.name, a.price
        ORDER BY a.id`
    rows, err := conn(ctx, r.db).QueryContext(ctx, q, orderID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.AddonOrderItemCount
    for rows.Next() {
        var c model.AddonOrderItemCount
        if err := rows.Scan(&c.AddonID, &c.AddonName, &c.UnitPrice, &c.Quantity); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

func (r *AddonOrderRepo) RetireAddonOrderItems(ctx context.Context, orderID uint64) error {
    const q = `UPDATE addon_order_items SET is_deleted = 1 WHERE addon_order_id = ? AND is_deleted = 0`
    _, err := conn(ctx, r.db).ExecContext(ctx, q, orderID)
    return err
}
