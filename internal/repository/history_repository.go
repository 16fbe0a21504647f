package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/hotel-front-desk/internal/model"
)

// HistoryRepo appends to and reads the two status audit trails.  Rows are
// never updated or deleted.
type HistoryRepo struct {
    db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{db: db} }

func (r *HistoryRepo) AppendReservationHistory(ctx context.Context, h model.StatusHistory) error {
    const q = `INSERT INTO reservation_status_history (reservation_id, status_id, changed_by, remarks, changed_at) VALUES (?, ?, ?, ?, ?)`
    _, err := conn(ctx, r.db).ExecContext(ctx, q, h.OwnerID, h.StatusID, nullUint(h.ChangedBy), h.Remarks, h.ChangedAt)
    return err
}

func (r *HistoryRepo) AppendAddonOrderHistory(ctx context.Context, h model.StatusHistory) error {
    const q = `INSERT INTO addon_order_status_history (addon_order_id, status_id, changed_by, remarks, changed_at) VALUES (?, ?, ?, ?, ?)`
    _, err := conn(ctx, r.db).ExecContext(ctx, q, h.OwnerID, h.StatusID, nullUint(h.ChangedBy), h.Remarks, h.ChangedAt)
    return err
}

// ListReservationHistory returns the trail of one reservation, or every
// row when reservationID is 0, oldest first.
func (r *HistoryRepo) ListReservationHistory(ctx context.Context, reservationID uint64) ([]model.StatusHistory, error) {
    const q = `SELECT id, reservation_id, status_id, changed_by, COALESCE(remarks, ''), changed_at
        FROM reservation_status_history
        WHERE (? = 0 OR reservation_id = ?)
        ORDER BY changed_at, id`
    return r.list(ctx, q, reservationID)
}

func (r *HistoryRepo) ListAddonOrderHistory(ctx context.Context, orderID uint64) ([]model.StatusHistory, error) {
    const q = `SELECT id, addon_order_id, status_id, changed_by, COALESCE(remarks, ''), changed_at
        FROM addon_order_status_history
        WHERE (? = 0 OR addon_order_id = ?)
        ORDER BY changed_at, id`
    return r.list(ctx, q, orderID)
}

func (r *HistoryRepo) list(ctx context.Context, q string, ownerID uint64) ([]model.StatusHistory, error) {
    rows, err := conn(ctx, r.db).QueryContext(ctx, q, ownerID, ownerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.StatusHistory
    for rows.Next() {
        var (
            h  model.StatusHistory
            by sql.NullInt64
        )
        if err := rows.Scan(&h.ID, &h.OwnerID, &h.StatusID, &by, &h.Remarks, &h.ChangedAt); err != nil {
            return nil, err
        }
        h.ChangedBy = uintPtr(by)
        out = append(out, h)
    }
    return out, rows.Err()
}
