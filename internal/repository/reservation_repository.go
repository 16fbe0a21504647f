package repository

import (
    "context"
    "database/sql"
    "strconv"
    "strings"

    "github.com/iliyamo/hotel-front-desk/internal/model"
)

// ReservationRepo persists reservations.  Rows are never physically removed;
// a soft-deleted reservation disappears from every read here.  Dates are
// stored as DATE columns and read back as midnight UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `r.id, r.guest_id, r.requested_room_type_id, r.reservation_type, r.status_id,
    r.check_in_date, r.check_out_date, COALESCE(r.notes, ''), r.created_at, r.updated_at`

func scanReservation(sc interface{ Scan(...any) error }, extra ...any) (model.Reservation, error) {
    var (
        res       model.Reservation
        requested sql.NullInt64
    )
    dest := []any{
        &res.ID, &res.GuestID, &requested, &res.Type, &res.Status,
        &res.CheckInDate, &res.CheckOutDate, &res.Notes, &res.CreatedAt, &res.UpdatedAt,
    }
    if err := sc.Scan(append(dest, extra...)...); err != nil {
        return model.Reservation{}, err
    }
    res.RequestedRoomTypeID = uintPtr(requested)
    return res, nil
}

// CreateReservation inserts res and fills in its id and timestamps.
func (r *ReservationRepo) CreateReservation(ctx context.Context, res *model.Reservation) error {
    const q = `INSERT INTO reservations
        (guest_id, requested_room_type_id, reservation_type, status_id, check_in_date, check_out_date, notes)
        VALUES (?, ?, ?, ?, ?, ?, ?)`
    db := conn(ctx, r.db)
    result, err := db.ExecContext(ctx, q,
        res.GuestID, nullUint(res.RequestedRoomTypeID), string(res.Type), uint8(res.Status),
        res.CheckInDate, res.CheckOutDate, res.Notes)
    if err := lastID(result, err, &res.ID); err != nil {
        return err
    }
    // read back defaults
    const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
    return db.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt)
}

func (r *ReservationRepo) GetReservation(ctx context.Context, id uint64) (model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations r WHERE r.id = ? AND r.is_deleted = 0`
    return scanReservation(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// UpdateReservation writes every mutable column of res.
func (r *ReservationRepo) UpdateReservation(ctx context.Context, res model.Reservation) error {
    const q = `UPDATE reservations
        SET guest_id = ?, requested_room_type_id = ?, status_id = ?, check_in_date = ?, check_out_date = ?, notes = ?
        WHERE id = ? AND is_deleted = 0`
    // no affected-rows check: MySQL reports 0 when nothing changed
    _, err := conn(ctx, r.db).ExecContext(ctx, q,
        res.GuestID, nullUint(res.RequestedRoomTypeID), uint8(res.Status),
        res.CheckInDate, res.CheckOutDate, res.Notes, res.ID)
    return err
}

func (r *ReservationRepo) SoftDeleteReservation(ctx context.Context, id uint64) error {
    const q = `UPDATE reservations SET is_deleted = 1 WHERE id = ? AND is_deleted = 0`
    return affectedOne(conn(ctx, r.db).ExecContext(ctx, q, id))
}

// ListReservations returns reservation summaries for the front-desk views.
func (r *ReservationRepo) ListReservations(ctx context.Context, f model.ReservationFilter) ([]model.ReservationSummary, error) {
    where := []string{"r.is_deleted = 0"}
    args := []any{}

    switch f.View {
    case "active":
        where = append(where, "r.status_id IN (1, 2, 3)")
    case "history":
        where = append(where, "r.status_id IN (4, 5)")
    case "arrivals":
        where = append(where, "r.check_in_date = ?", "r.status_id IN (1, 2)")
        args = append(args, f.Today)
    case "departures":
        where = append(where, "r.check_out_date = ?", "r.status_id = 3")
        args = append(args, f.Today)
    }
    if f.Status != 0 {
        where = append(where, "r.status_id = ?")
        args = append(args, uint8(f.Status))
    }
    if f.Type != "" {
        where = append(where, "r.reservation_type = ?")
        args = append(args, string(f.Type))
    }
    if f.DateFrom != nil {
        where = append(where, "r.check_in_date >= ?")
        args = append(args, *f.DateFrom)
    }
    if f.DateTo != nil {
        where = append(where, "r.check_out_date <= ?")
        args = append(args, *f.DateTo)
    }
    if s := strings.TrimSpace(f.Search); s != "" {
        like := "%" + strings.ToLower(s) + "%"
        cond := `(LOWER(CONCAT_WS(' ', g.first_name, g.middle_name, g.last_name)) LIKE ?
            OR EXISTS (SELECT 1 FROM reserved_rooms sr JOIN rooms sm ON sm.id = sr.room_id
                       WHERE sr.reservation_id = r.id AND sr.is_deleted = 0 AND sm.room_number LIKE ?)`
        args = append(args, like, like)
        if id, err := strconv.ParseUint(s, 10, 64); err == nil {
            cond += ` OR r.id = ?`
            args = append(args, id)
        }
        where = append(where, cond+")")
    }

    q := `SELECT ` + reservationColumns + `,
            CONCAT_WS(' ', g.first_name, NULLIF(g.middle_name, ''), g.last_name) AS guest_name,
            COALESCE((SELECT GROUP_CONCAT(rm.room_number ORDER BY rm.room_number SEPARATOR ',')
                      FROM reserved_rooms rr JOIN rooms rm ON rm.id = rr.room_id
                      WHERE rr.reservation_id = r.id AND rr.is_deleted = 0), '') AS room_numbers,
            (SELECT MAX(h.changed_at) FROM reservation_status_history h WHERE h.reservation_id = r.id) AS last_activity
        FROM reservations r
        JOIN guests g ON g.id = r.guest_id
        WHERE ` + strings.Join(where, " AND ") + `
        ORDER BY r.check_in_date DESC, r.id DESC`

    rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []model.ReservationSummary
    for rows.Next() {
        var (
            s        model.ReservationSummary
            numbers  string
            activity sql.NullTime
        )
        res, err := scanReservation(rows, &s.GuestName, &numbers, &activity)
        if err != nil {
            return nil, err
        }
        s.Reservation = res
        if numbers != "" {
            s.RoomNumbers = strings.Split(numbers, ",")
        }
        if activity.Valid {
            t := activity.Time
            s.LastActivityAt = &t
        }
        out = append(out, s)
    }
    return out, rows.Err()
}
