package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/hotel-front-desk/internal/model"
)

// ReservedRoomRepo stores the rooms of a reservation and their companions.
type ReservedRoomRepo struct {
    db *sql.DB
}

func NewReservedRoomRepo(db *sql.DB) *ReservedRoomRepo { return &ReservedRoomRepo{db: db} }

// Price and capacity come from the assigned room's type when a room is set,
// otherwise from the requested type.
const reservedRoomSelect = `SELECT rr.id, rr.reservation_id, rr.room_id, rr.room_type_id, rr.is_primary,
        COALESCE(rm.room_number, ''), rt.type_name, rt.max_capacity, rt.price_per_stay
    FROM reserved_rooms rr
    LEFT JOIN rooms rm ON rm.id = rr.room_id
    JOIN room_types rt ON rt.id = COALESCE(rm.room_type_id, rr.room_type_id)`

func scanReservedRoom(sc interface{ Scan(...any) error }) (model.ReservedRoom, error) {
    var (
        rr     model.ReservedRoom
        roomID sql.NullInt64
    )
    err := sc.Scan(&rr.ID, &rr.ReservationID, &roomID, &rr.RoomTypeID, &rr.Primary,
        &rr.RoomNumber, &rr.TypeName, &rr.MaxCapacity, &rr.PricePerStay)
    if err != nil {
        return model.ReservedRoom{}, err
    }
    rr.RoomID = uintPtr(roomID)
    return rr, nil
}

func (r *ReservedRoomRepo) CreateReservedRoom(ctx context.Context, rr *model.ReservedRoom) error {
    const q = `INSERT INTO reserved_rooms (reservation_id, room_id, room_type_id, is_primary) VALUES (?, ?, ?, ?)`
    result, err := conn(ctx, r.db).ExecContext(ctx, q, rr.ReservationID, nullUint(rr.RoomID), rr.RoomTypeID, rr.Primary)
    return lastID(result, err, &rr.ID)
}

func (r *ReservedRoomRepo) GetReservedRoom(ctx context.Context, id uint64) (model.ReservedRoom, error) {
    return scanReservedRoom(conn(ctx, r.db).QueryRowContext(ctx, reservedRoomSelect+` WHERE rr.id = ? AND rr.is_deleted = 0`, id))
}

// ListReservedRooms returns the active rooms of a reservation, primary first.
func (r *ReservedRoomRepo) ListReservedRooms(ctx context.Context, reservationID uint64) ([]model.ReservedRoom, error) {
    q := reservedRoomSelect + ` WHERE rr.reservation_id = ? AND rr.is_deleted = 0 ORDER BY rr.is_primary DESC, rr.id`
    rows, err := conn(ctx, r.db).QueryContext(ctx, q, reservationID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.ReservedRoom
    for rows.Next() {
        rr, err := scanReservedRoom(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, rr)
    }
    return out, rows.Err()
}

// SoftDeleteReservedRoom retires a reserved room together with its companions.
func (r *ReservedRoomRepo) SoftDeleteReservedRoom(ctx context.Context, id uint64) error {
    db := conn(ctx, r.db)
    if err := affectedOne(db.ExecContext(ctx, `UPDATE reserved_rooms SET is_deleted = 1 WHERE id = ? AND is_deleted = 0`, id)); err != nil {
        return err
    }
    _, err := db.ExecContext(ctx, `UPDATE reserved_room_companions SET is_deleted = 1 WHERE reserved_room_id = ? AND is_deleted = 0`, id)
    return err
}

// CountRoomConflicts counts active reservations, other than
// excludeReservationID, holding roomID on a stay overlapping
// [checkIn, checkOut).  Matching rows are locked until the transaction ends.
func (r *ReservedRoomRepo) CountRoomConflicts(ctx context.Context, roomID uint64, checkIn, checkOut time.Time, excludeReservationID uint64) (int, error) {
    const q = `SELECT rr.id
        FROM reserved_rooms rr
        JOIN reservations res ON res.id = rr.reservation_id
        WHERE rr.room_id = ?
          AND rr.is_deleted = 0
          AND res.is_deleted = 0
          AND res.status_id IN (1, 2, 3)
          AND res.id <> ?
          AND res.check_in_date < ?
          AND res.check_out_date > ?
        FOR UPDATE`
    rows, err := conn(ctx, r.db).QueryContext(ctx, q, roomID, excludeReservationID, checkOut, checkIn)
    if err != nil {
        return 0, err
    }
    defer rows.Close()
    n := 0
    for rows.Next() {
        n++
    }
    return n, rows.Err()
}

// ReplaceCompanions retires the current companions of a reserved room and
// inserts names in one statement.
func (r *ReservedRoomRepo) ReplaceCompanions(ctx context.Context, reservedRoomID uint64, names []string) error {
    db := conn(ctx, r.db)
    if _, err := db.ExecContext(ctx, `UPDATE reserved_room_companions SET is_deleted = 1 WHERE reserved_room_id = ? AND is_deleted = 0`, reservedRoomID); err != nil {
        return err
    }
    if len(names) == 0 {
        return nil
    }
    var sb strings.Builder
    sb.WriteString(`INSERT INTO reserved_room_companions (reserved_room_id, full_name) VALUES `)
    args := make([]any, 0, len(names)*2)
    for i, n := range names {
        if i > 0 {
            sb.WriteString(",")
        }
        sb.WriteString("(?, ?)")
        args = append(args, reservedRoomID, n)
    }
    _, err := db.ExecContext(ctx, sb.String(), args...)
    return err
}

func (r *ReservedRoomRepo) ListCompanions(ctx context.Context, reservedRoomID uint64) ([]model.Companion, error) {
    const q = `SELECT id, reserved_room_id, full_name FROM reserved_room_companions
        WHERE reserved_room_id = ? AND is_deleted = 0 ORDER BY id`
    rows, err := conn(ctx, r.db).QueryContext(ctx, q, reservedRoomID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Companion
    for rows.Next() {
        var c model.Companion
        if err := rows.Scan(&c.ID, &c.ReservedRoomID, &c.FullName); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}
