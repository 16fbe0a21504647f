package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/hotel-front-desk/internal/model"
)

// CatalogRepo reads the reference data a reservation is built from: room
// types, rooms, guests and add-ons.  Room status is the only field it
// writes.
type CatalogRepo struct {
    db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

const roomColumns = `r.id, r.room_number, r.room_type_id, r.room_status, rt.type_name, rt.max_capacity, rt.price_per_stay`

func scanRoom(sc interface{ Scan(...any) error }) (model.Room, error) {
    var r model.Room
    err := sc.Scan(&r.ID, &r.RoomNumber, &r.RoomTypeID, &r.Status, &r.TypeName, &r.MaxCapacity, &r.PricePerStay)
    return r, err
}

func (r *CatalogRepo) GetRoom(ctx context.Context, id uint64) (model.Room, error) {
    const q = `SELECT ` + roomColumns + `
        FROM rooms r JOIN room_types rt ON rt.id = r.room_type_id
        WHERE r.id = ? AND r.is_deleted = 0`
    return scanRoom(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// LockRoom reads a room with FOR UPDATE, serialising concurrent bookings of
// the same room until the surrounding transaction ends.
func (r *CatalogRepo) LockRoom(ctx context.Context, id uint64) (model.Room, error) {
    const q = `SELECT ` + roomColumns + `
        FROM rooms r JOIN room_types rt ON rt.id = r.room_type_id
        WHERE r.id = ? AND r.is_deleted = 0
        FOR UPDATE`
    return scanRoom(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

func (r *CatalogRepo) ListRooms(ctx context.Context, f model.RoomFilter) ([]model.Room, error) {
    q := `SELECT ` + roomColumns + `
        FROM rooms r JOIN room_types rt ON rt.id = r.room_type_id
        WHERE r.is_deleted = 0`
    var args []any
    if f.RoomTypeID != 0 {
        q += ` AND r.room_type_id = ?`
        args = append(args, f.RoomTypeID)
    }
    if f.Status != "" {
        q += ` AND r.room_status = ?`
        args = append(args, string(f.Status))
    }
    q += ` ORDER BY r.room_number`
    return r.queryRooms(ctx, q, args...)
}

// ListAvailableRooms returns rooms with no active reservation overlapping
// [checkIn, checkOut).  roomTypeID 0 means every type.
func (r *CatalogRepo) ListAvailableRooms(ctx context.Context, roomTypeID uint64, checkIn, checkOut time.Time) ([]model.Room, error) {
    const q = `SELECT ` + roomColumns + `
        FROM rooms r JOIN room_types rt ON rt.id = r.room_type_id
        WHERE r.is_deleted = 0
          AND r.room_status <> 'maintenance'
          AND (? = 0 OR r.room_type_id = ?)
          AND NOT EXISTS (
              SELECT 1 FROM reserved_rooms rr
              JOIN reservations res ON res.id = rr.reservation_id
              WHERE rr.room_id = r.id
                AND rr.is_deleted = 0
                AND res.is_deleted = 0
                AND res.status_id IN (1, 2, 3)
                AND res.check_in_date < ?
                AND res.check_out_date > ?)
        ORDER BY r.room_number`
    return r.queryRooms(ctx, q, roomTypeID, roomTypeID, checkOut, checkIn)
}

func (r *CatalogRepo) queryRooms(ctx context.Context, q string, args ...any) ([]model.Room, error) {
    rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Room
    for rows.Next() {
        room, err := scanRoom(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, room)
    }
    return out, rows.Err()
}

func (r *CatalogRepo) SetRoomStatus(ctx context.Context, roomID uint64, status model.RoomStatus) error {
    const q = `UPDATE rooms SET room_status = ? WHERE id = ? AND is_deleted = 0`
    _, err := conn(ctx, r.db).ExecContext(ctx, q, string(status), roomID)
    return err
}

func (r *CatalogRepo) GetRoomType(ctx context.Context, id uint64) (model.RoomType, error) {
    const q = `SELECT id, type_name, max_capacity, price_per_stay FROM room_types WHERE id = ? AND is_deleted = 0`
    var t model.RoomType
    err := conn(ctx, r.db).QueryRowContext(ctx, q, id).Scan(&t.ID, &t.TypeName, &t.MaxCapacity, &t.PricePerStay)
    return t, err
}

func (r *CatalogRepo) ListRoomTypes(ctx context.Context) ([]model.RoomType, error) {
    const q = `SELECT id, type_name, max_capacity, price_per_stay FROM room_types WHERE is_deleted = 0 ORDER BY price_per_stay, id`
    rows, err := conn(ctx, r.db).QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.RoomType
    for rows.Next() {
        var t model.RoomType
        if err := rows.Scan(&t.ID, &t.TypeName, &t.MaxCapacity, &t.PricePerStay); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

func (r *CatalogRepo) GetGuest(ctx context.Context, id uint64) (model.Guest, error) {
    const q = `SELECT id, first_name, COALESCE(middle_name, ''), last_name, COALESCE(email, ''),
            COALESCE(phone_number, ''), date_of_birth, id_type_id, COALESCE(id_number, ''), COALESCE(id_picture, '')
        FROM guests WHERE id = ? AND is_deleted = 0`
    var (
        g      model.Guest
        dob    sql.NullTime
        idType sql.NullInt64
    )
    err := conn(ctx, r.db).QueryRowContext(ctx, q, id).Scan(
        &g.ID, &g.FirstName, &g.MiddleName, &g.LastName, &g.Email,
        &g.PhoneNumber, &dob, &idType, &g.IDNumber, &g.IDPicture,
    )
    if err != nil {
        return model.Guest{}, err
    }
    if dob.Valid {
        g.DateOfBirth = &dob.Time
    }
    g.IDTypeID = uintPtr(idType)
    return g, nil
}

func (r *CatalogRepo) GetAddon(ctx context.Context, id uint64) (model.Addon, error) {
    const q = `SELECT id, name, price, is_available FROM addons WHERE id = ? AND is_deleted = 0`
    var a model.Addon
    err := conn(ctx, r.db).QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.Price, &a.IsAvailable)
    return a, err
}

func (r *CatalogRepo) ListAddons(ctx context.Context) ([]model.Addon, error) {
    const q = `SELECT id, name, price, is_available FROM addons WHERE is_deleted = 0 ORDER BY name`
    rows, err := conn(ctx, r.db).QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Addon
    for rows.Next() {
        var a model.Addon
        if err := rows.Scan(&a.ID, &a.Name, &a.Price, &a.IsAvailable); err != nil {
            return nil, err
        }
        out = append(out, a)
    }
    return out, rows.Err()
}
