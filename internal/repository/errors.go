// Package repository implements the MySQL persistence of the front desk.
// Single-row lookups and soft deletes report missing or already deleted
// rows as sql.ErrNoRows so the service layer can map them to NotFound.
package repository

import (
    "database/sql"
    "errors"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/hotel-front-desk/internal/service"
)

const mysqlDuplicateEntry = 1062

// conflictOnDuplicate reports a unique-key violation as a service Conflict.
func conflictOnDuplicate(err error, message string) error {
    var me *mysql.MySQLError
    if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
        return &service.Error{Kind: service.KindConflict, Message: message}
    }
    return err
}

// affectedOne returns sql.ErrNoRows when an UPDATE touched no row.
func affectedOne(res sql.Result, err error) error {
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// lastID stores the generated key of an INSERT into *id.
func lastID(res sql.Result, err error, id *uint64) error {
    if err != nil {
        return err
    }
    n, err := res.LastInsertId()
    if err != nil {
        return err
    }
    *id = uint64(n)
    return nil
}

func nullUint(p *uint64) sql.NullInt64 {
    if p == nil {
        return sql.NullInt64{}
    }
    return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func uintPtr(n sql.NullInt64) *uint64 {
    if !n.Valid {
        return nil
    }
    v := uint64(n.Int64)
    return &v
}
