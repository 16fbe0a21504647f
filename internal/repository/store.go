package repository

import (
    "context"
    "database/sql"
)

// Store bundles every repository behind one value so the service layer can
// depend on a single interface.  Methods of the embedded repositories are
// promoted; InTx opens the transaction they pick up from the context.
type Store struct {
    *CatalogRepo
    *ReservationRepo
    *ReservedRoomRepo
    *BillingRepo
    *PaymentRepo
    *AddonOrderRepo
    *HistoryRepo

    conn *sql.DB
}

func NewStore(db *sql.DB) *Store {
    return &Store{
        CatalogRepo:      NewCatalogRepo(db),
        ReservationRepo:  NewReservationRepo(db),
        ReservedRoomRepo: NewReservedRoomRepo(db),
        BillingRepo:      NewBillingRepo(db),
        PaymentRepo:      NewPaymentRepo(db),
        AddonOrderRepo:   NewAddonOrderRepo(db),
        HistoryRepo:      NewHistoryRepo(db),
        conn:             db,
    }
}

// InTx runs fn in one transaction, committing only when fn returns nil.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
    return inTx(ctx, s.conn, fn)
}
