package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/queue"
)

// Store is the persistence surface the rule engine needs.  Lookups of a
// single row return sql.ErrNoRows when the row is missing or soft-deleted.
// Methods called with the context handed to InTx's callback run inside that
// transaction.
type Store interface {
	// InTx runs fn in one database transaction, committing when fn returns
	// nil and rolling back otherwise.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Catalog and reference data.
	GetRoom(ctx context.Context, id uint64) (model.Room, error)
	LockRoom(ctx context.Context, id uint64) (model.Room, error)
	ListRooms(ctx context.Context, f model.RoomFilter) ([]model.Room, error)
	ListAvailableRooms(ctx context.Context, roomTypeID uint64, checkIn, checkOut time.Time) ([]model.Room, error)
	SetRoomStatus(ctx context.Context, roomID uint64, status model.RoomStatus) error
	GetRoomType(ctx context.Context, id uint64) (model.RoomType, error)
	ListRoomTypes(ctx context.Context) ([]model.RoomType, error)
	GetGuest(ctx context.Context, id uint64) (model.Guest, error)
	GetAddon(ctx context.Context, id uint64) (model.Addon, error)
	ListAddons(ctx context.Context) ([]model.Addon, error)

	// Reservations.
	CreateReservation(ctx context.Context, r *model.Reservation) error
	GetReservation(ctx context.Context, id uint64) (model.Reservation, error)
	ListReservations(ctx context.Context, f model.ReservationFilter) ([]model.ReservationSummary, error)
	UpdateReservation(ctx context.Context, r model.Reservation) error
	SoftDeleteReservation(ctx context.Context, id uint64) error

	// Reserved rooms and companions.
	CreateReservedRoom(ctx context.Context, rr *model.ReservedRoom) error
	GetReservedRoom(ctx context.Context, id uint64) (model.ReservedRoom, error)
	ListReservedRooms(ctx context.Context, reservationID uint64) ([]model.ReservedRoom, error)
	SoftDeleteReservedRoom(ctx context.Context, id uint64) error
	CountRoomConflicts(ctx context.Context, roomID uint64, checkIn, checkOut time.Time, excludeReservationID uint64) (int, error)
	ReplaceCompanions(ctx context.Context, reservedRoomID uint64, names []string) error
	ListCompanions(ctx context.Context, reservedRoomID uint64) ([]model.Companion, error)

	// Billing and payments.
	CreateBilling(ctx context.Context, b *model.Billing) error
	GetBilling(ctx context.Context, id uint64) (model.BillingRecord, error)
	GetBillingByReservation(ctx context.Context, reservationID uint64) (model.BillingRecord, error)
	ListBillings(ctx context.Context) ([]model.BillingRecord, error)
	UpdateBillingSnapshot(ctx context.Context, billingID uint64, status model.BillingStatus, total decimal.Decimal) error
	CreatePayment(ctx context.Context, p *model.Payment) error
	GetPayment(ctx context.Context, id uint64) (model.Payment, error)
	ListPayments(ctx context.Context, reservationID uint64) ([]model.Payment, error)
	ReleaseHeldPayments(ctx context.Context, reservationID uint64) error
	SoftDeletePayment(ctx context.Context, id uint64) error

	// Posted add-on charges.
	CreateBillingAddon(ctx context.Context, ba *model.BillingAddon) error
	HasBillingAddon(ctx context.Context, billingID, orderID, addonID uint64) (bool, error)
	ListBillingAddons(ctx context.Context, billingID uint64) ([]model.BillingAddonLine, error)
	RetractBillingAddons(ctx context.Context, billingID, orderID uint64) error

	// Add-on orders.
	CreateAddonOrder(ctx context.Context, o *model.AddonOrder) error
	GetAddonOrder(ctx context.Context, id uint64) (model.AddonOrder, error)
	ListAddonOrders(ctx context.Context, f model.AddonOrderFilter) ([]model.AddonOrder, error)
	UpdateAddonOrder(ctx context.Context, o model.AddonOrder) error
	SoftDeleteAddonOrder(ctx context.Context, id uint64) error
	AddAddonOrderItems(ctx context.Context, orderID uint64, addonIDs []uint64) error
	CountAddonOrderItems(ctx context.Context, orderID uint64) ([]model.AddonOrderItemCount, error)
	RetireAddonOrderItems(ctx context.Context, orderID uint64) error

	// Append-only audit trails.  ownerID 0 lists every row.
	AppendReservationHistory(ctx context.Context, h model.StatusHistory) error
	AppendAddonOrderHistory(ctx context.Context, h model.StatusHistory) error
	ListReservationHistory(ctx context.Context, reservationID uint64) ([]model.StatusHistory, error)
	ListAddonOrderHistory(ctx context.Context, orderID uint64) ([]model.StatusHistory, error)
}

// Publisher announces committed status changes.  Delivery is best-effort.
type Publisher interface {
	PublishReservationStatusChanged(ctx context.Context, ev queue.ReservationStatusChangedEvent) error
	PublishAddonOrderStatusChanged(ctx context.Context, ev queue.AddonOrderStatusChangedEvent) error
}
