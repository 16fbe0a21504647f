package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/queue"
)

// memStore is an in-memory Store.  InTx snapshots the whole state and
// restores it when the callback fails, which mirrors a rolled back MySQL
// transaction closely enough for the rule engine.
type memStore struct {
	st memState

	failHistory bool
}

type memState struct {
	nextID uint64

	roomTypes map[uint64]model.RoomType
	rooms     map[uint64]model.Room
	guests    map[uint64]model.Guest
	addons    map[uint64]model.Addon

	reservations map[uint64]model.Reservation
	resDeleted   map[uint64]bool

	reserved   map[uint64]model.ReservedRoom
	rrDeleted  map[uint64]bool
	companions map[uint64][]model.Companion

	billings      map[uint64]model.Billing
	payments      map[uint64]model.Payment
	payDeleted    map[uint64]bool
	billingAddons map[uint64]model.BillingAddon
	baDeleted     map[uint64]bool

	orders       map[uint64]model.AddonOrder
	orderDeleted map[uint64]bool
	orderItems   []memItem

	resHistory   []model.StatusHistory
	orderHistory []model.StatusHistory
}

type memItem struct {
	orderID uint64
	addonID uint64
	retired bool
}

type memTxKey struct{}

func newMemStore() *memStore {
	return &memStore{st: memState{
		roomTypes:     map[uint64]model.RoomType{},
		rooms:         map[uint64]model.Room{},
		guests:        map[uint64]model.Guest{},
		addons:        map[uint64]model.Addon{},
		reservations:  map[uint64]model.Reservation{},
		resDeleted:    map[uint64]bool{},
		reserved:      map[uint64]model.ReservedRoom{},
		rrDeleted:     map[uint64]bool{},
		companions:    map[uint64][]model.Companion{},
		billings:      map[uint64]model.Billing{},
		payments:      map[uint64]model.Payment{},
		payDeleted:    map[uint64]bool{},
		billingAddons: map[uint64]model.BillingAddon{},
		baDeleted:     map[uint64]bool{},
		orders:        map[uint64]model.AddonOrder{},
		orderDeleted:  map[uint64]bool{},
	}}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s memState) clone() memState {
	c := s
	c.roomTypes = copyMap(s.roomTypes)
	c.rooms = copyMap(s.rooms)
	c.guests = copyMap(s.guests)
	c.addons = copyMap(s.addons)
	c.reservations = copyMap(s.reservations)
	c.resDeleted = copyMap(s.resDeleted)
	c.reserved = copyMap(s.reserved)
	c.rrDeleted = copyMap(s.rrDeleted)
	c.companions = make(map[uint64][]model.Companion, len(s.companions))
	for k, v := range s.companions {
		c.companions[k] = append([]model.Companion(nil), v...)
	}
	c.billings = copyMap(s.billings)
	c.payments = copyMap(s.payments)
	c.payDeleted = copyMap(s.payDeleted)
	c.billingAddons = copyMap(s.billingAddons)
	c.baDeleted = copyMap(s.baDeleted)
	c.orders = copyMap(s.orders)
	c.orderDeleted = copyMap(s.orderDeleted)
	c.orderItems = append([]memItem(nil), s.orderItems...)
	c.resHistory = append([]model.StatusHistory(nil), s.resHistory...)
	c.orderHistory = append([]model.StatusHistory(nil), s.orderHistory...)
	return c
}

func (m *memStore) id() uint64 {
	m.st.nextID++
	return m.st.nextID
}

func sortedKeys[V any](mp map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ---- seeding helpers ----

func (m *memStore) addRoomType(name string, capacity int, price string) model.RoomType {
	t := model.RoomType{ID: m.id(), TypeName: name, MaxCapacity: capacity, PricePerStay: decimal.RequireFromString(price)}
	m.st.roomTypes[t.ID] = t
	return t
}

func (m *memStore) addRoom(number string, t model.RoomType) model.Room {
	r := model.Room{ID: m.id(), RoomNumber: number, RoomTypeID: t.ID, Status: model.RoomAvailable}
	m.st.rooms[r.ID] = r
	return r
}

func (m *memStore) addGuest(first, last string) model.Guest {
	g := model.Guest{ID: m.id(), FirstName: first, LastName: last}
	m.st.guests[g.ID] = g
	return g
}

func (m *memStore) addAddon(name, price string, available bool) model.Addon {
	a := model.Addon{ID: m.id(), Name: name, Price: decimal.RequireFromString(price), IsAvailable: available}
	m.st.addons[a.ID] = a
	return a
}

// ---- Store ----

func (m *memStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	snap := m.st.clone()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		m.st = snap
		return err
	}
	return nil
}

func (m *memStore) joinRoom(r model.Room) model.Room {
	t := m.st.roomTypes[r.RoomTypeID]
	r.TypeName, r.MaxCapacity, r.PricePerStay = t.TypeName, t.MaxCapacity, t.PricePerStay
	return r
}

func (m *memStore) GetRoom(_ context.Context, id uint64) (model.Room, error) {
	r, ok := m.st.rooms[id]
	if !ok {
		return model.Room{}, sql.ErrNoRows
	}
	return m.joinRoom(r), nil
}

func (m *memStore) LockRoom(ctx context.Context, id uint64) (model.Room, error) {
	return m.GetRoom(ctx, id)
}

func (m *memStore) ListRooms(_ context.Context, f model.RoomFilter) ([]model.Room, error) {
	var out []model.Room
	for _, id := range sortedKeys(m.st.rooms) {
		r := m.st.rooms[id]
		if (f.RoomTypeID != 0 && r.RoomTypeID != f.RoomTypeID) || (f.Status != "" && r.Status != f.Status) {
			continue
		}
		out = append(out, m.joinRoom(r))
	}
	return out, nil
}

func (m *memStore) ListAvailableRooms(ctx context.Context, roomTypeID uint64, checkIn, checkOut time.Time) ([]model.Room, error) {
	var out []model.Room
	for _, id := range sortedKeys(m.st.rooms) {
		r := m.st.rooms[id]
		if (roomTypeID != 0 && r.RoomTypeID != roomTypeID) || r.Status == model.RoomMaintenance {
			continue
		}
		if n, _ := m.CountRoomConflicts(ctx, r.ID, checkIn, checkOut, 0); n > 0 {
			continue
		}
		out = append(out, m.joinRoom(r))
	}
	return out, nil
}

func (m *memStore) SetRoomStatus(_ context.Context, roomID uint64, status model.RoomStatus) error {
	r, ok := m.st.rooms[roomID]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	m.st.rooms[roomID] = r
	return nil
}

func (m *memStore) GetRoomType(_ context.Context, id uint64) (model.RoomType, error) {
	t, ok := m.st.roomTypes[id]
	if !ok {
		return model.RoomType{}, sql.ErrNoRows
	}
	return t, nil
}

func (m *memStore) ListRoomTypes(context.Context) ([]model.RoomType, error) {
	var out []model.RoomType
	for _, id := range sortedKeys(m.st.roomTypes) {
		out = append(out, m.st.roomTypes[id])
	}
	return out, nil
}

func (m *memStore) GetGuest(_ context.Context, id uint64) (model.Guest, error) {
	g, ok := m.st.guests[id]
	if !ok {
		return model.Guest{}, sql.ErrNoRows
	}
	return g, nil
}

func (m *memStore) GetAddon(_ context.Context, id uint64) (model.Addon, error) {
	a, ok := m.st.addons[id]
	if !ok {
		return model.Addon{}, sql.ErrNoRows
	}
	return a, nil
}

func (m *memStore) ListAddons(context.Context) ([]model.Addon, error) {
	var out []model.Addon
	for _, id := range sortedKeys(m.st.addons) {
		out = append(out, m.st.addons[id])
	}
	return out, nil
}

func (m *memStore) CreateReservation(_ context.Context, r *model.Reservation) error {
	r.ID = m.id()
	m.st.reservations[r.ID] = *r
	return nil
}

func (m *memStore) GetReservation(_ context.Context, id uint64) (model.Reservation, error) {
	r, ok := m.st.reservations[id]
	if !ok || m.st.resDeleted[id] {
		return model.Reservation{}, sql.ErrNoRows
	}
	return r, nil
}

func (m *memStore) ListReservations(_ context.Context, f model.ReservationFilter) ([]model.ReservationSummary, error) {
	var out []model.ReservationSummary
	for _, id := range sortedKeys(m.st.reservations) {
		r := m.st.reservations[id]
		if m.st.resDeleted[id] || (f.Status != 0 && r.Status != f.Status) || (f.Type != "" && r.Type != f.Type) {
			continue
		}
		out = append(out, model.ReservationSummary{Reservation: r, GuestName: m.st.guests[r.GuestID].FullName()})
	}
	return out, nil
}

func (m *memStore) UpdateReservation(_ context.Context, r model.Reservation) error {
	if _, ok := m.st.reservations[r.ID]; !ok || m.st.resDeleted[r.ID] {
		return sql.ErrNoRows
	}
	m.st.reservations[r.ID] = r
	return nil
}

func (m *memStore) SoftDeleteReservation(_ context.Context, id uint64) error {
	if _, ok := m.st.reservations[id]; !ok || m.st.resDeleted[id] {
		return sql.ErrNoRows
	}
	m.st.resDeleted[id] = true
	return nil
}

// joinReserved fills the read-side fields the way the SQL join does:
// the assigned room's type wins over the stored room type.
func (m *memStore) joinReserved(rr model.ReservedRoom) model.ReservedRoom {
	typeID := rr.RoomTypeID
	rr.RoomNumber = ""
	if rr.RoomID != nil {
		room := m.st.rooms[*rr.RoomID]
		rr.RoomNumber = room.RoomNumber
		typeID = room.RoomTypeID
	}
	t := m.st.roomTypes[typeID]
	rr.TypeName, rr.MaxCapacity, rr.PricePerStay = t.TypeName, t.MaxCapacity, t.PricePerStay
	return rr
}

func (m *memStore) CreateReservedRoom(_ context.Context, rr *model.ReservedRoom) error {
	rr.ID = m.id()
	m.st.reserved[rr.ID] = *rr
	return nil
}

func (m *memStore) GetReservedRoom(_ context.Context, id uint64) (model.ReservedRoom, error) {
	rr, ok := m.st.reserved[id]
	if !ok || m.st.rrDeleted[id] {
		return model.ReservedRoom{}, sql.ErrNoRows
	}
	return m.joinReserved(rr), nil
}

func (m *memStore) ListReservedRooms(_ context.Context, reservationID uint64) ([]model.ReservedRoom, error) {
	var out []model.ReservedRoom
	for _, id := range sortedKeys(m.st.reserved) {
		rr := m.st.reserved[id]
		if rr.ReservationID != reservationID || m.st.rrDeleted[id] {
			continue
		}
		out = append(out, m.joinReserved(rr))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Primary && !out[j].Primary })
	return out, nil
}

func (m *memStore) SoftDeleteReservedRoom(_ context.Context, id uint64) error {
	if _, ok := m.st.reserved[id]; !ok || m.st.rrDeleted[id] {
		return sql.ErrNoRows
	}
	m.st.rrDeleted[id] = true
	delete(m.st.companions, id)
	return nil
}

func (m *memStore) CountRoomConflicts(_ context.Context, roomID uint64, checkIn, checkOut time.Time, excludeReservationID uint64) (int, error) {
	n := 0
	for id, rr := range m.st.reserved {
		if m.st.rrDeleted[id] || rr.RoomID == nil || *rr.RoomID != roomID {
			continue
		}
		res := m.st.reservations[rr.ReservationID]
		if m.st.resDeleted[res.ID] || res.ID == excludeReservationID || res.Status.Terminal() {
			continue
		}
		if res.CheckInDate.Before(checkOut) && res.CheckOutDate.After(checkIn) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ReplaceCompanions(_ context.Context, reservedRoomID uint64, names []string) error {
	cs := make([]model.Companion, 0, len(names))
	for _, n := range names {
		cs = append(cs, model.Companion{ID: m.id(), ReservedRoomID: reservedRoomID, FullName: n})
	}
	m.st.companions[reservedRoomID] = cs
	return nil
}

func (m *memStore) ListCompanions(_ context.Context, reservedRoomID uint64) ([]model.Companion, error) {
	return append([]model.Companion(nil), m.st.companions[reservedRoomID]...), nil
}

func (m *memStore) CreateBilling(_ context.Context, b *model.Billing) error {
	for _, other := range m.st.billings {
		if other.ReservationID == b.ReservationID {
			return errors.New("duplicate billing for reservation")
		}
	}
	b.ID = m.id()
	m.st.billings[b.ID] = *b
	return nil
}

func (m *memStore) billingRecord(b model.Billing) model.BillingRecord {
	res := m.st.reservations[b.ReservationID]
	return model.BillingRecord{
		Billing:           b,
		ReservationStatus: res.Status,
		CheckInDate:       res.CheckInDate,
		CheckOutDate:      res.CheckOutDate,
		GuestName:         m.st.guests[res.GuestID].FullName(),
	}
}

func (m *memStore) GetBilling(_ context.Context, id uint64) (model.BillingRecord, error) {
	b, ok := m.st.billings[id]
	if !ok {
		return model.BillingRecord{}, sql.ErrNoRows
	}
	return m.billingRecord(b), nil
}

func (m *memStore) GetBillingByReservation(_ context.Context, reservationID uint64) (model.BillingRecord, error) {
	for _, b := range m.st.billings {
		if b.ReservationID == reservationID {
			return m.billingRecord(b), nil
		}
	}
	return model.BillingRecord{}, sql.ErrNoRows
}

func (m *memStore) ListBillings(context.Context) ([]model.BillingRecord, error) {
	var out []model.BillingRecord
	for _, id := range sortedKeys(m.st.billings) {
		out = append(out, m.billingRecord(m.st.billings[id]))
	}
	return out, nil
}

func (m *memStore) UpdateBillingSnapshot(_ context.Context, billingID uint64, status model.BillingStatus, total decimal.Decimal) error {
	b, ok := m.st.billings[billingID]
	if !ok {
		return sql.ErrNoRows
	}
	b.StatusID, b.TotalAmount = status, total
	m.st.billings[billingID] = b
	return nil
}

func (m *memStore) CreatePayment(_ context.Context, p *model.Payment) error {
	p.ID = m.id()
	m.st.payments[p.ID] = *p
	return nil
}

func (m *memStore) GetPayment(_ context.Context, id uint64) (model.Payment, error) {
	p, ok := m.st.payments[id]
	if !ok || m.st.payDeleted[id] {
		return model.Payment{}, sql.ErrNoRows
	}
	return p, nil
}

func (m *memStore) ListPayments(_ context.Context, reservationID uint64) ([]model.Payment, error) {
	var out []model.Payment
	for _, id := range sortedKeys(m.st.payments) {
		p := m.st.payments[id]
		if p.ReservationID == reservationID && !m.st.payDeleted[id] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) ReleaseHeldPayments(_ context.Context, reservationID uint64) error {
	for id, p := range m.st.payments {
		if p.ReservationID == reservationID && p.OnHold {
			p.OnHold = false
			m.st.payments[id] = p
		}
	}
	return nil
}

func (m *memStore) SoftDeletePayment(_ context.Context, id uint64) error {
	if _, ok := m.st.payments[id]; !ok || m.st.payDeleted[id] {
		return sql.ErrNoRows
	}
	m.st.payDeleted[id] = true
	return nil
}

func (m *memStore) CreateBillingAddon(_ context.Context, ba *model.BillingAddon) error {
	ba.ID = m.id()
	m.st.billingAddons[ba.ID] = *ba
	return nil
}

func (m *memStore) HasBillingAddon(_ context.Context, billingID, orderID, addonID uint64) (bool, error) {
	for id, ba := range m.st.billingAddons {
		if !m.st.baDeleted[id] && ba.BillingID == billingID && ba.AddonOrderID == orderID && ba.AddonID == addonID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListBillingAddons(_ context.Context, billingID uint64) ([]model.BillingAddonLine, error) {
	var out []model.BillingAddonLine
	for _, id := range sortedKeys(m.st.billingAddons) {
		ba := m.st.billingAddons[id]
		if ba.BillingID != billingID || m.st.baDeleted[id] {
			continue
		}
		out = append(out, model.BillingAddonLine{
			BillingAddon: ba,
			AddonName:    m.st.addons[ba.AddonID].Name,
			OrderStatus:  m.st.orders[ba.AddonOrderID].Status,
		})
	}
	return out, nil
}

func (m *memStore) RetractBillingAddons(_ context.Context, billingID, orderID uint64) error {
	for id, ba := range m.st.billingAddons {
		if ba.BillingID == billingID && ba.AddonOrderID == orderID {
			m.st.baDeleted[id] = true
		}
	}
	return nil
}

func (m *memStore) CreateAddonOrder(_ context.Context, o *model.AddonOrder) error {
	o.ID = m.id()
	m.st.orders[o.ID] = *o
	return nil
}

func (m *memStore) GetAddonOrder(_ context.Context, id uint64) (model.AddonOrder, error) {
	o, ok := m.st.orders[id]
	if !ok || m.st.orderDeleted[id] {
		return model.AddonOrder{}, sql.ErrNoRows
	}
	return o, nil
}

func (m *memStore) ListAddonOrders(_ context.Context, f model.AddonOrderFilter) ([]model.AddonOrder, error) {
	var out []model.AddonOrder
	for _, id := range sortedKeys(m.st.orders) {
		o := m.st.orders[id]
		if m.st.orderDeleted[id] || (f.Status != 0 && o.Status != f.Status) || (f.ReservationID != 0 && o.ReservationID != f.ReservationID) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *memStore) UpdateAddonOrder(_ context.Context, o model.AddonOrder) error {
	if _, ok := m.st.orders[o.ID]; !ok || m.st.orderDeleted[o.ID] {
		return sql.ErrNoRows
	}
	m.st.orders[o.ID] = o
	return nil
}

func (m *memStore) SoftDeleteAddonOrder(_ context.Context, id uint64) error {
	if _, ok := m.st.orders[id]; !ok || m.st.orderDeleted[id] {
		return sql.ErrNoRows
	}
	m.st.orderDeleted[id] = true
	return nil
}

func (m *memStore) AddAddonOrderItems(_ context.Context, orderID uint64, addonIDs []uint64) error {
	for _, a := range addonIDs {
		m.st.orderItems = append(m.st.orderItems, memItem{orderID: orderID, addonID: a})
	}
	return nil
}

func (m *memStore) CountAddonOrderItems(_ context.Context, orderID uint64) ([]model.AddonOrderItemCount, error) {
	idx := map[uint64]int{}
	var out []model.AddonOrderItemCount
	for _, it := range m.st.orderItems {
		if it.orderID != orderID || it.retired {
			continue
		}
		i, seen := idx[it.addonID]
		if !seen {
			a := m.st.addons[it.addonID]
			out = append(out, model.AddonOrderItemCount{AddonID: a.ID, AddonName: a.Name, UnitPrice: a.Price})
			i = len(out) - 1
			idx[it.addonID] = i
		}
		out[i].Quantity++
	}
	return out, nil
}

func (m *memStore) RetireAddonOrderItems(_ context.Context, orderID uint64) error {
	for i := range m.st.orderItems {
		if m.st.orderItems[i].orderID == orderID {
			m.st.orderItems[i].retired = true
		}
	}
	return nil
}

var errHistoryDown = errors.New("history table unavailable")

func (m *memStore) AppendReservationHistory(_ context.Context, h model.StatusHistory) error {
	if m.failHistory {
		return errHistoryDown
	}
	h.ID = m.id()
	m.st.resHistory = append(m.st.resHistory, h)
	return nil
}

func (m *memStore) AppendAddonOrderHistory(_ context.Context, h model.StatusHistory) error {
	if m.failHistory {
		return errHistoryDown
	}
	h.ID = m.id()
	m.st.orderHistory = append(m.st.orderHistory, h)
	return nil
}

func filterHistory(hs []model.StatusHistory, ownerID uint64) []model.StatusHistory {
	var out []model.StatusHistory
	for _, h := range hs {
		if ownerID == 0 || h.OwnerID == ownerID {
			out = append(out, h)
		}
	}
	return out
}

func (m *memStore) ListReservationHistory(_ context.Context, reservationID uint64) ([]model.StatusHistory, error) {
	return filterHistory(m.st.resHistory, reservationID), nil
}

func (m *memStore) ListAddonOrderHistory(_ context.Context, orderID uint64) ([]model.StatusHistory, error) {
	return filterHistory(m.st.orderHistory, orderID), nil
}

// recordingPublisher collects the events a service publishes.
type recordingPublisher struct {
	reservations []queue.ReservationStatusChangedEvent
	orders       []queue.AddonOrderStatusChangedEvent
}

func (p *recordingPublisher) PublishReservationStatusChanged(_ context.Context, ev queue.ReservationStatusChangedEvent) error {
	p.reservations = append(p.reservations, ev)
	return nil
}

func (p *recordingPublisher) PublishAddonOrderStatusChanged(_ context.Context, ev queue.AddonOrderStatusChangedEvent) error {
	p.orders = append(p.orders, ev)
	return nil
}

var _ Store = (*memStore)(nil)
