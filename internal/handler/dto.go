package handler

import (
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-front-desk/internal/model"
    "github.com/iliyamo/hotel-front-desk/internal/service"
)

// Response shapes.  Money is rendered as a decimal string with two places,
// dates as YYYY-MM-DD.

type roomTypeDTO struct {
    ID           uint64 `json:"id"`
    TypeName     string `json:"type_name"`
    MaxCapacity  int    `json:"max_capacity"`
    PricePerStay string `json:"price_per_stay"`
}

type roomDTO struct {
    ID           uint64 `json:"id"`
    RoomNumber   string `json:"room_number"`
    RoomTypeID   uint64 `json:"room_type_id"`
    TypeName     string `json:"type_name"`
    Status       string `json:"room_status"`
    MaxCapacity  int    `json:"max_capacity"`
    PricePerStay string `json:"price_per_stay"`
}

type addonDTO struct {
    ID          uint64 `json:"id"`
    Name        string `json:"name"`
    Price       string `json:"price"`
    IsAvailable bool   `json:"is_available"`
}

type reservationDTO struct {
    ID                  uint64     `json:"id"`
    GuestID             uint64     `json:"guest_id"`
    RequestedRoomTypeID *uint64    `json:"requested_room_type_id"`
    ReservationType     string     `json:"reservation_type"`
    StatusID            uint8      `json:"status_id"`
    Status              string     `json:"status"`
    CheckInDate         string     `json:"check_in_date"`
    CheckOutDate        string     `json:"check_out_date"`
    Nights              int        `json:"nights"`
    Notes               string     `json:"notes"`
    CreatedAt           *time.Time `json:"created_at,omitempty"`
    UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

type reservationSummaryDTO struct {
    reservationDTO
    GuestName      string     `json:"guest_name"`
    RoomNumbers    []string   `json:"room_numbers"`
    LastActivityAt *time.Time `json:"last_activity_at"`
}

type companionDTO struct {
    ID       uint64 `json:"id"`
    FullName string `json:"full_name"`
}

type reservedRoomDTO struct {
    ID            uint64         `json:"id"`
    ReservationID uint64         `json:"reservation_id"`
    RoomID        *uint64        `json:"room_id"`
    RoomNumber    string         `json:"room_number,omitempty"`
    RoomTypeID    uint64         `json:"room_type_id"`
    TypeName      string         `json:"type_name"`
    IsPrimary     bool           `json:"is_primary"`
    MaxCapacity   int            `json:"max_capacity"`
    PricePerStay  string         `json:"price_per_stay"`
    Companions    []companionDTO `json:"companions"`
}

type guestDTO struct {
    ID          uint64 `json:"id"`
    FullName    string `json:"full_name"`
    Email       string `json:"email,omitempty"`
    PhoneNumber string `json:"phone_number,omitempty"`
}

type reservationDetailDTO struct {
    reservationDTO
    Guest   guestDTO          `json:"guest"`
    Rooms   []reservedRoomDTO `json:"rooms"`
    Billing *billingDTO       `json:"billing"`
}

type paymentDTO struct {
    ID              uint64    `json:"id"`
    BillingID       uint64    `json:"billing_id"`
    ReservationID   uint64    `json:"reservation_id"`
    SubMethodID     uint64    `json:"sub_method_id"`
    AmountPaid      string    `json:"amount_paid"`
    MoneyGiven      string    `json:"money_given"`
    ChangeGiven     string    `json:"change_given"`
    PaymentDate     time.Time `json:"payment_date"`
    ReferenceNumber string    `json:"reference_number"`
    Notes           string    `json:"notes,omitempty"`
    IsOnHold        bool      `json:"is_on_hold"`
}

type billingAddonDTO struct {
    ID           uint64 `json:"id"`
    AddonOrderID uint64 `json:"addon_order_id"`
    AddonID      uint64 `json:"addon_id"`
    AddonName    string `json:"addon_name"`
    UnitPrice    string `json:"unit_price"`
    Quantity     int    `json:"quantity"`
    Subtotal     string `json:"subtotal"`
    OrderStatus  string `json:"order_status"`
    Billed       bool   `json:"billed"`
}

type billingDTO struct {
    ID                uint64            `json:"id"`
    ReservationID     uint64            `json:"reservation_id"`
    GuestName         string            `json:"guest_name"`
    ReservationStatus string            `json:"reservation_status"`
    CheckInDate       string            `json:"check_in_date"`
    CheckOutDate      string            `json:"check_out_date"`
    BillingDate       string            `json:"billing_date"`
    Status            string            `json:"billing_status"`
    RoomPrice         string            `json:"room_price"`
    AddonsTotal       string            `json:"addons_total"`
    TotalBill         string            `json:"total_bill"`
    AmountPaid        string            `json:"amount_paid"`
    RemainingBalance  string            `json:"remaining_balance"`
    Rooms             []reservedRoomDTO `json:"rooms"`
    Addons            []billingAddonDTO `json:"addons"`
    Payments          []paymentDTO      `json:"payments"`
}

type orderItemDTO struct {
    AddonID   uint64 `json:"addon_id"`
    AddonName string `json:"addon_name"`
    UnitPrice string `json:"unit_price"`
    Quantity  int    `json:"quantity"`
}

type orderDTO struct {
    ID            uint64         `json:"id"`
    ReservationID uint64         `json:"reservation_id"`
    UserID        uint64         `json:"user_id"`
    StatusID      uint8          `json:"status_id"`
    Status        string         `json:"status"`
    OrderDate     time.Time      `json:"order_date"`
    Items         []orderItemDTO `json:"items,omitempty"`
    Total         string         `json:"total,omitempty"`
}

type historyDTO struct {
    ID        uint64    `json:"id"`
    OwnerID   uint64    `json:"owner_id"`
    StatusID  uint8     `json:"status_id"`
    Status    string    `json:"status"`
    ChangedBy *uint64   `json:"changed_by"`
    Remarks   string    `json:"remarks"`
    ChangedAt time.Time `json:"changed_at"`
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func day(t time.Time) string { return t.Format(time.DateOnly) }

func toRoomType(t model.RoomType) roomTypeDTO {
    return roomTypeDTO{ID: t.ID, TypeName: t.TypeName, MaxCapacity: t.MaxCapacity, PricePerStay: money(t.PricePerStay)}
}

func toRoom(r model.Room) roomDTO {
    return roomDTO{
        ID: r.ID, RoomNumber: r.RoomNumber, RoomTypeID: r.RoomTypeID, TypeName: r.TypeName,
        Status: string(r.Status), MaxCapacity: r.MaxCapacity, PricePerStay: money(r.PricePerStay),
    }
}

func toAddon(a model.Addon) addonDTO {
    return addonDTO{ID: a.ID, Name: a.Name, Price: money(a.Price), IsAvailable: a.IsAvailable}
}

func toReservation(r model.Reservation) reservationDTO {
    d := reservationDTO{
        ID:                  r.ID,
        GuestID:             r.GuestID,
        RequestedRoomTypeID: r.RequestedRoomTypeID,
        ReservationType:     string(r.Type),
        StatusID:            uint8(r.Status),
        Status:              r.Status.String(),
        CheckInDate:         day(r.CheckInDate),
        CheckOutDate:        day(r.CheckOutDate),
        Nights:              r.Nights(),
        Notes:               r.Notes,
    }
    if !r.CreatedAt.IsZero() {
        d.CreatedAt, d.UpdatedAt = &r.CreatedAt, &r.UpdatedAt
    }
    return d
}

func toSummary(s model.ReservationSummary) reservationSummaryDTO {
    numbers := s.RoomNumbers
    if numbers == nil {
        numbers = []string{}
    }
    return reservationSummaryDTO{
        reservationDTO: toReservation(s.Reservation),
        GuestName:      s.GuestName,
        RoomNumbers:    numbers,
        LastActivityAt: s.LastActivityAt,
    }
}

func toReservedRoom(rr model.ReservedRoom, cs []model.Companion) reservedRoomDTO {
    d := reservedRoomDTO{
        ID: rr.ID, ReservationID: rr.ReservationID, RoomID: rr.RoomID, RoomNumber: rr.RoomNumber,
        RoomTypeID: rr.RoomTypeID, TypeName: rr.TypeName, IsPrimary: rr.Primary,
        MaxCapacity: rr.MaxCapacity, PricePerStay: money(rr.PricePerStay),
        Companions: make([]companionDTO, 0, len(cs)),
    }
    for _, c := range cs {
        d.Companions = append(d.Companions, companionDTO{ID: c.ID, FullName: c.FullName})
    }
    return d
}

func toReservedRooms(views []service.ReservedRoomView) []reservedRoomDTO {
    out := make([]reservedRoomDTO, 0, len(views))
    for _, v := range views {
        out = append(out, toReservedRoom(v.ReservedRoom, v.Companions))
    }
    return out
}

func toPayment(p model.Payment) paymentDTO {
    return paymentDTO{
        ID: p.ID, BillingID: p.BillingID, ReservationID: p.ReservationID, SubMethodID: p.SubMethodID,
        AmountPaid: money(p.AmountPaid), MoneyGiven: money(p.MoneyGiven), ChangeGiven: money(p.ChangeGiven),
        PaymentDate: p.PaymentDate, ReferenceNumber: p.ReferenceNumber, Notes: p.Notes, IsOnHold: p.OnHold,
    }
}

func toBilling(v service.BillingView) billingDTO {
    b := v.Billing
    d := billingDTO{
        ID:                b.ID,
        ReservationID:     b.ReservationID,
        GuestName:         b.GuestName,
        ReservationStatus: b.ReservationStatus.String(),
        CheckInDate:       day(b.CheckInDate),
        CheckOutDate:      day(b.CheckOutDate),
        BillingDate:       day(b.CheckOutDate),
        Status:            v.Summary.Status.String(),
        RoomPrice:         money(v.Summary.RoomPrice),
        AddonsTotal:       money(v.Summary.AddonsTotal),
        TotalBill:         money(v.Summary.TotalBill),
        AmountPaid:        money(v.Summary.AmountPaid),
        RemainingBalance:  money(v.Summary.Remaining),
        Rooms:             make([]reservedRoomDTO, 0, len(v.Rooms)),
        Addons:            make([]billingAddonDTO, 0, len(v.Addons)),
        Payments:          make([]paymentDTO, 0, len(v.Payments)),
    }
    for _, rr := range v.Rooms {
        d.Rooms = append(d.Rooms, toReservedRoom(rr, nil))
    }
    for _, l := range v.Addons {
        d.Addons = append(d.Addons, billingAddonDTO{
            ID: l.ID, AddonOrderID: l.AddonOrderID, AddonID: l.AddonID, AddonName: l.AddonName,
            UnitPrice: money(l.UnitPrice), Quantity: l.Quantity,
            Subtotal:    money(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))),
            OrderStatus: l.OrderStatus.String(),
            Billed:      l.OrderStatus.Billable(),
        })
    }
    for _, p := range v.Payments {
        d.Payments = append(d.Payments, toPayment(p))
    }
    return d
}

func toOrder(o model.AddonOrder) orderDTO {
    return orderDTO{
        ID: o.ID, ReservationID: o.ReservationID, UserID: o.UserID,
        StatusID: uint8(o.Status), Status: o.Status.String(), OrderDate: o.OrderDate,
    }
}

func toOrderView(v service.OrderView) orderDTO {
    d := toOrder(v.AddonOrder)
    d.Total = money(v.Total)
    d.Items = make([]orderItemDTO, 0, len(v.Items))
    for _, it := range v.Items {
        d.Items = append(d.Items, orderItemDTO{AddonID: it.AddonID, AddonName: it.AddonName, UnitPrice: money(it.UnitPrice), Quantity: it.Quantity})
    }
    return d
}

func toHistory(hs []model.StatusHistory, name func(uint8) string) []historyDTO {
    out := make([]historyDTO, 0, len(hs))
    for _, h := range hs {
        out = append(out, historyDTO{
            ID: h.ID, OwnerID: h.OwnerID, StatusID: h.StatusID, Status: name(h.StatusID),
            ChangedBy: h.ChangedBy, Remarks: h.Remarks, ChangedAt: h.ChangedAt,
        })
    }
    return out
}
