package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/service"
)

// catalogStore serves the catalog reads; any other Store call panics.
type catalogStore struct {
	service.Store
	types []model.RoomType
}

func (s catalogStore) ListRoomTypes(context.Context) ([]model.RoomType, error) {
	return s.types, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Details map[string]any  `json:"details"`
}

func newTestHandler(store service.Store) (*echo.Echo, *Handler) {
	e := echo.New()
	e.Validator = NewValidator()
	return e, New(service.New(store, service.Options{}), zap.NewNop())
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestRespondErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{&service.Error{Kind: service.KindValidation, Message: "bad"}, http.StatusBadRequest, "ValidationError"},
		{&service.Error{Kind: service.KindInvalidTransition, Message: "no"}, http.StatusConflict, "InvalidTransition"},
		{&service.Error{Kind: service.KindOutstandingBalance, Message: "owe", Details: map[string]any{"remaining": "2.00"}}, http.StatusUnprocessableEntity, "OutstandingBalance"},
		{&service.Error{Kind: service.KindMissingActor, Message: "who"}, http.StatusUnauthorized, "MissingActor"},
		{&service.Error{Kind: service.KindNotFound, Message: "gone"}, http.StatusNotFound, "NotFound"},
		{&service.Error{Kind: service.KindConflict, Message: "taken"}, http.StatusConflict, "Conflict"},
		{errors.New("connection refused"), http.StatusInternalServerError, "InternalError"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			e, h := newTestHandler(catalogStore{})
			e.GET("/", func(c echo.Context) error { return h.respondError(c, tt.err) })
			rec, env := do(t, e, http.MethodGet, "/", "")
			if rec.Code != tt.status || env.Success || env.Error != tt.code {
				t.Fatalf("got %d %+v", rec.Code, env)
			}
			if tt.status == http.StatusInternalServerError && strings.Contains(env.Message, "refused") {
				t.Fatalf("internal error leaked: %q", env.Message)
			}
		})
	}
}

func TestOutstandingBalanceDetails(t *testing.T) {
	e, h := newTestHandler(catalogStore{})
	e.GET("/", func(c echo.Context) error {
		return h.respondError(c, &service.Error{
			Kind:    service.KindOutstandingBalance,
			Message: "outstanding balance",
			Details: map[string]any{"total_due": "6000.00", "paid": "5998.00", "remaining": "2.00"},
		})
	})
	_, env := do(t, e, http.MethodGet, "/", "")
	if env.Details["remaining"] != "2.00" || env.Details["total_due"] != "6000.00" {
		t.Fatalf("details = %v", env.Details)
	}
}

func TestListRoomTypes(t *testing.T) {
	e, h := newTestHandler(catalogStore{types: []model.RoomType{
		{ID: 1, TypeName: "Deluxe", MaxCapacity: 3, PricePerStay: decimal.RequireFromString("3000")},
	}})
	e.GET("/v1/room-types", h.ListRoomTypes)

	rec, env := do(t, e, http.MethodGet, "/v1/room-types", "")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("got %d %+v", rec.Code, env)
	}
	var types []roomTypeDTO
	if err := json.Unmarshal(env.Data, &types); err != nil {
		t.Fatal(err)
	}
	if len(types) != 1 || types[0].PricePerStay != "3000.00" || types[0].TypeName != "Deluxe" {
		t.Fatalf("types = %+v", types)
	}
}

func TestCreateReservationValidatesBody(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"missing guest", `{"check_in_date":"2026-03-10","check_out_date":"2026-03-12"}`, "guest_id is required"},
		{"bad date", `{"guest_id":1,"check_in_date":"10/03/2026","check_out_date":"2026-03-12"}`, "check_in_date must be a date"},
		{"bad type", `{"guest_id":1,"check_in_date":"2026-03-10","check_out_date":"2026-03-12","reservation_type":"phone"}`, "reservation_type must be one of"},
		{"malformed", `{"guest_id":`, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, h := newTestHandler(catalogStore{})
			e.POST("/v1/reservations", h.CreateReservation)
			rec, env := do(t, e, http.MethodPost, "/v1/reservations", tt.body)
			if rec.Code != http.StatusBadRequest || !strings.Contains(env.Message, tt.want) {
				t.Fatalf("got %d %q, want 400 containing %q", rec.Code, env.Message, tt.want)
			}
		})
	}
}

func TestInvalidPathID(t *testing.T) {
	e, h := newTestHandler(catalogStore{})
	e.GET("/v1/reservations/:id", h.GetReservation)
	rec, env := do(t, e, http.MethodGet, "/v1/reservations/abc", "")
	if rec.Code != http.StatusBadRequest || env.Error != "ValidationError" {
		t.Fatalf("got %d %+v", rec.Code, env)
	}
}

func TestStatusChangeNeedsTarget(t *testing.T) {
	e, h := newTestHandler(catalogStore{})
	e.PATCH("/v1/reservations/:id/status", h.ChangeReservationStatus)
	rec, env := do(t, e, http.MethodPatch, "/v1/reservations/4/status", `{}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(env.Message, "status") {
		t.Fatalf("got %d %+v", rec.Code, env)
	}
}

func TestAnonymousBookingCannotChooseWalkIn(t *testing.T) {
	tests := []struct{ name, body string }{
		{"walk-in", `{"guest_id":1,"check_in_date":"2026-03-10","check_out_date":"2026-03-12","reservation_type":"walk-in","rooms":[{"room_id":1}]}`},
		{"checked-in", `{"guest_id":1,"check_in_date":"2020-01-10","check_out_date":"2020-01-12","status_id":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, h := newTestHandler(catalogStore{})
			e.POST("/v1/reservations", h.CreateReservation)
			rec, env := do(t, e, http.MethodPost, "/v1/reservations", tt.body)
			if rec.Code != http.StatusBadRequest || env.Error != "ValidationError" || !strings.Contains(env.Message, "only staff") {
				t.Fatalf("got %d %+v", rec.Code, env)
			}
		})
	}
}

func TestOrderQuantityIsCapped(t *testing.T) {
	e, h := newTestHandler(catalogStore{})
	e.POST("/v1/addon-orders", h.CreateOrder)
	rec, env := do(t, e, http.MethodPost, "/v1/addon-orders",
		`{"reservation_id":1,"items":[{"addon_id":1,"quantity":2000000000}]}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(env.Message, "quantity must be at most 100") {
		t.Fatalf("got %d %q", rec.Code, env.Message)
	}
}
