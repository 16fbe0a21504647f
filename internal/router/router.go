package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/handler"    // front-desk handlers
	"github.com/iliyamo/hotel-front-desk/internal/middleware" // JWT + role middlewares
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	// Liveness probe for load balancers; it never touches the database.
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the booking-site endpoints.  A token is optional:
// anonymous reservations are online bookings, staff tokens make walk-ins.
// mw runs after the caller is identified.
func RegisterPublic(e *echo.Echo, h *handler.Handler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.OptionalJWT(jwtSecret))
	g.Use(mw...)

	// ---- Catalog ----
	g.GET("/room-types", h.ListRoomTypes)
	g.GET("/addons", h.ListAddons)
	g.GET("/rooms/available", h.ListAvailableRooms)

	// ---- Booking ----
	g.POST("/reservations", h.CreateReservation)
}

// RegisterFrontDesk registers staff-scoped endpoints under /v1.
// All routes require a valid JWT and the ADMIN or STAFF role.
func RegisterFrontDesk(e *echo.Echo, h *handler.Handler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin, middleware.RoleStaff),
	)
	g.Use(mw...)

	// ---- Rooms ----
	g.GET("/rooms", h.ListRooms)

	// ---- Reservations ----
	g.GET("/reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)
	g.PUT("/reservations/:id", h.UpdateReservation)
	g.PATCH("/reservations/:id", h.UpdateReservation)
	g.DELETE("/reservations/:id", h.DeleteReservation)
	g.PATCH("/reservations/:id/status", h.ChangeReservationStatus)
	g.POST("/reservations/:id/confirm", h.ConfirmReservation)
	g.GET("/reservations/:id/rooms", h.ReservationRooms)
	g.GET("/reservations/:id/billing", h.ReservationBilling)
	g.GET("/reservations/:id/billing-eligibility", h.BillingEligibility)
	g.GET("/reservations/:id/history", h.ReservationHistory)

	// ---- Reserved rooms ----
	g.POST("/reserved-rooms", h.AddReservedRoom)
	g.PUT("/reserved-rooms/:id", h.UpdateReservedRoom)
	g.DELETE("/reserved-rooms/:id", h.RemoveReservedRoom)

	// ---- Billing ----
	g.GET("/billings", h.ListBillings)
	g.GET("/billings/:id", h.GetBilling)
	g.POST("/billings", h.CreateBilling)
	g.POST("/payments", h.CreatePayment)
	g.DELETE("/payments/:id", h.DeletePayment)

	// ---- Add-on orders ----
	g.GET("/addon-orders", h.ListOrders)
	g.POST("/addon-orders", h.CreateOrder)
	g.GET("/addon-orders/:id", h.GetOrder)
	g.PUT("/addon-orders/:id", h.EditOrder)
	g.DELETE("/addon-orders/:id", h.DeleteOrder)
	g.PATCH("/addon-orders/:id/status", h.ChangeOrderStatus)
	g.GET("/addon-orders/:id/history", h.OrderHistory)

	// ---- Audit ----
	g.GET("/status-history", h.StatusHistory)
	g.GET("/addon-order-history", h.AddonOrderHistory)
}
