// Package httpapi exposes the circulation engine as a JSON API on echo.
//
// Every route except /healthz requires an HS256 bearer token. Handlers map the caller's role to
// capabilities through package auth; domain errors are rendered by ErrorHandler.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/auth"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/engine"
)

// Options tunes the server. Zero values disable rate limiting.
type Options struct {
	RateLimit float64
	RateBurst int
	Logger    *slog.Logger
}

// Server holds the dependencies of the route handlers.
type Server struct {
	engine *engine.Engine
	tokens auth.Tokens
	logger *slog.Logger
}

// New builds the echo instance with middleware and routes registered.
func New(eng *engine.Engine, tokens auth.Tokens, opts Options) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{engine: eng, tokens: tokens, logger: logger}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(logger)

	registerMiddlewares(e, logger, rate.Limit(opts.RateLimit), opts.RateBurst)
	s.registerRoutes(e)

	return e
}

func (s *Server) registerRoutes(e *echo.Echo) {
	e.GET("/healthz", s.Health)

	api := e.Group("", s.authenticate())

	api.POST("/loans/checkout", s.Checkout)
	api.POST("/loans/return", s.Return)
	api.GET("/loans", s.Loans)
	api.GET("/loans/:id/fine-estimate", s.FineEstimate)
	api.GET("/loans/open", s.OpenLoans, requireCapability(auth.CapViewAny))

	api.POST("/holds", s.PlaceHold, requireCapability(auth.CapBorrow))
	api.GET("/holds", s.Holds)
	api.POST("/holds/:id/accept", s.AcceptHold, requireCapability(auth.CapBorrow))
	api.POST("/holds/:id/decline", s.DeclineHold, requireCapability(auth.CapBorrow))
	api.GET("/items/:id/holds", s.ItemQueue, requireCapability(auth.CapViewAny))

	api.GET("/rooms", s.Rooms)
	api.POST("/rooms", s.RegisterRoom, requireCapability(auth.CapManageRooms))
	api.PUT("/rooms/:id", s.UpdateRoom, requireCapability(auth.CapManageRooms))
	api.DELETE("/rooms/:id", s.RemoveRoom, requireCapability(auth.CapManageRooms))
	api.GET("/rooms/:id/reservations", s.RoomReservations, requireCapability(auth.CapReserve))
	api.POST("/reservations", s.CreateReservation, requireCapability(auth.CapReserve))
	api.PATCH("/reservations/:id/cancel", s.CancelReservation)

	api.GET("/fines", s.Fines)
	api.POST("/fines/pay-total", s.PayAllFines, requireCapability(auth.CapBorrow))
	api.POST("/fines/:id/pay", s.PayFine, requireCapability(auth.CapBorrow))
	api.POST("/fines/:id/waive", s.WaiveFine, requireCapability(auth.CapWaiveFines))

	api.GET("/notifications", s.Notifications)
	api.Match([]string{http.MethodPost, http.MethodPatch}, "/notifications/:id/read", s.MarkNotificationRead)
	api.Match([]string{http.MethodPost, http.MethodPatch}, "/notifications/:id/dismiss", s.DismissNotification)

	administer := requireCapability(auth.CapAdminister)
	api.POST("/users", s.RegisterUser, administer)
	api.POST("/items", s.AddCatalogItem, administer)
	api.POST("/items/:id/copies", s.AddCopy, administer)
	api.GET("/admin/sweeps", s.SweepNames, administer)
	api.POST("/admin/sweeps/:name", s.RunSweep, administer)
}

// Health reports liveness.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "time": s.engine.Now()})
}
