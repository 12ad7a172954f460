package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/auth"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

// Rooms handles GET /rooms.
func (s *Server) Rooms(c echo.Context) error {
	result, err := s.engine.Rooms(requestContext(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, roomsDTO(result))
}

// RegisterRoom handles POST /rooms. Days missing from hours keep the library's standard hours.
func (s *Server) RegisterRoom(c echo.Context) error {
	var req RoomReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	hours, err := req.weeklyHours()
	if err != nil {
		return errors.Join(core.ErrInvalidPayload, err)
	}

	roomID := idOrNew(req.RoomID)
	if err = s.engine.RegisterRoom(requestContext(c), roomID, req.Name, req.Capacity, hours); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, RoomDTO{
		RoomID:   roomID.String(),
		Name:     req.Name,
		Capacity: req.Capacity,
		Hours:    hoursDTO(hours),
	})
}

// UpdateRoom handles PUT /rooms/:id.
func (s *Server) UpdateRoom(c echo.Context) error {
	roomID, err := pathID(c)
	if err != nil {
		return err
	}

	var req RoomReq
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	hours, err := req.weeklyHours()
	if err != nil {
		return errors.Join(core.ErrInvalidPayload, err)
	}

	if err = s.engine.UpdateRoom(requestContext(c), roomID, req.Name, req.Capacity, hours); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RoomDTO{
		RoomID:   roomID.String(),
		Name:     req.Name,
		Capacity: req.Capacity,
		Hours:    hoursDTO(hours),
	})
}

// RemoveRoom handles DELETE /rooms/:id.
func (s *Server) RemoveRoom(c echo.Context) error {
	roomID, err := pathID(c)
	if err != nil {
		return err
	}

	if err = s.engine.RemoveRoom(requestContext(c), roomID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// RoomReservations handles GET /rooms/:id/reservations?include_cancelled=.
func (s *Server) RoomReservations(c echo.Context) error {
	roomID, err := pathID(c)
	if err != nil {
		return err
	}

	includeCancelled, err := queryFlag(c, "include_cancelled")
	if err != nil {
		return err
	}

	result, err := s.engine.RoomReservations(requestContext(c), roomID, includeCancelled)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, roomReservationsDTO(result))
}

// CreateReservation handles POST /reservations.
func (s *Server) CreateReservation(c echo.Context) error {
	var req CreateReservationReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := s.engine.CreateReservation(
		requestContext(c),
		req.RoomID,
		principalOf(c).UserID,
		req.StartTime,
		req.EndTime,
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, reservationDTO(created))
}

// CancelReservation handles PATCH /reservations/:id/cancel. Room managers may cancel any reservation.
func (s *Server) CancelReservation(c echo.Context) error {
	reservationID, err := pathID(c)
	if err != nil {
		return err
	}

	principal := principalOf(c)
	err = s.engine.CancelReservation(requestContext(c), reservationID, principal.UserID, principal.Can(auth.CapManageRooms))
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
