package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Notifications handles GET /notifications?status=.
func (s *Server) Notifications(c echo.Context) error {
	result, err := s.engine.Notifications(requestContext(c), principalOf(c).UserID, c.QueryParam("status"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, notificationsDTO(result))
}

// MarkNotificationRead handles POST|PATCH /notifications/:id/read.
func (s *Server) MarkNotificationRead(c echo.Context) error {
	notificationID, err := pathID(c)
	if err != nil {
		return err
	}

	if err = s.engine.MarkNotificationRead(requestContext(c), notificationID, principalOf(c).UserID); err != nil {
		return err
	}

	return s.notification(c, notificationID)
}

// DismissNotification handles POST|PATCH /notifications/:id/dismiss.
func (s *Server) DismissNotification(c echo.Context) error {
	notificationID, err := pathID(c)
	if err != nil {
		return err
	}

	if err = s.engine.DismissNotification(requestContext(c), notificationID, principalOf(c).UserID); err != nil {
		return err
	}

	return s.notification(c, notificationID)
}

func (s *Server) notification(c echo.Context, notificationID uuid.UUID) error {
	n, err := s.engine.Notification(requestContext(c), notificationID, principalOf(c).UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, notificationDTO(n))
}
