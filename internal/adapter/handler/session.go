package handler

import (
	"net/http"

	"momskitchen-hub/internal/domain"
	"momskitchen-hub/middleware"

	"github.com/labstack/echo/v4"
)

// SessionHandler answers "who am I" for one identity class. It reads
// only the state the session resolver already settled; no network calls
// happen here.
type SessionHandler struct{}

// NewSessionHandler creates a new session handler.
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

type sessionResponse struct {
	OK    bool           `json:"ok"`
	Class domain.Class   `json:"class"`
	Data  domain.Profile `json:"data,omitempty"`
}

// Class returns the session endpoint handler for the given class.
func (h *SessionHandler) Class(class domain.Class) echo.HandlerFunc {
	return func(c echo.Context) error {
		st := middleware.SessionFromContext(c)
		if !st.Authenticated(class) {
			return c.JSON(http.StatusUnauthorized, sessionResponse{OK: false, Class: class})
		}
		return c.JSON(http.StatusOK, sessionResponse{
			OK:    true,
			Class: class,
			Data:  st.Profile(class),
		})
	}
}
