package handler

import (
	"errors"
	"io"
	"net/http"

	"momskitchen-hub/internal/domain"
	"momskitchen-hub/internal/usecase"
	"momskitchen-hub/utils/logger"

	"github.com/labstack/echo/v4"
)

// AuthHandler serves the login, verification, logout and registration
// endpoints for one identity class. The same handler backs both classes;
// the class is fixed per route at registration time.
type AuthHandler struct {
	flow    *usecase.LoginFlow
	logout  *usecase.Logout
	backend domain.BackendGateway
	log     *logger.ContextLogger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(flow *usecase.LoginFlow, logout *usecase.Logout, backend domain.BackendGateway, log *logger.ContextLogger) *AuthHandler {
	return &AuthHandler{flow: flow, logout: logout, backend: backend, log: log}
}

type loginRequest struct {
	Number string `json:"number"`
}

type loginResponse struct {
	Data struct {
		IdentityID string `json:"_id"`
		Number     string `json:"number"`
		FlowID     string `json:"flow_id"`
	} `json:"data"`
	Message string `json:"message"`
}

// Login accepts a phone number, establishes a provisional backend
// session and has a one-time code dispatched. The minted token pair is
// relayed to the browser as cookies.
func (h *AuthHandler) Login(class domain.Class) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := logger.WithClass(c.Request().Context(), string(class))

		var req loginRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}

		result, err := h.flow.SubmitPhone(ctx, class, req.Number)
		if err != nil {
			return mapDomainError(err)
		}

		for _, ck := range result.SetCookies {
			c.SetCookie(ck)
		}

		ctx = logger.WithIdentityID(ctx, result.IdentityID)
		ctx = logger.WithFlowID(ctx, result.Challenge.FlowID)
		h.log.WithContext(ctx).InfoContext(ctx, "otp dispatched")

		resp := loginResponse{Message: "otp sent"}
		resp.Data.IdentityID = result.IdentityID
		resp.Data.Number = result.Number
		resp.Data.FlowID = result.Challenge.FlowID
		return c.JSON(http.StatusOK, resp)
	}
}

type verifyRequest struct {
	Number string `json:"number"`
	Code   string `json:"code"`
	FlowID string `json:"flow_id"`
}

type verifyResponse struct {
	OK    bool           `json:"ok"`
	Class domain.Class   `json:"class"`
	Data  domain.Profile `json:"data"`
}

// Verify exchanges the one-time code for a settled session. On success
// the provider session token lands in the class provider cookie slot and
// any rotated backend cookies are relayed.
func (h *AuthHandler) Verify(class domain.Class) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := logger.WithClass(c.Request().Context(), string(class))

		var req verifyRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}
		ctx = logger.WithFlowID(ctx, req.FlowID)

		creds := domain.CredentialsFromRequest(c.Request(), class)
		challenge := domain.ChallengeHandle{FlowID: req.FlowID}

		result, err := h.flow.VerifyCode(ctx, class, challenge, req.Number, req.Code, creds)
		if err != nil {
			if errors.Is(err, domain.ErrAuthRejected) {
				// The provisional session is already torn down; the
				// browser copy of the cookies must go too.
				for _, ck := range domain.ExpiredCookies(class) {
					c.SetCookie(ck)
				}
			}
			return mapDomainError(err)
		}

		for _, ck := range result.SetCookies {
			c.SetCookie(ck)
		}
		c.SetCookie(&http.Cookie{
			Name:     class.Slots().ProviderSession,
			Value:    result.ProviderSessionToken,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		ctx = logger.WithIdentityID(ctx, result.Profile.IdentityID())
		h.log.WithContext(ctx).InfoContext(ctx, "login settled")

		return c.JSON(http.StatusOK, verifyResponse{OK: true, Class: class, Data: result.Profile})
	}
}

// Logout revokes the provider session, logs the backend session out and
// expires the class cookie slots. It always succeeds from the browser's
// point of view.
func (h *AuthHandler) Logout(class domain.Class) echo.HandlerFunc {
	return func(c echo.Context) error {
		creds := domain.CredentialsFromRequest(c.Request(), class)
		h.logout.Execute(c.Request().Context(), class, creds)

		for _, ck := range domain.ExpiredCookies(class) {
			c.SetCookie(ck)
		}
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	}
}

// Register relays a registration request to the backend unchanged and
// returns the backend's answer as-is.
func (h *AuthHandler) Register(class domain.Class) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
		}

		respBody, status, err := h.backend.Register(c.Request().Context(), class, body)
		if err != nil {
			return mapDomainError(err)
		}
		return c.JSONBlob(status, respBody)
	}
}
