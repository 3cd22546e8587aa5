package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aulahub/lms-platform/internal/api/middleware"
	"github.com/aulahub/lms-platform/internal/core/ports"
	"github.com/aulahub/lms-platform/internal/infrastructure/realtime"
)

// WSHandler upgrades authenticated connections into hub clients. Browsers
// cannot set headers on websocket handshakes, so the token is accepted from
// the "token" query parameter as well as the Authorization header.
type WSHandler struct {
	hub       *realtime.Hub
	presence  ports.Presence
	jwtSecret string
	log       zerolog.Logger

	upgrader websocket.Upgrader
}

func NewWSHandler(hub *realtime.Hub, presence ports.Presence, jwtSecret string, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:       hub,
		presence:  presence,
		jwtSecret: jwtSecret,
		log:       log.With().Str("component", "ws_handler").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token auth makes the connection safe cross-origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws.
func (h *WSHandler) Serve(c echo.Context) error {
	raw := c.QueryParam("token")
	if raw == "" {
		auth := c.Request().Header.Get("Authorization")
		if len(auth) > 7 && auth[:7] == "Bearer " {
			raw = auth[7:]
		}
	}
	if raw == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	claims, err := middleware.ParseToken(raw, h.jwtSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the handshake failure response.
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	client := realtime.NewClient(h.hub, h.presence, conn, userID, h.log)
	client.Start(c.Request().Context())
	return nil
}
