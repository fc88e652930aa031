package ws

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sgmi/production-backend/internal/auth"
)

// UpgradeGate rejects non-websocket requests and refuses the upgrade
// before any connection state exists when the token query parameter is
// missing, invalid, or expired.
func UpgradeGate(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if _, err := auth.VerifyAccessToken(secret, c.Query("token")); err != nil {
			return fiber.ErrUnauthorized
		}
		return c.Next()
	}
}

// Handler serves upgraded connections on the hub. The token is decoded
// a second time here to attach the principal to the connection.
func (h *Hub) Handler(secret string) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		principal, err := auth.VerifyAccessToken(secret, conn.Query("token"))
		if err != nil {
			_ = conn.Close()
			return
		}
		h.serve(context.Background(), conn, principal.UserID, principal.Role)
	})
}
