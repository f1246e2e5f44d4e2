package handler

import (
	"os"

	"jewel-backoffice-be/internal/pkg/logger"
	"jewel-backoffice-be/internal/pkg/serverutils"
	"jewel-backoffice-be/internal/repository/memory"
	internalWS "jewel-backoffice-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ProgressHandler exposes the live pipeline progress stream plus a
// polling fallback for clients without websocket support.
type ProgressHandler struct {
	hub      *internalWS.Hub
	progress *memory.ProgressRepository
	logger   logger.ILogger
}

func NewProgressHandler(hub *internalWS.Hub, progress *memory.ProgressRepository, log logger.ILogger) *ProgressHandler {
	return &ProgressHandler{
		hub:      hub,
		progress: progress,
		logger:   log,
	}
}

// ServeWs upgrades the connection after validating the JWT. Browsers
// cannot set headers on websocket handshakes, so the token may arrive
// as a query parameter instead.
func (h *ProgressHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("ProgressHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(c *websocket.Conn) {
			h.logger.Info("ProgressHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, c, userID)
			h.logger.Info("ProgressHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// GetProgress returns the cached latest update for a batch.
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	batchID := c.Params("id")
	if _, err := uuid.Parse(batchID); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid batch id")
	}

	update, found := h.progress.Get(batchID)
	if !found {
		return fiber.NewError(fiber.StatusNotFound, "no live progress for batch")
	}
	return c.JSON(serverutils.SuccessResponse("Success show progress", update))
}

func (h *ProgressHandler) RegisterRoutes(router fiber.Router) {
	progress := router.Group("/progress")
	progress.Get("/:id", serverutils.JwtMiddleware, h.GetProgress)

	router.Get("/ws", h.ServeWs)
}
