package mirror

import (
	"context"
	"errors"

	"screenshot-mirror/core/logger"
	"screenshot-mirror/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the mirror.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// LedgerResponse lists the synced names.
type LedgerResponse struct {
	Names   []string `json:"names"`
	Count   int      `json:"count"`
	Warning string   `json:"warning,omitempty"`
}

// RegisterRoutes registers the mirror routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/mirror")
	group.Get("/status", h.HandleStatus)
	group.Post("/sync", h.HandleSync)
	group.Get("/ledger", h.HandleLedger)
}

// HandleStatus returns the outcome of the last pass.
// @Summary Last pass status
// @Description Returns the report of the most recent pass.
// @Tags mirror
// @Produce json
// @Success 200 {object} Status "Last pass"
// @Failure 404 {object} map[string]string "No pass has run yet"
// @Router /mirror/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	last := h.service.Last()
	if last == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no pass has run yet",
		})
	}
	return c.JSON(last)
}

// HandleSync runs a pass, joining one already in progress.
// @Summary Trigger a pass
// @Description Runs a reconciliation pass and returns its report. With async=true the pass runs in the background.
// @Tags mirror
// @Produce json
// @Param async query bool false "Return immediately"
// @Success 200 {object} Status "Pass finished"
// @Success 202 {object} map[string]string "Pass started"
// @Failure 409 {object} Status "Another process holds the pass lock"
// @Failure 500 {object} Status "Pass failed"
// @Router /mirror/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	if c.QueryBool("async") {
		go func() {
			if _, _, err := h.service.Trigger(context.Background()); err != nil {
				l.Warn("Background pass failed", zap.Error(err))
			}
		}()
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": "pass started",
		})
	}

	status, shared, err := h.service.Trigger(c.UserContext())
	if shared {
		l.Info("Joined pass already in progress")
	}
	if err != nil {
		code := fiber.StatusInternalServerError
		if errors.Is(err, reconcile.ErrPassActive) {
			code = fiber.StatusConflict
		}
		l.Error("Pass failed", zap.Error(err))
		return c.Status(code).JSON(status)
	}
	return c.JSON(status)
}

// HandleLedger lists the names recorded as synced.
// @Summary List synced names
// @Description Returns the names currently in the ledger.
// @Tags mirror
// @Produce json
// @Success 200 {object} LedgerResponse "Ledger contents"
// @Router /mirror/ledger [get]
func (h *Handler) HandleLedger(c *fiber.Ctx) error {
	names, err := h.service.Ledger(c.UserContext())
	resp := LedgerResponse{Names: names, Count: len(names)}
	if err != nil {
		logger.WithRayID(h.logger, c).Warn("Ledger unreadable", zap.Error(err))
		resp.Warning = err.Error()
	}
	return c.JSON(resp)
}
