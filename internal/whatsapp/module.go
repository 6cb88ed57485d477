package whatsapp

import (
	apphttp "navermap_bot/internal/http"
	"navermap_bot/platform/logger"
)

// Module mounts the GoWA webhook.
type Module struct {
	handler *Handler
}

func NewModule(commands CommandHandler, sender Sender, log *logger.Logger) *Module {
	return &Module{handler: NewHandler(commands, sender, log)}
}

func (m *Module) Name() string {
	return "whatsapp"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Webhooks.POST("/whatsapp", m.handler.ReceiveMessage)
}

var _ apphttp.Module = (*Module)(nil)
