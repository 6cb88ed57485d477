package bot

import (
	apphttp "navermap_bot/internal/http"
	"navermap_bot/platform/validator"
)

// Module mounts the generic chat webhook.
type Module struct {
	handler *Handler
}

func NewModule(b *Bot, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(b, val)}
}

func (m *Module) Name() string {
	return "bot"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Webhooks.POST("/messages", m.handler.PostMessage)
}

var _ apphttp.Module = (*Module)(nil)
