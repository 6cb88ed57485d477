package bot

import (
	"context"
	"net/http"

	"navermap_bot/platform/httpkit"
	"navermap_bot/platform/validator"

	"github.com/gin-gonic/gin"
)

const surfaceWebhook = "webhook"

// MessageRequest is an inbound chat message from any chat platform that can
// call a webhook.
type MessageRequest struct {
	Text string `json:"text" validate:"required,notblank,max=2000"`
	// Direct marks messages already addressed to the bot (mentions, private chats).
	Direct bool `json:"direct"`
}

// MessageResponse carries the replies in send order.
type MessageResponse struct {
	Matched bool     `json:"matched"`
	Replies []string `json:"replies"`
}

// collectSink buffers replies so they can be returned in the HTTP response.
type collectSink struct {
	replies []string
}

func (s *collectSink) Send(_ context.Context, message string) error {
	s.replies = append(s.replies, message)
	return nil
}

// Handler exposes the generic chat webhook.
type Handler struct {
	bot *Bot
	val *validator.Validator
}

func NewHandler(b *Bot, val *validator.Validator) *Handler {
	return &Handler{bot: b, val: val}
}

// PostMessage handles POST /api/v1/bot/messages
func (h *Handler) PostMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	sink := &collectSink{replies: make([]string, 0, 2)}
	handle := h.bot.Handle
	if req.Direct {
		handle = h.bot.HandleDirect
	}

	matched, err := handle(c.Request.Context(), surfaceWebhook, req.Text, sink)
	if err != nil {
		_ = c.Error(err)
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, MessageResponse{Matched: matched, Replies: sink.replies})
}
