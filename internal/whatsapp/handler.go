package whatsapp

import (
	"context"
	"net/http"
	"strings"

	"navermap_bot/internal/bot"
	"navermap_bot/platform/httpkit"
	"navermap_bot/platform/logger"
	"navermap_bot/platform/phone"

	"github.com/gin-gonic/gin"
)

const surfaceWhatsApp = "whatsapp"

// Sender opens a reply channel to a WhatsApp chat.
type Sender interface {
	Sink(chat string) bot.ReplySink
}

// CommandHandler is the part of the bot the webhook drives.
type CommandHandler interface {
	Handle(ctx context.Context, surface, text string, sink bot.ReplySink) (bool, error)
	HandleDirect(ctx context.Context, surface, text string, sink bot.ReplySink) (bool, error)
}

// inboundMessage is the subset of the GoWA webhook payload the bot reads.
type inboundMessage struct {
	From     string `json:"from"`
	Pushname string `json:"pushname"`
	Message  struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"message"`
}

// chat returns where replies go and whether the chat is a group.
// Group senders arrive as "<user>@s.whatsapp.net in <group>@g.us".
func (m inboundMessage) chat() (string, bool) {
	if _, group, ok := strings.Cut(m.From, " in "); ok {
		return strings.TrimSpace(group), true
	}
	return phone.FromJID(m.From), false
}

// Handler receives GoWA webhooks and answers through the GoWA REST API.
type Handler struct {
	commands CommandHandler
	sender   Sender
	log      *logger.Logger
}

func NewHandler(commands CommandHandler, sender Sender, log *logger.Logger) *Handler {
	return &Handler{commands: commands, sender: sender, log: log}
}

// ReceiveMessage handles POST /api/v1/bot/whatsapp
func (h *Handler) ReceiveMessage(c *gin.Context) {
	var msg inboundMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	text := strings.TrimSpace(msg.Message.Text)
	recipient, group := msg.chat()
	if text == "" || recipient == "" {
		httpkit.OK(c, gin.H{"matched": false})
		return
	}

	sink := h.sender.Sink(recipient)

	// Private chats are already addressed to the bot; groups must name it.
	handle := h.commands.HandleDirect
	if group {
		handle = h.commands.Handle
	}

	matched, err := handle(c.Request.Context(), surfaceWhatsApp, text, sink)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("whatsapp reply failed", "recipient", recipient, "error", err)
		_ = c.Error(err)
		httpkit.Error(c, http.StatusBadGateway, "reply delivery failed", nil)
		return
	}

	httpkit.OK(c, gin.H{"matched": matched})
}
