// Package whatsapp connects the bot to a GoWA (go-whatsapp-web-multidevice) instance:
// outbound replies through its REST API and inbound messages through its webhook.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"navermap_bot/internal/bot"
	"navermap_bot/platform/apperr"
	"navermap_bot/platform/config"
	"navermap_bot/platform/logger"
	"navermap_bot/platform/metrics"
	"navermap_bot/platform/phone"
)

const (
	sendTimeout  = 10 * time.Second
	maxErrorBody = 4096
	groupSuffix  = "@g.us"
)

// Client posts bot replies to a chat through GoWA.
type Client struct {
	endpoint string
	auth     string
	deviceID string
	http     *http.Client
	log      *logger.Logger
	metrics  *metrics.Metrics
}

type outboundMessage struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// NewClient returns nil when WhatsApp is not configured.
func NewClient(cfg config.WhatsAppConfig, log *logger.Logger, m *metrics.Metrics) *Client {
	if !cfg.IsWhatsAppEnabled() {
		return nil
	}

	c := &Client{
		endpoint: strings.TrimRight(cfg.GetWhatsAppURL(), "/") + "/send/message",
		deviceID: cfg.GetWhatsAppDeviceID(),
		http:     &http.Client{Timeout: sendTimeout},
		log:      log,
		metrics:  m,
	}
	if key := cfg.GetWhatsAppKey(); key != "" {
		c.auth = basicAuth(key)
	}
	return c
}

// Sink returns a ReplySink that delivers every bot message to chat, a phone
// number, a user JID or a group JID.
func (c *Client) Sink(chat string) bot.ReplySink {
	target := chatTarget(chat)
	return bot.SinkFunc(func(ctx context.Context, message string) error {
		return c.deliver(ctx, target, message)
	})
}

// chatTarget is the "phone" field GoWA expects: group JIDs as they are,
// everything else as E.164 digits without the plus sign.
func chatTarget(chat string) string {
	chat = strings.TrimSpace(chat)
	switch {
	case strings.HasSuffix(chat, groupSuffix):
		return chat
	case strings.Contains(chat, "@"):
		chat = phone.FromJID(chat)
	default:
		chat = phone.NormalizeE164(chat)
	}
	return strings.TrimPrefix(chat, "+")
}

func (c *Client) deliver(ctx context.Context, target, message string) error {
	const op = "whatsapp.deliver"
	if c == nil {
		return nil
	}
	if target == "" {
		return apperr.InvalidInput("no whatsapp recipient").WithOp(op)
	}

	body, err := json.Marshal(outboundMessage{Phone: target, Message: message})
	if err != nil {
		return apperr.Wrap(apperr.KindUpstream, "encode reply", err).WithOp(op)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return apperr.Wrap(apperr.KindUpstream, "create request", err).WithOp(op)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.auth != "" {
		req.Header.Set("Authorization", c.auth)
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(surfaceWhatsApp, "transport_error", time.Since(start))
		return apperr.Wrap(apperr.KindUpstream, "send reply", err).WithOp(op)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		c.metrics.ObserveUpstream(surfaceWhatsApp, "bad_status", time.Since(start))
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apperr.Upstream("gowa rejected reply").WithOp(op).WithDetails(map[string]any{
			"status": resp.StatusCode,
			"body":   strings.TrimSpace(string(data)),
		})
	}
	c.metrics.ObserveUpstream(surfaceWhatsApp, "ok", time.Since(start))

	c.log.WithContext(ctx).Debug("whatsapp reply delivered", "recipient", target, "runes", len([]rune(message)))
	return nil
}

func basicAuth(key string) string {
	if strings.HasPrefix(strings.ToLower(key), "basic ") {
		return key
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(key))
}
