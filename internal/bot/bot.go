package bot

import (
	"context"
	"fmt"

	"navermap_bot/internal/navermap/service"
	"navermap_bot/internal/navermap/transport"
	"navermap_bot/platform/apperr"
	"navermap_bot/platform/config"
	"navermap_bot/platform/logger"
	"navermap_bot/platform/metrics"
)

// Resolver resolves a query to one place.
type Resolver interface {
	Resolve(ctx context.Context, query string) (service.Resolution, error)
}

// MapURLBuilder builds the static map link for a coordinate pair.
type MapURLBuilder interface {
	StaticMapFor(c transport.Coordinates) (string, error)
}

// ReplySink delivers one outbound message to wherever the command came from.
type ReplySink interface {
	Send(ctx context.Context, message string) error
}

// SinkFunc adapts a function to ReplySink.
type SinkFunc func(ctx context.Context, message string) error

// Send calls f.
func (f SinkFunc) Send(ctx context.Context, message string) error {
	return f(ctx, message)
}

// Bot answers map commands.
type Bot struct {
	names    []string
	resolver Resolver
	maps     MapURLBuilder
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// New creates a Bot answering to the configured name.
func New(cfg config.BotConfig, resolver Resolver, maps MapURLBuilder, log *logger.Logger, m *metrics.Metrics) *Bot {
	return &Bot{
		names:    []string{cfg.GetBotName()},
		resolver: resolver,
		maps:     maps,
		log:      log,
		metrics:  m,
	}
}

// Match returns the query when text addresses the bot by name and carries the map command.
func (b *Bot) Match(text string) (string, bool) {
	rest, ok := Addressed(text, b.names...)
	if !ok {
		return "", false
	}
	return ParseCommand(rest)
}

// Handle processes a message that must address the bot by name first.
// matched is false when the message is not a map command.
func (b *Bot) Handle(ctx context.Context, surface, text string, sink ReplySink) (bool, error) {
	query, ok := b.Match(text)
	if !ok {
		return false, nil
	}
	return true, b.Reply(ctx, surface, query, sink)
}

// HandleDirect processes a message already directed at the bot (a mention
// or a private chat), so no name prefix is required.
func (b *Bot) HandleDirect(ctx context.Context, surface, text string, sink ReplySink) (bool, error) {
	query, ok := ParseCommand(text)
	if !ok {
		if rest, addressed := Addressed(text, b.names...); addressed {
			query, ok = ParseCommand(rest)
		}
	}
	if !ok {
		return false, nil
	}
	return true, b.Reply(ctx, surface, query, sink)
}

// Reply resolves query and sends the map URL and the place summary, or a
// single failure message. Only delivery failures are returned.
func (b *Bot) Reply(ctx context.Context, surface, query string, sink ReplySink) error {
	ctx = context.WithValue(ctx, logger.SurfaceKey, surface)
	b.metrics.IncrementCommands(surface)
	b.log.CommandReceived(surface, query)

	messages, err := b.Messages(ctx, query)
	if err != nil {
		b.log.WithContext(ctx).Warn("place not resolved", "query", query, "error", err)
		return sink.Send(ctx, FailureMessage(query, err))
	}

	for _, msg := range messages {
		if err := sink.Send(ctx, msg); err != nil {
			return fmt.Errorf("send reply: %w", err)
		}
	}
	return nil
}

// Messages resolves query and renders the outbound messages without sending them.
func (b *Bot) Messages(ctx context.Context, query string) ([]string, error) {
	res, err := b.resolver.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	mapURL, err := b.maps.StaticMapFor(res.Record.Coordinates)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, "resolved place has no usable coordinates", err)
	}
	return Format(res.Record, mapURL), nil
}

// FailureMessage is the reply shown when resolving query failed with err.
func FailureMessage(query string, err error) string {
	switch apperr.GetKind(err) {
	case apperr.KindInvalidInput:
		return usageMessage
	case apperr.KindNotFound:
		return NotFoundMessage(query)
	default:
		return upstreamMessage
	}
}
