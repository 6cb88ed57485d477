// Package discord answers map commands posted in Discord channels.
package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"navermap_bot/internal/bot"
	"navermap_bot/platform/config"
	"navermap_bot/platform/logger"

	"github.com/bwmarrin/discordgo"
)

const (
	surfaceDiscord = "discord"
	commandTimeout = 30 * time.Second
)

// CommandHandler is the part of the bot the adapter drives.
type CommandHandler interface {
	Handle(ctx context.Context, surface, text string, sink bot.ReplySink) (bool, error)
	HandleDirect(ctx context.Context, surface, text string, sink bot.ReplySink) (bool, error)
}

// messageSender is the slice of *discordgo.Session used for replies.
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Adapter connects a Discord bot session to the command handler.
type Adapter struct {
	token    string
	commands CommandHandler
	log      *logger.Logger
	session  *discordgo.Session
}

func New(cfg config.DiscordConfig, commands CommandHandler, log *logger.Logger) *Adapter {
	return &Adapter{
		token:    cfg.GetDiscordToken(),
		commands: commands,
		log:      log,
	}
}

// Open connects to the gateway. Commands are answered under ctx until Close.
func (a *Adapter) Open(ctx context.Context) error {
	session, err := discordgo.New("Bot " + a.token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent

	session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		selfID := ""
		if s.State != nil && s.State.User != nil {
			selfID = s.State.User.ID
		}
		a.onMessage(ctx, s, selfID, m)
	})

	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	a.session = session
	a.log.Info("discord session opened")
	return nil
}

// Close disconnects from the gateway.
func (a *Adapter) Close() error {
	if a.session == nil {
		return nil
	}
	err := a.session.Close()
	a.session = nil
	return err
}

// Run keeps an open session until ctx is done.
func (a *Adapter) Run(ctx context.Context) error {
	if a.session == nil {
		if err := a.Open(ctx); err != nil {
			return err
		}
	}
	<-ctx.Done()
	if err := a.Close(); err != nil {
		a.log.Warn("discord session close failed", "error", err)
	}
	return nil
}

func (a *Adapter) onMessage(ctx context.Context, sender messageSender, selfID string, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil {
		return
	}
	if m.Author.Bot || (selfID != "" && m.Author.ID == selfID) {
		return
	}

	text, mentioned := stripMention(m.Content, selfID)
	direct := mentioned || m.GuildID == ""

	cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	channelID := m.ChannelID
	sink := bot.SinkFunc(func(_ context.Context, message string) error {
		_, err := sender.ChannelMessageSend(channelID, message)
		return err
	})

	handle := a.commands.Handle
	if direct {
		handle = a.commands.HandleDirect
	}
	if _, err := handle(cmdCtx, surfaceDiscord, text, sink); err != nil {
		a.log.Error("discord reply failed", "channel", channelID, "error", err)
	}
}

// stripMention removes a leading "<@id>" or "<@!id>" mention of the bot.
func stripMention(content, selfID string) (string, bool) {
	trimmed := strings.TrimSpace(content)
	if selfID == "" {
		return trimmed, false
	}
	for _, mention := range []string{"<@" + selfID + ">", "<@!" + selfID + ">"} {
		if rest, ok := strings.CutPrefix(trimmed, mention); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return trimmed, false
}
