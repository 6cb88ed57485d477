// Command navermap-lookup resolves one query from the command line and prints
// the two messages the bot would send.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"navermap_bot/internal/bot"
	"navermap_bot/internal/navermap"
	"navermap_bot/platform/config"
	"navermap_bot/platform/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: navermap-lookup <query>")
		os.Exit(2)
	}
	query := strings.Join(os.Args[1:], " ")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log := logger.NewWithWriter(cfg.Env, os.Stderr)
	module := navermap.NewModule(cfg, nil, log, nil)
	mapBot := bot.New(cfg, module.Service(), module.Links(), log, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	messages, err := mapBot.Messages(ctx, query)
	if err != nil {
		log.Error("lookup failed", "query", query, "error", err)
		fmt.Println(bot.FailureMessage(query, err))
		os.Exit(1)
	}
	for _, msg := range messages {
		fmt.Println(msg)
	}
}
