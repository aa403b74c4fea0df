package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Storefront/internal/chatbot"
	"Storefront/internal/config"
)

func main() {
	cfg := config.Default()

	flag.StringVar(&cfg.Store, "store", cfg.Store, "Cart storage backend (memory|sqlite)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database file")
	flag.StringVar(&cfg.CartKey, "cart-key", cfg.CartKey, "Storage key holding the cart")
	flag.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Directory for logs, traces and metrics")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	flag.StringVar(&cfg.ListenAddr, "serve", cfg.ListenAddr, "Serve the chat widget websocket on this address instead of the terminal app")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := chatbot.NewChatBot(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize storefront: %v\n", err)
		os.Exit(1)
	}

	if cfg.ListenAddr != "" {
		err = bot.Serve(ctx, cfg.ListenAddr)
	} else {
		err = bot.Run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
