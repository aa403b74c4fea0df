package chatbot

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"Storefront/internal/assistant"
	"Storefront/internal/cart"
	"Storefront/internal/config"
	"Storefront/internal/notify"
	"Storefront/internal/server"
	"Storefront/internal/session"
	"Storefront/internal/slider"
	"Storefront/internal/storage"
	"Storefront/internal/telemetry"
	"Storefront/internal/widget"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ChatBot is the terminal storefront: the chat widget plus buy buttons
type ChatBot struct {
	config  config.Config
	db      *sql.DB
	logger  *slog.Logger
	tracer  trace.Tracer
	cart    *cart.Manager
	widget  *widget.Widget
	banner  *slider.Banner
	strip   *slider.Strip
	replies chan session.Message
	in      io.Reader
	out     io.Writer

	closers   []func()
	closeOnce sync.Once
}

// NewChatBot creates a ChatBot with logging, telemetry and the configured store
func NewChatBot(cfg config.Config) (*ChatBot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := telemetry.InitLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := context.Background()
	tracer, meter, cleanup, err := telemetry.InitTelemetry(ctx, cfg.LogDir)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	var (
		store storage.Store
		db    *sql.DB
	)
	switch cfg.Store {
	case config.StoreSQLite:
		db, err = telemetry.InitDB(cfg.DBPath)
		if err != nil {
			cleanup()
			closeLog()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		store = storage.NewSQLiteStore(db)
	default:
		store = storage.NewMemoryStore()
	}

	if cfg.Debug {
		logger.Info("Debug mode enabled")
	}

	cb := New(cfg, logger, store, os.Stdin, os.Stdout)
	cb.db = db
	cb.SetTelemetry(tracer, meter)
	cb.closers = append(cb.closers, cleanup, func() { closeLog() })
	return cb, nil
}

// New wires a ChatBot around an existing logger and store
func New(cfg config.Config, logger *slog.Logger, store storage.Store, in io.Reader, out io.Writer) *ChatBot {
	cb := &ChatBot{
		config:  cfg,
		logger:  logger,
		replies: make(chan session.Message, 8),
		in:      in,
		out:     out,
	}

	cb.cart = cart.NewManager(store, cfg.CartKey, logger)
	cb.cart.SetNotifier(notify.Multi{
		notify.NewWriterNotifier(out),
		notify.NewLogNotifier(logger),
	})

	cb.widget = widget.New(logger, func(msg session.Message) {
		cb.replies <- msg
	})

	// bannerSlides is non-empty and the interval positive, so this cannot fail
	cb.banner, _ = slider.NewBanner(len(bannerSlides), slider.AutoAdvance, logger, nil)
	cb.strip = newRecommendedStrip()

	return cb
}

// SetTelemetry routes cart and widget spans/metrics to the given providers
func (cb *ChatBot) SetTelemetry(tracer trace.Tracer, meter metric.Meter) {
	cb.tracer = tracer
	cb.cart.SetTelemetry(tracer, meter)
	cb.widget.SetTelemetry(tracer, meter)
}

// SetReplyDelay replaces the widget's thinking delay
func (cb *ChatBot) SetReplyDelay(delay func() time.Duration) {
	cb.widget.SetDelay(delay)
}

// Close stops timers and releases the store, telemetry and log file
func (cb *ChatBot) Close() {
	cb.closeOnce.Do(func() {
		cb.widget.Shutdown()
		cb.banner.Stop()
		if cb.db != nil {
			if err := cb.db.Close(); err != nil {
				cb.logger.Error("failed to close database", "error", err)
			}
		}
		for i := len(cb.closers) - 1; i >= 0; i-- {
			cb.closers[i]()
		}
	})
}

// sendMessage posts a message to the widget and waits for the answer
func (cb *ChatBot) sendMessage(ctx context.Context, userMessage string) (string, error) {
	if !cb.widget.IsOpen() {
		cb.widget.Open()
	}
	if !cb.widget.Submit(ctx, userMessage) {
		return "", nil
	}

	select {
	case msg := <-cb.replies:
		return msg.Content, nil
	case <-ctx.Done():
		cb.widget.Close()
		return "", ctx.Err()
	}
}

func (cb *ChatBot) printCart(ctx context.Context) {
	c := cb.cart.Load(ctx)
	if len(c) == 0 {
		fmt.Fprintln(cb.out, "Your cart is empty.")
		return
	}
	fmt.Fprintln(cb.out, "\nCart:")
	for i, item := range c {
		fmt.Fprintf(cb.out, "%d. %s x%d @ %s\n", i+1, item.Name, item.Quantity, cart.FormatPrice(item.Price))
	}
	fmt.Fprintf(cb.out, "Items: %d  Subtotal: %s\n\n", cart.TotalItemCount(c), cart.FormatPrice(cart.Subtotal(c)))
}

// handleCommand handles slash commands; it reports true when the app should exit
func (cb *ChatBot) handleCommand(ctx context.Context, cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}

	switch parts[0] {
	case "/quit", "/exit":
		return true, nil

	case "/buy":
		name, price := "", ""
		switch {
		case len(parts) == 1:
			slide := bannerSlides[cb.banner.Current()]
			name, price = slide.Name, slide.Price
		case len(parts) >= 3:
			name, price = strings.Join(parts[2:], " "), parts[1]
		default:
			return false, fmt.Errorf("usage: /buy [<price> <product name>]")
		}
		if _, err := cb.cart.BuyNow(ctx, name, price); err != nil {
			return false, fmt.Errorf("failed to add to cart: %w", err)
		}
		return false, nil

	case "/banner":
		if len(parts) > 1 {
			switch parts[1] {
			case "next":
				cb.banner.Next()
			case "prev":
				cb.banner.Prev()
			case "pause":
				cb.banner.Pause()
			case "resume":
				cb.banner.Resume()
			default:
				n, err := strconv.Atoi(parts[1])
				if err != nil {
					return false, fmt.Errorf("usage: /banner [next|prev|pause|resume|<1-%d>]", len(bannerSlides))
				}
				if err := cb.banner.Show(n - 1); err != nil {
					return false, err
				}
			}
		}
		fmt.Fprintf(cb.out, "Banner %d/%d: %s\n", cb.banner.Current()+1, len(bannerSlides), bannerSlides[cb.banner.Current()])
		return false, nil

	case "/recommended":
		if len(parts) > 1 {
			switch parts[1] {
			case "next", "prev":
				cb.strip.Scroll(parts[1])
			default:
				return false, fmt.Errorf("usage: /recommended [next|prev]")
			}
		}
		fmt.Fprintln(cb.out, "Recommended:")
		for _, p := range visibleRecommended(cb.strip) {
			fmt.Fprintf(cb.out, "  %s\n", p)
		}
		return false, nil

	case "/cart":
		cb.printCart(ctx)
		return false, nil

	case "/count":
		fmt.Fprintf(cb.out, "Cart: %d\n", cart.TotalItemCount(cb.cart.Load(ctx)))
		return false, nil

	case "/suggest":
		if len(parts) < 2 {
			fmt.Fprintln(cb.out, "\nSuggestions:")
			for i, q := range assistant.Suggestions {
				fmt.Fprintf(cb.out, "%d. %s\n", i+1, q)
			}
			fmt.Fprintln(cb.out)
			return false, nil
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 || n > len(assistant.Suggestions) {
			return false, fmt.Errorf("usage: /suggest <1-%d>", len(assistant.Suggestions))
		}
		question := assistant.Suggestions[n-1]
		fmt.Fprintf(cb.out, "You: %s\n", question)
		response, err := cb.sendMessage(ctx, question)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(cb.out, "Bot: %s\n\n", response)
		return false, nil

	case "/open":
		cb.widget.Open()
		fmt.Fprintln(cb.out, "Chat opened")
		return false, nil

	case "/close":
		cb.widget.Close()
		fmt.Fprintln(cb.out, "Chat closed")
		return false, nil

	case "/status":
		fmt.Fprintf(cb.out, "Session: %s\n", cb.widget.SessionID())
		fmt.Fprintf(cb.out, "Chat open: %t  Badge: %t  Messages: %d\n",
			cb.widget.IsOpen(), cb.widget.BadgeVisible(), len(cb.widget.Transcript()))
		fmt.Fprintf(cb.out, "Cart: %d\n", cart.TotalItemCount(cb.cart.Load(ctx)))
		return false, nil

	case "/help":
		fmt.Fprintln(cb.out, "Available commands:")
		fmt.Fprintln(cb.out, "  /buy [<price> <name>]                - Add a product to the cart (e.g. /buy RM5,499 iPhone 17 Pro)")
		fmt.Fprintln(cb.out, "                                         Without arguments, buys the product on the banner")
		fmt.Fprintln(cb.out, "  /banner [next|prev|pause|resume|n]   - Show or move the banner")
		fmt.Fprintln(cb.out, "  /recommended [next|prev]             - Scroll the recommended products")
		fmt.Fprintln(cb.out, "  /cart                                - Show the cart")
		fmt.Fprintln(cb.out, "  /count                               - Show the cart item count")
		fmt.Fprintln(cb.out, "  /suggest [n]                         - List quick questions, or ask question n")
		fmt.Fprintln(cb.out, "  /open, /close                        - Open or close the chat widget")
		fmt.Fprintln(cb.out, "  /status                              - Show widget and cart state")
		fmt.Fprintln(cb.out, "  /quit, /exit                         - Exit")
		fmt.Fprintln(cb.out, "  /help                                - Show this help message")
		return false, nil

	default:
		return false, fmt.Errorf("unknown command: %s", parts[0])
	}
}

// Run starts the terminal loop
func (cb *ChatBot) Run(ctx context.Context) error {
	defer cb.Close()

	fmt.Fprintln(cb.out, "=== iPhone Store ===")
	fmt.Fprintf(cb.out, "Cart: %d\n", cart.TotalItemCount(cb.cart.Load(ctx)))
	fmt.Fprintln(cb.out, "Ask the shopping assistant anything. Type /help for commands, /quit to exit")
	fmt.Fprintln(cb.out)

	cb.widget.StartNudge()
	cb.banner.Start()

	scanner := bufio.NewScanner(cb.in)
	for {
		fmt.Fprint(cb.out, "You: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldQuit, err := cb.handleCommand(ctx, input)
			if err != nil {
				fmt.Fprintf(cb.out, "Error: %v\n", err)
				cb.logger.Error("command error", "error", err)
			}
			if shouldQuit {
				break
			}
			continue
		}

		response, err := cb.sendMessage(ctx, input)
		if err != nil {
			fmt.Fprintf(cb.out, "Error: %v\n", err)
			cb.logger.Error("failed to send message", "error", err)
			return err
		}

		fmt.Fprintf(cb.out, "Bot: %s\n\n", response)
	}

	if err := scanner.Err(); err != nil {
		cb.logger.Error("failed to read input", "error", err)
		return err
	}

	cb.logger.Info("session ended", "session_id", cb.widget.SessionID(), "messages", len(cb.widget.Transcript()))
	fmt.Fprintln(cb.out, "Goodbye!")
	return nil
}

// Serve exposes the widget over a websocket at addr until ctx is cancelled
func (cb *ChatBot) Serve(ctx context.Context, addr string) error {
	defer cb.Close()

	srv := server.New(cb.cart, cb.logger)
	if cb.tracer != nil {
		srv.SetTracer(cb.tracer)
	}
	fmt.Fprintf(cb.out, "Serving chat widget on ws://%s/ws\n", addr)
	return srv.ListenAndServe(ctx, addr)
}
