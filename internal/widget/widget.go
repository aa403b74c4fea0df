package widget

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"Storefront/internal/assistant"
	"Storefront/internal/scheduler"
	"Storefront/internal/session"
)

const (
	NudgeAfter    = 10 * time.Second
	PulseDuration = 3 * time.Second
)

// ThinkingDelay is the default pause before a reply: one to two seconds
func ThinkingDelay() time.Duration {
	return time.Second + rand.N(time.Second)
}

// ReplyFunc receives each bot reply once it is added to the transcript
type ReplyFunc func(msg session.Message)

// Widget is the chat widget controller. It owns the transcript and the
// open/badge/pulse state, and answers with the keyword assistant after a delay.
type Widget struct {
	session *session.Session
	logger  *slog.Logger
	onReply ReplyFunc
	delay   func() time.Duration

	tracer    trace.Tracer
	responses metric.Int64Counter

	replies scheduler.Group // cancelled on close
	timers  scheduler.Group // nudge and pulse

	mu      sync.Mutex
	open    bool
	badge   bool
	pulsing bool
	pending int
}

// New creates a closed widget with an empty transcript
func New(logger *slog.Logger, onReply ReplyFunc) *Widget {
	w := &Widget{
		session: session.New(),
		logger:  logger,
		onReply: onReply,
		delay:   ThinkingDelay,
	}
	w.SetTelemetry(tracenoop.NewTracerProvider().Tracer(""), metricnoop.NewMeterProvider().Meter(""))
	return w
}

// SetDelay replaces the thinking delay
func (w *Widget) SetDelay(delay func() time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delay = delay
}

// SetTelemetry replaces the tracer and meter
func (w *Widget) SetTelemetry(tracer trace.Tracer, meter metric.Meter) {
	w.tracer = tracer
	counter, err := meter.Int64Counter(
		"assistant.responses",
		metric.WithDescription("Chat replies by category"),
	)
	if err != nil {
		w.logger.Warn("failed to create counter", "name", "assistant.responses", "error", err)
		counter, _ = metricnoop.NewMeterProvider().Meter("").Int64Counter("assistant.responses")
	}
	w.responses = counter
}

// SessionID identifies the transcript
func (w *Widget) SessionID() string {
	return w.session.ID
}

// Transcript returns a copy of the conversation so far
func (w *Widget) Transcript() []session.Message {
	return w.session.Snapshot()
}

// Open shows the widget and hides the badge
func (w *Widget) Open() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = true
	w.badge = false
}

// Close hides the widget and cancels replies that have not been delivered yet
func (w *Widget) Close() {
	w.mu.Lock()
	w.open = false
	w.mu.Unlock()

	if n := w.replies.CancelAll(); n > 0 {
		w.mu.Lock()
		w.pending -= n
		w.mu.Unlock()
		w.logger.Info("cancelled pending replies", "session_id", w.session.ID, "count", n)
	}
}

// Toggle flips between open and closed
func (w *Widget) Toggle() {
	if w.IsOpen() {
		w.Close()
		return
	}
	w.Open()
}

// Shutdown cancels every timer the widget owns
func (w *Widget) Shutdown() {
	w.Close()
	w.timers.CancelAll()
}

func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

func (w *Widget) BadgeVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.badge
}

func (w *Widget) Pulsing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pulsing
}

// Typing reports whether a reply is on its way
func (w *Widget) Typing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending > 0
}

// Submit posts a user message and schedules the reply. Blank input is ignored
// and reported as false.
func (w *Widget) Submit(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	w.session.Append(session.RoleUser, text)

	w.mu.Lock()
	w.pending++
	delay := w.delay()
	w.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	w.replies.After(delay, func() {
		w.reply(ctx, text)
	})
	return true
}

func (w *Widget) reply(ctx context.Context, question string) {
	ctx, span := w.tracer.Start(ctx, "widget.reply")
	defer span.End()

	category := assistant.Classify(question)
	span.SetAttributes(attribute.String("category", string(category)))
	w.responses.Add(ctx, 1, metric.WithAttributes(attribute.String("category", string(category))))

	msg := w.session.Append(session.RoleBot, assistant.Response(category))

	w.mu.Lock()
	w.pending--
	w.mu.Unlock()

	w.logger.Debug("chat reply", "session_id", w.session.ID, "category", category)
	if w.onReply != nil {
		w.onReply(msg)
	}
}

// Suggest submits the quick suggestion at index i
func (w *Widget) Suggest(ctx context.Context, i int) error {
	if i < 0 || i >= len(assistant.Suggestions) {
		return fmt.Errorf("no suggestion %d (have %d)", i, len(assistant.Suggestions))
	}
	w.Submit(ctx, assistant.Suggestions[i])
	return nil
}

// StartNudge shows the badge and pulses the toggle if the widget is still
// closed after NudgeAfter.
func (w *Widget) StartNudge() {
	w.nudge(NudgeAfter, PulseDuration)
}

func (w *Widget) nudge(after, pulse time.Duration) {
	w.timers.After(after, func() {
		w.mu.Lock()
		if w.open {
			w.mu.Unlock()
			return
		}
		w.badge = true
		w.pulsing = true
		w.mu.Unlock()

		w.timers.After(pulse, func() {
			w.mu.Lock()
			w.pulsing = false
			w.mu.Unlock()
		})
	})
}
