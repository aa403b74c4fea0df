package slider

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"Storefront/internal/scheduler"
)

const (
	AutoAdvance    = 4 * time.Second
	SwipeThreshold = 50.0
)

// Banner rotates through a fixed number of slides. It advances on its own
// every interval; manual navigation restarts that timer, hovering pauses it.
type Banner struct {
	slides   int
	interval time.Duration
	logger   *slog.Logger
	onChange func(index int)

	mu      sync.Mutex
	current int
	auto    *scheduler.Task
}

// NewBanner creates a banner showing slide 0. onChange may be nil.
func NewBanner(slides int, interval time.Duration, logger *slog.Logger, onChange func(index int)) (*Banner, error) {
	if slides <= 0 {
		return nil, fmt.Errorf("banner needs at least one slide")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid auto-advance interval %s", interval)
	}
	return &Banner{
		slides:   slides,
		interval: interval,
		logger:   logger,
		onChange: onChange,
	}, nil
}

// Current returns the visible slide
func (b *Banner) Current() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Show jumps to slide i and restarts the auto-advance timer
func (b *Banner) Show(i int) error {
	if i < 0 || i >= b.slides {
		return fmt.Errorf("slide %d out of range [0,%d)", i, b.slides)
	}
	b.set(i)
	b.restart()
	return nil
}

// Next moves forward, wrapping to the first slide
func (b *Banner) Next() {
	b.set((b.Current() + 1) % b.slides)
	b.restart()
}

// Prev moves back, wrapping to the last slide
func (b *Banner) Prev() {
	b.set((b.Current() - 1 + b.slides) % b.slides)
	b.restart()
}

// Swipe handles a touch gesture from startX to endX
func (b *Banner) Swipe(startX, endX float64) {
	switch {
	case startX-endX > SwipeThreshold:
		b.Next()
	case endX-startX > SwipeThreshold:
		b.Prev()
	}
}

func (b *Banner) set(i int) {
	b.mu.Lock()
	b.current = i
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(i)
	}
}

// Start begins auto-advancing
func (b *Banner) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.auto != nil {
		return
	}
	b.auto = scheduler.Every(b.interval, b.advance)
}

// Pause stops auto-advancing; Resume starts it again
func (b *Banner) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.auto != nil {
		b.auto.Cancel()
		b.auto = nil
	}
}

func (b *Banner) Resume() {
	b.Start()
}

// Stop cancels the timer and waits for it to exit
func (b *Banner) Stop() {
	b.mu.Lock()
	auto := b.auto
	b.auto = nil
	b.mu.Unlock()

	if auto != nil {
		auto.Stop()
	}
}

// Running reports whether the banner is auto-advancing
func (b *Banner) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.auto != nil
}

func (b *Banner) advance() {
	b.set((b.Current() + 1) % b.slides)
	if b.logger != nil {
		b.logger.Debug("banner advanced", "slide", b.Current())
	}
}

// restart resets the auto-advance timer if it is running
func (b *Banner) restart() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.auto == nil {
		return
	}
	b.auto.Cancel()
	b.auto = scheduler.Every(b.interval, b.advance)
}
