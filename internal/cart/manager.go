package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"Storefront/internal/notify"
	"Storefront/internal/storage"
)

// Manager owns the persisted cart slot.
// Every add is a read-modify-write of the whole slot; within one Manager adds are
// serialized. Separate processes sharing a store get last-write-wins.
type Manager struct {
	store    storage.Store
	key      string
	logger   *slog.Logger
	notifier notify.Notifier
	tracer   trace.Tracer
	added    metric.Int64Counter
	mu       sync.Mutex
}

// NewManager creates a cart manager persisting under key
func NewManager(store storage.Store, key string, logger *slog.Logger) *Manager {
	m := &Manager{
		store:  store,
		key:    key,
		logger: logger,
	}
	m.SetTelemetry(tracenoop.NewTracerProvider().Tracer(""), metricnoop.NewMeterProvider().Meter(""))
	return m
}

// SetNotifier sets where "added to cart" messages go
func (m *Manager) SetNotifier(n notify.Notifier) {
	m.notifier = n
}

// SetTelemetry replaces the tracer and meter
func (m *Manager) SetTelemetry(tracer trace.Tracer, meter metric.Meter) {
	m.tracer = tracer
	counter, err := meter.Int64Counter(
		"cart.items.added",
		metric.WithDescription("Items added to the cart"),
	)
	if err != nil {
		m.logger.Warn("failed to create counter", "name", "cart.items.added", "error", err)
		counter, _ = metricnoop.NewMeterProvider().Meter("").Int64Counter("cart.items.added")
	}
	m.added = counter
}

// Load returns the persisted cart. An absent, unreadable, or corrupt slot
// is treated as an empty cart.
func (m *Manager) Load(ctx context.Context) Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.read(ctx)
	if err != nil {
		m.logger.Warn("failed to read cart, using empty cart", "key", m.key, "error", err)
		return Cart{}
	}
	return c
}

// read fails only on storage errors; corrupt content decodes to an empty cart
func (m *Manager) read(ctx context.Context) (Cart, error) {
	raw, ok, err := m.store.Get(ctx, m.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Cart{}, nil
	}

	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		m.logger.Warn("malformed persisted cart, using empty cart", "key", m.key, "error", err)
		return Cart{}, nil
	}
	if err := c.Validate(); err != nil {
		m.logger.Warn("malformed persisted cart, using empty cart", "key", m.key, "error", err)
		return Cart{}, nil
	}
	if c == nil {
		c = Cart{}
	}
	return c, nil
}

// AddItem adds one unit of a product. A repeat add bumps the quantity and keeps
// the name and price captured on the first add.
func (m *Manager) AddItem(ctx context.Context, productID, productName string, price float64) (Cart, error) {
	ctx, span := m.tracer.Start(ctx, "cart.add_item")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", productID))

	if err := validateItem(productID, productName, price); err != nil {
		span.RecordError(err)
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.read(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if i := c.Find(productID); i >= 0 {
		c[i].Quantity++
	} else {
		c = append(c, LineItem{
			ID:       productID,
			Name:     productName,
			Price:    price,
			Quantity: 1,
		})
	}

	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := m.store.Set(ctx, m.key, string(data)); err != nil {
		span.RecordError(err)
		notify.Send(m.notifier, fmt.Sprintf("Could not add %s to cart", productName), notify.Error)
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	m.added.Add(ctx, 1, metric.WithAttributes(attribute.String("product.id", productID)))
	m.logger.Info("item added to cart",
		"product_id", productID,
		"items", TotalItemCount(c),
		"lines", len(c))
	notify.Send(m.notifier, AddedMessage(productName), notify.Success)

	return c, nil
}

// AddedMessage is the confirmation shown after a successful add
func AddedMessage(productName string) string {
	return fmt.Sprintf("%s added to cart!", productName)
}

// BuyNow adds a product from its display name and shelf price text
func (m *Manager) BuyNow(ctx context.Context, displayName, priceText string) (Cart, error) {
	price, err := ParsePrice(priceText)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(displayName)
	return m.AddItem(ctx, ProductID(name), name, price)
}
