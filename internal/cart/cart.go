package cart

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidItem is returned for item input that must never be persisted
var ErrInvalidItem = errors.New("invalid cart item")

// LineItem is one product entry with its aggregated quantity
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Cart holds line items in the order they were first added
type Cart []LineItem

// Find returns the position of the line item with the given id, or -1
func (c Cart) Find(id string) int {
	for i, item := range c {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Validate checks every line item and rejects duplicate ids
func (c Cart) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for i, item := range c {
		if err := validateItem(item.ID, item.Name, item.Price); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("line %d: %w: quantity %d below 1", i, ErrInvalidItem, item.Quantity)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("line %d: %w: duplicate id %q", i, ErrInvalidItem, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// TotalItemCount sums the quantities of every line item
func TotalItemCount(c Cart) int {
	total := 0
	for _, item := range c {
		total += item.Quantity
	}
	return total
}

// Subtotal sums price times quantity across the cart
func Subtotal(c Cart) float64 {
	var sum float64
	for _, item := range c {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// ProductID derives the line item id from a display name:
// "iPhone 17 Pro Max" becomes "iphone-17-pro-max". Any Unicode space run,
// including NBSP, counts as one separator.
func ProductID(displayName string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(displayName), unicode.IsSpace), "-")
}

// FormatPrice renders a price the way the shelf shows it: "RM 13,197.00"
func FormatPrice(price float64) string {
	s := strconv.FormatFloat(math.Abs(price), 'f', 2, 64)
	whole, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if price < 0 {
		sign = "-"
	}
	return fmt.Sprintf("RM %s%s.%s", sign, b.String(), frac)
}

// ParsePrice reads a shelf price such as "RM 5,999.00"
func ParsePrice(text string) (float64, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(strings.TrimPrefix(s, "RM"))
	s = strings.ReplaceAll(s, ",", "")

	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unreadable price %q", ErrInvalidItem, text)
	}
	if err := validatePrice(price); err != nil {
		return 0, err
	}
	return price, nil
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: price must be finite", ErrInvalidItem)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidItem)
	}
	return nil
}

func validateItem(productID, productName string, price float64) error {
	if strings.TrimSpace(productID) == "" {
		return fmt.Errorf("%w: empty product id", ErrInvalidItem)
	}
	if strings.TrimSpace(productName) == "" {
		return fmt.Errorf("%w: empty product name", ErrInvalidItem)
	}
	return validatePrice(price)
}
