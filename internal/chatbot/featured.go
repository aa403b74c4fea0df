package chatbot

import (
	"fmt"

	"Storefront/internal/slider"
)

// product is a card shown on the banner or in the recommended strip
type product struct {
	Name  string
	Price string // shelf price text as displayed
}

var bannerSlides = []product{
	{"iPhone 17 Pro Max", "RM 6,999.00"},
	{"iPhone 17 Pro", "RM 5,999.00"},
	{"iPhone 17", "RM 4,299.00"},
	{"iPhone 16 Pro", "RM 4,999.00"},
}

var recommended = []product{
	{"iPhone 16", "RM 3,999.00"},
	{"iPhone 15", "RM 3,499.00"},
	{"iPhone 14", "RM 2,999.00"},
	{"iPhone 13", "RM 2,599.00"},
	{"iPhone 16 Plus", "RM 4,499.00"},
	{"iPhone 15 Plus", "RM 3,899.00"},
}

const (
	cardWidth    = slider.ScrollStep
	visibleCards = 3
)

func newRecommendedStrip() *slider.Strip {
	return slider.NewStrip(len(recommended)*cardWidth, visibleCards*cardWidth)
}

// visibleRecommended returns the cards currently scrolled into view
func visibleRecommended(s *slider.Strip) []product {
	first := s.Offset() / cardWidth
	last := min(first+visibleCards, len(recommended))
	return recommended[first:last]
}

func (p product) String() string {
	return fmt.Sprintf("%s - %s", p.Name, p.Price)
}
