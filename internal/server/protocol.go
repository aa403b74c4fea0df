package server

import "Storefront/internal/cart"

// Client frame types
const (
	FrameChat  = "chat"
	FrameBuy   = "buy"
	FrameCart  = "cart"
	FrameOpen  = "open"
	FrameClose = "close"
)

// Server frame types
const (
	FrameReply  = "reply"
	FrameNotice = "notice"
	FrameError  = "error"
)

// ClientFrame is a message from the browser widget
type ClientFrame struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`  // chat
	Name  string `json:"name,omitempty"`  // buy: product display name
	Price string `json:"price,omitempty"` // buy: shelf price text, e.g. "RM 3,999.00"
}

// ServerFrame is a message to the browser widget
type ServerFrame struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	Time     string    `json:"time,omitempty"`     // reply: HH:MM
	Severity string    `json:"severity,omitempty"` // notice
	Cart     cart.Cart `json:"cart,omitempty"`
	Count    *int      `json:"count,omitempty"`
}

func cartFrame(c cart.Cart) ServerFrame {
	count := cart.TotalItemCount(c)
	return ServerFrame{Type: FrameCart, Cart: c, Count: &count}
}
