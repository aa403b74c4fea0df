package slider

const ScrollStep = 300

// Strip is the horizontally scrolling "recommended products" row
type Strip struct {
	offset    int
	maxOffset int
}

// NewStrip creates a strip whose content is contentWidth wide inside a
// viewport of viewWidth.
func NewStrip(contentWidth, viewWidth int) *Strip {
	maxOffset := contentWidth - viewWidth
	if maxOffset < 0 {
		maxOffset = 0
	}
	return &Strip{maxOffset: maxOffset}
}

// Offset is the current scroll position
func (s *Strip) Offset() int {
	return s.offset
}

// Scroll moves one step left ("prev") or right ("next")
func (s *Strip) Scroll(direction string) {
	switch direction {
	case "next":
		s.offset = min(s.offset+ScrollStep, s.maxOffset)
	case "prev":
		s.offset = max(s.offset-ScrollStep, 0)
	}
}

// Key handles arrow-key navigation
func (s *Strip) Key(key string) {
	switch key {
	case "ArrowLeft":
		s.Scroll("prev")
	case "ArrowRight":
		s.Scroll("next")
	}
}
