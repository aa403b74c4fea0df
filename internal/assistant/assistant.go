package assistant

import "strings"

// Category identifies one canned answer
type Category string

const (
	Greeting    Category = "greeting"
	Photography Category = "photography"
	Latest      Category = "latest"
	Battery     Category = "battery"
	Gaming      Category = "gaming"
	Budget      Category = "budget"
	Default     Category = "default"
)

var responses = map[Category]string{
	Greeting:    "Hello! I'm your iPhone shopping assistant. I can help you choose the perfect iPhone based on your needs. What are you looking for in a phone?",
	Photography: "For photography, I recommend the iPhone 17 Pro Max or iPhone 16 Pro. They have advanced camera systems with multiple lenses, Night mode, and ProRAW support. The iPhone 17 Pro Max features a 48MP main camera with sensor-shift stabilization.",
	Latest:      "The latest iPhone models are the iPhone 17 series, including iPhone 17, iPhone 17 Pro, and iPhone 17 Pro Max. They feature the A18 chip, improved cameras, and new color options.",
	Battery:     "For the best battery life, consider the iPhone 17 Pro Max or iPhone 16 Pro Max. They offer all-day battery life and support fast charging. The iPhone 17 Pro Max has up to 29 hours of video playback.",
	Gaming:      "For gaming, I recommend iPhone 17 Pro or iPhone 16 Pro with their A18/A17 Pro chips and ProMotion displays with 120Hz refresh rates. They provide smooth gaming performance and excellent graphics.",
	Budget:      "If you're on a budget, consider iPhone 13 or iPhone 14. They offer great value with excellent performance and cameras at lower price points. iPhone 13 is currently our most affordable option.",
	Default:     "I can help you compare iPhone models, features, prices, and make recommendations. You can ask about specific models, camera quality, battery life, storage options, or anything else about iPhones!",
}

// keywordGroup maps substrings to a category
type keywordGroup struct {
	category Category
	keywords []string
}

// Tested in order; the first group with a matching keyword wins.
var groups = []keywordGroup{
	{Photography, []string{"photo", "camera"}},
	{Latest, []string{"latest", "new"}},
	{Battery, []string{"battery", "charge"}},
	{Gaming, []string{"game", "performance"}},
	{Budget, []string{"budget", "cheap", "affordable"}},
	{Greeting, []string{"hello", "hi", "hey"}},
}

// Suggestions are the quick questions offered under the chat input
var Suggestions = []string{
	"Which iPhone has the best camera?",
	"What's the latest iPhone?",
	"Which iPhone has the best battery life?",
	"Which iPhone has the best gaming performance?",
	"What's the most affordable iPhone?",
}

// Classify picks the category for a message. Matching is plain
// case-insensitive substring search, so "this" matches greeting via "hi".
func Classify(text string) Category {
	q := strings.ToLower(text)
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(q, kw) {
				return g.category
			}
		}
	}
	return Default
}

// Respond returns the canned answer for a message. It never returns an empty string.
func Respond(text string) string {
	return Response(Classify(text))
}

// Response returns the text for a category, falling back to the default answer
func Response(c Category) string {
	if r, ok := responses[c]; ok {
		return r
	}
	return responses[Default]
}
