package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"I love the camera and battery", Photography},
		{"Show me PHOTO samples", Photography},
		{"what's the latest model", Latest},
		{"anything NEW?", Latest},
		{"how fast does it charge", Battery},
		{"battery life please", Battery},
		{"best for games", Gaming},
		{"raw performance", Gaming},
		{"something cheap", Budget},
		{"on a budget", Budget},
		{"most affordable", Budget},
		{"hi there", Greeting},
		{"Hello", Greeting},
		{"hey", Greeting},
		{"xyz totally unrelated", Default},
		{"", Default},
		// first match wins across groups
		{"new camera", Photography},
		{"cheap game phone", Gaming},
		// plain substring search: "which" contains "hi"
		{"which one", Greeting},
		{"hello, what's new", Latest},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.input))
		})
	}
}

func TestRespond(t *testing.T) {
	assert.Equal(t, responses[Photography], Respond("I love the camera and battery"))
	assert.Equal(t, responses[Greeting], Respond("hi there"))
	assert.Equal(t, responses[Default], Respond("xyz totally unrelated"))

	for _, in := range []string{"", " ", "\x00", "🙂", "zzz"} {
		assert.NotEmpty(t, Respond(in), "Respond(%q)", in)
	}
}

func TestRespond_Deterministic(t *testing.T) {
	first := Respond("Which iPhone is best for gaming?")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Respond("Which iPhone is best for gaming?"))
	}
}

func TestResponse_EveryCategory(t *testing.T) {
	for _, c := range []Category{Greeting, Photography, Latest, Battery, Gaming, Budget, Default} {
		assert.NotEmpty(t, Response(c), "category %s", c)
	}
	assert.Equal(t, responses[Default], Response("unknown"))
}

func TestSuggestionsHaveSpecificAnswers(t *testing.T) {
	for _, q := range Suggestions {
		assert.NotEqual(t, Default, Classify(q), "suggestion %q", q)
	}
}
