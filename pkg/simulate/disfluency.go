package simulate

import (
	"math/rand"
	"strings"
)

// fillers are the hesitation tokens a disfluent caller may insert.
var fillers = []string{"um", "uh", "you know", "I mean", "like"}

// disfluencyInjector probabilistically inserts a single filler token at a
// random word boundary. The random source is injected so tests can supply a
// deterministic sequence.
type disfluencyInjector struct {
	rate float64
	rng  *rand.Rand
}

func newDisfluencyInjector(rate float64, rng *rand.Rand) *disfluencyInjector {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}

	return &disfluencyInjector{rate: rate, rng: rng}
}

// Inject returns the text with at most one filler inserted. Blank text and a
// zero rate pass through untouched.
func (d *disfluencyInjector) Inject(text string) string {
	if d.rate == 0 || strings.TrimSpace(text) == "" {
		return text
	}
	if d.rng.Float64() > d.rate {
		return text
	}

	words := strings.Fields(text)
	insertAt := d.rng.Intn(len(words) + 1)
	filler := fillers[d.rng.Intn(len(fillers))]

	words = append(words[:insertAt], append([]string{filler}, words[insertAt:]...)...)
	return strings.Join(words, " ")
}
