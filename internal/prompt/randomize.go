package prompt

import (
	"math/rand"
	"sync"
	"time"
)

// Randomizer assigns styles to batch positions from an injectable source.
type Randomizer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomizer(src rand.Source) *Randomizer {
	if src == nil {
		src = rand.NewSource(time.Now().UTC().UnixNano())
	}
	return &Randomizer{rnd: rand.New(src)}
}

// Assign picks n styles uniformly with replacement, one per position.
func (r *Randomizer) Assign(styles []string, n int) []string {
	if len(styles) == 0 || n <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, n)
	for i := range out {
		out[i] = styles[r.rnd.Intn(len(styles))]
	}
	return out
}
