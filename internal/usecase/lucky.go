package usecase

import (
	"math/rand"
	"sync"
	"time"
)

// BonusSelector decides per-claim whether the lucky bonus is granted.
// A single uniform draw is compared against the configured odds percent.
type BonusSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBonusSelector seeds the selector. Tests pass a fixed seed; production
// wiring passes time.Now().UnixNano().
func NewBonusSelector(seed int64) *BonusSelector {
	return &BonusSelector{rng: rand.New(rand.NewSource(seed))}
}

func NewDefaultBonusSelector() *BonusSelector {
	return NewBonusSelector(time.Now().UnixNano())
}

// Roll returns true with probability oddsPct/100. Odds of 0 never win,
// odds of 100 always win, regardless of the draw.
func (b *BonusSelector) Roll(oddsPct float64) bool {
	if oddsPct <= 0 {
		return false
	}
	if oddsPct >= 100 {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Float64() < oddsPct/100.0
}
