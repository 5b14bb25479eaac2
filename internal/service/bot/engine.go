package bot

import (
	"math/rand"
	"sync"
	"time"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

// RandomSelector picks uniformly among the legal columns. It carries no
// strategy: it never looks for wins or blocks.
type RandomSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSelector seeds the generator with seed, or with the clock when
// seed is zero.
func NewRandomSelector(seed int64) *RandomSelector {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomSelector{rng: rand.New(rand.NewSource(seed))}
}

// SelectColumn returns one of legal, or -1 when there is nothing to choose.
func (s *RandomSelector) SelectColumn(_ *domain.Board, legal []int) int {
	if len(legal) == 0 {
		return -1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return legal[s.rng.Intn(len(legal))]
}
