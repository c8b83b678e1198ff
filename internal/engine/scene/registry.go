package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// ErrNotRegistered is returned when releasing a colour the registry does not hold.
var ErrNotRegistered = errors.New("pick colour not registered")

// Registry maps pick colours to items. Each colour is a float32 in (0, 1)
// written to the single-channel pick target; 0 is the background sentinel.
// The registry is owned by one viewport and used from the render thread only.
type Registry struct {
	rng   *rand.Rand
	items map[float32]*Item
}

// NewRegistry returns a registry seeded from the clock.
func NewRegistry() *Registry {
	now := uint64(time.Now().UnixNano())
	return NewRegistryWithSeed(now, now>>32)
}

// NewRegistryWithSeed returns a registry with a deterministic colour sequence.
func NewRegistryWithSeed(seed1, seed2 uint64) *Registry {
	return &Registry{
		rng:   rand.New(rand.NewPCG(seed1, seed2)),
		items: make(map[float32]*Item),
	}
}

// Register assigns a fresh colour to it. Draws are repeated until the
// colour is non-zero and unused.
func (r *Registry) Register(it *Item) float32 {
	for {
		c := r.rng.Float32()
		if c == 0 {
			continue
		}
		if _, taken := r.items[c]; taken {
			continue
		}
		r.items[c] = it
		return c
	}
}

// Release frees a colour so it can be handed out again.
func (r *Registry) Release(c float32) error {
	if _, ok := r.items[c]; !ok {
		return fmt.Errorf("%w: %v", ErrNotRegistered, c)
	}
	delete(r.items, c)
	return nil
}

// Lookup resolves a colour read back from the pick target.
func (r *Registry) Lookup(c float32) (*Item, bool) {
	it, ok := r.items[c]
	return it, ok
}

// Len returns the number of registered colours.
func (r *Registry) Len() int {
	return len(r.items)
}
