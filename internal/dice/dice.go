// Package dice is the randomness capability consumed by the shop engine.
//
// Every random decision goes through Dice.Roll so that a round can be replayed
// exactly from its seed: the same seed and the same sequence of requested
// ranges always produce the same rolls.
package dice

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Dice produces uniformly distributed integers in [0, n).
//
// Roll panics when n <= 0. Callers check that a candidate set is non-empty
// before rolling over it.
type Dice interface {
	Roll(n int) int
}

// Seeded is a deterministic Dice backed by a PCG generator.
type Seeded struct {
	seed int64
	rng  *rand.Rand
}

func NewSeeded(seed int64) *Seeded {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return &Seeded{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b"))),
	}
}

func (s *Seeded) Seed() int64 {
	return s.seed
}

func (s *Seeded) Roll(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("dice: roll over empty range [0, %d)", n))
	}
	return s.rng.IntN(n)
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// PickOne returns a uniformly random index among the non-zero entries of
// slots. The zero value of T marks an empty slot. It does not roll when every
// slot is empty.
func PickOne[T comparable](d Dice, slots []T) (int, bool) {
	var zero T
	count := 0
	for _, s := range slots {
		if s != zero {
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	nth := d.Roll(count)
	for i, s := range slots {
		if s == zero {
			continue
		}
		if nth == 0 {
			return i, true
		}
		nth--
	}
	panic("dice: PickOne fell through")
}

// Sample draws up to k distinct entries from candidates uniformly without
// replacement, in draw order. candidates is not modified.
func Sample(d Dice, candidates []int, k int) []int {
	pool := append([]int(nil), candidates...)
	if k > len(pool) {
		k = len(pool)
	}
	for i := 0; i < k; i++ {
		j := i + d.Roll(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
