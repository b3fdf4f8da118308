package game

import (
	"fmt"

	"shopsim/internal/dice"
)

// Team is the player's ordered roster of TeamSize optional friend slots.
type Team struct {
	slots [TeamSize]*Friend
}

func (t *Team) Get(i int) *Friend {
	return t.slots[i]
}

func (t *Team) Set(i int, f *Friend) {
	t.slots[i] = f
}

// Take empties slot i and returns the friend that was there.
func (t *Team) Take(i int) *Friend {
	f := t.slots[i]
	t.slots[i] = nil
	return f
}

// Summon places f into the empty slot i.
func (t *Team) Summon(f Friend, i int) {
	if t.slots[i] != nil {
		panic(fmt.Sprintf("game: summon into occupied team slot %d", i))
	}
	t.slots[i] = &f
}

func (t *Team) Count() int {
	n := 0
	for _, f := range t.slots {
		if f != nil {
			n++
		}
	}
	return n
}

// Occupied returns the indices of occupied slots in ascending order.
func (t *Team) Occupied() []int {
	out := make([]int, 0, TeamSize)
	for i, f := range t.slots {
		if f != nil {
			out = append(out, i)
		}
	}
	return out
}

// MakeSpaceAt empties slot pos by shifting friends towards the nearest free
// slot, preferring one after pos. It reports false, leaving the team
// untouched, when the team is full.
func (t *Team) MakeSpaceAt(pos int) bool {
	if t.slots[pos] == nil {
		return true
	}
	for k := pos + 1; k < TeamSize; k++ {
		if t.slots[k] != nil {
			continue
		}
		copy(t.slots[pos+1:k+1], t.slots[pos:k])
		t.slots[pos] = nil
		return true
	}
	for k := pos - 1; k >= 0; k-- {
		if t.slots[k] != nil {
			continue
		}
		copy(t.slots[k:pos], t.slots[k+1:pos+1])
		t.slots[pos] = nil
		return true
	}
	return false
}

// RandomFriend picks a uniformly random occupied slot.
func (t *Team) RandomFriend(d dice.Dice) (int, bool) {
	return dice.PickOne(d, t.slots[:])
}

// RandomFriends picks up to k distinct occupied slots without replacement.
// Slot except, when in range, is treated as empty.
func (t *Team) RandomFriends(d dice.Dice, k int, except int) []int {
	candidates := make([]int, 0, TeamSize)
	for _, i := range t.Occupied() {
		if i != except {
			candidates = append(candidates, i)
		}
	}
	return dice.Sample(d, candidates, k)
}

func (t *Team) clone() Team {
	var out Team
	for i, f := range t.slots {
		if f != nil {
			g := *f
			out.slots[i] = &g
		}
	}
	return out
}
