package dice

import "fmt"

// Sequence replays a fixed list of rolls and records every requested range.
// It panics when the script runs out or a scripted roll falls outside the
// requested range, which makes it suitable for pinning down exact decision
// paths in tests.
type Sequence struct {
	rolls    []int
	next     int
	Requests []int
}

func NewSequence(rolls ...int) *Sequence {
	return &Sequence{rolls: rolls}
}

func (s *Sequence) Roll(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("dice: roll over empty range [0, %d)", n))
	}
	if s.next >= len(s.rolls) {
		panic(fmt.Sprintf("dice: sequence exhausted after %d rolls (requested [0, %d))", s.next, n))
	}
	v := s.rolls[s.next]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("dice: scripted roll %d outside [0, %d)", v, n))
	}
	s.next++
	s.Requests = append(s.Requests, n)
	return v
}

// Remaining reports how many scripted rolls have not been consumed.
func (s *Sequence) Remaining() int {
	return len(s.rolls) - s.next
}
