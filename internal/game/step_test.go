package game

import (
	"io"
	"log/slog"
	"reflect"
	"slices"
	"testing"

	"shopsim/internal/dice"
)

func countFriendOffers(v View) int {
	n := 0
	for _, f := range v.Friends {
		if f != nil {
			n++
		}
	}
	return n
}

func countTeam(v View) int {
	n := 0
	for _, f := range v.Team {
		if f != nil {
			n++
		}
	}
	return n
}

func TestStepInvariantsAcrossSeeds(t *testing.T) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	for seed := int64(1); seed <= 300; seed++ {
		d := dice.NewSeeded(seed)
		s := NewShop(d, nil, quiet)

		for step := 0; step < 1000; step++ {
			before := s.View()
			done := s.Step(d)
			after := s.View()

			if after.Gold < 0 {
				t.Fatalf("seed=%d step=%d: negative gold %d", seed, step, after.Gold)
			}
			if !slices.IsSortedFunc(after.Friends[:], compareFriendSlots) {
				t.Fatalf("seed=%d step=%d: friend offers unsorted", seed, step)
			}
			if !slices.IsSorted(after.Foods[:]) {
				t.Fatalf("seed=%d step=%d: food offers unsorted", seed, step)
			}
			if done {
				if !reflect.DeepEqual(before, after) {
					t.Fatalf("seed=%d step=%d: %s terminated after mutating the shop", seed, step, s.LastAction())
				}
				break
			}

			switch s.LastAction() {
			case CombineFriends:
				if countTeam(after) != countTeam(before)-1 {
					t.Fatalf("seed=%d step=%d: combine should remove exactly one team member", seed, step)
				}
			case BuyCombineFriend:
				if countTeam(after) != countTeam(before) || countFriendOffers(after) != countFriendOffers(before)-1 {
					t.Fatalf("seed=%d step=%d: buy-combine should consume one offer and keep the team size", seed, step)
				}
				if after.Gold != before.Gold-BuyCost {
					t.Fatalf("seed=%d step=%d: buy-combine gold got=%d want=%d", seed, step, after.Gold, before.Gold-BuyCost)
				}
			case BuyFriend:
				if countTeam(after) != countTeam(before)+1 {
					t.Fatalf("seed=%d step=%d: buy should add one team member", seed, step)
				}
			case SellFriend:
				if countTeam(after) != countTeam(before)-1 {
					t.Fatalf("seed=%d step=%d: sell should remove one team member", seed, step)
				}
			}
		}
	}
}

func TestStepDeterministicPerSeed(t *testing.T) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	run := func(seed int64) ([]Action, View) {
		d := dice.NewSeeded(seed)
		s := NewShop(d, nil, quiet)
		var trace []Action
		for i := 0; i < 1000; i++ {
			done := s.Step(d)
			trace = append(trace, s.LastAction())
			if done {
				break
			}
		}
		return trace, s.View()
	}

	for _, seed := range []int64{1, 7, 99, 2024} {
		traceA, viewA := run(seed)
		traceB, viewB := run(seed)
		if !reflect.DeepEqual(traceA, traceB) || !reflect.DeepEqual(viewA, viewB) {
			t.Fatalf("seed=%d: runs diverged", seed)
		}
	}
}
