package game

import (
	"fmt"
	"strings"

	"shopsim/internal/dice"
)

type Action uint8

const (
	BuyFriend Action = iota
	BuyCombineFriend
	SellFriend
	BuyFood
	CombineFriends
	Reroll

	actionCount
)

var actionNames = [actionCount]string{
	BuyFriend:        "buy_friend",
	BuyCombineFriend: "buy_combine_friend",
	SellFriend:       "sell_friend",
	BuyFood:          "buy_food",
	CombineFriends:   "combine_friends",
	Reroll:           "reroll",
}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

func (a Action) MarshalText() ([]byte, error) {
	if a >= actionCount {
		return nil, fmt.Errorf("invalid action %d", uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(raw []byte) error {
	name := strings.TrimSpace(string(raw))
	for i, n := range actionNames {
		if n == name {
			*a = Action(i)
			return nil
		}
	}
	return fmt.Errorf("invalid action %q", name)
}

// SampleAction is the shop policy: every action is equally likely.
func SampleAction(d dice.Dice) Action {
	return Action(d.Roll(int(actionCount)))
}

// Step samples one action and applies it. It reports true when the action
// could not be applied and the round should end.
func (s *Shop) Step(d dice.Dice) bool {
	a := SampleAction(d)
	s.last = a
	return s.Do(a, d)
}

// Do applies action a. Every precondition is checked before the shop is
// touched, so a true result means nothing changed.
func (s *Shop) Do(a Action, d dice.Dice) bool {
	switch a {
	case BuyFriend:
		return s.doBuyFriend(d)
	case BuyCombineFriend:
		return s.doBuyCombineFriend(d)
	case SellFriend:
		return s.doSellFriend(d)
	case BuyFood:
		return s.doBuyFood(d)
	case CombineFriends:
		return s.doCombineFriends(d)
	case Reroll:
		return s.doReroll(d)
	}
	panic(fmt.Sprintf("game: invalid action %d", uint8(a)))
}

func (s *Shop) doBuyFriend(d dice.Dice) bool {
	if s.Gold < BuyCost {
		s.log.Debug("shop.exit", "reason", "not enough gold to buy a friend")
		return true
	}
	i, ok := s.randomFriendOffer(d)
	if !ok {
		s.log.Debug("shop.exit", "reason", "no friends in the shop")
		return true
	}
	j := d.Roll(TeamSize)
	if !s.Team.MakeSpaceAt(j) {
		s.log.Debug("shop.exit", "reason", "no team space", "species", s.friends[i].Species.String())
		return true
	}
	s.buyFriend(i, j, d)
	return false
}

func (s *Shop) doBuyFood(d dice.Dice) bool {
	if s.Gold < BuyCost {
		s.log.Debug("shop.exit", "reason", "not enough gold to buy food")
		return true
	}
	i, ok := s.randomFoodOffer(d)
	if !ok {
		s.log.Debug("shop.exit", "reason", "no food in the shop")
		return true
	}
	j, ok := s.Team.RandomFriend(d)
	if !ok {
		s.log.Debug("shop.exit", "reason", "no friends to feed")
		return true
	}
	s.buyFood(i, j)
	return false
}

func (s *Shop) doSellFriend(d dice.Dice) bool {
	j, ok := s.Team.RandomFriend(d)
	if !ok {
		s.log.Debug("shop.exit", "reason", "no friends to sell")
		return true
	}
	s.sellFriend(j, d)
	return false
}

func (s *Shop) doReroll(d dice.Dice) bool {
	if s.Gold < RerollCost {
		s.log.Debug("shop.exit", "reason", "no gold to reroll")
		return true
	}
	if !s.worthRerolling() {
		s.log.Debug("shop.exit", "reason", "reroll would not change the shop")
		return true
	}
	s.reroll(d)
	s.spend(RerollCost)
	s.log.Debug("shop.reroll", "gold", s.Gold)
	return false
}

func (s *Shop) doCombineFriends(d dice.Dice) bool {
	var hasTargets [TeamSize]bool
	var targets [TeamSize][TeamSize]bool
	for i := 0; i < TeamSize; i++ {
		for j := i + 1; j < TeamSize; j++ {
			a, b := s.Team.Get(i), s.Team.Get(j)
			if a != nil && b != nil && a.Species == b.Species {
				targets[i][j] = true
				targets[j][i] = true
				hasTargets[i] = true
				hasTargets[j] = true
			}
		}
	}
	src, ok := pickMarked(d, hasTargets[:])
	if !ok {
		s.log.Debug("shop.exit", "reason", "no friends to combine")
		return true
	}
	dst, ok := pickMarked(d, targets[src][:])
	if !ok {
		panic(fmt.Sprintf("game: team slot %d marked without a partner", src))
	}
	s.log.Debug("shop.merge", "species", s.Team.Get(src).Species.String(), "from", src, "into", dst)
	s.mergeTeam(src, dst)
	return false
}

func (s *Shop) doBuyCombineFriend(d dice.Dice) bool {
	if s.Gold < BuyCost {
		s.log.Debug("shop.exit", "reason", "not enough gold to buy and combine a friend")
		return true
	}
	var hasTargets [ShopFriendCount]bool
	var targets [ShopFriendCount][TeamSize]bool
	for i, a := range s.friends {
		for j := 0; j < TeamSize; j++ {
			b := s.Team.Get(j)
			if a != nil && b != nil && a.Species == b.Species {
				targets[i][j] = true
				hasTargets[i] = true
			}
		}
	}
	src, ok := pickMarked(d, hasTargets[:])
	if !ok {
		s.log.Debug("shop.exit", "reason", "no shop friends to combine")
		return true
	}
	dst, ok := pickMarked(d, targets[src][:])
	if !ok {
		panic(fmt.Sprintf("game: shop offer %d marked without a partner", src))
	}

	s.spend(BuyCost)
	friend := s.takeFriendOffer(src)
	s.log.Debug("shop.buy_combine", "species", friend.Species.String(), "slot", dst, "gold", s.Gold)
	s.combine(dst, friend)

	// On-buy fires after the merge so it sees the merged friend. The merged
	// slot stays occupied; it is excluded from the ability's random targets
	// instead of being detached from the team.
	s.onBuy(s.Team.Get(dst), dst, d)
	return false
}

// pickMarked returns a uniformly random index among the true entries of mask.
// It does not roll when mask has no true entry.
func pickMarked(d dice.Dice, mask []bool) (int, bool) {
	return dice.PickOne(d, mask)
}
