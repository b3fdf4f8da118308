package game

import (
	"fmt"
	"log/slog"
	"slices"

	"shopsim/internal/dice"
)

// Shop is the state of one shop round: the player's team, gold and the
// current friend and food offers. A Shop is not safe for concurrent use.
type Shop struct {
	Team Team
	Gold int

	friends [ShopFriendCount]*Friend
	foods   [ShopFoodCount]Food

	catalog *Catalog
	log     *slog.Logger
	last    Action
}

// View is a detached copy of a shop's observable state.
type View struct {
	Gold    int                      `json:"gold"`
	Team    [TeamSize]*Friend        `json:"team"`
	Friends [ShopFriendCount]*Friend `json:"friends"`
	Foods   [ShopFoodCount]Food      `json:"foods"`
}

// NewShop starts a round with default gold and a free full reroll.
func NewShop(d dice.Dice, catalog *Catalog, logger *slog.Logger) *Shop {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Shop{
		Gold:    DefaultGold,
		catalog: catalog,
		log:     logger,
	}
	s.reroll(d)
	return s
}

func (s *Shop) Catalog() *Catalog {
	return s.catalog
}

// Friends returns a copy of the friend offers in canonical order.
func (s *Shop) Friends() [ShopFriendCount]*Friend {
	var out [ShopFriendCount]*Friend
	for i, f := range s.friends {
		if f != nil {
			g := *f
			out[i] = &g
		}
	}
	return out
}

func (s *Shop) Foods() [ShopFoodCount]Food {
	return s.foods
}

// LastAction is the action sampled by the most recent Step.
func (s *Shop) LastAction() Action {
	return s.last
}

func (s *Shop) View() View {
	team := s.Team.clone()
	return View{
		Gold:    s.Gold,
		Team:    team.slots,
		Friends: s.Friends(),
		Foods:   s.foods,
	}
}

// reroll replaces every offer slot and restores canonical order.
func (s *Shop) reroll(d dice.Dice) {
	for i := range s.friends {
		f := s.catalog.NewFriend(s.catalog.SampleSpecies(d))
		s.friends[i] = &f
	}
	for i := range s.foods {
		s.foods[i] = s.catalog.SampleFood(d)
	}
	s.sortOffers()
}

func (s *Shop) sortOffers() {
	slices.SortFunc(s.friends[:], compareFriendSlots)
	slices.Sort(s.foods[:])
}

// worthRerolling is true when an offer slot is empty or an offered friend has
// drifted from its catalog baseline. A full shop of baseline friends could
// just as well be any other full shop, so rerolling it gains nothing.
func (s *Shop) worthRerolling() bool {
	for _, f := range s.foods {
		if f == NoFood {
			return true
		}
	}
	for _, f := range s.friends {
		if f == nil || !s.catalog.IsBaseline(*f) {
			return true
		}
	}
	return false
}

func (s *Shop) randomFriendOffer(d dice.Dice) (int, bool) {
	return dice.PickOne(d, s.friends[:])
}

func (s *Shop) randomFoodOffer(d dice.Dice) (int, bool) {
	return dice.PickOne(d, s.foods[:])
}

func (s *Shop) spend(amount int) {
	if s.Gold < amount {
		panic(fmt.Sprintf("game: spend %d with only %d gold", amount, s.Gold))
	}
	s.Gold -= amount
}

func (s *Shop) takeFriendOffer(i int) Friend {
	f := s.friends[i]
	if f == nil {
		panic(fmt.Sprintf("game: take from empty friend offer %d", i))
	}
	s.friends[i] = nil
	slices.SortFunc(s.friends[:], compareFriendSlots)
	return *f
}

// buyFriend buys offer shopPos into the empty team slot teamPos.
func (s *Shop) buyFriend(shopPos, teamPos int, d dice.Dice) {
	if s.Team.Get(teamPos) != nil {
		panic(fmt.Sprintf("game: buy into occupied team slot %d", teamPos))
	}
	s.spend(BuyCost)
	friend := s.takeFriendOffer(shopPos)

	s.log.Debug("shop.buy", "species", friend.Species.String(), "slot", teamPos, "gold", s.Gold)
	s.onBuy(&friend, -1, d)
	s.Team.Summon(friend, teamPos)
}

// buyFood buys food offer shopPos and feeds it to team slot teamPos.
func (s *Shop) buyFood(shopPos, teamPos int) {
	if s.foods[shopPos] == NoFood {
		panic(fmt.Sprintf("game: buy from empty food offer %d", shopPos))
	}
	friend := s.Team.Get(teamPos)
	if friend == nil {
		panic(fmt.Sprintf("game: feed empty team slot %d", teamPos))
	}

	s.spend(BuyCost)
	food := s.foods[shopPos]
	s.foods[shopPos] = NoFood
	slices.Sort(s.foods[:])

	s.log.Debug("shop.feed", "food", food.String(), "species", friend.Species.String(), "slot", teamPos, "gold", s.Gold)
	switch food {
	case Apple:
		friend.Attack++
		friend.Health++
	case Honey:
		friend.Modifier = HoneyModifier
	default:
		panic(fmt.Sprintf("game: no effect for food %s", food))
	}
}

// sellFriend sells the friend at teamPos, then lets every other team member
// react to the sale in slot order.
func (s *Shop) sellFriend(teamPos int, d dice.Dice) {
	friend := s.Team.Take(teamPos)
	if friend == nil {
		panic(fmt.Sprintf("game: sell empty team slot %d", teamPos))
	}
	s.Gold += friend.Level()
	s.log.Debug("shop.sell", "species", friend.Species.String(), "slot", teamPos, "gold", s.Gold)

	s.onSell(*friend, d)
	for i := 0; i < TeamSize; i++ {
		if i != teamPos && s.Team.Get(i) != nil {
			s.onSold(i)
		}
	}
}

// combine merges g into the friend at teamPos.
func (s *Shop) combine(teamPos int, g Friend) {
	f := s.Team.Get(teamPos)
	if f == nil {
		panic(fmt.Sprintf("game: combine into empty team slot %d", teamPos))
	}
	if f.Species != g.Species {
		panic(fmt.Sprintf("game: combine %s into %s at slot %d", g.Species, f.Species, teamPos))
	}
	f.Health = max(f.Health, g.Health) + 1
	f.Attack = max(f.Attack, g.Attack) + 1
	f.Exp++
	// TODO: grant the level-up stat bonus when Exp crosses a Level threshold.
	s.log.Debug("shop.combine", "species", f.Species.String(), "slot", teamPos, "exp", f.Exp)
}

// mergeTeam removes the friend at src and combines it into dst.
func (s *Shop) mergeTeam(src, dst int) {
	if src == dst {
		panic(fmt.Sprintf("game: combine team slot %d with itself", src))
	}
	friend := s.Team.Take(src)
	if friend == nil {
		panic(fmt.Sprintf("game: combine from empty team slot %d", src))
	}
	s.combine(dst, *friend)
}
