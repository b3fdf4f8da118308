package game

import "shopsim/internal/dice"

// onBuy runs the buyer's on-buy ability. exclude is the team slot the buyer
// occupies, or -1 when it has not been placed yet; that slot is never picked
// as a random target.
func (s *Shop) onBuy(buyer *Friend, exclude int, d dice.Dice) {
	switch buyer.Species {
	case Otter:
		for _, i := range s.Team.RandomFriends(d, 1, exclude) {
			g := s.Team.Get(i)
			g.Health++
			g.Attack++
			s.log.Debug("shop.on_buy", "species", buyer.Species.String(), "target", g.Species.String(), "slot", i, "health", 1, "attack", 1)
		}
	}
}

// onSell runs the on-sell ability of a friend already removed from the team.
func (s *Shop) onSell(seller Friend, d dice.Dice) {
	delta := seller.Level()
	switch seller.Species {
	case Beaver:
		for _, i := range s.Team.RandomFriends(d, 2, -1) {
			g := s.Team.Get(i)
			g.Health += delta
			s.log.Debug("shop.on_sell", "species", seller.Species.String(), "target", g.Species.String(), "slot", i, "health", delta)
		}
	case Duck:
		for _, g := range s.friends {
			if g == nil {
				continue
			}
			g.Health += delta
			s.log.Debug("shop.on_sell", "species", seller.Species.String(), "target", g.Species.String(), "health", delta)
		}
		s.sortOffers()
	case Pig:
		s.Gold += delta
		s.log.Debug("shop.on_sell", "species", seller.Species.String(), "gold", delta)
	}
}

// onSold lets the friend at slot i react to another team member being sold.
// No tier 1 species has such an ability.
func (s *Shop) onSold(i int) {
	s.log.Debug("shop.on_sold", "species", s.Team.Get(i).Species.String(), "slot", i)
}
