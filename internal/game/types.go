package game

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
)

const (
	TeamSize        = 5
	ShopFriendCount = 3
	ShopFoodCount   = 1

	DefaultGold = 10
	BuyCost     = 3
	RerollCost  = 1
)

var (
	ErrUnknownSpecies  = errors.New("unknown species")
	ErrUnknownFood     = errors.New("unknown food")
	ErrUnknownModifier = errors.New("unknown modifier")
)

type Species uint8

const (
	Ant Species = iota + 1
	Beaver
	Cricket
	Duck
	Fish
	Horse
	Mosquito
	Otter
	Pig
)

var speciesNames = map[Species]string{
	Ant:      "ant",
	Beaver:   "beaver",
	Cricket:  "cricket",
	Duck:     "duck",
	Fish:     "fish",
	Horse:    "horse",
	Mosquito: "mosquito",
	Otter:    "otter",
	Pig:      "pig",
}

func (s Species) String() string {
	if name, ok := speciesNames[s]; ok {
		return name
	}
	return fmt.Sprintf("species(%d)", uint8(s))
}

func ParseSpecies(name string) (Species, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for sp, n := range speciesNames {
		if n == name {
			return sp, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSpecies, name)
}

func (s Species) MarshalText() ([]byte, error) {
	if _, ok := speciesNames[s]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSpecies, uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Species) UnmarshalText(raw []byte) error {
	sp, err := ParseSpecies(string(raw))
	if err != nil {
		return err
	}
	*s = sp
	return nil
}

// Food is a shop food offer. NoFood marks an empty offer slot.
type Food uint8

const (
	NoFood Food = iota
	Apple
	Honey
)

func (f Food) String() string {
	switch f {
	case NoFood:
		return "none"
	case Apple:
		return "apple"
	case Honey:
		return "honey"
	}
	return fmt.Sprintf("food(%d)", uint8(f))
}

func ParseFood(name string) (Food, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "apple":
		return Apple, nil
	case "honey":
		return Honey, nil
	case "none", "":
		return NoFood, nil
	}
	return NoFood, fmt.Errorf("%w: %q", ErrUnknownFood, name)
}

func (f Food) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Food) UnmarshalText(raw []byte) error {
	food, err := ParseFood(string(raw))
	if err != nil {
		return err
	}
	*f = food
	return nil
}

// Modifier is a lasting buff held by a friend, usually granted by food.
type Modifier uint8

const (
	NoModifier Modifier = iota
	HoneyModifier
)

func (m Modifier) String() string {
	switch m {
	case NoModifier:
		return "none"
	case HoneyModifier:
		return "honey"
	}
	return fmt.Sprintf("modifier(%d)", uint8(m))
}

func (m Modifier) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Modifier) UnmarshalText(raw []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(raw))) {
	case "none", "":
		*m = NoModifier
	case "honey":
		*m = HoneyModifier
	default:
		return fmt.Errorf("%w: %q", ErrUnknownModifier, string(raw))
	}
	return nil
}

type Friend struct {
	Species  Species  `json:"species"`
	Health   int      `json:"health"`
	Attack   int      `json:"attack"`
	Exp      int      `json:"exp"`
	Modifier Modifier `json:"modifier"`
}

// Level is 1 until two combines, 2 until five, then 3.
func (f Friend) Level() int {
	switch {
	case f.Exp < 2:
		return 1
	case f.Exp < 5:
		return 2
	default:
		return 3
	}
}

// compareFriendSlots is the canonical offer order: empty slots first, then
// species, health, attack, exp and modifier.
func compareFriendSlots(a, b *Friend) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Or(
		cmp.Compare(a.Species, b.Species),
		cmp.Compare(a.Health, b.Health),
		cmp.Compare(a.Attack, b.Attack),
		cmp.Compare(a.Exp, b.Exp),
		cmp.Compare(a.Modifier, b.Modifier),
	)
}
