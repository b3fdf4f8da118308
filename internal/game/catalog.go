package game

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"shopsim/internal/dice"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Stats are the baseline stats a species is offered with.
type Stats struct {
	Attack int `json:"attack"`
	Health int `json:"health"`
}

// Catalog is the static data the shop samples offers from.
type Catalog struct {
	species []Species
	stats   map[Species]Stats
	foods   []Food
}

type catalogFile struct {
	Species []struct {
		Name   string `yaml:"name"`
		Attack int    `yaml:"attack"`
		Health int    `yaml:"health"`
	} `yaml:"species"`
	Foods []string `yaml:"foods"`
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("game: embedded catalog: %v", err))
	}
	return c
})

// DefaultCatalog returns the embedded tier 1 catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

func LoadCatalogFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Species) == 0 {
		return nil, fmt.Errorf("catalog has no species")
	}
	if len(file.Foods) == 0 {
		return nil, fmt.Errorf("catalog has no foods")
	}

	c := &Catalog{stats: make(map[Species]Stats, len(file.Species))}
	for _, row := range file.Species {
		sp, err := ParseSpecies(row.Name)
		if err != nil {
			return nil, err
		}
		if _, dup := c.stats[sp]; dup {
			return nil, fmt.Errorf("duplicate species %s", sp)
		}
		if row.Attack < 0 || row.Health <= 0 {
			return nil, fmt.Errorf("species %s: invalid stats %d/%d", sp, row.Attack, row.Health)
		}
		c.species = append(c.species, sp)
		c.stats[sp] = Stats{Attack: row.Attack, Health: row.Health}
	}
	seen := make(map[Food]bool, len(file.Foods))
	for _, name := range file.Foods {
		food, err := ParseFood(name)
		if err != nil {
			return nil, err
		}
		if food == NoFood {
			return nil, fmt.Errorf("%w: empty food entry", ErrUnknownFood)
		}
		if seen[food] {
			return nil, fmt.Errorf("duplicate food %s", food)
		}
		seen[food] = true
		c.foods = append(c.foods, food)
	}
	return c, nil
}

// Species lists the catalog's species in sampling order.
func (c *Catalog) Species() []Species {
	return append([]Species(nil), c.species...)
}

func (c *Catalog) Foods() []Food {
	return append([]Food(nil), c.foods...)
}

func (c *Catalog) Stats(sp Species) (Stats, bool) {
	st, ok := c.stats[sp]
	return st, ok
}

// NewFriend returns a fresh friend of the given species with baseline stats.
func (c *Catalog) NewFriend(sp Species) Friend {
	st, ok := c.stats[sp]
	if !ok {
		panic(fmt.Sprintf("game: species %s not in catalog", sp))
	}
	return Friend{Species: sp, Health: st.Health, Attack: st.Attack}
}

func (c *Catalog) SampleSpecies(d dice.Dice) Species {
	return c.species[d.Roll(len(c.species))]
}

func (c *Catalog) SampleFood(d dice.Dice) Food {
	return c.foods[d.Roll(len(c.foods))]
}

// IsBaseline reports whether f is exactly as the shop would first offer it.
func (c *Catalog) IsBaseline(f Friend) bool {
	st, ok := c.stats[f.Species]
	if !ok {
		return false
	}
	return f.Attack == st.Attack && f.Health == st.Health && f.Exp == 0 && f.Modifier == NoModifier
}

// CatalogFromPath loads the catalog at path, or the embedded one when path is
// blank.
func CatalogFromPath(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog(), nil
	}
	return LoadCatalogFile(path)
}
