package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if got := len(c.Species()); got != 9 {
		t.Fatalf("species got=%d want=9", got)
	}
	st, ok := c.Stats(Pig)
	if !ok || st.Attack != 4 || st.Health != 1 {
		t.Fatalf("pig stats got=%+v ok=%v", st, ok)
	}
	f := c.NewFriend(Otter)
	if f.Attack != 1 || f.Health != 2 || f.Exp != 0 || f.Modifier != NoModifier {
		t.Fatalf("otter got=%+v", f)
	}
	if !c.IsBaseline(f) {
		t.Fatalf("fresh friend should be baseline")
	}
	f.Exp = 1
	if c.IsBaseline(f) {
		t.Fatalf("friend with exp should not be baseline")
	}
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "unknown species", raw: "species: [{name: dragon, attack: 1, health: 1}]\nfoods: [apple]", want: ErrUnknownSpecies},
		{name: "unknown food", raw: "species: [{name: ant, attack: 1, health: 1}]\nfoods: [cake]", want: ErrUnknownFood},
		{name: "no species", raw: "foods: [apple]"},
		{name: "no foods", raw: "species: [{name: ant, attack: 1, health: 1}]"},
		{name: "duplicate", raw: "species: [{name: ant, attack: 1, health: 1}, {name: ant, attack: 2, health: 2}]\nfoods: [apple]"},
		{name: "zero health", raw: "species: [{name: ant, attack: 1, health: 0}]\nfoods: [apple]"},
		{name: "bad yaml", raw: "species: ["},
	}
	for _, tc := range tests {
		_, err := ParseCatalog([]byte(tc.raw))
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Fatalf("%s: got=%v want=%v", tc.name, err, tc.want)
		}
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	raw := "species:\n  - name: pig\n    attack: 5\n    health: 5\nfoods:\n  - honey\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sp := c.Species(); len(sp) != 1 || sp[0] != Pig {
		t.Fatalf("species got=%v", sp)
	}
	if foods := c.Foods(); len(foods) != 1 || foods[0] != Honey {
		t.Fatalf("foods got=%v", foods)
	}
	if _, err := LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		exp  int
		want int
	}{
		{exp: 0, want: 1},
		{exp: 1, want: 1},
		{exp: 2, want: 2},
		{exp: 4, want: 2},
		{exp: 5, want: 3},
	}
	for _, tc := range tests {
		if got := (Friend{Exp: tc.exp}).Level(); got != tc.want {
			t.Fatalf("exp=%d got=%d want=%d", tc.exp, got, tc.want)
		}
	}
}

func TestCompareFriendSlotsEmptyFirst(t *testing.T) {
	a := &Friend{Species: Ant, Health: 1}
	b := &Friend{Species: Ant, Health: 2}
	if compareFriendSlots(nil, a) >= 0 || compareFriendSlots(a, nil) <= 0 {
		t.Fatalf("empty slots should sort first")
	}
	if compareFriendSlots(a, b) >= 0 {
		t.Fatalf("lower health should sort first within a species")
	}
	if compareFriendSlots(&Friend{Species: Pig}, b) <= 0 {
		t.Fatalf("species should dominate stats")
	}
}

func TestSpeciesText(t *testing.T) {
	raw, err := Otter.MarshalText()
	if err != nil || string(raw) != "otter" {
		t.Fatalf("marshal got=%q err=%v", raw, err)
	}
	var sp Species
	if err := sp.UnmarshalText([]byte(" Otter ")); err != nil || sp != Otter {
		t.Fatalf("unmarshal got=%v err=%v", sp, err)
	}
	if _, err := Species(0).MarshalText(); !errors.Is(err, ErrUnknownSpecies) {
		t.Fatalf("expected unknown species error, got %v", err)
	}
}
