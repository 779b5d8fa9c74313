package mixing

import (
	"errors"
	"reflect"
	"testing"
)

func mustLookup(t *testing.T, id string) Creature {
	t.Helper()
	c, ok := Lookup(id)
	if !ok {
		t.Fatalf("creature %q not in catalog", id)
	}
	return c
}

func TestCatalog_HasEveryCombination(t *testing.T) {
	if TotalCreatures != 16 {
		t.Fatalf("expected 16 creatures, got %d", TotalCreatures)
	}
	for _, head := range Elements {
		for _, body := range Elements {
			c := mustLookup(t, CreatureID(head, body))
			if c.Head != head || c.Body != body {
				t.Fatalf("creature %s has elements %s/%s", c.ID, c.Head, c.Body)
			}
			if c.IsBase() != (head == body) {
				t.Fatalf("IsBase mismatch for %s", c.ID)
			}
		}
	}
}

func TestNewModel_StartsWithBaseCreatures(t *testing.T) {
	m := NewModel()
	if m.Essence() != StartingEssence {
		t.Fatalf("essence mismatch: got=%d want=%d", m.Essence(), StartingEssence)
	}
	if got, want := m.OwnedCreatureIDs(), BaseCreatureIDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("owned mismatch: got=%v want=%v", got, want)
	}
	if got, want := m.DiscoveredIDs(), []string{"air_air", "earth_earth", "fire_fire", "water_water"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("discovered mismatch: got=%v want=%v", got, want)
	}
	if m.CanMix() {
		t.Fatalf("fresh model must not be able to mix")
	}
}

func TestSelect_FillsHeadThenBodyThenRestarts(t *testing.T) {
	m := NewModel()
	fire := mustLookup(t, "fire_fire")
	water := mustLookup(t, "water_water")
	earth := mustLookup(t, "earth_earth")

	m.Select(fire)
	m.Select(water)
	head, _ := m.Head()
	body, _ := m.Body()
	if head.ID != "fire_fire" || body.ID != "water_water" {
		t.Fatalf("unexpected selection head=%s body=%s", head.ID, body.ID)
	}

	m.Select(earth)
	head, _ = m.Head()
	if head.ID != "earth_earth" {
		t.Fatalf("expected restart with earth head, got %s", head.ID)
	}
	if _, ok := m.Body(); ok {
		t.Fatalf("expected body cleared on restart")
	}
}

func TestMix_NewDiscoveryThenDuplicate(t *testing.T) {
	m := NewModel()
	fire := mustLookup(t, "fire_fire")
	water := mustLookup(t, "water_water")

	m.Select(fire)
	m.Select(water)
	res, err := m.Mix()
	if err != nil {
		t.Fatalf("Mix error: %v", err)
	}
	if res.Outcome != OutcomeNewDiscovery || res.Creature.ID != "fire_water" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got, want := m.Essence(), StartingEssence-MixCost+NewDiscoveryReward; got != want {
		t.Fatalf("essence mismatch: got=%d want=%d", got, want)
	}
	if m.DiscoveredCount() != 5 || len(m.OwnedCreatureIDs()) != 5 {
		t.Fatalf("expected 5 discovered/owned, got %d/%d", m.DiscoveredCount(), len(m.OwnedCreatureIDs()))
	}
	if _, ok := m.Head(); ok {
		t.Fatalf("selection must clear after mix")
	}

	m.Select(fire)
	m.Select(water)
	res, err = m.Mix()
	if err != nil {
		t.Fatalf("second Mix error: %v", err)
	}
	if res.Outcome != OutcomeDuplicate {
		t.Fatalf("expected duplicate, got %s", res.Outcome)
	}
	if got, want := m.Essence(), StartingEssence-2*MixCost+NewDiscoveryReward+DuplicateReward; got != want {
		t.Fatalf("essence mismatch after duplicate: got=%d want=%d", got, want)
	}
}

func TestMix_RequiresSelectionAndEssence(t *testing.T) {
	m := NewModel()
	if _, err := m.Mix(); !errors.Is(err, ErrSelectionIncomplete) {
		t.Fatalf("expected ErrSelectionIncomplete, got %v", err)
	}

	broke := Restore(Progress{Essence: 0, DiscoveredIDs: BaseCreatureIDs(), OwnedCreatureIDs: BaseCreatureIDs()})
	broke.Select(mustLookup(t, "air_air"))
	broke.Select(mustLookup(t, "earth_earth"))
	if broke.CanMix() {
		t.Fatalf("CanMix must be false without essence")
	}
	if _, err := broke.Mix(); !errors.Is(err, ErrNotEnoughEssence) {
		t.Fatalf("expected ErrNotEnoughEssence, got %v", err)
	}
}

func TestRestore_DropsUnknownIDs(t *testing.T) {
	m := Restore(Progress{
		Essence:          4,
		DiscoveredIDs:    []string{"fire_fire", "bogus"},
		OwnedCreatureIDs: []string{"fire_fire", "fire_fire", "bogus"},
	})
	if got, want := m.DiscoveredIDs(), []string{"fire_fire"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("discovered mismatch: got=%v want=%v", got, want)
	}
	if got, want := m.OwnedCreatureIDs(), []string{"fire_fire"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("owned mismatch: got=%v want=%v", got, want)
	}
}
