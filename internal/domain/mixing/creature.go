// Package mixing holds the rules of the creature-mixing demo game: four
// elements, sixteen head/body creatures and an essence economy.
package mixing

import "sort"

type Element string

const (
	Fire  Element = "fire"
	Water Element = "water"
	Earth Element = "earth"
	Air   Element = "air"
)

var Elements = []Element{Fire, Water, Earth, Air}

type Creature struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Head        Element `json:"head_element"`
	Body        Element `json:"body_element"`
	Description string  `json:"description"`
}

func (c Creature) IsBase() bool {
	return c.Head == c.Body
}

func CreatureID(head, body Element) string {
	return string(head) + "_" + string(body)
}

var creatures = []Creature{
	{Name: "Ember", Head: Fire, Body: Fire, Description: "A small flame fox that radiates warmth."},
	{Name: "Splash", Head: Water, Body: Water, Description: "A playful water otter that leaves puddles behind."},
	{Name: "Pebble", Head: Earth, Body: Earth, Description: "A sturdy rocky armadillo with moss between its plates."},
	{Name: "Breeze", Head: Air, Body: Air, Description: "A cloud-wisp bird that drifts on invisible currents."},
	{Name: "Embash", Head: Fire, Body: Water, Description: "Steam rises from this fox-otter hybrid."},
	{Name: "Emberock", Head: Fire, Body: Earth, Description: "A volcanic fox-armadillo with magma veins."},
	{Name: "Embreeze", Head: Fire, Body: Air, Description: "A fiery fox head soaring on feathered air wings."},
	{Name: "Splember", Head: Water, Body: Fire, Description: "An otter with a steaming flame body."},
	{Name: "Spleeble", Head: Water, Body: Earth, Description: "A muddy otter-armadillo that thrives in marshes."},
	{Name: "Splabreeze", Head: Water, Body: Air, Description: "An otter head riding a cloud body."},
	{Name: "Pebbember", Head: Earth, Body: Fire, Description: "A stone head on a blazing flame body."},
	{Name: "Pebblash", Head: Earth, Body: Water, Description: "A mossy rock head atop a flowing water body."},
	{Name: "Pebbeze", Head: Earth, Body: Air, Description: "A floating boulder head carried by air currents."},
	{Name: "Breember", Head: Air, Body: Fire, Description: "A cloud-faced bird with a blazing fire tail."},
	{Name: "Breeplash", Head: Air, Body: Water, Description: "A misty bird-otter that leaves fog behind."},
	{Name: "Breeble", Head: Air, Body: Earth, Description: "A floating wisp head on a sturdy rock body."},
}

var catalog = func() map[string]Creature {
	out := make(map[string]Creature, len(creatures))
	for _, c := range creatures {
		c.ID = CreatureID(c.Head, c.Body)
		out[c.ID] = c
	}
	return out
}()

// TotalCreatures is the size of the full collection.
var TotalCreatures = len(creatures)

func Lookup(id string) (Creature, bool) {
	c, ok := catalog[id]
	return c, ok
}

// Combine returns the creature bred from the head of one parent and the body of the other.
func Combine(head, body Creature) Creature {
	return catalog[CreatureID(head.Head, body.Body)]
}

func BaseCreatureIDs() []string {
	out := make([]string, 0, len(Elements))
	for _, e := range Elements {
		out = append(out, CreatureID(e, e))
	}
	return out
}

func sortedIDs(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
