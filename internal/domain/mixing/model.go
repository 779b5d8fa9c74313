package mixing

import "errors"

const (
	StartingEssence    = 10
	MixCost            = 1
	NewDiscoveryReward = 3
	DuplicateReward    = 1
)

var (
	ErrSelectionIncomplete = errors.New("head and body must be selected")
	ErrNotEnoughEssence    = errors.New("not enough essence")
)

type MixOutcome string

const (
	OutcomeNewDiscovery MixOutcome = "new_discovery"
	OutcomeDuplicate    MixOutcome = "duplicate"
)

type MixResult struct {
	Outcome  MixOutcome
	Creature Creature
}

// Progress is the persisted part of a Model. Selections are transient.
type Progress struct {
	Essence          int      `json:"essence"`
	DiscoveredIDs    []string `json:"discovered_ids"`
	OwnedCreatureIDs []string `json:"owned_creature_ids"`
}

type Model struct {
	essence    int
	discovered map[string]struct{}
	owned      []string
	head       *Creature
	body       *Creature
}

// NewModel starts with the four base creatures discovered and owned.
func NewModel() *Model {
	m := &Model{}
	m.Reset()
	return m
}

// Restore rebuilds a model from saved progress, dropping unknown creature ids.
func Restore(p Progress) *Model {
	m := &Model{essence: p.Essence, discovered: map[string]struct{}{}}
	for _, id := range p.DiscoveredIDs {
		if _, ok := Lookup(id); ok {
			m.discovered[id] = struct{}{}
		}
	}
	for _, id := range p.OwnedCreatureIDs {
		if _, ok := Lookup(id); ok && !m.owns(id) {
			m.owned = append(m.owned, id)
		}
	}
	return m
}

func (m *Model) Reset() {
	m.essence = StartingEssence
	m.discovered = map[string]struct{}{}
	m.owned = nil
	m.head = nil
	m.body = nil
	for _, id := range BaseCreatureIDs() {
		m.discovered[id] = struct{}{}
		m.owned = append(m.owned, id)
	}
}

func (m *Model) Progress() Progress {
	return Progress{
		Essence:          m.essence,
		DiscoveredIDs:    m.DiscoveredIDs(),
		OwnedCreatureIDs: m.OwnedCreatureIDs(),
	}
}

func (m *Model) Essence() int         { return m.essence }
func (m *Model) DiscoveredCount() int { return len(m.discovered) }

func (m *Model) CollectionProgress() float64 {
	return float64(len(m.discovered)) / float64(TotalCreatures)
}

// DiscoveredIDs is sorted so state snapshots are stable.
func (m *Model) DiscoveredIDs() []string {
	return sortedIDs(m.discovered)
}

// OwnedCreatureIDs keeps acquisition order.
func (m *Model) OwnedCreatureIDs() []string {
	out := make([]string, len(m.owned))
	copy(out, m.owned)
	return out
}

func (m *Model) OwnedCreatures() []Creature {
	out := make([]Creature, 0, len(m.owned))
	for _, id := range m.owned {
		if c, ok := Lookup(id); ok {
			out = append(out, c)
		}
	}
	return out
}

func (m *Model) IsDiscovered(id string) bool {
	_, ok := m.discovered[id]
	return ok
}

func (m *Model) Head() (Creature, bool) { return selection(m.head) }
func (m *Model) Body() (Creature, bool) { return selection(m.body) }

func selection(c *Creature) (Creature, bool) {
	if c == nil {
		return Creature{}, false
	}
	return *c, true
}

func (m *Model) SelectHead(c Creature) { m.head = &c }
func (m *Model) SelectBody(c Creature) { m.body = &c }

// Select fills the head slot first, then the body slot. Selecting with both
// slots full starts over with c as the new head.
func (m *Model) Select(c Creature) {
	switch {
	case m.head == nil:
		m.SelectHead(c)
	case m.body == nil:
		m.SelectBody(c)
	default:
		m.ClearSelection()
		m.SelectHead(c)
	}
}

func (m *Model) ClearSelection() {
	m.head = nil
	m.body = nil
}

func (m *Model) CanMix() bool {
	return m.head != nil && m.body != nil && m.essence >= MixCost
}

// Mix spends essence on the selected pair and clears the selection. A new
// discovery joins the collection and pays more than a duplicate.
func (m *Model) Mix() (MixResult, error) {
	if m.head == nil || m.body == nil {
		return MixResult{}, ErrSelectionIncomplete
	}
	if m.essence < MixCost {
		return MixResult{}, ErrNotEnoughEssence
	}
	m.essence -= MixCost

	bred := Combine(*m.head, *m.body)
	m.ClearSelection()
	if m.IsDiscovered(bred.ID) {
		m.essence += DuplicateReward
		return MixResult{Outcome: OutcomeDuplicate, Creature: bred}, nil
	}
	m.discovered[bred.ID] = struct{}{}
	if !m.owns(bred.ID) {
		m.owned = append(m.owned, bred.ID)
	}
	m.essence += NewDiscoveryReward
	return MixResult{Outcome: OutcomeNewDiscovery, Creature: bred}, nil
}

func (m *Model) owns(id string) bool {
	for _, owned := range m.owned {
		if owned == id {
			return true
		}
	}
	return false
}
