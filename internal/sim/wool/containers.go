package wool

import (
	"sort"

	"monument.ai/internal/sim/world"
)

type snapshot struct {
	slots     []int // ascending
	templates map[int]world.ItemStack
}

// RegisterContainer classifies c on first sight: if it holds wool of any goal color it
// becomes an objective container and the layout of its objective wool is recorded. Later
// calls for the same container do nothing.
func (m *Module) RegisterContainer(c *world.Container) {
	if c == nil {
		return
	}
	if _, seen := m.chests[c]; seen {
		return
	}
	holds := m.goals.ContainsObjectiveWool(c.Inventory)
	m.chests[c] = holds
	if !holds {
		return
	}

	snap := &snapshot{templates: map[int]world.ItemStack{}}
	for slot := 0; slot < c.Size(); slot++ {
		s := c.Item(slot)
		if s.IsEmpty() || !m.goals.IsObjectiveWool(s) {
			continue
		}
		snap.templates[slot] = s
		snap.slots = append(snap.slots, slot)
	}
	sort.Ints(snap.slots)
	m.woolChests[c] = snap
	m.order = append(m.order, c)
}

// ForbidContainer marks a freshly placed container as never holding objective wool, so
// players cannot build their own refilling wool chests.
func (m *Module) ForbidContainer(c *world.Container) {
	if c == nil {
		return
	}
	m.chests[c] = false
}

// OnContainerOpen registers a container opened by a player.
func (m *Module) OnContainerOpen(c *world.Container) { m.RegisterContainer(c) }

// OnItemTransfer registers both ends of an automated item move (hopper, dispenser).
func (m *Module) OnItemTransfer(src, dst *world.Container) {
	m.RegisterContainer(src)
	m.RegisterContainer(dst)
}

// Classification reports whether c was classified and, if so, whether it is an objective
// container.
func (m *Module) Classification(c *world.Container) (objective, known bool) {
	objective, known = m.chests[c]
	return objective, known
}

// Snapshot returns a copy of the recorded wool layout of c (nil for non-objective containers).
func (m *Module) Snapshot(c *world.Container) map[int]world.ItemStack {
	snap := m.woolChests[c]
	if snap == nil {
		return nil
	}
	out := make(map[int]world.ItemStack, len(snap.templates))
	for slot, s := range snap.templates {
		out[slot] = s
	}
	return out
}

// Counts returns the number of classified containers and how many of them hold objectives.
func (m *Module) Counts() (classified, objective int) {
	return len(m.chests), len(m.woolChests)
}
