package wool

// Refill adds at most one wool to each objective container, restoring the first snapshot slot
// that is empty or short of its recorded amount. It returns the number of units added.
func (m *Module) Refill() int {
	if !m.opts.AutoRefill {
		return 0
	}
	added := 0
	for _, c := range m.order {
		// Broken containers stay registered but are no longer refilled.
		if m.world != nil && m.world.ContainerAt(c.Pos) != c {
			continue
		}
		snap := m.woolChests[c]
		for _, slot := range snap.slots {
			tmpl := snap.templates[slot]
			cur := c.Item(slot)

			if cur.IsEmpty() {
				c.SetItem(slot, tmpl.WithCount(1))
				added++
				break
			}
			if cur.Similar(tmpl) && cur.Count < tmpl.Count {
				c.SetItem(slot, cur.WithCount(cur.Count+1))
				added++
				break
			}
		}
	}
	return added
}
