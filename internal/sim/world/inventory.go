package world

const MaxStackSize = 64

// Inventory is a fixed-size array of item slots.
type Inventory struct {
	slots []ItemStack
}

func NewInventory(size int) *Inventory {
	if size < 0 {
		size = 0
	}
	return &Inventory{slots: make([]ItemStack, size)}
}

func (inv *Inventory) Size() int { return len(inv.slots) }

// Item returns the stack at slot; out-of-range slots read as empty.
func (inv *Inventory) Item(slot int) ItemStack {
	if slot < 0 || slot >= len(inv.slots) {
		return ItemStack{}
	}
	return inv.slots[slot]
}

func (inv *Inventory) SetItem(slot int, s ItemStack) bool {
	if slot < 0 || slot >= len(inv.slots) {
		return false
	}
	if s.IsEmpty() {
		s = ItemStack{}
	}
	inv.slots[slot] = s
	return true
}

// Slots returns a copy of the slot contents.
func (inv *Inventory) Slots() []ItemStack {
	out := make([]ItemStack, len(inv.slots))
	copy(out, inv.slots)
	return out
}

// Any reports whether some non-empty slot satisfies fn.
func (inv *Inventory) Any(fn func(ItemStack) bool) bool {
	for _, s := range inv.slots {
		if !s.IsEmpty() && fn(s) {
			return true
		}
	}
	return false
}

func (inv *Inventory) Count(like ItemStack) int {
	n := 0
	for _, s := range inv.slots {
		if !s.IsEmpty() && s.Similar(like) {
			n += s.Count
		}
	}
	return n
}

// Add merges s into existing similar stacks first, then empty slots. It returns the amount
// that did not fit.
func (inv *Inventory) Add(s ItemStack) int {
	left := s.Count
	if s.IsEmpty() {
		return 0
	}
	for i := range inv.slots {
		if left == 0 {
			return 0
		}
		cur := inv.slots[i]
		if cur.IsEmpty() || !cur.Similar(s) || cur.Count >= MaxStackSize {
			continue
		}
		n := min(MaxStackSize-cur.Count, left)
		inv.slots[i].Count += n
		left -= n
	}
	for i := range inv.slots {
		if left == 0 {
			return 0
		}
		if !inv.slots[i].IsEmpty() {
			continue
		}
		n := min(MaxStackSize, left)
		inv.slots[i] = s.WithCount(n)
		left -= n
	}
	return left
}

// Remove takes up to n items similar to like, scanning from the first slot. It returns the
// amount removed.
func (inv *Inventory) Remove(like ItemStack, n int) int {
	removed := 0
	for i := range inv.slots {
		if removed == n {
			break
		}
		cur := inv.slots[i]
		if cur.IsEmpty() || !cur.Similar(like) {
			continue
		}
		take := min(cur.Count, n-removed)
		cur.Count -= take
		removed += take
		if cur.Count <= 0 {
			cur = ItemStack{}
		}
		inv.slots[i] = cur
	}
	return removed
}
