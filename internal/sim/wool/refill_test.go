package wool

import (
	"testing"

	"monument.ai/internal/sim/world"
)

func TestRefill_OneUnitPerContainerPerInvocation(t *testing.T) {
	m, w, _ := newTestModule(t, Options{AutoRefill: true})
	a := placeChest(t, w, world.Vec3i{X: 20, Y: 64})
	b := placeChest(t, w, world.Vec3i{X: 22, Y: 64})
	a.SetItem(0, wool(world.ColorRed, 3))
	a.SetItem(1, wool(world.ColorRed, 3))
	b.SetItem(4, wool(world.ColorLime, 2))
	m.RegisterContainer(a)
	m.RegisterContainer(b)

	// Empty everything.
	a.SetItem(0, world.ItemStack{})
	a.SetItem(1, world.ItemStack{})
	b.SetItem(4, world.ItemStack{})

	if n := m.Refill(); n != 2 {
		t.Fatalf("first refill added %d, want 2 (one per container)", n)
	}
	if got := a.Item(0); got != wool(world.ColorRed, 1) {
		t.Fatalf("a[0]=%+v", got)
	}
	if got := a.Item(1); !got.IsEmpty() {
		t.Fatalf("a[1] should wait for a later invocation, got %+v", got)
	}
	if got := b.Item(4); got != wool(world.ColorLime, 1) {
		t.Fatalf("b[4]=%+v", got)
	}

	// Keep going until nothing changes; totals must match the snapshot exactly.
	for i := 0; i < 20; i++ {
		before := a.Count(wool(world.ColorRed, 0)) + b.Count(wool(world.ColorLime, 0))
		n := m.Refill()
		after := a.Count(wool(world.ColorRed, 0)) + b.Count(wool(world.ColorLime, 0))
		if n > 2 || after-before != n {
			t.Fatalf("invocation %d: added=%d delta=%d", i, n, after-before)
		}
	}
	if got := a.Item(0).Count; got != 3 {
		t.Fatalf("a[0] count=%d want 3", got)
	}
	if got := a.Item(1).Count; got != 3 {
		t.Fatalf("a[1] count=%d want 3", got)
	}
	if got := b.Item(4).Count; got != 2 {
		t.Fatalf("b[4] count=%d want 2", got)
	}
	if n := m.Refill(); n != 0 {
		t.Fatalf("full containers must be left alone, added %d", n)
	}
}

func TestRefill_SkipsMismatchedSlots(t *testing.T) {
	m, w, _ := newTestModule(t, Options{AutoRefill: true})
	c := placeChest(t, w, world.Vec3i{X: 20, Y: 64})
	c.SetItem(0, wool(world.ColorRed, 5))
	c.SetItem(1, wool(world.ColorRed, 5))
	m.RegisterContainer(c)

	// Slot 0 now holds something else; slot 1 is short by one.
	c.SetItem(0, world.ItemStack{Item: "DIRT", Count: 1})
	c.SetItem(1, wool(world.ColorRed, 4))

	if n := m.Refill(); n != 1 {
		t.Fatalf("added=%d want 1", n)
	}
	if got := c.Item(0); got.Item != "DIRT" {
		t.Fatalf("mismatched slot overwritten: %+v", got)
	}
	if got := c.Item(1).Count; got != 5 {
		t.Fatalf("slot 1 count=%d want 5", got)
	}
	if n := m.Refill(); n != 0 {
		t.Fatalf("nothing left to refill, added %d", n)
	}
}

func TestRefill_DisabledIsNoop(t *testing.T) {
	m, w, _ := newTestModule(t, Options{AutoRefill: false})
	c := placeChest(t, w, world.Vec3i{X: 20, Y: 64})
	c.SetItem(0, wool(world.ColorRed, 5))
	m.RegisterContainer(c)
	c.SetItem(0, world.ItemStack{})

	if n := m.Refill(); n != 0 || !c.Item(0).IsEmpty() {
		t.Fatalf("disabled refill changed container: added=%d slot=%+v", n, c.Item(0))
	}
	if _, known := m.Classification(c); !known || m.Snapshot(c) == nil {
		t.Fatalf("registration must not depend on auto refill")
	}
}

func TestRefill_IgnoresBrokenContainers(t *testing.T) {
	m, w, _ := newTestModule(t, Options{AutoRefill: true})
	pos := world.Vec3i{X: 20, Y: 64}
	c := placeChest(t, w, pos)
	c.SetItem(0, wool(world.ColorRed, 5))
	m.RegisterContainer(c)
	c.SetItem(0, world.ItemStack{})

	w.SetBlock(pos, world.Air)
	if n := m.Refill(); n != 0 {
		t.Fatalf("refilled a broken container: %d", n)
	}

	// A new chest at the same spot is a different container.
	fresh := placeChest(t, w, pos)
	if fresh == c {
		t.Fatalf("expected a new container identity")
	}
	if n := m.Refill(); n != 0 || !fresh.Item(0).IsEmpty() {
		t.Fatalf("new chest inherited the old snapshot: added=%d", n)
	}
}
