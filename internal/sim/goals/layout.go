package goals

import (
	"fmt"
	"strings"

	"monument.ai/internal/sim/world"
)

type ContainerSpec struct {
	Type  string     `yaml:"type"`
	Pos   [3]int     `yaml:"pos"`
	Items []SlotSpec `yaml:"items"`
}

type SlotSpec struct {
	Slot  int    `yaml:"slot"`
	Item  string `yaml:"item"`
	Color string `yaml:"color"`
	Count int    `yaml:"count"`
}

func (cs ContainerSpec) validate() error {
	if strings.TrimSpace(cs.Type) == "" {
		return fmt.Errorf("type must not be empty")
	}
	used := map[int]bool{}
	for _, it := range cs.Items {
		if it.Slot < 0 {
			return fmt.Errorf("slot %d out of range", it.Slot)
		}
		if used[it.Slot] {
			return fmt.Errorf("slot %d listed twice", it.Slot)
		}
		used[it.Slot] = true
		if it.Item == "" || it.Count <= 0 || it.Count > world.MaxStackSize {
			return fmt.Errorf("slot %d: bad stack %s x%d", it.Slot, it.Item, it.Count)
		}
		if it.Color != "" {
			if _, ok := world.ParseColor(it.Color); !ok {
				return fmt.Errorf("slot %d: unknown color %q", it.Slot, it.Color)
			}
		}
	}
	return nil
}

func (s SlotSpec) stack() world.ItemStack {
	c, _ := world.ParseColor(s.Color)
	return world.ItemStack{Item: strings.ToUpper(strings.TrimSpace(s.Item)), Color: c, Count: s.Count}
}

// Populate places every configured container into w and fills its slots. It must run before
// any player can observe the containers.
func (c Config) Populate(w *world.World) error {
	for i, cs := range c.Containers {
		typ := strings.ToUpper(strings.TrimSpace(cs.Type))
		pos := world.Vec3iFromArray(cs.Pos)
		if !w.InBounds(pos) {
			return fmt.Errorf("containers[%d]: %v out of bounds", i, cs.Pos)
		}
		block := world.BlockState{Type: typ}
		if !w.IsContainerBlock(block) {
			return fmt.Errorf("containers[%d]: %s is not a container block", i, typ)
		}
		w.SetBlock(pos, block)
		ct := w.ContainerAt(pos)
		for _, it := range cs.Items {
			if !ct.SetItem(it.Slot, it.stack()) {
				return fmt.Errorf("containers[%d]: slot %d exceeds %s size %d", i, it.Slot, typ, ct.Size())
			}
		}
	}
	return nil
}
