package world

import (
	"fmt"
	"strconv"
	"strings"
)

// Container is a block-based item storage (chest, hopper, dispenser, ...). Identity is the
// pointer: a container broken and placed again at the same position is a new container.
type Container struct {
	Type string
	Pos  Vec3i

	*Inventory
}

func (c *Container) ID() string { return containerID(c.Type, c.Pos) }

// containerID renders "TYPE@x,y,z".
func containerID(typ string, pos Vec3i) string {
	return fmt.Sprintf("%s@%d,%d,%d", typ, pos.X, pos.Y, pos.Z)
}

func parseContainerID(id string) (typ string, pos Vec3i, ok bool) {
	typ, rest, found := strings.Cut(id, "@")
	if !found || typ == "" {
		return "", Vec3i{}, false
	}
	coord := strings.Split(rest, ",")
	if len(coord) != 3 {
		return "", Vec3i{}, false
	}
	var xyz [3]int
	for i, s := range coord {
		n, err := strconv.Atoi(s)
		if err != nil {
			return "", Vec3i{}, false
		}
		xyz[i] = n
	}
	return typ, Vec3iFromArray(xyz), true
}

func (w *World) ensureContainer(pos Vec3i, typ string, slots int) *Container {
	c := w.containers[pos]
	if c != nil && c.Type == typ {
		return c
	}
	c = &Container{
		Type:      typ,
		Pos:       pos,
		Inventory: NewInventory(slots),
	}
	w.containers[pos] = c
	return c
}

func (w *World) removeContainer(pos Vec3i) *Container {
	c := w.containers[pos]
	if c == nil {
		return nil
	}
	delete(w.containers, pos)
	return c
}

func (w *World) ContainerAt(pos Vec3i) *Container { return w.containers[pos] }

func (w *World) ContainerByID(id string) *Container {
	typ, pos, ok := parseContainerID(id)
	if !ok {
		return nil
	}
	c := w.containers[pos]
	if c == nil || c.Type != typ {
		return nil
	}
	return c
}
