package world

import (
	"fmt"

	"monument.ai/internal/sim/catalogs"
)

type WorldConfig struct {
	ID   string
	MinY int
	MaxY int
}

func (c *WorldConfig) applyDefaults() {
	if c.MinY == 0 && c.MaxY == 0 {
		c.MaxY = 255
	}
}

// World holds the block and container state of a single match map. It is not safe for
// concurrent use; the owning match goroutine serializes all access.
type World struct {
	cfg      WorldConfig
	catalogs *catalogs.Catalogs

	blocks     map[Vec3i]BlockState
	containers map[Vec3i]*Container
}

func New(cfg WorldConfig, cats *catalogs.Catalogs) (*World, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("world: empty id")
	}
	if cats == nil {
		return nil, fmt.Errorf("world: nil catalogs")
	}
	cfg.applyDefaults()
	if cfg.MinY > cfg.MaxY {
		return nil, fmt.Errorf("world: min_y %d > max_y %d", cfg.MinY, cfg.MaxY)
	}
	return &World{
		cfg:        cfg,
		catalogs:   cats,
		blocks:     map[Vec3i]BlockState{},
		containers: map[Vec3i]*Container{},
	}, nil
}

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) Catalogs() *catalogs.Catalogs { return w.catalogs }

func (w *World) InBounds(pos Vec3i) bool { return pos.Y >= w.cfg.MinY && pos.Y <= w.cfg.MaxY }

func (w *World) BlockAt(pos Vec3i) BlockState {
	if b, ok := w.blocks[pos]; ok {
		return b
	}
	return Air
}

// IsContainerBlock reports whether placing b creates a container.
func (w *World) IsContainerBlock(b BlockState) bool {
	return !b.IsAir() && w.catalogs.Block(b.Type).IsContainer()
}

// SetBlock writes b at pos and keeps the container index in sync: replacing a container block
// drops its container, placing a container block creates an empty one. It returns the
// previous state.
func (w *World) SetBlock(pos Vec3i, b BlockState) BlockState {
	old := w.BlockAt(pos)
	if b.IsAir() {
		delete(w.blocks, pos)
	} else {
		w.blocks[pos] = b
	}
	if old.Type != b.Type {
		w.removeContainer(pos)
	}
	if w.IsContainerBlock(b) {
		w.ensureContainer(pos, b.Type, w.catalogs.Block(b.Type).Slots)
	}
	return old
}
