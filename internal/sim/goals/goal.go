package goals

import "monument.ai/internal/sim/world"

type Team struct {
	ID   string
	Name string
}

// Definition is the static, configured part of a monument wool goal.
type Definition struct {
	ID        string
	Color     world.Color
	Owner     string // team id
	Region    Region
	Craftable bool
}

func (d *Definition) IsObjectiveWool(s world.ItemStack) bool {
	return s.IsWool() && s.Color == d.Color
}

func (d *Definition) IsHolding(inv *world.Inventory) bool {
	return inv != nil && inv.Any(d.IsObjectiveWool)
}

// Goal is a definition bound to a running match.
type Goal struct {
	Def    *Definition
	placed bool
}

func (g *Goal) ID() string         { return g.Def.ID }
func (g *Goal) Color() world.Color { return g.Def.Color }
func (g *Goal) Owner() string      { return g.Def.Owner }
func (g *Goal) Craftable() bool    { return g.Def.Craftable }
func (g *Goal) IsPlaced() bool     { return g.placed }

// MarkPlaced is one-way: a placed goal never reverts.
func (g *Goal) MarkPlaced() { g.placed = true }
