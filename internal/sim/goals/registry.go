package goals

import (
	"fmt"

	"monument.ai/internal/sim/world"
)

// Registry is the ordered goal list of one match. The list never changes after construction;
// only the per-goal placed flags do. Lookups scan in configuration order, so the first goal
// wins when regions or colors overlap.
type Registry struct {
	teams []Team
	goals []*Goal
}

func NewRegistry(teams []Team, defs []Definition) (*Registry, error) {
	r := &Registry{teams: append([]Team(nil), teams...)}
	known := map[string]bool{}
	for _, t := range teams {
		known[t.ID] = true
	}
	for i := range defs {
		d := defs[i]
		if !known[d.Owner] {
			return nil, fmt.Errorf("goal %s: unknown owner team %q", d.ID, d.Owner)
		}
		if d.Region == nil {
			return nil, fmt.Errorf("goal %s: missing region", d.ID)
		}
		r.goals = append(r.goals, &Goal{Def: &d})
	}
	return r, nil
}

func (r *Registry) Goals() []*Goal { return r.goals }
func (r *Registry) Teams() []Team  { return r.teams }

func (r *Registry) Team(id string) (Team, bool) {
	for _, t := range r.teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

func (r *Registry) ByID(id string) *Goal {
	for _, g := range r.goals {
		if g.ID() == id {
			return g
		}
	}
	return nil
}

// At returns the first goal whose placement region contains p.
func (r *Registry) At(p world.Vec3f) *Goal {
	for _, g := range r.goals {
		if g.Def.Region.Contains(p) {
			return g
		}
	}
	return nil
}

// ByColor returns the first goal expecting wool of color c.
func (r *Registry) ByColor(c world.Color) *Goal {
	for _, g := range r.goals {
		if g.Color() == c {
			return g
		}
	}
	return nil
}

func (r *Registry) IsObjectiveWool(s world.ItemStack) bool {
	if !s.IsWool() {
		return false
	}
	for _, g := range r.goals {
		if g.Def.IsObjectiveWool(s) {
			return true
		}
	}
	return false
}

func (r *Registry) ContainsObjectiveWool(inv *world.Inventory) bool {
	for _, g := range r.goals {
		if g.Def.IsHolding(inv) {
			return true
		}
	}
	return false
}

func (r *Registry) OwnedBy(team string) []*Goal {
	var out []*Goal
	for _, g := range r.goals {
		if g.Owner() == team {
			out = append(out, g)
		}
	}
	return out
}

// AllPlaced reports whether team owns at least one goal and has placed all of them.
func (r *Registry) AllPlaced(team string) bool {
	owned := r.OwnedBy(team)
	if len(owned) == 0 {
		return false
	}
	for _, g := range owned {
		if !g.IsPlaced() {
			return false
		}
	}
	return true
}
