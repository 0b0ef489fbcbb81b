package wool

import (
	"testing"

	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/catalogs"
	"monument.ai/internal/sim/goals"
	"monument.ai/internal/sim/world"
)

type testActor struct {
	id       string
	team     string
	warnings []protocol.Message
	messages []protocol.Message
}

func (a *testActor) PlayerID() string               { return a.id }
func (a *testActor) TeamID() string                 { return a.team }
func (a *testActor) SendWarning(m protocol.Message) { a.warnings = append(a.warnings, m) }
func (a *testActor) SendMessage(m protocol.Message) { a.messages = append(a.messages, m) }

type recorder struct{ events []Event }

func (r *recorder) Emit(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []string {
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind())
	}
	return out
}

// monument is the single-block region at (x,64,0).
func monument(x int) goals.Region {
	return goals.Cuboid{
		Min: world.Vec3f{X: float64(x), Y: 64, Z: 0},
		Max: world.Vec3f{X: float64(x + 1), Y: 65, Z: 1},
	}
}

// newTestModule builds a world with two goals:
//
//	red_wool  (RED,  owner teamA, monument at x=0, not craftable)
//	lime_wool (LIME, owner teamB, monument at x=4, craftable)
func newTestModule(t *testing.T, opts Options) (*Module, *world.World, *recorder) {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	w, err := world.New(world.WorldConfig{ID: "test"}, cats)
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	reg, err := goals.NewRegistry(
		[]goals.Team{{ID: "teamA", Name: "Team A"}, {ID: "teamB", Name: "Team B"}},
		[]goals.Definition{
			{ID: "red_wool", Color: world.ColorRed, Owner: "teamA", Region: monument(0)},
			{ID: "lime_wool", Color: world.ColorLime, Owner: "teamB", Region: monument(4), Craftable: true},
		},
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	rec := &recorder{}
	return New(w, reg, rec, opts), w, rec
}

func wool(c world.Color, n int) world.ItemStack {
	return world.ItemStack{Item: world.BlockWool, Color: c, Count: n}
}

func placeChest(t *testing.T, w *world.World, pos world.Vec3i) *world.Container {
	t.Helper()
	w.SetBlock(pos, world.BlockState{Type: "CHEST"})
	c := w.ContainerAt(pos)
	if c == nil {
		t.Fatalf("no container at %v", pos)
	}
	return c
}
