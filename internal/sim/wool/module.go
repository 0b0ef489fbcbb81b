package wool

import (
	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/goals"
	"monument.ai/internal/sim/world"
)

// Audience receives player-facing text.
type Audience interface {
	SendWarning(m protocol.Message)
	SendMessage(m protocol.Message)
}

// Actor is the team-bound identity behind a block change or craft.
type Actor interface {
	Audience
	PlayerID() string
	TeamID() string
}

type Options struct {
	// AutoRefill gates Refill; when false every refill invocation is a no-op.
	AutoRefill bool
}

// Module is the monument wool state of one match. It is created when the match starts and
// dropped when it ends. Nothing in it is synchronized: the match goroutine owns it.
type Module struct {
	world *world.World
	goals *goals.Registry
	bus   Emitter
	opts  Options

	// Whether a container held objective wool when first observed. A container has to be
	// registered before its contents can change for this to reflect the match start.
	chests map[*world.Container]bool
	// Wool layout of objective containers at first observation, used to refill them.
	woolChests map[*world.Container]*snapshot
	// Containers in woolChests in registration order.
	order []*world.Container
}

func New(w *world.World, reg *goals.Registry, bus Emitter, opts Options) *Module {
	if bus == nil {
		bus = EmitterFunc(func(Event) {})
	}
	return &Module{
		world:      w,
		goals:      reg,
		bus:        bus,
		opts:       opts,
		chests:     map[*world.Container]bool{},
		woolChests: map[*world.Container]*snapshot{},
	}
}

func (m *Module) Goals() *goals.Registry { return m.goals }

func (m *Module) woolName(c world.Color) string { return c.WoolName() }

func (m *Module) teamName(id string) string {
	if t, ok := m.goals.Team(id); ok && t.Name != "" {
		return t.Name
	}
	return id
}
