package wool

import (
	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/goals"
	"monument.ai/internal/sim/world"
)

// Event is something the wool module raises on the match bus.
type Event interface {
	Kind() string
}

// Emitter receives events in the order they are raised.
type Emitter interface {
	Emit(ev Event)
}

type EmitterFunc func(ev Event)

func (f EmitterFunc) Emit(ev Event) { f(ev) }

type GoalStatusChanged struct {
	Goal *goals.Goal
}

func (GoalStatusChanged) Kind() string { return protocol.EventGoalStatusChange }

type WoolPlaced struct {
	Player Actor
	Goal   *goals.Goal
	Pos    world.Vec3i
	Block  world.BlockState
}

func (WoolPlaced) Kind() string { return protocol.EventWoolPlace }

type Contribution struct {
	PlayerID string
	Team     string
	Weight   float64
}

// BonusPolicy selects which competitors get bonus credit for a completion.
type BonusPolicy uint8

const (
	BonusNone BonusPolicy = iota + 1
)

// CreditPolicy selects which competitors are credited with a completion.
type CreditPolicy uint8

const (
	CreditOwnerTeam CreditPolicy = iota + 1
)

type GoalCompleted struct {
	Goal *goals.Goal
	// Sponsor marks the contributions as the completing team's own effort.
	Sponsor       bool
	Bonus         BonusPolicy
	Credit        CreditPolicy
	Contributions []Contribution
}

func (GoalCompleted) Kind() string { return protocol.EventGoalComplete }

// IsBonusContributor reports whether team earns bonus credit. BonusNone, the only policy
// in use, grants none.
func (e GoalCompleted) IsBonusContributor(team string) bool { return false }

func (e GoalCompleted) IsCredited(team string) bool {
	switch e.Credit {
	case CreditOwnerTeam:
		return e.Goal != nil && team == e.Goal.Owner()
	}
	return false
}
