package wool

import (
	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/world"
)

// BlockChange is a pending block transformation. Handlers flip Cancelled; the caller applies
// the change only if it is still uncancelled afterwards.
type BlockChange struct {
	WorldID string
	Pos     world.Vec3i
	Old     world.BlockState
	New     world.BlockState
	// Actor is nil when the change cannot be attributed to a participant.
	Actor     Actor
	Cancelled bool
}

// Decision records why HandleBlockChange ruled the way it did.
type Decision uint8

const (
	DecisionIgnored Decision = iota
	DecisionRemovalAllowed
	DecisionRemovalProtected
	DecisionNoActor
	DecisionWrongColor
	DecisionWrongTeam
	DecisionPlaced
)

func (d Decision) String() string {
	switch d {
	case DecisionIgnored:
		return "ignored"
	case DecisionRemovalAllowed:
		return "removal_allowed"
	case DecisionRemovalProtected:
		return "removal_protected"
	case DecisionNoActor:
		return "no_actor"
	case DecisionWrongColor:
		return "wrong_color"
	case DecisionWrongTeam:
		return "wrong_team"
	case DecisionPlaced:
		return "placed"
	default:
		return "unknown"
	}
}

// HandleBlockChange guards monument regions: placed objective wool cannot be removed, and
// only the owning team may place wool of the goal's color. Changes outside every monument
// are left alone.
func (m *Module) HandleBlockChange(ev *BlockChange) Decision {
	if ev == nil || ev.WorldID != m.world.ID() {
		return DecisionIgnored
	}
	g := m.goals.At(ev.Pos.Center())
	if g == nil {
		return DecisionIgnored
	}

	if ev.New.IsAir() {
		if ev.Old.IsWool(g.Color()) {
			ev.Cancelled = true
			return DecisionRemovalProtected
		}
		return DecisionRemovalAllowed
	}

	// Denied unless the owning team places the right color.
	ev.Cancelled = true

	p := ev.Actor
	if p == nil {
		return DecisionNoActor
	}
	woolName := m.woolName(g.Color())
	if !ev.New.IsWool(g.Color()) {
		p.SendWarning(protocol.NewMessage(protocol.MsgWoolPlaceWrong, woolName))
		return DecisionWrongColor
	}
	if p.TeamID() != g.Owner() {
		p.SendWarning(protocol.NewMessage(protocol.MsgWoolPlaceOther, m.teamName(g.Owner()), woolName))
		return DecisionWrongTeam
	}

	ev.Cancelled = false
	g.MarkPlaced()
	m.bus.Emit(GoalStatusChanged{Goal: g})
	m.bus.Emit(WoolPlaced{Player: p, Goal: g, Pos: ev.Pos, Block: ev.New})
	m.bus.Emit(GoalCompleted{
		Goal:    g,
		Sponsor: true,
		Bonus:   BonusNone,
		Credit:  CreditOwnerTeam,
		Contributions: []Contribution{
			{PlayerID: p.PlayerID(), Team: p.TeamID(), Weight: 1},
		},
	})
	return DecisionPlaced
}
