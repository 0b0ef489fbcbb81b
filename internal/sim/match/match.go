package match

import (
	"fmt"
	"log"
	"sort"
	"sync/atomic"

	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/goals"
	"monument.ai/internal/sim/wool"
	"monument.ai/internal/sim/world"
)

// Match is a single-threaded authoritative match. All state, the wool module included, is
// accessed only from the Run goroutine; other goroutines talk to it through channels.
type Match struct {
	cfg   Config
	log   *log.Logger
	world *world.World
	goals *goals.Registry
	wool  *wool.Module

	tick    atomic.Uint64
	started bool
	state   State
	winner  string
	players map[string]*Participant
	nextID  int

	repeatables  []*repeatable
	checkVictory bool
	eventSinks   []EventSink
	auditSinks   []AuditSink
	stats        atomic.Pointer[Stats]

	inbox  chan ActionEnvelope
	join   chan JoinRequest
	leave  chan string
	status chan chan protocol.StatusMsg
	stop   chan struct{}
}

func New(cfg Config, w *world.World, reg *goals.Registry, logger *log.Logger) (*Match, error) {
	if w == nil || reg == nil {
		return nil, fmt.Errorf("match: world and goals are required")
	}
	if cfg.TickRateHz <= 0 {
		cfg.TickRateHz = 20
	}
	if cfg.PlayerSlots <= 0 {
		cfg.PlayerSlots = 36
	}
	m := &Match{
		cfg:     cfg,
		log:     logger,
		world:   w,
		goals:   reg,
		state:   StateRunning,
		players: map[string]*Participant{},
		inbox:   make(chan ActionEnvelope, 1024),
		join:    make(chan JoinRequest, 64),
		leave:   make(chan string, 64),
		status:  make(chan chan protocol.StatusMsg, 16),
		stop:    make(chan struct{}),
	}
	m.wool = wool.New(w, reg, m, wool.Options{AutoRefill: cfg.AutoRefill})
	if cfg.RefillEveryTicks > 0 {
		m.every(cfg.RefillEveryTicks, m.refill)
	}
	m.publishStats()
	return m, nil
}

func (m *Match) AddEventSink(s EventSink) { m.eventSinks = append(m.eventSinks, s) }
func (m *Match) AddAuditSink(s AuditSink) { m.auditSinks = append(m.auditSinks, s) }

func (m *Match) Inbox() chan<- ActionEnvelope { return m.inbox }
func (m *Match) Join() chan<- JoinRequest     { return m.join }
func (m *Match) Leave() chan<- string         { return m.leave }

func (m *Match) WorldID() string     { return m.world.ID() }
func (m *Match) TickRateHz() int     { return m.cfg.TickRateHz }
func (m *Match) CurrentTick() uint64 { return m.tick.Load() }

// Stats returns the snapshot published at the end of the last tick.
func (m *Match) Stats() Stats { return *m.stats.Load() }

func (m *Match) publishStats() {
	classified, objective := m.wool.Counts()
	placed := 0
	for _, g := range m.goals.Goals() {
		if g.IsPlaced() {
			placed++
		}
	}
	m.stats.Store(&Stats{
		Tick:                 m.tick.Load(),
		State:                m.state,
		Players:              len(m.players),
		GoalsPlaced:          placed,
		GoalsTotal:           len(m.goals.Goals()),
		ClassifiedContainers: classified,
		ObjectiveContainers:  objective,
	})
}

// Emit is the wool module's event bus.
func (m *Match) Emit(ev wool.Event) {
	msg := protocol.EventMsg{
		Type:            protocol.TypeEvent,
		ProtocolVersion: protocol.Version,
		Tick:            m.tick.Load(),
		Event:           ev.Kind(),
	}
	switch e := ev.(type) {
	case wool.GoalStatusChanged:
		fillGoal(&msg, e.Goal)
	case wool.WoolPlaced:
		fillGoal(&msg, e.Goal)
		pos := e.Pos.ToArray()
		msg.Pos = &pos
		if e.Player != nil {
			msg.PlayerID = e.Player.PlayerID()
		}
	case wool.GoalCompleted:
		fillGoal(&msg, e.Goal)
		for _, c := range e.Contributions {
			msg.Contributions = append(msg.Contributions, protocol.Contribution{PlayerID: c.PlayerID, Team: c.Team, Weight: c.Weight})
		}
		m.checkVictory = true
	}
	m.publish(msg)
}

func fillGoal(msg *protocol.EventMsg, g *goals.Goal) {
	if g == nil {
		return
	}
	msg.GoalID = g.ID()
	msg.Color = string(g.Color())
	msg.Owner = g.Owner()
	msg.Placed = g.IsPlaced()
}

func (m *Match) publish(msg protocol.EventMsg) {
	for _, s := range m.eventSinks {
		if err := s.WriteEvent(msg); err != nil && m.log != nil {
			m.log.Printf("event sink: %v", err)
		}
	}
	for _, id := range m.playerIDs() {
		m.players[id].send(msg)
	}
}

func (m *Match) audit(e AuditEntry) {
	e.Tick = m.tick.Load()
	for _, s := range m.auditSinks {
		if err := s.WriteAudit(e); err != nil && m.log != nil {
			m.log.Printf("audit sink: %v", err)
		}
	}
}

func (m *Match) playerIDs() []string {
	ids := make([]string, 0, len(m.players))
	for id := range m.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// maybeFinish ends the match when some team has placed every goal it owns. Teams are checked
// in configuration order.
func (m *Match) maybeFinish() {
	if !m.checkVictory {
		return
	}
	m.checkVictory = false
	if !m.cfg.EndOnCompletion || m.state != StateRunning {
		return
	}
	for _, t := range m.goals.Teams() {
		if !m.goals.AllPlaced(t.ID) {
			continue
		}
		m.finish(t.ID)
		return
	}
}

func (m *Match) finish(winner string) {
	m.state = StateFinished
	m.winner = winner
	name := winner
	if t, ok := m.goals.Team(winner); ok {
		name = t.Name
	}
	if m.log != nil {
		m.log.Printf("match %s finished at tick %d winner=%s", m.world.ID(), m.tick.Load(), winner)
	}
	m.publish(protocol.EventMsg{
		Type:            protocol.TypeEvent,
		ProtocolVersion: protocol.Version,
		Tick:            m.tick.Load(),
		Event:           protocol.EventMatchEnd,
		Winner:          winner,
	})
	for _, id := range m.playerIDs() {
		m.players[id].SendMessage(protocol.NewMessage(protocol.MsgMatchWinner, name))
	}
}

func (m *Match) goalRefs() []protocol.GoalRef {
	out := make([]protocol.GoalRef, 0, len(m.goals.Goals()))
	for _, g := range m.goals.Goals() {
		out = append(out, protocol.GoalRef{
			GoalID:    g.ID(),
			Color:     string(g.Color()),
			Owner:     g.Owner(),
			Craftable: g.Craftable(),
			Placed:    g.IsPlaced(),
		})
	}
	return out
}

func (m *Match) statusMsg() protocol.StatusMsg {
	return protocol.StatusMsg{
		Type:            protocol.TypeStatus,
		ProtocolVersion: protocol.Version,
		Tick:            m.tick.Load(),
		State:           string(m.state),
		Winner:          m.winner,
		Goals:           m.goalRefs(),
	}
}
