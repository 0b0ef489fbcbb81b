package match

import (
	"context"
	"fmt"
	"strings"
	"time"

	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/world"
)

type repeatable struct {
	every uint64
	next  uint64
	fn    func(now uint64)
}

// every schedules fn on the match loop once per period ticks, first after one full period.
func (m *Match) every(period uint64, fn func(now uint64)) {
	if period == 0 {
		period = 1
	}
	m.repeatables = append(m.repeatables, &repeatable{every: period, next: m.tick.Load() + period, fn: fn})
}

func (m *Match) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(m.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingActions []ActionEnvelope
	var pendingJoins []JoinRequest
	var pendingLeaves []string

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.stop:
			return nil
		case req := <-m.join:
			pendingJoins = append(pendingJoins, req)
		case id := <-m.leave:
			pendingLeaves = append(pendingLeaves, id)
		case env := <-m.inbox:
			pendingActions = append(pendingActions, env)
		case resp := <-m.status:
			resp <- m.statusMsg()
		case <-ticker.C:
			m.step(pendingJoins, pendingLeaves, pendingActions)
			pendingJoins = pendingJoins[:0]
			pendingLeaves = pendingLeaves[:0]
			pendingActions = pendingActions[:0]
		}
	}
}

func (m *Match) Stop() { close(m.stop) }

// Status asks the match loop for the current goal view.
func (m *Match) Status(ctx context.Context) (protocol.StatusMsg, error) {
	resp := make(chan protocol.StatusMsg, 1)
	select {
	case m.status <- resp:
	case <-ctx.Done():
		return protocol.StatusMsg{}, ctx.Err()
	}
	select {
	case st := <-resp:
		return st, nil
	case <-ctx.Done():
		return protocol.StatusMsg{}, ctx.Err()
	}
}

// StepOnce advances the match by a single tick with the same ordering as Run. Tests and
// tools drive matches with it.
func (m *Match) StepOnce(joins []JoinRequest, leaves []string, actions []ActionEnvelope) uint64 {
	tick := m.tick.Load()
	m.step(joins, leaves, actions)
	return tick
}

func (m *Match) step(joins []JoinRequest, leaves []string, actions []ActionEnvelope) {
	now := m.tick.Load()

	if !m.started {
		m.started = true
		m.publish(protocol.EventMsg{
			Type:            protocol.TypeEvent,
			ProtocolVersion: protocol.Version,
			Tick:            now,
			Event:           protocol.EventMatchStart,
		})
	}

	for _, id := range leaves {
		m.handleLeave(id)
	}
	for _, req := range joins {
		resp := m.handleJoin(req)
		if req.Resp != nil {
			req.Resp <- resp
		}
	}

	// Actions apply in inbox order.
	for _, env := range actions {
		p := m.players[env.PlayerID]
		if p == nil {
			continue
		}
		m.applyAct(p, env.Act, now)
		m.maybeFinish()
	}

	if m.state == StateRunning {
		for _, r := range m.repeatables {
			if now < r.next {
				continue
			}
			r.fn(now)
			r.next = now + r.every
		}
	}

	m.publishStats()
	m.tick.Add(1)
}

func (m *Match) handleJoin(req JoinRequest) JoinResponse {
	team := strings.TrimSpace(req.Team)
	if team != "" {
		if _, ok := m.goals.Team(team); !ok {
			return JoinResponse{Code: protocol.ErrUnknownTeam, Message: fmt.Sprintf("unknown team %q", team)}
		}
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "player"
	}
	m.nextID++
	p := &Participant{
		ID:        fmt.Sprintf("P%d", m.nextID),
		Name:      name,
		Team:      team,
		Inventory: world.NewInventory(m.cfg.PlayerSlots),
		out:       req.Out,
	}
	m.players[p.ID] = p
	if m.log != nil {
		m.log.Printf("join %s name=%s team=%s", p.ID, p.Name, p.Team)
	}
	return JoinResponse{Welcome: protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		PlayerID:        p.ID,
		WorldID:         m.world.ID(),
		Team:            p.Team,
		TickRateHz:      m.cfg.TickRateHz,
		Goals:           m.goalRefs(),
	}}
}

func (m *Match) handleLeave(id string) {
	if _, ok := m.players[id]; !ok {
		return
	}
	delete(m.players, id)
	if m.log != nil {
		m.log.Printf("leave %s", id)
	}
}

func (m *Match) refill(now uint64) {
	if n := m.wool.Refill(); n > 0 {
		m.audit(AuditEntry{Actor: "SYSTEM", Action: AuditRefill, Count: n})
	}
}
