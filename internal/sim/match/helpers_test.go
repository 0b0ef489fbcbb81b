package match

import (
	"encoding/json"
	"testing"

	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/catalogs"
	"monument.ai/internal/sim/goals"
	"monument.ai/internal/sim/world"
)

var (
	blueRoom  = world.Vec3i{X: -20, Y: 64, Z: -20}
	redGoal   = world.Vec3i{X: -11, Y: 64, Z: -11}
	blueGoal  = world.Vec3i{X: 10, Y: 64, Z: 10}
	openField = world.Vec3i{X: 5, Y: 64, Z: 5}
)

type eventLog struct{ events []protocol.EventMsg }

func (l *eventLog) WriteEvent(ev protocol.EventMsg) error {
	l.events = append(l.events, ev)
	return nil
}

func (l *eventLog) kinds() []string {
	out := make([]string, 0, len(l.events))
	for _, ev := range l.events {
		out = append(out, ev.Event)
	}
	return out
}

type auditLog struct{ entries []AuditEntry }

func (l *auditLog) WriteAudit(e AuditEntry) error {
	l.entries = append(l.entries, e)
	return nil
}

// outMsg is the union of the server messages the tests inspect.
type outMsg struct {
	Type     string               `json:"type"`
	Seq      uint64               `json:"seq"`
	OK       bool                 `json:"ok"`
	Code     string               `json:"code"`
	Event    string               `json:"event"`
	GoalID   string               `json:"goal_id"`
	Winner   string               `json:"winner"`
	Level    string               `json:"level"`
	Key      string               `json:"key"`
	State    string               `json:"state"`
	Slots    []protocol.ItemStack `json:"slots"`
	Result   *protocol.ItemStack  `json:"result"`
	Goals    []protocol.GoalRef   `json:"goals"`
	PlayerID string               `json:"player_id"`
}

type client struct {
	id  string
	out chan []byte
}

// drain returns every queued message.
func (c *client) drain(t *testing.T) []outMsg {
	t.Helper()
	var msgs []outMsg
	for {
		select {
		case b := <-c.out:
			var m outMsg
			if err := json.Unmarshal(b, &m); err != nil {
				t.Fatalf("decode %s: %v", b, err)
			}
			msgs = append(msgs, m)
		default:
			return msgs
		}
	}
}

func (c *client) lastAck(t *testing.T) outMsg {
	t.Helper()
	var ack *outMsg
	for _, m := range c.drain(t) {
		if m.Type == protocol.TypeAck {
			ack = &m
		}
	}
	if ack == nil {
		t.Fatalf("no ACK for %s", c.id)
	}
	return *ack
}

func newTestMatch(t *testing.T, cfg Config) (*Match, *eventLog, *auditLog) {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	gcfg, err := goals.Load("../../../configs/goals.yaml")
	if err != nil {
		t.Fatalf("load goals: %v", err)
	}
	w, err := world.New(world.WorldConfig{ID: gcfg.WorldID}, cats)
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	if err := gcfg.Populate(w); err != nil {
		t.Fatalf("populate: %v", err)
	}
	reg, err := gcfg.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	m, err := New(cfg, w, reg, nil)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	events, audits := &eventLog{}, &auditLog{}
	m.AddEventSink(events)
	m.AddAuditSink(audits)
	return m, events, audits
}

func join(t *testing.T, m *Match, name, team string) *client {
	t.Helper()
	out := make(chan []byte, 256)
	resp := make(chan JoinResponse, 1)
	m.StepOnce([]JoinRequest{{Name: name, Team: team, Out: out, Resp: resp}}, nil, nil)
	r := <-resp
	if r.Code != "" {
		t.Fatalf("join %s/%s rejected: %s %s", name, team, r.Code, r.Message)
	}
	c := &client{id: r.Welcome.PlayerID, out: out}
	c.drain(t)
	return c
}

func act(m *Match, c *client, a protocol.ActMsg) {
	a.Type = protocol.TypeAct
	a.ProtocolVersion = protocol.Version
	m.StepOnce(nil, nil, []ActionEnvelope{{PlayerID: c.id, Act: a}})
}

func containerID(t *testing.T, m *Match, pos world.Vec3i) string {
	t.Helper()
	ct := m.world.ContainerAt(pos)
	if ct == nil {
		t.Fatalf("no container at %v", pos)
	}
	return ct.ID()
}
