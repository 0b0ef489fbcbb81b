package telemetry

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/match"
)

type fixedStats match.Stats

func (s fixedStats) Stats() match.Stats { return match.Stats(s) }

func scrape(t *testing.T, r *Recorder) string {
	t.Helper()
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b)
}

func TestRecorder_CountsMatchStream(t *testing.T) {
	r := New("monument", "monument_1", fixedStats{Tick: 77, State: match.StateRunning, Players: 2, GoalsPlaced: 1, GoalsTotal: 3, ClassifiedContainers: 4, ObjectiveContainers: 2})

	_ = r.WriteEvent(protocol.EventMsg{Event: protocol.EventGoalComplete, GoalID: "red_wool", Owner: "blue"})
	_ = r.WriteAudit(match.AuditEntry{Action: match.AuditSetBlock, Decision: "wrong_team"})
	_ = r.WriteAudit(match.AuditEntry{Action: match.AuditSetBlock, Decision: "wrong_team"})
	_ = r.WriteAudit(match.AuditEntry{Action: match.AuditRefill, Count: 3})
	_ = r.WriteAudit(match.AuditEntry{Action: match.AuditCraft, Decision: "craft_disabled"})
	if err := r.AddGauge("index_queue_depth", "Index writer backlog.", func() float64 { return 5 }); err != nil {
		t.Fatalf("AddGauge: %v", err)
	}

	body := scrape(t, r)
	for _, want := range []string{
		`monument_events_total{event="GOAL_COMPLETE",world="monument_1"} 1`,
		`monument_goal_completions_total{goal="red_wool",team="blue",world="monument_1"} 1`,
		`monument_block_decisions_total{action="SET_BLOCK",decision="wrong_team",world="monument_1"} 2`,
		`monument_refill_units_total{world="monument_1"} 3`,
		`monument_craft_denied_total{world="monument_1"} 1`,
		`monument_match_tick{world="monument_1"} 77`,
		`monument_match_running{world="monument_1"} 1`,
		`monument_containers_objective{world="monument_1"} 2`,
		`monument_index_queue_depth{world="monument_1"} 5`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in scrape:\n%s", want, body)
		}
	}
}
