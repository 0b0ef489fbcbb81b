package indexdb

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/catalogs"
	"monument.ai/internal/sim/match"
	"monument.ai/internal/sim/tuning"
)

func TestSQLiteIndex_RecordsMatchTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	idx.RecordMatch("monument_1", 20)
	_ = idx.WriteEvent(protocol.EventMsg{Tick: 0, Event: protocol.EventMatchStart})
	_ = idx.WriteEvent(protocol.EventMsg{
		Tick: 40, Event: protocol.EventGoalComplete, GoalID: "red_wool", Owner: "blue", Color: "RED",
		Contributions: []protocol.Contribution{{PlayerID: "P2", Team: "blue", Weight: 1}},
	})
	_ = idx.WriteEvent(protocol.EventMsg{Tick: 40, Event: protocol.EventMatchEnd, Winner: "blue"})
	_ = idx.WriteAudit(match.AuditEntry{Tick: 40, Actor: "P2", Team: "blue", Action: match.AuditSetBlock, Pos: [3]int{-11, 64, -11}, To: "WOOL:RED", GoalID: "red_wool", Decision: "placed"})
	_ = idx.WriteAudit(match.AuditEntry{Tick: 40, Actor: "P1", Team: "red", Action: match.AuditSetBlock, Pos: [3]int{-11, 64, -11}, To: "WOOL:RED", GoalID: "red_wool", Decision: "wrong_team"})
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var events int
	if err := db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&events); err != nil || events != 3 {
		t.Fatalf("events=%d err=%v", events, err)
	}
	var (
		goalID, player string
		weight         float64
	)
	if err := db.QueryRow(`SELECT goal_id, player_id, weight FROM goal_completions`).Scan(&goalID, &player, &weight); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if goalID != "red_wool" || player != "P2" || weight != 1 {
		t.Fatalf("completion row goal=%s player=%s weight=%v", goalID, player, weight)
	}
	var (
		winner  string
		endTick int64
	)
	if err := db.QueryRow(`SELECT winner, end_tick FROM matches WHERE world_id='monument_1'`).Scan(&winner, &endTick); err != nil {
		t.Fatalf("match row: %v", err)
	}
	if winner != "blue" || endTick != 40 {
		t.Fatalf("match winner=%s end=%d", winner, endTick)
	}
	var seq int
	if err := db.QueryRow(`SELECT seq FROM audits WHERE decision='wrong_team'`).Scan(&seq); err != nil || seq != 1 {
		t.Fatalf("audit seq=%d err=%v", seq, err)
	}
}

func TestSQLiteIndex_UpsertCatalogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer idx.Close()

	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	if err := idx.UpsertCatalogs("../../../configs", "../../../configs/goals.yaml", cats, tuning.Defaults()); err != nil {
		t.Fatalf("UpsertCatalogs: %v", err)
	}
	var n int
	if err := idx.db.QueryRow(`SELECT COUNT(*) FROM catalogs`).Scan(&n); err != nil || n != 4 {
		t.Fatalf("catalog rows=%d err=%v", n, err)
	}
	var digest string
	if err := idx.db.QueryRow(`SELECT digest FROM catalogs WHERE name='recipes'`).Scan(&digest); err != nil || digest != cats.Recipes.Digest {
		t.Fatalf("recipes digest=%q err=%v", digest, err)
	}
}

func TestSQLiteIndex_QueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqEvent}

	_ = s.WriteEvent(protocol.EventMsg{Tick: 2})
	_ = s.WriteAudit(match.AuditEntry{Tick: 2})
	s.RecordMatch("w", 20)

	st := s.Stats()
	if st.DropEventTotal != 1 || st.DropAuditTotal != 1 || st.DropMatchTotal != 1 {
		t.Fatalf("drops=%+v", st)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}
