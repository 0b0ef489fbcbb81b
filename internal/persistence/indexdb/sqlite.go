package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/catalogs"
	"monument.ai/internal/sim/match"
	"monument.ai/internal/sim/tuning"
)

// SQLiteIndex is a queryable secondary index of match logs. Writes are queued and applied by a
// single writer goroutine; the JSONL logs remain the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropEvent atomic.Uint64
	dropAudit atomic.Uint64
	dropMatch atomic.Uint64
}

type reqKind int

const (
	reqEvent reqKind = iota + 1
	reqAudit
	reqMatch
)

type req struct {
	kind reqKind

	event protocol.EventMsg
	audit match.AuditEntry
	match matchRow
}

type matchRow struct {
	WorldID    string
	TickRateHz int
	StartedAt  string
}

type Stats struct {
	QueueDepth     int
	QueueCapacity  int
	DropEventTotal uint64
	DropAuditTotal uint64
	DropMatchTotal uint64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			world_id TEXT NOT NULL,
			tick_rate_hz INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			end_tick INTEGER,
			winner TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id INTEGER,
			tick INTEGER NOT NULL,
			event TEXT NOT NULL,
			goal_id TEXT,
			player_id TEXT,
			raw_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_goal_tick ON events(goal_id, tick);`,
		`CREATE TABLE IF NOT EXISTS goal_completions (
			match_id INTEGER,
			tick INTEGER NOT NULL,
			goal_id TEXT NOT NULL,
			owner TEXT NOT NULL,
			color TEXT NOT NULL,
			player_id TEXT NOT NULL,
			team TEXT NOT NULL,
			weight REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_player ON goal_completions(player_id);`,
		`CREATE TABLE IF NOT EXISTS audits (
			match_id INTEGER,
			tick INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			actor TEXT NOT NULL,
			team TEXT,
			action TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			from_block TEXT,
			to_block TEXT,
			goal_id TEXT,
			decision TEXT,
			count INTEGER NOT NULL,
			raw_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_actor_tick ON audits(actor, tick);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_decision ON audits(decision);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) enqueue(r req, drops *atomic.Uint64) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		// The writer fell behind; the JSONL logs still have the entry.
		drops.Add(1)
	}
}

// RecordMatch opens a match row; later events and audits are attached to it.
func (s *SQLiteIndex) RecordMatch(worldID string, tickRateHz int) {
	if s == nil {
		return
	}
	s.enqueue(req{kind: reqMatch, match: matchRow{
		WorldID:    worldID,
		TickRateHz: tickRateHz,
		StartedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}}, &s.dropMatch)
}

func (s *SQLiteIndex) WriteEvent(ev protocol.EventMsg) error {
	if s == nil {
		return nil
	}
	s.enqueue(req{kind: reqEvent, event: ev}, &s.dropEvent)
	return nil
}

func (s *SQLiteIndex) WriteAudit(e match.AuditEntry) error {
	if s == nil {
		return nil
	}
	s.enqueue(req{kind: reqAudit, audit: e}, &s.dropAudit)
	return nil
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:     len(s.ch),
		QueueCapacity:  cap(s.ch),
		DropEventTotal: s.dropEvent.Load(),
		DropAuditTotal: s.dropAudit.Load(),
		DropMatchTotal: s.dropMatch.Load(),
	}
}

// UpsertCatalogs stores the raw config files and the tuning actually applied, keyed by digest.
func (s *SQLiteIndex) UpsertCatalogs(configDir, goalsPath string, cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	if b, err := os.ReadFile(filepath.Join(configDir, "blocks.json")); err == nil {
		rows = append(rows, kv{name: "blocks_defs", digest: cats.Blocks.DefsDigest, json: b})
	}
	if b, err := os.ReadFile(filepath.Join(configDir, "recipes.json")); err == nil {
		rows = append(rows, kv{name: "recipes", digest: cats.Recipes.Digest, json: b})
	}
	if b, err := os.ReadFile(goalsPath); err == nil {
		rows = append(rows, kv{name: "goals_yaml", digest: digest(b), json: jsonString(b)})
	}
	if b, _ := json.Marshal(tune); len(b) > 0 {
		rows = append(rows, kv{name: "tuning", digest: digest(b), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// jsonString wraps non-JSON config text so it fits the json column.
func jsonString(b []byte) []byte {
	out, _ := json.Marshal(string(b))
	return out
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertMatch, _ := s.db.Prepare(`INSERT INTO matches(world_id,tick_rate_hz,started_at) VALUES(?,?,?)`)
	finishMatch, _ := s.db.Prepare(`UPDATE matches SET end_tick=?, winner=? WHERE id=?`)
	insertEvent, _ := s.db.Prepare(`INSERT INTO events(match_id,tick,event,goal_id,player_id,raw_json) VALUES(?,?,?,?,?,?)`)
	insertCompletion, _ := s.db.Prepare(`INSERT INTO goal_completions(match_id,tick,goal_id,owner,color,player_id,team,weight) VALUES(?,?,?,?,?,?,?,?)`)
	insertAudit, _ := s.db.Prepare(`INSERT INTO audits(match_id,tick,seq,actor,team,action,x,y,z,from_block,to_block,goal_id,decision,count,raw_json) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertMatch, finishMatch, insertEvent, insertCompletion, insertAudit} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = time.Second

		matchID       sql.NullInt64
		lastAuditTick uint64
		auditSeq      int
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	exec := func(st *sql.Stmt, args ...any) (sql.Result, bool) {
		if st == nil {
			return nil, false
		}
		res, err := tx.Stmt(st).Exec(args...)
		if err != nil {
			rollback()
			return nil, false
		}
		opCount++
		return res, true
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqMatch:
			res, ok := exec(insertMatch, r.match.WorldID, r.match.TickRateHz, r.match.StartedAt)
			if !ok {
				continue
			}
			if id, err := res.LastInsertId(); err == nil {
				matchID = sql.NullInt64{Int64: id, Valid: true}
			}

		case reqEvent:
			ev := r.event
			raw, _ := json.Marshal(ev)
			if _, ok := exec(insertEvent, matchID, int64(ev.Tick), ev.Event, nullString(ev.GoalID), nullString(ev.PlayerID), string(raw)); !ok {
				continue
			}
			switch ev.Event {
			case protocol.EventGoalComplete:
				for _, c := range ev.Contributions {
					if _, ok := exec(insertCompletion, matchID, int64(ev.Tick), ev.GoalID, ev.Owner, ev.Color, c.PlayerID, c.Team, c.Weight); !ok {
						break
					}
				}
			case protocol.EventMatchEnd:
				if matchID.Valid {
					exec(finishMatch, int64(ev.Tick), ev.Winner, matchID.Int64)
				}
			}

		case reqAudit:
			a := r.audit
			if a.Tick != lastAuditTick {
				lastAuditTick = a.Tick
				auditSeq = 0
			}
			seq := auditSeq
			auditSeq++
			raw, _ := json.Marshal(a)
			exec(insertAudit, matchID, int64(a.Tick), seq, a.Actor, nullString(a.Team), a.Action,
				a.Pos[0], a.Pos[1], a.Pos[2],
				nullString(a.From), nullString(a.To), nullString(a.GoalID), nullString(a.Decision),
				a.Count, string(raw))
		}
		if tx != nil && (opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait) {
			commit()
		}
	}

	commit()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
