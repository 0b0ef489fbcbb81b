package match

import (
	"monument.ai/internal/protocol"
)

type State string

const (
	StateRunning  State = "RUNNING"
	StateFinished State = "FINISHED"
)

type Config struct {
	TickRateHz int
	// EndOnCompletion finishes the match as soon as one team has placed all of its goals.
	EndOnCompletion bool
	AutoRefill      bool
	// RefillEveryTicks is the refill period; zero disables the refill job.
	RefillEveryTicks uint64
	// PlayerSlots is the size of every participant inventory.
	PlayerSlots int
}

type JoinRequest struct {
	Name string
	// Team is a team id; empty joins as an observer.
	Team string
	Out  chan []byte
	Resp chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
	// Code is set when the join was rejected.
	Code    string
	Message string
}

type ActionEnvelope struct {
	PlayerID string
	Act      protocol.ActMsg
}

// AuditEntry records a rule decision or a state change made by the match itself.
type AuditEntry struct {
	Tick     uint64 `json:"tick"`
	Actor    string `json:"actor"`
	Team     string `json:"team,omitempty"`
	Action   string `json:"action"` // SET_BLOCK, BREAK_BLOCK, CRAFT, REFILL
	Pos      [3]int `json:"pos"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	GoalID   string `json:"goal_id,omitempty"`
	Decision string `json:"decision,omitempty"`
	Count    int    `json:"count,omitempty"`
}

const (
	AuditSetBlock   = "SET_BLOCK"
	AuditBreakBlock = "BREAK_BLOCK"
	AuditCraft      = "CRAFT"
	AuditRefill     = "REFILL"
)

// EventSink receives every match event in emission order.
type EventSink interface {
	WriteEvent(ev protocol.EventMsg) error
}

type AuditSink interface {
	WriteAudit(entry AuditEntry) error
}

// Stats is a point-in-time view of the match, safe to read from any goroutine.
type Stats struct {
	Tick                 uint64
	State                State
	Players              int
	GoalsPlaced          int
	GoalsTotal           int
	ClassifiedContainers int
	ObjectiveContainers  int
}
