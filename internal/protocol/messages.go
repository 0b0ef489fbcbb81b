package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerName      string `json:"player_name"`
	// Team is a team id; empty joins as an observer.
	Team string `json:"team,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	PlayerID        string    `json:"player_id"`
	WorldID         string    `json:"world_id"`
	Team            string    `json:"team,omitempty"`
	TickRateHz      int       `json:"tick_rate_hz"`
	Goals           []GoalRef `json:"goals"`
}

type GoalRef struct {
	GoalID    string `json:"goal_id"`
	Color     string `json:"color"`
	Owner     string `json:"owner"`
	Craftable bool   `json:"craftable"`
	Placed    bool   `json:"placed"`
}

// Actions carried by ACT.
const (
	ActOpen     = "OPEN"
	ActTake     = "TAKE"
	ActPut      = "PUT"
	ActTransfer = "TRANSFER"
	ActPlace    = "PLACE"
	ActBreak    = "BREAK"
	ActCraft    = "CRAFT"
	ActStatus   = "STATUS"
)

// ACT (client -> server)
type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Seq             uint64 `json:"seq"`
	Action          string `json:"action"`

	Pos         [3]int `json:"pos,omitempty"`
	ContainerID string `json:"container_id,omitempty"`
	TargetID    string `json:"target_id,omitempty"`
	Slot        int    `json:"slot,omitempty"`
	Count       int    `json:"count,omitempty"`
	Item        string `json:"item,omitempty"`
	Color       string `json:"color,omitempty"`
	RecipeID    string `json:"recipe_id,omitempty"`
}

// ACK (server -> client)
type AckMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Tick            uint64      `json:"tick"`
	Seq             uint64      `json:"seq"`
	OK              bool        `json:"ok"`
	Code            string      `json:"code,omitempty"`
	Message         string      `json:"message,omitempty"`
	ContainerID     string      `json:"container_id,omitempty"`
	Slots           []ItemStack `json:"slots,omitempty"`
	Result          *ItemStack  `json:"result,omitempty"`
}

type ItemStack struct {
	Item  string `json:"item"`
	Color string `json:"color,omitempty"`
	Count int    `json:"count"`
}

// Event kinds carried by EVENT.
const (
	EventGoalStatusChange = "GOAL_STATUS_CHANGE"
	EventWoolPlace        = "WOOL_PLACE"
	EventGoalComplete     = "GOAL_COMPLETE"
	EventMatchStart       = "MATCH_START"
	EventMatchEnd         = "MATCH_END"
)

// EVENT (server -> all clients)
type EventMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	Tick            uint64         `json:"tick"`
	Event           string         `json:"event"`
	GoalID          string         `json:"goal_id,omitempty"`
	Color           string         `json:"color,omitempty"`
	Owner           string         `json:"owner,omitempty"`
	Placed          bool           `json:"placed,omitempty"`
	PlayerID        string         `json:"player_id,omitempty"`
	Pos             *[3]int        `json:"pos,omitempty"`
	Winner          string         `json:"winner,omitempty"`
	Contributions   []Contribution `json:"contributions,omitempty"`
}

type Contribution struct {
	PlayerID string  `json:"player_id"`
	Team     string  `json:"team"`
	Weight   float64 `json:"weight"`
}

// MESSAGE (server -> one client)
type MessageMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	Level           string   `json:"level"`
	Key             string   `json:"key"`
	Args            []string `json:"args,omitempty"`
	Text            string   `json:"text"`
}

const (
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
)

// STATUS (server -> one client)
type StatusMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	Tick            uint64    `json:"tick"`
	State           string    `json:"state"`
	Winner          string    `json:"winner,omitempty"`
	Goals           []GoalRef `json:"goals"`
}
