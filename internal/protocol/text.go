package protocol

import (
	"strconv"
	"strings"
)

// Translation keys for player-facing messages.
const (
	MsgWoolPlaceWrong    = "match.wool.placeWrong"
	MsgWoolPlaceOther    = "match.wool.placeOther"
	MsgWoolCraftDisabled = "match.wool.craftDisabled"
	MsgMatchWinner       = "match.end.winner"
)

var english = map[string]string{
	MsgWoolPlaceWrong:    "You may only place {0} on this monument",
	MsgWoolPlaceOther:    "You may not capture {1} for {0}",
	MsgWoolCraftDisabled: "Crafting {0} is disabled",
	MsgMatchWinner:       "{0} wins!",
}

// Message is a translatable text: a key plus positional arguments.
type Message struct {
	Key  string
	Args []string
}

func NewMessage(key string, args ...string) Message {
	return Message{Key: key, Args: args}
}

// Render fills the English template; unknown keys render as the key itself.
func (m Message) Render() string {
	tmpl, ok := english[m.Key]
	if !ok {
		return m.Key
	}
	for i, a := range m.Args {
		tmpl = strings.ReplaceAll(tmpl, "{"+strconv.Itoa(i)+"}", a)
	}
	return tmpl
}
