package match

import (
	"encoding/json"

	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/world"
)

// Participant is a connected player. Observers have an empty Team and cannot act.
type Participant struct {
	ID        string
	Name      string
	Team      string
	Inventory *world.Inventory

	out chan []byte
}

func (p *Participant) PlayerID() string { return p.ID }
func (p *Participant) TeamID() string   { return p.Team }
func (p *Participant) Observer() bool   { return p.Team == "" }

func (p *Participant) SendWarning(m protocol.Message) { p.sendText(protocol.LevelWarning, m) }
func (p *Participant) SendMessage(m protocol.Message) { p.sendText(protocol.LevelInfo, m) }

func (p *Participant) sendText(level string, m protocol.Message) {
	p.send(protocol.MessageMsg{
		Type:            protocol.TypeMessage,
		ProtocolVersion: protocol.Version,
		Level:           level,
		Key:             m.Key,
		Args:            m.Args,
		Text:            m.Render(),
	})
}

func (p *Participant) send(v any) {
	if p == nil || p.out == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	sendLatest(p.out, b)
}

// sendLatest never blocks the match loop: when the client queue is full the oldest
// message is dropped.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
