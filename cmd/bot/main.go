package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"monument.ai/internal/protocol"
)

func main() {
	var (
		url  = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name = flag.String("name", "bot", "player name")
		team = flag.String("team", "", "team id (empty joins as observer)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      *name,
		Team:            *team,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	go func() {
		<-stop
		_ = conn.Close()
	}()

	var seq uint64
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME player_id=%s world=%s team=%q goals=%d", w.PlayerID, w.WorldID, w.Team, len(w.Goals))
			seq++
			_ = conn.WriteJSON(protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version, Seq: seq, Action: protocol.ActStatus})

		case protocol.TypeStatus:
			var st protocol.StatusMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			for _, g := range st.Goals {
				logger.Printf("goal %s color=%s owner=%s placed=%v", g.GoalID, g.Color, g.Owner, g.Placed)
			}

		case protocol.TypeEvent:
			var ev protocol.EventMsg
			if err := json.Unmarshal(msg, &ev); err != nil {
				continue
			}
			logEvent(logger, ev)

		case protocol.TypeMessage:
			var m protocol.MessageMsg
			if err := json.Unmarshal(msg, &m); err == nil {
				logger.Printf("%s: %s", m.Level, m.Text)
			}

		case protocol.TypeAck:
			var a protocol.AckMsg
			if err := json.Unmarshal(msg, &a); err == nil && !a.OK {
				logger.Printf("ACK seq=%d %s %s", a.Seq, a.Code, a.Message)
			}
		}
	}
}

func logEvent(logger *log.Logger, ev protocol.EventMsg) {
	switch ev.Event {
	case protocol.EventGoalComplete:
		by := ""
		if len(ev.Contributions) > 0 {
			by = ev.Contributions[0].PlayerID
		}
		logger.Printf("tick=%d %s goal=%s team=%s by=%s", ev.Tick, ev.Event, ev.GoalID, ev.Owner, by)
	case protocol.EventMatchEnd:
		logger.Printf("tick=%d %s winner=%s", ev.Tick, ev.Event, ev.Winner)
	default:
		logger.Printf("tick=%d %s goal=%s", ev.Tick, ev.Event, ev.GoalID)
	}
}
