package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"monument.ai/internal/protocol"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	// Round-trip through JSON so the validator sees the same shape a client would.
	validate := func(s *jsonschema.Schema, msg any) {
		t.Helper()
		b, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate %s: %v", b, err)
		}
	}

	validate(compile("hello.schema.json"), protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      "alice",
		Team:            "red",
	})

	validate(compile("act.schema.json"), protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		Seq:             7,
		Action:          protocol.ActPlace,
		Pos:             [3]int{10, 64, 10},
		Item:            "WOOL",
		Color:           "BLUE",
	})

	pos := [3]int{10, 64, 10}
	validate(compile("event.schema.json"), protocol.EventMsg{
		Type:            protocol.TypeEvent,
		ProtocolVersion: protocol.Version,
		Tick:            120,
		Event:           protocol.EventGoalComplete,
		GoalID:          "blue_wool",
		Color:           "BLUE",
		Owner:           "red",
		Placed:          true,
		PlayerID:        "P1",
		Pos:             &pos,
		Contributions:   []protocol.Contribution{{PlayerID: "P1", Team: "red", Weight: 1}},
	})

	msg := protocol.NewMessage(protocol.MsgWoolCraftDisabled, "Red Wool")
	validate(compile("message.schema.json"), protocol.MessageMsg{
		Type:            protocol.TypeMessage,
		ProtocolVersion: protocol.Version,
		Level:           protocol.LevelWarning,
		Key:             msg.Key,
		Args:            msg.Args,
		Text:            msg.Render(),
	})
}

func TestSchemas_RejectUnknownAction(t *testing.T) {
	s, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "act.schema.json"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var v any
	_ = json.Unmarshal([]byte(`{"type":"ACT","protocol_version":"1.0","seq":1,"action":"FLY"}`), &v)
	if err := s.Validate(v); err == nil {
		t.Fatalf("expected FLY to be rejected")
	}
}
