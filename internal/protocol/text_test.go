package protocol

import "testing"

func TestMessageRender(t *testing.T) {
	got := NewMessage(MsgWoolPlaceOther, "Red Team", "Blue Wool").Render()
	if got != "You may not capture Blue Wool for Red Team" {
		t.Fatalf("render=%q", got)
	}
	if got := NewMessage("no.such.key", "x").Render(); got != "no.such.key" {
		t.Fatalf("unknown key render=%q", got)
	}
}
