package wool

import (
	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/world"
)

// CraftPreview is the pending result of a crafting grid. Clearing Result prevents the craft.
type CraftPreview struct {
	Actor  Actor
	Result *world.ItemStack
}

// HandleCraftPreview clears previews that would produce wool of a goal color the goal does
// not allow to be crafted. The first goal with the color decides. It reports whether the
// result was cleared.
func (m *Module) HandleCraftPreview(ev *CraftPreview) bool {
	if ev == nil || ev.Actor == nil || ev.Result == nil || !ev.Result.IsWool() {
		return false
	}
	g := m.goals.ByColor(ev.Result.Color)
	if g == nil || g.Craftable() {
		return false
	}
	ev.Result = nil
	ev.Actor.SendMessage(protocol.NewMessage(protocol.MsgWoolCraftDisabled, m.woolName(g.Color())))
	return true
}
