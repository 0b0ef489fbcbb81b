package match

import (
	"fmt"

	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/wool"
	"monument.ai/internal/sim/world"
)

func (m *Match) applyAct(p *Participant, act protocol.ActMsg, now uint64) {
	if act.Action == protocol.ActStatus {
		p.send(m.statusMsg())
		return
	}
	if m.state != StateRunning {
		m.reject(p, act, protocol.ErrMatchNotRunning, "match is not running")
		return
	}
	if p.Observer() {
		m.reject(p, act, protocol.ErrNoPermission, "observers cannot act")
		return
	}
	switch act.Action {
	case protocol.ActOpen:
		m.actOpen(p, act)
	case protocol.ActTake:
		m.actTake(p, act)
	case protocol.ActPut:
		m.actPut(p, act)
	case protocol.ActTransfer:
		m.actTransfer(p, act)
	case protocol.ActPlace:
		m.actPlace(p, act)
	case protocol.ActBreak:
		m.actBreak(p, act)
	case protocol.ActCraft:
		m.actCraft(p, act)
	default:
		m.reject(p, act, protocol.ErrBadRequest, fmt.Sprintf("unknown action %q", act.Action))
	}
}

func (m *Match) ack(p *Participant, act protocol.ActMsg, fill func(*protocol.AckMsg)) {
	a := protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		Tick:            m.tick.Load(),
		Seq:             act.Seq,
		OK:              true,
	}
	if fill != nil {
		fill(&a)
	}
	p.send(a)
}

func (m *Match) reject(p *Participant, act protocol.ActMsg, code, msg string) {
	m.ack(p, act, func(a *protocol.AckMsg) {
		a.OK = false
		a.Code = code
		a.Message = msg
	})
}

func (m *Match) ackContainer(p *Participant, act protocol.ActMsg, c *world.Container) {
	m.ack(p, act, func(a *protocol.AckMsg) {
		a.ContainerID = c.ID()
		a.Slots = stacksOut(c.Slots())
	})
}

func stacksOut(slots []world.ItemStack) []protocol.ItemStack {
	out := make([]protocol.ItemStack, len(slots))
	for i, s := range slots {
		out[i] = stackOut(s)
	}
	return out
}

func stackOut(s world.ItemStack) protocol.ItemStack {
	return protocol.ItemStack{Item: s.Item, Color: string(s.Color), Count: s.Count}
}

func stackIn(item, color string, count int) (world.ItemStack, bool) {
	s := world.ItemStack{Item: item, Count: count}
	if color != "" {
		c, ok := world.ParseColor(color)
		if !ok {
			return s, false
		}
		s.Color = c
	}
	return s, item != ""
}

func (m *Match) container(id string) *world.Container {
	if id == "" {
		return nil
	}
	return m.world.ContainerByID(id)
}

func (m *Match) actOpen(p *Participant, act protocol.ActMsg) {
	c := m.container(act.ContainerID)
	if c == nil {
		m.reject(p, act, protocol.ErrInvalidTarget, "container not found")
		return
	}
	m.wool.OnContainerOpen(c)
	m.ackContainer(p, act, c)
}

// actTake moves up to Count items (all when zero) from a container slot into the player
// inventory. Taking opens the container.
func (m *Match) actTake(p *Participant, act protocol.ActMsg) {
	c := m.container(act.ContainerID)
	if c == nil {
		m.reject(p, act, protocol.ErrInvalidTarget, "container not found")
		return
	}
	m.wool.OnContainerOpen(c)

	s := c.Item(act.Slot)
	if s.IsEmpty() {
		m.reject(p, act, protocol.ErrNoResource, "slot is empty")
		return
	}
	n := act.Count
	if n <= 0 || n > s.Count {
		n = s.Count
	}
	left := p.Inventory.Add(s.WithCount(n))
	moved := n - left
	if moved == 0 {
		m.reject(p, act, protocol.ErrNoResource, "inventory full")
		return
	}
	c.SetItem(act.Slot, s.WithCount(s.Count-moved))
	m.ackContainer(p, act, c)
}

func (m *Match) actPut(p *Participant, act protocol.ActMsg) {
	c := m.container(act.ContainerID)
	if c == nil {
		m.reject(p, act, protocol.ErrInvalidTarget, "container not found")
		return
	}
	want, ok := stackIn(act.Item, act.Color, act.Count)
	if !ok || want.Count <= 0 {
		m.reject(p, act, protocol.ErrBadRequest, "bad item")
		return
	}
	m.wool.OnContainerOpen(c)

	cur := c.Item(act.Slot)
	if act.Slot < 0 || act.Slot >= c.Size() || (!cur.IsEmpty() && !cur.Similar(want)) {
		m.reject(p, act, protocol.ErrInvalidTarget, "slot not available")
		return
	}
	n := min(want.Count, world.MaxStackSize-cur.Count)
	if p.Inventory.Count(want) < n {
		m.reject(p, act, protocol.ErrNoResource, "not enough items")
		return
	}
	if n <= 0 {
		m.reject(p, act, protocol.ErrInvalidTarget, "slot is full")
		return
	}
	p.Inventory.Remove(want, n)
	c.SetItem(act.Slot, want.WithCount(cur.Count+n))
	m.ackContainer(p, act, c)
}

// actTransfer moves a slot of ContainerID into TargetID, as a hopper or a shift-click would.
func (m *Match) actTransfer(p *Participant, act protocol.ActMsg) {
	src := m.container(act.ContainerID)
	dst := m.container(act.TargetID)
	if src == nil || dst == nil || src == dst {
		m.reject(p, act, protocol.ErrInvalidTarget, "container not found")
		return
	}
	m.wool.OnItemTransfer(src, dst)

	s := src.Item(act.Slot)
	if s.IsEmpty() {
		m.reject(p, act, protocol.ErrNoResource, "slot is empty")
		return
	}
	n := act.Count
	if n <= 0 || n > s.Count {
		n = s.Count
	}
	moved := n - dst.Add(s.WithCount(n))
	if moved == 0 {
		m.reject(p, act, protocol.ErrNoResource, "target full")
		return
	}
	src.SetItem(act.Slot, s.WithCount(s.Count-moved))
	m.ackContainer(p, act, dst)
}

func (m *Match) actPlace(p *Participant, act protocol.ActMsg) {
	item, ok := stackIn(act.Item, act.Color, 1)
	if !ok {
		m.reject(p, act, protocol.ErrBadRequest, "bad item")
		return
	}
	if _, known := m.world.Catalogs().Blocks.Defs[item.Item]; !known || item.Item == world.BlockAir {
		m.reject(p, act, protocol.ErrBadRequest, "item is not a block")
		return
	}
	pos := world.Vec3iFromArray(act.Pos)
	if !m.world.InBounds(pos) || !m.world.BlockAt(pos).IsAir() {
		m.reject(p, act, protocol.ErrInvalidTarget, "position not free")
		return
	}
	if p.Inventory.Count(item) < 1 {
		m.reject(p, act, protocol.ErrNoResource, "item not in inventory")
		return
	}

	ev := &wool.BlockChange{WorldID: m.world.ID(), Pos: pos, Old: m.world.BlockAt(pos), New: item.Block(), Actor: p}
	d := m.wool.HandleBlockChange(ev)
	m.auditBlockChange(AuditSetBlock, p, ev, d)
	if ev.Cancelled {
		m.reject(p, act, protocol.ErrDenied, "placement denied")
		return
	}

	p.Inventory.Remove(item, 1)
	m.world.SetBlock(pos, ev.New)
	if c := m.world.ContainerAt(pos); c != nil {
		m.wool.ForbidContainer(c)
	}
	m.ack(p, act, nil)
}

// actBreak removes a block; the block and any container contents go to the breaker.
func (m *Match) actBreak(p *Participant, act protocol.ActMsg) {
	pos := world.Vec3iFromArray(act.Pos)
	old := m.world.BlockAt(pos)
	if old.IsAir() {
		m.reject(p, act, protocol.ErrInvalidTarget, "nothing to break")
		return
	}

	ev := &wool.BlockChange{WorldID: m.world.ID(), Pos: pos, Old: old, New: world.Air, Actor: p}
	d := m.wool.HandleBlockChange(ev)
	m.auditBlockChange(AuditBreakBlock, p, ev, d)
	if ev.Cancelled {
		m.reject(p, act, protocol.ErrDenied, "block is protected")
		return
	}

	var drops []world.ItemStack
	if c := m.world.ContainerAt(pos); c != nil {
		for _, s := range c.Slots() {
			if !s.IsEmpty() {
				drops = append(drops, s)
			}
		}
	}
	m.world.SetBlock(pos, world.Air)
	drops = append(drops, world.ItemStack{Item: old.Type, Color: old.Color, Count: 1})
	for _, s := range drops {
		p.Inventory.Add(s)
	}
	m.ack(p, act, nil)
}

func (m *Match) actCraft(p *Participant, act protocol.ActMsg) {
	r, ok := m.world.Catalogs().Recipes.ByID[act.RecipeID]
	if !ok {
		m.reject(p, act, protocol.ErrBadRequest, "unknown recipe")
		return
	}
	inputs := make([]world.ItemStack, 0, len(r.Inputs))
	for _, in := range r.Inputs {
		s, _ := stackIn(in.Item, in.Color, in.Count)
		if p.Inventory.Count(s) < s.Count {
			m.reject(p, act, protocol.ErrNoResource, "missing "+in.Item)
			return
		}
		inputs = append(inputs, s)
	}
	result, _ := stackIn(r.Output.Item, r.Output.Color, r.Output.Count)

	ev := &wool.CraftPreview{Actor: p, Result: &result}
	if m.wool.HandleCraftPreview(ev) {
		m.audit(AuditEntry{Actor: p.ID, Team: p.Team, Action: AuditCraft, To: result.Item + ":" + string(result.Color), Decision: decisionCraftDisabled})
		m.reject(p, act, protocol.ErrDenied, "crafting disabled")
		return
	}
	for _, s := range inputs {
		p.Inventory.Remove(s, s.Count)
	}
	if left := p.Inventory.Add(*ev.Result); left > 0 {
		// Inventory full: roll the craft back.
		p.Inventory.Remove(*ev.Result, ev.Result.Count-left)
		for _, s := range inputs {
			p.Inventory.Add(s)
		}
		m.reject(p, act, protocol.ErrNoResource, "inventory full")
		return
	}
	out := stackOut(*ev.Result)
	m.ack(p, act, func(a *protocol.AckMsg) { a.Result = &out })
}

const decisionCraftDisabled = "craft_disabled"

func (m *Match) auditBlockChange(action string, p *Participant, ev *wool.BlockChange, d wool.Decision) {
	if d == wool.DecisionIgnored {
		return
	}
	e := AuditEntry{
		Actor:    p.ID,
		Team:     p.Team,
		Action:   action,
		Pos:      ev.Pos.ToArray(),
		From:     blockName(ev.Old),
		To:       blockName(ev.New),
		Decision: d.String(),
	}
	if g := m.goals.At(ev.Pos.Center()); g != nil {
		e.GoalID = g.ID()
	}
	m.audit(e)
}

func blockName(b world.BlockState) string {
	if b.IsAir() {
		return world.BlockAir
	}
	if b.Color != "" {
		return b.Type + ":" + string(b.Color)
	}
	return b.Type
}
