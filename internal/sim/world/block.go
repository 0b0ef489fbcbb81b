package world

const (
	BlockAir  = "AIR"
	BlockWool = "WOOL"
)

// BlockState is the content of a single block position.
type BlockState struct {
	Type  string `json:"type"`
	Color Color  `json:"color,omitempty"`
}

var Air = BlockState{Type: BlockAir}

func (b BlockState) IsAir() bool { return b.Type == "" || b.Type == BlockAir }

// IsWool reports whether b is a wool block of exactly the given color.
func (b BlockState) IsWool(c Color) bool { return b.Type == BlockWool && b.Color == c }

// ItemStack is an item held in an inventory slot. The zero value is an empty slot.
type ItemStack struct {
	Item  string `json:"item"`
	Color Color  `json:"color,omitempty"`
	Count int    `json:"count"`
}

func (s ItemStack) IsEmpty() bool { return s.Item == "" || s.Count <= 0 }

// Similar compares everything but the amount.
func (s ItemStack) Similar(o ItemStack) bool { return s.Item == o.Item && s.Color == o.Color }

func (s ItemStack) IsWool() bool { return !s.IsEmpty() && s.Item == BlockWool }

func (s ItemStack) WithCount(n int) ItemStack {
	s.Count = n
	return s
}

// Block is the state placed into the world by this item.
func (s ItemStack) Block() BlockState { return BlockState{Type: s.Item, Color: s.Color} }
