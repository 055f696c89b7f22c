package ui

import "github.com/sqgui/sqgui/engine/geom"

// LayoutMode selects how a container distributes its children.
type LayoutMode uint8

const (
	ModeColumn LayoutMode = iota // children stacked top-to-bottom
	ModeRow                      // children laid out left-to-right
	ModeStack                    // children overlap, each aligned independently
	ModeFlow                     // row that wraps when the line fills
)

// Align positions children on an axis.
type Align uint8

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignStretch
)

// Scroll marks a container whose content extent is unbounded on one axis.
// Scrolling itself belongs to the overflow collaborator; the layout engine
// only measures children against an unbounded max on the scroll axis.
type Scroll uint8

const (
	ScrollNone Scroll = iota
	ScrollVertical
	ScrollHorizontal
)

// Unit specifies how a Value is interpreted.
type Unit uint8

const (
	UnitAuto    Unit = iota // size from content
	UnitFixed               // absolute pixels
	UnitPercent             // percentage of the parent's available space
)

// Value is a dimension that can be fixed, percentage, or content-sized.
type Value struct {
	Amount float32
	Unit   Unit
}

func Auto() Value            { return Value{Unit: UnitAuto} }
func Fixed(px float32) Value { return Value{Amount: px, Unit: UnitFixed} }

// Percent is on a 0-100 scale (50 = half the available space).
func Percent(p float32) Value { return Value{Amount: p, Unit: UnitPercent} }

func (v Value) IsAuto() bool  { return v.Unit == UnitAuto }
func (v Value) IsFixed() bool { return v.Unit == UnitFixed }

// Style holds a node's layout constraints.
type Style struct {
	Width, Height       Value
	MinWidth, MinHeight Value
	MaxWidth, MaxHeight Value

	// Flex is the weight for distributing leftover main-axis space among
	// siblings. Zero means the node keeps its measured size.
	Flex float32

	Margin  geom.Insets
	Padding geom.Insets

	// Container behavior.
	Mode       LayoutMode
	Gap        float32
	MainAlign  Align
	CrossAlign Align
	Scroll     Scroll
}

// DefaultStyle returns the zero-config style: auto-sized column container.
func DefaultStyle() Style {
	return Style{
		Width:     Auto(),
		Height:    Auto(),
		MinWidth:  Fixed(0),
		MinHeight: Fixed(0),
		MaxWidth:  Auto(), // no maximum
		MaxHeight: Auto(),
	}
}

// SizeLocked reports whether the node's outer size cannot be affected by its
// content: both axes fixed and no flex participation. Dirty propagation stops
// at size-locked nodes because the parent's measure cannot change.
func (s Style) SizeLocked() bool {
	return s.Width.IsFixed() && s.Height.IsFixed() && s.Flex == 0
}
