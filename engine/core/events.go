package core

// Event is a closed set of tagged variants emitted by the platform layer.
type Event interface{ isEvent() }

// PointerID distinguishes concurrent pointers (mouse buttons share id 0,
// touch points get their own ids). Multi-pointer gestures key off it.
type PointerID int

type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

// EventWindowFocus fires on window focus gain/loss. Focus loss cancels any
// in-flight gesture.
type EventWindowFocus struct{ Focused bool }

func (EventWindowFocus) isEvent() {}

type EventPointerMove struct {
	Pointer PointerID
	X, Y    float32
}

func (EventPointerMove) isEvent() {}

type EventPointerDown struct {
	Pointer PointerID
	Button  MouseButton
	X, Y    float32
}

func (EventPointerDown) isEvent() {}

type EventPointerUp struct {
	Pointer PointerID
	Button  MouseButton
	X, Y    float32
}

func (EventPointerUp) isEvent() {}

type EventScroll struct {
	X, Y       float32 // pointer position
	Xoff, Yoff float32 // scroll delta
}

func (EventScroll) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

// EventChar carries translated text input for the focused node.
type EventChar struct{ Rune rune }

func (EventChar) isEvent() {}

type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyA
	KeyC
	KeyP
	KeyV
	KeyX
	KeyZ
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)
