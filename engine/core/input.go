package core

// ButtonState tracks how many consecutive ticks a button has spent in its
// current up/down state. Applications use the counts for key repeat and
// hold-to-activate behavior.
type ButtonState struct {
	Down   bool
	Frames int
}

// Input accumulates raw button and pointer state per tick.
type Input struct {
	keys           map[Key]ButtonState
	buttons        map[MouseButton]ButtonState
	mouseX, mouseY float32
}

func NewInput() *Input {
	return &Input{
		keys:    map[Key]ButtonState{},
		buttons: map[MouseButton]ButtonState{},
	}
}

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		st := in.keys[e.Key]
		if st.Down != e.Down {
			in.keys[e.Key] = ButtonState{Down: e.Down}
		}
	case EventPointerDown:
		in.buttons[e.Button] = ButtonState{Down: true}
		in.mouseX, in.mouseY = e.X, e.Y
	case EventPointerUp:
		in.buttons[e.Button] = ButtonState{Down: false}
		in.mouseX, in.mouseY = e.X, e.Y
	case EventPointerMove:
		in.mouseX, in.mouseY = e.X, e.Y
	}
}

// Advance ages every tracked button by one tick. Called once per tick by the
// run loop.
func (in *Input) Advance() {
	for k, st := range in.keys {
		st.Frames++
		in.keys[k] = st
	}
	for b, st := range in.buttons {
		st.Frames++
		in.buttons[b] = st
	}
}

func (in *Input) IsKeyDown(k Key) bool { return in.keys[k].Down }

// KeyState returns the state and held/released tick count for k.
func (in *Input) KeyState(k Key) ButtonState { return in.keys[k] }

func (in *Input) IsButtonDown(b MouseButton) bool    { return in.buttons[b].Down }
func (in *Input) ButtonState(b MouseButton) ButtonState { return in.buttons[b] }

func (in *Input) Mouse() (float32, float32) { return in.mouseX, in.mouseY }
