package core

import "time"

// App defines the application hooks driven by the run loop.
type App interface {
	OnStart(e *Engine)              // called once after window/renderer init
	OnTick(e *Engine, dt float64)   // called once per frame before rendering
	OnRender(e *Engine)             // emit geometry and submit batches
	OnEvent(e *Engine, ev Event)    // input/window events
	OnShutdown(e *Engine)           // before exit
}

// Engine exposes core services to the App.
type Engine struct {
	Window   Window
	Renderer Renderer
	Input    *Input
	Layers   LayerStack
	start    time.Time
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Window abstraction implemented by the platform layer.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Config for the engine run.
type Config struct {
	Title      string
	Width      int
	Height     int
	VSync      bool
	ClearColor [4]float32 // RGBA

	// Batching and input tuning. Zero values select defaults.
	MaxQuadsPerBatch int     // per-key quad capacity before a batch splits (default 10000)
	DragThresholdPx  float32 // pointer travel before a drag starts (default 4)
	OcclusionCulling bool    // skip fully covered opaque-overlapped nodes at submit
	TickRate         int     // fixed ticks per second (default 60)
}
