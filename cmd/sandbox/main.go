package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/sqgui/sqgui/engine/core"
	glbackend "github.com/sqgui/sqgui/engine/gfx/gl"
	"github.com/sqgui/sqgui/engine/platform"
	"github.com/sqgui/sqgui/engine/profiler"
	"github.com/sqgui/sqgui/engine/scratch"
	"github.com/sqgui/sqgui/engine/theme"
)

// Sandbox: a widget gallery exercising layout, input routing, damage-driven
// batching, text, themes, and animation. Ctrl+P dumps a profiler capture when
// built with the profile tag.
type App struct {
	cfg   core.Config
	ui    *UILayer
	debug *DebugLayer
}

func (a *App) OnStart(e *core.Engine) {
	profiler.Init(1 << 16)
	scratch.Init(4096)

	a.ui = NewUILayer(a.cfg)
	e.Layers.Push(a.ui)
	a.ui.OnAttach(e)

	a.debug = NewDebugLayer(a.ui)
	e.Layers.Push(a.debug)
	a.debug.OnAttach(e)
}

func (a *App) OnTick(e *core.Engine, dt float64) {}

func (a *App) OnRender(e *core.Engine) {}

func (a *App) OnEvent(e *core.Engine, ev core.Event) {
	if k, ok := ev.(core.EventKey); ok && k.Down && k.Key == core.KeyEscape {
		e.Window.RequestClose()
	}
}

func (a *App) OnShutdown(e *core.Engine) {}

func main() {
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	bg := theme.Dark().WindowBackground
	cfg := core.Config{
		Title:            "sqgui sandbox",
		Width:            1280,
		Height:           720,
		VSync:            true,
		ClearColor:       [4]float32{bg[0], bg[1], bg[2], bg[3]},
		OcclusionCulling: true,
	}
	app := &App{cfg: cfg}

	newWindow := func(cfg core.Config) (core.Window, error) {
		return platform.NewGLFWWindow(cfg)
	}
	newRenderer := func(win core.Window, cfg core.Config) (core.Renderer, error) {
		return glbackend.New(win, cfg)
	}

	if err := core.Run(app, cfg, newWindow, newRenderer); err != nil {
		log.Fatal(err)
	}
}
