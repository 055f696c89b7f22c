package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/geom"
	"github.com/sqgui/sqgui/engine/gfx/batch"
	"github.com/sqgui/sqgui/engine/profiler"
	"github.com/sqgui/sqgui/engine/scratch"
	"github.com/sqgui/sqgui/engine/theme"
	"github.com/sqgui/sqgui/engine/ui"
)

// DebugLayer draws a HUD with frame pipeline statistics in its own tree, so
// the overlay's per-frame churn never damages the application scene. Tab
// toggles it, Ctrl+P writes a profiler capture.
type DebugLayer struct {
	ui    *UILayer
	frame *ui.Frame
	panel ui.NodeID
	label ui.NodeID

	visible bool
	last    time.Time
	frameMS float32
}

func NewDebugLayer(appUI *UILayer) *DebugLayer {
	return &DebugLayer{ui: appUI, visible: true}
}

func (l *DebugLayer) OnAttach(e *core.Engine) {
	sub, _ := e.Renderer.(batch.Submitter)
	t := ui.NewTree()
	l.frame = ui.NewFrame(t, sub, theme.Dark(), l.ui.Fonts(), ui.FrameConfig{})

	rootStyle := ui.DefaultStyle()
	rootStyle.Width = ui.Percent(100)
	rootStyle.Height = ui.Percent(100)
	rootStyle.Padding = geom.InsetsAll(8)
	rootStyle.CrossAlign = ui.AlignEnd
	root := t.NewRoot(rootStyle)
	// Container only; a panel root would paint over the whole scene.
	t.Get(root).Kind = ui.KindLabel

	panelStyle := ui.DefaultStyle()
	panelStyle.Padding = geom.InsetsAll(10)
	l.panel = mustNode(t, root, ui.KindPanel, panelStyle)

	l.label = mustNode(t, l.panel, ui.KindLabel, ui.DefaultStyle())
	t.Get(l.label).FontSize = 13

	w, h := e.Window.FramebufferSize()
	l.frame.Resize(float32(w), float32(h))
}

func (l *DebugLayer) OnDetach(e *core.Engine) {}

func (l *DebugLayer) OnTick(e *core.Engine, dt float64) {}

func (l *DebugLayer) OnRender(e *core.Engine) {
	now := time.Now()
	if !l.last.IsZero() {
		l.frameMS = float32(now.Sub(l.last).Seconds() * 1000)
	}
	l.last = now

	if l.visible {
		l.frame.Tree.SetText(l.label, l.hudText())
	}
	l.frame.Tick(e.Uptime())
}

// hudText assembles the overlay string in the scratch buffer to avoid
// allocating sixty strings a second.
func (l *DebugLayer) hudText() string {
	s := l.ui.Stats()
	scratch.Reset()
	b := scratch.F()
	b.S("frame ").F32(l.frameMS, 2).S(" ms")
	if l.frameMS > 0 {
		b.S("  (").F32(1000/l.frameMS, 0).S(" fps)")
	}
	b.C('\n')
	b.S("measured ").I(s.Measured).
		S("  rects ").I(s.RectChanges).
		S("  culled ").I(s.Culled).C('\n')
	b.S("batches +").I(s.Batch.Rebuilt).
		S(" =").I(s.Batch.Retained).
		S("  dropped ").I(s.Batch.Dropped).
		S("  quads ").I(s.Batch.QuadCount).C('\n')
	b.S("mem ").F32(float32(profiler.MemoryUsage())/(1<<20), 1).
		S(" MB  goroutines ").I(profiler.NumGoroutine())
	return scratch.String()
}

func (l *DebugLayer) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventResize:
		l.frame.Resize(float32(v.W), float32(v.H))
	case core.EventKey:
		if v.Down && v.Key == core.KeyTab && v.Mods&core.ModCtrl != 0 {
			l.visible = !l.visible
			l.frame.Tree.SetVisible(l.panel, l.visible)
			return true
		}
		if v.Down && v.Key == core.KeyP && v.Mods&core.ModCtrl != 0 {
			path := filepath.Join(os.TempDir(), "sqgui.speedscope.json")
			if err := profiler.Dump(path); err != nil {
				core.Logger().Warn("profiler dump failed", "err", err)
			} else {
				core.Logger().Info("profiler dump written", "path", path)
			}
			return true
		}
	}
	return false
}

func mustNode(t *ui.Tree, parent ui.NodeID, kind ui.Kind, style ui.Style) ui.NodeID {
	id, err := t.New(parent, kind, style)
	if err != nil {
		panic(err)
	}
	return id
}
