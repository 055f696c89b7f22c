package main

import (
	"fmt"
	"time"

	"github.com/sqgui/sqgui/engine/anim"
	"github.com/sqgui/sqgui/engine/assets"
	"github.com/sqgui/sqgui/engine/core"
	"github.com/sqgui/sqgui/engine/geom"
	"github.com/sqgui/sqgui/engine/gfx/batch"
	"github.com/sqgui/sqgui/engine/profiler"
	"github.com/sqgui/sqgui/engine/text"
	"github.com/sqgui/sqgui/engine/theme"
	"github.com/sqgui/sqgui/engine/ui"
)

const (
	sidebarWidth     = 220
	sidebarWideWidth = 320
)

// UILayer owns the widget-gallery scene: a header bar, a sidebar with the
// interactive controls, and a scrollable content area with wrapped text and a
// flow of image tiles.
type UILayer struct {
	cfg    core.Config
	frame  *ui.Frame
	fonts  *text.Store
	images *assets.Registry
	anims  *anim.Timeline

	sidebar ui.NodeID
	slider  ui.NodeID
	readout ui.NodeID
	input   ui.NodeID
	wide    bool
}

func NewUILayer(cfg core.Config) *UILayer { return &UILayer{cfg: cfg} }

func (l *UILayer) OnAttach(e *core.Engine) {
	l.fonts = text.NewStore(e.Renderer)
	if err := l.fonts.RegisterFile("default", "assets/RobotoMono.ttf"); err != nil {
		core.Logger().Warn("default font unavailable", "err", err)
	}
	l.images = assets.NewRegistry(e.Renderer, "assets")
	hasLogo := true
	if _, err := l.images.LoadTexture("logo", "logo.png"); err != nil {
		core.Logger().Warn("logo texture unavailable", "err", err)
		hasLogo = false
	}
	l.anims = anim.NewTimeline()

	sub, ok := e.Renderer.(batch.Submitter)
	if !ok {
		panic("renderer does not accept batch submissions")
	}
	l.frame = ui.NewFrame(ui.NewTree(), sub, theme.Dark(), l.fonts, ui.FrameConfig{
		MaxQuadsPerBatch: l.cfg.MaxQuadsPerBatch,
		OcclusionCulling: l.cfg.OcclusionCulling,
		DragThresholdPx:  l.cfg.DragThresholdPx,
	})
	l.frame.SetTextures(l.images)
	l.frame.SetAnimator(l.anims)

	l.buildScene(e, hasLogo)

	w, h := e.Window.FramebufferSize()
	l.frame.Resize(float32(w), float32(h))
}

func (l *UILayer) buildScene(e *core.Engine, hasLogo bool) {
	t := l.frame.Tree

	rootStyle := ui.DefaultStyle()
	rootStyle.Width = ui.Percent(100)
	rootStyle.Height = ui.Percent(100)
	rootStyle.Padding = geom.InsetsAll(16)
	rootStyle.Gap = 12
	rootStyle.CrossAlign = ui.AlignStretch
	root := t.NewRoot(rootStyle)

	// Header bar: title on the left, quit on the right.
	headerStyle := ui.DefaultStyle()
	headerStyle.Mode = ui.ModeRow
	headerStyle.Padding = geom.InsetsAll(12)
	headerStyle.Gap = 8
	headerStyle.CrossAlign = ui.AlignCenter
	header := l.node(root, ui.KindPanel, headerStyle)

	title := l.node(header, ui.KindLabel, ui.DefaultStyle())
	t.SetText(title, "sqgui sandbox")
	t.Get(title).FontSize = 22

	spacerStyle := ui.DefaultStyle()
	spacerStyle.Flex = 1
	spacer := l.node(header, ui.KindLabel, spacerStyle)
	t.Get(spacer).PassThrough = true

	quit := l.node(header, ui.KindButton, buttonStyle())
	t.SetText(quit, "Quit")
	l.frame.Router.Handle(quit, func(_ ui.NodeID, ev ui.Event) bool {
		if _, ok := ev.(ui.ClickEvent); ok {
			e.Window.RequestClose()
			return true
		}
		return false
	})

	// Body: sidebar plus scrollable content.
	bodyStyle := ui.DefaultStyle()
	bodyStyle.Mode = ui.ModeRow
	bodyStyle.Flex = 1
	bodyStyle.Gap = 12
	bodyStyle.CrossAlign = ui.AlignStretch
	body := l.node(root, ui.KindPanel, bodyStyle)
	t.Get(body).PassThrough = true

	l.buildSidebar(t, body)
	l.buildContent(t, body, hasLogo)
}

func (l *UILayer) buildSidebar(t *ui.Tree, parent ui.NodeID) {
	style := ui.DefaultStyle()
	style.Width = ui.Fixed(sidebarWidth)
	style.Padding = geom.InsetsAll(12)
	style.Gap = 10
	style.CrossAlign = ui.AlignStretch
	l.sidebar = l.node(parent, ui.KindPanel, style)

	grow := l.node(l.sidebar, ui.KindButton, buttonStyle())
	t.SetText(grow, "Toggle width")
	l.frame.Router.Handle(grow, func(_ ui.NodeID, ev ui.Event) bool {
		if _, ok := ev.(ui.ClickEvent); !ok {
			return false
		}
		from, to := float32(sidebarWidth), float32(sidebarWideWidth)
		if l.wide {
			from, to = to, from
		}
		l.wide = !l.wide
		l.anims.Tween(l.sidebar, ui.PropWidth, from, to, 200*time.Millisecond, anim.EaseOutCubic)
		l.frame.Animate(l.sidebar, ui.PropWidth)
		return true
	})

	l.slider = l.node(l.sidebar, ui.KindSlider, ui.DefaultStyle())
	t.SetValue(l.slider, 0.5)
	l.frame.Router.Handle(l.slider, func(_ ui.NodeID, ev ui.Event) bool {
		switch e := ev.(type) {
		case ui.PointerDownEvent:
			l.setSlider(e.Pos.X)
			return true
		case ui.DragEvent:
			if e.Phase != ui.GestureCancel {
				l.setSlider(e.Pos.X)
			}
			return true
		}
		return false
	})

	l.readout = l.node(l.sidebar, ui.KindLabel, ui.DefaultStyle())
	t.SetText(l.readout, "50%")

	inputStyle := ui.DefaultStyle()
	inputStyle.Height = ui.Fixed(28)
	inputStyle.Padding = geom.Insets{L: 6, R: 6}
	l.input = l.node(l.sidebar, ui.KindTextInput, inputStyle)
	l.frame.Router.Handle(l.input, func(id ui.NodeID, ev ui.Event) bool {
		switch e := ev.(type) {
		case ui.CharEvent:
			t.SetText(id, t.Get(id).Text+string(e.Rune))
			return true
		case ui.KeyEvent:
			if e.Down && e.Key == core.KeyBackspace {
				cur := []rune(t.Get(id).Text)
				if len(cur) > 0 {
					t.SetText(id, string(cur[:len(cur)-1]))
				}
				return true
			}
		}
		return false
	})
}

func (l *UILayer) buildContent(t *ui.Tree, parent ui.NodeID, hasLogo bool) {
	style := ui.DefaultStyle()
	style.Flex = 1
	style.Padding = geom.InsetsAll(12)
	style.Gap = 8
	style.CrossAlign = ui.AlignStretch
	style.Scroll = ui.ScrollVertical
	content := l.node(parent, ui.KindPanel, style)

	para := l.node(content, ui.KindLabel, ui.DefaultStyle())
	t.SetText(para, "Drag the slider, type into the input, and toggle the "+
		"sidebar width to watch the damage tracker relayout only the dirty "+
		"subtree. The debug overlay shows how many nodes were measured and "+
		"how many batches survived from the previous frame.")

	if !hasLogo {
		return
	}
	flowStyle := ui.DefaultStyle()
	flowStyle.Mode = ui.ModeFlow
	flowStyle.Gap = 6
	flow := l.node(content, ui.KindPanel, flowStyle)
	tileStyle := ui.DefaultStyle()
	tileStyle.Width = ui.Fixed(48)
	tileStyle.Height = ui.Fixed(48)
	for i := 0; i < 12; i++ {
		tile := l.node(flow, ui.KindImage, tileStyle)
		t.Get(tile).Texture = "logo"
	}
}

func (l *UILayer) setSlider(x float32) {
	r := l.frame.Tree.Get(l.slider).Rect()
	if r.W <= 0 {
		return
	}
	v := (x - r.X) / r.W
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	l.frame.Tree.SetValue(l.slider, v)
	l.frame.Tree.SetText(l.readout, fmt.Sprintf("%d%%", int(v*100+0.5)))
}

func (l *UILayer) node(parent ui.NodeID, kind ui.Kind, style ui.Style) ui.NodeID {
	id, err := l.frame.Tree.New(parent, kind, style)
	if err != nil {
		panic(err)
	}
	return id
}

func buttonStyle() ui.Style {
	s := ui.DefaultStyle()
	s.Height = ui.Fixed(32)
	s.Padding = geom.Insets{L: 14, R: 14}
	return s
}

func (l *UILayer) OnDetach(e *core.Engine) {}

func (l *UILayer) OnTick(e *core.Engine, dt float64) {}

func (l *UILayer) OnRender(e *core.Engine) {
	defer profiler.Start("ui.tick")()
	l.frame.Tick(e.Uptime())
}

func (l *UILayer) OnEvent(e *core.Engine, ev core.Event) bool {
	if v, ok := ev.(core.EventResize); ok {
		l.frame.Resize(float32(v.W), float32(v.H))
		return false
	}
	l.frame.Enqueue(ev)
	return false
}

// Stats exposes the most recent frame snapshot to the debug overlay.
func (l *UILayer) Stats() ui.FrameStats { return l.frame.Stats() }

// Fonts shares the glyph store with other layers.
func (l *UILayer) Fonts() *text.Store { return l.fonts }
