package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/hitscan/ecs"
	"github.com/plus3/hitscan/ecs/debugui"
	"github.com/plus3/hitscan/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

var defaultBindings = map[sim.Action][]ebiten.Key{
	sim.MoveForward: {ebiten.KeyW, ebiten.KeyArrowUp},
	sim.MoveLeft:    {ebiten.KeyA, ebiten.KeyArrowLeft},
	sim.MoveBack:    {ebiten.KeyS, ebiten.KeyArrowDown},
	sim.MoveRight:   {ebiten.KeyD, ebiten.KeyArrowRight},
}

// ebitenInput reads the keyboard and mouse through ebiten. Pointer motion
// is only reported while the cursor is captured.
type ebitenInput struct {
	bindings   map[sim.Action][]ebiten.Key
	keyPressed func(ebiten.Key) bool
	motion     motionTracker

	// ui is set when the debug overlay runs; clicks it captures never fire.
	ui *ecs.Singleton[debugui.ImguiInputState]
}

func newEbitenInput() *ebitenInput {
	return &ebitenInput{
		bindings:   defaultBindings,
		keyPressed: ebiten.IsKeyPressed,
	}
}

func (in *ebitenInput) FireJustPressed() bool {
	if in.ui != nil {
		if state := in.ui.Get(); state != nil && state.WantCaptureMouse {
			return false
		}
	}
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func (in *ebitenInput) CancelJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

func (in *ebitenInput) Held(action sim.Action) bool {
	for _, key := range in.bindings[action] {
		if in.keyPressed(key) {
			return true
		}
	}
	return false
}

func (in *ebitenInput) DrainMotion() []r2.Vec {
	x, y := ebiten.CursorPosition()
	delta, ok := in.motion.track(x, y, ebiten.CursorMode() == ebiten.CursorModeCaptured)
	if !ok {
		return nil
	}
	return []r2.Vec{delta}
}

// motionTracker turns absolute cursor positions into deltas. The first
// sample after a capture only primes it so the jump into the window is
// not read as a look.
type motionTracker struct {
	lastX, lastY int
	primed       bool
}

func (m *motionTracker) track(x, y int, captured bool) (r2.Vec, bool) {
	if !captured {
		m.primed = false
		return r2.Vec{}, false
	}
	defer func() { m.lastX, m.lastY, m.primed = x, y, true }()

	if !m.primed || (x == m.lastX && y == m.lastY) {
		return r2.Vec{}, false
	}
	return r2.Vec{X: float64(x - m.lastX), Y: float64(y - m.lastY)}, true
}

// ebitenCursor implements sim.CursorGrabber.
type ebitenCursor struct{}

func (ebitenCursor) Grab() {
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
}

func (ebitenCursor) Release() {
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
}
