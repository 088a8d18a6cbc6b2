package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/hitscan/ecs"
	"github.com/plus3/hitscan/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	backgroundColor = color.RGBA{24, 26, 32, 255}
	floorColor      = color.RGBA{70, 90, 80, 255}
	boxColor        = color.RGBA{170, 170, 190, 255}
	playerColor     = color.RGBA{110, 200, 255, 255}
	effectColor     = color.RGBA{255, 220, 110, 255}
	decalColor      = color.RGBA{220, 60, 70, 255}
)

// drawContext is the render scheduler's per-frame context.
type drawContext struct {
	Screen        *ebiten.Image
	PixelsPerUnit float64
}

// projection maps the world's XZ plane onto the screen, centred on a
// point. World -Z points up the screen.
type projection struct {
	center        r3.Vec
	scale         float64
	width, height int
}

func (p projection) toScreen(v r3.Vec) (float32, float32) {
	x := float64(p.width)/2 + (v.X-p.center.X)*p.scale
	y := float64(p.height)/2 + (v.Z-p.center.Z)*p.scale
	return float32(x), float32(y)
}

func (p projection) length(d float64) float32 {
	return float32(d * p.scale)
}

// heading is the unit screen direction of a forward vector, or false when
// the vector is vertical.
func heading(forward r3.Vec) (float32, float32, bool) {
	n := math.Hypot(forward.X, forward.Z)
	if n < 1e-9 {
		return 0, 0, false
	}
	return float32(forward.X / n), float32(forward.Z / n), true
}

// RenderSystem draws a top-down view of the store: collider outlines, the
// player, live visuals and the HUD weapon frame.
type RenderSystem struct {
	Colliders ecs.Query[struct {
		*sim.Transform
		*sim.Collider
	}]
	Players ecs.Query[struct {
		*sim.Transform
		*sim.Player
	}]
	Visuals ecs.Query[struct {
		*sim.Transform
		*sim.Sprite
		Decal *sim.Decal `ecs:"optional"`
	}]
	HUD ecs.Query[struct {
		*sim.HUDSprite
		*sim.Weapon
	}]
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame[drawContext]) {
	screen := frame.Context.Screen
	if screen == nil {
		return
	}
	screen.Fill(backgroundColor)

	bounds := screen.Bounds()
	proj := projection{
		scale:  frame.Context.PixelsPerUnit,
		width:  bounds.Dx(),
		height: bounds.Dy(),
	}
	_, player, hasPlayer := s.Players.First()
	if hasPlayer {
		proj.center = player.Transform.Translation
	}

	for item := range s.Colliders.Values() {
		cx, cy := proj.toScreen(item.Transform.Translation)
		switch item.Collider.Shape {
		case sim.ColliderDisc:
			vector.StrokeCircle(screen, cx, cy, proj.length(item.Collider.Radius), 2, floorColor, true)
		case sim.ColliderBox:
			w := proj.length(item.Collider.HalfExtents.X * 2)
			h := proj.length(item.Collider.HalfExtents.Z * 2)
			vector.StrokeRect(screen, cx-w/2, cy-h/2, w, h, 2, boxColor, false)
		}
	}

	for item := range s.Visuals.Values() {
		x, y := proj.toScreen(item.Transform.Translation)
		c := effectColor
		if item.Decal != nil {
			c = decalColor
		}
		vector.DrawFilledCircle(screen, x, y, max(proj.length(0.1), 2), c, true)
	}

	if hasPlayer {
		x, y := proj.toScreen(player.Transform.Translation)
		vector.DrawFilledCircle(screen, x, y, max(proj.length(0.25), 4), playerColor, true)
		if dx, dy, ok := heading(player.Transform.Forward()); ok {
			reach := proj.length(1)
			vector.StrokeLine(screen, x, y, x+dx*reach, y+dy*reach, 2, playerColor, true)
		}
	}

	for item := range s.HUD.Values() {
		ebitenutil.DebugPrintAt(screen, hudLine(item.HUDSprite, item.Weapon), 8, bounds.Dy()-20)
	}
}

func hudLine(hud *sim.HUDSprite, weapon *sim.Weapon) string {
	state := "loaded"
	if !weapon.Loaded {
		state = fmt.Sprintf("reloading %d", weapon.Cooldown)
	}
	return fmt.Sprintf("%s frame %d/%d  %s", hud.Sheet.Key, hud.Index, hud.Sheet.Frames, state)
}
