package sim

import (
	"time"

	"github.com/plus3/hitscan/ecs"
)

// advanceFrame ticks timer and steps the sprite on expiry. It reports
// whether the sheet wrapped back to frame 0, i.e. the visual is done.
func advanceFrame(timer *Timer, sprite *Sprite, dt time.Duration) bool {
	timer.Tick(dt)
	if !timer.JustFinished() {
		return false
	}
	sprite.Index = (sprite.Index + 1) % max(sprite.Sheet.Frames, 1)
	return sprite.Index == 0
}

// EffectAnimationSystem ages effects, retires finished ones and keeps every
// effect turned towards the first camera's yaw.
type EffectAnimationSystem struct {
	Effects ecs.Query[struct {
		ecs.EntityId
		*Transform
		*Sprite
		*EffectAnimation
	}]
	Cameras ecs.Query[struct {
		*Transform
		*Camera
	}]
	Stats ecs.Singleton[SpawnStats]
}

func (s *EffectAnimationSystem) Execute(frame *ecs.UpdateFrame[Intent]) {
	dt := frame.Elapsed()
	_, camera, hasCamera := s.Cameras.First()

	for effect := range s.Effects.Values() {
		if advanceFrame(&effect.EffectAnimation.Timer, effect.Sprite, dt) {
			frame.Commands.Delete(effect.EntityId)
			s.Stats.Get().VisualsRetired++
		}
		if hasCamera {
			effect.Transform.Rotation = yawRotation(camera.Transform.Yaw())
		}
	}
}

// DecalAnimationSystem ages decals. Their orientation is fixed at spawn.
type DecalAnimationSystem struct {
	Decals ecs.Query[struct {
		ecs.EntityId
		*Sprite
		*Decal
	}]
	Stats ecs.Singleton[SpawnStats]
}

func (s *DecalAnimationSystem) Execute(frame *ecs.UpdateFrame[Intent]) {
	dt := frame.Elapsed()
	for decal := range s.Decals.Values() {
		if advanceFrame(&decal.Decal.Timer, decal.Sprite, dt) {
			frame.Commands.Delete(decal.EntityId)
			s.Stats.Get().VisualsRetired++
		}
	}
}
