package sim

import (
	"github.com/plus3/hitscan/ecs"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// PlayerMoveSystem turns the intent into player look and camera-relative
// movement. Aim is consumed; movement ignores pitch.
type PlayerMoveSystem struct {
	Sensitivity float64
	PitchLimit  float64
	Speed       float64

	Players ecs.Query[struct {
		*Transform
		*Player
	}]
}

func (s *PlayerMoveSystem) Execute(frame *ecs.UpdateFrame[Intent]) {
	intent := frame.Context
	dt := frame.DeltaTime

	for player := range s.Players.Values() {
		yaw, pitch := player.Transform.YawPitch()
		yaw += intent.Aim.X * -s.Sensitivity * dt
		pitch += intent.Aim.Y * -s.Sensitivity * dt
		pitch = max(-s.PitchLimit, min(s.PitchLimit, pitch))

		player.Transform.Rotation = yawPitchRotation(yaw, pitch)
		intent.Aim = r2.Vec{}

		move := yawRotation(yaw).Rotate(r3.Vec{X: intent.Movement.X, Z: -intent.Movement.Y})
		player.Transform.Translation = r3.Add(player.Transform.Translation, r3.Scale(s.Speed*dt, move))
	}
}
