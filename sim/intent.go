package sim

import (
	"github.com/plus3/hitscan/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// Intent is the per-tick input record. The scheduler owns it and hands it
// to every system through UpdateFrame.Context.
type Intent struct {
	Movement r2.Vec // each axis in {-1, 0, 1}; +X right, +Y forward
	Aim      r2.Vec // pointer delta accumulated until PlayerMoveSystem consumes it
	Fire     bool
}

// Action is a held movement control.
type Action int

const (
	MoveForward Action = iota
	MoveLeft
	MoveBack
	MoveRight
)

// InputSource is the device boundary. Fire and cancel are edges, movement
// is level, and motion samples are drained once per poll.
type InputSource interface {
	FireJustPressed() bool
	CancelJustPressed() bool
	Held(action Action) bool
	DrainMotion() []r2.Vec
}

// CursorGrabber captures the pointer on fire and releases it on cancel.
type CursorGrabber interface {
	Grab()
	Release()
}

// InputSystem turns the raw device state into this tick's Intent.
type InputSystem struct {
	Source InputSource
	Cursor CursorGrabber
}

// Execute resets Intent and refills it from Source, grabbing or releasing
// the cursor on fire and cancel.
func (s *InputSystem) Execute(frame *ecs.UpdateFrame[Intent]) {
	intent := frame.Context
	intent.Movement = r2.Vec{}
	intent.Fire = false

	fire := s.Source.FireJustPressed()
	cancel := s.Source.CancelJustPressed()
	if fire {
		intent.Fire = true
	}

	// Later checks overwrite the same axis: back beats forward, right beats left.
	if s.Source.Held(MoveForward) {
		intent.Movement.Y = 1
	}
	if s.Source.Held(MoveLeft) {
		intent.Movement.X = -1
	}
	if s.Source.Held(MoveBack) {
		intent.Movement.Y = -1
	}
	if s.Source.Held(MoveRight) {
		intent.Movement.X = 1
	}

	for _, delta := range s.Source.DrainMotion() {
		intent.Aim = r2.Add(intent.Aim, delta)
	}

	if s.Cursor != nil {
		if fire {
			s.Cursor.Grab()
		}
		if cancel {
			s.Cursor.Release()
		}
	}
}

// ScriptedInput is an InputSource driven from code. Edges and motion are
// consumed by the next poll; held actions stay held until released.
type ScriptedInput struct {
	held   [MoveRight + 1]bool
	fire   bool
	cancel bool
	motion []r2.Vec
}

func NewScriptedInput() *ScriptedInput {
	return &ScriptedInput{}
}

func (s *ScriptedInput) Press(action Action) { s.held[action] = true }
func (s *ScriptedInput) Release(action Action) { s.held[action] = false }
func (s *ScriptedInput) ReleaseAll() { s.held = [MoveRight + 1]bool{} }

// PullTrigger queues a fire edge for the next poll.
func (s *ScriptedInput) PullTrigger() { s.fire = true }

// PressCancel queues a cancel edge for the next poll.
func (s *ScriptedInput) PressCancel() { s.cancel = true }

// Look queues one pointer-motion sample.
func (s *ScriptedInput) Look(dx, dy float64) {
	s.motion = append(s.motion, r2.Vec{X: dx, Y: dy})
}

func (s *ScriptedInput) FireJustPressed() bool {
	fire := s.fire
	s.fire = false
	return fire
}

func (s *ScriptedInput) CancelJustPressed() bool {
	cancel := s.cancel
	s.cancel = false
	return cancel
}

func (s *ScriptedInput) Held(action Action) bool {
	return action >= 0 && int(action) < len(s.held) && s.held[action]
}

func (s *ScriptedInput) DrainMotion() []r2.Vec {
	motion := s.motion
	s.motion = nil
	return motion
}
