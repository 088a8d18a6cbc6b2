package sim

import (
	"testing"

	"github.com/plus3/hitscan/ecs"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

type recordingCursor struct {
	grabs, releases int
}

func (c *recordingCursor) Grab()    { c.grabs++ }
func (c *recordingCursor) Release() { c.releases++ }

func TestInputMovementAxes(t *testing.T) {
	tests := []struct {
		name string
		held []Action
		want r2.Vec
	}{
		{"idle", nil, r2.Vec{}},
		{"forward", []Action{MoveForward}, r2.Vec{Y: 1}},
		{"back", []Action{MoveBack}, r2.Vec{Y: -1}},
		{"left", []Action{MoveLeft}, r2.Vec{X: -1}},
		{"right", []Action{MoveRight}, r2.Vec{X: 1}},
		{"diagonal", []Action{MoveForward, MoveLeft}, r2.Vec{X: -1, Y: 1}},
		{"back overwrites forward", []Action{MoveForward, MoveBack}, r2.Vec{Y: -1}},
		{"right overwrites left", []Action{MoveRight, MoveLeft}, r2.Vec{X: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig()
			for _, action := range tt.held {
				r.input.Press(action)
			}
			r.scheduler.Once(0.016)
			assert.Equal(t, tt.want, r.scheduler.Context().Movement)
		})
	}
}

func TestInputResetsEveryTick(t *testing.T) {
	r := newRig()

	r.input.Press(MoveForward)
	r.input.PullTrigger()
	r.scheduler.Once(0.016)
	assert.True(t, r.scheduler.Context().Fire)

	r.input.ReleaseAll()
	r.scheduler.Once(0.016)
	assert.False(t, r.scheduler.Context().Fire, "fire is an edge")
	assert.Equal(t, r2.Vec{}, r.scheduler.Context().Movement)
}

func TestAimAccumulatesUntilConsumed(t *testing.T) {
	r := newRig()

	r.input.Look(3, 1)
	r.input.Look(2, -4)
	r.scheduler.Once(0.016)
	assert.Equal(t, r2.Vec{X: 5, Y: -3}, r.scheduler.Context().Aim, "nothing consumes aim without a player")

	r.input.Look(1, 1)
	r.scheduler.Once(0.016)
	assert.Equal(t, r2.Vec{X: 6, Y: -2}, r.scheduler.Context().Aim)

	r.armedPlayer(r3.Vec{}, Weapon{})
	r.scheduler.Once(0.016)
	assert.Equal(t, r2.Vec{}, r.scheduler.Context().Aim)
}

func TestCursorSideChannel(t *testing.T) {
	input := NewScriptedInput()
	cursor := &recordingCursor{}
	system := &InputSystem{Source: input, Cursor: cursor}
	frame := &ecs.UpdateFrame[Intent]{Context: &Intent{}}

	input.PullTrigger()
	system.Execute(frame)
	input.PressCancel()
	system.Execute(frame)
	system.Execute(frame)

	assert.Equal(t, 1, cursor.grabs)
	assert.Equal(t, 1, cursor.releases)
	assert.False(t, frame.Context.Fire, "cursor capture carries nothing into the intent")
}
