package main

import (
	"math/rand/v2"

	"github.com/plus3/hitscan/sim"
)

var moves = [...]sim.Action{sim.MoveForward, sim.MoveLeft, sim.MoveBack, sim.MoveRight}

// pilot drives a ScriptedInput like a restless player: it keeps looking
// around, changes direction every holdTicks and pulls the trigger whenever
// the weapon could be ready.
type pilot struct {
	input     *sim.ScriptedInput
	rng       *rand.Rand
	holdTicks int
	held      sim.Action
}

func newPilot(input *sim.ScriptedInput, seed uint64) *pilot {
	return &pilot{
		input:     input,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		holdTicks: 30,
	}
}

func (p *pilot) steer(tick uint64) {
	if tick%uint64(p.holdTicks) == 0 {
		p.input.ReleaseAll()
		p.held = moves[p.rng.IntN(len(moves))]
		p.input.Press(p.held)
	}
	p.input.Look(p.rng.Float64()*40-20, p.rng.Float64()*10-5)
	p.input.PullTrigger()
}
