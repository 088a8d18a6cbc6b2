package sim_test

import (
	"fmt"

	"github.com/plus3/hitscan/config"
	"github.com/plus3/hitscan/sim"
)

func Example() {
	cfg := config.Default()
	input := sim.NewScriptedInput()

	world, err := sim.NewWorld(cfg, input)
	if err != nil {
		panic(err)
	}

	// The weapon loads on the first tick.
	world.Step(cfg.Tick.DT)

	input.PullTrigger()
	world.Step(cfg.Tick.DT)

	weapon := world.Weapon()
	fmt.Println(weapon.Loaded, weapon.Cooldown)

	for _, v := range world.Visuals() {
		p := v.Transform.Translation
		fmt.Printf("%s at height %.1f, depth %.1f\n", v.Sprite.Sheet.Key, p.Y, p.Z)
	}
	// Output:
	// false 15
	// fx_splat at height 1.5, depth -3.0
}

func ExampleScriptedInput() {
	input := sim.NewScriptedInput()
	input.Press(sim.MoveForward)
	input.Look(4, -2)
	input.Look(1, 0)

	fmt.Println(input.Held(sim.MoveForward), input.Held(sim.MoveBack))
	fmt.Println(len(input.DrainMotion()), len(input.DrainMotion()))
	// Output:
	// true false
	// 2 0
}
