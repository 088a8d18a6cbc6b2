package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hitscan/ecs"
	"github.com/plus3/hitscan/ecs/debugui"
	"github.com/plus3/hitscan/sim"
)

// spawnOverlay registers the debug UI with the world and spawns its panels.
// It returns the accessor the input adapter uses to ignore captured clicks.
func spawnOverlay(world *sim.World) *ecs.Singleton[debugui.ImguiInputState] {
	debugui.RegisterComponents(world.Storage.Registry())
	state := ecs.NewSingleton[debugui.ImguiInputState](world.Storage)
	world.Scheduler.Register(&debugui.ImguiSystem[sim.Intent]{})

	world.Storage.Spawn(debugui.NewStatsPanel(world.Scheduler, 120).Item())
	world.Storage.Spawn(debugui.NewInspector(world.Storage,
		debugui.Watch{Label: "player", Ref: world.PlayerRef()},
		debugui.Watch{Label: "weapon", Ref: world.WeaponRef()},
	).Item())
	world.Storage.Spawn(debugui.ImguiItem{Render: func() { renderWorldPanel(world) }})

	return state
}

func renderWorldPanel(world *sim.World) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(300, 260), imgui.CondOnce)
	if !imgui.BeginV("Hitscan", nil, 0) {
		imgui.End()
		return
	}

	intent := world.Intent()
	imgui.Text(fmt.Sprintf("Tick: %d", world.Tick()))
	imgui.Text(fmt.Sprintf("Move: (%.0f, %.0f)  Fire: %t", intent.Movement.X, intent.Movement.Y, intent.Fire))

	if player := world.Player(); player != nil {
		yaw, pitch := player.YawPitch()
		p := player.Translation
		imgui.Text(fmt.Sprintf("Position: (%.2f, %.2f, %.2f)", p.X, p.Y, p.Z))
		imgui.Text(fmt.Sprintf("Yaw %.2f  Pitch %.2f", yaw, pitch))
	} else {
		imgui.Text("Player: gone")
	}

	imgui.Separator()
	if weapon := world.Weapon(); weapon != nil {
		imgui.Text(fmt.Sprintf("Weapon: loaded=%t cooldown=%d/%d", weapon.Loaded, weapon.Cooldown, weapon.ReloadFrames))
	} else {
		imgui.Text("Weapon: unbound")
	}
	shots := world.WeaponStats()
	imgui.Text(fmt.Sprintf("Shots: %d fired, %d hit", shots.ShotsFired, shots.ShotsHit))

	imgui.Separator()
	spawn := world.SpawnStats()
	imgui.Text(fmt.Sprintf("Visuals live: %d", len(world.Visuals())))
	imgui.Text(fmt.Sprintf("Decals: %d spawned, %d retired", spawn.DecalsSpawned, spawn.VisualsRetired))
	imgui.Text(fmt.Sprintf("Dropped: %d  No camera: %d  Unknown sprite: %d", spawn.Dropped, spawn.NoCamera, spawn.UnknownSprite))

	imgui.End()
}
