package sim

import "github.com/plus3/hitscan/ecs"

// SpawnEffectsSystem materialises at most one queued effect per tick, facing
// the first camera's yaw, and clears the queue whatever happened.
type SpawnEffectsSystem struct {
	Sheets SheetRegistry
	Period float64

	Queue   ecs.Singleton[EffectQueue]
	Stats   ecs.Singleton[SpawnStats]
	Cameras ecs.Query[struct {
		*Transform
		*Camera
	}]
}

func (s *SpawnEffectsSystem) Execute(frame *ecs.UpdateFrame[Intent]) {
	queue := s.Queue.Get()
	defer queue.clear()

	if queue.Len() == 0 {
		return
	}
	stats := s.Stats.Get()
	stats.Dropped += queue.Len() - 1

	req := queue.Queued[0]
	_, camera, ok := s.Cameras.First()
	if !ok {
		stats.NoCamera++
		return
	}
	sheet, ok := s.Sheets.Sheet(req.Sprite)
	if !ok {
		stats.UnknownSprite++
		return
	}

	frame.Commands.Spawn(
		Transform{Translation: req.Position, Rotation: yawRotation(camera.Transform.Yaw())},
		Sprite{Sheet: sheet},
		EffectAnimation{Timer: NewTimer(s.Period)},
	)
	stats.EffectsSpawned++
}

// SpawnDecalsSystem materialises at most one queued decal per tick, looking
// along the surface normal, and clears the queue.
type SpawnDecalsSystem struct {
	Sheets SheetRegistry
	Period float64

	Queue ecs.Singleton[DecalQueue]
	Stats ecs.Singleton[SpawnStats]
}

func (s *SpawnDecalsSystem) Execute(frame *ecs.UpdateFrame[Intent]) {
	queue := s.Queue.Get()
	defer queue.clear()

	if queue.Len() == 0 {
		return
	}
	stats := s.Stats.Get()
	stats.Dropped += queue.Len() - 1

	req := queue.Queued[0]
	sheet, ok := s.Sheets.Sheet(req.Sprite)
	if !ok {
		stats.UnknownSprite++
		return
	}

	frame.Commands.Spawn(
		Transform{Translation: req.Position, Rotation: lookTo(req.Normal)},
		Sprite{Sheet: sheet},
		Decal{Timer: NewTimer(s.Period)},
	)
	stats.DecalsSpawned++
}
