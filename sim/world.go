package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/plus3/hitscan/config"
	"github.com/plus3/hitscan/ecs"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// World is the assembled frame-update core: the entity store, the ordered
// scheduler and the scene created from configuration.
type World struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler[Intent]
	Sheets    *Atlas

	player *ecs.EntityRef
	weapon *ecs.EntityRef

	dt           float64
	compactEvery int
	log          *zap.Logger
}

type worldOptions struct {
	log    *zap.Logger
	cursor CursorGrabber
	sheets SheetRegistry
}

type Option func(*worldOptions)

// WithLogger sets the logger used during setup. The tick never logs.
func WithLogger(log *zap.Logger) Option {
	return func(o *worldOptions) { o.log = log }
}

// WithCursorGrabber forwards cursor capture requests to grabber.
func WithCursorGrabber(grabber CursorGrabber) Option {
	return func(o *worldOptions) { o.cursor = grabber }
}

// WithSheets replaces the registry the spawn systems resolve sprite keys
// against. The atlas built from configuration is still used for the HUD.
func WithSheets(sheets SheetRegistry) Option {
	return func(o *worldOptions) { o.sheets = sheets }
}

// NewWorld builds the store, registers the systems in tick order and spawns
// the configured scene.
func NewWorld(cfg *config.Config, input InputSource, opts ...Option) (*World, error) {
	options := worldOptions{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&options)
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	storage.AddSingleton(EffectQueue{})
	storage.AddSingleton(DecalQueue{})
	storage.AddSingleton(SpawnStats{})
	storage.AddSingleton(WeaponStats{})

	atlas := NewAtlas(cfg.Sprites)
	var sheets SheetRegistry = atlas
	if options.sheets != nil {
		sheets = options.sheets
	}

	w := &World{
		Storage:      storage,
		Scheduler:    ecs.NewScheduler[Intent](storage, nil),
		Sheets:       atlas,
		dt:           cfg.Tick.DT,
		compactEvery: cfg.Tick.CompactEvery,
		log:          options.log,
	}

	w.Scheduler.Register(&InputSystem{Source: input, Cursor: options.cursor})
	w.Scheduler.Register(&PlayerMoveSystem{
		Sensitivity: cfg.Player.Sensitivity,
		PitchLimit:  cfg.Player.PitchLimit,
		Speed:       cfg.Player.Speed,
	})
	w.Scheduler.Register(&WeaponLoadSystem{})
	w.Scheduler.Register(&FireSystem{})
	w.Scheduler.Register(&EffectAnimationSystem{})
	w.Scheduler.Register(&DecalAnimationSystem{})
	w.Scheduler.Register(&SpawnEffectsSystem{Sheets: sheets, Period: cfg.Effects.EffectPeriod})
	w.Scheduler.Register(&SpawnDecalsSystem{Sheets: sheets, Period: cfg.Effects.DecalPeriod})

	if err := w.spawnScene(cfg); err != nil {
		return nil, err
	}

	w.log.Info("world ready",
		zap.Int("systems", w.Scheduler.GetStats().SystemCount),
		zap.Int("entities", storage.CollectStats().TotalEntityCount),
		zap.Int("sheets", atlas.Len()),
	)
	return w, nil
}

func vec(p [3]float64) r3.Vec {
	return r3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

func (w *World) spawnScene(cfg *config.Config) error {
	for _, floor := range cfg.Scene.Floors {
		w.Storage.Spawn(
			Transform{Translation: vec(floor.Center), Rotation: r3.NewRotation(-math.Pi/2, worldX)},
			Collider{Shape: ColliderDisc, Radius: floor.Radius},
			Collidable{},
		)
	}
	for _, box := range cfg.Scene.Boxes {
		half := box.Size / 2
		w.Storage.Spawn(
			NewTransform(vec(box.Center)),
			Collider{Shape: ColliderBox, HalfExtents: r3.Vec{X: half, Y: half, Z: half}},
			Collidable{},
		)
	}
	w.log.Debug("scene geometry spawned",
		zap.Int("floors", len(cfg.Scene.Floors)),
		zap.Int("boxes", len(cfg.Scene.Boxes)),
	)

	weapon := []any{Weapon{
		ReloadFrames: cfg.Weapon.ReloadFrames,
		DecalSprite:  cfg.Weapon.DecalSprite,
	}}
	if cfg.Weapon.Sprite != "" {
		sheet, ok := w.Sheets.Sheet(cfg.Weapon.Sprite)
		if !ok {
			return fmt.Errorf("weapon sprite %q not defined", cfg.Weapon.Sprite)
		}
		weapon = append(weapon, HUDSprite{Sheet: sheet})
	}
	w.weapon = w.Storage.CreateEntityRef(w.Storage.Spawn(weapon...))

	playerId := w.Storage.Spawn(
		NewTransform(vec(cfg.Scene.Player.Position)),
		Player{Weapon: w.weapon},
		Camera{},
	)
	w.player = w.Storage.CreateEntityRef(playerId)

	w.log.Debug("player spawned", zap.Any("position", cfg.Scene.Player.Position))
	return nil
}

// Step runs one tick of dt seconds.
func (w *World) Step(dt float64) {
	w.Scheduler.Once(dt)
	if w.compactEvery > 0 && w.Tick()%uint64(w.compactEvery) == 0 {
		w.Storage.Compact()
	}
}

// Run steps the world at the configured fixed timestep until ctx is done.
func (w *World) Run(ctx context.Context) {
	interval := time.Duration(w.dt * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Step(w.dt)
		}
	}
}

// DT returns the configured fixed timestep in seconds.
func (w *World) DT() float64 {
	return w.dt
}

// Tick returns the number of completed ticks.
func (w *World) Tick() uint64 {
	return w.Scheduler.GetStats().Ticks
}

// Intent returns the tick context shared by the systems.
func (w *World) Intent() *Intent {
	return w.Scheduler.Context()
}

// Player returns the player's transform, or nil if the player is gone.
func (w *World) Player() *Transform {
	id, ok := w.Storage.ResolveEntityRef(w.player)
	if !ok {
		return nil
	}
	return ecs.ReadComponent[Transform](w.Storage, id)
}

// PlayerRef returns the player's entity reference.
func (w *World) PlayerRef() *ecs.EntityRef {
	return w.player
}

// Weapon returns the player's weapon state, or nil if it is gone.
func (w *World) Weapon() *Weapon {
	id, ok := w.Storage.ResolveEntityRef(w.weapon)
	if !ok {
		return nil
	}
	return ecs.ReadComponent[Weapon](w.Storage, id)
}

// WeaponRef returns the weapon's entity reference.
func (w *World) WeaponRef() *ecs.EntityRef {
	return w.weapon
}

// Effects returns the effect queue. Weapon fire never fills it; hosts may.
func (w *World) Effects() *EffectQueue {
	return ecs.NewSingleton[EffectQueue](w.Storage).Get()
}

// Decals returns the decal queue.
func (w *World) Decals() *DecalQueue {
	return ecs.NewSingleton[DecalQueue](w.Storage).Get()
}

func (w *World) SpawnStats() SpawnStats {
	return *ecs.NewSingleton[SpawnStats](w.Storage).Get()
}

func (w *World) WeaponStats() WeaponStats {
	return *ecs.NewSingleton[WeaponStats](w.Storage).Get()
}

// Visual is a snapshot of one live timed visual.
type Visual struct {
	Entity    ecs.EntityId
	Transform Transform
	Sprite    Sprite
	Decal     bool
}

// Visuals lists every live effect and decal in store order.
func (w *World) Visuals() []Visual {
	var out []Visual
	view := ecs.NewView[struct {
		ecs.EntityId
		*Transform
		*Sprite
		Effect *EffectAnimation `ecs:"optional"`
		Decal  *Decal           `ecs:"optional"`
	}](w.Storage)

	for item := range view.Values() {
		if item.Effect == nil && item.Decal == nil {
			continue
		}
		out = append(out, Visual{
			Entity:    item.EntityId,
			Transform: *item.Transform,
			Sprite:    *item.Sprite,
			Decal:     item.Decal != nil,
		})
	}
	return out
}
