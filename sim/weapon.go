package sim

import (
	"reflect"

	"github.com/plus3/hitscan/ecs"
)

var collidableType = reflect.TypeFor[Collidable]()

// WeaponLoadSystem runs the reload countdown of every weapon. A weapon
// becomes loaded on the tick after its cooldown reaches zero.
type WeaponLoadSystem struct {
	Weapons ecs.Query[struct {
		*Weapon
		HUD *HUDSprite `ecs:"optional"`
	}]
}

func (s *WeaponLoadSystem) Execute(frame *ecs.UpdateFrame[Intent]) {
	for w := range s.Weapons.Values() {
		switch {
		case !w.Weapon.Loaded && w.Weapon.Cooldown <= 0:
			w.Weapon.Loaded = true
			if w.HUD != nil {
				w.HUD.Index = 0
			}
		case w.Weapon.Cooldown > 0:
			w.Weapon.Cooldown--
			if w.HUD != nil {
				w.HUD.Index = 1
			}
		}
	}
}

// FireSystem fires each player's loaded weapon when the intent says so and
// queues a decal at the nearest collidable hit.
type FireSystem struct {
	Players ecs.Query[struct {
		*Transform
		*Player
	}]
	Decals ecs.Singleton[DecalQueue]
	Stats  ecs.Singleton[WeaponStats]
	Ray    Raycaster
}

func (s *FireSystem) Execute(frame *ecs.UpdateFrame[Intent]) {
	if !frame.Context.Fire {
		return
	}

	stats := s.Stats.Get()
	for player := range s.Players.Values() {
		weaponId, ok := frame.Storage.ResolveEntityRef(player.Player.Weapon)
		if !ok {
			stats.Unbound++
			continue
		}
		weapon := ecs.ReadComponent[Weapon](frame.Storage, weaponId)
		if weapon == nil {
			stats.Unbound++
			continue
		}
		if !weapon.Loaded {
			continue
		}

		weapon.Loaded = false
		weapon.Cooldown = weapon.ReloadFrames
		stats.ShotsFired++

		ray := Ray{Origin: player.Transform.Translation, Direction: player.Transform.Forward()}
		hits := s.Ray.Cast(ray, CastOptions{
			Filter: func(id ecs.EntityId) bool {
				return frame.Storage.HasComponent(id, collidableType)
			},
			EarlyExit: func(ecs.EntityId) bool { return true },
		})

		for _, hit := range hits {
			s.Decals.Get().Push(DecalRequest{
				Position: hit.Position,
				Normal:   hit.Normal,
				Sprite:   weapon.DecalSprite,
			})
			stats.ShotsHit++
		}
	}
}
