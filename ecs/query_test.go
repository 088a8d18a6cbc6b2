package ecs_test

import (
	"testing"

	"github.com/plus3/hitscan/ecs"
)

func TestQueryRequiresExecute(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Position }](storage)

	defer func() {
		if recover() == nil {
			t.Error("expected Iter before Execute to panic")
		}
	}()
	for range query.Iter() {
	}
}

func TestQuerySnapshot(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2})

	query := ecs.NewQuery[struct{ *Position }](storage)
	query.Execute()

	storage.Spawn(Position{X: 3})

	if query.Len() != 2 {
		t.Errorf("expected snapshot of 2 entities, got %d", query.Len())
	}

	query.Execute()
	if query.Len() != 3 {
		t.Errorf("expected 3 entities after re-execute, got %d", query.Len())
	}
}

func TestQueryPicksUpNewArchetypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 1})

	query := ecs.NewQuery[struct {
		ecs.EntityId
		*Position
	}](storage)
	query.Execute()

	tagged := storage.Spawn(Position{X: 2}, Marker{})
	query.Execute()

	found := false
	for id, item := range query.Iter() {
		if item.EntityId != id {
			t.Errorf("EntityId field %v does not match yielded id %v", item.EntityId, id)
		}
		if id == tagged {
			found = true
		}
	}
	if !found {
		t.Error("entity in a new archetype was not matched")
	}
}

func TestQueryDeletedEntitiesDropOut(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	a := storage.Spawn(Ammo{Rounds: 1})
	storage.Spawn(Ammo{Rounds: 2})

	query := ecs.NewQuery[struct{ *Ammo }](storage)
	storage.Delete(a)
	query.Execute()

	total := 0
	for item := range query.Values() {
		total += item.Ammo.Rounds
	}
	if total != 2 {
		t.Errorf("expected only the surviving entity, got rounds total %d", total)
	}
}

func TestQueryFirst(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Velocity }](storage)
	query.Execute()

	if _, _, ok := query.First(); ok {
		t.Error("expected no first entity in an empty query")
	}

	id := storage.Spawn(Velocity{DZ: -1})
	query.Execute()

	first, item, ok := query.First()
	if !ok || first != id {
		t.Fatalf("expected first entity %v, got %v (ok=%v)", id, first, ok)
	}
	if item.Velocity.DZ != -1 {
		t.Errorf("expected DZ -1, got %v", item.Velocity.DZ)
	}
}
