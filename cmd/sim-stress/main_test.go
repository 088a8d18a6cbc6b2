package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/plus3/hitscan/config"
	"github.com/plus3/hitscan/ecs"
	"github.com/plus3/hitscan/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRunTickLimit(t *testing.T) {
	var csv bytes.Buffer
	report, err := run(context.Background(), config.Default(), options{
		duration:       time.Minute,
		maxTicks:       120,
		seed:           7,
		effectsPerTick: 2,
		sampleEvery:    30,
	}, &csv, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, int64(120), report.TotalUpdates)
	assert.NotEmpty(t, report.RunID)
	assert.Greater(t, report.Weapon.ShotsFired, 0)
	assert.Equal(t, 120, report.Spawn.EffectsSpawned, "one effect survives each tick")
	assert.GreaterOrEqual(t, report.Spawn.Dropped, 120)
	assert.Len(t, report.Systems, 8)
	assert.LessOrEqual(t, report.UpdateTime.Min, report.UpdateTime.Avg)
	assert.LessOrEqual(t, report.UpdateTime.Avg, report.UpdateTime.Max)

	lines := strings.Split(strings.TrimSpace(csv.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "tick,step_us,entities"))
	assert.True(t, strings.HasPrefix(lines[1], "30,"))
	assert.True(t, strings.HasPrefix(lines[4], "120,"))
	assert.Equal(t, 4, report.CSVRows)
}

func TestRunStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := run(ctx, config.Default(), options{duration: time.Minute, seed: 1}, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Zero(t, report.TotalUpdates)
	assert.Zero(t, report.CSVRows)
}

func TestRunRejectsUnknownWeaponSprite(t *testing.T) {
	cfg := config.Default()
	cfg.Weapon.Sprite = "missing"

	_, err := run(context.Background(), cfg, options{duration: time.Second, maxTicks: 1}, nil, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "building world")
}

func TestPilotIsDeterministic(t *testing.T) {
	a, b := sim.NewScriptedInput(), sim.NewScriptedInput()
	pa, pb := newPilot(a, 42), newPilot(b, 42)

	for tick := range uint64(90) {
		pa.steer(tick)
		pb.steer(tick)
		assert.Equal(t, a.DrainMotion(), b.DrainMotion())
		assert.Equal(t, pa.held, pb.held)
		assert.True(t, a.FireJustPressed())
		assert.True(t, a.Held(pa.held))
	}
}

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)

	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportGenerate(t *testing.T) {
	report := &Report{
		RunID:        "run-1",
		Duration:     time.Second,
		TotalUpdates: 60,
		Systems:      []ecs.SystemStats{{Name: "FireSystem", ExecutionCount: 60}},
		Weapon:       sim.WeaponStats{ShotsFired: 4, ShotsHit: 3},
		CSVRows:      2,
	}

	var out bytes.Buffer
	require.NoError(t, report.Generate(&out))

	text := out.String()
	assert.Contains(t, text, "**Run ID:** run-1")
	assert.Contains(t, text, "**Tick Limit:** none")
	assert.Contains(t, text, "| FireSystem | 60 |")
	assert.Contains(t, text, "4 fired, 3 hit, 0 unbound")
	assert.Contains(t, text, "**CSV Rows:** 2")
	assert.NotContains(t, text, "GC Pauses")
}
