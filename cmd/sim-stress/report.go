package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/hitscan/ecs"
	"github.com/plus3/hitscan/sim"
)

type Report struct {
	// Configuration
	RunID          string
	Duration       time.Duration
	MaxTicks       uint64
	Seed           uint64
	EffectsPerTick int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Systems        []ecs.SystemStats
	Spawn          sim.SpawnStats
	Weapon         sim.WeaponStats
	FinalEntities  int
	CSVRows        int
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]
	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Hitscan Stress Report

## Run
- **Run ID:** {{.RunID}}
- **Duration Limit:** {{.Duration}}
- **Tick Limit:** {{if .MaxTicks}}{{.MaxTicks}}{{else}}none{{end}}
- **Seed:** {{.Seed}}
- **Injected Effects / Tick:** {{.EffectsPerTick}}

## Performance
- **Total Updates:** {{.TotalUpdates}}
- **Total Time:** {{.TotalTime}}
- **Step Time:** avg {{.UpdateTime.Avg}} / min {{.UpdateTime.Min}} / max {{.UpdateTime.Max}}

| system | runs | avg | max |
|---|---|---|---|
{{range .Systems}}| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{end}}
## Simulation
- **Shots:** {{.Weapon.ShotsFired}} fired, {{.Weapon.ShotsHit}} hit, {{.Weapon.Unbound}} unbound
- **Visuals:** {{.Spawn.EffectsSpawned}} effects, {{.Spawn.DecalsSpawned}} decals, {{.Spawn.VisualsRetired}} retired
- **Lost Requests:** {{.Spawn.Dropped}} dropped, {{.Spawn.NoCamera}} without camera, {{.Spawn.UnknownSprite}} unknown sprite
- **Entities At End:** {{.FinalEntities}}
{{- if .CSVRows}}
- **CSV Rows:** {{.CSVRows}}
{{- end}}

## Memory (bytes)
- Heap Alloc:  {{.MemStatsStart.HeapAlloc}} -> {{.MemStatsEnd.HeapAlloc}} (delta {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}})
- Total Alloc: {{.MemStatsStart.TotalAlloc}} -> {{.MemStatsEnd.TotalAlloc}} (delta {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}})
- Num GC:      {{.MemStatsStart.NumGC}} -> {{.MemStatsEnd.NumGC}} (delta {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}})
{{if .GCPauseMetrics}}
## GC Pauses
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
