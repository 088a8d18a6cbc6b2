package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/plus3/hitscan/config"
	"github.com/plus3/hitscan/internal/logging"
	"github.com/plus3/hitscan/sim"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

type options struct {
	duration       time.Duration
	maxTicks       uint64
	seed           uint64
	effectsPerTick int
	sampleEvery    uint64
	gcPauseMetrics bool
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML or TOML config file. Defaults are used when empty.")
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	maxTicks := flag.Uint64("ticks", 0, "Stop after this many ticks (0 = run for the full duration).")
	seed := flag.Uint64("seed", 1, "Seed for the scripted pilot.")
	effects := flag.Int("effects", 0, "Effect requests injected every tick.")
	csvPath := flag.String("csv", "", "Write per-tick samples to this CSV file.")
	sampleEvery := flag.Uint64("sample-every", 60, "Ticks between CSV samples.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var csvOut io.Writer
	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			log.Fatal("creating csv output", zap.Error(err))
		}
		defer f.Close()
		csvOut = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := run(ctx, cfg, options{
		duration:       *duration,
		maxTicks:       *maxTicks,
		seed:           *seed,
		effectsPerTick: *effects,
		sampleEvery:    *sampleEvery,
		gcPauseMetrics: *gcPauseMetrics,
	}, csvOut, log)
	if err != nil {
		log.Fatal("stress run failed", zap.Error(err))
	}

	if err := report.Generate(os.Stdout); err != nil {
		log.Fatal("generating report", zap.Error(err))
	}
}

// run steps a world driven by a scripted pilot until the duration or tick
// limit is reached and returns the filled report. csvOut may be nil.
func run(ctx context.Context, cfg *config.Config, opts options, csvOut io.Writer, log *zap.Logger) (*Report, error) {
	runID := uuid.NewString()
	log = log.With(zap.String("run", runID))

	input := sim.NewScriptedInput()
	world, err := sim.NewWorld(cfg, input, sim.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}
	pilot := newPilot(input, opts.seed)

	var samples *sampleWriter
	if csvOut != nil {
		samples = newSampleWriter(csvOut)
	}

	report := &Report{
		RunID:          runID,
		Duration:       opts.duration,
		MaxTicks:       opts.maxTicks,
		Seed:           opts.seed,
		EffectsPerTick: opts.effectsPerTick,
		GCPauseMetrics: opts.gcPauseMetrics,
	}
	if opts.maxTicks > 0 {
		report.UpdateTime.Samples = make([]time.Duration, 0, opts.maxTicks)
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(ctx, opts.duration)
	defer cancel()

	log.Info("stress run started",
		zap.Duration("duration", opts.duration),
		zap.Uint64("ticks", opts.maxTicks),
		zap.Uint64("seed", opts.seed),
	)

	startTime := time.Now()
	dt := world.DT()

Loop:
	for opts.maxTicks == 0 || world.Tick() < opts.maxTicks {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		pilot.steer(world.Tick())
		injectEffects(world, pilot, opts.effectsPerTick)

		stepStart := time.Now()
		world.Step(dt)
		stepDuration := time.Since(stepStart)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, stepDuration)

		if samples != nil && opts.sampleEvery > 0 && world.Tick()%opts.sampleEvery == 0 {
			if err := samples.Write(sampleOf(world, stepDuration)); err != nil {
				return nil, err
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = int64(len(report.UpdateTime.Samples))
	report.UpdateTime.Finalize()
	report.Systems = world.Scheduler.GetStats().Systems
	report.Spawn = world.SpawnStats()
	report.Weapon = world.WeaponStats()
	report.FinalEntities = world.Storage.CollectStats().TotalEntityCount
	if samples != nil {
		report.CSVRows = samples.rows
	}
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("stress run finished",
		zap.Int64("updates", report.TotalUpdates),
		zap.Duration("elapsed", report.TotalTime),
		zap.Int("shots", report.Weapon.ShotsFired),
	)
	return report, nil
}

// injectEffects queues effect requests a few units around the player.
func injectEffects(world *sim.World, p *pilot, n int) {
	player := world.Player()
	if player == nil {
		return
	}
	for range n {
		offset := r3.Vec{X: p.rng.Float64()*4 - 2, Y: p.rng.Float64() * 2, Z: p.rng.Float64()*4 - 2}
		world.Effects().Push(sim.EffectRequest{
			Position: r3.Add(player.Translation, offset),
			Sprite:   "fx_splat",
		})
	}
}

func sampleOf(world *sim.World, step time.Duration) TickSample {
	sample := TickSample{
		Tick:       world.Tick(),
		StepMicros: step.Microseconds(),
		Entities:   world.Storage.CollectStats().TotalEntityCount,
		Visuals:    len(world.Visuals()),
	}
	weapon := world.WeaponStats()
	sample.ShotsFired = weapon.ShotsFired
	sample.ShotsHit = weapon.ShotsHit

	spawn := world.SpawnStats()
	sample.DecalsSpawned = spawn.DecalsSpawned
	sample.Dropped = spawn.Dropped

	if player := world.Player(); player != nil {
		sample.Yaw = player.Yaw()
	}
	return sample
}
