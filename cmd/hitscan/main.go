// Command hitscan opens a window over the frame-update core: WASD or the
// arrow keys move, the mouse looks once captured, left click fires, Escape
// releases the cursor and Q quits.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/hitscan/config"
	"github.com/plus3/hitscan/ecs"
	debugui_ebiten "github.com/plus3/hitscan/ecs/debugui/ebiten"
	"github.com/plus3/hitscan/internal/logging"
	"github.com/plus3/hitscan/sim"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML or TOML config file. Defaults are used when empty.")
	overlay := flag.Bool("debug", false, "Show the Dear ImGui debug overlay.")
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

	if err := run(cfg, *overlay, log); err != nil {
		log.Fatal("hitscan stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, overlay bool, log *zap.Logger) error {
	var backend *debugui_ebiten.ImguiBackend
	if overlay {
		backend = debugui_ebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	} else {
		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
		ebiten.SetWindowTitle(cfg.Window.Title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(math.Round(1 / cfg.Tick.DT)))

	input := newEbitenInput()
	world, err := sim.NewWorld(cfg, input,
		sim.WithLogger(log),
		sim.WithCursorGrabber(ebitenCursor{}),
	)
	if err != nil {
		return fmt.Errorf("building world: %w", err)
	}
	if overlay {
		input.ui = spawnOverlay(world)
	}

	render := ecs.NewScheduler(world.Storage, &drawContext{PixelsPerUnit: cfg.Window.PixelsPerUnit})
	render.Register(&RenderSystem{})

	game := &Game{
		world:   world,
		render:  render,
		backend: backend,
	}

	log.Info("window opening",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Bool("overlay", overlay),
	)
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	log.Info("window closed", zap.Uint64("ticks", world.Tick()))
	return nil
}

// Game steps the world once per ebiten update and draws it through a
// separate render scheduler over the same store.
type Game struct {
	world   *sim.World
	render  *ecs.Scheduler[drawContext]
	backend *debugui_ebiten.ImguiBackend // nil without -debug
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if g.backend == nil {
		g.world.Step(g.world.DT())
		return nil
	}
	g.backend.Frame(func() {
		g.world.Step(g.world.DT())
	})
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	ctx := g.render.Context()
	ctx.Screen = screen
	g.render.Once(0)
	ctx.Screen = nil

	if g.backend != nil {
		g.backend.Overlay(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.backend != nil {
		g.backend.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
