package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hitscan/ecs"
)

// StatsSource is satisfied by any ecs.Scheduler regardless of its context type.
type StatsSource interface {
	GetStats() *ecs.SchedulerStats
	Storage() *ecs.Storage
}

// StatsPanel shows frame times, per-system timings and the store layout.
type StatsPanel struct {
	source       StatsSource
	frameHistory []float32
	frameIndex   int
	timer        *FrameTimer
}

// NewStatsPanel keeps historyFrames frame times for the graph.
func NewStatsPanel(source StatsSource, historyFrames int) *StatsPanel {
	return &StatsPanel{
		source:       source,
		frameHistory: make([]float32, max(historyFrames, 1)),
		timer:        NewFrameTimer(),
	}
}

// Record stores one frame time in milliseconds.
func (p *StatsPanel) Record(frameTime time.Duration) {
	p.frameHistory[p.frameIndex] = float32(frameTime.Seconds() * 1000)
	p.frameIndex = (p.frameIndex + 1) % len(p.frameHistory)
}

// AverageFrameTime is the mean over the history window in milliseconds.
func (p *StatsPanel) AverageFrameTime() float32 {
	var total float32
	for _, ft := range p.frameHistory {
		total += ft
	}
	return total / float32(len(p.frameHistory))
}

// Item wraps the panel in an ImguiItem that samples the wall clock each
// time it renders.
func (p *StatsPanel) Item() ImguiItem {
	return ImguiItem{Render: func() {
		p.Record(p.timer.Delta())
		p.Render()
	}}
}

// Render draws the panel.
func (p *StatsPanel) Render() {
	if !imgui.BeginV("Tick Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	sched := p.source.GetStats()
	store := p.source.Storage().CollectStats()

	imgui.Text(fmt.Sprintf("Tick: %d", sched.Ticks))
	imgui.Text(fmt.Sprintf("Entities: %d in %d archetypes", store.TotalEntityCount, store.ArchetypeCount))

	avg := p.AverageFrameTime()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}
	imgui.PlotLinesFloatPtr("##frametime", &p.frameHistory[0], int32(len(p.frameHistory)))

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range sched.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(sys.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Archetypes") {
		for _, arch := range store.ArchetypeBreakdown {
			if imgui.TreeNodeStr(fmt.Sprintf("0x%08X (%d)", arch.ID, arch.EntityCount)) {
				for _, name := range arch.ComponentTypes {
					imgui.BulletText(name)
				}
				imgui.TreePop()
			}
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singletons") {
		for _, name := range store.SingletonTypes {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}

	imgui.End()
}

// FrameTimer measures wall-clock time between calls to Delta.
type FrameTimer struct {
	last time.Time
}

// NewFrameTimer starts timing from now.
func NewFrameTimer() *FrameTimer {
	return &FrameTimer{last: time.Now()}
}

func (ft *FrameTimer) Delta() time.Duration {
	now := time.Now()
	delta := now.Sub(ft.last)
	ft.last = now
	return delta
}
