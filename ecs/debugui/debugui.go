// Package debugui renders Dear ImGui panels from inside a scheduler tick.
// Panels are entities carrying an ImguiItem; ImguiSystem defers their
// render functions so they draw after the tick's structural changes land.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hitscan/ecs"
)

// ImguiItem is a component holding a Dear ImGui render function.
type ImguiItem struct {
	Render func()
}

// ImguiInputState mirrors ImGui's capture flags as a singleton so hosts can
// stop forwarding input that belongs to a panel.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// RegisterComponents registers the debug UI components.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
}

// ImguiSystem defers every ImguiItem's render function and refreshes
// ImguiInputState. It works with any scheduler context.
type ImguiSystem[C any] struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]

	// capture reads the live flags; nil means the current ImGui IO.
	capture func() ImguiInputState
}

// Execute queues the render functions for the end of the tick.
func (i *ImguiSystem[C]) Execute(frame *ecs.UpdateFrame[C]) {
	read := i.capture
	if read == nil {
		read = currentCapture
	}
	if state := i.InputState.Get(); state != nil {
		*state = read()
	}

	for item := range i.Items.Values() {
		if item.Render != nil {
			frame.Commands.Defer(item.Render)
		}
	}
}

func currentCapture() ImguiInputState {
	io := imgui.CurrentIO()
	return ImguiInputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}
