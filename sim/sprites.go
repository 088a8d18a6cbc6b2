package sim

import (
	"github.com/cespare/xxhash/v2"
	"github.com/plus3/hitscan/config"
)

// Sheet is a renderable sprite sheet as far as the core cares: an opaque
// handle for the renderer and the frame count for animation.
type Sheet struct {
	Key    string
	Handle uint64
	Frames int
}

// SheetRegistry resolves sprite keys. The core never loads assets.
type SheetRegistry interface {
	Sheet(key string) (Sheet, bool)
}

// Atlas is an in-memory SheetRegistry built from sprite definitions.
type Atlas struct {
	sheets map[string]Sheet
}

func NewAtlas(defs []config.SpriteConfig) *Atlas {
	a := &Atlas{sheets: make(map[string]Sheet, len(defs))}
	for _, def := range defs {
		a.Add(def.Key, def.Columns*def.Rows)
	}
	return a
}

// Add registers key with the given frame count, replacing any previous
// sheet with that key. Handles are derived from the key, so the same key
// always maps to the same handle.
func (a *Atlas) Add(key string, frames int) Sheet {
	sheet := Sheet{
		Key:    key,
		Handle: xxhash.Sum64String(key),
		Frames: max(frames, 1),
	}
	a.sheets[key] = sheet
	return sheet
}

func (a *Atlas) Sheet(key string) (Sheet, bool) {
	sheet, ok := a.sheets[key]
	return sheet, ok
}

func (a *Atlas) Len() int {
	return len(a.sheets)
}
