package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hitscan/ecs"
)

var entityRefType = reflect.TypeFor[ecs.EntityRef]()

// Watch names an entity the Inspector follows.
type Watch struct {
	Label string
	Ref   *ecs.EntityRef
}

// ComponentView is a flattened, printable copy of one component.
type ComponentView struct {
	Type   string
	Fields []FieldValue
}

// FieldValue is one leaf of a component; nested structs use dotted paths.
type FieldValue struct {
	Path  string
	Value string
}

// Inspector shows the components of watched entities and lets numeric and
// boolean fields be edited in place.
type Inspector struct {
	storage *ecs.Storage
	watches []Watch
	cache   *ReflectionCache
}

func NewInspector(storage *ecs.Storage, watches ...Watch) *Inspector {
	return &Inspector{
		storage: storage,
		watches: watches,
		cache:   NewReflectionCache(),
	}
}

// Watch adds an entity to the panel.
func (in *Inspector) Watch(label string, ref *ecs.EntityRef) {
	in.watches = append(in.watches, Watch{Label: label, Ref: ref})
}

// Item wraps the inspector in an ImguiItem.
func (in *Inspector) Item() ImguiItem {
	return ImguiItem{Render: in.Render}
}

// Describe flattens every component of the watched entity labelled label.
// It returns false if no such watch exists or the entity is gone.
func (in *Inspector) Describe(label string) ([]ComponentView, bool) {
	for _, w := range in.watches {
		if w.Label != label {
			continue
		}
		id, ok := in.storage.ResolveEntityRef(w.Ref)
		if !ok {
			return nil, false
		}

		var views []ComponentView
		for _, compType := range in.storage.ComponentTypes(id) {
			view := ComponentView{Type: compType.String()}
			in.flatten("", in.componentValue(id, compType), &view.Fields)
			views = append(views, view)
		}
		return views, true
	}
	return nil, false
}

func (in *Inspector) componentValue(id ecs.EntityId, compType reflect.Type) reflect.Value {
	component := in.storage.GetComponent(id, compType)
	if component == nil {
		return reflect.Value{}
	}
	return reflect.ValueOf(component).Elem()
}

func (in *Inspector) flatten(prefix string, val reflect.Value, out *[]FieldValue) {
	if !val.IsValid() {
		return
	}
	if val.Kind() != reflect.Struct {
		*out = append(*out, FieldValue{Path: prefix, Value: formatLeaf(val)})
		return
	}
	if val.Type() == entityRefType {
		*out = append(*out, FieldValue{Path: prefix, Value: formatRef(val.Addr().Interface().(*ecs.EntityRef))})
		return
	}

	for _, field := range in.cache.Fields(val.Type()) {
		path := field.Name
		if prefix != "" {
			path = prefix + "." + field.Name
		}
		fv := val.Field(field.Index)
		if field.IsPointer {
			if fv.IsNil() {
				*out = append(*out, FieldValue{Path: path, Value: "nil"})
				continue
			}
			fv = fv.Elem()
		}
		in.flatten(path, fv, out)
	}
}

func formatLeaf(val reflect.Value) string {
	switch val.Kind() {
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%.3f", val.Float())
	case reflect.Slice, reflect.Map:
		return fmt.Sprintf("[%d items]", val.Len())
	case reflect.Func:
		if val.IsNil() {
			return "nil"
		}
		return "func"
	}
	return fmt.Sprint(val.Interface())
}

func formatRef(ref *ecs.EntityRef) string {
	if !ref.Alive() {
		return "dangling"
	}
	return fmt.Sprintf("-> %d", ref.Id)
}

// Render draws the panel.
func (in *Inspector) Render() {
	if !imgui.BeginV("Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	for _, w := range in.watches {
		id, ok := in.storage.ResolveEntityRef(w.Ref)
		if !ok {
			imgui.Text(fmt.Sprintf("%s: gone", w.Label))
			continue
		}
		if !imgui.TreeNodeStr(fmt.Sprintf("%s (%d)", w.Label, id)) {
			continue
		}
		for _, compType := range in.storage.ComponentTypes(id) {
			if imgui.TreeNodeStr(compType.String()) {
				in.renderValue(compType.Name(), in.componentValue(id, compType))
				imgui.TreePop()
			}
		}
		imgui.TreePop()
	}

	imgui.End()
}

// renderValue draws val with an editor when val is settable. Component
// pointers come straight from storage, so edits land in the live entity.
func (in *Inspector) renderValue(name string, val reflect.Value) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}
	label := fmt.Sprintf("%s##%p", name, val.Addr().Interface())

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		if imgui.InputInt(label, &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		imgui.Text(fmt.Sprintf("%s: %d", name, val.Uint()))

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		if imgui.InputFloat(label, &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(label, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.Struct:
		if val.Type() == entityRefType {
			imgui.Text(fmt.Sprintf("%s: %s", name, formatRef(val.Addr().Interface().(*ecs.EntityRef))))
			return
		}
		fields := in.cache.Fields(val.Type())
		if len(fields) == 0 {
			imgui.Text(name)
			return
		}
		if imgui.TreeNodeStr(name) {
			for _, field := range fields {
				fv := val.Field(field.Index)
				if field.IsPointer {
					if fv.IsNil() {
						imgui.Text(fmt.Sprintf("%s: nil", field.Name))
						continue
					}
					fv = fv.Elem()
				}
				in.renderValue(field.Name, fv)
			}
			imgui.TreePop()
		}

	default:
		imgui.Text(fmt.Sprintf("%s: %s", name, formatLeaf(val)))
	}
}
