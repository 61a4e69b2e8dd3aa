package genesis

import (
	"slices"
	"weak"

	"github.com/go-gl/mathgl/mgl32"
)

// ID uniquely identifies a widget within a WidgetSet. IDs are
// allocated from a monotonic counter and never reused, so ascending
// ID order doubles as a stable back-to-front draw order.
type ID uint64

// Drawable is implemented by anything a widget can carry: Label and
// Sprite in this package, or application types.
type Drawable interface {
	// Draw renders the item with the given combined
	// projection-model matrix.
	Draw(surface Surface, matrix mgl32.Mat4) error

	// AnchorPos reports the local-space pivot the widget transform
	// ends with.
	AnchorPos() (x, y float32)
}

// Widget pairs a drawable item with its on-screen transform. Widgets
// default to position (0,0), scale (1,1), no rotation, visible.
//
// The WidgetSet that created a widget holds it only weakly; the
// caller's strong handle determines its lifetime.
type Widget[T Drawable] struct {
	id       ID
	item     T
	posX     int
	posY     int
	scaleX   float32
	scaleY   float32
	rotation float32
	visible  bool
}

func newWidget[T Drawable](id ID, item T) *Widget[T] {
	return &Widget[T]{id: id, item: item, scaleX: 1, scaleY: 1, visible: true}
}

// ID returns the widget's identifier within its set.
func (w *Widget[T]) ID() ID {
	return w.id
}

// Item returns the drawable the widget carries.
func (w *Widget[T]) Item() T {
	return w.item
}

// SetPos moves the widget to a pixel position on screen.
func (w *Widget[T]) SetPos(x, y int) {
	w.posX, w.posY = x, y
}

// Pos returns the widget's pixel position.
func (w *Widget[T]) Pos() (x, y int) {
	return w.posX, w.posY
}

// SetScale sets the per-axis scale factors.
func (w *Widget[T]) SetScale(x, y float32) {
	w.scaleX, w.scaleY = x, y
}

// Scale returns the per-axis scale factors.
func (w *Widget[T]) Scale() (x, y float32) {
	return w.scaleX, w.scaleY
}

// SetRotation sets the rotation about the Z axis, in radians.
func (w *Widget[T]) SetRotation(radians float32) {
	w.rotation = radians
}

// Rotation returns the rotation in radians.
func (w *Widget[T]) Rotation() float32 {
	return w.rotation
}

// SetVisible controls whether the widget draws at all.
func (w *Widget[T]) SetVisible(visible bool) {
	w.visible = visible
}

// Visible reports whether the widget draws.
func (w *Widget[T]) Visible() bool {
	return w.visible
}

// ModelMatrix composes the widget transform: translation to the
// widget position, then scale, then rotation about Z, then a final
// translation by the item's anchor.
func (w *Widget[T]) ModelMatrix() mgl32.Mat4 {
	ax, ay := w.item.AnchorPos()
	return mgl32.Translate3D(float32(w.posX), float32(w.posY), 0).
		Mul4(mgl32.Scale3D(w.scaleX, w.scaleY, 1)).
		Mul4(mgl32.HomogRotate3DZ(w.rotation)).
		Mul4(mgl32.Translate3D(ax, ay, 0))
}

func (w *Widget[T]) draw(surface Surface, projection mgl32.Mat4) error {
	if !w.visible {
		return nil
	}
	return w.item.Draw(surface, projection.Mul4(w.ModelMatrix()))
}

// drawer is the type-erased view of a widget the set iterates with.
type drawer interface {
	draw(surface Surface, projection mgl32.Mat4) error
}

// weakWidget resolves a weakly held widget, reporting false once the
// widget has been collected.
type weakWidget interface {
	resolve() (drawer, bool)
}

type weakRef[T Drawable] struct {
	p weak.Pointer[Widget[T]]
}

func (r weakRef[T]) resolve() (drawer, bool) {
	w := r.p.Value()
	if w == nil {
		return nil, false
	}
	return w, true
}

// WidgetSet tracks registered widgets without keeping them alive.
// Dropping every strong handle to a widget makes it collectable; the
// set notices during the next Draw and prunes the entry. Used from
// the rendering thread only.
type WidgetSet struct {
	entries map[ID]weakWidget
	nextID  ID

	// ids is scratch space for draw-order sorting, reused across
	// frames.
	ids []ID
}

// NewWidgetSet creates an empty set.
func NewWidgetSet() *WidgetSet {
	return &WidgetSet{entries: make(map[ID]weakWidget)}
}

// RegisterWidget wraps item in a new widget, records it weakly in the
// set and returns the strong handle. The caller keeps the widget
// alive for as long as it holds the handle.
func RegisterWidget[T Drawable](s *WidgetSet, item T) *Widget[T] {
	s.nextID++
	w := newWidget(s.nextID, item)
	s.entries[w.id] = weakRef[T]{p: weak.Make(w)}
	return w
}

// Len reports the number of tracked entries, including entries whose
// widgets have been collected but not yet pruned.
func (s *WidgetSet) Len() int {
	return len(s.entries)
}

// Draw renders every live widget in ascending ID order. Entries whose
// widgets have been collected are pruned. A widget whose draw fails
// is logged and skipped; one bad widget does not take the frame down.
func (s *WidgetSet) Draw(surface Surface, projection mgl32.Mat4) {
	s.ids = s.ids[:0]
	for id := range s.entries {
		s.ids = append(s.ids, id)
	}
	slices.Sort(s.ids)

	for _, id := range s.ids {
		w, ok := s.entries[id].resolve()
		if !ok {
			delete(s.entries, id)
			Logger().Debug("pruning collected widget", "id", uint64(id))
			continue
		}
		if err := w.draw(surface, projection); err != nil {
			Logger().Warn("widget draw failed", "id", uint64(id), "err", err)
		}
	}
}
