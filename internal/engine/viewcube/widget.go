package viewcube

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/brhx/fabric-sub000/internal/engine/camera"
	"github.com/brhx/fabric-sub000/internal/engine/picking"
)

// Rect is the widget's screen footprint in pixels, origin at the top-left
// of the viewport.
type Rect struct {
	X, Y, Size float64
}

// Contains reports whether the pixel lies inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Size && y >= r.Y && y < r.Y+r.Size
}

// Config tunes the widget's size and gesture behavior.
type Config struct {
	CubeSize      float64 // cube edge length in local units
	Chamfer       float64 // corner cut in local units
	DragThreshold float64 // pixels of travel before a press becomes a drag
	RotateSpeed   float64 // radians per pixel while dragging
}

// DefaultConfig mirrors the common desktop feel: a unit cube with a
// visible chamfer and a small drag threshold so clicks stay clicks.
func DefaultConfig() Config {
	return Config{
		CubeSize:      1.0,
		Chamfer:       0.2,
		DragThreshold: 4.0,
		RotateSpeed:   0.01,
	}
}

// Widget owns the cube mesh and the pointer gesture state. It draws
// nothing itself; the renderer pulls Mesh, Orientation, and HoverHit.
type Widget struct {
	mesh *Mesh
	rig  *camera.Rig
	rect Rect
	cfg  Config
	log  *zap.Logger

	invalidate func()

	hover    Hit
	hasHover bool

	pressed      bool
	dragging     bool
	pressHit     Hit
	pressX       float64
	pressY       float64
	lastX, lastY float64
}

// NewWidget bakes the cube and binds it to the rig it steers.
func NewWidget(rig *camera.Rig, rect Rect, cfg Config, log *zap.Logger) *Widget {
	if log == nil {
		log = zap.NewNop()
	}
	return &Widget{
		mesh: BuildMesh(cfg.CubeSize, cfg.Chamfer),
		rig:  rig,
		rect: rect,
		cfg:  cfg,
		log:  log,
	}
}

// SetInvalidate registers the redraw callback fired on hover changes.
func (w *Widget) SetInvalidate(fn func()) { w.invalidate = fn }

// SetRect moves the widget, typically after a window resize.
func (w *Widget) SetRect(r Rect) { w.rect = r }

// Mesh exposes the baked geometry for rendering.
func (w *Widget) Mesh() *Mesh { return w.mesh }

// Rect returns the widget's current screen footprint.
func (w *Widget) Rect() Rect { return w.rect }

// HoverHit returns the region under the cursor, if any.
func (w *Widget) HoverHit() (Hit, bool) { return w.hover, w.hasHover }

// Orientation returns the cube-local to overlay-space rotation: the
// inverse of the main camera's rotation composed with the world frame's
// basis at the target, so the cube always mirrors the viewport and the
// frame's notion of east, north, and up.
func (w *Widget) Orientation() mgl64.Mat3 {
	cam := w.rig.Camera()
	right, up, back := cam.Basis()
	b := w.rig.Frame().BasisAt(cam.Target)

	// Columns of M map camera space to world space.
	m := mgl64.Mat3FromCols(right, up, back)
	// Columns of bm map cube space to world space.
	bm := mgl64.Mat3FromCols(b.Right, b.Forward, b.Up)
	return m.Transpose().Mul3(bm)
}

// OverlayExtent is the half-extent of the overlay's orthographic
// frustum: the worst-case diagonal of the rotated cube, so the
// silhouette always fits.
func (w *Widget) OverlayExtent() float64 {
	return w.cfg.CubeSize * math.Sqrt(3) / 2
}

// localRay maps a viewport pixel to a ray in cube-local space. The
// overlay uses a fixed orthographic camera looking down -Z, sized so the
// cube's rotated silhouette always fits.
func (w *Widget) localRay(x, y float64) (picking.Ray, bool) {
	if w.rect.Size <= 0 || !w.rect.Contains(x, y) {
		return picking.Ray{}, false
	}
	// Widget-local NDC, +Y up.
	nx := (x-w.rect.X)/w.rect.Size*2 - 1
	ny := 1 - (y-w.rect.Y)/w.rect.Size*2

	ext := w.OverlayExtent()

	o := w.Orientation()
	inv := o.Transpose()
	origin := inv.Mul3x1(mgl64.Vec3{nx * ext, ny * ext, w.cfg.CubeSize * 2})
	dir := inv.Mul3x1(mgl64.Vec3{0, 0, -1})
	return picking.Ray{Origin: origin, Direction: dir}, true
}

// HitAt raycasts the cube at a viewport pixel.
func (w *Widget) HitAt(x, y float64) (Hit, bool) {
	ray, ok := w.localRay(x, y)
	if !ok {
		return Hit{}, false
	}
	return w.mesh.HitTest(ray)
}

// Hover updates the highlighted region for a passive pointer move.
// Re-entering the same region is a no-op; highlighting is suppressed
// while a projection transition runs.
func (w *Widget) Hover(x, y float64) {
	if w.rig.Transition().IsActive() {
		w.clearHover()
		return
	}
	hit, ok := w.HitAt(x, y)
	if !ok {
		w.clearHover()
		return
	}
	if w.hasHover && hit == w.hover {
		return
	}
	w.hover = hit
	w.hasHover = true
	w.redraw()
}

func (w *Widget) clearHover() {
	if !w.hasHover {
		return
	}
	w.hasHover = false
	w.redraw()
}

// Press begins a cube interaction. Returns true when the press landed on
// the cube and the widget captured the pointer. Presses are ignored while
// a projection transition runs.
func (w *Widget) Press(x, y float64) bool {
	if w.rig.Transition().IsActive() {
		return false
	}
	hit, ok := w.HitAt(x, y)
	if !ok {
		return false
	}
	w.pressed = true
	w.dragging = false
	w.pressHit = hit
	w.pressX, w.pressY = x, y
	w.lastX, w.lastY = x, y
	return true
}

// Move continues a captured interaction. Once pointer travel exceeds the
// drag threshold the press becomes a free orbit and the click is
// forfeited.
func (w *Widget) Move(x, y float64) {
	if !w.pressed {
		w.Hover(x, y)
		return
	}
	if !w.dragging {
		dx := x - w.pressX
		dy := y - w.pressY
		if math.Hypot(dx, dy) < w.cfg.DragThreshold {
			return
		}
		w.dragging = true
		w.clearHover()
	}
	dx := x - w.lastX
	dy := y - w.lastY
	w.lastX, w.lastY = x, y
	w.rig.Orbit(-dx*w.cfg.RotateSpeed, -dy*w.cfg.RotateSpeed, false)
}

// Release ends a captured interaction. A press that never became a drag
// snaps the camera to the pressed region's direction.
func (w *Widget) Release(x, y float64) {
	if !w.pressed {
		return
	}
	pressed := w.pressed
	dragged := w.dragging
	w.pressed = false
	w.dragging = false
	if !pressed || dragged {
		return
	}

	dir := w.worldDirection(w.pressHit)
	w.log.Debug("view cube snap",
		zap.String("region", w.pressHit.String()),
		zap.Float64s("dir", dir[:]))
	w.rig.SnapToDirection(dir)
}

// worldDirection converts a region's local direction into world space via
// the frame basis at the current target.
func (w *Widget) worldDirection(h Hit) mgl64.Vec3 {
	b := w.rig.Frame().BasisAt(w.rig.Camera().Target)
	d := h.Direction()
	return b.Right.Mul(d.X()).Add(b.Forward.Mul(d.Y())).Add(b.Up.Mul(d.Z())).Normalize()
}

func (w *Widget) redraw() {
	if w.invalidate != nil {
		w.invalidate()
	}
}
