// Package trackpad maps normalized wheel and pinch gestures onto camera
// rig operations: plain scroll pans, ctrl/cmd-scroll and pinch zoom
// anchored at the cursor, shift-scroll orbits with throttled pivot
// re-picking.
package trackpad

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/brhx/fabric-sub000/internal/engine/camera"
	"github.com/brhx/fabric-sub000/internal/engine/input"
	"github.com/brhx/fabric-sub000/internal/engine/picking"
	"github.com/brhx/fabric-sub000/pkg/geom"
)

// SceneQuery picks scene content under a ray, used for orbit-pivot
// selection. Implementations return the nearest intersection point.
type SceneQuery interface {
	Pick(ray picking.Ray) (mgl64.Vec3, bool)
}

// Config tunes gesture sensitivity.
type Config struct {
	PanSpeed    float64       // screen pixels of pan per scroll step
	ZoomSpeed   float64       // log-scale zoom per scroll step
	PinchSpeed  float64       // log-scale zoom per unit of pinch delta
	OrbitSpeed  float64       // radians per scroll step
	PivotRepick time.Duration // minimum interval between pivot re-picks
}

// DefaultConfig returns desktop-trackpad friendly sensitivities.
func DefaultConfig() Config {
	return Config{
		PanSpeed:    30.0,
		ZoomSpeed:   0.12,
		PinchSpeed:  4.0,
		OrbitSpeed:  0.05,
		PivotRepick: 180 * time.Millisecond,
	}
}

// minPlaneDot rejects anchor rays nearly parallel to the pivot plane,
// where the intersection point shoots off toward the horizon.
const minPlaneDot = 0.05

// Mapper routes gestures through the camera rig so frame-aware
// continuity and pole handling apply uniformly. Events over UI chrome
// are ignored via a caller-supplied predicate.
type Mapper struct {
	rig      *camera.Rig
	cfg      Config
	viewport func() (w, h float64)
	log      *zap.Logger

	scene      SceneQuery
	overChrome func(x, y float64) bool
	clock      func() time.Time

	lastRepick   time.Time
	haveRepicked bool
}

// NewMapper binds gestures to a rig. viewport reports the drawable size
// in pixels and must not be nil.
func NewMapper(rig *camera.Rig, cfg Config, viewport func() (w, h float64), log *zap.Logger) *Mapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mapper{
		rig:      rig,
		cfg:      cfg,
		viewport: viewport,
		log:      log,
		clock:    time.Now,
	}
}

// SetSceneQuery installs the ray picker used for orbit-pivot selection.
// Without one, pivots come from the frame's pivot plane at the target.
func (m *Mapper) SetSceneQuery(q SceneQuery) { m.scene = q }

// SetChromePredicate installs the "is this point over UI chrome" test.
func (m *Mapper) SetChromePredicate(fn func(x, y float64) bool) { m.overChrome = fn }

// SetClock replaces the time source, for tests.
func (m *Mapper) SetClock(fn func() time.Time) { m.clock = fn }

// Handle consumes a normalized event. Returns true when the event drove
// a camera operation.
func (m *Mapper) Handle(ev input.Event) bool {
	switch ev.Type {
	case input.EventWheel:
		return m.handleWheel(ev)
	case input.EventPinch:
		return m.handlePinch(ev)
	default:
		return false
	}
}

func (m *Mapper) handleWheel(ev input.Event) bool {
	if m.overChrome != nil && m.overChrome(ev.X, ev.Y) {
		return false
	}
	switch {
	case ev.Mods.Ctrl || ev.Mods.Gui:
		return m.zoomAt(ev.X, ev.Y, math.Exp(ev.DY*m.cfg.ZoomSpeed))
	case ev.Mods.Shift:
		m.maybeRepickPivot(ev.X, ev.Y)
		return m.rig.Orbit(-ev.DX*m.cfg.OrbitSpeed, -ev.DY*m.cfg.OrbitSpeed, false)
	case ev.Mods.None():
		return m.pan(ev.DX, ev.DY)
	default:
		return false
	}
}

func (m *Mapper) handlePinch(ev input.Event) bool {
	if m.overChrome != nil && m.overChrome(ev.X, ev.Y) {
		return false
	}
	return m.zoomAt(ev.X, ev.Y, math.Exp(ev.Scale*m.cfg.PinchSpeed))
}

// pan slides camera and target across the view plane. The scroll delta
// is converted to world units through the camera's pixel scale so the
// content tracks the gesture at any zoom level.
func (m *Mapper) pan(dx, dy float64) bool {
	_, h := m.viewport()
	if h <= 0 {
		return false
	}
	units := m.rig.Camera().WorldUnitsPerPixel(h)
	if units <= 0 || math.IsInf(units, 0) || math.IsNaN(units) {
		return false
	}
	px := m.cfg.PanSpeed * units
	right, up, _ := m.rig.Camera().Basis()
	delta := right.Mul(-dx * px).Add(up.Mul(dy * px))
	return m.rig.Truck(delta)
}

// zoomAt dollies while keeping the world point under the cursor fixed:
// the cursor is raycast against the pivot plane before and after the
// dolly and the camera is trucked by the difference.
func (m *Mapper) zoomAt(x, y, factor float64) bool {
	w, h := m.viewport()
	if w <= 0 || h <= 0 {
		return false
	}
	plane := m.anchorPlane(x, y, w, h)

	before, haveBefore := m.planePoint(x, y, w, h, plane)
	if !m.rig.Dolly(factor) {
		return false
	}
	if !haveBefore {
		return true
	}
	after, haveAfter := m.planePoint(x, y, w, h, plane)
	if !haveAfter {
		return true
	}
	delta := before.Sub(after)
	if delta.Len() > 0 {
		m.rig.Truck(delta)
	}
	return true
}

// anchorPlane picks the zoom anchor: the frame's pivot plane at the
// target, or a view-facing plane through the target when the cursor ray
// runs nearly parallel to it.
func (m *Mapper) anchorPlane(x, y, w, h float64) geom.Plane {
	cam := m.rig.Camera()
	plane := m.rig.Frame().PivotPlaneAt(cam.Target)

	ray := picking.ScreenRay(x, y, w, h, cam.InvViewProjection())
	if math.Abs(ray.Direction.Dot(plane.Normal)) < minPlaneDot {
		plane = geom.NewPlane(cam.Target, cam.ViewDir().Mul(-1))
	}
	return plane
}

// planePoint raycasts a viewport pixel against a plane.
func (m *Mapper) planePoint(x, y, w, h float64, plane geom.Plane) (mgl64.Vec3, bool) {
	ray := picking.ScreenRay(x, y, w, h, m.rig.Camera().InvViewProjection())
	return ray.IntersectPlane(plane)
}

// maybeRepickPivot refreshes the orbit pivot from the scene under the
// cursor, throttled so a continuous gesture doesn't make the pivot swim.
func (m *Mapper) maybeRepickPivot(x, y float64) {
	if m.rig.InputBlocked() {
		return
	}
	now := m.clock()
	if m.haveRepicked && now.Sub(m.lastRepick) < m.cfg.PivotRepick {
		return
	}
	m.lastRepick = now
	m.haveRepicked = true

	w, h := m.viewport()
	if w <= 0 || h <= 0 {
		return
	}
	ray := picking.ScreenRay(x, y, w, h, m.rig.Camera().InvViewProjection())

	var point mgl64.Vec3
	var ok bool
	if m.scene != nil {
		point, ok = m.scene.Pick(ray)
	}
	if !ok {
		plane := m.rig.Frame().PivotPlaneAt(m.rig.Camera().Target)
		point, ok = ray.IntersectPlane(plane)
	}
	if !ok {
		return
	}
	if m.rig.SetPivot(point) {
		m.log.Debug("orbit pivot re-picked", zap.Float64s("point", point[:]))
	}
}
