package camera

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/brhx/fabric-sub000/internal/engine/worldframe"
	"github.com/brhx/fabric-sub000/pkg/geom"
)

// zAxis is the canonical vertical of the temporary orbit frame.
var zAxis = mgl64.Vec3{0, 0, 1}

// orbitUpTolerance is the angular change of the up axis beyond which the
// cached spherical angles are recomputed instead of carried forward.
const orbitUpTolerance = 1e-4

// Limits bounds the rig's motion.
type Limits struct {
	MinDistance float64
	MaxDistance float64
	MinPolar    float64 // radians; stays > 0 to avoid a singular look-at
	MaxPolar    float64 // radians; stays < pi
}

// RigConfig configures a Rig.
type RigConfig struct {
	FOV    float64 // default perspective field of view, degrees
	Aspect float64
	Near   float64
	Far    float64

	Limits Limits

	// LookAtDuration is the length of animated look-at moves (view snaps,
	// default views, 90-degree rotations).
	LookAtDuration time.Duration
}

// DefaultRigConfig returns sensible limits for a meter-scale scene.
func DefaultRigConfig() RigConfig {
	return RigConfig{
		FOV:    45,
		Aspect: 16.0 / 9.0,
		Near:   0.1,
		Far:    10000,
		Limits: Limits{
			MinDistance: 0.01,
			MaxDistance: 5000,
			MinPolar:    0.01,
			MaxPolar:    math.Pi - 0.01,
		},
		LookAtDuration: 400 * time.Millisecond,
	}
}

// orbitState caches spherical angles between orbit calls so continued
// small deltas never jump across the -pi/pi branch cut.
type orbitState struct {
	valid   bool
	azimuth float64
	polar   float64
	up      mgl64.Vec3 // the up axis the angles were computed against
}

// lookTween animates a look-at move. Interruption freezes the pose at its
// last interpolated state.
type lookTween struct {
	active             bool
	startPos, endPos   mgl64.Vec3
	startTgt, endTgt   mgl64.Vec3
	startUp, endUp     mgl64.Vec3
	startedAt          time.Time
	duration           time.Duration
}

// Rig owns the camera pose and applies all camera-moving operations
// through a single look-at primitive so focal-offset bookkeeping stays
// consistent. All methods run on the host's event/render thread.
type Rig struct {
	cam   Camera
	frame worldframe.Frame
	trans *TransitionManager
	cfg   RigConfig

	clock      func() time.Time
	invalidate func()

	orbit orbitState
	tween lookTween

	views       map[string]View
	pendingView string
	initialDone bool

	inputBlocks int
}

// NewRig builds a rig around the given world frame. The camera starts
// uninitialized; apply a default view before the first frame.
func NewRig(cfg RigConfig, frame worldframe.Frame, views map[string]View) *Rig {
	if views == nil {
		views = DefaultViews()
	}
	r := &Rig{
		cam: Camera{
			Position: mgl64.Vec3{0, -1, 0},
			Up:       frame.UpAt(mgl64.Vec3{}),
			FOV:      cfg.FOV,
			Aspect:   cfg.Aspect,
			Near:     cfg.Near,
			Far:      cfg.Far,
			Zoom:     1,
		},
		frame:      frame,
		cfg:        cfg,
		clock:      time.Now,
		invalidate: func() {},
		views:      views,
	}
	r.trans = NewTransitionManager(&r.cam, cfg.Limits.MinDistance, cfg.Limits.MaxDistance, cfg.FOV)
	r.trans.SetBlockHooks(r.BeginInputBlock, r.EndInputBlock)
	return r
}

// SetClock overrides the time source for the rig and its transition
// manager (tests).
func (r *Rig) SetClock(clock func() time.Time) {
	r.clock = clock
	r.trans.SetClock(clock)
}

// SetInvalidate registers the host's render-invalidate hook.
func (r *Rig) SetInvalidate(fn func()) {
	r.invalidate = fn
	r.trans.SetInvalidate(fn)
}

// Camera returns the shared camera. Collaborators read pose and matrices
// from it; mutation goes through rig operations.
func (r *Rig) Camera() *Camera { return &r.cam }

// Frame returns the rig's world frame.
func (r *Rig) Frame() worldframe.Frame { return r.frame }

// Transition returns the projection transition manager.
func (r *Rig) Transition() *TransitionManager { return r.trans }

// BeginInputBlock increments the input-block counter. While it is
// positive, gesture-driven operations are rejected.
func (r *Rig) BeginInputBlock() { r.inputBlocks++ }

// EndInputBlock decrements the input-block counter.
func (r *Rig) EndInputBlock() {
	if r.inputBlocks > 0 {
		r.inputBlocks--
	}
}

// InputBlocked reports whether gesture input is currently rejected.
func (r *Rig) InputBlocked() bool { return r.inputBlocks > 0 }

// Orbit rotates the camera around the target by the given azimuth/polar
// deltas (radians) in a temporary frame where the current up axis maps to
// the canonical vertical. Cached angles are carried forward and unwrapped
// so consecutive drags stay continuous across the branch cut. Returns
// false when the pose is degenerate or input is blocked.
func (r *Rig) Orbit(azimuthDelta, polarDelta float64, animate bool) bool {
	if r.InputBlocked() {
		return false
	}
	r.interruptTween()

	target := r.cam.Target
	offset := r.cam.Position.Sub(target)
	dist := offset.Len()
	if dist == 0 || !geom.IsFinite(offset) {
		return false
	}

	up := r.frame.UpAt(target)
	toCanonical := mgl64.QuatBetweenVectors(up, zAxis)
	local := toCanonical.Rotate(offset)

	azimuth, polar := geom.SphericalFromDir(local)
	if r.orbit.valid && geom.AngleBetween(r.orbit.up, up) < orbitUpTolerance {
		azimuth = geom.Unwrap(r.orbit.azimuth, azimuth)
	}

	azimuth += azimuthDelta
	polar = mgl64.Clamp(polar+polarDelta, r.cfg.Limits.MinPolar, r.cfg.Limits.MaxPolar)
	r.orbit = orbitState{valid: true, azimuth: azimuth, polar: polar, up: up}

	newOffset := toCanonical.Inverse().Rotate(geom.DirFromSpherical(azimuth, polar).Mul(dist))
	return r.lookAt(target.Add(newOffset), target, up, animate)
}

// RotateAroundUp spins the camera by the given angle around the current up
// axis, animated. Used by discrete rotate-90 controls.
func (r *Rig) RotateAroundUp(radians float64) bool {
	return r.Orbit(radians, 0, true)
}

// Truck translates camera and target together by a world-space delta (the
// low-level pan primitive).
func (r *Rig) Truck(delta mgl64.Vec3) bool {
	if r.InputBlocked() || !geom.IsFinite(delta) {
		return false
	}
	r.interruptTween()
	r.cam.Position = r.cam.Position.Add(delta)
	r.cam.Target = r.cam.Target.Add(delta)
	r.invalidate()
	return true
}

// Dolly scales the camera's distance to the target: factor > 1 moves in.
// In orthographic projection the zoom changes instead, so framing math
// stays consistent.
func (r *Rig) Dolly(factor float64) bool {
	if r.InputBlocked() || factor <= 0 || !geom.IsFiniteScalar(factor) {
		return false
	}
	r.interruptTween()

	if r.cam.Projection == Orthographic {
		zoom := r.cam.Zoom * factor
		if !geom.IsFiniteScalar(zoom) || zoom <= 0 {
			return false
		}
		r.cam.Zoom = zoom
		r.invalidate()
		return true
	}

	dist := r.cam.Distance()
	if dist == 0 {
		return false
	}
	newDist := mgl64.Clamp(dist/factor, r.cfg.Limits.MinDistance, r.cfg.Limits.MaxDistance)
	dir := r.cam.ViewDir()
	r.cam.Position = r.cam.Target.Sub(dir.Mul(newDist))
	r.invalidate()
	return true
}

// SnapToDirection stops in-flight motion and animates the camera to look
// at the target from target + direction * radius. The direction is
// stabilized against the current view vector, so a snap to the zenith
// keeps the camera's prior azimuth rather than picking one arbitrarily.
// Clears the focal offset.
func (r *Rig) SnapToDirection(worldDirection mgl64.Vec3) bool {
	if worldDirection.Len() == 0 || !geom.IsFinite(worldDirection) {
		return false
	}
	r.interruptTween()
	r.trans.Cancel()

	target := r.cam.Target
	radius := r.cam.Distance()
	if radius == 0 || !geom.IsFiniteScalar(radius) {
		return false
	}

	up := r.frame.UpAt(target)
	view := r.cam.ViewDir()
	dir := worldframe.StabilizeDirection(worldDirection.Normalize(), up, view)

	r.cam.FocalOffset = mgl64.Vec3{}
	r.orbit.valid = false
	return r.lookAt(target.Add(dir.Mul(radius)), target, up, true)
}

// SetPivot re-picks the orbit pivot without changing the rendered view:
// the target moves to point and the focal offset absorbs the difference.
// Rejected when the point lies behind the camera.
func (r *Rig) SetPivot(point mgl64.Vec3) bool {
	if !geom.IsFinite(point) {
		return false
	}
	back := r.cam.Position.Sub(r.cam.Target)
	if back.Len() == 0 {
		return false
	}
	back = back.Normalize()

	eye := r.cam.Eye()
	depth := eye.Sub(point).Dot(back)
	if depth <= r.cfg.Limits.MinDistance || !geom.IsFiniteScalar(depth) {
		return false
	}

	// The orbit position sits behind the new pivot along the old view
	// axis; whatever remains of the eye position becomes focal offset.
	newPos := point.Add(back.Mul(depth))
	r.cam.Target = point
	r.cam.Position = newPos
	right, upv, backv := r.cam.Basis()
	world := eye.Sub(newPos)
	r.cam.FocalOffset = mgl64.Vec3{world.Dot(right), world.Dot(upv), world.Dot(backv)}
	r.orbit.valid = false
	r.invalidate()
	return true
}

// ToggleProjection starts an animated switch between perspective and
// orthographic projection. A non-positive duration swaps instantly.
func (r *Rig) ToggleProjection(duration time.Duration) bool {
	r.interruptTween()
	to := Orthographic
	if r.cam.Projection == Orthographic {
		to = Perspective
	}
	return r.trans.Begin(to, duration)
}

// RequestDefaultView moves the camera to a named view. While a projection
// transition is in flight the request is deferred until it settles rather
// than racing the camera swap. The first application is instantaneous;
// later ones animate. Returns false for an unknown view id.
func (r *Rig) RequestDefaultView(id string) bool {
	if _, ok := r.views[id]; !ok {
		return false
	}
	if r.trans.IsActive() {
		r.pendingView = id
		return true
	}
	return r.applyView(r.views[id])
}

func (r *Rig) applyView(v View) bool {
	r.interruptTween()
	r.trans.Cancel()

	up := r.frame.UpAt(v.Target)
	if v.Up != nil && v.Up.Len() > 0 {
		up = v.Up.Normalize()
	}

	r.cam.FocalOffset = mgl64.Vec3{}
	r.orbit.valid = false

	animate := r.initialDone
	if !r.lookAt(v.Position, v.Target, up, animate) {
		return false
	}
	r.initialDone = true
	return true
}

// Step advances per-frame animation state (look-at tween, projection
// transition, deferred view requests). Returns true while more animation
// ticks are needed.
func (r *Rig) Step() bool {
	if r.tween.active {
		r.stepTween()
	}
	r.trans.Step()
	if !r.trans.IsActive() && r.pendingView != "" {
		id := r.pendingView
		r.pendingView = ""
		if v, ok := r.views[id]; ok {
			r.applyView(v)
		}
	}
	return r.tween.active || r.trans.IsActive()
}

// lookAt is the single pose-mutating primitive. It validates the request,
// then either commits the pose directly or starts a tween toward it.
func (r *Rig) lookAt(pos, target, up mgl64.Vec3, animate bool) bool {
	if !geom.IsFinite(pos) || !geom.IsFinite(target) || !geom.IsFinite(up) {
		return false
	}
	if pos.Sub(target).Len() == 0 || up.Len() == 0 {
		return false
	}
	up = up.Normalize()

	if animate && r.cfg.LookAtDuration > 0 {
		r.tween = lookTween{
			active:    true,
			startPos:  r.cam.Position,
			endPos:    pos,
			startTgt:  r.cam.Target,
			endTgt:    target,
			startUp:   r.cam.Up,
			endUp:     up,
			startedAt: r.clock(),
			duration:  r.cfg.LookAtDuration,
		}
		r.invalidate()
		return true
	}

	r.cam.Position = pos
	r.cam.Target = target
	r.cam.Up = up
	r.invalidate()
	return true
}

func (r *Rig) stepTween() {
	tw := &r.tween
	t := float64(r.clock().Sub(tw.startedAt)) / float64(tw.duration)
	t = mgl64.Clamp(t, 0, 1)
	e := geom.EaseInOutCubic(t)

	lerp := func(a, b mgl64.Vec3) mgl64.Vec3 {
		return a.Add(b.Sub(a).Mul(e))
	}
	pos := lerp(tw.startPos, tw.endPos)
	tgt := lerp(tw.startTgt, tw.endTgt)
	up := lerp(tw.startUp, tw.endUp)
	if up.Len() == 0 {
		up = tw.endUp
	}

	if pos.Sub(tgt).Len() > 0 {
		r.cam.Position = pos
		r.cam.Target = tgt
		r.cam.Up = up.Normalize()
	}
	r.invalidate()

	if t >= 1 {
		tw.active = false
	}
}

// interruptTween freezes any in-flight look-at animation at its current
// interpolated pose; never rolls back.
func (r *Rig) interruptTween() {
	r.tween.active = false
}

// KnownViews lists the configured view ids.
func (r *Rig) KnownViews() []string {
	out := make([]string, 0, len(r.views))
	for id := range r.views {
		out = append(out, id)
	}
	return out
}
