package camera

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/brhx/fabric-sub000/pkg/geom"
)

// minTransitionFOV is the floor for the narrow end of a projection morph.
// Below about a degree the perspective distance explodes; the morph never
// requests an out-of-range distance because the end FOV is chosen as the
// one that reaches the maximum allowed distance at the preserved view
// height, clamped to this floor.
const minTransitionFOV = 1.0

// TransitionManager animates the single shared camera between projection
// kinds while holding the focus-plane view height constant. At most one
// transition is active; starting a new one cancels any prior one.
// Cancellation freezes the camera at its last interpolated state.
type TransitionManager struct {
	cam *Camera

	clock      func() time.Time
	invalidate func()

	minDistance float64
	maxDistance float64
	defaultFOV  float64

	// onActivate/onSettle bracket the animation so the rig can hold its
	// input-block counter across the camera-swap step.
	onActivate func()
	onSettle   func()

	active     bool
	to         Projection
	startedAt  time.Time
	duration   time.Duration
	viewHeight float64
	fovStart   float64
	fovEnd     float64
	viewDir    mgl64.Vec3 // fixed for the life of the transition
	token      uint64
}

// NewTransitionManager wires a manager to the shared camera. distance
// bounds clamp the perspective distance of the morph; defaultFOV is the
// field of view restored when entering perspective.
func NewTransitionManager(cam *Camera, minDistance, maxDistance, defaultFOV float64) *TransitionManager {
	return &TransitionManager{
		cam:         cam,
		clock:       time.Now,
		invalidate:  func() {},
		minDistance: minDistance,
		maxDistance: maxDistance,
		defaultFOV:  defaultFOV,
	}
}

// SetClock overrides the time source (tests).
func (m *TransitionManager) SetClock(clock func() time.Time) { m.clock = clock }

// SetInvalidate registers the host's render-invalidate hook, called after
// every camera mutation.
func (m *TransitionManager) SetInvalidate(fn func()) { m.invalidate = fn }

// SetBlockHooks registers the activate/settle pair used for input
// blocking. Calls are balanced: every activate is followed by exactly one
// settle on completion or cancellation.
func (m *TransitionManager) SetBlockHooks(onActivate, onSettle func()) {
	m.onActivate = onActivate
	m.onSettle = onSettle
}

// IsActive reports whether a transition is animating. Input handlers must
// treat this as input-blocking.
func (m *TransitionManager) IsActive() bool { return m.active }

// Token identifies the most recent transition request; a holder can
// compare tokens to learn whether its request was superseded.
func (m *TransitionManager) Token() uint64 { return m.token }

// Begin starts a transition to the given projection kind. The view height
// to preserve and the FOV endpoints are computed at the moment of the
// call. A non-positive duration performs the sync-and-swap instantly
// through the same path. Returns false when the current pose cannot
// support a morph.
func (m *TransitionManager) Begin(to Projection, duration time.Duration) bool {
	if m.active {
		m.Cancel()
	}
	m.token++

	cam := m.cam
	if !cam.PoseFinite() {
		return false
	}

	dir := cam.ViewDir()
	if dir.Len() == 0 {
		return false
	}

	var viewHeight, fovStart, fovEnd float64
	switch {
	case to == Orthographic && cam.Projection == Perspective:
		viewHeight = ViewHeightAtDistance(cam.Distance(), cam.FOV)
		fovStart = cam.FOV
		fovEnd = max(FOVForViewHeight(viewHeight, m.maxDistance), minTransitionFOV)

	case to == Perspective && cam.Projection == Orthographic:
		// Re-enter perspective at the narrow end of the morph without
		// changing the visible framing, then widen back out.
		viewHeight = cam.ViewHeight()
		fovStart = mgl64.Clamp(FOVForViewHeight(viewHeight, m.maxDistance), minTransitionFOV, m.defaultFOV)
		fovEnd = m.defaultFOV

		// Clamp the same way Step does, or the first tick would jump the
		// framing for views wider than maxDistance supports at this FOV.
		dist := mgl64.Clamp(DistanceForViewHeight(viewHeight, fovStart), m.minDistance, m.maxDistance)
		if !geom.IsFiniteScalar(dist) || dist <= 0 {
			return false
		}
		cam.Projection = Perspective
		cam.FOV = fovStart
		cam.Position = cam.Target.Sub(dir.Mul(dist))

	default:
		return false // already in the requested kind
	}

	if !geom.IsFiniteScalar(viewHeight) || viewHeight <= 0 {
		return false
	}

	m.to = to
	m.viewHeight = viewHeight
	m.fovStart = fovStart
	m.fovEnd = fovEnd
	m.viewDir = dir
	m.duration = duration
	m.startedAt = m.clock()
	m.active = true
	if m.onActivate != nil {
		m.onActivate()
	}

	if duration <= 0 {
		m.Step()
		return true
	}
	m.invalidate()
	return true
}

// Step advances the animation one tick. Returns true when the transition
// completed (and committed) during this call.
func (m *TransitionManager) Step() bool {
	if !m.active {
		return false
	}

	t := 1.0
	if m.duration > 0 {
		t = float64(m.clock().Sub(m.startedAt)) / float64(m.duration)
	}
	t = mgl64.Clamp(t, 0, 1)
	eased := geom.EaseInOutCubic(t)

	fov := m.fovStart + (m.fovEnd-m.fovStart)*eased
	dist := mgl64.Clamp(DistanceForViewHeight(m.viewHeight, fov), m.minDistance, m.maxDistance)
	if !geom.IsFiniteScalar(fov) || !geom.IsFiniteScalar(dist) {
		m.Cancel()
		return false
	}

	cam := m.cam
	cam.FOV = fov
	cam.Position = cam.Target.Sub(m.viewDir.Mul(dist))
	m.invalidate()

	if t < 1 {
		return false
	}

	// Commit. Entering orthographic syncs the orthographic frustum from
	// the final perspective state and swaps; entering perspective simply
	// leaves the perspective camera active.
	if m.to == Orthographic {
		if synced, ok := SyncOrthoFromPerspective(*cam, cam.Target); ok {
			*cam = synced
		}
	}
	m.settle()
	m.invalidate()
	return true
}

// Cancel clears the transition without rolling back: the camera freezes at
// its last interpolated state.
func (m *TransitionManager) Cancel() {
	if !m.active {
		return
	}
	m.settle()
}

func (m *TransitionManager) settle() {
	m.active = false
	if m.onSettle != nil {
		m.onSettle()
	}
}
