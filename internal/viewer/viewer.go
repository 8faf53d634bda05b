// Package viewer wires the window, renderer, camera rig, and input
// layers into a demand-driven application loop: frames render only when
// something invalidates, plus one frame per animation tick while a tween
// or projection transition runs.
package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/brhx/fabric-sub000/internal/config"
	"github.com/brhx/fabric-sub000/internal/engine/camera"
	"github.com/brhx/fabric-sub000/internal/engine/geodetic"
	"github.com/brhx/fabric-sub000/internal/engine/input"
	"github.com/brhx/fabric-sub000/internal/engine/renderer"
	"github.com/brhx/fabric-sub000/internal/engine/trackpad"
	"github.com/brhx/fabric-sub000/internal/engine/viewcube"
	"github.com/brhx/fabric-sub000/internal/engine/window"
	"github.com/brhx/fabric-sub000/internal/engine/worldframe"
)

// App is the viewer application instance.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	in       *input.Input

	rig    *camera.Rig
	widget *viewcube.Widget
	mapper *trackpad.Mapper
	keymap *input.Keymap

	geo *geodetic.Frame

	running     bool
	needsRedraw bool
	cubeCapture bool
}

// New builds the application. The GL context is created here, so New
// must run on the main thread.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{cfg: cfg, log: log}

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: dw, Height: dh}, log.Named("renderer"))
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.in = input.New(cfg.Window.Width, cfg.Window.Height)

	a.rig = camera.NewRig(a.rigConfig(), a.buildFrame(), nil)
	a.rig.SetInvalidate(a.invalidate)
	if !a.rig.RequestDefaultView(cfg.Camera.InitialView) {
		log.Warn("unknown initial view, keeping default pose",
			zap.String("view", cfg.Camera.InitialView))
	}
	if config.StartOrthographic() {
		a.rig.ToggleProjection(0)
	}

	a.widget = viewcube.NewWidget(a.rig, a.widgetRect(), viewcube.Config{
		CubeSize:      1.0,
		Chamfer:       cfg.ViewCube.Chamfer,
		DragThreshold: cfg.ViewCube.DragThreshold,
		RotateSpeed:   cfg.ViewCube.RotateSpeed,
	}, log.Named("viewcube"))
	a.widget.SetInvalidate(a.invalidate)

	a.mapper = trackpad.NewMapper(a.rig, trackpad.Config{
		PanSpeed:    cfg.Input.PanSpeed,
		ZoomSpeed:   cfg.Input.ZoomSpeed,
		PinchSpeed:  cfg.Input.PinchSpeed,
		OrbitSpeed:  cfg.Input.OrbitSpeed,
		PivotRepick: cfg.Input.PivotRepick,
	}, a.viewport, log.Named("trackpad"))
	a.mapper.SetChromePredicate(func(x, y float64) bool {
		return a.widget.Rect().Contains(x, y)
	})

	a.keymap, err = buildKeymap(cfg.Bindings)
	if err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, fmt.Errorf("invalid key bindings: %w", err)
	}

	a.log.Info("viewer initialized",
		zap.String("initial_view", cfg.Camera.InitialView),
		zap.Bool("geodetic", cfg.Geodetic.Enabled),
	)
	a.needsRedraw = true
	return a, nil
}

// buildFrame selects the world frame: ENU-anchored when geodetic mode is
// on, plain fixed-up otherwise.
func (a *App) buildFrame() worldframe.Frame {
	if !a.cfg.Geodetic.Enabled {
		return worldframe.NewFixed(mgl64.Vec3{0, 0, 1})
	}
	origin := geodetic.FromDegrees(
		a.cfg.Geodetic.OriginLat,
		a.cfg.Geodetic.OriginLon,
		a.cfg.Geodetic.OriginHeight,
	)
	a.geo = geodetic.NewFrame(geodetic.ToECEF(origin))
	a.log.Info("geodetic frame anchored",
		zap.Float64("lat", a.cfg.Geodetic.OriginLat),
		zap.Float64("lon", a.cfg.Geodetic.OriginLon),
		zap.Float64("height", a.cfg.Geodetic.OriginHeight),
	)
	// Local render space IS the ENU space at the origin, so render-side
	// up stays +Z.
	return worldframe.NewFixed(mgl64.Vec3{0, 0, 1})
}

func (a *App) rigConfig() camera.RigConfig {
	cfg := camera.DefaultRigConfig()
	cfg.FOV = a.cfg.Camera.FOV
	cfg.Near = a.cfg.Camera.Near
	cfg.Far = a.cfg.Camera.Far
	cfg.Limits.MinDistance = a.cfg.Camera.MinDistance
	cfg.Limits.MaxDistance = a.cfg.Camera.MaxDistance
	cfg.LookAtDuration = a.cfg.Camera.LookAtDuration
	cfg.Aspect = float64(a.cfg.Window.Width) / float64(a.cfg.Window.Height)
	return cfg
}

func buildKeymap(b config.BindingsConfig) (*input.Keymap, error) {
	km := input.NewKeymap()
	for spec, view := range b.Views {
		if err := km.BindSpec(spec, view); err != nil {
			return nil, err
		}
	}
	if b.ProjectionToggle != "" {
		if err := km.BindSpec(b.ProjectionToggle, input.ToggleProjectionAction); err != nil {
			return nil, err
		}
	}
	return km, nil
}

// GeodeticFrame exposes the current frame and render offset for
// collaborators placing georeferenced content. Returns nil when
// geodetic mode is off.
func (a *App) GeodeticFrame() *geodetic.Frame {
	return a.geo
}

// Rig exposes the camera rig for collaborators.
func (a *App) Rig() *camera.Rig { return a.rig }

// SetSceneQuery installs a scene picker for orbit-pivot selection.
func (a *App) SetSceneQuery(q trackpad.SceneQuery) { a.mapper.SetSceneQuery(q) }

func (a *App) invalidate() { a.needsRedraw = true }

func (a *App) viewport() (float64, float64) {
	w, h := a.window.GetSize()
	return float64(w), float64(h)
}

func (a *App) widgetRect() viewcube.Rect {
	size := float64(a.cfg.ViewCube.Size)
	margin := float64(a.cfg.ViewCube.Margin)
	w, _ := a.window.GetSize()
	return viewcube.Rect{X: float64(w) - size - margin, Y: margin, Size: size}
}

// Run starts the main loop. Blocks until quit.
func (a *App) Run() error {
	a.running = true
	a.log.Info("starting viewer loop")

	for a.running {
		if a.in.Update() {
			break
		}
		for _, ev := range a.in.Events() {
			a.dispatch(ev)
		}

		// Advance tweens and transitions; an active animation keeps the
		// loop producing frames.
		animating := a.rig.Step()
		if animating {
			a.needsRedraw = true
		} else if a.maybeRebase() {
			a.needsRedraw = true
		}

		if a.needsRedraw {
			a.render()
			a.window.SwapBuffers()
			a.needsRedraw = false
		} else {
			// Idle; nothing invalidated this tick.
			sdl.Delay(4)
		}
	}

	return nil
}

func (a *App) dispatch(ev input.Event) {
	switch ev.Type {
	case input.EventQuit:
		a.running = false

	case input.EventWindowResize:
		dw, dh := a.window.DrawableSize()
		a.renderer.Resize(dw, dh)
		a.rig.Camera().Aspect = float64(ev.Width) / float64(ev.Height)
		a.widget.SetRect(a.widgetRect())
		a.needsRedraw = true

	case input.EventKeyDown:
		a.handleKey(ev)

	case input.EventPointerDown:
		if ev.Button == sdl.BUTTON_LEFT {
			a.cubeCapture = a.widget.Press(ev.X, ev.Y)
		}

	case input.EventPointerMove:
		a.widget.Move(ev.X, ev.Y)

	case input.EventPointerUp:
		if ev.Button == sdl.BUTTON_LEFT && a.cubeCapture {
			a.widget.Release(ev.X, ev.Y)
			a.cubeCapture = false
		}

	case input.EventWheel, input.EventPinch:
		a.mapper.Handle(ev)
	}
}

func (a *App) handleKey(ev input.Event) {
	if ev.Key == sdl.K_ESCAPE && ev.Mods.None() {
		a.running = false
		return
	}
	action, ok := a.keymap.Lookup(ev.Mods, ev.Key, ev.Code)
	if !ok {
		return
	}
	if action == input.ToggleProjectionAction {
		a.rig.ToggleProjection(a.cfg.Camera.ToggleDuration)
		return
	}
	if !a.rig.RequestDefaultView(action) {
		a.log.Warn("unknown view binding", zap.String("view", action))
	}
}

// maybeRebase shifts the geodetic origin under the camera target once it
// drifts far enough that float precision would start to wobble.
func (a *App) maybeRebase() bool {
	if a.geo == nil || a.rig.Transition().IsActive() {
		return false
	}
	target := a.rig.Camera().Target
	if target.Len() < a.cfg.Geodetic.RebaseDistance {
		return false
	}

	dist := target.Len()
	a.geo = a.geo.Rebase(target)
	// Render space moved under the scene; pull the camera back with it.
	a.rig.Truck(target.Mul(-1))
	a.log.Info("render origin rebased",
		zap.Float64("distance", dist),
		zap.Float64s("offset", a.geo.RenderOffset[:]))
	return true
}

func (a *App) render() {
	a.renderer.Begin()
	a.renderer.DrawGrid(a.rig.Camera())

	w, _ := a.window.GetSize()
	dw, _ := a.window.DrawableSize()
	ratio := 1.0
	if w > 0 {
		ratio = float64(dw) / float64(w)
	}
	a.renderer.DrawViewCube(a.widget, ratio)
	a.renderer.End()
}

// Close cleans up resources.
func (a *App) Close() {
	a.log.Info("closing viewer")
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
