// Package renderer provides the OpenGL draw path: a reference ground
// grid in the main viewport and the orientation cube overlay. Scene
// content itself is drawn by collaborators between Begin and End.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/brhx/fabric-sub000/internal/engine/camera"
	"github.com/brhx/fabric-sub000/internal/engine/shader"
	"github.com/brhx/fabric-sub000/internal/engine/viewcube"
)

// Config holds renderer configuration.
type Config struct {
	Width  int // drawable size in pixels
	Height int
	// GridExtent is the half-width of the reference grid in world units.
	GridExtent float64
	// GridStep is the spacing between grid lines in world units.
	GridStep float64
}

// Renderer owns the GL resources for the grid and the cube overlay.
// Must be created and used on the thread holding the GL context.
type Renderer struct {
	config Config
	log    *zap.Logger

	program *shader.Program

	gridVAO   uint32
	gridVBO   uint32
	gridVerts int32

	cubeVAO   uint32
	cubeVBO   uint32
	cubeVerts int32
	// First vertex per baked triangle, for highlight sub-draws.
	cubeTriangleStart []int32
}

// New creates a renderer. Must be called after the GL context exists.
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.GridExtent <= 0 {
		cfg.GridExtent = 50
	}
	if cfg.GridStep <= 0 {
		cfg.GridStep = 1
	}
	r := &Renderer{config: cfg, log: log}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.ClearColor(0.12, 0.12, 0.14, 1.0)

	var err error
	r.program, err = shader.Compile(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r.buildGrid()
	return r, nil
}

// Close releases GL resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.gridVAO != 0 {
		gl.DeleteVertexArrays(1, &r.gridVAO)
		gl.DeleteBuffers(1, &r.gridVBO)
	}
	if r.cubeVAO != 0 {
		gl.DeleteVertexArrays(1, &r.cubeVAO)
		gl.DeleteBuffers(1, &r.cubeVBO)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize updates the drawable size.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Begin clears the frame.
func (r *Renderer) Begin() {
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the frame. Draw calls are unbatched; nothing to flush.
func (r *Renderer) End() {}

// DrawGrid draws the reference grid with the camera's view-projection.
func (r *Renderer) DrawGrid(cam *camera.Camera) {
	r.program.Use()
	r.program.SetMat4("uMVP", mat4f(cam.ViewProjection()))
	r.program.SetVec4("uColor", 0.35, 0.35, 0.38, 1.0)
	gl.BindVertexArray(r.gridVAO)
	gl.DrawArrays(gl.LINES, 0, r.gridVerts)
	gl.BindVertexArray(0)
}

// DrawViewCube draws the orientation cube into its own viewport corner,
// highlighting the hovered region. pixelRatio converts the widget's
// screen-coordinate rect to drawable pixels.
func (r *Renderer) DrawViewCube(w *viewcube.Widget, pixelRatio float64) {
	if r.cubeVAO == 0 {
		r.uploadCube(w.Mesh())
	}

	rect := w.Rect()
	vx := int32(rect.X * pixelRatio)
	vw := int32(rect.Size * pixelRatio)
	// GL viewports are bottom-left anchored.
	vy := int32(r.config.Height) - int32((rect.Y+rect.Size)*pixelRatio)
	gl.Viewport(vx, vy, vw, vw)
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	r.program.Use()
	r.program.SetMat4("uMVP", cubeMVP(w))
	gl.BindVertexArray(r.cubeVAO)

	r.program.SetVec4("uColor", 0.75, 0.76, 0.78, 1.0)
	gl.DrawArrays(gl.TRIANGLES, 0, r.cubeVerts)

	if hit, ok := w.HoverHit(); ok {
		r.program.SetVec4("uColor", 0.95, 0.72, 0.25, 1.0)
		for _, idx := range w.Mesh().TriangleIndices(hit) {
			gl.DrawArrays(gl.TRIANGLES, r.cubeTriangleStart[idx], 3)
		}
	}

	gl.BindVertexArray(0)
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
}

// cubeMVP builds the overlay transform: the widget's orientation under a
// fixed orthographic camera sized to the cube's rotated silhouette.
func cubeMVP(w *viewcube.Widget) [16]float32 {
	ext := w.OverlayExtent()
	proj := mgl64.Ortho(-ext, ext, -ext, ext, -2, 2)
	return mat4f(proj.Mul4(w.Orientation().Mat4()))
}

func (r *Renderer) buildGrid() {
	var verts []float32
	e := float32(r.config.GridExtent)
	for x := -r.config.GridExtent; x <= r.config.GridExtent; x += r.config.GridStep {
		fx := float32(x)
		verts = append(verts, fx, -e, 0, fx, e, 0)
		verts = append(verts, -e, fx, 0, e, fx, 0)
	}
	r.gridVerts = int32(len(verts) / 3)

	gl.GenVertexArrays(1, &r.gridVAO)
	gl.BindVertexArray(r.gridVAO)
	gl.GenBuffers(1, &r.gridVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.gridVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func (r *Renderer) uploadCube(mesh *viewcube.Mesh) {
	var verts []float32
	r.cubeTriangleStart = make([]int32, len(mesh.Triangles))
	for i, tri := range mesh.Triangles {
		r.cubeTriangleStart[i] = int32(len(verts) / 3)
		for _, p := range []mgl64.Vec3{tri.A, tri.B, tri.C} {
			verts = append(verts, float32(p.X()), float32(p.Y()), float32(p.Z()))
		}
	}
	r.cubeVerts = int32(len(verts) / 3)

	gl.GenVertexArrays(1, &r.cubeVAO)
	gl.BindVertexArray(r.cubeVAO)
	gl.GenBuffers(1, &r.cubeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.cubeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.log.Debug("view cube uploaded", zap.Int32("vertices", r.cubeVerts))
}

// mat4f converts a float64 matrix to the float32 layout GL expects.
func mat4f(m mgl64.Mat4) [16]float32 {
	var out [16]float32
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

const vertexSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uMVP;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
}
`

const fragmentSrc = `
#version 410 core

uniform vec4 uColor;
out vec4 FragColor;

void main() {
	FragColor = uColor;
}
`
