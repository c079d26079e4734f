// Package renderer draws the scene with OpenGL: the mesh, the point cloud,
// camera frusta, the selection, the region of interest and, when looking
// through a camera, its image.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/reconview/internal/engine/debug"
	"github.com/Faultbox/reconview/internal/engine/shader"
	"github.com/Faultbox/reconview/internal/geometry"
	"github.com/Faultbox/reconview/internal/logger"
	"github.com/Faultbox/reconview/internal/selection"
	"github.com/Faultbox/reconview/pkg/geom"
	"github.com/Faultbox/reconview/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width     int
	Height    int
	PointSize float32
	// MinViews hides points seen by fewer cameras.
	MinViews int
}

// Layers selects what is drawn.
type Layers struct {
	Faces   bool
	Points  bool
	Cameras bool
}

// View is the viewpoint of one frame.
type View struct {
	View       math.Mat4
	Projection math.Mat4
	// Camera is the camera looked through, or -1.
	Camera int
	// ImageOpacity blends the camera image over the scene in camera view.
	ImageOpacity float32
}

// buffer is one VAO/VBO pair in the shared vertex layout.
type buffer struct {
	vao, vbo uint32
	count    int32
}

func (b *buffer) upload(data []float32) {
	if b.vao == 0 {
		gl.GenVertexArrays(1, &b.vao)
		gl.GenBuffers(1, &b.vbo)
		gl.BindVertexArray(b.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
		gl.VertexAttribPointer(0, 3, gl.FLOAT, false, floatsPerVertex*4, nil)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointer(1, 3, gl.FLOAT, false, floatsPerVertex*4, unsafe.Pointer(uintptr(3*4)))
		gl.EnableVertexAttribArray(1)
	}
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	b.count = int32(len(data) / floatsPerVertex)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.DYNAMIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func (b *buffer) draw(mode uint32) {
	if b.count == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(mode, 0, b.count)
	gl.BindVertexArray(0)
}

func (b *buffer) delete() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		gl.DeleteBuffers(1, &b.vbo)
		b.vao, b.vbo, b.count = 0, 0, 0
	}
}

type texture struct {
	id            uint32
	width, height int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	Layers Layers
	log    *zap.Logger

	scene *shader.Program
	image *shader.Program

	mesh, highlight, points, cameras, bounds buffer
	quadVAO, quadVBO                         uint32

	snap     *geometry.Snapshot
	sel      selection.Snapshot
	textures map[int]texture
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		Layers:   Layers{Faces: true, Points: true, Cameras: true},
		log:      logger.Named("renderer"),
		snap:     &geometry.Snapshot{},
		sel:      selection.Snapshot{NeighborCamera: selection.NoCamera, RegionCamera: selection.NoCamera},
		textures: make(map[int]texture),
	}
	if r.config.PointSize <= 0 {
		r.config.PointSize = 3
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var err error
	if r.scene, err = shader.New(sceneVertexShader, sceneFragmentShader); err != nil {
		return nil, fmt.Errorf("scene shader: %w", err)
	}
	if r.image, err = shader.New(imageVertexShader, imageFragmentShader); err != nil {
		r.scene.Delete()
		return nil, fmt.Errorf("image shader: %w", err)
	}
	r.createQuad()
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for cam := range r.textures {
		r.ReleaseImage(cam)
	}
	for _, b := range []*buffer{&r.mesh, &r.highlight, &r.points, &r.cameras, &r.bounds} {
		b.delete()
	}
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
		gl.DeleteBuffers(1, &r.quadVBO)
	}
	r.scene.Delete()
	r.image.Delete()
}

// Resize handles window resize. Sizes are in drawable pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetMinViews changes the point visibility threshold.
func (r *Renderer) SetMinViews(n int) {
	r.config.MinViews = n
	r.points.upload(pointVertices(r.snap.Points, n, r.sel))
}

// UploadRenderData replaces the drawn geometry.
func (r *Renderer) UploadRenderData(snap *geometry.Snapshot) {
	r.snap = snap
	r.mesh.upload(meshVertices(snap.Mesh))
	r.uploadSelectionBuffers()
	r.log.Debug("render data uploaded",
		zap.Uint64("generation", snap.Generation),
		zap.Int32("triangles", r.mesh.count/3),
		zap.Int32("points", r.points.count))
}

// UploadSelection replaces the drawn selection.
func (r *Renderer) UploadSelection(sel selection.Snapshot) {
	r.sel = sel
	r.uploadSelectionBuffers()
}

func (r *Renderer) uploadSelectionBuffers() {
	r.highlight.upload(highlightVertices(r.snap.Mesh, r.sel))
	r.points.upload(pointVertices(r.snap.Points, r.config.MinViews, r.sel))
	r.cameras.upload(cameraVertices(r.snap.Cameras, frustumDepth(r.snap), r.sel))
}

// UploadBounds replaces the drawn region of interest. An empty box hides it.
func (r *Renderer) UploadBounds(box geom.OBB) {
	r.bounds.upload(boundsVertices(debug.GenerateOBBWireframeVertices(box)))
}

// UploadImage stores the image of camera cam as a texture.
func (r *Renderer) UploadImage(cam int, img *image.RGBA) {
	r.ReleaseImage(cam)
	b := img.Bounds()
	t := texture{width: b.Dx(), height: b.Dy()}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(t.width), int32(t.height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	r.textures[cam] = t
	r.log.Debug("image uploaded", zap.Int("camera", cam), zap.Int("width", t.width), zap.Int("height", t.height))
}

// ReleaseImage drops the texture of camera cam.
func (r *Renderer) ReleaseImage(cam int) {
	t, ok := r.textures[cam]
	if !ok {
		return
	}
	gl.DeleteTextures(1, &t.id)
	delete(r.textures, cam)
}

// Draw renders one frame.
func (r *Renderer) Draw(v View) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	viewProj := v.Projection.Mul(v.View)

	r.scene.Use()
	r.scene.SetMat4("uViewProj", viewProj)
	r.scene.SetFloat("uPointSize", r.config.PointSize)
	gl.Uniform3f(r.scene.Uniform("uLightDir"), 0.3, 0.8, 0.52)

	if r.Layers.Faces {
		r.scene.SetInt("uShade", 1)
		r.scene.SetVec4("uColor", [4]float32{0.8, 0.8, 0.8, 1})
		r.mesh.draw(gl.TRIANGLES)

		// Highlights sit on top of the faces they cover.
		r.scene.SetInt("uShade", 0)
		gl.DepthFunc(gl.LEQUAL)
		r.highlight.draw(gl.TRIANGLES)
		gl.DepthFunc(gl.LESS)
	}
	r.scene.SetInt("uShade", 0)
	r.scene.SetVec4("uColor", [4]float32{1, 1, 1, 1})
	if r.Layers.Points {
		r.points.draw(gl.POINTS)
	}
	if r.Layers.Cameras {
		r.cameras.draw(gl.LINES)
	}
	r.bounds.draw(gl.LINES)

	if v.Camera >= 0 {
		r.drawImage(v.Camera, v.ImageOpacity)
	}
}

func (r *Renderer) drawImage(cam int, opacity float32) {
	t, ok := r.textures[cam]
	if !ok || r.config.Width == 0 || r.config.Height == 0 {
		return
	}
	// The projection matches the image height, so only x needs fitting.
	imageAspect := float32(t.width) / float32(t.height)
	viewAspect := float32(r.config.Width) / float32(r.config.Height)

	gl.Disable(gl.DEPTH_TEST)
	r.image.Use()
	gl.Uniform2f(r.image.Uniform("uScale"), imageAspect/viewAspect, 1)
	r.image.SetFloat("uOpacity", opacity)
	r.image.SetInt("uImage", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Enable(gl.DEPTH_TEST)
}

func (r *Renderer) createQuad() {
	vertices := []float32{-1, -1, 1, -1, -1, 1, 1, 1}
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.BindVertexArray(r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}
