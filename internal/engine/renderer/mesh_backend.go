package renderer

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/torchfall/lumen3d/internal/engine/mesh"
	"github.com/torchfall/lumen3d/internal/engine/render"
	"github.com/torchfall/lumen3d/internal/logger"
)

// vertexStride is the interleaved float count per vertex:
// position 3 + normal 3 + uv 2 + joints 4 + weights 4.
const vertexStride = 16

type gpuMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	wireEBO    uint32
	indexCount int32
	wireCount  int32
}

// Upload creates GPU buffers for a mesh and attaches the renderer as
// its draw backend. Uploading the same mesh again replaces its buffers
// (used after GenerateWireframe).
func (r *Renderer) Upload(m *mesh.Mesh) error {
	if skin := m.Skin(); skin != nil && skin.Len() > MaxBones {
		return fmt.Errorf("renderer: mesh %q has %d bones, shader palette holds %d", m.Name(), skin.Len(), MaxBones)
	}
	if old, ok := r.meshes[m]; ok {
		old.release()
		delete(r.meshes, m)
	}

	data := make([]float32, 0, len(m.Vertices)*vertexStride)
	for i := range m.Vertices {
		v := &m.Vertices[i]
		data = append(data,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoord[0], v.TexCoord[1],
			float32(v.Joints[0]), float32(v.Joints[1]), float32(v.Joints[2]), float32(v.Joints[3]),
			v.Weights[0], v.Weights[1], v.Weights[2], v.Weights[3],
		)
	}
	if len(data) == 0 {
		return fmt.Errorf("renderer: mesh %q has no vertices", m.Name())
	}

	g := &gpuMesh{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)

	stride := int32(vertexStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(8*4)))
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(4, 4, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(12*4)))
	gl.EnableVertexAttribArray(4)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	if wire := m.Wireframe(); len(wire) > 0 {
		g.wireCount = int32(len(wire))
		gl.GenBuffers(1, &g.wireEBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.wireEBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(wire)*4, unsafe.Pointer(&wire[0]), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	r.meshes[m] = g
	m.SetBackend(r)

	logger.Debug("mesh uploaded",
		zap.String("mesh", m.Name()),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int32("indices", g.indexCount),
		zap.Bool("skinned", m.IsSkinned()),
		zap.Int32("wire_indices", g.wireCount),
	)
	return nil
}

// Draw submits an uploaded mesh with the given world transform and
// style. Called by mesh.Mesh.Draw during node dispatch; the context
// identifies the dispatching node.
func (r *Renderer) Draw(rc *render.Context, m *mesh.Mesh, world mgl32.Mat4, style render.Style) {
	g, ok := r.meshes[m]
	if !ok {
		name := "<none>"
		if n := rc.Current(); n != nil {
			name = n.Name()
		}
		logger.Warn("draw of mesh that was never uploaded",
			zap.String("mesh", m.Name()),
			zap.String("node", name),
		)
		return
	}

	gl.UniformMatrix4fv(r.uModel, 1, false, &world[0])

	if palette := m.MatrixPalette(); palette != nil {
		gl.Uniform1i(r.uSkinned, 1)
		gl.UniformMatrix4fv(r.uBones, int32(len(palette)), false, &palette[0][0])
	} else {
		gl.Uniform1i(r.uSkinned, 0)
	}

	gl.BindVertexArray(g.vao)
	switch style {
	case render.StyleWireframe:
		if g.wireEBO == 0 {
			// Wireframe data was generated after the upload; the GPU
			// copy has no line buffer until the mesh is re-uploaded.
			logger.Warn("wireframe draw of mesh uploaded without wireframe data",
				zap.String("mesh", m.Name()),
			)
			gl.BindVertexArray(0)
			return
		}
		gl.Uniform3f(r.uBaseTint, 0.3, 0.9, 0.4)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.wireEBO)
		gl.DrawElements(gl.LINES, g.wireCount, gl.UNSIGNED_INT, nil)
	default:
		gl.Uniform3f(r.uBaseTint, 0.8, 0.8, 0.85)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}

// Release frees the GPU buffers of an uploaded mesh.
func (r *Renderer) Release(m *mesh.Mesh) {
	if g, ok := r.meshes[m]; ok {
		g.release()
		delete(r.meshes, m)
		m.SetBackend(nil)
	}
}

func (g *gpuMesh) release() {
	if g.wireEBO != 0 {
		gl.DeleteBuffers(1, &g.wireEBO)
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
}
