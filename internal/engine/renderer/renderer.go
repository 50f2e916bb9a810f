// Package renderer provides the OpenGL backend for mesh drawing.
package renderer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/torchfall/lumen3d/internal/engine/mesh"
	"github.com/torchfall/lumen3d/internal/logger"
)

// MaxBones is the palette size the shader reserves. Meshes with more
// bones fail at upload.
const MaxBones = 64

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer owns the GL state: shader program, uniform locations, and
// per-mesh GPU buffers. It implements mesh.Backend.
type Renderer struct {
	config Config

	program uint32

	uProj     int32
	uView     int32
	uModel    int32
	uBones    int32
	uSkinned  int32
	uBaseTint int32

	view mgl32.Mat4
	proj mgl32.Mat4

	meshes map[*mesh.Mesh]*gpuMesh
}

// New initializes OpenGL and compiles the shader program. Must be
// called after the GL context exists.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		view:   mgl32.Ident4(),
		proj:   mgl32.Ident4(),
		meshes: make(map[*mesh.Mesh]*gpuMesh),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	device := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("device", device),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.08, 0.08, 0.12, 1.0)

	var err error
	r.program, err = createProgram()
	if err != nil {
		return nil, fmt.Errorf("creating shader program: %w", err)
	}

	r.uProj = gl.GetUniformLocation(r.program, gl.Str("uProj\x00"))
	r.uView = gl.GetUniformLocation(r.program, gl.Str("uView\x00"))
	r.uModel = gl.GetUniformLocation(r.program, gl.Str("uModel\x00"))
	r.uBones = gl.GetUniformLocation(r.program, gl.Str("uBones\x00"))
	r.uSkinned = gl.GetUniformLocation(r.program, gl.Str("uSkinned\x00"))
	r.uBaseTint = gl.GetUniformLocation(r.program, gl.Str("uBaseTint\x00"))

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// Close releases the shader program and any mesh buffers still
// uploaded.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for m, g := range r.meshes {
		g.release()
		m.SetBackend(nil)
		delete(r.meshes, m)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetCamera sets the view and projection matrices for the frame.
func (r *Renderer) SetCamera(view, proj mgl32.Mat4) {
	r.view = view
	r.proj = proj
}

// Begin clears the frame and binds the shader.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.uProj, 1, false, &r.proj[0])
	gl.UniformMatrix4fv(r.uView, 1, false, &r.view[0])
}

// End finishes the frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func createProgram() (uint32, error) {
	vertexSrc := `
		#version 410 core

		layout (location = 0) in vec3 aPos;
		layout (location = 1) in vec3 aNormal;
		layout (location = 2) in vec2 aUV;
		layout (location = 3) in vec4 aJoints;
		layout (location = 4) in vec4 aWeights;

		uniform mat4 uProj;
		uniform mat4 uView;
		uniform mat4 uModel;
		uniform mat4 uBones[64];
		uniform int uSkinned;

		out vec3 vNormal;

		void main() {
			vec4 pos = vec4(aPos, 1.0);
			vec4 nrm = vec4(aNormal, 0.0);
			if (uSkinned == 1) {
				mat4 skin =
					aWeights.x * uBones[int(aJoints.x)] +
					aWeights.y * uBones[int(aJoints.y)] +
					aWeights.z * uBones[int(aJoints.z)] +
					aWeights.w * uBones[int(aJoints.w)];
				pos = skin * pos;
				nrm = skin * nrm;
			}
			gl_Position = uProj * uView * uModel * pos;
			vNormal = mat3(uModel) * nrm.xyz;
		}
	` + "\x00"

	fragmentSrc := `
		#version 410 core

		in vec3 vNormal;
		out vec4 FragColor;

		uniform vec3 uBaseTint;

		void main() {
			vec3 lightDir = normalize(vec3(0.4, 1.0, 0.6));
			float diffuse = max(dot(normalize(vNormal), lightDir), 0.0);
			vec3 color = uBaseTint * (0.25 + 0.75 * diffuse);
			FragColor = vec4(color, 1.0);
		}
	` + "\x00"

	vertex, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertex)

	fragment, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragment)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("link failed: %s", infoLog)
	}

	logger.Debug("shader program created", zap.Uint32("program", program))
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("compile failed: %s", infoLog)
	}

	return shader, nil
}
