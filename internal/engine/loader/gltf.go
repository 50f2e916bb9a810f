// Package loader imports glTF files into scene models: meshes, node
// hierarchy, skeleton, and bone bindings.
package loader

import (
	"go.uber.org/zap"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/torchfall/lumen3d/internal/engine/mesh"
	"github.com/torchfall/lumen3d/internal/engine/scene"
	"github.com/torchfall/lumen3d/internal/logger"
)

// LoadModel reads a glTF file and builds a scene model plus the list
// of meshes it created, in document order. Geometry is shared: cloning
// the returned model reuses these meshes.
//
// Bone bindings are resolved here, against the skeleton built from the
// document's first skin. This is the external step the scene package
// relies on; mesh nodes never resolve bones themselves.
func LoadModel(path string) (*scene.Model, []*mesh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening gltf %q", path)
	}

	meshes := make([]*mesh.Mesh, len(doc.Meshes))
	for i, gm := range doc.Meshes {
		m, err := buildMesh(doc, gm)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "building mesh %d (%s)", i, gm.Name)
		}
		meshes[i] = m
	}

	nodes := make([]scene.Node, len(doc.Nodes))
	meshNodes := make([]*scene.MeshNode, 0, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = "node"
		}
		if gn.Mesh != nil {
			mn := scene.NewMeshNode(name)
			mn.SetGeometry(meshes[*gn.Mesh])
			nodes[i] = mn
			meshNodes = append(meshNodes, mn)
		} else {
			nodes[i] = scene.NewNode(name)
		}
		applyPose(nodes[i].Base(), gn)
	}
	for i, gn := range doc.Nodes {
		for _, ci := range gn.Children {
			nodes[i].Base().AddChild(nodes[ci])
		}
	}

	root := scene.NewNode(path)
	for i := range doc.Nodes {
		if nodes[i].Base().Parent() == nil {
			root.AddChild(nodes[i])
		}
	}

	model := &scene.Model{Root: root, Meshes: meshNodes}

	if len(doc.Skins) > 0 {
		if len(doc.Skins) > 1 {
			logger.Warn("document has multiple skins, using the first",
				zap.String("path", path),
				zap.Int("skins", len(doc.Skins)),
			)
		}
		if err := bindSkin(doc, doc.Skins[0], nodes, meshes, model); err != nil {
			return nil, nil, errors.Wrapf(err, "binding skin for %q", path)
		}
	}

	root.UpdateWorldTransforms(mgl32.Ident4())

	logger.Info("model loaded",
		zap.String("path", path),
		zap.Int("meshes", len(meshes)),
		zap.Int("nodes", len(nodes)),
		zap.Bool("skinned", model.Skeleton != nil),
	)
	return model, meshes, nil
}

// applyPose copies a glTF node's TRS onto a scene node. Documents that
// omit rotation or scale decode as zero values; those fall back to
// identity.
func applyPose(nb *scene.NodeBase, gn *gltf.Node) {
	nb.Position = mgl32.Vec3(gn.Translation)

	r := gn.Rotation
	if r == ([4]float32{}) {
		nb.Rotation = mgl32.QuatIdent()
	} else {
		nb.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	}

	s := gn.Scale
	if s == ([3]float32{}) {
		nb.Scale = mgl32.Vec3{1, 1, 1}
	} else {
		nb.Scale = mgl32.Vec3(s)
	}
}

// buildMesh merges a glTF mesh's primitives into one engine mesh.
func buildMesh(doc *gltf.Document, gm *gltf.Mesh) (*mesh.Mesh, error) {
	var vertices []mesh.Vertex
	var indices []uint32

	for pi, prim := range gm.Primitives {
		posAcc, ok := prim.Attributes["POSITION"]
		if !ok {
			return nil, errors.Errorf("primitive %d has no POSITION attribute", pi)
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posAcc], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "reading positions of primitive %d", pi)
		}

		var normals [][3]float32
		if acc, ok := prim.Attributes["NORMAL"]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[acc], nil)
			if err != nil {
				return nil, errors.Wrapf(err, "reading normals of primitive %d", pi)
			}
		}
		var uvs [][2]float32
		if acc, ok := prim.Attributes["TEXCOORD_0"]; ok {
			uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[acc], nil)
			if err != nil {
				return nil, errors.Wrapf(err, "reading texcoords of primitive %d", pi)
			}
		}
		var joints [][4]uint16
		if acc, ok := prim.Attributes["JOINTS_0"]; ok {
			joints, err = modeler.ReadJoints(doc, doc.Accessors[acc], nil)
			if err != nil {
				return nil, errors.Wrapf(err, "reading joints of primitive %d", pi)
			}
		}
		var weights [][4]float32
		if acc, ok := prim.Attributes["WEIGHTS_0"]; ok {
			weights, err = modeler.ReadWeights(doc, doc.Accessors[acc], nil)
			if err != nil {
				return nil, errors.Wrapf(err, "reading weights of primitive %d", pi)
			}
		}

		base := uint32(len(vertices))
		for i := range positions {
			v := mesh.Vertex{Position: positions[i]}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			if i < len(uvs) {
				v.TexCoord = uvs[i]
			}
			if i < len(joints) {
				v.Joints = joints[i]
			}
			if i < len(weights) {
				v.Weights = weights[i]
			}
			vertices = append(vertices, v)
		}

		if prim.Indices == nil {
			for i := range positions {
				indices = append(indices, base+uint32(i))
			}
			continue
		}
		primIndices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, errors.Wrapf(err, "reading indices of primitive %d", pi)
		}
		for _, idx := range primIndices {
			indices = append(indices, base+idx)
		}
	}

	name := gm.Name
	if name == "" {
		name = "mesh"
	}
	return mesh.New(name, vertices, indices), nil
}

// bindSkin builds the skeleton from a glTF skin and binds every mesh
// node whose geometry carries joint data.
func bindSkin(doc *gltf.Document, gs *gltf.Skin, nodes []scene.Node, meshes []*mesh.Mesh, model *scene.Model) error {
	inverse, err := readInverseBind(doc, gs)
	if err != nil {
		return err
	}
	if len(inverse) != len(gs.Joints) {
		return errors.Errorf("skin has %d joints but %d inverse bind matrices", len(gs.Joints), len(inverse))
	}

	sk := scene.NewSkeleton()
	bones := make([]int, len(gs.Joints))
	for i, ji := range gs.Joints {
		if int(ji) >= len(nodes) {
			return errors.Errorf("skin joint %d references node %d of %d", i, ji, len(nodes))
		}
		bones[i] = sk.Add(nodes[ji].Base())
	}
	model.Skeleton = sk

	for i, gn := range doc.Nodes {
		if gn.Mesh == nil || gn.Skin == nil {
			continue
		}
		mn, ok := nodes[i].(*scene.MeshNode)
		if !ok {
			continue
		}
		meshes[*gn.Mesh].SetSkin(mesh.NewSkin(inverse))
		mn.BindSkeleton(sk, append([]int(nil), bones...))
	}

	return nil
}

func readInverseBind(doc *gltf.Document, gs *gltf.Skin) ([]mgl32.Mat4, error) {
	if gs.InverseBindMatrices == nil {
		// Identity bind pose is legal in glTF.
		out := make([]mgl32.Mat4, len(gs.Joints))
		for i := range out {
			out[i] = mgl32.Ident4()
		}
		return out, nil
	}

	raw, err := modeler.ReadAccessor(doc, doc.Accessors[*gs.InverseBindMatrices], nil)
	if err != nil {
		return nil, errors.Wrap(err, "reading inverse bind matrices")
	}
	mats, ok := raw.([][4][4]float32)
	if !ok {
		return nil, errors.Errorf("inverse bind accessor has unexpected type %T", raw)
	}

	out := make([]mgl32.Mat4, len(mats))
	for i, m := range mats {
		// glTF matrices are column-major, same as mgl32.
		out[i] = mgl32.Mat4{
			m[0][0], m[0][1], m[0][2], m[0][3],
			m[1][0], m[1][1], m[1][2], m[1][3],
			m[2][0], m[2][1], m[2][2], m[2][3],
			m[3][0], m[3][1], m[3][2], m[3][3],
		}
	}
	return out, nil
}
