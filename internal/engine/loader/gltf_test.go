package loader

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/torchfall/lumen3d/internal/engine/render"
	"github.com/torchfall/lumen3d/internal/engine/scene"
)

func newTestContext() *render.Context {
	return &render.Context{}
}

func newPoseNode(gn *gltf.Node) *scene.NodeBase {
	nb := scene.NewNode("pose")
	applyPose(nb, gn)
	return nb
}

func writeTriangle(doc *gltf.Document) *gltf.Mesh {
	positions := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	})
	indices := modeler.WriteIndices(doc, []uint32{0, 1, 2})

	return &gltf.Mesh{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    &indices,
			Attributes: map[string]uint32{"POSITION": positions},
		}},
	}
}

func saveDoc(t *testing.T, doc *gltf.Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.gltf")
	if err := gltf.Save(doc, path); err != nil {
		t.Fatalf("saving test document: %v", err)
	}
	return path
}

func TestLoadModelStatic(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Meshes = append(doc.Meshes, writeTriangle(doc))

	meshIdx := uint32(0)
	doc.Nodes = append(doc.Nodes,
		&gltf.Node{Name: "pivot", Translation: [3]float32{2, 0, 0}, Children: []uint32{1}},
		&gltf.Node{Name: "tri", Mesh: &meshIdx},
	)

	model, meshes, err := LoadModel(saveDoc(t, doc))
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}

	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	if len(meshes[0].Vertices) != 3 || len(meshes[0].Indices) != 3 {
		t.Errorf("mesh has %d vertices, %d indices, want 3 and 3",
			len(meshes[0].Vertices), len(meshes[0].Indices))
	}
	if model.Skeleton != nil {
		t.Error("static model must have no skeleton")
	}
	if len(model.Meshes) != 1 {
		t.Fatalf("expected 1 mesh node, got %d", len(model.Meshes))
	}

	// World transforms are resolved at load: the mesh node inherits the
	// pivot's translation.
	world := model.Meshes[0].WorldMatrix()
	pos := mgl32.TransformCoordinate(mgl32.Vec3{0, 0, 0}, world)
	want := mgl32.Vec3{2, 0, 0}
	if !pos.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("mesh node world origin = %v, want %v", pos, want)
	}
}

func TestLoadModelSkinned(t *testing.T) {
	doc := gltf.NewDocument()

	m := writeTriangle(doc)
	m.Primitives[0].Attributes["JOINTS_0"] = modeler.WriteJoints(doc, [][4]uint16{
		{0, 1, 0, 0}, {0, 1, 0, 0}, {1, 0, 0, 0},
	})
	m.Primitives[0].Attributes["WEIGHTS_0"] = modeler.WriteWeights(doc, [][4]float32{
		{1, 0, 0, 0}, {0.5, 0.5, 0, 0}, {1, 0, 0, 0},
	})
	doc.Meshes = append(doc.Meshes, m)

	meshIdx := uint32(0)
	skinIdx := uint32(0)
	doc.Nodes = append(doc.Nodes,
		&gltf.Node{Name: "body", Mesh: &meshIdx, Skin: &skinIdx},
		&gltf.Node{Name: "root_bone", Children: []uint32{2}},
		&gltf.Node{Name: "tip_bone", Translation: [3]float32{0, 1, 0}},
	)
	// No inverse bind accessor: identity bind pose.
	doc.Skins = append(doc.Skins, &gltf.Skin{Name: "rig", Joints: []uint32{1, 2}})

	model, meshes, err := LoadModel(saveDoc(t, doc))
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}

	if model.Skeleton == nil {
		t.Fatal("expected a skeleton")
	}
	if model.Skeleton.Len() != 2 {
		t.Errorf("skeleton has %d bones, want 2", model.Skeleton.Len())
	}
	if !meshes[0].IsSkinned() {
		t.Fatal("mesh must carry a skin binding")
	}
	if got := len(meshes[0].MatrixPalette()); got != 2 {
		t.Errorf("palette holds %d matrices, want 2", got)
	}

	mn := model.Meshes[0]
	if mn.Skeleton() != model.Skeleton {
		t.Error("mesh node must be bound to the model skeleton")
	}
	if got := mn.Bones(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("bone indices = %v, want [0 1]", got)
	}

	// With identity bind pose the palette entries are the bone world
	// matrices.
	if err := mn.Dispatch(newTestContext()); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	palette := meshes[0].MatrixPalette()
	if palette[0] != model.Skeleton.Node(0).WorldMatrix() {
		t.Error("palette[0] must equal the first bone's world matrix")
	}
	if palette[1] != model.Skeleton.Node(1).WorldMatrix() {
		t.Error("palette[1] must equal the second bone's world matrix")
	}
}

func TestLoadModelMissingFile(t *testing.T) {
	if _, _, err := LoadModel(filepath.Join(t.TempDir(), "missing.gltf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBuildMeshMergesPrimitives(t *testing.T) {
	doc := gltf.NewDocument()

	a := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	ai := modeler.WriteIndices(doc, []uint32{0, 1, 2})
	b := modeler.WritePosition(doc, [][3]float32{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}})
	bi := modeler.WriteIndices(doc, []uint32{0, 1, 2})

	gm := &gltf.Mesh{Primitives: []*gltf.Primitive{
		{Indices: &ai, Attributes: map[string]uint32{"POSITION": a}},
		{Indices: &bi, Attributes: map[string]uint32{"POSITION": b}},
	}}

	m, err := buildMesh(doc, gm)
	if err != nil {
		t.Fatalf("buildMesh: %v", err)
	}
	if len(m.Vertices) != 6 {
		t.Fatalf("merged mesh has %d vertices, want 6", len(m.Vertices))
	}
	want := []uint32{0, 1, 2, 3, 4, 5}
	for i, idx := range m.Indices {
		if idx != want[i] {
			t.Fatalf("indices = %v, want %v", m.Indices, want)
		}
	}
}

func TestBuildMeshRequiresPosition(t *testing.T) {
	doc := gltf.NewDocument()
	gm := &gltf.Mesh{Primitives: []*gltf.Primitive{{Attributes: map[string]uint32{}}}}

	if _, err := buildMesh(doc, gm); err == nil {
		t.Error("expected error for primitive without positions")
	}
}

func TestApplyPoseDefaults(t *testing.T) {
	n := newPoseNode(&gltf.Node{})

	if n.Rotation != mgl32.QuatIdent() {
		t.Errorf("omitted rotation must decode to identity, got %v", n.Rotation)
	}
	if n.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("omitted scale must decode to 1, got %v", n.Scale)
	}
}

func TestApplyPoseExplicit(t *testing.T) {
	n := newPoseNode(&gltf.Node{
		Translation: [3]float32{1, 2, 3},
		Rotation:    [4]float32{0, 0.7071068, 0, 0.7071068},
		Scale:       [3]float32{2, 2, 2},
	})

	if n.Position != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("position = %v", n.Position)
	}
	if n.Rotation.W != 0.7071068 || n.Rotation.V != (mgl32.Vec3{0, 0.7071068, 0}) {
		t.Errorf("rotation = %v", n.Rotation)
	}
	if n.Scale != (mgl32.Vec3{2, 2, 2}) {
		t.Errorf("scale = %v", n.Scale)
	}
}
