package mesh

// GenerateWireframe builds the line index buffer for wireframe
// rendering from the triangle indices, deduplicating shared edges.
// Must be called before any node dispatches this mesh with the
// wireframe style.
func (m *Mesh) GenerateWireframe() {
	seen := make(map[[2]uint32]struct{}, len(m.Indices))
	lines := make([]uint32, 0, len(m.Indices)*2)

	addEdge := func(a, b uint32) {
		if a > b {
			a, b = b, a
		}
		key := [2]uint32{a, b}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		lines = append(lines, a, b)
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		addEdge(m.Indices[i], m.Indices[i+1])
		addEdge(m.Indices[i+1], m.Indices[i+2])
		addEdge(m.Indices[i+2], m.Indices[i])
	}

	m.wire = lines
}

// HasWireframe reports whether wireframe data has been generated.
func (m *Mesh) HasWireframe() bool { return m.wire != nil }

// Wireframe returns the generated line indices, nil if not generated.
func (m *Mesh) Wireframe() []uint32 { return m.wire }
