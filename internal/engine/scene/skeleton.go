package scene

// Skeleton is an ordered table of bone nodes. Mesh nodes reference
// bones by index into this table rather than holding node pointers, so
// re-resolving bindings after a model clone is a matter of swapping the
// table and keeping the indices.
type Skeleton struct {
	nodes  []*NodeBase
	byName map[string]int
}

// NewSkeleton returns an empty skeleton.
func NewSkeleton() *Skeleton {
	return &Skeleton{byName: make(map[string]int)}
}

// Add appends a bone node and returns its index. Later nodes win on
// duplicate names.
func (s *Skeleton) Add(n *NodeBase) int {
	i := len(s.nodes)
	s.nodes = append(s.nodes, n)
	s.byName[n.Name()] = i
	return i
}

// Node returns the bone node at index i.
func (s *Skeleton) Node(i int) *NodeBase { return s.nodes[i] }

// Index returns the index of the bone with the given name.
func (s *Skeleton) Index(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// Len returns the number of bones.
func (s *Skeleton) Len() int { return len(s.nodes) }
