package domain

// Fragment represents a partial graph for seed import/export operations
type Fragment struct {
	Nodes    []Node          `json:"nodes" yaml:"nodes"`
	Edges    []Edge          `json:"edges" yaml:"edges"`
	Requests []FriendRequest `json:"requests,omitempty" yaml:"requests,omitempty"`
}

// NewFragment creates an empty fragment
func NewFragment() *Fragment {
	return &Fragment{
		Nodes:    make([]Node, 0),
		Edges:    make([]Edge, 0),
		Requests: make([]FriendRequest, 0),
	}
}

// AddNode adds a node to the fragment
func (f *Fragment) AddNode(node Node) {
	f.Nodes = append(f.Nodes, node)
}

// AddEdge adds an edge to the fragment
func (f *Fragment) AddEdge(edge Edge) {
	f.Edges = append(f.Edges, edge)
}
