package domain

// Edge represents a symmetric friendship between two nodes.
// The from/to order carries no meaning; all lookups treat (a,b) and (b,a)
// as the same pair.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewEdge creates an edge between two nodes
func NewEdge(from, to string) Edge {
	return Edge{From: from, To: to}
}

// SamePair reports whether the edge connects a and b in either orientation
func (e Edge) SamePair(a, b string) bool {
	return (e.From == a && e.To == b) || (e.From == b && e.To == a)
}

// Touches reports whether the edge has id as an endpoint
func (e Edge) Touches(id string) bool {
	return e.From == id || e.To == id
}

// Other returns the endpoint opposite to id, or "" if id is not an endpoint
func (e Edge) Other(id string) string {
	switch id {
	case e.From:
		return e.To
	case e.To:
		return e.From
	}
	return ""
}

// PairKey returns the canonical key for the unordered pair
func (e Edge) PairKey() string {
	return PairKey(e.From, e.To)
}

// PairKey canonicalizes an unordered pair by sorting the endpoints
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}
