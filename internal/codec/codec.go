// Package codec imports and exports graph fragments for seed files and
// operator tooling.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"sociogram/internal/domain"
)

// Importer parses graph data from an external representation
type Importer interface {
	Parse(r io.Reader) (*domain.Fragment, error)
	Format() string
}

// Exporter writes graph data to an external representation
type Exporter interface {
	Export(fragment *domain.Fragment, w io.Writer) error
	Format() string
}

// ForPath picks an importer based on the file extension.
func ForPath(path string) (Importer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLCodec(), nil
	case ".json":
		return NewJSONCodec(), nil
	default:
		return nil, fmt.Errorf("no codec for %s", path)
	}
}

// validate drops malformed entries rather than rejecting the whole
// fragment: a seed file with one bad row should still bootstrap the
// rest. Edges are canonicalized to one record per unordered pair.
func validate(f *domain.Fragment) *domain.Fragment {
	out := domain.NewFragment()

	known := make(map[string]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		if n.ID == "" || known[n.ID] {
			continue
		}
		if !n.Role.Valid() {
			n.Role = domain.RoleGeneral
		}
		if !n.Visibility.Valid() {
			n.Visibility = domain.VisibilityPublic
		}
		known[n.ID] = true
		out.AddNode(n)
	}

	pairs := make(map[string]bool, len(f.Edges))
	for _, e := range f.Edges {
		if e.From == "" || e.To == "" || e.From == e.To {
			continue
		}
		key := e.PairKey()
		if pairs[key] {
			continue
		}
		pairs[key] = true
		out.AddEdge(e)
	}

	for _, r := range f.Requests {
		if r.From == "" || r.To == "" || r.From == r.To {
			continue
		}
		if pairs[domain.PairKey(r.From, r.To)] {
			// Pending proposals never coexist with an edge
			continue
		}
		if r.ID == "" {
			r.ID = domain.RequestID(r.From, r.To)
		}
		out.Requests = append(out.Requests, r)
	}

	return out
}
