package codec

import (
	"fmt"
	"io"

	"sociogram/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export, the default seed file format
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlFragment represents the YAML structure for seed data
type yamlFragment struct {
	Nodes    []yamlNode    `yaml:"nodes"`
	Edges    []yamlEdge    `yaml:"edges"`
	Requests []yamlRequest `yaml:"requests,omitempty"`
}

type yamlNode struct {
	ID         string   `yaml:"id"`
	Label      string   `yaml:"label"`
	Phone      string   `yaml:"phone,omitempty"`
	Address    string   `yaml:"address,omitempty"`
	Geo        *yamlGeo `yaml:"geo,omitempty"`
	Role       string   `yaml:"role,omitempty"`
	Visibility string   `yaml:"visibility,omitempty"`
}

type yamlGeo struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type yamlEdge struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type yamlRequest struct {
	ID   string `yaml:"id,omitempty"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Parse imports graph data from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Fragment, error) {
	var yf yamlFragment
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&yf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	fragment := domain.NewFragment()

	for _, yn := range yf.Nodes {
		node := domain.Node{
			ID:         yn.ID,
			Label:      yn.Label,
			Phone:      yn.Phone,
			Address:    yn.Address,
			Role:       domain.Role(yn.Role),
			Visibility: domain.Visibility(yn.Visibility),
		}
		if yn.Geo != nil {
			node.Geo = &domain.GeoPoint{Lat: yn.Geo.Lat, Lng: yn.Geo.Lng}
		}
		fragment.AddNode(node)
	}

	for _, ye := range yf.Edges {
		fragment.AddEdge(domain.NewEdge(ye.From, ye.To))
	}

	for _, yr := range yf.Requests {
		req := domain.FriendRequest{ID: yr.ID, From: yr.From, To: yr.To}
		fragment.Requests = append(fragment.Requests, req)
	}

	return validate(fragment), nil
}

// Export exports graph data to YAML
func (c *YAMLCodec) Export(fragment *domain.Fragment, w io.Writer) error {
	yf := yamlFragment{
		Nodes: make([]yamlNode, 0, len(fragment.Nodes)),
		Edges: make([]yamlEdge, 0, len(fragment.Edges)),
	}

	for _, node := range fragment.Nodes {
		yn := yamlNode{
			ID:         node.ID,
			Label:      node.Label,
			Phone:      node.Phone,
			Address:    node.Address,
			Role:       string(node.Role),
			Visibility: string(node.Visibility),
		}
		if node.Geo != nil {
			yn.Geo = &yamlGeo{Lat: node.Geo.Lat, Lng: node.Geo.Lng}
		}
		yf.Nodes = append(yf.Nodes, yn)
	}

	for _, edge := range fragment.Edges {
		yf.Edges = append(yf.Edges, yamlEdge{From: edge.From, To: edge.To})
	}

	for _, req := range fragment.Requests {
		yf.Requests = append(yf.Requests, yamlRequest{ID: req.ID, From: req.From, To: req.To})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yf); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
