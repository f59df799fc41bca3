package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// Marshal serializes a Graph to pretty-printed JSON bytes.
func Marshal(g *Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Graph.
// It checks that node IDs are unique and that every connector references
// known nodes.
func Unmarshal(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("layout node without id")
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("duplicate layout node id %q", n.ID)
		}
		seen[n.ID] = true
	}
	for _, c := range g.Connectors {
		if !seen[c.FromID] || !seen[c.ToID] {
			return nil, fmt.Errorf("connector %s->%s references unknown node", c.FromID, c.ToID)
		}
	}
	if g.Nodes == nil {
		g.Nodes = []PositionedNode{}
	}
	if g.Connectors == nil {
		g.Connectors = []Connector{}
	}
	return &g, nil
}

// WriteFile writes a Graph to a JSON file.
func WriteFile(g *Graph, path string) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Graph from a JSON file.
func ReadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
