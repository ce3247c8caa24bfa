package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Converged Positions
// =============================================================================

// Layout is the serialization format for a computed force layout.
//
// A layout captures what a headless run produced: the viewport it was
// computed for, one positioned record per node (with its resolved palette
// color), the surviving links, and how the simulation ended. Renderers rebuild
// a scene from it without re-running the physics.
type Layout struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	Nodes []PlacedNode `json:"nodes" bson:"nodes"`
	Links []Link       `json:"links" bson:"links"`

	Steps   int     `json:"steps" bson:"steps"`     // Ticks executed
	Alpha   float64 `json:"alpha" bson:"alpha"`     // Final temperature
	Settled bool    `json:"settled" bson:"settled"` // Alpha fell below the minimum
}

// PlacedNode is a node with its final simulation position.
type PlacedNode struct {
	ID    string  `json:"id" bson:"id"`
	Group string  `json:"group,omitempty" bson:"group,omitempty"`
	Color string  `json:"color,omitempty" bson:"color,omitempty"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
}

// Snapshot returns the graph content of the layout, without positions.
func (l Layout) Snapshot() Snapshot {
	s := Snapshot{
		Nodes: make([]Node, len(l.Nodes)),
		Links: append([]Link(nil), l.Links...),
	}
	for i, n := range l.Nodes {
		s.Nodes[i] = Node{ID: n.ID, Group: n.Group}
	}
	return s
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Links must reference nodes present in the layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.Width < 0 || l.Height < 0 {
		return Layout{}, fmt.Errorf("layout has negative dimensions %vx%v", l.Width, l.Height)
	}

	ids := make(map[string]struct{}, len(l.Nodes))
	for _, n := range l.Nodes {
		ids[n.ID] = struct{}{}
	}
	for _, e := range l.Links {
		if _, ok := ids[e.Source]; !ok {
			return Layout{}, fmt.Errorf("layout link references %q: %w", e.Source, ErrUnknownNode)
		}
		if _, ok := ids[e.Target]; !ok {
			return Layout{}, fmt.Errorf("layout link references %q: %w", e.Target, ErrUnknownNode)
		}
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
