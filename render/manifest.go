// Package render builds painter trees from JSON manifests and drives the
// command line.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest describes one output image: a root node plus where and how to
// encode it.
type Manifest struct {
	Node

	Output  string `json:"output"`
	Format  string `json:"format,omitempty"`
	Palette string `json:"palette,omitempty"`
	Dither  bool   `json:"dither,omitempty"`
	Quality int    `json:"quality,omitempty"`
	// Font is the default font file for every text in the tree.
	Font string `json:"font,omitempty"`
}

// Node is a painter. It starts from Image or from an empty Width x
// Height canvas; the operations are applied in field order, layers
// attached last but before Opacity.
type Node struct {
	Image      string   `json:"image,omitempty"`
	Width      int      `json:"width,omitempty"`
	Height     int      `json:"height,omitempty"`
	Background string   `json:"background,omitempty"`
	Fit        *Fit     `json:"fit,omitempty"`
	Scale      *Scale   `json:"scale,omitempty"`
	Crop       *Crop    `json:"crop,omitempty"`
	Texts      []Text   `json:"texts,omitempty"`
	Layers     []Layer  `json:"layers,omitempty"`
	Opacity    *float64 `json:"opacity,omitempty"`
}

type Layer struct {
	Index *int   `json:"index,omitempty"`
	Alias string `json:"alias,omitempty"`
	X     int    `json:"x,omitempty"`
	Y     int    `json:"y,omitempty"`
	Node
}

// Scale sets an absolute size or, when Factor is non-zero, a relative one.
type Scale struct {
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Factor float64 `json:"factor,omitempty"`
}

type Crop struct {
	X      int `json:"x,omitempty"`
	Y      int `json:"y,omitempty"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Radius int `json:"radius,omitempty"`
}

type Text struct {
	Text       string `json:"text"`
	X          int    `json:"x,omitempty"`
	Y          int    `json:"y,omitempty"`
	Size       int    `json:"size"`
	Font       string `json:"font,omitempty"`
	Color      string `json:"color,omitempty"`
	Background string `json:"background,omitempty"`
	Align      string `json:"align,omitempty"`
	VAlign     string `json:"valign,omitempty"`
	MarginX    int    `json:"margin_x,omitempty"`
	MarginY    int    `json:"margin_y,omitempty"`
}

// LoadManifest reads the manifest at path. Unknown fields are rejected.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read manifest %q: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("could not parse manifest %q: %w", path, err)
	}
	if m.Output == "" {
		return nil, fmt.Errorf("manifest %q has no output", path)
	}
	return &m, nil
}

// resolve makes a manifest relative path relative to dir.
func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
