package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

// Manifest describes a finished model. It is written next to the STL and
// served for recent builds.
type Manifest struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Updated   time.Time    `json:"lastUpdated"`
	Center    Center       `json:"center"`
	S2        []string     `json:"s2hash"`
	Bbox      [4]float64   `json:"bbox"`
	Size      float64      `json:"size"`
	Triangles int          `json:"triangles"`
	Volume    float64      `json:"volume"`
	Layers    []LayerCount `json:"layers"`
	Areas     []Area       `json:"areas,omitempty"`
	Warnings  []string     `json:"warnings,omitempty"`
}

// Center is the map center, X longitude and Y latitude.
type Center struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayerCount is the triangle share of one layer.
type LayerCount struct {
	Name      string `json:"name"`
	Triangles int    `json:"triangles"`
}

// Area locates one water or park polygon by its centroid. Size is in square
// degrees.
type Area struct {
	Feature string  `json:"feature"`
	Kind    string  `json:"kind"`
	Center  Center  `json:"center"`
	Size    float64 `json:"size"`
}

// NewManifest starts a manifest with a fresh id.
func NewManifest(name string) *Manifest {
	return &Manifest{
		ID:      uuid.NewString(),
		Name:    name,
		Updated: time.Now().UTC(),
	}
}

// Encode writes m as indented JSON.
func (m *Manifest) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("[json.Encode] in pkg [config] encountered: %w", err)
	}
	return nil
}

// WriteFile writes m to path.
func (m *Manifest) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("[os.Create] in pkg [config] encountered: %w", err)
	}
	if err := m.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DecodeManifest reads a manifest written by Encode.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("[json.Decode] in pkg [config] encountered: %w", err)
	}
	return &m, nil
}
