package mapmesh

import (
	"fmt"
	"math"
	"strings"

	"github.com/godeepar/mapmesh/config"
	"github.com/godeepar/mapmesh/geometry"
	"github.com/godeepar/mapmesh/mesh"
)

// Label lines as fractions of the bottom margin: baseline and capital height.
const (
	titleBaseline    = 0.45
	titleHeight      = 0.45
	subtitleBaseline = 0.15
	subtitleHeight   = 0.2

	// labels keep this share of the print width
	labelWidth = 0.9
)

// Labels returns the two lines printed in the bottom margin. The title
// defaults to the map name in capitals with its letters spaced out, the
// subtitle to the center coordinates.
func Labels(cfg config.Config, center geometry.GeoPoint) (title, subtitle string) {
	title = strings.ToUpper(cfg.Text)
	if title == "" {
		title = spaced(strings.ToUpper(cfg.Name))
	}
	subtitle = strings.ToUpper(cfg.Subtitle)
	if subtitle == "" {
		subtitle = Coordinates(center)
	}
	return title, subtitle
}

// Coordinates formats g as "52.3700 N / 4.8950 E".
func Coordinates(g geometry.GeoPoint) string {
	ns, ew := "N", "E"
	if g.Lat < 0 {
		ns = "S"
	}
	if g.Lon < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.4f %s / %.4f %s", math.Abs(g.Lat), ns, math.Abs(g.Lon), ew)
}

func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}

// textLayer draws the labels centered in the bottom margin. Without a
// margin there is no room and the layer stays empty.
func textLayer(cfg config.Config, center geometry.GeoPoint) mesh.Mesh {
	margin := cfg.BottomMargin
	if margin <= 0 {
		return mesh.Mesh{}
	}
	title, subtitle := Labels(cfg, center)

	iv := cfg.Layers.Text
	bottom, height := float32(iv.Bottom), float32(iv.Top-iv.Bottom)
	mid, width := float32(cfg.Size/2), float32(cfg.Size*labelWidth)

	var m mesh.Mesh
	for _, line := range []struct {
		text     string
		baseline float64
		height   float64
	}{
		{title, titleBaseline, titleHeight},
		{subtitle, subtitleBaseline, subtitleHeight},
	} {
		if strings.TrimSpace(line.text) == "" {
			continue
		}
		font := mesh.NewStrokeFont(float32(line.height * margin)).Fit(line.text, width)
		m.Append(font.RenderCentered(line.text, mid, float32(line.baseline*margin), bottom, height))
	}
	return m
}
