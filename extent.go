package mapmesh

import (
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"

	"github.com/godeepar/mapmesh/geometry"
)

// S2Level is the cell level of the map center token, cells of about a
// kilometer.
const S2Level = 13

// extentContainer grows a geographic bbox from coordinates sent by the
// feature parsers, which may run on many goroutines.
type extentContainer struct {
	bbox orb.Bound
	seen bool
	ch   chan geometry.GeoPoint
	done chan struct{}
}

// initExtentContainer starts the listener that owns the bbox.
func initExtentContainer() *extentContainer {
	c := &extentContainer{
		ch:   make(chan geometry.GeoPoint),
		done: make(chan struct{}),
	}
	go c.bboxListener()
	return c
}

// bboxListener observes every coordinate on the channel until it closes.
func (c *extentContainer) bboxListener() {
	defer close(c.done)
	for g := range c.ch {
		p := orb.Point{g.Lon, g.Lat}
		if !c.seen {
			c.bbox = orb.Bound{Min: p, Max: p}
			c.seen = true
			continue
		}
		c.bbox = c.bbox.Extend(p)
	}
}

// add reports every coordinate of the kept features.
func (c *extentContainer) add(features ...Feature) {
	for _, f := range features {
		for _, g := range f.Line {
			c.ch <- g
		}
		for _, g := range f.Outer {
			c.ch <- g
		}
		for _, h := range f.Holes {
			for _, g := range h {
				c.ch <- g
			}
		}
	}
}

// close stops the listener and returns the extent, false when no coordinate
// was seen.
func (c *extentContainer) close() (orb.Bound, bool) {
	close(c.ch)
	<-c.done
	return c.bbox, c.seen
}

// getCenter is the middle of the bbox.
func getCenter(bbox orb.Bound) geometry.GeoPoint {
	c := bbox.Center()
	return geometry.GeoPoint{Lat: c[1], Lon: c[0]}
}

// S2Token is the token of the level S2Level cell containing g.
func S2Token(g geometry.GeoPoint) string {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(g.Lat, g.Lon)).Parent(S2Level).ToToken()
}

// s2covering lists the S2 tokens covering the bbox, shortened to 8
// characters and deduplicated.
func s2covering(bbox orb.Bound) []string {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(bbox.Min[1], bbox.Min[0]))
	rect = rect.AddPoint(s2.LatLngFromDegrees(bbox.Max[1], bbox.Max[0]))

	var s2hash []string
	seen := make(map[string]bool)
	for _, cellid := range rect.CellUnionBound() {
		token := cellid.ToToken()
		if len(token) > 8 {
			token = token[:8]
		}
		if !seen[token] {
			seen[token] = true
			s2hash = append(s2hash, token)
		}
	}
	return s2hash
}
