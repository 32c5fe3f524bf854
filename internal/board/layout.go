package board

import "math"

// Geometry holds the presentation parameters used to place nodes in a plane.
type Geometry struct {
	CenterX     int `yaml:"center_x"`
	CenterY     int `yaml:"center_y"`
	RingSpacing int `yaml:"ring_spacing"`
}

// DefaultGeometry returns the classic 1800x1000 table geometry.
func DefaultGeometry() Geometry {
	return Geometry{
		CenterX:     900,
		CenterY:     500,
		RingSpacing: 80,
	}
}

// Point is an integer position in the plane.
type Point struct {
	X, Y int
}

// Layout derives plane coordinates for the nodes of a board. Coordinates are
// never part of node identity; they only feed distance ranking and drawing.
type Layout struct {
	geo     Geometry
	perRing int
}

// NewLayout creates a layout for b using geometry g.
func NewLayout(b *Board, g Geometry) Layout {
	return Layout{geo: g, perRing: b.NodesPerRing()}
}

// Geometry returns the parameters the layout was built with.
func (l Layout) Geometry() Geometry {
	return l.geo
}

// Position returns the plane position of n. Ring r sits on a circle of
// radius (r+1)*RingSpacing; position p sits at angle 2*pi*p/NodesPerRing.
// Results are rounded to the integer grid.
func (l Layout) Position(n Node) Point {
	if n.Ring <= 0 || l.perRing == 0 {
		return Point{X: l.geo.CenterX, Y: l.geo.CenterY}
	}
	radius := float64((n.Ring + 1) * l.geo.RingSpacing)
	angle := 2 * math.Pi * float64(n.Pos) / float64(l.perRing)
	return Point{
		X: l.geo.CenterX + int(math.Round(radius*math.Cos(angle))),
		Y: l.geo.CenterY + int(math.Round(radius*math.Sin(angle))),
	}
}

// Distance returns the Euclidean distance between the positions of a and b.
func (l Layout) Distance(a, b Node) float64 {
	pa, pb := l.Position(a), l.Position(b)
	dx := float64(pa.X - pb.X)
	dy := float64(pa.Y - pb.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
