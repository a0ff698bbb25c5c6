// Package polycloud draws regular polygons whose edges are replaced by cubic
// Bézier curves. The bulge of each curve is controlled by a roundness value
// in [0,1]: at 1 the first control point sits on the anchor of the edge's start
// vertex and the second on the anchor of its end vertex; at 0 they swap.
//
// For each edge the two anchors are found by walking, from each endpoint, along
// the perpendicular to the edge a distance equal to the edge length, choosing
// the side farther from the origin.
package polycloud

import (
	"math"
	"strconv"
	"strings"
)

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Cubic is one cubic Bézier segment ending at To.
type Cubic struct {
	C1, C2, To Point
}

// Path is a closed polycloud outline.
type Path struct {
	Start    Point
	Segments []Cubic
	// Skipped counts edges that were vertical and therefore not drawn.
	Skipped int
}

// origin is vertex 0 of every polycloud.
var origin = Point{X: 0, Y: 1}

// New builds the polycloud with the given number of sides around the unit circle.
// Edges whose endpoints share an x coordinate are skipped and leave the pen where it was.
func New(sides int, roundness float64) Path {
	p := Path{Start: origin}
	unitAngle := 2 * math.Pi / float64(sides)
	cur := origin
	for i := 0; i < sides; i++ {
		next := Vertex(unitAngle * float64(i+1))
		seg, ok := curve(cur, next, roundness)
		if !ok {
			p.Skipped++
			continue
		}
		p.Segments = append(p.Segments, seg)
		cur = next
	}
	return p
}

// Vertex rotates vertex 0 clockwise by angle radians.
func Vertex(angle float64) Point {
	return Point{
		X: origin.X*math.Cos(angle) + origin.Y*math.Sin(angle),
		Y: origin.X*math.Sin(angle) + origin.Y*math.Cos(angle),
	}
}

// curve computes the Bézier segment from a to b. ok is false for vertical edges.
func curve(a, b Point, roundness float64) (Cubic, bool) {
	if b.X-a.X == 0 {
		return Cubic{}, false
	}
	m := (b.Y - a.Y) / (b.X - a.X)
	perp := -1 / m
	d := distance(a, b)

	p1 := outerPoint(a, perp, a.Y-perp*a.X, d)
	p2 := outerPoint(b, perp, b.Y-perp*b.X, d)

	c1 := Point{X: p1.X*roundness + p2.X*(1-roundness)}
	c2 := Point{X: p1.X*(1-roundness) + p2.X*roundness}
	if gm, gb, ok := lineThrough(p1, p2); ok {
		c1.Y = gm*c1.X + gb
		c2.Y = gm*c2.X + gb
	} else {
		c1.Y = p1.Y*roundness + p2.Y*(1-roundness)
		c2.Y = p1.Y*(1-roundness) + p2.Y*roundness
	}
	return Cubic{C1: c1, C2: c2, To: b}, true
}

// outerPoint finds the point at distance d from p on the line y = m*x + b
// (which passes through p), preferring the solution farther from the origin.
func outerPoint(p Point, m, b, d float64) Point {
	x1 := (math.Sqrt(-b*b-2*b*m*p.X+2*b*p.Y+d*d*m*m+d*d-m*m*p.X*p.X+2*m*p.X*p.Y-p.Y*p.Y) - b*m + m*p.Y + p.X) / (m*m + 1)
	first := Point{X: x1, Y: m*x1 + b}
	altX := p.X + (p.X - x1)
	alt := Point{X: altX, Y: m*altX + b}
	if distance(first, Point{}) < distance(alt, Point{}) {
		return alt
	}
	return first
}

// lineThrough returns slope and intercept of the line through a and b.
// ok is false when the line is vertical.
func lineThrough(a, b Point) (m, c float64, ok bool) {
	if b.X == a.X {
		return 0, 0, false
	}
	m = (b.Y - a.Y) / (b.X - a.X)
	return m, a.Y - m*a.X, true
}

func distance(a, b Point) float64 {
	return math.Sqrt((b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y))
}

// D returns the path in SVG path-data syntax.
func (p Path) D() string {
	var sb strings.Builder
	sb.WriteString("M ")
	writePoint(&sb, p.Start)
	sb.WriteByte(' ')
	for _, s := range p.Segments {
		sb.WriteString("C ")
		writePoint(&sb, s.C1)
		sb.WriteString(", ")
		writePoint(&sb, s.C2)
		sb.WriteString(", ")
		writePoint(&sb, s.To)
		sb.WriteByte(' ')
	}
	return sb.String()
}

func writePoint(sb *strings.Builder, p Point) {
	sb.WriteString(FormatNumber(p.X))
	sb.WriteByte(' ')
	sb.WriteString(FormatNumber(p.Y))
}

// FormatNumber formats v with the fewest digits that round-trip.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
