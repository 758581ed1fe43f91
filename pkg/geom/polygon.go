package geom

import v3 "github.com/deadsy/sdfx/vec/v3"

// Point is one polygon corner: a vertex in cell-local coordinates and the
// direction of the cube edge it was interpolated on, from the empty corner
// toward the solid corner.
type Point struct {
	Vertex v3.Vec
	Normal v3.Vec
}

// Polygon is an ordered, consistently wound surface patch clipped to a single
// unit cell. A well-formed polygon has at least three points.
type Polygon []Point

// Centroid returns the mean of the vertices.
func (p Polygon) Centroid() v3.Vec {
	var sum v3.Vec
	for _, pt := range p {
		sum = sum.Add(pt.Vertex)
	}
	if len(p) == 0 {
		return sum
	}
	return sum.DivScalar(float64(len(p)))
}

// NormalSum returns the unnormalized sum of the edge normals.
func (p Polygon) NormalSum() v3.Vec {
	var sum v3.Vec
	for _, pt := range p {
		sum = sum.Add(pt.Normal)
	}
	return sum
}

// MeanNormal returns the normalized average edge normal. It is the zero
// vector when the edge normals cancel out.
func (p Polygon) MeanNormal() v3.Vec {
	sum := p.NormalSum()
	if sum.Length() == 0 {
		return v3.Vec{}
	}
	return sum.Normalize()
}

// SignedArea returns the area enclosed by the vertex order, measured along
// the mean normal. It is positive when the vertices turn counter-clockwise
// around the mean normal.
func (p Polygon) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	n := p.MeanNormal()
	c := p.Centroid()
	var total v3.Vec
	for i := range p {
		a := p[i].Vertex.Sub(c)
		b := p[(i+1)%len(p)].Vertex.Sub(c)
		total = total.Add(a.Cross(b))
	}
	return 0.5 * total.Dot(n)
}

// Translate returns a copy of the polygon with every vertex moved by d.
func (p Polygon) Translate(d v3.Vec) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = Point{Vertex: pt.Vertex.Add(d), Normal: pt.Normal}
	}
	return out
}
