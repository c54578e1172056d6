package spread

import "math"

// Vertex is a fire front point in the local metric frame, meters from the
// ignition origin. X is east, Y is north.
type Vertex struct {
	X float64
	Y float64
}

// Ring is an open polygonal fire front (last vertex connects back to the
// first implicitly). The driver keeps it simple, CCW wound, and resampled;
// closure is applied only when emitting frames.
type Ring struct {
	V []Vertex
}

// Resampling bounds for the distance between neighboring vertices.
const (
	MinVertexSpacing = 5.0  // meters; closer pairs are merged
	MaxVertexSpacing = 30.0 // meters; longer edges are subdivided
)

// IgnitionRing seeds a regular n-gon of the given radius centered on the
// origin, wound CCW.
func IgnitionRing(radius float64, n int) Ring {
	if n < 3 {
		n = 3
	}
	v := make([]Vertex, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		v[i] = Vertex{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
	}
	return Ring{V: v}
}

// SignedArea returns the shoelace area in m2, positive for CCW winding.
func (r Ring) SignedArea() float64 {
	n := len(r.V)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += r.V[i].X*r.V[j].Y - r.V[j].X*r.V[i].Y
	}
	return area / 2
}

// AreaHa returns the unsigned enclosed area in hectares. Rings with fewer
// than 3 distinct vertices are degenerate and have area 0.
func (r Ring) AreaHa() float64 {
	return math.Abs(r.SignedArea()) / 10000.0
}

// EnsureCCW reverses the vertex order in place if the winding is clockwise.
func (r *Ring) EnsureCCW() {
	if r.SignedArea() >= 0 {
		return
	}
	for i, j := 0, len(r.V)-1; i < j; i, j = i+1, j-1 {
		r.V[i], r.V[j] = r.V[j], r.V[i]
	}
}

// Centroid returns the vertex average.
func (r Ring) Centroid() Vertex {
	if len(r.V) == 0 {
		return Vertex{}
	}
	var cx, cy float64
	for _, v := range r.V {
		cx += v.X
		cy += v.Y
	}
	n := float64(len(r.V))
	return Vertex{X: cx / n, Y: cy / n}
}

// Normals returns the outward normal azimuth (compass degrees) at every
// vertex: the bisector of the outward normals of the two incident edges.
// Requires CCW winding.
func (r Ring) Normals() []float64 {
	n := len(r.V)
	out := make([]float64, n)
	if n < 3 {
		return out
	}
	for i := 0; i < n; i++ {
		prev := r.V[(i+n-1)%n]
		cur := r.V[i]
		next := r.V[(i+1)%n]

		// Outward normal of a CCW edge (dx,dy) is (dy,-dx).
		e1x, e1y := cur.X-prev.X, cur.Y-prev.Y
		e2x, e2y := next.X-cur.X, next.Y-cur.Y
		n1x, n1y := e1y, -e1x
		n2x, n2y := e2y, -e2x
		if l := math.Hypot(n1x, n1y); l > 1e-12 {
			n1x, n1y = n1x/l, n1y/l
		}
		if l := math.Hypot(n2x, n2y); l > 1e-12 {
			n2x, n2y = n2x/l, n2y/l
		}

		bx, by := n1x+n2x, n1y+n2y
		if math.Hypot(bx, by) < 1e-9 {
			// Degenerate spike: the edge normals cancel, keep one of them.
			bx, by = n1x, n1y
		}

		az := math.Atan2(bx, by) * 180 / math.Pi
		if az < 0 {
			az += 360
		}
		out[i] = az
	}
	return out
}

// Resample rewrites the ring toward a neighbor spacing within [dMin, dMax]:
// edges longer than dMax are subdivided, then runs of vertices closer than
// dMin are merged. A merge can leave an edge longer than dMax (by less than
// dMin per dropped vertex).
func (r *Ring) Resample(dMin, dMax float64) {
	n := len(r.V)
	if n < 3 {
		return
	}

	// Subdivide long edges.
	sub := make([]Vertex, 0, n)
	for i := 0; i < n; i++ {
		a := r.V[i]
		b := r.V[(i+1)%n]
		sub = append(sub, a)
		d := math.Hypot(b.X-a.X, b.Y-a.Y)
		if d > dMax {
			parts := int(math.Ceil(d / dMax))
			for k := 1; k < parts; k++ {
				t := float64(k) / float64(parts)
				sub = append(sub, Vertex{
					X: a.X + (b.X-a.X)*t,
					Y: a.Y + (b.Y-a.Y)*t,
				})
			}
		}
	}

	// Merge short runs: keep a vertex only if it is at least dMin from the
	// last kept vertex; the final vertex must also clear the first.
	merged := make([]Vertex, 0, len(sub))
	for _, v := range sub {
		if len(merged) == 0 {
			merged = append(merged, v)
			continue
		}
		last := merged[len(merged)-1]
		if math.Hypot(v.X-last.X, v.Y-last.Y) >= dMin {
			merged = append(merged, v)
		}
	}
	for len(merged) > 3 {
		first, last := merged[0], merged[len(merged)-1]
		if math.Hypot(first.X-last.X, first.Y-last.Y) >= dMin {
			break
		}
		merged = merged[:len(merged)-1]
	}

	if len(merged) >= 3 {
		r.V = merged
	}
}

// RemoveSelfIntersections applies the rubber-band cleanup: whenever two
// non-adjacent edges cross, the shorter intervening vertex run is replaced
// by the single intersection point. Repeats until the ring is simple.
func (r *Ring) RemoveSelfIntersections() {
	// Each pass removes at least one vertex, so the vertex count bounds the
	// number of passes.
	for pass, maxPass := 0, len(r.V); pass < maxPass; pass++ {
		if !r.removeFirstCrossing() {
			return
		}
		if len(r.V) < 3 {
			return
		}
	}
}

// removeFirstCrossing finds the first pair of crossing non-adjacent edges
// and excises the loop between them. Reports whether a crossing was found.
func (r *Ring) removeFirstCrossing() bool {
	n := len(r.V)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1 := r.V[i]
		a2 := r.V[(i+1)%n]
		for j := i + 2; j < n; j++ {
			// Skip adjacent edges, including the wrap-around pair.
			if i == 0 && j == n-1 {
				continue
			}
			b1 := r.V[j]
			b2 := r.V[(j+1)%n]
			p, ok := segmentIntersection(a1, a2, b1, b2)
			if !ok {
				continue
			}

			// Candidate excisions: vertices i+1..j (inner) or j+1..i
			// (outer, wrapping). Drop the shorter run.
			innerLen := j - i
			outerLen := n - innerLen
			var kept []Vertex
			if innerLen <= outerLen {
				kept = make([]Vertex, 0, n-innerLen+1)
				kept = append(kept, r.V[:i+1]...)
				kept = append(kept, p)
				kept = append(kept, r.V[j+1:]...)
			} else {
				kept = make([]Vertex, 0, innerLen+1)
				kept = append(kept, p)
				kept = append(kept, r.V[i+1:j+1]...)
			}
			r.V = kept
			return true
		}
	}
	return false
}

// segmentIntersection returns the crossing point of segments a1-a2 and
// b1-b2 when they properly intersect. Near-parallel segments and contacts
// at shared endpoints do not count as crossings.
func segmentIntersection(a1, a2, b1, b2 Vertex) (Vertex, bool) {
	rx, ry := a2.X-a1.X, a2.Y-a1.Y
	sx, sy := b2.X-b1.X, b2.Y-b1.Y

	denom := rx*sy - ry*sx
	if math.Abs(denom) < 1e-12 {
		return Vertex{}, false
	}

	qpx, qpy := b1.X-a1.X, b1.Y-a1.Y
	t := (qpx*sy - qpy*sx) / denom
	u := (qpx*ry - qpy*rx) / denom

	const eps = 1e-9
	if t <= eps || t >= 1-eps || u <= eps || u >= 1-eps {
		return Vertex{}, false
	}
	return Vertex{X: a1.X + t*rx, Y: a1.Y + t*ry}, true
}
