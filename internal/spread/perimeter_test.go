package spread

import (
	"math"
	"testing"
)

func square(side float64) Ring {
	return Ring{V: []Vertex{{0, 0}, {side, 0}, {side, side}, {0, side}}}
}

func TestIgnitionRing(t *testing.T) {
	r := IgnitionRing(10, 16)
	if len(r.V) != 16 {
		t.Fatalf("expected 16 vertices, got %d", len(r.V))
	}
	for i, v := range r.V {
		if !approxEqual(math.Hypot(v.X, v.Y), 10, 1e-9) {
			t.Errorf("vertex %d not on radius: (%f,%f)", i, v.X, v.Y)
		}
	}
	if r.SignedArea() <= 0 {
		t.Error("ignition ring should be CCW")
	}
	// Area approaches pi*r^2 from below for an inscribed polygon.
	area := math.Abs(r.SignedArea())
	if area <= 0.9*math.Pi*100 || area > math.Pi*100 {
		t.Errorf("16-gon area %f implausible for radius 10", area)
	}
}

func TestSignedAreaSquare(t *testing.T) {
	sq := square(100)
	if !approxEqual(sq.SignedArea(), 10000, 1e-9) {
		t.Errorf("signed area = %f, want 10000", sq.SignedArea())
	}
	if !approxEqual(sq.AreaHa(), 1.0, 1e-9) {
		t.Errorf("area = %f ha, want 1", sq.AreaHa())
	}
}

func TestDegenerateAreaZero(t *testing.T) {
	r := Ring{V: []Vertex{{0, 0}, {10, 10}}}
	if r.AreaHa() != 0 {
		t.Errorf("degenerate ring area = %f, want 0", r.AreaHa())
	}
}

func TestEnsureCCW(t *testing.T) {
	cw := Ring{V: []Vertex{{0, 0}, {0, 100}, {100, 100}, {100, 0}}}
	if cw.SignedArea() >= 0 {
		t.Fatal("fixture should be CW")
	}
	cw.EnsureCCW()
	if cw.SignedArea() <= 0 {
		t.Error("EnsureCCW did not flip the winding")
	}
}

func TestNormalsOfSquare(t *testing.T) {
	sq := square(100)
	normals := sq.Normals()
	// Corner normals bisect the adjacent edges: SW corner points southwest.
	want := []float64{225, 135, 45, 315}
	for i, az := range normals {
		if !approxEqual(az, want[i], 1e-6) {
			t.Errorf("vertex %d normal = %f, want %f", i, az, want[i])
		}
	}
}

func TestNormalsPointOutward(t *testing.T) {
	r := IgnitionRing(50, 24)
	normals := r.Normals()
	for i, v := range r.V {
		// For a circle centered on the origin the outward normal is radial.
		radial := math.Atan2(v.X, v.Y) * 180 / math.Pi
		if radial < 0 {
			radial += 360
		}
		diff := math.Abs(normals[i] - radial)
		if diff > 180 {
			diff = 360 - diff
		}
		if diff > 1 {
			t.Errorf("vertex %d normal %f deviates from radial %f", i, normals[i], radial)
		}
	}
}

func TestResampleSubdividesLongEdges(t *testing.T) {
	sq := square(100)
	sq.Resample(MinVertexSpacing, MaxVertexSpacing)
	n := len(sq.V)
	for i := 0; i < n; i++ {
		a, b := sq.V[i], sq.V[(i+1)%n]
		d := math.Hypot(b.X-a.X, b.Y-a.Y)
		if d > MaxVertexSpacing+1e-9 {
			t.Errorf("edge %d length %f exceeds max spacing", i, d)
		}
	}
	if !approxEqual(sq.AreaHa(), 1.0, 1e-9) {
		t.Errorf("resampling changed the area: %f", sq.AreaHa())
	}
}

func TestResampleMergesClosePairs(t *testing.T) {
	r := Ring{V: []Vertex{
		{0, 0}, {1, 0}, {2, 0}, {20, 0}, {20, 20}, {0, 20},
	}}
	r.Resample(MinVertexSpacing, MaxVertexSpacing)
	n := len(r.V)
	if n < 3 {
		t.Fatalf("ring collapsed to %d vertices", n)
	}
	for i := 0; i < n; i++ {
		a, b := r.V[i], r.V[(i+1)%n]
		d := math.Hypot(b.X-a.X, b.Y-a.Y)
		if d < MinVertexSpacing-1e-9 {
			t.Errorf("edge %d length %f below min spacing", i, d)
		}
	}
}

func TestSegmentIntersection(t *testing.T) {
	p, ok := segmentIntersection(Vertex{0, 0}, Vertex{10, 10}, Vertex{0, 10}, Vertex{10, 0})
	if !ok {
		t.Fatal("crossing segments not detected")
	}
	if !approxEqual(p.X, 5, 1e-9) || !approxEqual(p.Y, 5, 1e-9) {
		t.Errorf("intersection at (%f,%f), want (5,5)", p.X, p.Y)
	}

	if _, ok := segmentIntersection(Vertex{0, 0}, Vertex{10, 0}, Vertex{0, 5}, Vertex{10, 5}); ok {
		t.Error("parallel segments should not intersect")
	}
	if _, ok := segmentIntersection(Vertex{0, 0}, Vertex{10, 0}, Vertex{10, 0}, Vertex{10, 10}); ok {
		t.Error("segments sharing an endpoint should not count as crossing")
	}
}

func TestRubberBandRemovesLoop(t *testing.T) {
	// A square whose top edge pinches into a small self-intersecting loop.
	r := Ring{V: []Vertex{
		{0, 0}, {100, 0}, {100, 100},
		{60, 100}, {40, 120}, {60, 120}, {40, 100},
		{0, 100},
	}}
	r.RemoveSelfIntersections()

	if len(r.V) < 3 {
		t.Fatalf("ring collapsed to %d vertices", len(r.V))
	}
	if r.hasCrossing() {
		t.Error("ring still self-intersects after cleanup")
	}
	r.EnsureCCW()
	// The surviving ring keeps roughly the square's area.
	if r.AreaHa() < 0.9 || r.AreaHa() > 1.1 {
		t.Errorf("cleanup area %f ha, want ~1", r.AreaHa())
	}
}

func TestRubberBandKeepsSimpleRing(t *testing.T) {
	sq := square(100)
	before := len(sq.V)
	sq.RemoveSelfIntersections()
	if len(sq.V) != before {
		t.Errorf("cleanup modified a simple ring: %d -> %d", before, len(sq.V))
	}
}

// hasCrossing reports whether any pair of non-adjacent edges intersects.
func (r Ring) hasCrossing() bool {
	n := len(r.V)
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if _, ok := segmentIntersection(r.V[i], r.V[(i+1)%n], r.V[j], r.V[(j+1)%n]); ok {
				return true
			}
		}
	}
	return false
}
