package spread

import (
	"math"
	"testing"
)

func TestWaveletHeadDisplacement(t *testing.T) {
	// Spreading east: displacement along the spread direction is the full
	// head run, offset + a = head * dt.
	w := NewWavelet(10, 2, 3, 2, 90)
	dx, dy := w.Displace(90)
	if !approxEqual(dx, 20, 1e-9) || !approxEqual(dy, 0, 1e-9) {
		t.Errorf("head displacement = (%f,%f), want (20,0)", dx, dy)
	}
	if !approxEqual(w.HeadRun(), 20, 1e-9) {
		t.Errorf("HeadRun = %f, want 20", w.HeadRun())
	}
}

func TestWaveletBackDisplacement(t *testing.T) {
	w := NewWavelet(10, 2, 3, 2, 90)
	dx, dy := w.Displace(270)
	if !approxEqual(dx, -4, 1e-9) || !approxEqual(dy, 0, 1e-9) {
		t.Errorf("back displacement = (%f,%f), want (-4,0)", dx, dy)
	}
}

func TestWaveletFlankDisplacement(t *testing.T) {
	// From the emitting vertex the lateral reach is b*sqrt(1-(c/a)^2).
	head, back, flank, dt := 10.0, 2.0, 3.0, 2.0
	a := (head + back) / 2 * dt
	c := (head - back) / 2 * dt
	b := flank * dt
	want := b * math.Sqrt(1-(c*c)/(a*a))

	w := NewWavelet(head, back, flank, dt, 90)
	dx, dy := w.Displace(0) // due north, perpendicular to an eastward spread
	if !approxEqual(dy, want, 1e-9) || !approxEqual(dx, 0, 1e-9) {
		t.Errorf("flank displacement = (%f,%f), want (0,%f)", dx, dy, want)
	}
}

func TestWaveletCircularAtEqualRates(t *testing.T) {
	// head = back = flank: the wavelet degenerates to a circle.
	w := NewWavelet(5, 5, 5, 1, 0)
	for _, heading := range []float64{0, 30, 90, 135, 200, 315} {
		dx, dy := w.Displace(heading)
		r := math.Hypot(dx, dy)
		if !approxEqual(r, 5, 1e-9) {
			t.Errorf("heading %v: radius %f, want 5", heading, r)
		}
	}
}

func TestWaveletZeroSpread(t *testing.T) {
	w := NewWavelet(0, 0, 0, 5, 90)
	dx, dy := w.Displace(45)
	if dx != 0 || dy != 0 {
		t.Errorf("zero rates should not displace, got (%f,%f)", dx, dy)
	}
}

func TestWaveletDisplacementAlwaysOutward(t *testing.T) {
	w := NewWavelet(12, 1.5, 2.5, 3, 215)
	for heading := 0.0; heading < 360; heading += 15 {
		dx, dy := w.Displace(heading)
		rad := heading * math.Pi / 180
		along := dx*math.Sin(rad) + dy*math.Cos(rad)
		if along <= 0 {
			t.Errorf("heading %v: displacement not outward (%f,%f)", heading, dx, dy)
		}
		cross := dx*math.Cos(rad) - dy*math.Sin(rad)
		if !approxEqual(cross, 0, 1e-9) {
			t.Errorf("heading %v: displacement off the heading by %f", heading, cross)
		}
	}
}
