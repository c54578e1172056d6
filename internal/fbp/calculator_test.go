package fbp

import (
	"errors"
	"math"
	"testing"

	"github.com/firesim/firesim-backend-go/internal/fuel"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func fp(v float64) *float64 { return &v }

func TestAllFuelsFiniteNonNegative(t *testing.T) {
	isis := []float64{0, 2, 5, 10, 20}
	buis := []float64{0, 40, 80}
	winds := []float64{0, 20}

	for _, code := range fuel.Codes() {
		for _, isi := range isis {
			for _, bui := range buis {
				for _, ws := range winds {
					r, err := Calculate(Inputs{
						Fuel: code, ISI: isi, BUI: bui, FFMC: 90, WindSpeed: ws,
					})
					if err != nil {
						t.Fatalf("%s isi=%v bui=%v ws=%v: %v", code, isi, bui, ws, err)
					}
					for name, v := range map[string]float64{
						"SurfaceROS": r.SurfaceROS, "HeadROS": r.HeadROS,
						"FlankROS": r.FlankROS, "BackROS": r.BackROS,
						"SFC": r.SFC, "TFC": r.TFC, "HFI": r.HFI,
						"LBR": r.LBR, "CFB": r.CFB, "FlameLength": r.FlameLength,
					} {
						if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
							t.Errorf("%s isi=%v bui=%v ws=%v: %s = %f", code, isi, bui, ws, name, v)
						}
					}
				}
			}
		}
	}
}

func TestBackROSBelowHeadUnderWind(t *testing.T) {
	for _, code := range fuel.Codes() {
		r, err := Calculate(Inputs{Fuel: code, ISI: 10, BUI: 60, FFMC: 90, WindSpeed: 20})
		if err != nil {
			t.Fatalf("%s: %v", code, err)
		}
		if r.HeadROS > 0 && r.BackROS >= r.HeadROS {
			t.Errorf("%s: BackROS %f >= HeadROS %f at 20 km/h", code, r.BackROS, r.HeadROS)
		}
	}
}

func TestLengthToBreadth(t *testing.T) {
	if got := LengthToBreadth(fuel.Conifer, 0); !approxEqual(got, 1.0, 1e-9) {
		t.Errorf("LBR(0) = %f, want 1", got)
	}
	// Forest curve at 50 km/h: 1 + 8.729*(1-exp(-1.5))^2.155
	if got := LengthToBreadth(fuel.Conifer, 50); !approxEqual(got, 6.066, 0.01) {
		t.Errorf("LBR(50) = %f, want ~6.07", got)
	}
	// Grass curve at 40 km/h: 1.1*40^0.464
	if got := LengthToBreadth(fuel.Grass, 40); !approxEqual(got, 6.09, 0.02) {
		t.Errorf("grass LBR(40) = %f, want ~6.09", got)
	}
	if got := LengthToBreadth(fuel.Grass, 0.5); !approxEqual(got, 1.0, 1e-9) {
		t.Errorf("grass LBR(0.5) = %f, want 1", got)
	}
}

func TestLBRMonotoneInWind(t *testing.T) {
	prev := 0.0
	for _, ws := range []float64{0, 5, 10, 20, 40, 60} {
		lbr := LengthToBreadth(fuel.Conifer, ws)
		if lbr < prev {
			t.Errorf("LBR decreased at ws=%v: %f < %f", ws, lbr, prev)
		}
		prev = lbr
	}
}

func TestGreenGrassDoesNotBurn(t *testing.T) {
	r, err := Calculate(Inputs{
		Fuel: fuel.O1a, ISI: 10, BUI: 0, FFMC: 90, WindSpeed: 20,
		GrassCuring: fp(0),
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if r.HeadROS != 0 {
		t.Errorf("fully green grass should not spread, HeadROS = %f", r.HeadROS)
	}
}

func TestGrassCuringMonotone(t *testing.T) {
	prev := -1.0
	for _, c := range []float64{0, 20, 40, 60, 80, 100} {
		cf := GrassCuringFactor(c)
		if cf < prev {
			t.Errorf("curing factor decreased at %v%%: %f < %f", c, cf, prev)
		}
		prev = cf
	}
}

func TestD2SlowerThanD1(t *testing.T) {
	d1, _ := Calculate(Inputs{Fuel: fuel.D1, ISI: 10, BUI: 60, FFMC: 90, WindSpeed: 20})
	d2, _ := Calculate(Inputs{Fuel: fuel.D2, ISI: 10, BUI: 60, FFMC: 90, WindSpeed: 20})
	if d2.SurfaceROS >= d1.SurfaceROS {
		t.Errorf("D2 should spread slower than D1: %f vs %f", d2.SurfaceROS, d1.SurfaceROS)
	}
	if !approxEqual(d2.SurfaceROS, 0.2*d1.SurfaceROS, 1e-9) {
		t.Errorf("D2 should spread at 0.2x D1: %f vs %f", d2.SurfaceROS, d1.SurfaceROS)
	}
}

func TestMixedwoodBlendMonotoneInConifer(t *testing.T) {
	low, _ := Calculate(Inputs{Fuel: fuel.M1, ISI: 10, BUI: 60, FFMC: 90, WindSpeed: 20, PercentConifer: fp(25)})
	high, _ := Calculate(Inputs{Fuel: fuel.M1, ISI: 10, BUI: 60, FFMC: 90, WindSpeed: 20, PercentConifer: fp(75)})
	if high.SurfaceROS <= low.SurfaceROS {
		t.Errorf("more conifer should spread faster: %f vs %f", high.SurfaceROS, low.SurfaceROS)
	}
}

func TestDeadFirScalingMonotone(t *testing.T) {
	low, _ := Calculate(Inputs{Fuel: fuel.M3, ISI: 10, BUI: 60, FFMC: 90, WindSpeed: 20, PercentDeadFir: fp(20)})
	high, _ := Calculate(Inputs{Fuel: fuel.M3, ISI: 10, BUI: 60, FFMC: 90, WindSpeed: 20, PercentDeadFir: fp(80)})
	if high.SurfaceROS <= low.SurfaceROS {
		t.Errorf("more dead fir should spread faster: %f vs %f", high.SurfaceROS, low.SurfaceROS)
	}
}

func TestDeciduousLessIntenseThanSpruce(t *testing.T) {
	c2, _ := Calculate(Inputs{Fuel: fuel.C2, ISI: 11.75, BUI: 65.45, FFMC: 90, WindSpeed: 20})
	d1, _ := Calculate(Inputs{Fuel: fuel.D1, ISI: 11.75, BUI: 65.45, FFMC: 90, WindSpeed: 20})
	if d1.HFI >= c2.HFI {
		t.Errorf("leafless aspen should be less intense than boreal spruce: %f vs %f", d1.HFI, c2.HFI)
	}
}

func TestBorealSpruceCrowns(t *testing.T) {
	// C2 under a dry windy scenario (ISI ~11.75, BUI ~65) crowns.
	r, err := Calculate(Inputs{Fuel: fuel.C2, ISI: 11.75, BUI: 65.45, FFMC: 90, WindSpeed: 20})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if r.FireType == Surface {
		t.Errorf("expected crown fire, got %s (CFB %f)", r.FireType, r.CFB)
	}
	if r.HeadROS <= r.SurfaceROS {
		t.Errorf("crown boost should raise head ROS: %f vs %f", r.HeadROS, r.SurfaceROS)
	}
	if r.CFC <= 0 || r.TFC <= r.SFC {
		t.Errorf("crowning fire should consume crown fuel: CFC=%f TFC=%f SFC=%f", r.CFC, r.TFC, r.SFC)
	}
}

func TestPlantationActiveCrown(t *testing.T) {
	// C6 with 7 m crown base under severe burning conditions.
	r, err := Calculate(Inputs{
		Fuel: fuel.C6, ISI: 25.85, BUI: 87.27, FFMC: 92, WindSpeed: 30,
		CrownBaseHt: fp(7),
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if r.FireType != ActiveCrown {
		t.Errorf("expected active crown, got %s (CFB %f)", r.FireType, r.CFB)
	}
	if r.HeadROS <= r.SurfaceROS {
		t.Errorf("active crown should outrun the surface rate: %f vs %f", r.HeadROS, r.SurfaceROS)
	}
}

func TestCBHOverrideRaisesCrowningThreshold(t *testing.T) {
	low, _ := Calculate(Inputs{Fuel: fuel.C2, ISI: 6, BUI: 60, FFMC: 88, WindSpeed: 10})
	high, _ := Calculate(Inputs{Fuel: fuel.C2, ISI: 6, BUI: 60, FFMC: 88, WindSpeed: 10, CrownBaseHt: fp(15)})
	if high.CFB > low.CFB {
		t.Errorf("raising the crown base should not raise CFB: %f vs %f", high.CFB, low.CFB)
	}
}

func TestGrassFireStaysSurface(t *testing.T) {
	r, err := Calculate(Inputs{
		Fuel: fuel.O1b, ISI: 20, BUI: 0, FFMC: 92, WindSpeed: 40,
		GrassCuring: fp(80),
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if r.FireType != Surface {
		t.Errorf("grass fire should be surface, got %s", r.FireType)
	}
	if !approxEqual(r.LBR, 6.09, 0.5) {
		t.Errorf("standing grass at 40 km/h should have LBR ~6, got %f", r.LBR)
	}
}

func TestInvalidInputs(t *testing.T) {
	if _, err := Calculate(Inputs{Fuel: fuel.C2, ISI: -1, BUI: 60, FFMC: 90}); !errors.Is(err, ErrInvalidInputs) {
		t.Errorf("expected ErrInvalidInputs for negative ISI, got %v", err)
	}
	if _, err := Calculate(Inputs{Fuel: fuel.C2, ISI: 10, BUI: -5, FFMC: 90}); !errors.Is(err, ErrInvalidInputs) {
		t.Errorf("expected ErrInvalidInputs for negative BUI, got %v", err)
	}
	if _, err := Calculate(Inputs{Fuel: fuel.Code("Z9"), ISI: 10, BUI: 60, FFMC: 90}); !errors.Is(err, fuel.ErrUnknownFuel) {
		t.Errorf("expected ErrUnknownFuel, got %v", err)
	}
}

func TestFlameLength(t *testing.T) {
	if FlameLength(0) != 0 {
		t.Error("flame length should be 0 at zero intensity")
	}
	// Byram: L = 0.0775 * 1000^0.46
	if got := FlameLength(1000); !approxEqual(got, 1.85, 0.02) {
		t.Errorf("FlameLength(1000) = %f, want ~1.85", got)
	}
}
