// Package fbp implements the Canadian Forest Fire Behavior Prediction
// System.
//
// Equations from Forestry Canada Fire Danger Group (1992), Development and
// Structure of the Canadian Forest Fire Behavior Prediction System,
// Information Report ST-X-3, with the Van Wagner (1977) crown fire models.
package fbp

import (
	"errors"
	"fmt"
	"math"

	"github.com/firesim/firesim-backend-go/internal/fuel"
)

// Defaults for optional inputs.
const (
	DefaultFMC            = 97.0 // foliar moisture content (%)
	DefaultPercentConifer = 50.0 // M1/M2 stand composition
	DefaultPercentDeadFir = 35.0 // M3/M4 dead balsam fir fraction
	DefaultGrassCuring    = 60.0 // O1a/O1b degree of curing (%)
)

// ErrInvalidInputs is returned when ISI or BUI is negative.
var ErrInvalidInputs = errors.New("invalid fbp inputs")

// Inputs to a fire behavior calculation. Optional pointer fields fall back
// to the package defaults when nil; zero is a meaningful value for all of
// them (a fully green grass stand has curing 0).
type Inputs struct {
	Fuel      fuel.Code
	ISI       float64
	BUI       float64
	FFMC      float64 // drives fine fuel consumption for C1/C7
	WindSpeed float64 // km/h at 10 m

	FMC            float64  // foliar moisture content, 0 means DefaultFMC
	PercentConifer *float64 // M1/M2 only
	PercentDeadFir *float64 // M3/M4 only
	GrassCuring    *float64 // O1a/O1b only
	CrownBaseHt    *float64 // overrides the fuel table CBH
}

// Result is the complete output of a fire behavior calculation.
type Result struct {
	Fuel        fuel.Code `json:"fuel_type"`
	ISI         float64   `json:"isi"`
	BUI         float64   `json:"bui"`
	SurfaceROS  float64   `json:"surface_ros_m_min"` // RSS: surface rate of spread
	HeadROS     float64   `json:"head_ros_m_min"`    // final head rate incl. crown boost
	FlankROS    float64   `json:"flank_ros_m_min"`
	BackROS     float64   `json:"back_ros_m_min"`
	LBR         float64   `json:"lbr"`
	SFC         float64   `json:"sfc_kg_m2"`
	CFC         float64   `json:"cfc_kg_m2"`
	TFC         float64   `json:"tfc_kg_m2"`
	SFI         float64   `json:"sfi_kw_m"`
	HFI         float64   `json:"hfi_kw_m"`
	CFB         float64   `json:"cfb"`
	FireType    FireType  `json:"fire_type"`
	FlameLength float64   `json:"flame_length_m"`
}

// Calculate runs the full FBP equation stack for one fuel type under the
// given burning conditions.
func Calculate(in Inputs) (Result, error) {
	p, err := fuel.Lookup(in.Fuel)
	if err != nil {
		return Result{}, err
	}
	if in.ISI < 0 || in.BUI < 0 {
		return Result{}, fmt.Errorf("%w: ISI=%.2f BUI=%.2f", ErrInvalidInputs, in.ISI, in.BUI)
	}

	fmc := in.FMC
	if fmc <= 0 {
		fmc = DefaultFMC
	}
	pc := optional(in.PercentConifer, DefaultPercentConifer)
	pdf := optional(in.PercentDeadFir, DefaultPercentDeadFir)
	curing := optional(in.GrassCuring, DefaultGrassCuring)
	cbh := p.CBH
	if in.CrownBaseHt != nil {
		cbh = *in.CrownBaseHt
	}

	rsi := surfaceSpreadRate(p, in.ISI, pc, pdf, curing)
	be := buildupEffect(p, in.BUI)
	rss := rsi * be

	sfc := surfaceFuelConsumption(p, in.FFMC, in.BUI, pc)
	sfi := 300.0 * sfc * rss

	csi := CriticalSurfaceIntensity(cbh, fmc)
	rso := CriticalSpreadRate(csi, sfc)
	cfb := 0.0
	if p.CanCrown() {
		cfb = CrownFractionBurned(rss, rso)
	}
	fireType := Surface
	if p.CanCrown() {
		fireType = ClassifyFire(rss, rso, cfb)
	}

	headROS := rss
	if cfb > 0 {
		rsc := crownSpreadRate(p, rss, in.ISI, fmc)
		headROS = rss + cfb*(rsc-rss)
	}

	cfc := cfb * p.CFL
	tfc := sfc + cfc
	hfi := 300.0 * tfc * headROS

	lbr := LengthToBreadth(p.Group, in.WindSpeed)
	bros := headROS * math.Exp(-0.05039*in.WindSpeed) * be
	fros := (headROS + bros) / (2.0 * lbr)

	return Result{
		Fuel:        in.Fuel,
		ISI:         in.ISI,
		BUI:         in.BUI,
		SurfaceROS:  rss,
		HeadROS:     headROS,
		FlankROS:    fros,
		BackROS:     bros,
		LBR:         lbr,
		SFC:         sfc,
		CFC:         cfc,
		TFC:         tfc,
		SFI:         sfi,
		HFI:         hfi,
		CFB:         cfb,
		FireType:    fireType,
		FlameLength: FlameLength(hfi),
	}, nil
}

func optional(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// basicSpreadRate is the core ROS curve: RSI = A * (1 - exp(-B*ISI))^C.
func basicSpreadRate(p fuel.Params, isi float64) float64 {
	if p.A <= 0 {
		return 0
	}
	return p.A * math.Pow(1.0-math.Exp(-p.B*isi), p.C)
}

// surfaceSpreadRate returns the surface RSI (m/min) before the BUI effect,
// with the per-fuel modifications of ST-X-3: mixedwood blends, dead-fir
// scaling, and the grass curing factor. The reduced spread of green aspen
// (D2) is carried by its table parameters (0.2x the D1 coefficient).
func surfaceSpreadRate(p fuel.Params, isi, pc, pdf, curing float64) float64 {
	switch p.Code {
	case fuel.M1, fuel.M2:
		c2, _ := fuel.Lookup(fuel.C2)
		d1, _ := fuel.Lookup(fuel.D1)
		rosC := basicSpreadRate(c2, isi)
		rosD := basicSpreadRate(d1, isi)
		if p.Code == fuel.M2 {
			// Green mixedwood: hardwood understory barely carries fire.
			rosD *= 0.2
		}
		return (pc/100.0)*rosC + (1.0-pc/100.0)*rosD

	case fuel.M3, fuel.M4:
		d1, _ := fuel.Lookup(fuel.D1)
		rosDead := basicSpreadRate(p, isi)
		rosD := basicSpreadRate(d1, isi)
		if p.Code == fuel.M4 {
			rosD *= 0.2
		}
		return (pdf/100.0)*rosDead + (1.0-pdf/100.0)*rosD

	case fuel.O1a, fuel.O1b:
		return basicSpreadRate(p, isi) * GrassCuringFactor(curing)

	default:
		return basicSpreadRate(p, isi)
	}
}

// buildupEffect returns the BUI multiplier on spread rate, clamped to the
// fuel's maximum. Grass fuels carry no buildup effect (Q = 1).
func buildupEffect(p fuel.Params, bui float64) float64 {
	if bui <= 0 || p.Q >= 1.0 {
		return 1.0
	}
	be := math.Exp(50.0 * math.Log(p.Q) * (1.0/bui - 1.0/p.BUI0))
	return math.Min(be, p.BEMax)
}

// GrassCuringFactor returns the ST-X-3 curing factor for O1 fuels.
// Fully green grass (curing 0) does not carry fire.
func GrassCuringFactor(curing float64) float64 {
	var cf float64
	if curing < 58.8 {
		cf = 0.176 + 0.020*(curing-58.8)
	} else {
		delta := curing - 58.8
		cf = 0.176 + 0.020*delta*(1.0-0.008*delta)
	}
	return math.Max(0.0, math.Min(1.0, cf))
}

// surfaceFuelConsumption returns SFC (kg/m2) per the ST-X-3 fuel
// consumption equations. Conifer consumption is driven by FFMC and BUI,
// slash by BUI alone, grass by the standing fuel load.
func surfaceFuelConsumption(p fuel.Params, ffmc, bui, pc float64) float64 {
	switch p.Code {
	case fuel.C1:
		return math.Max(0, 1.5*(1.0-math.Exp(-0.223*(ffmc-81.0))))
	case fuel.C2, fuel.M3, fuel.M4:
		return 5.0 * (1.0 - math.Exp(-0.0115*bui))
	case fuel.C3, fuel.C4:
		return 5.0 * math.Pow(1.0-math.Exp(-0.0164*bui), 2.24)
	case fuel.C5, fuel.C6:
		return 5.0 * math.Pow(1.0-math.Exp(-0.0149*bui), 2.48)
	case fuel.C7:
		ffc := math.Max(0, 2.0*(1.0-math.Exp(-0.104*(ffmc-70.0))))
		wfc := 1.5 * (1.0 - math.Exp(-0.0201*bui))
		return ffc + wfc
	case fuel.D1, fuel.D2:
		return 1.5 * (1.0 - math.Exp(-0.0183*bui))
	case fuel.M1, fuel.M2:
		c2, _ := fuel.Lookup(fuel.C2)
		d1, _ := fuel.Lookup(fuel.D1)
		return (pc/100.0)*surfaceFuelConsumption(c2, ffmc, bui, pc) +
			(1.0-pc/100.0)*surfaceFuelConsumption(d1, ffmc, bui, pc)
	case fuel.O1a, fuel.O1b:
		return p.GFL
	case fuel.S1:
		return 4.0*(1.0-math.Exp(-0.025*bui)) + 4.0*(1.0-math.Exp(-0.034*bui))
	case fuel.S2:
		return 10.0*(1.0-math.Exp(-0.013*bui)) + 6.0*(1.0-math.Exp(-0.060*bui))
	case fuel.S3:
		return 12.0*(1.0-math.Exp(-0.0166*bui)) + 20.0*(1.0-math.Exp(-0.0210*bui))
	}
	return 0
}

// LengthToBreadth returns the elliptical length-to-breadth ratio for the
// 10-m wind speed. Grass fires elongate faster than timber fires and use
// the ST-X-3 grass curve.
func LengthToBreadth(group fuel.Group, wind float64) float64 {
	if group == fuel.Grass {
		if wind <= 1.0 {
			return 1.0
		}
		return 1.1 * math.Pow(wind, 0.464)
	}
	if wind <= 0 {
		return 1.0
	}
	return 1.0 + 8.729*math.Pow(1.0-math.Exp(-0.030*wind), 2.155)
}

// FlameLength returns the Byram (1959) flame length (m) for a head fire
// intensity in kW/m.
func FlameLength(hfi float64) float64 {
	if hfi <= 0 {
		return 0
	}
	return 0.0775 * math.Pow(hfi, 0.46)
}
