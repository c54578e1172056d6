package fbp

import (
	"math"

	"github.com/firesim/firesim-backend-go/internal/fuel"
)

// FireType classifies the fire behavior regime.
type FireType string

// Fire type classifications per Van Wagner (1977).
const (
	Surface      FireType = "surface"
	PassiveCrown FireType = "passive_crown"
	ActiveCrown  FireType = "active_crown"
)

// CriticalSurfaceIntensity returns the surface intensity (kW/m) above which
// a fire ignites the canopy.
//
// Van Wagner (1977): CSI = 0.001 * CBH^1.5 * (460 + 25.9*FMC)^1.5
func CriticalSurfaceIntensity(cbh, fmc float64) float64 {
	if cbh <= 0 {
		return 0
	}
	return 0.001 * math.Pow(cbh, 1.5) * math.Pow(460.0+25.9*fmc, 1.5)
}

// CriticalSpreadRate returns RSO, the surface spread rate (m/min) at which
// intensity reaches CSI for the given surface fuel consumption.
func CriticalSpreadRate(csi, sfc float64) float64 {
	if sfc <= 0 {
		return 0
	}
	return csi / (300.0 * sfc)
}

// CrownFractionBurned returns CFB in [0,1] for a surface spread rate ros
// against the critical rate rso.
//
// CFB = 1 - exp(-0.23 * (ros - rso)), zero below the crowning threshold.
func CrownFractionBurned(ros, rso float64) float64 {
	if rso <= 0 || ros < rso {
		return 0
	}
	cfb := 1.0 - math.Exp(-0.23*(ros-rso))
	return math.Max(0, math.Min(1, cfb))
}

// ClassifyFire maps the crowning threshold test and CFB to a fire type:
// surface below the threshold, active crown at CFB >= 0.9, passive between.
func ClassifyFire(ros, rso, cfb float64) FireType {
	switch {
	case rso <= 0 || ros < rso:
		return Surface
	case cfb >= 0.9:
		return ActiveCrown
	default:
		return PassiveCrown
	}
}

// FoliarMoistureEffect returns the FME term of the C6 crown spread model.
func FoliarMoistureEffect(fmc float64) float64 {
	return math.Pow(1.5-0.00275*fmc, 4.0) / (460.0 + 25.9*fmc) * 1000.0
}

// crownSpreadRate returns RSC, the full-crown spread rate (m/min).
//
// C6 uses the ST-X-3 plantation crown model driven by ISI and foliar
// moisture. Other canopied fuels scale the surface rate by crown bulk
// density, saturating at 3x.
func crownSpreadRate(p fuel.Params, rss, isi, fmc float64) float64 {
	if p.Code == fuel.C6 {
		fme := FoliarMoistureEffect(fmc)
		return 60.0 * (1.0 - math.Exp(-0.0497*isi)) * fme / 0.778
	}
	if p.CBD < 0.05 {
		return rss
	}
	factor := math.Min(1.0+(p.CBD-0.05)/0.1, 3.0)
	return rss * factor
}
