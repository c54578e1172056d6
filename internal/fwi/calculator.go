// Package fwi implements the Canadian Fire Weather Index System.
//
// Equations from Van Wagner, C.E. and Pickett, T.L. (1985), Equations and
// FORTRAN program for the Canadian Forest Fire Weather Index System, and
// Forestry Canada Fire Danger Group (1992) ST-X-3.
package fwi

import (
	"errors"
	"fmt"
	"math"
)

// Spring startup values used when no previous-day moisture codes are given.
const (
	StartupFFMC = 85.0
	StartupDMC  = 6.0
	StartupDC   = 15.0
)

// calcMonth selects the day-length factors for DMC/DC drying. The simulation
// holds weather constant for its duration and carries no calendar date, so
// the mid-fire-season month is used.
const calcMonth = 7

// Day length factors by month (~46N latitude, standard FWI tables).
// Index 0 is unused.
var dmcDayLength = [13]float64{0, 6.5, 7.5, 9.0, 12.8, 13.9, 13.9, 12.4, 10.9, 9.4, 8.0, 7.0, 6.0}
var dcDayLength = [13]float64{0, -1.6, -1.6, -1.6, 0.9, 3.8, 5.8, 6.4, 5.0, 2.4, 0.4, -1.6, -1.6}

// ErrInvalidWeather is returned for physically impossible weather inputs.
var ErrInvalidWeather = errors.New("invalid weather")

// Weather is one day of noon weather observations.
type Weather struct {
	WindSpeed        float64 `json:"wind_speed" binding:"gte=0"`              // km/h at 10 m
	WindDirection    float64 `json:"wind_direction" binding:"gte=0,lt=360"`   // degrees, meteorological FROM
	Temperature      float64 `json:"temperature"`                             // Celsius
	RelativeHumidity float64 `json:"relative_humidity" binding:"gte=0,lte=100"` // percent
	Precipitation24h float64 `json:"precipitation_24h" binding:"gte=0"`       // mm
}

// Validate checks the weather against physical ranges.
func (w Weather) Validate() error {
	switch {
	case w.WindSpeed < 0:
		return fmt.Errorf("%w: wind_speed %.1f < 0", ErrInvalidWeather, w.WindSpeed)
	case w.RelativeHumidity < 0 || w.RelativeHumidity > 100:
		return fmt.Errorf("%w: relative_humidity %.1f outside [0,100]", ErrInvalidWeather, w.RelativeHumidity)
	case w.Temperature < -50:
		return fmt.Errorf("%w: temperature %.1f below -50", ErrInvalidWeather, w.Temperature)
	case w.WindDirection < 0 || w.WindDirection >= 360:
		return fmt.Errorf("%w: wind_direction %.1f outside [0,360)", ErrInvalidWeather, w.WindDirection)
	case w.Precipitation24h < 0:
		return fmt.Errorf("%w: precipitation_24h %.1f < 0", ErrInvalidWeather, w.Precipitation24h)
	}
	return nil
}

// Overrides replace computed FWI components when set. Derived components
// recompute from overridden inputs unless themselves overridden.
type Overrides struct {
	FFMC *float64 `json:"ffmc,omitempty" binding:"omitempty,gte=0,lte=101"`
	DMC  *float64 `json:"dmc,omitempty" binding:"omitempty,gte=0"`
	DC   *float64 `json:"dc,omitempty" binding:"omitempty,gte=0"`
	ISI  *float64 `json:"isi,omitempty" binding:"omitempty,gte=0"`
	BUI  *float64 `json:"bui,omitempty" binding:"omitempty,gte=0"`
	FWI  *float64 `json:"fwi,omitempty" binding:"omitempty,gte=0"`
}

// State holds the six FWI components.
type State struct {
	FFMC float64 `json:"ffmc"`
	DMC  float64 `json:"dmc"`
	DC   float64 `json:"dc"`
	ISI  float64 `json:"isi"`
	BUI  float64 `json:"bui"`
	FWI  float64 `json:"fwi"`
}

// Calculate derives the six FWI components from one day of weather starting
// from spring startup moisture, then applies any overrides.
func Calculate(w Weather, ov Overrides) (State, error) {
	if err := w.Validate(); err != nil {
		return State{}, err
	}
	rh := math.Min(w.RelativeHumidity, 100)

	s := State{
		FFMC: FFMC(w.Temperature, rh, w.WindSpeed, w.Precipitation24h, StartupFFMC),
		DMC:  DMC(w.Temperature, rh, w.Precipitation24h, calcMonth, StartupDMC),
		DC:   DC(w.Temperature, w.Precipitation24h, calcMonth, StartupDC),
	}
	if ov.FFMC != nil {
		s.FFMC = *ov.FFMC
	}
	if ov.DMC != nil {
		s.DMC = *ov.DMC
	}
	if ov.DC != nil {
		s.DC = *ov.DC
	}

	s.ISI = ISI(s.FFMC, w.WindSpeed)
	s.BUI = BUI(s.DMC, s.DC)
	if ov.ISI != nil {
		s.ISI = *ov.ISI
	}
	if ov.BUI != nil {
		s.BUI = *ov.BUI
	}

	s.FWI = FWI(s.ISI, s.BUI)
	if ov.FWI != nil {
		s.FWI = *ov.FWI
	}
	return s, nil
}

// FFMC calculates the Fine Fuel Moisture Code from today's weather and the
// previous day's value. Represents moisture of surface litter (top 1-2 cm).
func FFMC(temp, rh, wind, rain, prev float64) float64 {
	mo := 147.2 * (101.0 - prev) / (59.5 + prev)

	if rain > 0.5 {
		rf := rain - 0.5
		mr := mo + 42.5*rf*math.Exp(-100.0/(251.0-mo))*(1.0-math.Exp(-6.93/rf))
		if mo > 150.0 {
			mr += 0.0015 * (mo - 150.0) * (mo - 150.0) * math.Sqrt(rf)
		}
		mo = math.Min(mr, 250.0)
	}

	ed := 0.942*math.Pow(rh, 0.679) +
		11.0*math.Exp((rh-100.0)/10.0) +
		0.18*(21.1-temp)*(1.0-math.Exp(-0.115*rh))

	var m float64
	if mo > ed {
		// Drying
		ko := 0.424*(1.0-math.Pow(rh/100.0, 1.7)) +
			0.0694*math.Sqrt(wind)*(1.0-math.Pow(rh/100.0, 8))
		kd := ko * 0.581 * math.Exp(0.0365*temp)
		m = ed + (mo-ed)*math.Pow(10.0, -kd)
	} else {
		ew := 0.618*math.Pow(rh, 0.753) +
			10.0*math.Exp((rh-100.0)/10.0) +
			0.18*(21.1-temp)*(1.0-math.Exp(-0.115*rh))
		if mo < ew {
			// Wetting
			kl := 0.424*(1.0-math.Pow((100.0-rh)/100.0, 1.7)) +
				0.0694*math.Sqrt(wind)*(1.0-math.Pow((100.0-rh)/100.0, 8))
			kw := kl * 0.581 * math.Exp(0.0365*temp)
			m = ew - (ew-mo)*math.Pow(10.0, -kw)
		} else {
			m = mo
		}
	}

	ffmc := 59.5 * (250.0 - m) / (147.2 + m)
	return math.Max(0.0, math.Min(101.0, ffmc))
}

// DMC calculates the Duff Moisture Code. Represents moisture of loosely
// compacted organic layers (7-10 cm), time lag ~15 days.
func DMC(temp, rh, rain float64, month int, prev float64) float64 {
	if rain > 1.5 {
		re := 0.92*rain - 1.27
		mo := 20.0 + math.Exp(5.6348-prev/43.43)

		var b float64
		switch {
		case prev <= 33.0:
			b = 100.0 / (0.5 + 0.3*prev)
		case prev <= 65.0:
			b = 14.0 - 1.3*math.Log(prev)
		default:
			b = 6.2*math.Log(prev) - 17.2
		}

		mr := mo + 1000.0*re/(48.77+b*re)
		prev = math.Max(0.0, 244.72-43.43*math.Log(mr-20.0))
	}

	dmc := prev
	if temp > -1.1 {
		// Log drying rate K per Van Wagner (1987); the daily increment is 100K.
		k := 1.894 * (temp + 1.1) * (100.0 - rh) * dmcDayLength[month] * 1e-6
		dmc = prev + 100.0*k
	}
	return math.Max(0.0, dmc)
}

// DC calculates the Drought Code. Represents moisture of deep compact
// organic layers (10-20 cm), time lag ~52 days.
func DC(temp, rain float64, month int, prev float64) float64 {
	if rain > 2.8 {
		rd := 0.83*rain - 1.27
		qo := 800.0 * math.Exp(-prev/400.0)
		qr := qo + 3.937*rd
		prev = math.Max(0.0, 400.0*math.Log(800.0/qr))
	}

	dc := prev
	if temp > -2.8 {
		v := 0.36*(temp+2.8) + dcDayLength[month]
		if v < 0.0 {
			v = 0.0
		}
		dc = prev + 0.5*v
	}
	return math.Max(0.0, dc)
}

// ISI calculates the Initial Spread Index from FFMC and wind speed.
func ISI(ffmc, wind float64) float64 {
	m := 147.2 * (101.0 - ffmc) / (59.5 + ffmc)
	ff := 91.9 * math.Exp(-0.1386*m) * (1.0 + math.Pow(m, 5.31)/4.93e7)
	fw := math.Exp(0.05039 * wind)
	return 0.208 * fw * ff
}

// BUI calculates the Buildup Index from DMC and DC.
func BUI(dmc, dc float64) float64 {
	if dmc == 0 && dc == 0 {
		return 0
	}
	var bui float64
	if dmc <= 0.4*dc {
		bui = 0.8 * dmc * dc / (dmc + 0.4*dc)
	} else {
		bui = dmc - (1.0-0.8*dc/(dmc+0.4*dc))*(0.92+math.Pow(0.0114*dmc, 1.7))
	}
	return math.Max(0.0, bui)
}

// FWI calculates the Fire Weather Index from ISI and BUI.
func FWI(isi, bui float64) float64 {
	var fd float64
	if bui <= 80.0 {
		fd = 0.626*math.Pow(bui, 0.809) + 2.0
	} else {
		fd = 1000.0 / (25.0 + 108.64*math.Exp(-0.023*bui))
	}

	b := 0.1 * isi * fd
	if b <= 1.0 {
		return b
	}
	return math.Exp(2.72 * math.Pow(0.434*math.Log(b), 0.647))
}
