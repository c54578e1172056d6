package fuel

import (
	"errors"
	"fmt"
)

// Code is an FBP fuel type code. Only the 18 codes declared below are valid;
// Parse is the sole way to obtain one from external input.
type Code string

// The 18 Canadian FBP fuel types.
const (
	C1  Code = "C1"
	C2  Code = "C2"
	C3  Code = "C3"
	C4  Code = "C4"
	C5  Code = "C5"
	C6  Code = "C6"
	C7  Code = "C7"
	D1  Code = "D1"
	D2  Code = "D2"
	M1  Code = "M1"
	M2  Code = "M2"
	M3  Code = "M3"
	M4  Code = "M4"
	O1a Code = "O1a"
	O1b Code = "O1b"
	S1  Code = "S1"
	S2  Code = "S2"
	S3  Code = "S3"
)

// Group classifies fuel types by their broad fire behavior regime.
type Group string

// Fuel groups
const (
	Conifer   Group = "conifer"
	Deciduous Group = "deciduous"
	Mixedwood Group = "mixedwood"
	Grass     Group = "grass"
	Slash     Group = "slash"
)

// ErrUnknownFuel is returned when a fuel code is not one of the 18 FBP types.
var ErrUnknownFuel = errors.New("unknown fuel type")

// Params holds the frozen FBP parameters for one fuel type.
//
// Parameters from Forestry Canada Fire Danger Group (1992), Development and
// Structure of the Canadian Forest Fire Behavior Prediction System,
// Information Report ST-X-3, Tables 4-6.
type Params struct {
	Code  Code
	Name  string
	Group Group

	// Rate of spread equation: RSI = A * (1 - exp(-B * ISI))^C
	A float64
	B float64
	C float64

	// BUI effect: BE = exp(50 * ln(Q) * (1/BUI - 1/BUI0)), clamped to BEMax
	Q     float64
	BUI0  float64
	BEMax float64

	// Crown structure. CBH and CFL are zero for fuels that cannot crown.
	CBH float64 // crown base height (m)
	CFL float64 // crown fuel load (kg/m2)
	CBD float64 // crown bulk density (kg/m3)

	// GFL is the grass fuel load (kg/m2) for O1a/O1b; zero elsewhere.
	GFL float64
}

// table is the process-wide read-only parameter store, one record per code.
var table = map[Code]Params{
	C1: {Code: C1, Name: "Spruce-Lichen Woodland", Group: Conifer,
		A: 90, B: 0.0649, C: 4.5, Q: 0.90, BUI0: 72, BEMax: 1.076,
		CBH: 2.0, CFL: 0.75, CBD: 0.11},
	C2: {Code: C2, Name: "Boreal Spruce", Group: Conifer,
		A: 110, B: 0.0282, C: 1.5, Q: 0.70, BUI0: 64, BEMax: 1.321,
		CBH: 3.0, CFL: 0.80, CBD: 0.18},
	C3: {Code: C3, Name: "Mature Jack or Lodgepole Pine", Group: Conifer,
		A: 110, B: 0.0444, C: 3.0, Q: 0.75, BUI0: 62, BEMax: 1.261,
		CBH: 8.0, CFL: 1.15, CBD: 0.09},
	C4: {Code: C4, Name: "Immature Jack or Lodgepole Pine", Group: Conifer,
		A: 110, B: 0.0293, C: 1.5, Q: 0.75, BUI0: 66, BEMax: 1.184,
		CBH: 4.0, CFL: 1.20, CBD: 0.13},
	C5: {Code: C5, Name: "Red and White Pine", Group: Conifer,
		A: 30, B: 0.0697, C: 4.0, Q: 0.80, BUI0: 56, BEMax: 1.220,
		CBH: 18.0, CFL: 1.20, CBD: 0.14},
	C6: {Code: C6, Name: "Conifer Plantation", Group: Conifer,
		A: 30, B: 0.0800, C: 3.0, Q: 0.80, BUI0: 62, BEMax: 1.197,
		CBH: 7.0, CFL: 1.80, CBD: 0.17},
	C7: {Code: C7, Name: "Ponderosa Pine/Douglas-fir", Group: Conifer,
		A: 45, B: 0.0305, C: 2.0, Q: 0.85, BUI0: 106, BEMax: 1.134,
		CBH: 10.0, CFL: 0.50, CBD: 0.07},
	D1: {Code: D1, Name: "Leafless Aspen", Group: Deciduous,
		A: 30, B: 0.0232, C: 1.6, Q: 0.90, BUI0: 32, BEMax: 1.179},
	D2: {Code: D2, Name: "Green Aspen", Group: Deciduous,
		A: 6, B: 0.0232, C: 1.6, Q: 0.90, BUI0: 32, BEMax: 1.179},
	M1: {Code: M1, Name: "Boreal Mixedwood - Leafless", Group: Mixedwood,
		A: 0, B: 0, C: 0, Q: 0.80, BUI0: 50, BEMax: 1.250,
		CBH: 6.0, CFL: 0.80, CBD: 0.10},
	M2: {Code: M2, Name: "Boreal Mixedwood - Green", Group: Mixedwood,
		A: 0, B: 0, C: 0, Q: 0.80, BUI0: 50, BEMax: 1.250,
		CBH: 6.0, CFL: 0.80, CBD: 0.10},
	M3: {Code: M3, Name: "Dead Balsam Fir Mixedwood - Leafless", Group: Mixedwood,
		A: 120, B: 0.0572, C: 1.4, Q: 0.80, BUI0: 50, BEMax: 1.400,
		CBH: 6.0, CFL: 0.80, CBD: 0.10},
	M4: {Code: M4, Name: "Dead Balsam Fir Mixedwood - Green", Group: Mixedwood,
		A: 100, B: 0.0404, C: 3.0, Q: 0.80, BUI0: 50, BEMax: 1.400,
		CBH: 6.0, CFL: 0.80, CBD: 0.10},
	O1a: {Code: O1a, Name: "Matted Grass", Group: Grass,
		A: 190, B: 0.0310, C: 1.4, Q: 1.0, BUI0: 1, BEMax: 1.0, GFL: 0.35},
	O1b: {Code: O1b, Name: "Standing Grass", Group: Grass,
		A: 250, B: 0.0350, C: 1.7, Q: 1.0, BUI0: 1, BEMax: 1.0, GFL: 0.35},
	S1: {Code: S1, Name: "Jack or Lodgepole Pine Slash", Group: Slash,
		A: 75, B: 0.0297, C: 1.3, Q: 0.75, BUI0: 38, BEMax: 1.460},
	S2: {Code: S2, Name: "White Spruce/Balsam Slash", Group: Slash,
		A: 40, B: 0.0438, C: 1.7, Q: 0.75, BUI0: 63, BEMax: 1.256},
	S3: {Code: S3, Name: "Coastal Cedar/Hemlock/Douglas-fir Slash", Group: Slash,
		A: 55, B: 0.0829, C: 3.2, Q: 0.75, BUI0: 31, BEMax: 1.590},
}

// Codes returns all 18 fuel codes in a stable order.
func Codes() []Code {
	return []Code{C1, C2, C3, C4, C5, C6, C7, D1, D2, M1, M2, M3, M4, O1a, O1b, S1, S2, S3}
}

// Lookup returns the parameter record for a fuel code.
func Lookup(code Code) (Params, error) {
	p, ok := table[code]
	if !ok {
		return Params{}, fmt.Errorf("%w: %q", ErrUnknownFuel, code)
	}
	return p, nil
}

// Parse converts an external string to a fuel Code.
func Parse(s string) (Code, error) {
	c := Code(s)
	if _, ok := table[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFuel, s)
	}
	return c, nil
}

// CanCrown reports whether the fuel type has a canopy to carry crown fire.
func (p Params) CanCrown() bool {
	return p.CBH > 0 && p.CFL > 0
}
