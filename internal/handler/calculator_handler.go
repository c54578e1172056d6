package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/firesim/firesim-backend-go/internal/fbp"
	"github.com/firesim/firesim-backend-go/internal/fuel"
	"github.com/firesim/firesim-backend-go/internal/fwi"
	"github.com/firesim/firesim-backend-go/pkg/response"
)

// CalculatorHandler exposes the FWI/FBP equation stacks directly, without
// running a spread simulation.
type CalculatorHandler struct{}

// NewCalculatorHandler creates a new calculator handler
func NewCalculatorHandler() *CalculatorHandler {
	return &CalculatorHandler{}
}

// FWIRequest is the body of POST /api/v1/calc/fwi
type FWIRequest struct {
	Weather   fwi.Weather    `json:"weather" binding:"required"`
	Overrides *fwi.Overrides `json:"fwi_overrides,omitempty"`
}

// CalculateFWI handles POST /api/v1/calc/fwi
func (h *CalculatorHandler) CalculateFWI(c *gin.Context) {
	var req FWIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var overrides fwi.Overrides
	if req.Overrides != nil {
		overrides = *req.Overrides
	}

	state, err := fwi.Calculate(req.Weather, overrides)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, state)
}

// FBPRequest is the body of POST /api/v1/calc/fbp
type FBPRequest struct {
	FuelType  string  `json:"fuel_type" binding:"required"`
	ISI       float64 `json:"isi" binding:"gte=0"`
	BUI       float64 `json:"bui" binding:"gte=0"`
	FFMC      float64 `json:"ffmc" binding:"gte=0,lte=101"`
	WindSpeed float64 `json:"wind_speed" binding:"gte=0"`

	FMC            float64  `json:"fmc,omitempty"`
	PercentConifer *float64 `json:"percent_conifer,omitempty"`
	PercentDeadFir *float64 `json:"percent_dead_fir,omitempty"`
	GrassCuring    *float64 `json:"grass_curing,omitempty"`
	CBHOverride    *float64 `json:"cbh_override,omitempty"`
}

// CalculateFBP handles POST /api/v1/calc/fbp
func (h *CalculatorHandler) CalculateFBP(c *gin.Context) {
	var req FBPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	code, err := fuel.Parse(req.FuelType)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := fbp.Calculate(fbp.Inputs{
		Fuel:           code,
		ISI:            req.ISI,
		BUI:            req.BUI,
		FFMC:           req.FFMC,
		WindSpeed:      req.WindSpeed,
		FMC:            req.FMC,
		PercentConifer: req.PercentConifer,
		PercentDeadFir: req.PercentDeadFir,
		GrassCuring:    req.GrassCuring,
		CrownBaseHt:    req.CBHOverride,
	})
	if err != nil {
		if errors.Is(err, fbp.ErrInvalidInputs) || errors.Is(err, fuel.ErrUnknownFuel) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// ListFuels handles GET /api/v1/fuels, returning the parameter table.
func (h *CalculatorHandler) ListFuels(c *gin.Context) {
	params := make([]fuel.Params, 0, 18)
	for _, code := range fuel.Codes() {
		p, _ := fuel.Lookup(code)
		params = append(params, p)
	}
	response.Success(c, gin.H{"data": params, "count": len(params)})
}
