package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jmontero/fxhedge/models"
	"github.com/jmontero/fxhedge/positions"
)

// Server exposes the pricing engine to the dashboard over HTTP. It owns a
// Monte Carlo engine so repeated requests share one seeded configuration.
type Server struct {
	engine *models.MonteCarloEngine
}

func NewServer(engine *models.MonteCarloEngine) *Server {
	if engine == nil {
		engine = models.NewMonteCarloEngine(0, 0, 1)
	}
	return &Server{engine: engine}
}

func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	v1 := router.Group("/api/v1")
	{
		v1.POST("/price", s.handlePrice)
		v1.POST("/curve", s.handleCurve)
		v1.GET("/strategies", s.handleStrategies)
	}
	return router
}

type marketRequest struct {
	Spot         float64 `json:"spot" binding:"required,gt=0"`
	DomesticRate float64 `json:"domestic_rate"`
	ForeignRate  float64 `json:"foreign_rate"`
	Volatility   float64 `json:"volatility" binding:"required,gt=0"`
	Years        float64 `json:"years" binding:"required,gt=0"`
}

func (m marketRequest) params() positions.MarketParams {
	return positions.MarketParams{
		Spot:         m.Spot,
		DomesticRate: m.DomesticRate,
		ForeignRate:  m.ForeignRate,
		Volatility:   m.Volatility,
		TimeToExpiry: m.Years,
	}
}

type levelRequest struct {
	Value   float64 `json:"value"`
	Percent bool    `json:"percent"`
}

func (l levelRequest) level() positions.Level {
	return positions.Level{Value: l.Value, Percent: l.Percent}
}

type legRequest struct {
	Kind         string       `json:"kind" binding:"required,oneof=call put"`
	Barrier      string       `json:"barrier" binding:"omitempty,oneof=knockout knockin double-knockout double-knockin"`
	Reverse      bool         `json:"reverse"`
	Strike       levelRequest `json:"strike"`
	BarrierLevel levelRequest `json:"barrier_level"`
	LowerBarrier levelRequest `json:"lower_barrier"`
	UpperBarrier levelRequest `json:"upper_barrier"`
	Vol          float64      `json:"vol"`
	Quantity     float64      `json:"quantity"`
}

type priceRequest struct {
	Strategy     string        `json:"strategy" binding:"required"`
	Market       marketRequest `json:"market" binding:"required"`
	Mode         string        `json:"mode" binding:"omitempty,oneof=closed-form monte-carlo"`
	Strike       levelRequest  `json:"strike"`
	LowerStrike  levelRequest  `json:"lower_strike"`
	UpperStrike  levelRequest  `json:"upper_strike"`
	Barrier      levelRequest  `json:"barrier"`
	LowerBarrier levelRequest  `json:"lower_barrier"`
	UpperBarrier levelRequest  `json:"upper_barrier"`
	Kind         string        `json:"kind" binding:"omitempty,oneof=call put"`
	Quantity     float64       `json:"quantity"`
	Legs         []legRequest  `json:"legs"`
}

type curveRequest struct {
	priceRequest
	WidthPct float64 `json:"width_pct"`
	Steps    int     `json:"steps"`
}

func (r priceRequest) strategyParams() positions.StrategyParams {
	params := positions.StrategyParams{
		Strike:       r.Strike.level(),
		LowerStrike:  r.LowerStrike.level(),
		UpperStrike:  r.UpperStrike.level(),
		Barrier:      r.Barrier.level(),
		LowerBarrier: r.LowerBarrier.level(),
		UpperBarrier: r.UpperBarrier.level(),
		Kind:         parseKind(r.Kind),
		Quantity:     r.Quantity,
	}
	for _, leg := range r.Legs {
		params.Legs = append(params.Legs, positions.OptionLeg{
			Kind:         parseKind(leg.Kind),
			Barrier:      parseBarrier(leg.Barrier),
			Reverse:      leg.Reverse,
			Strike:       leg.Strike.level(),
			BarrierLevel: leg.BarrierLevel.level(),
			LowerBarrier: leg.LowerBarrier.level(),
			UpperBarrier: leg.UpperBarrier.level(),
			Vol:          leg.Vol,
			Quantity:     leg.Quantity,
		})
	}
	return params
}

func parseKind(s string) models.OptionKind {
	if s == "put" {
		return models.Put
	}
	return models.Call
}

func parseBarrier(s string) models.BarrierKind {
	switch s {
	case "knockout":
		return models.KnockOut
	case "knockin":
		return models.KnockIn
	case "double-knockout":
		return models.DoubleKnockOut
	case "double-knockin":
		return models.DoubleKnockIn
	}
	return models.BarrierNone
}

func parseMode(s string) models.PricingMode {
	if s == "monte-carlo" {
		return models.MonteCarlo
	}
	return models.ClosedForm
}

func (s *Server) handlePrice(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	market := req.Market.params()
	st, err := positions.Resolve(req.Strategy, req.strategyParams(), market)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pricing, err := positions.PriceStrategy(st, market, parseMode(req.Mode), s.engine)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrInvalidInput) || errors.Is(err, models.ErrUnsupportedCombination) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	legs := make([]gin.H, len(pricing.Legs))
	for i, lr := range pricing.Legs {
		legs[i] = gin.H{
			"kind":      lr.Leg.Kind.String(),
			"barrier":   lr.Leg.Barrier.Kind.String(),
			"strike":    round(lr.Leg.Strike),
			"quantity":  lr.Leg.Quantity,
			"premium":   round(lr.Premium),
			"method":    lr.Method,
			"std_error": round(lr.StdError),
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"strategy":      pricing.Strategy,
		"legs":          legs,
		"total_premium": round(pricing.TotalPremium),
		"premium_pct":   round(pricing.PremiumPct),
		"forward":       round(market.Forward()),
	})
}

func (s *Server) handleCurve(c *gin.Context) {
	var req curveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	market := req.Market.params()
	st, err := positions.Resolve(req.Strategy, req.strategyParams(), market)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pricing, err := positions.PriceStrategy(st, market, parseMode(req.Mode), s.engine)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	curve, err := positions.Curve(st, market, pricing, positions.SweepConfig{
		WidthPct: req.WidthPct,
		Steps:    req.Steps,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"strategy":      curve.Strategy,
		"forward":       round(curve.Forward),
		"total_premium": round(pricing.TotalPremium),
		"points":        curve.Points,
	})
}

func (s *Server) handleStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strategies": positions.Names})
}

// round trims the float noise out of user-facing rates and premiums.
func round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(8)
}
