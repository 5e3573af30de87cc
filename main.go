package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/cpu"
	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"github.com/xhhuango/json"

	"github.com/jmontero/fxhedge/api"
	"github.com/jmontero/fxhedge/models"
	"github.com/jmontero/fxhedge/positions"
	"github.com/jmontero/fxhedge/probability"
	hedgeslack "github.com/jmontero/fxhedge/slack"
)

const reportFile = "fxhedge_report.json"

type legReport struct {
	Kind     string  `json:"kind"`
	Barrier  string  `json:"barrier"`
	Strike   float64 `json:"strike"`
	Quantity float64 `json:"quantity"`
	Premium  float64 `json:"premium"`
	Method   string  `json:"method"`
}

type strategyReport struct {
	Strategy      string                       `json:"strategy"`
	Legs          []legReport                  `json:"legs"`
	TotalPremium  float64                      `json:"total_premium"`
	PremiumPct    float64                      `json:"premium_pct"`
	Forward       float64                      `json:"forward"`
	Breakeven     float64                      `json:"breakeven,omitempty"`
	Distribution  probability.RateDistribution `json:"distribution"`
	WorstCaseRate float64                      `json:"worst_case_rate"`
	BestCaseRate  float64                      `json:"best_case_rate"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	market := positions.MarketParams{
		Spot:         envFloat("FXHEDGE_SPOT", 1.10),
		DomesticRate: envFloat("FXHEDGE_DOMESTIC_RATE", 0.02),
		ForeignRate:  envFloat("FXHEDGE_FOREIGN_RATE", 0.01),
		Volatility:   envFloat("FXHEDGE_VOL", 0.10),
		TimeToExpiry: envFloat("FXHEDGE_YEARS", 1.0),
	}
	if err := market.Validate(); err != nil {
		log.Fatalf("invalid market parameters: %s", err)
	}

	engine := models.NewMonteCarloEngine(
		int(envFloat("FXHEDGE_PATHS", float64(models.DefaultPaths))),
		int(envFloat("FXHEDGE_STEPS", 0)),
		uint64(envFloat("FXHEDGE_SEED", 42)),
	)

	appToken := os.Getenv("SLACK_APP_TOKEN")
	botToken := os.Getenv("SLACK_BOT_TOKEN")
	if appToken != "" && botToken != "" {
		bot := hedgeslack.NewSlackBot(appToken, botToken, engine)
		log.Fatal(bot.Start())
	}

	if addr := os.Getenv("FXHEDGE_HTTP_ADDR"); addr != "" {
		server := api.NewServer(engine)
		log.Fatal(server.Router().Run(addr))
	}

	go monitorCPUUsage()
	runBatch(market, engine)
}

// catalog is the set of strategies priced in batch mode, with the
// conventional exporter-hedge parametrization for each.
func catalog() []struct {
	name   string
	params positions.StrategyParams
} {
	return []struct {
		name   string
		params positions.StrategyParams
	}{
		{positions.StrategyForward, positions.StrategyParams{}},
		{positions.StrategyCall, positions.StrategyParams{}},
		{positions.StrategyPut, positions.StrategyParams{}},
		{positions.StrategyCollar, positions.StrategyParams{}},
		{positions.StrategyStraddle, positions.StrategyParams{}},
		{positions.StrategyStrangle, positions.StrategyParams{}},
		{positions.StrategySeagull, positions.StrategyParams{}},
		{positions.StrategyKnockOut, positions.StrategyParams{Barrier: positions.Pct(115)}},
		{positions.StrategyKnockIn, positions.StrategyParams{Barrier: positions.Pct(95)}},
		{positions.StrategyDoubleKnockOut, positions.StrategyParams{
			LowerBarrier: positions.Pct(90), UpperBarrier: positions.Pct(115),
		}},
		{positions.StrategyDoubleKnockIn, positions.StrategyParams{
			LowerBarrier: positions.Pct(90), UpperBarrier: positions.Pct(115),
		}},
	}
}

func runBatch(market positions.MarketParams, engine *models.MonteCarloEngine) {
	entries := catalog()

	fmt.Printf("Spot: %.4f  Forward: %.4f  Vol: %.2f%%  Tenor: %.2fy\n",
		market.Spot, market.Forward(), market.Volatility*100, market.TimeToExpiry)

	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(len(entries)),
		mpb.PrependDecorators(
			decor.Name("Pricing"),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
		),
	)

	var reports []strategyReport
	for _, entry := range entries {
		report, err := priceOne(entry.name, entry.params, market, engine)
		if err != nil {
			fmt.Printf("Error pricing %s: %s\n", entry.name, err.Error())
			bar.Increment()
			continue
		}
		reports = append(reports, report)
		bar.Increment()
	}
	p.Wait()

	for _, r := range reports {
		fmt.Printf("%-16s premium %9.6f (%5.2f%% of spot)  worst %.4f  best %.4f\n",
			r.Strategy, r.TotalPremium, r.PremiumPct, r.WorstCaseRate, r.BestCaseRate)
	}

	out, err := json.Marshal(reports)
	if err != nil {
		fmt.Printf("Error marshalling report: %s\n", err.Error())
		return
	}
	if err := os.WriteFile(reportFile, out, 0644); err != nil {
		fmt.Printf("Error writing to file %s: %s\n", reportFile, err.Error())
		return
	}
	fmt.Printf("Successfully wrote %d strategies to %s\n", len(reports), reportFile)
}

func priceOne(name string, params positions.StrategyParams, market positions.MarketParams, engine *models.MonteCarloEngine) (strategyReport, error) {
	st, err := positions.Resolve(name, params, market)
	if err != nil {
		return strategyReport{}, err
	}
	pricing, err := positions.PriceStrategy(st, market, models.ClosedForm, engine)
	if err != nil {
		return strategyReport{}, err
	}
	curve, err := positions.Curve(st, market, pricing, positions.SweepConfig{})
	if err != nil {
		return strategyReport{}, err
	}
	dist, err := probability.HedgedRateDistribution(st, pricing, market, engine)
	if err != nil {
		return strategyReport{}, err
	}

	report := strategyReport{
		Strategy:     st.Name,
		TotalPremium: pricing.TotalPremium,
		PremiumPct:   pricing.PremiumPct,
		Forward:      market.Forward(),
		Distribution: dist,
	}
	for _, lr := range pricing.Legs {
		report.Legs = append(report.Legs, legReport{
			Kind:     lr.Leg.Kind.String(),
			Barrier:  lr.Leg.Barrier.Kind.String(),
			Strike:   lr.Leg.Strike,
			Quantity: lr.Leg.Quantity,
			Premium:  lr.Premium,
			Method:   lr.Method,
		})
	}
	if be, ok := positions.Breakeven(st, pricing, market); ok {
		report.Breakeven = be
	}

	worst, best := curve.Points[0].HedgedRateWithCost, curve.Points[0].HedgedRateWithCost
	for _, pt := range curve.Points[1:] {
		if pt.HedgedRateWithCost < worst {
			worst = pt.HedgedRateWithCost
		}
		if pt.HedgedRateWithCost > best {
			best = pt.HedgedRateWithCost
		}
	}
	report.WorstCaseRate = worst
	report.BestCaseRate = best
	return report, nil
}

func monitorCPUUsage() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		percentage, err := cpu.Percent(time.Second, false)
		if err == nil && len(percentage) > 0 {
			fmt.Printf("\nCPU Usage: %.2f%%\n", percentage[0])
		}
	}
}

func envFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %g", key, raw, def)
		return def
	}
	return v
}
