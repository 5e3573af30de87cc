package hedgeslack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/jmontero/fxhedge/models"
	"github.com/jmontero/fxhedge/positions"
	"github.com/jmontero/fxhedge/probability"
)

type PriceHandler struct {
	engine *models.MonteCarloEngine
}

func NewPriceHandler(engine *models.MonteCarloEngine) *PriceHandler {
	return &PriceHandler{engine: engine}
}

func (h *PriceHandler) HandleCommand(evt *socketmode.Event, client *socketmode.Client) error {
	data := evt.Data.(slack.SlashCommand)
	args := strings.Fields(data.Text)

	if len(args) < 6 || len(args) > 8 {
		_, _, err := client.PostMessage(data.ChannelID,
			slack.MsgOptionText("Usage: /fxprice <strategy> <spot> <domesticRate> <foreignRate> <vol> <years> [barrierPct] [lowerBarrierPct]", false))
		return err
	}

	name := args[0]
	spot, _ := strconv.ParseFloat(args[1], 64)
	rd, _ := strconv.ParseFloat(args[2], 64)
	rf, _ := strconv.ParseFloat(args[3], 64)
	vol, _ := strconv.ParseFloat(args[4], 64)
	years, _ := strconv.ParseFloat(args[5], 64)

	market := positions.MarketParams{
		Spot:         spot,
		DomesticRate: rd,
		ForeignRate:  rf,
		Volatility:   vol,
		TimeToExpiry: years,
	}
	params := positions.StrategyParams{}
	if len(args) >= 7 {
		pct, _ := strconv.ParseFloat(args[6], 64)
		params.Barrier = positions.Pct(pct)
		params.UpperBarrier = positions.Pct(pct)
	}
	if len(args) == 8 {
		pct, _ := strconv.ParseFloat(args[7], 64)
		params.LowerBarrier = positions.Pct(pct)
	}

	// Acknowledge first; the Monte Carlo run can take a moment.
	_, ts, err := client.PostMessage(data.ChannelID,
		slack.MsgOptionText(fmt.Sprintf("Pricing %s...", name), false))
	if err != nil {
		return err
	}

	go h.runAndPost(client, data.ChannelID, ts, name, params, market)
	return nil
}

func (h *PriceHandler) runAndPost(client *socketmode.Client, channelID, timestamp, name string, params positions.StrategyParams, market positions.MarketParams) {
	msg := h.run(name, params, market)
	client.PostMessage(channelID,
		slack.MsgOptionText(msg, false),
		slack.MsgOptionTS(timestamp))
}

func (h *PriceHandler) run(name string, params positions.StrategyParams, market positions.MarketParams) string {
	st, err := positions.Resolve(name, params, market)
	if err != nil {
		return fmt.Sprintf("Error: %s", err.Error())
	}
	pricing, err := positions.PriceStrategy(st, market, models.ClosedForm, h.engine)
	if err != nil {
		return fmt.Sprintf("Error: %s", err.Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s* @ spot %.4f (forward %.4f)\n", name, market.Spot, market.Forward())
	for i, lr := range pricing.Legs {
		fmt.Fprintf(&sb, "leg %d: %s %s strike %.4f qty %.0f%% premium %.6f (%s)\n",
			i+1, lr.Leg.Kind, lr.Leg.Barrier.Kind, lr.Leg.Strike, lr.Leg.Quantity, lr.Premium, lr.Method)
	}
	fmt.Fprintf(&sb, "total premium: %.6f (%.2f%% of spot)\n", pricing.TotalPremium, pricing.PremiumPct)

	if be, ok := positions.Breakeven(st, pricing, market); ok {
		fmt.Fprintf(&sb, "breakeven spot: %.4f\n", be)
	}
	if dist, err := probability.HedgedRateDistribution(st, pricing, market, h.engine); err == nil {
		fmt.Fprintf(&sb, "hedged rate: mean %.4f, VaR95 %.4f, ES %.4f\n", dist.Mean, dist.VaR95, dist.ExpectedShortfall)
	}
	return sb.String()
}
