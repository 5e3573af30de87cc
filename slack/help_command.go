package hedgeslack

import (
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/jmontero/fxhedge/positions"
)

type HelpHandler struct{}

func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

func (h *HelpHandler) HandleCommand(evt *socketmode.Event, client *socketmode.Client) error {
	data := evt.Data.(slack.SlashCommand)
	helpText := "Available commands:\n" +
		"/help - Show this help message\n" +
		"/fxprice <strategy> <spot> <domesticRate> <foreignRate> <vol> <years> [barrierPct] [lowerBarrierPct] - Price a hedge\n" +
		"Strategies: " + strings.Join(positions.Names, ", ")

	_, _, err := client.PostMessage(data.ChannelID,
		slack.MsgOptionText(helpText, false))
	return err
}
