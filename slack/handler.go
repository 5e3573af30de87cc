package hedgeslack

import (
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/jmontero/fxhedge/models"
)

type Handler struct {
	helpHandler  *HelpHandler
	priceHandler *PriceHandler
}

func NewHandler(engine *models.MonteCarloEngine) *Handler {
	return &Handler{
		helpHandler:  NewHelpHandler(),
		priceHandler: NewPriceHandler(engine),
	}
}

func (h *Handler) Handle(evt *socketmode.Event, client *socketmode.Client) error {
	data := evt.Data.(slack.SlashCommand)
	switch data.Command {
	case "/help":
		err := h.helpHandler.HandleCommand(evt, client)
		if err != nil {
			return err
		}
	case "/fxprice":
		err := h.priceHandler.HandleCommand(evt, client)
		if err != nil {
			return err
		}
	}

	client.Ack(*evt.Request)
	return nil
}
