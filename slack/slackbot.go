package hedgeslack

import (
	"log"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/jmontero/fxhedge/models"
)

type SlackBot struct {
	client       *slack.Client
	socketClient *socketmode.Client
	eventHandler *Handler
}

func NewSlackBot(appToken, botToken string, engine *models.MonteCarloEngine) *SlackBot {
	client := slack.New(
		botToken,
		slack.OptionAppLevelToken(appToken),
	)

	socketClient := socketmode.New(
		client,
		socketmode.OptionLog(log.New(log.Writer(), "socketmode: ", log.Lshortfile|log.LstdFlags)),
	)

	return &SlackBot{
		client:       client,
		socketClient: socketClient,
		eventHandler: NewHandler(engine),
	}
}

func (sb *SlackBot) Start() error {
	go func() {
		for evt := range sb.socketClient.Events {
			switch evt.Type {
			case socketmode.EventTypeSlashCommand:
				sb.eventHandler.Handle(&evt, sb.socketClient)
			}
		}
	}()

	return sb.socketClient.Run()
}
