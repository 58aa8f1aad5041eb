package bot

import (
	"fmt"

	"qbank/bot/features/account"
	"qbank/bot/features/manager"
	"qbank/bot/features/requests"
	"qbank/bot/features/transfer"
	"qbank/events"
	"qbank/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token            string
	GuildID          string
	ManagerDiscordID int64
}

// commandHandler is implemented by every feature
type commandHandler interface {
	HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate)
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	handlers map[string]commandHandler
}

// New connects to Discord, wires the features and registers the slash commands
func New(config Config, ledger service.LedgerService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages

	bot := &Bot{
		config:  config,
		session: dg,
	}

	transferFeature := transfer.New(dg, ledger, config.ManagerDiscordID)
	transferFeature.SubscribeToEvents(eventBus)

	bot.handlers = routeCommands(
		account.New(ledger, config.ManagerDiscordID),
		transferFeature,
		manager.New(ledger, config.ManagerDiscordID),
		requests.New(ledger, config.ManagerDiscordID),
	)

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// routeCommands maps each command name to the feature that serves it
func routeCommands(accounts, transfers, managers, requests commandHandler) map[string]commandHandler {
	return map[string]commandHandler{
		"createaccount":            accounts,
		"createaccountwithbalance": accounts,
		"balance":                  accounts,
		"transactions":             accounts,
		"interest":                 accounts,
		"pay":                      transfers,
		"transfer":                 transfers,
		"deposit":                  managers,
		"withdraw":                 managers,
		"loan":                     managers,
		"loanable":                 managers,
		"requestdeposit":           requests,
		"requestwithdrawal":        requests,
		"currencyhelp":             requests,
	}
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	handler, ok := b.handlers[name]
	if !ok {
		log.WithField("command", name).Warn("Unknown command")
		return
	}

	log.WithField("command", name).Debug("Handling command")
	handler.HandleCommand(s, i)
}
