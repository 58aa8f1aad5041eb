package common

import (
	"fmt"
	"strconv"

	"qbank/models"
	"qbank/service"

	"github.com/bwmarrin/discordgo"
)

// InvokerID returns the Discord id of the user who ran the interaction, in a guild or a DM
func InvokerID(i *discordgo.InteractionCreate) (int64, error) {
	var user *discordgo.User
	switch {
	case i.Member != nil && i.Member.User != nil:
		user = i.Member.User
	case i.User != nil:
		user = i.User
	default:
		return 0, fmt.Errorf("interaction has no user")
	}
	id, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid Discord ID %q: %w", user.ID, err)
	}
	return id, nil
}

// OptionMap indexes the options of a command by name
func OptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// StringOption returns a string option or "" when absent
func StringOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	opt, ok := options[name]
	if !ok {
		return ""
	}
	return opt.StringValue()
}

// AmountOption parses an amount option such as "10nb 5ni"
func AmountOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) (models.Amount, error) {
	return models.ParseAmount(StringOption(options, name))
}

// RequireManager returns the invoker's id, or ErrNotPermitted unless they are the bank manager
func RequireManager(i *discordgo.InteractionCreate, managerID int64) (int64, error) {
	invoker, err := InvokerID(i)
	if err != nil {
		return 0, err
	}
	if managerID == 0 || invoker != managerID {
		return invoker, service.ErrNotPermitted
	}
	return invoker, nil
}
