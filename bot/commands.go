package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var managerPermission int64 = discordgo.PermissionManageServer

func playerOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    true,
		MaxLength:   16,
	}
}

func amountOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "amount",
		Description: description + " (e.g. 10nb 5ni 1ns 5db 2d)",
		Required:    true,
	}
}

// commandDefinitions lists every slash command the bot registers
func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "currencyhelp",
			Description: "Explain how to write currency amounts",
		},
		{
			Name:        "createaccount",
			Description: "Create a bank account for your Minecraft player",
			Options: []*discordgo.ApplicationCommandOption{
				playerOption("player", "Your Minecraft username"),
			},
		},
		{
			Name:        "balance",
			Description: "Check your balance",
		},
		{
			Name:        "transactions",
			Description: "Show your most recent transactions",
		},
		{
			Name:        "interest",
			Description: "Opt in or out of daily balance interest",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "Whether your balance earns interest",
					Required:    true,
				},
			},
		},
		{
			Name:        "pay",
			Description: "Pay another player from your account",
			Options: []*discordgo.ApplicationCommandOption{
				playerOption("player", "Recipient's Minecraft username"),
				amountOption("Amount to pay"),
			},
		},
		{
			Name:        "requestdeposit",
			Description: "Ask the bank manager to deposit into your account",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("Amount to deposit"),
			},
		},
		{
			Name:        "requestwithdrawal",
			Description: "Ask the bank manager to withdraw from your account",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("Amount to withdraw"),
			},
		},
		{
			Name:                     "createaccountwithbalance",
			Description:              "Create an account with a starting balance (manager only)",
			DefaultMemberPermissions: &managerPermission,
			Options: []*discordgo.ApplicationCommandOption{
				playerOption("player", "Minecraft username"),
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Discord user who owns the account",
					Required:    true,
				},
				amountOption("Starting balance"),
			},
		},
		{
			Name:                     "deposit",
			Description:              "Deposit into a player's account (manager only)",
			DefaultMemberPermissions: &managerPermission,
			Options: []*discordgo.ApplicationCommandOption{
				playerOption("player", "Minecraft username"),
				amountOption("Amount to deposit"),
			},
		},
		{
			Name:                     "withdraw",
			Description:              "Withdraw from a player's account (manager only)",
			DefaultMemberPermissions: &managerPermission,
			Options: []*discordgo.ApplicationCommandOption{
				playerOption("player", "Minecraft username"),
				amountOption("Amount to withdraw"),
			},
		},
		{
			Name:                     "transfer",
			Description:              "Move money between two players (manager only)",
			DefaultMemberPermissions: &managerPermission,
			Options: []*discordgo.ApplicationCommandOption{
				playerOption("from", "Sender's Minecraft username"),
				playerOption("to", "Recipient's Minecraft username"),
				amountOption("Amount to transfer"),
			},
		},
		{
			Name:                     "loan",
			Description:              "Lend money to a player (manager only)",
			DefaultMemberPermissions: &managerPermission,
			Options: []*discordgo.ApplicationCommandOption{
				playerOption("player", "Minecraft username"),
				amountOption("Principal"),
			},
		},
		{
			Name:                     "loanable",
			Description:              "Show how much the bank can lend (manager only)",
			DefaultMemberPermissions: &managerPermission,
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range commandDefinitions() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	log.WithFields(log.Fields{
		"guildID":  b.config.GuildID,
		"commands": len(b.handlers),
	}).Info("Registered slash commands")
	return nil
}
