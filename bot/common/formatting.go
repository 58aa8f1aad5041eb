package common

import (
	"fmt"
	"strings"
	"time"

	"qbank/models"
)

// CurrencyHelp explains the amount syntax accepted by every command
const CurrencyHelp = "```Amounts are written as numbers followed by a denomination suffix:\n" +
	"nb = netherite blocks\nni = netherite ingots\nns = netherite scrap\ndb = diamond blocks\nd = diamonds\n\n" +
	"Example: to pay Steve 10 netherite blocks, 5 netherite ingots, 1 netherite scrap, 5 diamond blocks and 2 diamonds:\n" +
	"/pay player:Steve amount:10nb 5ni 1ns 5db 2d\n\n" +
	"Denominations you leave out are zero, so \"10ns\" is just 10 netherite scrap.\n\n" +
	"Large amounts are converted to the next denomination automatically:\n" +
	"4 scrap make an ingot, 9 ingots make a block and 9 diamonds make a diamond block.\n" +
	"15ni becomes 1nb, 6ni. Netherite and diamonds are never exchanged for each other.```"

// FormatAmount renders an amount for a message body
func FormatAmount(amount models.Amount) string {
	return "**" + amount.String() + "**"
}

// FormatBalance renders a balance as a code block
func FormatBalance(balance models.Amount) string {
	return "```" + balance.String() + "```"
}

// FormatTransaction renders one history line from the account's point of view
func FormatTransaction(tx *models.Transaction, accountID int64) string {
	sign := ""
	switch tx.Direction(accountID) {
	case "in":
		sign = "+"
	case "out":
		sign = "-"
	}
	return fmt.Sprintf("%s %s %s%s", FormatDiscordTimestamp(tx.CreatedAt, "d"), tx.Type, sign, tx.Amount.String())
}

// FormatTransactionHistory renders transactions oldest first, one per line
func FormatTransactionHistory(txs []*models.Transaction, accountID int64) string {
	if len(txs) == 0 {
		return "No transactions yet."
	}
	lines := make([]string, 0, len(txs))
	for _, tx := range txs {
		lines = append(lines, FormatTransaction(tx, accountID))
	}
	return strings.Join(lines, "\n")
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
