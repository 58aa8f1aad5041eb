package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a player's bank account
type Account struct {
	ID                int64     `db:"account_id"`
	PlayerUUID        uuid.UUID `db:"player_uuid"`
	PlayerName        string    `db:"player_name"`
	DiscordID         int64     `db:"discord_id"`
	Balance           Amount    `db:"-"`
	OptedIntoInterest bool      `db:"opted_into_interest"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// Player is a Minecraft identity returned by the name resolver
type Player struct {
	UUID uuid.UUID
	Name string
}
