package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxUsernameLength bounds usernames the same way the session app does
const MaxUsernameLength = 100

// PlayerID uniquely identifies a player. IDs are assigned by storage on
// creation, start at 1 and only ever increase.
type PlayerID int64

// Player is a registered participant. Score is deliberately absent: it is
// always derived from the hit ledger.
type Player struct {
	ID        PlayerID
	Username  string
	Team      Team
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeUsername trims surrounding whitespace and validates the result
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > MaxUsernameLength {
		return "", ErrInvalidUsername
	}
	return username, nil
}
