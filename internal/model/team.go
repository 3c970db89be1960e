package model

import "strings"

// Team is one of the fixed team tags
type Team string

const (
	TeamYellow Team = "yellow"
	TeamGreen  Team = "green"
)

// Teams lists every recognized team. The order is the tie-break used when
// two teams have the same total score.
var Teams = []Team{TeamYellow, TeamGreen}

// ParseTeam converts user input to a Team. Input is trimmed and lower-cased
// but never shortened, so "y" is rejected rather than guessed.
func ParseTeam(s string) (Team, error) {
	t := Team(strings.ToLower(strings.TrimSpace(s)))
	if t.Rank() < 0 {
		return "", ErrInvalidTeam
	}
	return t, nil
}

// Rank returns the position of the team in Teams, or -1 if unknown
func (t Team) Rank() int {
	for i, known := range Teams {
		if known == t {
			return i
		}
	}
	return -1
}

// Valid reports whether t is a recognized team
func (t Team) Valid() bool {
	return t.Rank() >= 0
}
