package model

// HitCount is the number of times a player hit one particular target
type HitCount struct {
	TargetID       PlayerID
	TargetUsername string
	Count          int
}

// PlayerStanding is a player's row in the leaderboard
type PlayerStanding struct {
	PlayerID       PlayerID
	Username       string
	Team           Team
	Score          int
	StreamEndpoint *string // nil unless the stream is active
	StreamState    StreamState
	HitsGiven      []HitCount // ordered by target id
}

// TeamStanding groups a team's players with their combined score
type TeamStanding struct {
	Team       Team
	TotalScore int
	Players    []PlayerStanding
}

// Leaderboard is the read projection served to the dashboard
type Leaderboard struct {
	Teams   []TeamStanding
	Streams []StreamSlot // active slots chosen for display
}

// Snapshot is a mutually consistent view of all ledger state, read by
// storage in one atomic operation
type Snapshot struct {
	Players []*Player // id order
	Hits    []*Hit    // ledger order
	Streams []*StreamSlot
}
