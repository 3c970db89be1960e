package redis

import (
	"fmt"
	"strconv"

	"github.com/mcoot/lasertag/internal/model"
)

// Key prefix for all ledger data
const keyPrefix = "lasertag"

// playersKey returns the HASH of player id -> Player JSON
func playersKey() string {
	return keyPrefix + ":players"
}

// usernameIndexKey returns the HASH of username -> player id
func usernameIndexKey() string {
	return keyPrefix + ":idx:usernames"
}

// playerSeqKey returns the counter used to assign player ids
func playerSeqKey() string {
	return keyPrefix + ":seq:players"
}

// hitsKey returns the LIST holding the whole ledger in append order
func hitsKey() string {
	return keyPrefix + ":hits"
}

// hitSeqKey returns the counter used to assign hit ids
func hitSeqKey() string {
	return keyPrefix + ":seq:hits"
}

// hitsByKey returns the LIST of hits made by a player
func hitsByKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:idx:hits_by:%d", keyPrefix, id)
}

// hitsAgainstKey returns the LIST of hits taken by a player
func hitsAgainstKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:idx:hits_against:%d", keyPrefix, id)
}

// streamsKey returns the HASH of player id -> StreamSlot JSON
func streamsKey() string {
	return keyPrefix + ":streams"
}

// field formats a player id as a hash field
func field(id model.PlayerID) string {
	return strconv.FormatInt(int64(id), 10)
}
