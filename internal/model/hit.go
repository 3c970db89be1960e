package model

import "time"

// HitID uniquely identifies a hit in the ledger
type HitID int64

// Hit records that one player struck another. Hits are immutable once
// appended to the ledger.
type Hit struct {
	ID        HitID
	HitterID  PlayerID
	TargetID  PlayerID
	Timestamp time.Time // ingestion time, recorded as received
}
