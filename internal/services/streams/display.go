package streams

import (
	"sort"

	"github.com/mcoot/lasertag/internal/model"
)

// DisplaySlots picks up to limit active slots, earliest activation first with
// ties broken by player id. Nothing is reserved: when a featured player drops
// out, the next-earliest active slot takes its place on the next call.
func DisplaySlots(slots []*model.StreamSlot, limit int) []model.StreamSlot {
	active := make([]model.StreamSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.State == model.StreamStateActive {
			active = append(active, *slot)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		if !active[i].ActivatedAt.Equal(active[j].ActivatedAt) {
			return active[i].ActivatedAt.Before(active[j].ActivatedAt)
		}
		return active[i].PlayerID < active[j].PlayerID
	})

	if limit < 0 {
		limit = 0
	}
	if len(active) > limit {
		active = active[:limit]
	}
	return active
}
