package service

import (
	"cmp"
	"slices"

	"eventreg/internal/events/models"
)

// sortForBoard orders applications by participant type rank, then
// participant order with unset orders last, then id.
func sortForBoard(apps []*models.Application) {
	slices.SortStableFunc(apps, func(a, b *models.Application) int {
		if c := cmp.Compare(a.ParticipantType.Rank(), b.ParticipantType.Rank()); c != 0 {
			return c
		}
		if c := compareOrder(a.ParticipantOrder, b.ParticipantOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func compareOrder(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp.Compare(*a, *b)
	}
}
