package models

import "time"

// Participant is a member's seat in a group.
type Participant struct {
	ID       string
	GroupID  string
	MemberID string

	// TurnSlot is the round (1..capacity) this participant wins.
	TurnSlot int

	Role          Role
	PaymentStatus PaymentStatus
	ReceiveStatus ReceiveStatus

	JoinedAt time.Time
}

// FreeSlot returns the requested slot when it is free, otherwise the lowest
// unoccupied slot in 1..capacity. ok is false when no slot can be granted.
func FreeSlot(participants []*Participant, capacity, requested int) (slot int, ok bool) {
	taken := make(map[int]bool, len(participants))
	for _, p := range participants {
		taken[p.TurnSlot] = true
	}
	if requested > 0 {
		return requested, requested <= capacity && !taken[requested]
	}
	for s := 1; s <= capacity; s++ {
		if !taken[s] {
			return s, true
		}
	}
	return 0, false
}
