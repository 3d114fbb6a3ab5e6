package models

import "github.com/mmynk/rosca/internal/apperrors"

// GroupStatus is the lifecycle state of a group.
type GroupStatus string

const (
	GroupWaitingForMembers GroupStatus = "WAITING_FOR_MEMBERS"
	GroupPendingApproval   GroupStatus = "PENDING_APPROVAL"
	GroupActive            GroupStatus = "ACTIVE"
	GroupCompleted         GroupStatus = "COMPLETED"
	GroupBlocked           GroupStatus = "BLOCKED"
)

// groupTransitions lists the forward transitions. BLOCKED is entered through
// Group.Block and left through Group.Unblock only.
var groupTransitions = map[GroupStatus][]GroupStatus{
	GroupWaitingForMembers: {GroupPendingApproval},
	GroupPendingApproval:   {GroupActive},
	GroupActive:            {GroupCompleted},
}

// Valid reports whether s is a known group status.
func (s GroupStatus) Valid() bool {
	switch s {
	case GroupWaitingForMembers, GroupPendingApproval, GroupActive, GroupCompleted, GroupBlocked:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s GroupStatus) Terminal() bool {
	return s == GroupCompleted
}

// CanTransitionTo reports whether a forward transition from s to to exists.
func (s GroupStatus) CanTransitionTo(to GroupStatus) bool {
	for _, next := range groupTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseGroupStatus converts a string into a GroupStatus.
func ParseGroupStatus(s string) (GroupStatus, error) {
	st := GroupStatus(s)
	if !st.Valid() {
		return "", apperrors.Validation("unknown group status %q", s)
	}
	return st, nil
}

// RoundStatus is the state of a payout round.
type RoundStatus string

const (
	// RoundPendingApproval is a scheduled round that is not open for payments yet.
	RoundPendingApproval RoundStatus = "PENDING_APPROVAL"
	RoundActive          RoundStatus = "ACTIVE"
	RoundCompleted       RoundStatus = "COMPLETED"
	RoundBlocked         RoundStatus = "BLOCKED"
)

var roundTransitions = map[RoundStatus][]RoundStatus{
	RoundPendingApproval: {RoundActive},
	RoundActive:          {RoundCompleted},
}

// Valid reports whether s is a known round status.
func (s RoundStatus) Valid() bool {
	switch s {
	case RoundPendingApproval, RoundActive, RoundCompleted, RoundBlocked:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s RoundStatus) Terminal() bool {
	return s == RoundCompleted
}

// CanTransitionTo reports whether a forward transition from s to to exists.
func (s RoundStatus) CanTransitionTo(to RoundStatus) bool {
	for _, next := range roundTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseRoundStatus converts a string into a RoundStatus.
func ParseRoundStatus(s string) (RoundStatus, error) {
	st := RoundStatus(s)
	if !st.Valid() {
		return "", apperrors.Validation("unknown round status %q", s)
	}
	return st, nil
}

// PaymentStatus is the persisted state of an obligation.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"

	// PaymentLate is never stored. It is what EffectiveStatus reports for a
	// pending obligation past its due date.
	PaymentLate PaymentStatus = "LATE"
)

// Role is a participant's role in the current round.
type Role string

const (
	RolePayer     Role = "PAYER"
	RoleRecipient Role = "RECIPIENT"
)

// ReceiveStatus records whether a participant has received their payout.
type ReceiveStatus string

const (
	NotReceived ReceiveStatus = "NOT_RECEIVED"
	Received    ReceiveStatus = "RECEIVED"
)
