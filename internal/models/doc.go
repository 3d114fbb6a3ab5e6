// Package models defines the domain types of the ROSCA engine.
//
// # Entities
//
//   - Member: a person with a decimal balance
//   - Plan: a (monthly contribution, term) pair; immutable once created
//   - Group: a savings circle built from one plan, capacity = term
//   - Participant: a member's seat in a group, holding one turn slot
//   - Round: one payout cycle; round N is won by the participant in slot N
//   - Payment: one participant's obligation for one round
//
// # Relationships
//
// Entities reference each other by ID strings, never by pointer. A group
// owns its participants, rounds and payments by reference; removing them is
// an explicit storage operation.
//
// # Status fields
//
// Each status is a closed string type with a transition table. Status
// changes go through the Transition/Block/Unblock methods, which return an
// apperrors.StateTransition error and leave the entity untouched when the
// change is not allowed.
package models
