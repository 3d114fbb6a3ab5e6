// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/rosca/internal/models"
)

// Repository is the persistence collaborator of the engine: get-by-id,
// list-by-predicate, insert and update for each entity.
//
// Get* methods return an apperrors.NotFound error when the row is missing.
// Create* methods return an apperrors.Conflict error when a uniqueness
// constraint (such as one turn slot per group) is violated.
type Repository interface {
	// CreateMember inserts a member. ID and timestamps are generated when empty.
	CreateMember(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, memberID string) (*models.Member, error)
	// LockMember reads a member for update within a transaction.
	LockMember(ctx context.Context, memberID string) (*models.Member, error)
	UpdateMemberBalance(ctx context.Context, memberID string, balance decimal.Decimal, at time.Time) error

	// GetOrCreatePlan returns the plan for (contribution, term), creating it on first use.
	GetOrCreatePlan(ctx context.Context, contribution decimal.Decimal, termMonths int) (*models.Plan, error)
	GetPlan(ctx context.Context, planID string) (*models.Plan, error)

	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	// LockGroup reads a group for update within a transaction.
	LockGroup(ctx context.Context, groupID string) (*models.Group, error)
	UpdateGroupStatus(ctx context.Context, group *models.Group) error
	ListGroupsByStatus(ctx context.Context, status models.GroupStatus) ([]*models.Group, error)
	// ListOpenGroups returns WAITING_FOR_MEMBERS groups matching the plan
	// values, oldest first.
	ListOpenGroups(ctx context.Context, contribution decimal.Decimal, capacity int) ([]*models.Group, error)
	// DeleteGroup removes the group with its payments, rounds and participants.
	DeleteGroup(ctx context.Context, groupID string) error

	CreateParticipant(ctx context.Context, participant *models.Participant) error
	GetParticipant(ctx context.Context, participantID string) (*models.Participant, error)
	// ListParticipants returns a group's participants ordered by turn slot.
	ListParticipants(ctx context.Context, groupID string) ([]*models.Participant, error)
	ListParticipantsByMember(ctx context.Context, memberID string) ([]*models.Participant, error)
	UpdateParticipant(ctx context.Context, participant *models.Participant) error
	// ResetParticipantPayments sets every participant of a group back to PENDING.
	ResetParticipantPayments(ctx context.Context, groupID string) error

	CreateRound(ctx context.Context, round *models.Round) error
	GetRound(ctx context.Context, roundID string) (*models.Round, error)
	// ListRounds returns a group's rounds ordered by round number.
	ListRounds(ctx context.Context, groupID string) ([]*models.Round, error)
	UpdateRoundStatus(ctx context.Context, round *models.Round) error
	// ClaimRoundSettlement sets settled_at if it is still unset and reports
	// whether this call set it.
	ClaimRoundSettlement(ctx context.Context, roundID string, at time.Time) (bool, error)

	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	ListPaymentsByRound(ctx context.Context, roundID string) ([]*models.Payment, error)
	// ListPendingPaymentsDueBefore returns PENDING payments with due date before t.
	ListPendingPaymentsDueBefore(ctx context.Context, t time.Time) ([]*models.Payment, error)
	// ListPaymentsDueBetween returns payments with from <= due < to.
	ListPaymentsDueBetween(ctx context.Context, from, to time.Time) ([]*models.Payment, error)
	UpdatePayment(ctx context.Context, payment *models.Payment) error
}

// Store is a Repository that can scope work to a transaction.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the engine.
type Store interface {
	Repository

	// WithTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise. fn must use tx, not the Store.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error

	// Close releases any resources held by the store.
	Close() error
}
