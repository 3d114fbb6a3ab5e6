// Package api defines the RPC surface of the ROSCA engine: service and
// procedure names, request and response messages, a JSON codec and typed
// clients. Messages are plain Go structs carried over Connect unary calls.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// GroupServiceName is the fully-qualified name of the GroupService.
	GroupServiceName = "rosca.v1.GroupService"
	// PaymentServiceName is the fully-qualified name of the PaymentService.
	PaymentServiceName = "rosca.v1.PaymentService"
)

// ErrorKindHeader carries the engine error kind (VALIDATION, NOT_FOUND,
// CONFLICT, STATE_TRANSITION, INSUFFICIENT_FUNDS) on error responses.
const ErrorKindHeader = "Rosca-Error-Kind"

// Procedure paths, in the form /<service>/<method>.
const (
	GroupServiceAddMemberProcedure        = "/" + GroupServiceName + "/AddMember"
	GroupServiceGetMemberProcedure        = "/" + GroupServiceName + "/GetMember"
	GroupServiceListMemberGroupsProcedure = "/" + GroupServiceName + "/ListMemberGroups"
	GroupServiceJoinPlanProcedure         = "/" + GroupServiceName + "/JoinPlan"
	GroupServiceGetGroupProcedure         = "/" + GroupServiceName + "/GetGroup"
	GroupServiceListGroupsProcedure       = "/" + GroupServiceName + "/ListGroups"
	GroupServiceActivateGroupProcedure    = "/" + GroupServiceName + "/ActivateGroup"
	GroupServiceSetGroupStatusProcedure   = "/" + GroupServiceName + "/SetGroupStatus"
	GroupServiceDeleteGroupProcedure      = "/" + GroupServiceName + "/DeleteGroup"
	GroupServiceListRoundsProcedure       = "/" + GroupServiceName + "/ListRounds"
	GroupServiceSetRoundStatusProcedure   = "/" + GroupServiceName + "/SetRoundStatus"

	PaymentServiceListRoundPaymentsProcedure    = "/" + PaymentServiceName + "/ListRoundPayments"
	PaymentServiceMarkPaymentPaidProcedure      = "/" + PaymentServiceName + "/MarkPaymentPaid"
	PaymentServiceCheckRoundCompletionProcedure = "/" + PaymentServiceName + "/CheckRoundCompletion"
	PaymentServiceListLatePaymentsProcedure     = "/" + PaymentServiceName + "/ListLatePayments"
	PaymentServiceListPaymentsDueProcedure      = "/" + PaymentServiceName + "/ListPaymentsDue"
)

// Member is a person who can join groups.
type Member struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// Group is a savings circle.
type Group struct {
	ID                  string          `json:"id"`
	PlanID              string          `json:"plan_id"`
	Status              string          `json:"status"`
	BlockedFrom         string          `json:"blocked_from,omitempty"`
	Capacity            int             `json:"capacity"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	TotalPool           decimal.Decimal `json:"total_pool"`
	StartAt             time.Time       `json:"start_at"`
	EndAt               time.Time       `json:"end_at"`
	CreatedAt           time.Time       `json:"created_at"`
}

// Participant is a member's seat in a group.
type Participant struct {
	ID            string    `json:"id"`
	GroupID       string    `json:"group_id"`
	MemberID      string    `json:"member_id"`
	TurnSlot      int       `json:"turn_slot"`
	Role          string    `json:"role"`
	PaymentStatus string    `json:"payment_status"`
	ReceiveStatus string    `json:"receive_status"`
	JoinedAt      time.Time `json:"joined_at"`
}

// Round is one monthly payout cycle.
type Round struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	RoundNumber int             `json:"round_number"`
	WinnerID    string          `json:"winner_id"`
	Amount      decimal.Decimal `json:"amount"`
	StartAt     time.Time       `json:"start_at"`
	EndAt       time.Time       `json:"end_at"`
	Status      string          `json:"status"`
	BlockedFrom string          `json:"blocked_from,omitempty"`
	SettledAt   *time.Time      `json:"settled_at,omitempty"`
}

// Payment is an obligation to contribute to a round. Status is the
// read-time status, so a pending payment past due reads LATE.
type Payment struct {
	ID            string          `json:"id"`
	RoundID       string          `json:"round_id"`
	GroupID       string          `json:"group_id"`
	ParticipantID string          `json:"participant_id"`
	MemberID      string          `json:"member_id"`
	Amount        decimal.Decimal `json:"amount"`
	DueAt         time.Time       `json:"due_at"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

type AddMemberRequest struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type GetMemberRequest struct {
	MemberID string `json:"member_id"`
}

type GetMemberResponse struct {
	Member *Member `json:"member"`
}

type ListMemberGroupsRequest struct {
	MemberID string `json:"member_id"`
}

type ListMemberGroupsResponse struct {
	Participants []*Participant `json:"participants"`
}

type JoinPlanRequest struct {
	MemberID      string          `json:"member_id"`
	Contribution  decimal.Decimal `json:"contribution"`
	TermMonths    int             `json:"term_months"`
	RequestedSlot int             `json:"requested_slot,omitempty"`
}

type JoinPlanResponse struct {
	Group       *Group       `json:"group"`
	Participant *Participant `json:"participant"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group        *Group         `json:"group"`
	Participants []*Participant `json:"participants"`
}

type ListGroupsRequest struct {
	Status string `json:"status"`
}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type ActivateGroupRequest struct {
	GroupID string `json:"group_id"`
}

type ActivateGroupResponse struct {
	Group *Group `json:"group"`
}

type SetGroupStatusRequest struct {
	GroupID string `json:"group_id"`
	Status  string `json:"status"`
}

type SetGroupStatusResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type ListRoundsRequest struct {
	GroupID string `json:"group_id"`
}

type ListRoundsResponse struct {
	Rounds []*Round `json:"rounds"`
}

type SetRoundStatusRequest struct {
	RoundID string `json:"round_id"`
	Status  string `json:"status"`
}

type SetRoundStatusResponse struct {
	Round *Round `json:"round"`
}

type ListRoundPaymentsRequest struct {
	RoundID string `json:"round_id"`
}

type ListRoundPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

type MarkPaymentPaidRequest struct {
	PaymentID string `json:"payment_id"`
	MemberID  string `json:"member_id"`
}

type MarkPaymentPaidResponse struct {
	Payment *Payment `json:"payment"`
}

type CheckRoundCompletionRequest struct {
	RoundID string `json:"round_id"`
}

type CheckRoundCompletionResponse struct {
	Complete bool `json:"complete"`
}

type ListLatePaymentsRequest struct{}

type ListLatePaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

type ListPaymentsDueRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type ListPaymentsDueResponse struct {
	Payments []*Payment `json:"payments"`
}
