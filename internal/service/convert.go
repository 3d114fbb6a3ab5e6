package service

import (
	"github.com/mmynk/rosca/internal/models"
	"github.com/mmynk/rosca/pkg/api"
)

func toAPIMember(m *models.Member) *api.Member {
	return &api.Member{
		ID:        m.ID,
		Name:      m.Name,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{
		ID:                  g.ID,
		PlanID:              g.PlanID,
		Status:              string(g.Status),
		BlockedFrom:         string(g.BlockedFrom),
		Capacity:            g.Capacity,
		MonthlyContribution: g.MonthlyContribution,
		TotalPool:           g.TotalPool,
		StartAt:             g.StartAt,
		EndAt:               g.EndAt,
		CreatedAt:           g.CreatedAt,
	}
}

func toAPIGroups(groups []*models.Group) []*api.Group {
	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}
	return out
}

func toAPIParticipant(p *models.Participant) *api.Participant {
	return &api.Participant{
		ID:            p.ID,
		GroupID:       p.GroupID,
		MemberID:      p.MemberID,
		TurnSlot:      p.TurnSlot,
		Role:          string(p.Role),
		PaymentStatus: string(p.PaymentStatus),
		ReceiveStatus: string(p.ReceiveStatus),
		JoinedAt:      p.JoinedAt,
	}
}

func toAPIParticipants(participants []*models.Participant) []*api.Participant {
	out := make([]*api.Participant, len(participants))
	for i, p := range participants {
		out[i] = toAPIParticipant(p)
	}
	return out
}

func toAPIRound(r *models.Round) *api.Round {
	return &api.Round{
		ID:          r.ID,
		GroupID:     r.GroupID,
		RoundNumber: r.RoundNumber,
		WinnerID:    r.WinnerID,
		Amount:      r.Amount,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		Status:      string(r.Status),
		BlockedFrom: string(r.BlockedFrom),
		SettledAt:   r.SettledAt,
	}
}

func toAPIRounds(rounds []*models.Round) []*api.Round {
	out := make([]*api.Round, len(rounds))
	for i, r := range rounds {
		out[i] = toAPIRound(r)
	}
	return out
}

func toAPIPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:            p.ID,
		RoundID:       p.RoundID,
		GroupID:       p.GroupID,
		ParticipantID: p.ParticipantID,
		MemberID:      p.MemberID,
		Amount:        p.Amount,
		DueAt:         p.DueAt,
		Status:        string(p.Status),
		PaidAt:        p.PaidAt,
	}
}

func toAPIPayments(payments []*models.Payment) []*api.Payment {
	out := make([]*api.Payment, len(payments))
	for i, p := range payments {
		out[i] = toAPIPayment(p)
	}
	return out
}
