package rosca

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/mmynk/rosca/internal/models"
)

// AddMember provisions a member with an opening balance.
func (e *Engine) AddMember(ctx context.Context, name string, balance decimal.Decimal) (member *models.Member, err error) {
	ctx, span := e.startSpan(ctx, "AddMember")
	defer func() { finish(span, err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("member name is required")
	}
	if balance.IsNegative() {
		return nil, apperrors.Validation("opening balance must not be negative, got %s", balance)
	}

	now := e.clock()
	member = &models.Member{
		Name:      name,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.CreateMember(ctx, member); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("member_id", member.ID))
	slog.Info("Member added", "member_id", member.ID, "balance", member.Balance.String())
	return member, nil
}

// GetMember returns a member with its current balance.
func (e *Engine) GetMember(ctx context.Context, memberID string) (member *models.Member, err error) {
	ctx, span := e.startSpan(ctx, "GetMember", attribute.String("member_id", memberID))
	defer func() { finish(span, err) }()

	if memberID == "" {
		return nil, apperrors.Validation("member_id is required")
	}
	return e.store.GetMember(ctx, memberID)
}
