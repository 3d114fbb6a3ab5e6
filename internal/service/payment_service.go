package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/rosca/internal/rosca"
	"github.com/mmynk/rosca/pkg/api"
)

// PaymentService implements the Connect PaymentService: recording payments
// and listing obligations.
type PaymentService struct {
	engine *rosca.Engine
}

// NewPaymentService creates a new PaymentService backed by the engine.
func NewPaymentService(engine *rosca.Engine) *PaymentService {
	return &PaymentService{engine: engine}
}

var _ api.PaymentServiceHandler = (*PaymentService)(nil)

// ListRoundPayments lists the obligations of a round.
func (s *PaymentService) ListRoundPayments(ctx context.Context, req *connect.Request[api.ListRoundPaymentsRequest]) (*connect.Response[api.ListRoundPaymentsResponse], error) {
	payments, err := s.engine.ListRoundPayments(ctx, req.Msg.RoundID)
	if err != nil {
		return nil, connectError("ListRoundPayments", err)
	}
	return connect.NewResponse(&api.ListRoundPaymentsResponse{Payments: toAPIPayments(payments)}), nil
}

// MarkPaymentPaid records a member paying an obligation.
func (s *PaymentService) MarkPaymentPaid(ctx context.Context, req *connect.Request[api.MarkPaymentPaidRequest]) (*connect.Response[api.MarkPaymentPaidResponse], error) {
	slog.Info("MarkPaymentPaid request received", "payment_id", req.Msg.PaymentID, "member_id", req.Msg.MemberID)

	payment, err := s.engine.MarkPaid(ctx, req.Msg.PaymentID, req.Msg.MemberID)
	if err != nil {
		return nil, connectError("MarkPaymentPaid", err)
	}
	return connect.NewResponse(&api.MarkPaymentPaidResponse{Payment: toAPIPayment(payment)}), nil
}

// CheckRoundCompletion settles a fully paid round.
func (s *PaymentService) CheckRoundCompletion(ctx context.Context, req *connect.Request[api.CheckRoundCompletionRequest]) (*connect.Response[api.CheckRoundCompletionResponse], error) {
	complete, err := s.engine.CheckRoundCompletion(ctx, req.Msg.RoundID)
	if err != nil {
		return nil, connectError("CheckRoundCompletion", err)
	}
	return connect.NewResponse(&api.CheckRoundCompletionResponse{Complete: complete}), nil
}

// ListLatePayments lists pending obligations past their due date.
func (s *PaymentService) ListLatePayments(ctx context.Context, req *connect.Request[api.ListLatePaymentsRequest]) (*connect.Response[api.ListLatePaymentsResponse], error) {
	payments, err := s.engine.ListLatePayments(ctx)
	if err != nil {
		return nil, connectError("ListLatePayments", err)
	}

	slog.Info("ListLatePayments successful", "count", len(payments))
	return connect.NewResponse(&api.ListLatePaymentsResponse{Payments: toAPIPayments(payments)}), nil
}

// ListPaymentsDue lists obligations falling due in a time range.
func (s *PaymentService) ListPaymentsDue(ctx context.Context, req *connect.Request[api.ListPaymentsDueRequest]) (*connect.Response[api.ListPaymentsDueResponse], error) {
	payments, err := s.engine.ListPaymentsDue(ctx, req.Msg.From, req.Msg.To)
	if err != nil {
		return nil, connectError("ListPaymentsDue", err)
	}
	return connect.NewResponse(&api.ListPaymentsDueResponse{Payments: toAPIPayments(payments)}), nil
}
