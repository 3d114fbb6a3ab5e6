package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// GroupServiceHandler is implemented by the group RPC service.
type GroupServiceHandler interface {
	AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error)
	GetMember(context.Context, *connect.Request[GetMemberRequest]) (*connect.Response[GetMemberResponse], error)
	ListMemberGroups(context.Context, *connect.Request[ListMemberGroupsRequest]) (*connect.Response[ListMemberGroupsResponse], error)
	JoinPlan(context.Context, *connect.Request[JoinPlanRequest]) (*connect.Response[JoinPlanResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	ActivateGroup(context.Context, *connect.Request[ActivateGroupRequest]) (*connect.Response[ActivateGroupResponse], error)
	SetGroupStatus(context.Context, *connect.Request[SetGroupStatusRequest]) (*connect.Response[SetGroupStatusResponse], error)
	DeleteGroup(context.Context, *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error)
	ListRounds(context.Context, *connect.Request[ListRoundsRequest]) (*connect.Response[ListRoundsResponse], error)
	SetRoundStatus(context.Context, *connect.Request[SetRoundStatusRequest]) (*connect.Response[SetRoundStatusResponse], error)
}

// PaymentServiceHandler is implemented by the payment RPC service.
type PaymentServiceHandler interface {
	ListRoundPayments(context.Context, *connect.Request[ListRoundPaymentsRequest]) (*connect.Response[ListRoundPaymentsResponse], error)
	MarkPaymentPaid(context.Context, *connect.Request[MarkPaymentPaidRequest]) (*connect.Response[MarkPaymentPaidResponse], error)
	CheckRoundCompletion(context.Context, *connect.Request[CheckRoundCompletionRequest]) (*connect.Response[CheckRoundCompletionResponse], error)
	ListLatePayments(context.Context, *connect.Request[ListLatePaymentsRequest]) (*connect.Response[ListLatePaymentsResponse], error)
	ListPaymentsDue(context.Context, *connect.Request[ListPaymentsDueRequest]) (*connect.Response[ListPaymentsDueResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler for svc. It returns the path
// prefix to mount the handler on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	mux := http.NewServeMux()
	mux.Handle(GroupServiceAddMemberProcedure, connect.NewUnaryHandler(GroupServiceAddMemberProcedure, svc.AddMember, opts...))
	mux.Handle(GroupServiceGetMemberProcedure, connect.NewUnaryHandler(GroupServiceGetMemberProcedure, svc.GetMember, opts...))
	mux.Handle(GroupServiceListMemberGroupsProcedure, connect.NewUnaryHandler(GroupServiceListMemberGroupsProcedure, svc.ListMemberGroups, opts...))
	mux.Handle(GroupServiceJoinPlanProcedure, connect.NewUnaryHandler(GroupServiceJoinPlanProcedure, svc.JoinPlan, opts...))
	mux.Handle(GroupServiceGetGroupProcedure, connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(GroupServiceListGroupsProcedure, connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...))
	mux.Handle(GroupServiceActivateGroupProcedure, connect.NewUnaryHandler(GroupServiceActivateGroupProcedure, svc.ActivateGroup, opts...))
	mux.Handle(GroupServiceSetGroupStatusProcedure, connect.NewUnaryHandler(GroupServiceSetGroupStatusProcedure, svc.SetGroupStatus, opts...))
	mux.Handle(GroupServiceDeleteGroupProcedure, connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...))
	mux.Handle(GroupServiceListRoundsProcedure, connect.NewUnaryHandler(GroupServiceListRoundsProcedure, svc.ListRounds, opts...))
	mux.Handle(GroupServiceSetRoundStatusProcedure, connect.NewUnaryHandler(GroupServiceSetRoundStatusProcedure, svc.SetRoundStatus, opts...))
	return "/" + GroupServiceName + "/", mux
}

// NewPaymentServiceHandler builds an HTTP handler for svc. It returns the
// path prefix to mount the handler on.
func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	mux := http.NewServeMux()
	mux.Handle(PaymentServiceListRoundPaymentsProcedure, connect.NewUnaryHandler(PaymentServiceListRoundPaymentsProcedure, svc.ListRoundPayments, opts...))
	mux.Handle(PaymentServiceMarkPaymentPaidProcedure, connect.NewUnaryHandler(PaymentServiceMarkPaymentPaidProcedure, svc.MarkPaymentPaid, opts...))
	mux.Handle(PaymentServiceCheckRoundCompletionProcedure, connect.NewUnaryHandler(PaymentServiceCheckRoundCompletionProcedure, svc.CheckRoundCompletion, opts...))
	mux.Handle(PaymentServiceListLatePaymentsProcedure, connect.NewUnaryHandler(PaymentServiceListLatePaymentsProcedure, svc.ListLatePayments, opts...))
	mux.Handle(PaymentServiceListPaymentsDueProcedure, connect.NewUnaryHandler(PaymentServiceListPaymentsDueProcedure, svc.ListPaymentsDue, opts...))
	return "/" + PaymentServiceName + "/", mux
}

func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}
