package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// GroupServiceClient calls a GroupService.
type GroupServiceClient struct {
	addMember        *connect.Client[AddMemberRequest, AddMemberResponse]
	getMember        *connect.Client[GetMemberRequest, GetMemberResponse]
	listMemberGroups *connect.Client[ListMemberGroupsRequest, ListMemberGroupsResponse]
	joinPlan         *connect.Client[JoinPlanRequest, JoinPlanResponse]
	getGroup         *connect.Client[GetGroupRequest, GetGroupResponse]
	listGroups       *connect.Client[ListGroupsRequest, ListGroupsResponse]
	activateGroup    *connect.Client[ActivateGroupRequest, ActivateGroupResponse]
	setGroupStatus   *connect.Client[SetGroupStatusRequest, SetGroupStatusResponse]
	deleteGroup      *connect.Client[DeleteGroupRequest, DeleteGroupResponse]
	listRounds       *connect.Client[ListRoundsRequest, ListRoundsResponse]
	setRoundStatus   *connect.Client[SetRoundStatusRequest, SetRoundStatusResponse]
}

// NewGroupServiceClient creates a client for the GroupService at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &GroupServiceClient{
		addMember:        connect.NewClient[AddMemberRequest, AddMemberResponse](httpClient, baseURL+GroupServiceAddMemberProcedure, opts...),
		getMember:        connect.NewClient[GetMemberRequest, GetMemberResponse](httpClient, baseURL+GroupServiceGetMemberProcedure, opts...),
		listMemberGroups: connect.NewClient[ListMemberGroupsRequest, ListMemberGroupsResponse](httpClient, baseURL+GroupServiceListMemberGroupsProcedure, opts...),
		joinPlan:         connect.NewClient[JoinPlanRequest, JoinPlanResponse](httpClient, baseURL+GroupServiceJoinPlanProcedure, opts...),
		getGroup:         connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:       connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		activateGroup:    connect.NewClient[ActivateGroupRequest, ActivateGroupResponse](httpClient, baseURL+GroupServiceActivateGroupProcedure, opts...),
		setGroupStatus:   connect.NewClient[SetGroupStatusRequest, SetGroupStatusResponse](httpClient, baseURL+GroupServiceSetGroupStatusProcedure, opts...),
		deleteGroup:      connect.NewClient[DeleteGroupRequest, DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
		listRounds:       connect.NewClient[ListRoundsRequest, ListRoundsResponse](httpClient, baseURL+GroupServiceListRoundsProcedure, opts...),
		setRoundStatus:   connect.NewClient[SetRoundStatusRequest, SetRoundStatusResponse](httpClient, baseURL+GroupServiceSetRoundStatusProcedure, opts...),
	}
}

func (c *GroupServiceClient) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetMember(ctx context.Context, req *connect.Request[GetMemberRequest]) (*connect.Response[GetMemberResponse], error) {
	return c.getMember.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListMemberGroups(ctx context.Context, req *connect.Request[ListMemberGroupsRequest]) (*connect.Response[ListMemberGroupsResponse], error) {
	return c.listMemberGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) JoinPlan(ctx context.Context, req *connect.Request[JoinPlanRequest]) (*connect.Response[JoinPlanResponse], error) {
	return c.joinPlan.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ActivateGroup(ctx context.Context, req *connect.Request[ActivateGroupRequest]) (*connect.Response[ActivateGroupResponse], error) {
	return c.activateGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) SetGroupStatus(ctx context.Context, req *connect.Request[SetGroupStatusRequest]) (*connect.Response[SetGroupStatusResponse], error) {
	return c.setGroupStatus.CallUnary(ctx, req)
}

func (c *GroupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListRounds(ctx context.Context, req *connect.Request[ListRoundsRequest]) (*connect.Response[ListRoundsResponse], error) {
	return c.listRounds.CallUnary(ctx, req)
}

func (c *GroupServiceClient) SetRoundStatus(ctx context.Context, req *connect.Request[SetRoundStatusRequest]) (*connect.Response[SetRoundStatusResponse], error) {
	return c.setRoundStatus.CallUnary(ctx, req)
}

// PaymentServiceClient calls a PaymentService.
type PaymentServiceClient struct {
	listRoundPayments    *connect.Client[ListRoundPaymentsRequest, ListRoundPaymentsResponse]
	markPaymentPaid      *connect.Client[MarkPaymentPaidRequest, MarkPaymentPaidResponse]
	checkRoundCompletion *connect.Client[CheckRoundCompletionRequest, CheckRoundCompletionResponse]
	listLatePayments     *connect.Client[ListLatePaymentsRequest, ListLatePaymentsResponse]
	listPaymentsDue      *connect.Client[ListPaymentsDueRequest, ListPaymentsDueResponse]
}

// NewPaymentServiceClient creates a client for the PaymentService at baseURL.
func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PaymentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &PaymentServiceClient{
		listRoundPayments:    connect.NewClient[ListRoundPaymentsRequest, ListRoundPaymentsResponse](httpClient, baseURL+PaymentServiceListRoundPaymentsProcedure, opts...),
		markPaymentPaid:      connect.NewClient[MarkPaymentPaidRequest, MarkPaymentPaidResponse](httpClient, baseURL+PaymentServiceMarkPaymentPaidProcedure, opts...),
		checkRoundCompletion: connect.NewClient[CheckRoundCompletionRequest, CheckRoundCompletionResponse](httpClient, baseURL+PaymentServiceCheckRoundCompletionProcedure, opts...),
		listLatePayments:     connect.NewClient[ListLatePaymentsRequest, ListLatePaymentsResponse](httpClient, baseURL+PaymentServiceListLatePaymentsProcedure, opts...),
		listPaymentsDue:      connect.NewClient[ListPaymentsDueRequest, ListPaymentsDueResponse](httpClient, baseURL+PaymentServiceListPaymentsDueProcedure, opts...),
	}
}

func (c *PaymentServiceClient) ListRoundPayments(ctx context.Context, req *connect.Request[ListRoundPaymentsRequest]) (*connect.Response[ListRoundPaymentsResponse], error) {
	return c.listRoundPayments.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) MarkPaymentPaid(ctx context.Context, req *connect.Request[MarkPaymentPaidRequest]) (*connect.Response[MarkPaymentPaidResponse], error) {
	return c.markPaymentPaid.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) CheckRoundCompletion(ctx context.Context, req *connect.Request[CheckRoundCompletionRequest]) (*connect.Response[CheckRoundCompletionResponse], error) {
	return c.checkRoundCompletion.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) ListLatePayments(ctx context.Context, req *connect.Request[ListLatePaymentsRequest]) (*connect.Response[ListLatePaymentsResponse], error) {
	return c.listLatePayments.CallUnary(ctx, req)
}

func (c *PaymentServiceClient) ListPaymentsDue(ctx context.Context, req *connect.Request[ListPaymentsDueRequest]) (*connect.Response[ListPaymentsDueResponse], error) {
	return c.listPaymentsDue.CallUnary(ctx, req)
}
