package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/rosca/internal/models"
	"github.com/mmynk/rosca/internal/rosca"
	"github.com/mmynk/rosca/pkg/api"
)

// GroupService implements the Connect GroupService: member provisioning,
// joining plans and administering group and round status.
type GroupService struct {
	engine *rosca.Engine
}

// NewGroupService creates a new GroupService backed by the engine.
func NewGroupService(engine *rosca.Engine) *GroupService {
	return &GroupService{engine: engine}
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// AddMember provisions a member with an opening balance.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "name", req.Msg.Name)

	member, err := s.engine.AddMember(ctx, req.Msg.Name, req.Msg.Balance)
	if err != nil {
		return nil, connectError("AddMember", err)
	}

	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(member)}), nil
}

// GetMember retrieves a member by ID.
func (s *GroupService) GetMember(ctx context.Context, req *connect.Request[api.GetMemberRequest]) (*connect.Response[api.GetMemberResponse], error) {
	member, err := s.engine.GetMember(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, connectError("GetMember", err)
	}
	return connect.NewResponse(&api.GetMemberResponse{Member: toAPIMember(member)}), nil
}

// ListMemberGroups lists the seats a member holds.
func (s *GroupService) ListMemberGroups(ctx context.Context, req *connect.Request[api.ListMemberGroupsRequest]) (*connect.Response[api.ListMemberGroupsResponse], error) {
	participants, err := s.engine.ListMemberGroups(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, connectError("ListMemberGroups", err)
	}
	return connect.NewResponse(&api.ListMemberGroupsResponse{Participants: toAPIParticipants(participants)}), nil
}

// JoinPlan seats a member in a group of the requested plan.
func (s *GroupService) JoinPlan(ctx context.Context, req *connect.Request[api.JoinPlanRequest]) (*connect.Response[api.JoinPlanResponse], error) {
	slog.Info("JoinPlan request received",
		"member_id", req.Msg.MemberID,
		"contribution", req.Msg.Contribution.String(),
		"term_months", req.Msg.TermMonths,
		"requested_slot", req.Msg.RequestedSlot,
	)

	result, err := s.engine.Join(ctx, rosca.JoinRequest{
		MemberID:      req.Msg.MemberID,
		Contribution:  req.Msg.Contribution,
		TermMonths:    req.Msg.TermMonths,
		RequestedSlot: req.Msg.RequestedSlot,
	})
	if err != nil {
		return nil, connectError("JoinPlan", err)
	}

	return connect.NewResponse(&api.JoinPlanResponse{
		Group:       toAPIGroup(result.Group),
		Participant: toAPIParticipant(result.Participant),
	}), nil
}

// GetGroup retrieves a group with its participants.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	group, participants, err := s.engine.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connectError("GetGroup", err)
	}

	return connect.NewResponse(&api.GetGroupResponse{
		Group:        toAPIGroup(group),
		Participants: toAPIParticipants(participants),
	}), nil
}

// ListGroups lists the groups in a status.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	status, err := models.ParseGroupStatus(req.Msg.Status)
	if err != nil {
		return nil, connectError("ListGroups", err)
	}

	groups, err := s.engine.ListGroups(ctx, status)
	if err != nil {
		return nil, connectError("ListGroups", err)
	}

	slog.Info("ListGroups successful", "status", status, "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: toAPIGroups(groups)}), nil
}

// ActivateGroup approves a full group and schedules its rounds.
func (s *GroupService) ActivateGroup(ctx context.Context, req *connect.Request[api.ActivateGroupRequest]) (*connect.Response[api.ActivateGroupResponse], error) {
	slog.Info("ActivateGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.engine.ActivateGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connectError("ActivateGroup", err)
	}
	return connect.NewResponse(&api.ActivateGroupResponse{Group: toAPIGroup(group)}), nil
}

// SetGroupStatus blocks, unblocks or activates a group.
func (s *GroupService) SetGroupStatus(ctx context.Context, req *connect.Request[api.SetGroupStatusRequest]) (*connect.Response[api.SetGroupStatusResponse], error) {
	slog.Info("SetGroupStatus request received", "group_id", req.Msg.GroupID, "status", req.Msg.Status)

	status, err := models.ParseGroupStatus(req.Msg.Status)
	if err != nil {
		return nil, connectError("SetGroupStatus", err)
	}

	group, err := s.engine.SetGroupStatus(ctx, req.Msg.GroupID, status)
	if err != nil {
		return nil, connectError("SetGroupStatus", err)
	}
	return connect.NewResponse(&api.SetGroupStatusResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup removes a group that is not active.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.engine.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, connectError("DeleteGroup", err)
	}
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// ListRounds lists a group's rounds in order.
func (s *GroupService) ListRounds(ctx context.Context, req *connect.Request[api.ListRoundsRequest]) (*connect.Response[api.ListRoundsResponse], error) {
	rounds, err := s.engine.ListRounds(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connectError("ListRounds", err)
	}
	return connect.NewResponse(&api.ListRoundsResponse{Rounds: toAPIRounds(rounds)}), nil
}

// SetRoundStatus opens, blocks or unblocks a round.
func (s *GroupService) SetRoundStatus(ctx context.Context, req *connect.Request[api.SetRoundStatusRequest]) (*connect.Response[api.SetRoundStatusResponse], error) {
	slog.Info("SetRoundStatus request received", "round_id", req.Msg.RoundID, "status", req.Msg.Status)

	status, err := models.ParseRoundStatus(req.Msg.Status)
	if err != nil {
		return nil, connectError("SetRoundStatus", err)
	}

	round, err := s.engine.SetRoundStatus(ctx, req.Msg.RoundID, status)
	if err != nil {
		return nil, connectError("SetRoundStatus", err)
	}
	return connect.NewResponse(&api.SetRoundStatusResponse{Round: toAPIRound(round)}), nil
}
