package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/rosca/internal/auth"
	"github.com/mmynk/rosca/pkg/api"
)

const usage = `usage: roscactl [-addr URL] [-token JWT] <command> [flags]

commands:
  member add -name NAME -balance AMOUNT
  member get -id MEMBER
  member groups -id MEMBER
  join -member MEMBER -contribution AMOUNT -term MONTHS [-slot N]
  group get -id GROUP
  group list -status STATUS
  group activate -id GROUP
  group status -id GROUP -to STATUS
  group delete -id GROUP
  rounds -group GROUP
  round status -id ROUND -to STATUS
  payments -round ROUND
  pay -payment PAYMENT -member MEMBER
  check -round ROUND
  late
  due -from RFC3339 -to RFC3339
  token -secret SECRET -operator NAME [-ttl DURATION]`

var errUsage = errors.New("usage")

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

type cli struct {
	groups   *api.GroupServiceClient
	payments *api.PaymentServiceClient
	out      io.Writer
}

func run(ctx context.Context, args []string, out io.Writer, lookup EnvLookup) error {
	fs := flag.NewFlagSet("roscactl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.String("addr", envOrDefault(lookup, "ROSCA_ADDR", "http://localhost:8080"), "server base URL")
	token := fs.String("token", envOrDefault(lookup, "ROSCA_TOKEN", ""), "operator bearer token")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return errUsage
	}

	if rest[0] == "token" {
		return mintToken(rest[1:], out)
	}

	var opts []connect.ClientOption
	if *token != "" {
		opts = append(opts, connect.WithInterceptors(bearer(*token)))
	}
	c := &cli{
		groups:   api.NewGroupServiceClient(http.DefaultClient, *addr, opts...),
		payments: api.NewPaymentServiceClient(http.DefaultClient, *addr, opts...),
		out:      out,
	}

	switch rest[0] {
	case "member":
		return c.member(ctx, rest[1:])
	case "join":
		return c.join(ctx, rest[1:])
	case "group":
		return c.group(ctx, rest[1:])
	case "rounds":
		return c.rounds(ctx, rest[1:])
	case "round":
		return c.round(ctx, rest[1:])
	case "payments":
		return c.roundPayments(ctx, rest[1:])
	case "pay":
		return c.pay(ctx, rest[1:])
	case "check":
		return c.check(ctx, rest[1:])
	case "late":
		resp, err := c.payments.ListLatePayments(ctx, connect.NewRequest(&api.ListLatePaymentsRequest{}))
		if err != nil {
			return err
		}
		return c.print(resp.Msg)
	case "due":
		return c.due(ctx, rest[1:])
	default:
		return fmt.Errorf("unknown command %q: %w", rest[0], errUsage)
	}
}

// bearer attaches the operator token to every call.
func bearer(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}
}

func (c *cli) print(msg any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(msg)
}

func (c *cli) member(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	fs := newFlagSet("member " + args[0])
	switch args[0] {
	case "add":
		name := fs.String("name", "", "member name")
		balance := fs.String("balance", "0", "opening balance")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		amount, err := decimal.NewFromString(*balance)
		if err != nil {
			return fmt.Errorf("invalid balance %q: %w", *balance, err)
		}
		resp, err := c.groups.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{Name: *name, Balance: amount}))
		if err != nil {
			return err
		}
		return c.print(resp.Msg.Member)
	case "get":
		id := fs.String("id", "", "member ID")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		resp, err := c.groups.GetMember(ctx, connect.NewRequest(&api.GetMemberRequest{MemberID: *id}))
		if err != nil {
			return err
		}
		return c.print(resp.Msg.Member)
	case "groups":
		id := fs.String("id", "", "member ID")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		resp, err := c.groups.ListMemberGroups(ctx, connect.NewRequest(&api.ListMemberGroupsRequest{MemberID: *id}))
		if err != nil {
			return err
		}
		return c.print(resp.Msg.Participants)
	default:
		return fmt.Errorf("unknown member command %q: %w", args[0], errUsage)
	}
}

func (c *cli) join(ctx context.Context, args []string) error {
	fs := newFlagSet("join")
	member := fs.String("member", "", "member ID")
	contribution := fs.String("contribution", "", "monthly contribution")
	term := fs.Int("term", 0, "term in months")
	slot := fs.Int("slot", 0, "requested turn slot (0 = any)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(*contribution)
	if err != nil {
		return fmt.Errorf("invalid contribution %q: %w", *contribution, err)
	}

	resp, err := c.groups.JoinPlan(ctx, connect.NewRequest(&api.JoinPlanRequest{
		MemberID:      *member,
		Contribution:  amount,
		TermMonths:    *term,
		RequestedSlot: *slot,
	}))
	if err != nil {
		return err
	}
	return c.print(resp.Msg)
}

func (c *cli) group(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	fs := newFlagSet("group " + args[0])
	id := fs.String("id", "", "group ID")
	switch args[0] {
	case "get":
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		resp, err := c.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: *id}))
		if err != nil {
			return err
		}
		return c.print(resp.Msg)
	case "list":
		status := fs.String("status", "WAITING_FOR_MEMBERS", "group status")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		resp, err := c.groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{Status: *status}))
		if err != nil {
			return err
		}
		return c.print(resp.Msg.Groups)
	case "activate":
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		resp, err := c.groups.ActivateGroup(ctx, connect.NewRequest(&api.ActivateGroupRequest{GroupID: *id}))
		if err != nil {
			return err
		}
		return c.print(resp.Msg.Group)
	case "status":
		to := fs.String("to", "", "target status")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		resp, err := c.groups.SetGroupStatus(ctx, connect.NewRequest(&api.SetGroupStatusRequest{GroupID: *id, Status: *to}))
		if err != nil {
			return err
		}
		return c.print(resp.Msg.Group)
	case "delete":
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if _, err := c.groups.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupID: *id})); err != nil {
			return err
		}
		_, err := fmt.Fprintf(c.out, "deleted %s\n", *id)
		return err
	default:
		return fmt.Errorf("unknown group command %q: %w", args[0], errUsage)
	}
}

func (c *cli) rounds(ctx context.Context, args []string) error {
	fs := newFlagSet("rounds")
	group := fs.String("group", "", "group ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	resp, err := c.groups.ListRounds(ctx, connect.NewRequest(&api.ListRoundsRequest{GroupID: *group}))
	if err != nil {
		return err
	}
	return c.print(resp.Msg.Rounds)
}

func (c *cli) round(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "status" {
		return errUsage
	}
	fs := newFlagSet("round status")
	id := fs.String("id", "", "round ID")
	to := fs.String("to", "", "target status")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	resp, err := c.groups.SetRoundStatus(ctx, connect.NewRequest(&api.SetRoundStatusRequest{RoundID: *id, Status: *to}))
	if err != nil {
		return err
	}
	return c.print(resp.Msg.Round)
}

func (c *cli) roundPayments(ctx context.Context, args []string) error {
	fs := newFlagSet("payments")
	round := fs.String("round", "", "round ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	resp, err := c.payments.ListRoundPayments(ctx, connect.NewRequest(&api.ListRoundPaymentsRequest{RoundID: *round}))
	if err != nil {
		return err
	}
	return c.print(resp.Msg.Payments)
}

func (c *cli) pay(ctx context.Context, args []string) error {
	fs := newFlagSet("pay")
	payment := fs.String("payment", "", "payment ID")
	member := fs.String("member", "", "paying member ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	resp, err := c.payments.MarkPaymentPaid(ctx, connect.NewRequest(&api.MarkPaymentPaidRequest{PaymentID: *payment, MemberID: *member}))
	if err != nil {
		return err
	}
	return c.print(resp.Msg.Payment)
}

func (c *cli) check(ctx context.Context, args []string) error {
	fs := newFlagSet("check")
	round := fs.String("round", "", "round ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	resp, err := c.payments.CheckRoundCompletion(ctx, connect.NewRequest(&api.CheckRoundCompletionRequest{RoundID: *round}))
	if err != nil {
		return err
	}
	return c.print(resp.Msg)
}

func (c *cli) due(ctx context.Context, args []string) error {
	fs := newFlagSet("due")
	from := fs.String("from", "", "window start (RFC3339)")
	to := fs.String("to", "", "window end (RFC3339)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	start, err := time.Parse(time.RFC3339, *from)
	if err != nil {
		return fmt.Errorf("invalid -from: %w", err)
	}
	end, err := time.Parse(time.RFC3339, *to)
	if err != nil {
		return fmt.Errorf("invalid -to: %w", err)
	}
	resp, err := c.payments.ListPaymentsDue(ctx, connect.NewRequest(&api.ListPaymentsDueRequest{From: start, To: end}))
	if err != nil {
		return err
	}
	return c.print(resp.Msg.Payments)
}

func mintToken(args []string, out io.Writer) error {
	fs := newFlagSet("token")
	secret := fs.String("secret", "", "JWT signing secret")
	operator := fs.String("operator", "", "operator name")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *secret == "" || *operator == "" {
		return fmt.Errorf("-secret and -operator are required: %w", errUsage)
	}

	token, err := auth.NewJWTManager(*secret, *ttl).Generate(*operator)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func envOrDefault(lookup EnvLookup, key, fallback string) string {
	if lookup == nil {
		return fallback
	}
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}
