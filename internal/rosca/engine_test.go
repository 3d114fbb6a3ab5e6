package rosca

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/rosca/internal/apperrors"
	"github.com/mmynk/rosca/internal/metrics"
	"github.com/mmynk/rosca/internal/models"
	"github.com/mmynk/rosca/internal/storage/sqlstore"
)

var start = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	engine *Engine
	store  *sqlstore.Store
	clock  *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f, closeStore := newFixtureAt(t, filepath.Join(t.TempDir(), "rosca.db"))
	t.Cleanup(closeStore)
	return f
}

// newFixtureAt opens a store at path. The caller closes it.
func newFixtureAt(t require.TestingT, path string) (*fixture, func()) {
	store, err := sqlstore.New(path)
	require.NoError(t, err)

	clock := &testClock{now: start}
	f := &fixture{
		engine: New(store, WithClock(clock.Now), WithMetrics(metrics.New())),
		store:  store,
		clock:  clock,
	}
	return f, func() { store.Close() }
}

func (f *fixture) addMember(t require.TestingT, name string, balance int64) *models.Member {
	m, err := f.engine.AddMember(context.Background(), name, decimal.NewFromInt(balance))
	require.NoError(t, err)
	return m
}

func (f *fixture) join(t require.TestingT, member *models.Member, contribution int64, term, slot int) *JoinResult {
	res, err := f.engine.Join(context.Background(), JoinRequest{
		MemberID:      member.ID,
		Contribution:  decimal.NewFromInt(contribution),
		TermMonths:    term,
		RequestedSlot: slot,
	})
	require.NoError(t, err)
	return res
}

// activeGroup seats capacity members with the given balance and activates
// the group. Members are returned in turn slot order.
func (f *fixture) activeGroup(t *testing.T, capacity int, contribution, balance int64) (*models.Group, []*models.Member) {
	t.Helper()
	ctx := context.Background()

	members := make([]*models.Member, capacity)
	var group *models.Group
	for i := range members {
		members[i] = f.addMember(t, fmt.Sprintf("member-%d", i+1), balance)
		res := f.join(t, members[i], contribution, capacity, i+1)
		group = res.Group
	}
	require.Equal(t, models.GroupPendingApproval, group.Status)

	group, err := f.engine.ActivateGroup(ctx, group.ID)
	require.NoError(t, err)
	return group, members
}

func (f *fixture) roundPayments(t *testing.T, groupID string, number int) (*models.Round, []*models.Payment) {
	t.Helper()
	ctx := context.Background()

	rounds, err := f.engine.ListRounds(ctx, groupID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rounds), number)
	round := rounds[number-1]

	payments, err := f.engine.ListRoundPayments(ctx, round.ID)
	require.NoError(t, err)
	return round, payments
}

// payAll pays every obligation of a round on behalf of its member.
func (f *fixture) payAll(t *testing.T, payments []*models.Payment) {
	t.Helper()
	for _, p := range payments {
		_, err := f.engine.MarkPaid(context.Background(), p.ID, p.MemberID)
		require.NoError(t, err)
	}
}

func (f *fixture) balance(t *testing.T, memberID string) decimal.Decimal {
	t.Helper()
	m, err := f.engine.GetMember(context.Background(), memberID)
	require.NoError(t, err)
	return m.Balance
}

func requireKind(t *testing.T, err error, kind *apperrors.Error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "expected %s, got %v", kind.Kind, err)
}

func TestAddMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.engine.AddMember(ctx, "  Amina ", decimal.RequireFromString("1500.50"))
	require.NoError(t, err)
	assert.Equal(t, "Amina", m.Name)

	got, err := f.engine.GetMember(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("1500.50")))

	_, err = f.engine.AddMember(ctx, "", decimal.Zero)
	requireKind(t, err, apperrors.ErrValidation)
	_, err = f.engine.AddMember(ctx, "Kofi", decimal.NewFromInt(-1))
	requireKind(t, err, apperrors.ErrValidation)
	_, err = f.engine.GetMember(ctx, "missing")
	requireKind(t, err, apperrors.ErrNotFound)
}
