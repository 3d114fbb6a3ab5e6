package api

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecKeepsDecimalsExact(t *testing.T) {
	var codec Codec
	assert.Equal(t, "json", codec.Name())

	data, err := codec.Marshal(&JoinPlanRequest{
		MemberID:     "m1",
		Contribution: decimal.RequireFromString("2000.10"),
		TermMonths:   5,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"member_id":"m1","contribution":"2000.1","term_months":5}`, string(data))

	var req JoinPlanRequest
	require.NoError(t, codec.Unmarshal(data, &req))
	assert.True(t, req.Contribution.Equal(decimal.RequireFromString("2000.10")))
}

func TestCodecEmptyBody(t *testing.T) {
	var req ListLatePaymentsRequest
	require.NoError(t, Codec{}.Unmarshal(nil, &req))

	var bad GetGroupRequest
	assert.Error(t, Codec{}.Unmarshal([]byte("{"), &bad))
}
