package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loansi/scoring-engine/internal/domain/model"
)

func TestGenerateAmortizationSchedule(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	schedule := model.GenerateAmortizationSchedule(1_000_000, 0.02, 6, start)

	require.Len(t, schedule, 6)

	assert.Equal(t, 1, schedule[0].Period)
	assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), schedule[0].DueDate)
	assert.Equal(t, int64(20_000), schedule[0].Interest)
	assert.Equal(t, int64(158_526), schedule[0].Principal)

	// Balance declines strictly and reaches exactly zero.
	prev := int64(1_000_000)
	var paidPrincipal int64
	for _, entry := range schedule {
		assert.Less(t, entry.RemainingBalance, prev)
		assert.Equal(t, entry.Total, entry.Principal+entry.Interest)
		prev = entry.RemainingBalance
		paidPrincipal += entry.Principal
	}
	assert.Zero(t, schedule[5].RemainingBalance)
	assert.Equal(t, int64(1_000_000), paidPrincipal)
}

func TestGenerateAmortizationScheduleLastPeriodAbsorbsRounding(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	schedule := model.GenerateAmortizationSchedule(999_999, 0.018204, 11, start)

	require.Len(t, schedule, 11)
	last := schedule[len(schedule)-1]
	assert.Zero(t, last.RemainingBalance)
	assert.Equal(t, last.Principal, schedule[len(schedule)-2].RemainingBalance)
}

func TestGenerateAmortizationScheduleZeroRate(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	schedule := model.GenerateAmortizationSchedule(1_200_000, 0, 12, start)

	require.Len(t, schedule, 12)
	for _, entry := range schedule {
		assert.Zero(t, entry.Interest)
		assert.Equal(t, int64(100_000), entry.Principal)
	}
	assert.Zero(t, schedule[11].RemainingBalance)
}

func TestGenerateAmortizationScheduleDegenerateInputs(t *testing.T) {
	start := time.Now().UTC()
	assert.Nil(t, model.GenerateAmortizationSchedule(0, 0.02, 12, start))
	assert.Nil(t, model.GenerateAmortizationSchedule(1_000_000, 0.02, 0, start))
}
