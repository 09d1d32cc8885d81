package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiplier_Steps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		streak int
		want   float64
	}{
		{0, 1.0},
		{1, 1.0},
		{7, 1.0},
		{8, 1.2},
		{14, 1.2},
		{15, 1.5},
		{30, 1.5},
		{31, 2.0},
		{60, 2.0},
		{61, 2.5},
		{100, 2.5},
		{101, 3.0},
		{5000, 3.0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Multiplier(tt.streak), "streak=%d", tt.streak)
	}
}

func TestMultiplier_AtLeastOneAndNonDecreasing(t *testing.T) {
	t.Parallel()

	prev := Multiplier(0)
	for s := 0; s <= 500; s++ {
		m := Multiplier(s)
		assert.GreaterOrEqual(t, m, 1.0, "streak=%d", s)
		assert.GreaterOrEqual(t, m, prev, "streak=%d", s)
		prev = m
	}
}

func TestBonusPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, BonusPercent(3))
	assert.Equal(t, 20, BonusPercent(8))
	assert.Equal(t, 50, BonusPercent(15))
	assert.Equal(t, 200, BonusPercent(101))
}

func TestAwardXP_RoundsToCents(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3.6, AwardXP(3, 8))
	assert.Equal(t, 10.0, AwardXP(10, 0))
	assert.Equal(t, 30.0, AwardXP(10, 101))
}
