package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor_BandBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		xp    float64
		level int
		name  string
	}{
		{-10, 1, "Novice"},
		{0, 1, "Novice"},
		{100, 1, "Novice"},
		{100.5, 2, "Apprentice"},
		{101, 2, "Apprentice"},
		{250, 2, "Apprentice"},
		{251, 3, "Adept"},
		{1000, 4, "Expert"},
		{1001, 5, "Master"},
		{30000, 9, "Godlike"},
		{30001, 10, "Infinite"},
		{1e12, 10, "Infinite"},
	}

	for _, tt := range tests {
		band := LevelFor(tt.xp)
		assert.Equal(t, tt.level, band.Level, "xp=%v", tt.xp)
		assert.Equal(t, tt.name, band.Name, "xp=%v", tt.xp)
	}
}

func TestLevels_PartitionWithoutGaps(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Levels)
	assert.Equal(t, 0.0, Levels[0].MinXP)
	assert.True(t, Levels[len(Levels)-1].IsTerminal())

	for i := 1; i < len(Levels); i++ {
		assert.Equal(t, Levels[i-1].MaxXP+1, Levels[i].MinXP, "gap before level %d", Levels[i].Level)
		assert.Equal(t, Levels[i-1].Level+1, Levels[i].Level)
	}

	for xp := 0; xp <= 40000; xp += 7 {
		matches := 0
		for _, b := range Levels {
			if float64(xp) >= b.MinXP && float64(xp) <= b.MaxXP {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "xp=%d must fall in exactly one band", xp)
		band := LevelFor(float64(xp))
		assert.LessOrEqual(t, band.MinXP, float64(xp))
		assert.GreaterOrEqual(t, band.MaxXP, float64(xp))
	}
}

func TestXPToNextLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 101.0, XPToNextLevel(0))
	assert.Equal(t, 51.0, XPToNextLevel(50))
	assert.Equal(t, 1.0, XPToNextLevel(100))
	assert.Equal(t, 150.0, XPToNextLevel(101))
	assert.Equal(t, 0.0, XPToNextLevel(30001))
	assert.Equal(t, 0.0, XPToNextLevel(99999))
}

func TestLevelProgress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, LevelProgress(0))
	assert.InDelta(t, 49.50, LevelProgress(50), 0.01)
	assert.InDelta(t, 50.0, LevelProgress(176), 0.01)
	assert.Equal(t, 100.0, LevelProgress(30001))

	for xp := 0.0; xp < 35000; xp += 13.7 {
		p := LevelProgress(xp)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 100.0)
	}
}
