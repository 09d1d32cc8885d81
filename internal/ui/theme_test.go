package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar(t *testing.T) {
	tests := []struct {
		pct    float64
		width  int
		filled int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{100, 10, 10},
		{150, 10, 10},
		{-5, 10, 0},
	}
	for _, tt := range tests {
		bar := Bar(tt.pct, tt.width)
		assert.Equal(t, tt.filled, strings.Count(bar, "█"), "pct %v", tt.pct)
		assert.Equal(t, tt.width-tt.filled, strings.Count(bar, "░"), "pct %v", tt.pct)
	}
	assert.Empty(t, Bar(50, 0))
}

func TestNotice(t *testing.T) {
	assert.Contains(t, Notice("achievement", "First Step"), IconTrophy)
	assert.Contains(t, Notice("error", "sync failed"), "sync failed")
	assert.Contains(t, Notice("xp", "+10 XP!"), "+10 XP!")
}

func TestHeading(t *testing.T) {
	assert.Contains(t, Heading(IconFire, "Streak"), IconFire+" Streak")
	assert.Contains(t, Heading("", "Plain"), "Plain")
}
