package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func levelSteps() []LevelStep {
	return []LevelStep{
		{Threshold: 0, Label: "Beginner", Icon: "🌱"},
		{Threshold: 50, Label: "Apprentice", Icon: "♻️"},
		{Threshold: 150, Label: "Sorter", Icon: "🗑️"},
		{Threshold: 400, Label: "Expert", Icon: "🌍"},
		{Threshold: 1000, Label: "Eco Hero", Icon: "🏆"},
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		points   int64
		label    string
		next     int64
		progress float64
	}{
		{0, "Beginner", 50, 0},
		{25, "Beginner", 50, 50},
		{49, "Beginner", 50, 98},
		{50, "Apprentice", 150, 0},
		{100, "Apprentice", 150, 50},
		{150, "Sorter", 400, 0},
		{400, "Expert", 1000, 0},
		{700, "Expert", 1000, 50},
		{1000, "Eco Hero", 0, 100},
		{5000, "Eco Hero", 0, 100},
	}

	for _, tc := range tests {
		lvl := LevelFor(tc.points, levelSteps())
		assert.Equal(t, tc.label, lvl.Label, "points=%d", tc.points)
		assert.Equal(t, tc.next, lvl.NextThreshold, "points=%d", tc.points)
		assert.InDelta(t, tc.progress, lvl.Progress, 0.001, "points=%d", tc.points)
		assert.Equal(t, tc.points, lvl.Points)
	}
}

func TestLevelForEmptyTable(t *testing.T) {
	lvl := LevelFor(42, nil)
	assert.Equal(t, int64(42), lvl.Points)
	assert.Empty(t, lvl.Label)
	assert.InDelta(t, 100, lvl.Progress, 0.001)
}

func TestParseBinType(t *testing.T) {
	for _, b := range AllBins {
		got, err := ParseBinType(string(b))
		assert.NoError(t, err)
		assert.Equal(t, b, got)
	}

	_, err := ParseBinType("BLUE")
	assert.Error(t, err)
	_, err = ParseBinType("")
	assert.Error(t, err)
}
