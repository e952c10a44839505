package config

import (
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"

	"ecotri/internal/models"
)

// Limits groups the tunables the product has shifted across releases. They are
// read once from the environment with sane defaults.
type Limits struct {
	HistoryLimit  int64
	PointCap      int
	PointsPerSort int64
	DefaultZoom   int
	MaxFitZoom    int
	FitPadding    float64
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// LoadLimits resolves the tunables from the environment.
func LoadLimits() Limits {
	return Limits{
		HistoryLimit:  int64(envInt("HISTORY_LIMIT", 5)),
		PointCap:      envInt("POINT_CAP", 8),
		PointsPerSort: int64(envInt("POINTS_PER_SORT", 10)),
		DefaultZoom:   envInt("MAP_DEFAULT_ZOOM", 14),
		MaxFitZoom:    envInt("MAP_MAX_FIT_ZOOM", 16),
		FitPadding:    0.15,
	}
}

// DefaultLevels is the grade-progression table. Thresholds are points.
func DefaultLevels() []models.LevelStep {
	return []models.LevelStep{
		{Threshold: 0, Label: "Beginner", Icon: "🌱"},
		{Threshold: 50, Label: "Apprentice", Icon: "♻️"},
		{Threshold: 150, Label: "Sorter", Icon: "🗑️"},
		{Threshold: 400, Label: "Expert", Icon: "🌍"},
		{Threshold: 1000, Label: "Eco Hero", Icon: "🏆"},
	}
}
