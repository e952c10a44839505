package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Score is the persisted points tally for a device.
type Score struct {
	ID       primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	DeviceID primitive.ObjectID `json:"-" bson:"device_id"`
	Points   int64              `json:"points" bson:"points"`
}

// LevelStep is one row of the level-progression table.
type LevelStep struct {
	Threshold int64  `json:"threshold"`
	Label     string `json:"label"`
	Icon      string `json:"icon"`
}

// Level is derived from cumulative points, never stored.
type Level struct {
	Label         string  `json:"label"`
	Icon          string  `json:"icon"`
	Points        int64   `json:"points"`
	NextThreshold int64   `json:"nextThreshold,omitempty"`
	Progress      float64 `json:"progress"` // 0..100, percent toward the next step
}

// LevelFor maps points onto the step table. Steps must be ordered by
// ascending threshold with the first at 0. At the top step progress pins
// to 100. An empty table yields an unnamed level rather than a panic, since
// the table is configuration.
func LevelFor(points int64, steps []LevelStep) Level {
	if len(steps) == 0 {
		return Level{Points: points, Progress: 100}
	}
	cur := steps[0]
	var next *LevelStep
	for i := range steps {
		if points >= steps[i].Threshold {
			cur = steps[i]
			if i+1 < len(steps) {
				next = &steps[i+1]
			} else {
				next = nil
			}
		}
	}

	lvl := Level{Label: cur.Label, Icon: cur.Icon, Points: points, Progress: 100}
	if next != nil {
		span := next.Threshold - cur.Threshold
		lvl.NextThreshold = next.Threshold
		lvl.Progress = float64(points-cur.Threshold) / float64(span) * 100
	}
	return lvl
}
