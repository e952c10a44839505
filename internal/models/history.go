package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryItem records one past classification for quick re-query.
type HistoryItem struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DeviceID  primitive.ObjectID `json:"-" bson:"device_id"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
	ItemName  string             `json:"itemName" bson:"item_name"`
	Bin       BinType            `json:"bin" bson:"bin"`
}
