package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecotri/internal/models"
	"ecotri/internal/repositories"
)

type HistoryService interface {
	GetHistory(ctx context.Context, deviceID primitive.ObjectID) ([]models.HistoryItem, error)
	RecordClassification(ctx context.Context, deviceID primitive.ObjectID, itemName string, bin models.BinType) error
}

type historyService struct {
	repo  repositories.HistoryRepository
	limit int64
}

func NewHistoryService(repo repositories.HistoryRepository, limit int64) HistoryService {
	return &historyService{repo: repo, limit: limit}
}

func (s *historyService) GetHistory(ctx context.Context, deviceID primitive.ObjectID) ([]models.HistoryItem, error) {
	items, err := s.repo.Find(ctx, deviceID, s.limit)
	if err != nil {
		log.Error().Err(err).Str("deviceID", deviceID.Hex()).Msg("Error retrieving history")
		return nil, err
	}
	return items, nil
}

// RecordClassification appends a history entry, keeping the list deduplicated
// by item name (a repeat moves to the front) and capped at the recency limit.
func (s *historyService) RecordClassification(ctx context.Context, deviceID primitive.ObjectID, itemName string, bin models.BinType) error {
	if err := s.repo.DeleteByItemName(ctx, deviceID, itemName); err != nil {
		return err
	}

	item := &models.HistoryItem{
		DeviceID:  deviceID,
		Timestamp: time.Now(),
		ItemName:  itemName,
		Bin:       bin,
	}
	if err := s.repo.Insert(ctx, item); err != nil {
		return err
	}

	return s.repo.TrimToLimit(ctx, deviceID, s.limit)
}
