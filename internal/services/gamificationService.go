package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecotri/internal/metrics"
	"ecotri/internal/models"
	"ecotri/internal/repositories"
)

type GamificationService interface {
	GetLevel(ctx context.Context, deviceID primitive.ObjectID) (*models.Level, error)
	AwardSortPoints(ctx context.Context, deviceID primitive.ObjectID) (int64, error)
}

type gamificationService struct {
	repo          repositories.ScoreRepository
	pointsPerSort int64
	levels        []models.LevelStep
}

func NewGamificationService(repo repositories.ScoreRepository, pointsPerSort int64, levels []models.LevelStep) GamificationService {
	return &gamificationService{repo: repo, pointsPerSort: pointsPerSort, levels: levels}
}

func (s *gamificationService) GetLevel(ctx context.Context, deviceID primitive.ObjectID) (*models.Level, error) {
	score, err := s.repo.Get(ctx, deviceID)
	if err != nil {
		log.Error().Err(err).Str("deviceID", deviceID.Hex()).Msg("Error retrieving score")
		return nil, err
	}
	level := models.LevelFor(score.Points, s.levels)
	return &level, nil
}

func (s *gamificationService) AwardSortPoints(ctx context.Context, deviceID primitive.ObjectID) (int64, error) {
	total, err := s.repo.AddPoints(ctx, deviceID, s.pointsPerSort)
	if err != nil {
		return 0, err
	}
	metrics.PointsAwardedTotal.Add(float64(s.pointsPerSort))
	return total, nil
}
