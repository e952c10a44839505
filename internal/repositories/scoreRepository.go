package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecotri/internal/database"
	"ecotri/internal/models"
	"ecotri/internal/utils"
)

type ScoreRepository interface {
	Get(ctx context.Context, deviceID primitive.ObjectID) (*models.Score, error)
	AddPoints(ctx context.Context, deviceID primitive.ObjectID, delta int64) (int64, error)
}

type scoreRepository struct {
	db database.Service
}

func NewScoreRepository(db database.Service) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) collection() *mongo.Collection {
	return r.db.Client().Database(database.Name).Collection("scores")
}

func (r *scoreRepository) Get(ctx context.Context, deviceID primitive.ObjectID) (*models.Score, error) {
	queryType := "findOne"
	repository := "score"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var score models.Score
	err := r.collection().FindOne(ctx, bson.M{"device_id": deviceID}).Decode(&score)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.Score{DeviceID: deviceID, Points: 0}, nil
	}
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to retrieve score: %w", err)
	}
	return &score, nil
}

// AddPoints increments the tally with an upsert and returns the new total.
func (r *scoreRepository) AddPoints(ctx context.Context, deviceID primitive.ObjectID, delta int64) (int64, error) {
	queryType := "findOneAndUpdate"
	repository := "score"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var score models.Score
	err := r.collection().FindOneAndUpdate(
		ctx,
		bson.M{"device_id": deviceID},
		bson.M{"$inc": bson.M{"points": delta}},
		opts,
	).Decode(&score)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return 0, fmt.Errorf("failed to add points: %w", err)
	}
	return score.Points, nil
}
