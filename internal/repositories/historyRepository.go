package repositories

import (
	"context"
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

type HistoryRepository interface {
	Find(ctx context.Context, deviceID primitive.ObjectID, limit int64) ([]models.HistoryItem, error)
	Insert(ctx context.Context, item *models.HistoryItem) error
	DeleteByItemName(ctx context.Context, deviceID primitive.ObjectID, itemName string) error
	TrimToLimit(ctx context.Context, deviceID primitive.ObjectID, limit int64) error
}

type historyRepository struct {
	db database.Service
}

func NewHistoryRepository(db database.Service) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) collection() *mongo.Collection {
	return r.db.Client().Database(database.Name).Collection("history")
}

func (r *historyRepository) Find(ctx context.Context, deviceID primitive.ObjectID, limit int64) ([]models.HistoryItem, error) {
	queryType := "find"
	repository := "history"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(limit)
	cursor, err := r.collection().Find(ctx, bson.M{"device_id": deviceID}, opts)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to retrieve history: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.HistoryItem
	if err := cursor.All(ctx, &items); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("error decoding history items: %w", err)
	}
	return items, nil
}

func (r *historyRepository) Insert(ctx context.Context, item *models.HistoryItem) error {
	queryType := "insert"
	repository := "history"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	result, err := r.collection().InsertOne(ctx, item)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return fmt.Errorf("failed to insert history item: %w", err)
	}
	item.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *historyRepository) DeleteByItemName(ctx context.Context, deviceID primitive.ObjectID, itemName string) error {
	queryType := "deleteMany"
	repository := "history"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	_, err := r.collection().DeleteMany(ctx, bson.M{"device_id": deviceID, "item_name": itemName})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return fmt.Errorf("failed to delete history duplicates: %w", err)
	}
	return nil
}

// TrimToLimit evicts everything older than the newest limit entries.
func (r *historyRepository) TrimToLimit(ctx context.Context, deviceID primitive.ObjectID, limit int64) error {
	queryType := "trim"
	repository := "history"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetSkip(limit).SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection().Find(ctx, bson.M{"device_id": deviceID}, opts)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return fmt.Errorf("failed to find history overflow: %w", err)
	}
	defer cursor.Close(ctx)

	var overflow []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &overflow); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return fmt.Errorf("error decoding history overflow: %w", err)
	}
	if len(overflow) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(overflow))
	for _, doc := range overflow {
		ids = append(ids, doc.ID)
	}
	_, err = r.collection().DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return fmt.Errorf("failed to evict history overflow: %w", err)
	}
	return nil
}
