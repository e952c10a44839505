package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecotri/internal/config"
	"ecotri/internal/mapsync"
	"ecotri/internal/metrics"
	"ecotri/internal/models"
)

const enrichmentTimeout = 45 * time.Second

// SortService orchestrates a classification round: the primary call to the
// assistant, the two background enrichments, and the fire-and-forget history
// and points side effects.
type SortService interface {
	Sort(ctx context.Context, deviceID primitive.ObjectID, body models.SortRequestBody) (*models.SortingResult, error)
	Current(deviceID primitive.ObjectID) *Snapshot
	Reset(deviceID primitive.ObjectID)
	SetActivePoint(deviceID primitive.ObjectID, index int) (*Snapshot, error)
	MapMoved(deviceID primitive.ObjectID, center models.LatLng) (*Snapshot, error)
	SearchArea(ctx context.Context, deviceID primitive.ObjectID, center models.LatLng) (*Snapshot, error)
}

type sortService struct {
	assistant    Assistant
	sessions     *SessionStore
	history      HistoryService
	gamification GamificationService
	limits       config.Limits
}

func NewSortService(assistant Assistant, sessions *SessionStore, history HistoryService, gamification GamificationService, limits config.Limits) SortService {
	return &sortService{
		assistant:    assistant,
		sessions:     sessions,
		history:      history,
		gamification: gamification,
		limits:       limits,
	}
}

func (s *sortService) Sort(ctx context.Context, deviceID primitive.ObjectID, body models.SortRequestBody) (*models.SortingResult, error) {
	input, err := buildAnalyzeInput(body)
	if err != nil {
		return nil, err
	}

	sess := s.sessions.Get(deviceID)
	if err := sess.beginClassify(); err != nil {
		return nil, err
	}

	result, err := s.assistant.AnalyzeWaste(ctx, input)
	if err != nil {
		sess.failClassify()
		metrics.ClassificationFailuresTotal.WithLabelValues(failureCode(err)).Inc()
		return nil, err
	}

	generation := sess.completeClassify(result, body.Location, body.LocationError)

	inputKind := "text"
	if input.IsImage() {
		inputKind = "image"
	}
	metrics.ClassificationsTotal.WithLabelValues(string(result.Bin), inputKind).Inc()
	log.Info().Str("deviceID", deviceID.Hex()).Str("item", result.ItemName).Str("bin", string(result.Bin)).Msg("Classification succeeded")

	// Side effects and enrichments run detached from the request: the
	// primary result is already committed and none of these may block or
	// fail it.
	go s.recordSideEffects(deviceID, result.ItemName, result.Bin)
	go s.enrichImage(sess, generation, result.ItemName)
	if body.Location != nil {
		go s.enrichPoints(sess, generation, result.ItemName, result.Bin, *body.Location)
	} else {
		log.Debug().Str("deviceID", deviceID.Hex()).Str("reason", string(body.LocationError)).Msg("Skipping nearby points lookup, no device location")
	}

	return result, nil
}

func failureCode(err error) string {
	switch {
	case errors.Is(err, models.ErrNotConfigured):
		return models.CodeNotConfigured
	case errors.Is(err, models.ErrNoMatch):
		return models.CodeNoMatch
	default:
		return models.CodeConnectivity
	}
}

func buildAnalyzeInput(body models.SortRequestBody) (AnalyzeInput, error) {
	if body.ImageData != "" {
		data, err := base64.StdEncoding.DecodeString(body.ImageData)
		if err != nil {
			return AnalyzeInput{}, fmt.Errorf("%w: image payload is not valid base64", models.ErrInvalidInput)
		}
		mimeType := body.MimeType
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		return AnalyzeInput{ImageData: data, MimeType: mimeType}, nil
	}
	if len(body.Query) < 2 {
		return AnalyzeInput{}, fmt.Errorf("%w: query is required", models.ErrInvalidInput)
	}
	return AnalyzeInput{Query: body.Query}, nil
}

// recordSideEffects appends history and awards points. Failures are logged
// and swallowed; persistence must never block showing the result.
func (s *sortService) recordSideEffects(deviceID primitive.ObjectID, itemName string, bin models.BinType) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.history.RecordClassification(ctx, deviceID, itemName, bin); err != nil {
		log.Warn().Err(err).Str("deviceID", deviceID.Hex()).Msg("Failed to record history entry")
	}
	if _, err := s.gamification.AwardSortPoints(ctx, deviceID); err != nil {
		log.Warn().Err(err).Str("deviceID", deviceID.Hex()).Msg("Failed to award points")
	}
}

func (s *sortService) enrichImage(sess *Session, generation uint64, itemName string) {
	ctx, cancel := context.WithTimeout(context.Background(), enrichmentTimeout)
	defer cancel()

	imageData, err := s.assistant.GenerateItemImage(ctx, itemName)
	if err != nil {
		log.Debug().Err(err).Str("item", itemName).Msg("Illustration generation failed")
		return
	}
	if sess.patchImage(generation, imageData) {
		metrics.ImagesGeneratedTotal.Inc()
	}
}

func (s *sortService) enrichPoints(sess *Session, generation uint64, itemName string, bin models.BinType, loc models.LatLng) {
	ctx, cancel := context.WithTimeout(context.Background(), enrichmentTimeout)
	defer cancel()

	points, err := s.assistant.FindNearbyPoints(ctx, bin, itemName, loc.Lat, loc.Lng)
	if err != nil {
		log.Debug().Err(err).Str("item", itemName).Msg("Nearby points lookup failed")
		return
	}
	if sess.patchPoints(generation, points) {
		metrics.NearbySearchesTotal.WithLabelValues("auto").Inc()
	}
}

func (s *sortService) Current(deviceID primitive.ObjectID) *Snapshot {
	return s.sessions.Get(deviceID).Snapshot()
}

func (s *sortService) Reset(deviceID primitive.ObjectID) {
	s.sessions.Get(deviceID).Reset()
}

func (s *sortService) SetActivePoint(deviceID primitive.ObjectID, index int) (*Snapshot, error) {
	return s.sessions.Get(deviceID).SetActivePoint(index)
}

func (s *sortService) MapMoved(deviceID primitive.ObjectID, center models.LatLng) (*Snapshot, error) {
	return s.sessions.Get(deviceID).MapMoved(center)
}

// SearchArea refines the point list around a manually chosen map center and
// resets the active point to the first entry.
func (s *sortService) SearchArea(ctx context.Context, deviceID primitive.ObjectID, center models.LatLng) (*Snapshot, error) {
	sess := s.sessions.Get(deviceID)
	generation, itemName, bin, existing, err := sess.searchContext()
	if err != nil {
		return nil, err
	}

	points, err := s.assistant.FindNearbyPoints(ctx, bin, itemName, center.Lat, center.Lng)
	if err != nil {
		return nil, err
	}
	metrics.NearbySearchesTotal.WithLabelValues("area").Inc()

	merged := mapsync.MergePoints(existing, points, s.limits.PointCap)
	return sess.applyMergedPoints(generation, merged)
}
