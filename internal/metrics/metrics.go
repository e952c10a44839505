package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Classification Metrics
	ClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_classifications_total",
		Help: "Total number of waste classifications, by bin and input kind.",
	}, []string{"bin", "input"}) // input: "text" or "image"
	ClassificationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_classification_failures_total",
		Help: "Total number of failed classifications, by failure code.",
	}, []string{"code"})

	// Enrichment Metrics
	ImagesGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_images_generated_total",
		Help: "Total number of item illustrations generated.",
	})
	NearbySearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_nearby_searches_total",
		Help: "Total number of nearby collection point lookups.",
	}, []string{"kind"}) // kind: "auto" or "area"

	// Engagement Metrics
	ChatTurnsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_chat_turns_total",
		Help: "Total number of follow-up chat exchanges.",
	})
	PointsAwardedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_points_awarded_total",
		Help: "Total points awarded across all devices.",
	})
	DevicesRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_devices_registered_total",
		Help: "Total number of anonymous device tokens issued.",
	})
)
