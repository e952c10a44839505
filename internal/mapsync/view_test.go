package mapsync

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecotri/internal/models"
)

func f(v float64) *float64 { return &v }

var user = models.LatLng{Lat: 48.8566, Lng: 2.3522}

func point(name string, lat, lng float64) models.CollectionPoint {
	return models.CollectionPoint{
		Name: name,
		URI:  fmt.Sprintf("https://maps.example.com/@%f,%f", lat, lng),
		Lat:  f(lat),
		Lng:  f(lng),
	}
}

func newTestView() *View {
	return NewView(user, 14, 16, 0.15)
}

func TestViewInitialCamera(t *testing.T) {
	v := newTestView()

	cam := v.Camera()
	assert.Equal(t, CameraSetView, cam.Op)
	assert.Equal(t, user, cam.Center)
	assert.Equal(t, 14, cam.Zoom)

	markers := v.Markers()
	require.Len(t, markers, 1)
	assert.True(t, markers[0].Anchor)
}

func TestAnchorAlwaysPresentWithUnplottablePoints(t *testing.T) {
	v := newTestView()

	v.SetPoints([]models.CollectionPoint{
		{Name: "no coords a", URI: "https://maps.example.com/place/a"},
		{Name: "no coords b", URI: "https://maps.example.com/place/b"},
	})

	markers := v.Markers()
	require.Len(t, markers, 1, "zero POI markers expected")
	assert.True(t, markers[0].Anchor)
}

func TestFirstPopulationFitsAllPoints(t *testing.T) {
	v := newTestView()

	pts := []models.CollectionPoint{
		point("north", 48.90, 2.35),
		point("south", 48.80, 2.30),
		{Name: "unplottable", URI: "https://maps.example.com/place/x"},
	}
	v.SetPoints(pts)

	cam := v.Camera()
	require.Equal(t, CameraFitBounds, cam.Op)
	require.NotNil(t, cam.Bounds)
	assert.Equal(t, 16, cam.MaxZoom)

	assert.True(t, cam.Bounds.Contains(user), "bounds must contain the user location")
	for _, p := range pts {
		if !p.Plottable() {
			continue
		}
		assert.True(t, cam.Bounds.Contains(models.LatLng{Lat: *p.Lat, Lng: *p.Lng}),
			"bounds must contain %s", p.Name)
	}
}

func TestExactlyOneActiveMarker(t *testing.T) {
	v := newTestView()
	v.SetPoints([]models.CollectionPoint{
		point("a", 48.90, 2.35),
		point("b", 48.80, 2.30),
		point("c", 48.85, 2.40),
	})

	for _, idx := range []int{1, 2, 2, 0} {
		require.NoError(t, v.SetActive(idx))

		active := 0
		for _, m := range v.Markers() {
			if m.Active {
				active++
				assert.True(t, m.CalloutOpen)
			} else {
				assert.False(t, m.CalloutOpen)
			}
		}
		assert.Equal(t, 1, active, "exactly one marker active after selecting %d", idx)
		assert.Len(t, v.Markers(), 4, "marker count must not change")
	}
}

func TestSetActivePansWithoutZoom(t *testing.T) {
	v := newTestView()
	v.SetPoints([]models.CollectionPoint{
		point("a", 48.90, 2.35),
		point("b", 48.80, 2.30),
	})

	require.NoError(t, v.SetActive(1))
	cam := v.Camera()
	assert.Equal(t, CameraPan, cam.Op)
	assert.Equal(t, models.LatLng{Lat: 48.80, Lng: 2.30}, cam.Center)
	assert.Zero(t, cam.Zoom, "pan must preserve the current zoom")
}

func TestInitialIndexAfterPopulationKeepsOverview(t *testing.T) {
	v := newTestView()
	v.SetPoints([]models.CollectionPoint{
		point("a", 48.90, 2.35),
		point("b", 48.80, 2.30),
	})

	require.NoError(t, v.SetActive(0))
	assert.Equal(t, CameraFitBounds, v.Camera().Op, "first load favors an overview")
}

func TestRepopulationReanchorsOnFirstPoint(t *testing.T) {
	v := newTestView()
	v.SetPoints([]models.CollectionPoint{
		point("a", 48.90, 2.35),
		point("b", 48.80, 2.30),
		point("c", 48.85, 2.40),
	})
	require.NoError(t, v.SetActive(2))

	v.SetPoints([]models.CollectionPoint{
		point("d", 48.88, 2.33),
		point("e", 48.79, 2.37),
	})
	assert.Equal(t, 0, v.ActiveIndex())
	assert.Equal(t, CameraFitBounds, v.Camera().Op, "a refreshed list gets the overview again")
}

func TestSetActiveOutOfRange(t *testing.T) {
	v := newTestView()
	v.SetPoints([]models.CollectionPoint{point("a", 48.90, 2.35)})

	assert.ErrorIs(t, v.SetActive(3), models.ErrInvalidInput)
	assert.ErrorIs(t, v.SetActive(-1), models.ErrInvalidInput)
}

func TestSearchAffordanceLifecycle(t *testing.T) {
	v := newTestView()

	_, armed := v.SearchArmed()
	assert.False(t, armed)

	moved := models.LatLng{Lat: 48.87, Lng: 2.31}
	v.UserMoved(moved)
	center, armed := v.SearchArmed()
	assert.True(t, armed)
	assert.Equal(t, moved, center)

	// A new point set dismisses the affordance.
	v.SetPoints([]models.CollectionPoint{point("a", 48.90, 2.35)})
	_, armed = v.SearchArmed()
	assert.False(t, armed)
}

func TestEmptyPointListIsExplicit(t *testing.T) {
	v := newTestView()
	v.SetPoints(nil)

	assert.True(t, v.Empty())
	assert.Equal(t, CameraNone, v.Camera().Op)
}

func TestMergePoints(t *testing.T) {
	existing := []models.CollectionPoint{
		point("a", 48.90, 2.35),
		point("b", 48.80, 2.30),
		point("c", 48.85, 2.40),
		point("d", 48.82, 2.28),
	}
	incoming := []models.CollectionPoint{
		existing[0], // overlap
		existing[2], // overlap
		point("e", 48.88, 2.33),
		point("f", 48.79, 2.37),
		point("g", 48.91, 2.29),
		point("h", 48.83, 2.41),
	}

	merged := MergePoints(existing, incoming, 8)
	require.Len(t, merged, 8)

	seen := make(map[string]bool)
	for _, p := range merged {
		assert.False(t, seen[p.URI], "duplicate uri %s", p.URI)
		seen[p.URI] = true
	}
	// Existing entries keep their positions.
	assert.Equal(t, "a", merged[0].Name)
	assert.Equal(t, "d", merged[3].Name)
}

func TestMergePointsCapAndMissingURI(t *testing.T) {
	var incoming []models.CollectionPoint
	for i := 0; i < 12; i++ {
		incoming = append(incoming, point(fmt.Sprintf("p%d", i), 48.8+float64(i)/100, 2.3))
	}
	incoming = append(incoming, models.CollectionPoint{Name: "no uri"})

	merged := MergePoints(nil, incoming, 8)
	assert.Len(t, merged, 8)
	for _, p := range merged {
		assert.NotEmpty(t, p.URI)
	}
}
