package mapsync

import (
	"fmt"

	"ecotri/internal/models"
)

// CameraOp tells the client how to move the viewport after an update.
type CameraOp string

const (
	CameraNone      CameraOp = "none"
	CameraSetView   CameraOp = "set_view"
	CameraPan       CameraOp = "pan" // center change only, zoom preserved
	CameraFitBounds CameraOp = "fit_bounds"
)

// Camera is the viewport instruction attached to a view update.
type Camera struct {
	Op      CameraOp      `json:"op"`
	Center  models.LatLng `json:"center,omitempty"`
	Zoom    int           `json:"zoom,omitempty"`    // 0 means keep current zoom
	MaxZoom int           `json:"maxZoom,omitempty"` // clamp for fit_bounds
	Bounds  *Bounds       `json:"bounds,omitempty"`
}

// Marker is one overlay on the map. The anchor marker is the user's own
// location and is always present.
type Marker struct {
	Name        string        `json:"name"`
	Pos         models.LatLng `json:"pos"`
	Anchor      bool          `json:"anchor,omitempty"`
	Active      bool          `json:"active"`
	CalloutOpen bool          `json:"calloutOpen,omitempty"`
}

// View reconciles the marker set and viewport against the current point list
// and active index. Not safe for concurrent use; the owning session
// serializes access.
type View struct {
	user        models.LatLng
	defaultZoom int
	maxFitZoom  int
	padding     float64

	points []models.CollectionPoint
	active int

	searchArmed  bool
	searchCenter models.LatLng

	markers []Marker
	camera  Camera
}

// NewView centers the map on the user's location at the default zoom.
func NewView(user models.LatLng, defaultZoom, maxFitZoom int, padding float64) *View {
	v := &View{
		user:        user,
		defaultZoom: defaultZoom,
		maxFitZoom:  maxFitZoom,
		padding:     padding,
		camera:      Camera{Op: CameraSetView, Center: user, Zoom: defaultZoom},
	}
	v.rebuildMarkers()
	return v
}

// SetPoints replaces the point list and re-anchors the selection on the
// first point. Every population fits the viewport over the user location and
// all plottable points; later replacements come from an area search the user
// asked for and get the same overview. A new point set dismisses the search
// affordance.
func (v *View) SetPoints(points []models.CollectionPoint) {
	v.points = points
	v.active = 0
	v.searchArmed = false
	v.rebuildMarkers()

	if len(points) == 0 {
		v.camera = Camera{Op: CameraNone}
		return
	}
	bounds := BoundsFor(v.user, points, v.padding)
	v.camera = Camera{Op: CameraFitBounds, Bounds: &bounds, MaxZoom: v.maxFitZoom, Center: bounds.Center()}
}

// SetActive selects the highlighted point and pans to it without changing
// zoom. Repeated selection of the same index is idempotent. If this is the
// first population and the index is still the initial 0, the fit from
// SetPoints stands instead of a pan.
func (v *View) SetActive(i int) error {
	if i < 0 || i >= len(v.points) {
		return fmt.Errorf("%w: active index %d out of range (%d points)", models.ErrInvalidInput, i, len(v.points))
	}
	// Right after a population the fit-all overview stands; re-selecting
	// the initial index must not collapse it into a single-marker pan.
	if i == v.active && v.camera.Op == CameraFitBounds {
		v.rebuildMarkers()
		return nil
	}
	v.active = i
	v.rebuildMarkers()
	if p := v.points[i]; p.Plottable() {
		v.camera = Camera{Op: CameraPan, Center: models.LatLng{Lat: *p.Lat, Lng: *p.Lng}}
	} else {
		v.camera = Camera{Op: CameraNone}
	}
	return nil
}

// UserMoved records a manual drag/zoom settling at center and arms the
// "search this area" affordance there.
func (v *View) UserMoved(center models.LatLng) {
	v.searchArmed = true
	v.searchCenter = center
}

// SearchArmed reports whether the search-this-area affordance is showing,
// and where it would search.
func (v *View) SearchArmed() (models.LatLng, bool) {
	return v.searchCenter, v.searchArmed
}

// Points returns the current point list.
func (v *View) Points() []models.CollectionPoint { return v.points }

// ActiveIndex returns the currently highlighted point index.
func (v *View) ActiveIndex() int { return v.active }

// Markers returns the reconciled marker set: the user anchor plus one marker
// per plottable point, exactly one of them active.
func (v *View) Markers() []Marker { return v.markers }

// Camera returns the viewport instruction from the last update.
func (v *View) Camera() Camera { return v.camera }

// Empty reports the "no points found here" state.
func (v *View) Empty() bool { return len(v.points) == 0 }

func (v *View) rebuildMarkers() {
	markers := make([]Marker, 0, len(v.points)+1)
	markers = append(markers, Marker{Name: "You are here", Pos: v.user, Anchor: true})
	for i, p := range v.points {
		if !p.Plottable() {
			continue
		}
		markers = append(markers, Marker{
			Name:        p.Name,
			Pos:         models.LatLng{Lat: *p.Lat, Lng: *p.Lng},
			Active:      i == v.active,
			CalloutOpen: i == v.active,
		})
	}
	v.markers = markers
}
