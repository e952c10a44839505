// Package mapsync keeps a map viewport, its point-of-interest markers and an
// externally driven active selection consistent. It is pure state: the
// handlers return the computed marker set and camera instruction to the
// client, which applies them to the actual map widget.
package mapsync

import (
	"ecotri/internal/models"
)

// Bounds is a padded bounding region over a set of coordinates.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

// Contains reports whether p lies inside the region.
func (b Bounds) Contains(p models.LatLng) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// BoundsFor computes a region covering the user location and every plottable
// point, expanded on each side by padding (a fraction of the span) so markers
// do not sit on the viewport edge.
func BoundsFor(user models.LatLng, points []models.CollectionPoint, padding float64) Bounds {
	b := Bounds{MinLat: user.Lat, MaxLat: user.Lat, MinLng: user.Lng, MaxLng: user.Lng}
	for _, p := range points {
		if !p.Plottable() {
			continue
		}
		if *p.Lat < b.MinLat {
			b.MinLat = *p.Lat
		}
		if *p.Lat > b.MaxLat {
			b.MaxLat = *p.Lat
		}
		if *p.Lng < b.MinLng {
			b.MinLng = *p.Lng
		}
		if *p.Lng > b.MaxLng {
			b.MaxLng = *p.Lng
		}
	}

	latPad := (b.MaxLat - b.MinLat) * padding
	lngPad := (b.MaxLng - b.MinLng) * padding
	// A single nearby point collapses the span to zero; keep a minimum
	// margin so the fit does not over-zoom.
	const minPad = 0.002
	if latPad < minPad {
		latPad = minPad
	}
	if lngPad < minPad {
		lngPad = minPad
	}

	b.MinLat -= latPad
	b.MaxLat += latPad
	b.MinLng -= lngPad
	b.MaxLng += lngPad
	return b
}

// Center returns the midpoint of the region.
func (b Bounds) Center() models.LatLng {
	return models.LatLng{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}
