package models

// Impact is a rough environmental estimate for sorting one item correctly.
type Impact struct {
	CO2SavedGrams    float64 `json:"co2SavedGrams"`
	WaterSavedLiters float64 `json:"waterSavedLiters"`
	EnergySaved      string  `json:"energySaved,omitempty"`
}

// CollectionPoint is a place where the classified item can be dropped off.
// Lat/Lng are best-effort, extracted from the map URI; a point without them is
// still listed but cannot be plotted.
type CollectionPoint struct {
	Name string   `json:"name"`
	URI  string   `json:"uri"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

// Plottable reports whether the point carries resolvable coordinates.
func (p CollectionPoint) Plottable() bool {
	return p.Lat != nil && p.Lng != nil
}

// SortingResult is the outcome of classifying one item. ImageData and
// NearbyPoints are filled in asynchronously after the primary result is
// already displayed.
type SortingResult struct {
	ItemName             string            `json:"itemName"`
	Bin                  BinType           `json:"bin"`
	Explanation          string            `json:"explanation"`
	IsRecyclable         bool              `json:"isRecyclable"`
	Tips                 []string          `json:"tips,omitempty"`
	Impact               *Impact           `json:"impact,omitempty"`
	ZeroWasteAlternative string            `json:"zeroWasteAlternative,omitempty"`
	ImageData            string            `json:"imageData,omitempty"`
	NearbyPoints         []CollectionPoint `json:"nearbyPoints,omitempty"`
	FollowUpQuestions    []string          `json:"followUpQuestions,omitempty"`
}

// LocationError is the client-reported reason a device position is missing.
type LocationError string

const (
	LocationPermissionDenied LocationError = "permission_denied"
	LocationTimeout          LocationError = "timeout"
	LocationUnavailable      LocationError = "unavailable"
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type SortRequestBody struct {
	Query         string        `json:"query,omitempty"`
	ImageData     string        `json:"imageData,omitempty"` // base64 raster
	MimeType      string        `json:"mimeType,omitempty"`
	Location      *LatLng       `json:"location,omitempty"`
	LocationError LocationError `json:"locationError,omitempty"`
}

type ActivePointRequestBody struct {
	Index int `json:"index"`
}

type MapMovedRequestBody struct {
	Center LatLng `json:"center"`
}

type SearchAreaRequestBody struct {
	Center LatLng `json:"center"`
}

type ChatRequestBody struct {
	Message string `json:"message"`
}
