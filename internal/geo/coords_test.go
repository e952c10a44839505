package geo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLatLng(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantLat float64
		wantLng float64
		wantOK  bool
	}{
		{"at segment", "https://maps.google.com/maps/place/Recyclerie/@48.8566,2.3522,15z", 48.8566, 2.3522, true},
		{"at segment negative", "https://maps.example.com/@-33.8688,151.2093", -33.8688, 151.2093, true},
		{"lat lng params", "https://maps.example.com/place?lat=45.764&lng=4.8357", 45.764, 4.8357, true},
		{"latitude longitude params", "https://maps.example.com/?latitude=43.2965&longitude=5.3698", 43.2965, 5.3698, true},
		{"ll param", "https://maps.apple.com/?ll=48.8566,2.3522", 48.8566, 2.3522, true},
		{"q param pair", "https://maps.google.com/?q=47.2184,-1.5536", 47.2184, -1.5536, true},
		{"path segment pair", "https://maps.example.com/dir/48.8566,2.3522/info", 48.8566, 2.3522, true},
		{"percent encoded", "https://maps.google.com/?q=48.8566%2C2.3522", 48.8566, 2.3522, true},
		{"no coordinates", "https://maps.google.com/maps/place/Recyclerie+Centre", 0, 0, false},
		{"null island sentinel", "https://maps.example.com/@0,0", 0, 0, false},
		{"latitude out of range", "https://maps.example.com/?lat=95.0&lng=2.0", 0, 0, false},
		{"garbage", "::not a uri::", 0, 0, false},
		{"empty", "", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lng, ok := ExtractLatLng(tt.uri)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.wantLat, lat, 1e-9)
				assert.InDelta(t, tt.wantLng, lng, 1e-9)
			}
		})
	}
}

func TestExtractLatLngRoundTrip(t *testing.T) {
	lat, lng := 48.8584, 2.2945

	uris := []string{
		fmt.Sprintf("https://maps.google.com/maps/@%f,%f,14z", lat, lng),
		fmt.Sprintf("https://maps.example.com/?lat=%f&lng=%f", lat, lng),
		fmt.Sprintf("https://maps.apple.com/?ll=%f,%f", lat, lng),
		fmt.Sprintf("https://maps.example.com/dir/%f,%f/", lat, lng),
	}

	for _, uri := range uris {
		gotLat, gotLng, ok := ExtractLatLng(uri)
		assert.True(t, ok, uri)
		assert.InDelta(t, lat, gotLat, 1e-6, uri)
		assert.InDelta(t, lng, gotLng, 1e-6, uri)
	}
}
