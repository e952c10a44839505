// Package geo recovers coordinates embedded in opaque place URIs.
package geo

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var atPairRe = regexp.MustCompile(`@(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)`)
var pairRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)$`)

// ExtractLatLng recovers a latitude/longitude pair from a place URI,
// trying the known embedding conventions in order: an "@lat,lng" segment,
// a query-parameter pair, then a "lat,lng" path segment. It is
// best-effort: ok is false when no convention matches or the string cannot
// be decoded, and callers must treat that as "cannot be plotted", not as
// an error.
func ExtractLatLng(uri string) (lat, lng float64, ok bool) {
	if uri == "" {
		return 0, 0, false
	}

	decoded := uri
	if d, err := url.QueryUnescape(uri); err == nil {
		decoded = d
	}

	if m := atPairRe.FindStringSubmatch(decoded); m != nil {
		return parsePair(m[1], m[2])
	}

	u, err := url.Parse(decoded)
	if err != nil {
		return 0, 0, false
	}

	q := u.Query()
	for _, keys := range [][2]string{{"lat", "lng"}, {"lat", "lon"}, {"latitude", "longitude"}} {
		if q.Get(keys[0]) != "" && q.Get(keys[1]) != "" {
			if lat, lng, ok = parsePair(q.Get(keys[0]), q.Get(keys[1])); ok {
				return lat, lng, true
			}
		}
	}
	for _, key := range []string{"ll", "q", "center"} {
		if v := q.Get(key); v != "" {
			if m := pairRe.FindStringSubmatch(strings.TrimSpace(v)); m != nil {
				if lat, lng, ok = parsePair(m[1], m[2]); ok {
					return lat, lng, true
				}
			}
		}
	}

	for _, seg := range strings.Split(u.Path, "/") {
		if m := pairRe.FindStringSubmatch(seg); m != nil {
			if lat, lng, ok = parsePair(m[1], m[2]); ok {
				return lat, lng, true
			}
		}
	}

	return 0, 0, false
}

func parsePair(latStr, lngStr string) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	// The upstream place API emits 0,0 for places it could not resolve.
	if lat == 0 && lng == 0 {
		return 0, 0, false
	}
	return lat, lng, true
}
