// Package geo holds distance math and address shortening for list views
package geo

import (
	"math"
	"regexp"
	"strings"
)

// EarthRadiusMiles is the mean earth radius used by Haversine
const EarthRadiusMiles = 3958.8

// Point is a WGS84 coordinate
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Valid reports whether p lies within latitude and longitude bounds
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Miles returns the great-circle distance between a and b
func Miles(a, b Point) float64 {
	lat1 := rad(a.Lat)
	lat2 := rad(b.Lat)
	dLat := rad(b.Lat - a.Lat)
	dLon := rad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// maxShort bounds the fallback abbreviation
const maxShort = 30

var streetRx = regexp.MustCompile(`^(?:\d+[A-Za-z]?\s+)?([A-Za-z0-9'. ]*?[A-Za-z0-9'.]\s(?:Street|St|Ave|Blvd|Rd|Dr|Way|Place|Pl))\b`)

// Abbreviate condenses a full address for list display.
//
//	"123 Market Street, San Francisco, CA" -> "Market Street"
//	"Market Street & 5th Street, SF"       -> "Market Street & 5th"
func Abbreviate(address string) string {
	first := strings.TrimSpace(address)
	if i := strings.Index(first, ","); i >= 0 {
		first = strings.TrimSpace(first[:i])
	}
	if first == "" {
		return ""
	}

	if left, right, ok := strings.Cut(first, " & "); ok {
		right = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(right), " Street"))
		return strings.TrimSpace(left) + " & " + right
	}

	if m := streetRx.FindStringSubmatch(first); m != nil {
		return m[1]
	}

	if r := []rune(first); len(r) > maxShort {
		return string(r[:maxShort]) + "..."
	}
	return first
}
