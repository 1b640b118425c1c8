package eatery

import (
	"math"
	"strings"
)

// earthRadiusMiles is the mean Earth radius used for great-circle distances.
const earthRadiusMiles = 3958.8

// Haversine returns the great-circle distance in miles between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const rad = math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(a)))
}

// NearestLocation picks the restaurant a blog entry should point at.
//
// Active locations are preferred; coming-soon locations are only considered
// when the chain has no active location at all. With coordinates the closest
// candidate wins (ties go to the lower ID). Without coordinates the first
// candidate in the same city and state wins, then the first in the same state.
// The returned distance is -1 when the match was made without coordinates.
func NearestLocation(blog Blog, locations []Location) (Location, float64, bool) {
	candidates := matchCandidates(locations)
	if len(candidates) == 0 {
		return Location{}, 0, false
	}

	if blog.HasCoordinates() {
		best := -1
		bestDist := math.Inf(1)
		for i, loc := range candidates {
			d := Haversine(blog.Latitude, blog.Longitude, loc.Latitude, loc.Longitude)
			if d < bestDist || (d == bestDist && loc.ID < candidates[best].ID) {
				best, bestDist = i, d
			}
		}
		return candidates[best], bestDist, true
	}

	city := normalizePlace(blog.City)
	if city != "" {
		for _, loc := range candidates {
			if normalizePlace(loc.City) == city && sameStateName(loc.State, blog.State) {
				return loc, -1, true
			}
		}
	}
	if strings.TrimSpace(blog.State) != "" {
		for _, loc := range candidates {
			if sameStateName(loc.State, blog.State) {
				return loc, -1, true
			}
		}
	}
	return Location{}, 0, false
}

func matchCandidates(locations []Location) []Location {
	var active, soon []Location
	for _, loc := range locations {
		switch loc.Status {
		case LocationActive:
			active = append(active, loc)
		case LocationComingSoon:
			soon = append(soon, loc)
		}
	}
	if len(active) > 0 {
		return active
	}
	return soon
}

// sameStateName compares US states given either as names or as postal codes.
func sameStateName(a, b string) bool {
	ca, cb := StateCode(a), StateCode(b)
	return ca != "" && ca == cb
}

// StateCode returns the two-letter postal code for a state name or code.
// Unknown input is returned upper-cased so foreign regions still compare.
func StateCode(s string) string {
	s = normalizePlace(s)
	if s == "" {
		return ""
	}
	if code, ok := stateCodes[s]; ok {
		return code
	}
	return strings.ToUpper(s)
}

var stateCodes = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"district of columbia": "DC", "florida": "FL", "georgia": "GA", "hawaii": "HI",
	"idaho": "ID", "illinois": "IL", "indiana": "IN", "iowa": "IA",
	"kansas": "KS", "kentucky": "KY", "louisiana": "LA", "maine": "ME",
	"maryland": "MD", "massachusetts": "MA", "michigan": "MI", "minnesota": "MN",
	"mississippi": "MS", "missouri": "MO", "montana": "MT", "nebraska": "NE",
	"nevada": "NV", "new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM",
	"new york": "NY", "north carolina": "NC", "north dakota": "ND", "ohio": "OH",
	"oklahoma": "OK", "oregon": "OR", "pennsylvania": "PA", "rhode island": "RI",
	"south carolina": "SC", "south dakota": "SD", "tennessee": "TN", "texas": "TX",
	"utah": "UT", "vermont": "VT", "virginia": "VA", "washington": "WA",
	"west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
}
