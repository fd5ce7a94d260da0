package utils

import (
	"errors"
	"regexp"
)

// DIVA codes and stop ids are plain decimal numbers.
var validIDPattern = regexp.MustCompile(`^[0-9]+$`)

const (
	MaxRadiusMeters = 10000
	MaxResultLimit  = 250
)

// ValidateID validates that a path id is a non-negative decimal number of sane length
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 18 {
		return errors.New("id too long (max 18 digits)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id must be a non-negative integer")
	}

	return nil
}

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateRadius validates radius values for location searches
func ValidateRadius(radius float64) error {
	if radius < 0 {
		return errors.New("radius must be non-negative")
	}

	if radius > MaxRadiusMeters {
		return errors.New("radius too large (max 10000 meters)")
	}

	return nil
}

// ValidateLimit validates the maximum number of results requested
func ValidateLimit(limit int) error {
	if limit < 0 {
		return errors.New("limit must be non-negative")
	}
	if limit > MaxResultLimit {
		return errors.New("limit too large (max 250)")
	}
	return nil
}

// ValidateLocationParams validates a complete set of location parameters
func ValidateLocationParams(lat, lon, radius float64, limit int) map[string][]string {
	fieldErrors := make(map[string][]string)

	if err := ValidateLatitude(lat); err != nil {
		fieldErrors["lat"] = append(fieldErrors["lat"], err.Error())
	}

	if err := ValidateLongitude(lon); err != nil {
		fieldErrors["lon"] = append(fieldErrors["lon"], err.Error())
	}

	if err := ValidateRadius(radius); err != nil {
		fieldErrors["radius"] = append(fieldErrors["radius"], err.Error())
	}

	if err := ValidateLimit(limit); err != nil {
		fieldErrors["limit"] = append(fieldErrors["limit"], err.Error())
	}

	return fieldErrors
}
