package utils

// IsValidCoordinate checks that a GPS pair is inside the valid range.
// Payloads occasionally carry zeroed or junk coordinates; those are
// dropped during normalization rather than surfaced on the map.
func IsValidCoordinate(latitude, longitude float64) bool {
	if latitude < -90 || latitude > 90 {
		return false
	}
	if longitude < -180 || longitude > 180 {
		return false
	}
	return true
}
